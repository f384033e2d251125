package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/sawpanic/bellwether/internal/coordinator"
	"github.com/sawpanic/bellwether/internal/domain"
)

// Handlers owns the per-market and cross-venue coordinators plus the static
// configuration facts the health/index endpoints report.
type Handlers struct {
	polymarket           *coordinator.Market
	kalshi               *coordinator.Market
	combined             *coordinator.Combined
	credentialConfigured bool
	cacheConfigured      bool
}

// NewHandlers wires the coordinators into the HTTP layer.
func NewHandlers(polymarket, kalshi *coordinator.Market, combined *coordinator.Combined, credentialConfigured, cacheConfigured bool) *Handlers {
	return &Handlers{
		polymarket:           polymarket,
		kalshi:               kalshi,
		combined:             combined,
		credentialConfigured: credentialConfigured,
		cacheConfigured:      cacheConfigured,
	}
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("httpapi: failed to encode response")
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, status int, errLabel, message string) {
	requestID, _ := r.Context().Value(requestIDKey{}).(string)
	if requestID == "" {
		requestID = "unknown"
	}
	h.writeJSON(w, status, ErrorResponse{
		Error:     errLabel,
		Message:   message,
		RequestID: requestID,
		Timestamp: time.Now().UTC(),
	})
}

// Health answers GET /health.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	windows := make([]int, 0, len(domain.VWAPWindows))
	for _, window := range domain.VWAPWindows {
		windows = append(windows, int(window.Hours()))
	}

	h.writeJSON(w, http.StatusOK, HealthResponse{
		Status:               "ok",
		MetricsCacheTTLSecs:  int(domain.MetricsCacheTTL.Seconds()),
		StaleCacheTTLSecs:    int(domain.StaleVWAPCacheTTL.Seconds()),
		CredentialConfigured: h.credentialConfigured,
		CacheConfigured:      h.cacheConfigured,
		VWAPWindowHours:      windows,
		MinTradesForVWAP:     domain.MinTradesForVWAP,
	})
}

// Index answers GET /.
func (h *Handlers) Index(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, IndexResponse{
		Service: "bellwether",
		Endpoints: map[string]string{
			"health":   "/health",
			"market":   "/api/metrics/{venue}/{id}",
			"combined": "/api/metrics/combined?pm_token=&k_ticker=",
			"legacy":   "/metrics/{id}",
		},
		Tiers: []TierDescription{
			{Tier: 1, Label: "6h VWAP"},
			{Tier: 2, Label: "12h/24h VWAP"},
			{Tier: 3, Label: "Order book midpoint"},
			{Tier: 4, Label: "Last VWAP (stale) or no data"},
		},
	})
}

// Market answers GET /api/metrics/{venue}/{id} and the legacy /metrics/{id}.
func (h *Handlers) Market(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]
	venue := vars["venue"]
	if venue == "" {
		venue = string(domain.VenuePolymarket) // legacy route
	}

	var market *coordinator.Market
	switch domain.Venue(venue) {
	case domain.VenuePolymarket:
		market = h.polymarket
	case domain.VenueKalshi:
		market = h.kalshi
	default:
		h.writeError(w, r, http.StatusNotFound, "Not found", "unknown venue: "+venue)
		return
	}

	metrics, err := market.Metrics(r.Context(), id)
	if err != nil {
		if errors.Is(err, coordinator.ErrNoOrderBook) {
			h.writeError(w, r, http.StatusNotFound, "Not found", "no order book available for "+id)
			return
		}
		h.writeError(w, r, http.StatusNotFound, "Not found", "unable to price "+id)
		return
	}

	h.writeJSON(w, http.StatusOK, metrics)
}

// Combined answers GET /api/metrics/combined.
func (h *Handlers) Combined(w http.ResponseWriter, r *http.Request) {
	pmToken := r.URL.Query().Get("pm_token")
	kTicker := r.URL.Query().Get("k_ticker")

	metrics, err := h.combined.Metrics(r.Context(), pmToken, kTicker)
	if err != nil {
		if errors.Is(err, coordinator.ErrNoIdentifier) {
			h.writeError(w, r, http.StatusBadRequest, "Bad request", "at least one of pm_token or k_ticker is required")
			return
		}
		h.writeError(w, r, http.StatusNotFound, "Not found", "unable to price combined market")
		return
	}

	h.writeJSON(w, http.StatusOK, metrics)
}

// NotFound answers any unmatched route with spec.md §6's literal
// error:"Not found" body.
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	h.writeError(w, r, http.StatusNotFound, "Not found", "the requested endpoint does not exist")
}
