package httpapi

import "time"

// ErrorResponse is the JSON body for every non-2xx response (spec.md §6/§7).
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthResponse answers GET /health.
type HealthResponse struct {
	Status             string  `json:"status"`
	MetricsCacheTTLSecs int     `json:"metrics_cache_ttl_seconds"`
	StaleCacheTTLSecs   int     `json:"stale_cache_ttl_seconds"`
	CredentialConfigured bool   `json:"credential_configured"`
	CacheConfigured      bool   `json:"cache_configured"`
	VWAPWindowHours      []int  `json:"vwap_window_hours"`
	MinTradesForVWAP     int    `json:"min_trades_for_vwap"`
}

// IndexResponse answers GET /.
type IndexResponse struct {
	Service   string            `json:"service"`
	Endpoints map[string]string `json:"endpoints"`
	Tiers     []TierDescription `json:"tiers"`
}

// TierDescription documents one row of the tiered-pricer fallback table.
type TierDescription struct {
	Tier  int    `json:"tier"`
	Label string `json:"label"`
}
