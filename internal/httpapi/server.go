package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
)

type requestIDKey struct{}

var requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "bellwether_http_request_duration_seconds",
	Help:    "HTTP request latency by route and status.",
	Buckets: prometheus.DefBuckets,
}, []string{"route", "status"})

// ServerConfig holds the listen address and server timeouts.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultServerConfig mirrors the teacher's conservative timeout defaults.
func DefaultServerConfig(addr string) ServerConfig {
	return ServerConfig{
		Addr:         addr,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// Server is the bellwether HTTP surface (spec.md §6): gorilla/mux routing,
// open CORS, structured request logging, and Prometheus instrumentation.
type Server struct {
	router *mux.Router
	server *http.Server
}

// NewServer builds the router and wraps it in an *http.Server.
func NewServer(config ServerConfig, handlers *Handlers) *Server {
	router := mux.NewRouter()
	s := &Server{router: router}

	router.Use(requestIDMiddleware)
	router.Use(loggingMiddleware)
	router.Use(metricsMiddleware)

	router.HandleFunc("/health", handlers.Health).Methods(http.MethodGet, http.MethodOptions)
	router.HandleFunc("/", handlers.Index).Methods(http.MethodGet, http.MethodOptions)
	router.HandleFunc("/api/metrics/combined", handlers.Combined).Methods(http.MethodGet, http.MethodOptions)
	router.HandleFunc("/api/metrics/{venue}/{id}", handlers.Market).Methods(http.MethodGet, http.MethodOptions)
	router.HandleFunc("/metrics/{id}", handlers.Market).Methods(http.MethodGet, http.MethodOptions)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	router.NotFoundHandler = http.HandlerFunc(handlers.NotFound)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
	})

	s.server = &http.Server{
		Addr:         config.Addr,
		Handler:      corsHandler.Handler(router),
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}
	return s
}

// Start blocks serving HTTP until the server is shut down.
func (s *Server) Start() error {
	log.Info().Str("addr", s.server.Addr).Msg("httpapi: starting server")
	err := s.server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("httpapi: shutting down")
	return s.server.Shutdown(ctx)
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-ID", id)
		ctx := context.WithValue(r.Context(), requestIDKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		requestID, _ := r.Context().Value(requestIDKey{}).(string)
		log.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("httpapi: request handled")
	})
}

func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if tpl, err := mux.CurrentRoute(r).GetPathTemplate(); err == nil {
			route = tpl
		}
		requestDuration.WithLabelValues(route, fmt.Sprintf("%d", rec.status)).Observe(time.Since(start).Seconds())
	})
}
