package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sawpanic/bellwether/internal/cache"
	"github.com/sawpanic/bellwether/internal/config"
	"github.com/sawpanic/bellwether/internal/coordinator"
	"github.com/sawpanic/bellwether/internal/domain"
	"github.com/sawpanic/bellwether/internal/httpapi"
	"github.com/sawpanic/bellwether/internal/vendor"
)

// runServe wires configuration, cache, vendor adapters, coordinators and the
// HTTP surface together and blocks serving until an interrupt is received.
func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	store, cacheConfigured, err := buildStore(cfg)
	if err != nil {
		return fmt.Errorf("build cache store: %w", err)
	}
	metricsCache := cache.NewMetricsCache(store)

	credential := vendor.Credential(cfg.VendorBearerToken)
	polymarketAdapter := vendor.NewPolymarketAdapter(cfg.PolymarketBaseURL, credential)
	kalshiAdapter := vendor.NewKalshiAdapter(cfg.KalshiBaseURL, credential)

	polymarketMarket := coordinator.NewMarket(polymarketAdapter, domain.VenuePolymarket, metricsCache)
	kalshiMarket := coordinator.NewMarket(kalshiAdapter, domain.VenueKalshi, metricsCache)
	combined := coordinator.NewCombined(polymarketAdapter, kalshiAdapter, metricsCache)

	handlers := httpapi.NewHandlers(polymarketMarket, kalshiMarket, combined, cfg.CredentialConfigured(), cacheConfigured)
	server := httpapi.NewServer(httpapi.DefaultServerConfig(cfg.HTTPAddr), handlers)

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("bellwether: server listening")
		if err := server.Start(); err != nil {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		log.Info().Msg("bellwether: shutdown signal received")
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	log.Info().Msg("bellwether: shutdown complete")
	return nil
}

// buildStore selects the cache substrate per cfg.CacheBackend (spec.md §4.E
// "Absence" clause: "none" yields a nil Store, which the cache already
// treats as a no-op throughout).
func buildStore(cfg *config.Config) (cache.Store, bool, error) {
	switch cfg.CacheBackend {
	case config.CacheBackendNone:
		return nil, false, nil
	case config.CacheBackendRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		return cache.NewRedisStore(client), true, nil
	case config.CacheBackendMemory, "":
		return cache.NewMemStore(10_000), true, nil
	default:
		return nil, false, fmt.Errorf("unknown cache backend: %s", cfg.CacheBackend)
	}
}
