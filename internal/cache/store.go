// Package cache implements the namespaced key/value store described in
// spec.md §4.E: a short-TTL "metrics/<id>" namespace for full MarketMetrics
// records, a short-TTL "combined/<key>" namespace for CombinedMetrics
// records, and a long-TTL "stale/<id>" namespace for the last-resort VWAP.
// All namespaces share the same Store substrate; only the key prefix and the
// TTL passed to Set differ.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sawpanic/bellwether/internal/domain"
)

// Store is the raw byte-oriented substrate. Implementations: MemStore
// (in-process) and RedisStore (github.com/redis/go-redis/v9). Cache read
// errors are never propagated — callers treat them as a miss; write errors
// are logged and swallowed, per spec.md §4.E / §7.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

const (
	metricsPrefix  = "metrics/"
	stalePrefix    = "stale/"
	combinedPrefix = "combined/"
)

// MetricsCache layers the typed MarketMetrics/CombinedMetrics/StaleVWAP
// contract on top of a raw Store: namespacing, JSON encoding, and the
// freshness re-check on read that defends against a substrate whose own
// expiry granularity is coarser than the short TTL (spec.md §4.E).
type MetricsCache struct {
	store Store
}

// NewMetricsCache wraps a Store. A nil store makes every operation a no-op,
// per spec.md §4.E "Absence" clause — the service still answers correctly,
// it just fans out on every request.
func NewMetricsCache(store Store) *MetricsCache {
	return &MetricsCache{store: store}
}

// GetMarketMetrics returns a cached single-venue record if present and still
// fresh under MetricsCacheTTL.
func (c *MetricsCache) GetMarketMetrics(ctx context.Context, tokenID string) (*domain.MarketMetrics, bool) {
	if c.store == nil {
		return nil, false
	}
	raw, ok := c.store.Get(ctx, metricsPrefix+tokenID)
	if !ok {
		return nil, false
	}

	var record domain.MarketMetrics
	if err := json.Unmarshal(raw, &record); err != nil {
		log.Warn().Err(err).Str("token_id", tokenID).Msg("cache: corrupt metrics entry, treating as miss")
		return nil, false
	}
	if time.Since(record.FetchedAt) > domain.MetricsCacheTTL {
		return nil, false
	}

	record.Cached = true
	return &record, true
}

// SetMarketMetrics writes a single-venue record under its short TTL.
func (c *MetricsCache) SetMarketMetrics(ctx context.Context, tokenID string, record domain.MarketMetrics) {
	if c.store == nil {
		return
	}
	raw, err := json.Marshal(record)
	if err != nil {
		log.Warn().Err(err).Str("token_id", tokenID).Msg("cache: failed to encode metrics entry")
		return
	}
	c.store.Set(ctx, metricsPrefix+tokenID, raw, domain.MetricsCacheTTL)
}

// GetCombinedMetrics returns a cached cross-venue record, keyed under its own
// "combined/" namespace so it never collides with a single-venue key
// (spec.md §9 open question, resolved: cache it).
func (c *MetricsCache) GetCombinedMetrics(ctx context.Context, key string) (*domain.CombinedMetrics, bool) {
	if c.store == nil {
		return nil, false
	}
	raw, ok := c.store.Get(ctx, combinedPrefix+key)
	if !ok {
		return nil, false
	}

	var record domain.CombinedMetrics
	if err := json.Unmarshal(raw, &record); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache: corrupt combined entry, treating as miss")
		return nil, false
	}
	if time.Since(record.FetchedAt) > domain.MetricsCacheTTL {
		return nil, false
	}

	record.Cached = true
	return &record, true
}

// SetCombinedMetrics writes a cross-venue record under its short TTL.
func (c *MetricsCache) SetCombinedMetrics(ctx context.Context, key string, record domain.CombinedMetrics) {
	if c.store == nil {
		return
	}
	raw, err := json.Marshal(record)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache: failed to encode combined entry")
		return
	}
	c.store.Set(ctx, combinedPrefix+key, raw, domain.MetricsCacheTTL)
}

// GetStaleVWAP returns the last persisted VWAP for id, with no freshness
// check — its purpose is to be the last-resort answer regardless of age.
func (c *MetricsCache) GetStaleVWAP(ctx context.Context, id string) (*domain.StaleVWAP, bool) {
	if c.store == nil {
		return nil, false
	}
	raw, ok := c.store.Get(ctx, stalePrefix+id)
	if !ok {
		return nil, false
	}

	var entry domain.StaleVWAP
	if err := json.Unmarshal(raw, &entry); err != nil {
		log.Warn().Err(err).Str("id", id).Msg("cache: corrupt stale entry, treating as miss")
		return nil, false
	}
	return &entry, true
}

// SetStaleVWAP persists a VWAP under its long TTL.
func (c *MetricsCache) SetStaleVWAP(ctx context.Context, id string, entry domain.StaleVWAP) {
	if c.store == nil {
		return
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		log.Warn().Err(err).Str("id", id).Msg("cache: failed to encode stale entry")
		return
	}
	c.store.Set(ctx, stalePrefix+id, raw, domain.StaleVWAPCacheTTL)
}
