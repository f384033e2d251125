package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawpanic/bellwether/internal/domain"
)

func TestMemStore_SetGetRoundTrip(t *testing.T) {
	store := NewMemStore(10)
	defer store.Stop()

	ctx := context.Background()
	store.Set(ctx, "k", []byte("v"), time.Minute)

	value, ok := store.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), value)
}

func TestMemStore_ExpiredEntryIsMiss(t *testing.T) {
	store := NewMemStore(10)
	defer store.Stop()

	ctx := context.Background()
	store.Set(ctx, "k", []byte("v"), -time.Second)

	_, ok := store.Get(ctx, "k")
	assert.False(t, ok)
}

func TestMemStore_MissingKeyIsMiss(t *testing.T) {
	store := NewMemStore(10)
	defer store.Stop()

	_, ok := store.Get(context.Background(), "missing")
	assert.False(t, ok)
}

func TestMetricsCache_NilStoreIsNoOp(t *testing.T) {
	c := NewMetricsCache(nil)
	ctx := context.Background()

	c.SetMarketMetrics(ctx, "tok", domain.MarketMetrics{})
	_, ok := c.GetMarketMetrics(ctx, "tok")
	assert.False(t, ok)
}

func TestMetricsCache_FreshEntryIsHitWithCachedFlag(t *testing.T) {
	store := NewMemStore(10)
	defer store.Stop()
	c := NewMetricsCache(store)
	ctx := context.Background()

	record := domain.MarketMetrics{TokenID: "tok", FetchedAt: time.Now()}
	c.SetMarketMetrics(ctx, "tok", record)

	got, ok := c.GetMarketMetrics(ctx, "tok")
	require.True(t, ok)
	assert.True(t, got.Cached)
	assert.Equal(t, "tok", got.TokenID)
}

func TestMetricsCache_StaleEntryFailsFreshnessCheck(t *testing.T) {
	store := NewMemStore(10)
	defer store.Stop()
	c := NewMetricsCache(store)
	ctx := context.Background()

	record := domain.MarketMetrics{TokenID: "tok", FetchedAt: time.Now().Add(-domain.MetricsCacheTTL * 2)}
	// Set with a generous substrate TTL so only the freshness re-check (not
	// substrate expiry) is exercised.
	c.store.Set(ctx, metricsPrefix+"tok", mustMarshal(record), time.Hour)

	_, ok := c.GetMarketMetrics(ctx, "tok")
	assert.False(t, ok)
}

func TestMetricsCache_StaleVWAPHasNoFreshnessCheck(t *testing.T) {
	store := NewMemStore(10)
	defer store.Stop()
	c := NewMetricsCache(store)
	ctx := context.Background()

	entry := domain.StaleVWAP{Price: 0.42, WindowHours: 12, TradeCount: 22, StoredAt: time.Now().Add(-30 * 24 * time.Hour)}
	c.SetStaleVWAP(ctx, "tok", entry)

	got, ok := c.GetStaleVWAP(ctx, "tok")
	require.True(t, ok)
	assert.Equal(t, 0.42, got.Price)
}

func TestMetricsCache_CombinedNamespaceDoesNotCollideWithMetrics(t *testing.T) {
	store := NewMemStore(10)
	defer store.Stop()
	c := NewMetricsCache(store)
	ctx := context.Background()

	c.SetMarketMetrics(ctx, "pm_k", domain.MarketMetrics{TokenID: "solo", FetchedAt: time.Now()})
	c.SetCombinedMetrics(ctx, "pm_k", domain.CombinedMetrics{FetchedAt: time.Now()})

	metrics, ok := c.GetMarketMetrics(ctx, "pm_k")
	require.True(t, ok)
	assert.Equal(t, "solo", metrics.TokenID)

	combined, ok := c.GetCombinedMetrics(ctx, "pm_k")
	require.True(t, ok)
	assert.NotNil(t, combined)
}

func TestRequestGate_CoalescesConcurrentCalls(t *testing.T) {
	gate := NewRequestGate()
	calls := 0
	done := make(chan struct{})

	fn := func() (interface{}, error) {
		calls++
		<-done
		return "result", nil
	}

	results := make(chan interface{}, 2)
	go func() {
		v, _ := gate.Do("key", fn)
		results <- v
	}()
	go func() {
		v, _ := gate.Do("key", fn)
		results <- v
	}()

	time.Sleep(10 * time.Millisecond)
	close(done)

	r1 := <-results
	r2 := <-results
	assert.Equal(t, "result", r1)
	assert.Equal(t, "result", r2)
	assert.Equal(t, 1, calls)
}

func mustMarshal(v interface{}) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}
