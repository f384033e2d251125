package coordinator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawpanic/bellwether/internal/domain"
)

type fakeAdapter struct {
	mu          sync.Mutex
	book        domain.OrderBook
	trades      []domain.Trade
	bookCalls   int
	tradesCalls int
	// blockBook, if set, is closed to release FetchOrderBook calls — used to
	// hold a fetch open long enough to prove concurrent callers coalesce.
	blockBook chan struct{}
}

func (f *fakeAdapter) FetchOrderBook(ctx context.Context, id string) domain.OrderBook {
	f.mu.Lock()
	f.bookCalls++
	block := f.blockBook
	book := f.book
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	return book
}

func (f *fakeAdapter) FetchTrades(ctx context.Context, id string, window time.Duration) []domain.Trade {
	f.mu.Lock()
	f.tradesCalls++
	trades := f.trades
	f.mu.Unlock()
	return trades
}

func (f *fakeAdapter) calls() (book, trades int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bookCalls, f.tradesCalls
}

type fakeCache struct {
	metrics map[string]domain.MarketMetrics
	combined map[string]domain.CombinedMetrics
	stale    map[string]domain.StaleVWAP
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		metrics:  make(map[string]domain.MarketMetrics),
		combined: make(map[string]domain.CombinedMetrics),
		stale:    make(map[string]domain.StaleVWAP),
	}
}

func (c *fakeCache) GetMarketMetrics(ctx context.Context, tokenID string) (*domain.MarketMetrics, bool) {
	m, ok := c.metrics[tokenID]
	if !ok {
		return nil, false
	}
	m.Cached = true
	return &m, true
}

func (c *fakeCache) SetMarketMetrics(ctx context.Context, tokenID string, record domain.MarketMetrics) {
	c.metrics[tokenID] = record
}

func (c *fakeCache) GetCombinedMetrics(ctx context.Context, key string) (*domain.CombinedMetrics, bool) {
	m, ok := c.combined[key]
	if !ok {
		return nil, false
	}
	m.Cached = true
	return &m, true
}

func (c *fakeCache) SetCombinedMetrics(ctx context.Context, key string, record domain.CombinedMetrics) {
	c.combined[key] = record
}

func (c *fakeCache) GetStaleVWAP(ctx context.Context, id string) (*domain.StaleVWAP, bool) {
	s, ok := c.stale[id]
	if !ok {
		return nil, false
	}
	return &s, true
}

func (c *fakeCache) SetStaleVWAP(ctx context.Context, id string, entry domain.StaleVWAP) {
	c.stale[id] = entry
}

func TestMarket_EmptyOrderBookIs404(t *testing.T) {
	adapter := &fakeAdapter{book: domain.OrderBook{}}
	m := NewMarket(adapter, domain.VenuePolymarket, newFakeCache())

	_, err := m.Metrics(context.Background(), "tok")
	require.ErrorIs(t, err, ErrNoOrderBook)
}

func TestMarket_Tier1ReportableScenario(t *testing.T) {
	book := domain.OrderBook{
		Bids: []domain.OrderBookLevel{{Price: 0.58, Size: 500_000}, {Price: 0.54, Size: 1_000_000}},
		Asks: []domain.OrderBookLevel{{Price: 0.60, Size: 500_000}, {Price: 0.66, Size: 1_000_000}},
	}
	trades := make([]domain.Trade, 12)
	now := time.Now().UTC()
	for i := range trades {
		trades[i] = domain.Trade{Price: 0.60, Size: 10_000.0 / 12, Timestamp: now.Add(-time.Hour).UnixMilli()}
	}
	adapter := &fakeAdapter{book: book, trades: trades}
	m := NewMarket(adapter, domain.VenuePolymarket, newFakeCache())

	metrics, err := m.Metrics(context.Background(), "tok")
	require.NoError(t, err)
	require.NotNil(t, metrics.BellwetherPrice)
	assert.Equal(t, 0.6000, *metrics.BellwetherPrice)
	assert.Equal(t, domain.Tier1SixHourVWAP, metrics.PriceTier)
	require.NotNil(t, metrics.Robustness.CostToMove5c)
	assert.Equal(t, 300_000.0, *metrics.Robustness.CostToMove5c)
	assert.Equal(t, domain.ReportabilityReportable, metrics.Robustness.Reportability)
}

func TestMarket_Tier1WithShallowBookIsFragileNotUnknown(t *testing.T) {
	book := domain.OrderBook{
		Bids: []domain.OrderBookLevel{{Price: 0.58, Size: 1}},
		Asks: []domain.OrderBookLevel{{Price: 0.60, Size: 1}},
	}
	trades := make([]domain.Trade, 12)
	now := time.Now().UTC()
	for i := range trades {
		trades[i] = domain.Trade{Price: 0.60, Size: 1, Timestamp: now.Add(-time.Hour).UnixMilli()}
	}
	adapter := &fakeAdapter{book: book, trades: trades}
	m := NewMarket(adapter, domain.VenuePolymarket, newFakeCache())

	metrics, err := m.Metrics(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, domain.Tier1SixHourVWAP, metrics.PriceTier)
	assert.Nil(t, metrics.Robustness.CostToMove5c)
	assert.Equal(t, domain.ReportabilityFragile, metrics.Robustness.RawReportability)
	assert.Equal(t, domain.ReportabilityFragile, metrics.Robustness.Reportability)
}

func TestMarket_CacheHitSkipsUpstreamFetch(t *testing.T) {
	adapter := &fakeAdapter{book: domain.OrderBook{}}
	c := newFakeCache()
	c.metrics["tok"] = domain.MarketMetrics{TokenID: "tok", FetchedAt: time.Now().UTC()}
	m := NewMarket(adapter, domain.VenuePolymarket, c)

	metrics, err := m.Metrics(context.Background(), "tok")
	require.NoError(t, err)
	assert.True(t, metrics.Cached)
	assert.Equal(t, 0, adapter.bookCalls)
}

func TestCombined_RequiresAtLeastOneIdentifier(t *testing.T) {
	c := NewCombined(&fakeAdapter{}, &fakeAdapter{}, newFakeCache())
	_, err := c.Metrics(context.Background(), "", "")
	require.ErrorIs(t, err, ErrNoIdentifier)
}

func TestCombined_WeakestLinkPicksMinimumCost(t *testing.T) {
	pm := &fakeAdapter{
		book: domain.OrderBook{
			Bids: []domain.OrderBookLevel{{Price: 0.50, Size: 100}},
			Asks: []domain.OrderBookLevel{{Price: 0.55, Size: 5_000_000}, {Price: 0.65, Size: 100}},
		},
	}
	k := &fakeAdapter{
		book: domain.OrderBook{
			Bids: []domain.OrderBookLevel{{Price: 0.40, Size: 100}},
			Asks: []domain.OrderBookLevel{{Price: 0.45, Size: 100}, {Price: 0.50, Size: 60}},
		},
	}
	combined := NewCombined(pm, k, newFakeCache())

	metrics, err := combined.Metrics(context.Background(), "pm1", "k1")
	require.NoError(t, err)
	require.NotNil(t, metrics.Robustness.CostToMove5c)
	assert.Equal(t, domain.VenueKalshi, domain.Venue(metrics.Robustness.WeakestVenue))
}

func TestMarket_ConcurrentRequestsCoalesceIntoOneFetch(t *testing.T) {
	adapter := &fakeAdapter{
		book: domain.OrderBook{
			Bids: []domain.OrderBookLevel{{Price: 0.58, Size: 1}},
			Asks: []domain.OrderBookLevel{{Price: 0.60, Size: 1}},
		},
		blockBook: make(chan struct{}),
	}
	m := NewMarket(adapter, domain.VenuePolymarket, newFakeCache())

	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := m.Metrics(context.Background(), "tok")
			results <- err
		}()
	}

	time.Sleep(10 * time.Millisecond)
	close(adapter.blockBook)

	require.NoError(t, <-results)
	require.NoError(t, <-results)

	bookCalls, _ := adapter.calls()
	assert.Equal(t, 1, bookCalls)
}
