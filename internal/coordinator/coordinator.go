// Package coordinator implements the per-market and cross-venue request
// flows (spec.md §4.F/§4.G): cache lookup, concurrent upstream fan-out,
// tiered pricing, robustness assessment, and cache write-back.
package coordinator

import (
	"context"
	"errors"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	cachepkg "github.com/sawpanic/bellwether/internal/cache"
	"github.com/sawpanic/bellwether/internal/domain"
	"github.com/sawpanic/bellwether/internal/kernel"
	"github.com/sawpanic/bellwether/internal/pricer"
	"github.com/sawpanic/bellwether/internal/robustness"
	"github.com/sawpanic/bellwether/internal/vendor"
)

// ErrNoOrderBook is returned by Market when the vendor adapter cannot supply
// an order book at all — the per-market endpoint's terminal failure
// (spec.md §4.A "the coordinator treats an empty order book as terminal").
var ErrNoOrderBook = errors.New("coordinator: empty order book")

// MetricsCache is the subset of *cache.MetricsCache the per-market
// coordinator needs.
type MetricsCache interface {
	GetMarketMetrics(ctx context.Context, tokenID string) (*domain.MarketMetrics, bool)
	SetMarketMetrics(ctx context.Context, tokenID string, record domain.MarketMetrics)
	GetStaleVWAP(ctx context.Context, id string) (*domain.StaleVWAP, bool)
	SetStaleVWAP(ctx context.Context, id string, entry domain.StaleVWAP)
}

// Market runs the per-market flow for one venue/token pair.
type Market struct {
	adapter vendor.Adapter
	venue   domain.Venue
	cache   MetricsCache
	gate    *cachepkg.RequestGate
}

// NewMarket wires one venue adapter to the shared metrics cache. A
// per-token single-flight gate sits in front of the whole cache-check/fetch/
// write pipeline, so concurrent requests for the same token collapse into
// one upstream round trip.
func NewMarket(adapter vendor.Adapter, venue domain.Venue, cache MetricsCache) *Market {
	return &Market{adapter: adapter, venue: venue, cache: cache, gate: cachepkg.NewRequestGate()}
}

// Metrics runs steps 1-6 of spec.md §4.F and returns ErrNoOrderBook when the
// vendor cannot supply a book at all.
func (m *Market) Metrics(ctx context.Context, tokenID string) (domain.MarketMetrics, error) {
	result, err := m.gate.Do(tokenID, func() (interface{}, error) {
		return m.fetchMetrics(ctx, tokenID)
	})
	if err != nil {
		return domain.MarketMetrics{}, err
	}
	return result.(domain.MarketMetrics), nil
}

func (m *Market) fetchMetrics(ctx context.Context, tokenID string) (domain.MarketMetrics, error) {
	if m.cache != nil {
		if cached, ok := m.cache.GetMarketMetrics(ctx, tokenID); ok {
			return *cached, nil
		}
	}

	book := m.adapter.FetchOrderBook(ctx, tokenID)
	if len(book.Bids) == 0 && len(book.Asks) == 0 {
		return domain.MarketMetrics{}, ErrNoOrderBook
	}

	trades := m.adapter.FetchTrades(ctx, tokenID, domain.TradeBufferWindow)

	tp := pricer.Price(ctx, tokenID, trades, book, m.cache)
	cost := kernel.CostToMove5c(book.Bids, book.Asks, domain.MoveThreshold)
	rob := robustness.Assess(cost, tp.Tier)

	currentPrice := newestTradePrice(trades)

	record := domain.MarketMetrics{
		TokenID:           tokenID,
		Platform:          m.venue,
		BellwetherPrice:   tp.Price,
		PriceTier:         tp.Tier,
		PriceLabel:        tp.Label,
		Source:            tp.Source,
		Robustness:        rob,
		WindowHours:       tp.WindowHours,
		TradeCount:        tp.TradeCount,
		TotalVolume:       tp.TotalVolume,
		OrderBookMidpoint: kernel.Midpoint(book.Bids, book.Asks),
		CurrentPrice:      currentPrice,
		FetchedAt:         time.Now().UTC(),
		Cached:            false,
	}

	if m.cache != nil {
		m.cache.SetMarketMetrics(ctx, tokenID, record)
	}
	return record, nil
}

func newestTradePrice(trades []domain.Trade) *float64 {
	if len(trades) == 0 {
		return nil
	}
	newest := trades[0]
	for _, t := range trades[1:] {
		if t.Timestamp > newest.Timestamp {
			newest = t
		}
	}
	price := newest.Price
	return &price
}

// CombinedCache is the subset of *cache.MetricsCache the cross-venue
// coordinator needs.
type CombinedCache interface {
	GetCombinedMetrics(ctx context.Context, key string) (*domain.CombinedMetrics, bool)
	SetCombinedMetrics(ctx context.Context, key string, record domain.CombinedMetrics)
	GetStaleVWAP(ctx context.Context, id string) (*domain.StaleVWAP, bool)
	SetStaleVWAP(ctx context.Context, id string, entry domain.StaleVWAP)
}

// Combined runs the cross-venue flow (spec.md §4.G).
type Combined struct {
	polymarket vendor.Adapter
	kalshi     vendor.Adapter
	cache      CombinedCache
	gate       *cachepkg.RequestGate
}

// NewCombined wires both venue adapters to the shared metrics cache, with a
// per-identifier-pair single-flight gate in front of the same pipeline
// Market uses it for.
func NewCombined(polymarket, kalshi vendor.Adapter, cache CombinedCache) *Combined {
	return &Combined{polymarket: polymarket, kalshi: kalshi, cache: cache, gate: cachepkg.NewRequestGate()}
}

// ErrNoIdentifier is returned when neither pm_token nor k_ticker is given.
var ErrNoIdentifier = errors.New("coordinator: at least one of pm_token or k_ticker is required")

// Metrics runs steps 1-8 of spec.md §4.G. pmToken and kTicker are empty when
// that side's identifier was not supplied.
func (c *Combined) Metrics(ctx context.Context, pmToken, kTicker string) (domain.CombinedMetrics, error) {
	if pmToken == "" && kTicker == "" {
		return domain.CombinedMetrics{}, ErrNoIdentifier
	}

	staleKey := pmToken + "_" + kTicker
	result, err := c.gate.Do(staleKey, func() (interface{}, error) {
		return c.fetchMetrics(ctx, pmToken, kTicker, staleKey)
	})
	if err != nil {
		return domain.CombinedMetrics{}, err
	}
	return result.(domain.CombinedMetrics), nil
}

func (c *Combined) fetchMetrics(ctx context.Context, pmToken, kTicker, staleKey string) (domain.CombinedMetrics, error) {
	if c.cache != nil {
		if cached, ok := c.cache.GetCombinedMetrics(ctx, staleKey); ok {
			return *cached, nil
		}
	}

	var pmBook, kBook domain.OrderBook
	var pmTrades, kTrades []domain.Trade

	g, gctx := errgroup.WithContext(ctx)
	if pmToken != "" {
		g.Go(func() error {
			pmBook = c.polymarket.FetchOrderBook(gctx, pmToken)
			pmTrades = c.polymarket.FetchTrades(gctx, pmToken, domain.TradeBufferWindow)
			return nil
		})
	}
	if kTicker != "" {
		g.Go(func() error {
			kBook = c.kalshi.FetchOrderBook(gctx, kTicker)
			kTrades = c.kalshi.FetchTrades(gctx, kTicker, domain.TradeBufferWindow)
			return nil
		})
	}
	_ = g.Wait() // adapters never return an error; empty results are the failure signal

	mergedBook := mergeBooks(pmBook, kBook)
	mergedTrades := append(append([]domain.Trade{}, pmTrades...), kTrades...)

	tp := pricer.Price(ctx, staleKey, mergedTrades, mergedBook, c.cache)

	pmCost := kernel.CostToMove5c(pmBook.Bids, pmBook.Asks, domain.MoveThreshold)
	kCost := kernel.CostToMove5c(kBook.Bids, kBook.Asks, domain.MoveThreshold)
	minCost, weakest := weakestLink(pmCost, kCost)

	raw := robustness.RawReportability(minCost)
	rob := domain.Robustness{
		CostToMove5c:     minCost,
		RawReportability: raw,
		Reportability:    robustness.TierAdjust(raw, tp.Tier),
		WeakestVenue:     weakest,
	}

	record := domain.CombinedMetrics{
		BellwetherPrice:   tp.Price,
		PriceTier:         tp.Tier,
		PriceLabel:        tp.Label,
		Source:            tp.Source,
		Robustness:        rob,
		WindowHours:       tp.WindowHours,
		TradeCount:        tp.TradeCount,
		TotalVolume:       tp.TotalVolume,
		OrderBookMidpoint: kernel.Midpoint(mergedBook.Bids, mergedBook.Asks),
		PlatformPrices: domain.PlatformPrices{
			Polymarket: newestTradePrice(pmTrades),
			Kalshi:     newestTradePrice(kTrades),
		},
		FetchedAt: time.Now().UTC(),
		Cached:    false,
	}

	if c.cache != nil {
		c.cache.SetCombinedMetrics(ctx, staleKey, record)
	}
	return record, nil
}

func mergeBooks(a, b domain.OrderBook) domain.OrderBook {
	bids := append(append([]domain.OrderBookLevel{}, a.Bids...), b.Bids...)
	asks := append(append([]domain.OrderBookLevel{}, a.Asks...), b.Asks...)
	sort.Slice(bids, func(i, j int) bool { return bids[i].Price > bids[j].Price })
	sort.Slice(asks, func(i, j int) bool { return asks[i].Price < asks[j].Price })
	return domain.OrderBook{Bids: bids, Asks: asks}
}

// weakestLink returns the minimum cost across the two venues (skipping
// nils) and the venue name that produced it, or ("unknown") if both are nil.
func weakestLink(pm, k *float64) (*float64, string) {
	switch {
	case pm == nil && k == nil:
		return nil, "unknown"
	case pm == nil:
		return k, string(domain.VenueKalshi)
	case k == nil:
		return pm, string(domain.VenuePolymarket)
	case *pm <= *k:
		return pm, string(domain.VenuePolymarket)
	default:
		return k, string(domain.VenueKalshi)
	}
}
