// Package pricer implements the tiered fair-price cascade (spec.md §4.C):
// 6h VWAP, then 12h/24h VWAP, then order-book midpoint, then the stale
// side-cache, then "no data". The shortest qualifying window always wins,
// never the window with the most trades.
package pricer

import (
	"context"
	"time"

	"github.com/sawpanic/bellwether/internal/domain"
	"github.com/sawpanic/bellwether/internal/kernel"
)

// StaleStore is the subset of *cache.MetricsCache the pricer needs to
// persist and retrieve the last-resort VWAP. Kept as a local interface so
// this package never imports internal/cache.
type StaleStore interface {
	GetStaleVWAP(ctx context.Context, id string) (*domain.StaleVWAP, bool)
	SetStaleVWAP(ctx context.Context, id string, entry domain.StaleVWAP)
}

// Price runs the four-tier cascade for one market (or the pre-merged view of
// two markets, for the cross-venue coordinator). trades is the full 24h
// buffer the caller already fetched; book is the already-normalised order
// book (concatenated and resorted, for the cross-venue case). staleKey
// namespaces the side-cache entry — a plain token id for the per-market
// path, `"<poly_token>_<kalshi_ticker>"` for the cross-venue path.
func Price(ctx context.Context, staleKey string, trades []domain.Trade, book domain.OrderBook, store StaleStore) domain.TieredPrice {
	for _, window := range domain.VWAPWindows {
		windowed := filterToWindow(trades, window)
		result := kernel.VWAP(windowed)
		if result.TradeCount < domain.MinTradesForVWAP {
			continue
		}

		hours := int(window.Hours())
		if store != nil {
			store.SetStaleVWAP(ctx, staleKey, domain.StaleVWAP{
				Price:       *result.Price,
				WindowHours: hours,
				TradeCount:  result.TradeCount,
				StoredAt:    timeNow(),
			})
		}

		return domain.TieredPrice{
			Tier:        domain.TierForWindow(window),
			Price:       result.Price,
			Label:       domain.LabelForWindow(window),
			WindowHours: &hours,
			TradeCount:  result.TradeCount,
			TotalVolume: result.TotalVolume,
			Source:      domain.SourceForWindow(window),
		}
	}

	if mid := kernel.Midpoint(book.Bids, book.Asks); mid != nil {
		return domain.TieredPrice{
			Tier:   domain.Tier3Midpoint,
			Price:  mid,
			Label:  "Order book midpoint",
			Source: "orderbook_midpoint",
		}
	}

	if store != nil {
		if stale, ok := store.GetStaleVWAP(ctx, staleKey); ok {
			hours := stale.WindowHours
			price := stale.Price
			return domain.TieredPrice{
				Tier:        domain.Tier4StaleOrNone,
				Price:       &price,
				Label:       "Last VWAP (stale)",
				WindowHours: &hours,
				TradeCount:  stale.TradeCount,
				Source:      "stale_vwap",
			}
		}
	}

	// No window qualified, no midpoint, and no stale entry to fall back on:
	// none of the five defined source tags were actually earned, so leave it
	// unset rather than mislabeling this "stale_vwap".
	return domain.TieredPrice{
		Tier:  domain.Tier4StaleOrNone,
		Price: nil,
		Label: "No data",
	}
}

func filterToWindow(trades []domain.Trade, window time.Duration) []domain.Trade {
	cutoff := timeNow().Add(-window).UnixMilli()
	out := make([]domain.Trade, 0, len(trades))
	for _, t := range trades {
		if t.Timestamp >= cutoff {
			out = append(out, t)
		}
	}
	return out
}

// timeNow is a var so tests can fix the clock without reaching for a real
// sleep or a hidden dependency injection seam.
var timeNow = func() time.Time { return time.Now().UTC() }
