// Package kernel holds the pure numeric functions the tiered pricer and
// robustness policy build on: VWAP, depth-walk cost-to-move, and order book
// midpoint. None of these suspend on I/O; all rounding happens only at
// return, per the numeric-precision design note.
package kernel

import (
	"math"

	"github.com/sawpanic/bellwether/internal/domain"
)

// VWAPResult is the volume-weighted average price over a trade slice, plus
// the bookkeeping (count, total volume) the tiered pricer persists into the
// stale side-cache.
type VWAPResult struct {
	Price       *float64
	TradeCount  int
	TotalVolume float64
}

// VWAP computes Σ(price·size)/Σ(size) over trades, rounded to four decimal
// places. Returns a nil price iff total volume is zero.
func VWAP(trades []domain.Trade) VWAPResult {
	var notional, volume float64
	for _, t := range trades {
		notional += t.Price * t.Size
		volume += t.Size
	}

	result := VWAPResult{
		TradeCount:  len(trades),
		TotalVolume: roundToInt(volume),
	}

	if volume == 0 {
		return result
	}

	price := round4(notional / volume)
	result.Price = &price
	return result
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

func roundToInt(v float64) float64 {
	return math.Round(v)
}
