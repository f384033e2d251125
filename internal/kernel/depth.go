package kernel

import (
	"github.com/sawpanic/bellwether/internal/domain"
)

// CostToMoveUp walks the ask ladder from the best ask, accumulating
// level_price*level_size. A level strictly past p0+threshold overshoots the
// crossing and is excluded, returning the spend accumulated before it; a
// level landing exactly on p0+threshold is the boundary level and is
// included. Returns nil if asks is empty or the book never reaches the
// threshold at all.
func CostToMoveUp(asks []domain.OrderBookLevel, threshold float64) *float64 {
	if len(asks) == 0 {
		return nil
	}

	p0 := asks[0].Price
	target := p0 + threshold

	var spend float64
	for _, level := range asks {
		if level.Price > target {
			cost := roundToInt(spend)
			return &cost
		}
		spend += level.Price * level.Size
		if level.Price == target {
			cost := roundToInt(spend)
			return &cost
		}
	}
	return nil
}

// CostToMoveDown is the symmetric walk over the bid ladder: a level strictly
// below p0-threshold overshoots and is excluded; a level landing exactly on
// p0-threshold is the boundary level and is included.
func CostToMoveDown(bids []domain.OrderBookLevel, threshold float64) *float64 {
	if len(bids) == 0 {
		return nil
	}

	p0 := bids[0].Price
	target := p0 - threshold

	var spend float64
	for _, level := range bids {
		if level.Price < target {
			cost := roundToInt(spend)
			return &cost
		}
		spend += level.Price * level.Size
		if level.Price == target {
			cost := roundToInt(spend)
			return &cost
		}
	}
	return nil
}

// CostToMove5c is the minimum of the up and down costs — a manipulator picks
// the cheaper direction. If only one direction is computable, that one wins;
// if neither, nil.
func CostToMove5c(bids, asks []domain.OrderBookLevel, threshold float64) *float64 {
	up := CostToMoveUp(asks, threshold)
	down := CostToMoveDown(bids, threshold)

	switch {
	case up == nil && down == nil:
		return nil
	case up == nil:
		return down
	case down == nil:
		return up
	case *up < *down:
		return up
	default:
		return down
	}
}

// Midpoint is (best_bid+best_ask)/2, rounded to four decimals. Nil if either
// side is empty.
func Midpoint(bids, asks []domain.OrderBookLevel) *float64 {
	if len(bids) == 0 || len(asks) == 0 {
		return nil
	}
	mid := round4((bids[0].Price + asks[0].Price) / 2)
	return &mid
}
