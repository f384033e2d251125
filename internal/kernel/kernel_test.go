package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawpanic/bellwether/internal/domain"
)

func lvl(price, size float64) domain.OrderBookLevel {
	return domain.OrderBookLevel{Price: price, Size: size}
}

func trade(price, size float64) domain.Trade {
	return domain.Trade{Price: price, Size: size}
}

func TestVWAP_EmptySliceIsNil(t *testing.T) {
	result := VWAP(nil)
	assert.Nil(t, result.Price)
	assert.Equal(t, 0, result.TradeCount)
}

func TestVWAP_ScenarioOne(t *testing.T) {
	// Scenario 1 from spec: twelve trades all at 0.60, sizes summing to 10000.
	trades := make([]domain.Trade, 12)
	for i := range trades {
		trades[i] = trade(0.60, 10000.0/12)
	}

	result := VWAP(trades)
	require.NotNil(t, result.Price)
	assert.InDelta(t, 0.60, *result.Price, 1e-9)
	assert.Equal(t, 12, result.TradeCount)
	assert.InDelta(t, 10000, result.TotalVolume, 1)
}

func TestVWAP_WithinMinMaxOfSlice(t *testing.T) {
	trades := []domain.Trade{trade(0.40, 100), trade(0.60, 100)}
	result := VWAP(trades)
	require.NotNil(t, result.Price)
	assert.GreaterOrEqual(t, *result.Price, 0.40)
	assert.LessOrEqual(t, *result.Price, 0.60)
}

func TestCostToMoveUp_ScenarioOne(t *testing.T) {
	asks := []domain.OrderBookLevel{lvl(0.60, 500000), lvl(0.66, 1000000)}
	cost := CostToMoveUp(asks, domain.MoveThreshold)
	require.NotNil(t, cost)
	assert.Equal(t, 300000.0, *cost)
}

func TestCostToMoveDown_ScenarioOne(t *testing.T) {
	bids := []domain.OrderBookLevel{lvl(0.58, 500000), lvl(0.54, 1000000)}
	cost := CostToMoveDown(bids, domain.MoveThreshold)
	// 0.58 - 0.05 = 0.53; 0.54 does not cross past 0.53, 0.54 > 0.53 so not
	// crossed yet; walk exhausts without crossing -> nil.
	assert.Nil(t, cost)
}

func TestCostToMove5c_ScenarioOne_UpwardCheaper(t *testing.T) {
	asks := []domain.OrderBookLevel{lvl(0.60, 500000), lvl(0.66, 1000000)}
	bids := []domain.OrderBookLevel{lvl(0.58, 500000), lvl(0.54, 1000000)}

	cost := CostToMove5c(bids, asks, domain.MoveThreshold)
	require.NotNil(t, cost)
	assert.Equal(t, 300000.0, *cost)
}

func TestCostToMoveUp_EmptyBookIsNil(t *testing.T) {
	assert.Nil(t, CostToMoveUp(nil, domain.MoveThreshold))
}

func TestCostToMoveUp_ExhaustsWithoutCrossing(t *testing.T) {
	asks := []domain.OrderBookLevel{lvl(0.50, 10), lvl(0.51, 10)}
	assert.Nil(t, CostToMoveUp(asks, domain.MoveThreshold))
}

func TestCostToMoveUp_BoundaryExactCrossing(t *testing.T) {
	// Best ask 0.50, threshold 0.05 -> target 0.55. A level at exactly 0.55
	// is the crossing level and contributes its full size-weighted cost.
	asks := []domain.OrderBookLevel{lvl(0.50, 100), lvl(0.55, 200)}
	cost := CostToMoveUp(asks, domain.MoveThreshold)
	require.NotNil(t, cost)
	assert.Equal(t, 0.50*100+0.55*200, *cost)
}

func TestMidpoint(t *testing.T) {
	bids := []domain.OrderBookLevel{lvl(0.48, 1)}
	asks := []domain.OrderBookLevel{lvl(0.52, 1)}
	mid := Midpoint(bids, asks)
	require.NotNil(t, mid)
	assert.InDelta(t, 0.5000, *mid, 1e-9)
}

func TestMidpoint_EmptySideIsNil(t *testing.T) {
	assert.Nil(t, Midpoint(nil, []domain.OrderBookLevel{lvl(0.5, 1)}))
	assert.Nil(t, Midpoint([]domain.OrderBookLevel{lvl(0.5, 1)}, nil))
}

func TestCostToMove5c_NeitherDirectionComputableIsNil(t *testing.T) {
	assert.Nil(t, CostToMove5c(nil, nil, domain.MoveThreshold))
}

func TestCostToMove5c_OnlyOneDirectionComputable(t *testing.T) {
	asks := []domain.OrderBookLevel{lvl(0.50, 100), lvl(0.60, 100)}
	cost := CostToMove5c(nil, asks, domain.MoveThreshold)
	require.NotNil(t, cost)
	assert.Equal(t, *CostToMoveUp(asks, domain.MoveThreshold), *cost)
}
