package domain

import "time"

// Policy constants. Per spec these are compile-time values, never made
// runtime-configurable: cache TTLs, VWAP windows, the min-trade floor, and
// the cost-to-move thresholds that drive reportability.
const (
	// MetricsCacheTTL is the short TTL for a full MarketMetrics/CombinedMetrics
	// record ("metrics/<id>" and "combined/<key>" namespaces).
	MetricsCacheTTL = 5 * time.Minute

	// StaleVWAPCacheTTL is the long TTL for the last-resort VWAP
	// ("stale/<id>" namespace).
	StaleVWAPCacheTTL = 7 * 24 * time.Hour

	// MinTradesForVWAP is the minimum trade count a window must have before
	// the tiered pricer will adopt it.
	MinTradesForVWAP = 10

	// TradeBufferWindow is how far back the adapter fetches trades.
	TradeBufferWindow = 24 * time.Hour

	// MoveThreshold is the 5-cent probability move used by the cost-to-move
	// depth walk.
	MoveThreshold = 0.05

	// CostFragileCeiling is the exclusive upper bound below which
	// cost-to-move-5c is "fragile".
	CostFragileCeiling = 10_000.0

	// CostReportableFloor is the inclusive lower bound above which
	// cost-to-move-5c is "reportable".
	CostReportableFloor = 100_000.0
)

// VWAPWindows is the ordered cascade the tiered pricer probes: the shortest
// window meeting MinTradesForVWAP wins, never the window with the most trades.
var VWAPWindows = []time.Duration{6 * time.Hour, 12 * time.Hour, 24 * time.Hour}

// TierForWindow maps a VWAP window to its tier tag (6h -> tier 1, everything
// else that qualifies -> tier 2).
func TierForWindow(window time.Duration) Tier {
	if window == 6*time.Hour {
		return Tier1SixHourVWAP
	}
	return Tier2LongerVWAP
}

// LabelForWindow returns the TieredPrice label for a qualifying VWAP window.
func LabelForWindow(window time.Duration) string {
	switch window {
	case 6 * time.Hour:
		return "6h VWAP"
	case 12 * time.Hour:
		return "12h VWAP"
	case 24 * time.Hour:
		return "24h VWAP"
	default:
		return "VWAP"
	}
}

// SourceForWindow returns the TieredPrice source tag for a qualifying VWAP window.
func SourceForWindow(window time.Duration) string {
	switch window {
	case 6 * time.Hour:
		return "6h_vwap"
	case 12 * time.Hour:
		return "12h_vwap"
	case 24 * time.Hour:
		return "24h_vwap"
	default:
		return "vwap"
	}
}
