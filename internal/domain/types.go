// Package domain holds the wire-independent market data and pricing types
// shared across the adapter, kernel, pricer, robustness and coordinator
// layers of the bellwether service.
package domain

import "time"

// Venue identifies which upstream market the adapter talks to.
type Venue string

const (
	VenuePolymarket Venue = "polymarket"
	VenueKalshi     Venue = "kalshi"
)

// OrderBookLevel is a single price/size pair. Immutable once parsed.
type OrderBookLevel struct {
	Price float64 `json:"price"`
	Size  float64 `json:"size"`
}

// OrderBook holds the normalised, sorted bid/ask ladders for one venue.
// Bids are sorted descending by price, asks ascending. Any level with a
// non-positive price or size has already been discarded by the adapter.
type OrderBook struct {
	Bids []OrderBookLevel `json:"bids"`
	Asks []OrderBookLevel `json:"asks"`
}

// Trade is a single executed print.
type Trade struct {
	Price     float64 `json:"price"`
	Size      float64 `json:"size"`
	Timestamp int64   `json:"timestamp_ms"`
}

// Tier identifies which pricing fallback produced a TieredPrice.
type Tier int

const (
	Tier1SixHourVWAP Tier = 1
	Tier2LongerVWAP  Tier = 2
	Tier3Midpoint    Tier = 3
	Tier4StaleOrNone Tier = 4
)

// TieredPrice is the bellwether's sum-type answer: a tier tag, an optional
// probability, a human label, and the VWAP bookkeeping that produced it.
type TieredPrice struct {
	Tier        Tier     `json:"tier"`
	Price       *float64 `json:"price"`
	Label       string   `json:"label"`
	WindowHours *int     `json:"window_hours,omitempty"`
	TradeCount  int      `json:"trade_count"`
	TotalVolume float64  `json:"total_volume"`
	Source      string   `json:"source"`
}

// Reportability summarises how expensive it would be to manipulate a price.
type Reportability string

const (
	ReportabilityFragile    Reportability = "fragile"
	ReportabilityCaution    Reportability = "caution"
	ReportabilityReportable Reportability = "reportable"
)

// Robustness carries the cost-to-move figure and its tier-adjusted label.
type Robustness struct {
	CostToMove5c    *float64      `json:"cost_to_move_5c"`
	RawReportability Reportability `json:"raw_reportability"`
	Reportability    Reportability `json:"reportability"`
	WeakestVenue     string        `json:"weakest_venue,omitempty"`
}

// MarketMetrics is the single-venue response shape.
type MarketMetrics struct {
	TokenID          string     `json:"token_id"`
	Platform         Venue      `json:"platform"`
	BellwetherPrice  *float64   `json:"bellwether_price"`
	PriceTier        Tier       `json:"price_tier"`
	PriceLabel       string     `json:"price_label"`
	Source           string     `json:"source"`
	Robustness       Robustness `json:"robustness"`
	WindowHours      *int       `json:"window_hours,omitempty"`
	TradeCount       int        `json:"trade_count"`
	TotalVolume      float64    `json:"total_volume"`
	OrderBookMidpoint *float64  `json:"orderbook_midpoint"`
	CurrentPrice     *float64   `json:"current_price"`
	FetchedAt        time.Time `json:"fetched_at"`
	Cached           bool       `json:"cached"`
}

// PlatformPrices carries each venue's most recent trade price for the
// combined endpoint.
type PlatformPrices struct {
	Polymarket *float64 `json:"polymarket"`
	Kalshi     *float64 `json:"kalshi"`
}

// CombinedMetrics is the cross-venue response shape.
type CombinedMetrics struct {
	BellwetherPrice   *float64       `json:"bellwether_price"`
	PriceTier         Tier           `json:"price_tier"`
	PriceLabel        string         `json:"price_label"`
	Source            string         `json:"source"`
	Robustness        Robustness     `json:"robustness"`
	WindowHours       *int           `json:"window_hours,omitempty"`
	TradeCount        int            `json:"trade_count"`
	TotalVolume       float64        `json:"total_volume"`
	OrderBookMidpoint *float64       `json:"orderbook_midpoint"`
	PlatformPrices    PlatformPrices `json:"platform_prices"`
	FetchedAt         time.Time      `json:"fetched_at"`
	Cached            bool           `json:"cached"`
}

// StaleVWAP is the long-lived, last-resort VWAP persisted whenever the
// pricer adopts a VWAP tier. Read only when tiers 1-3 all fail.
type StaleVWAP struct {
	Price       float64   `json:"price"`
	WindowHours int       `json:"window_hours"`
	TradeCount  int       `json:"trade_count"`
	StoredAt    time.Time `json:"stored_at"`
}
