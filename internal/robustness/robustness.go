// Package robustness turns a raw cost-to-move-5c figure into the tiered
// reportability label the API surfaces: how far can a manipulator push the
// fair price before the cost of doing so looks reportable.
package robustness

import "github.com/sawpanic/bellwether/internal/domain"

// RawReportability buckets a cost-to-move-5c figure against the two fixed
// thresholds, before any tier adjustment. A nil cost (no computable depth
// walk — the book is too shallow to cross 5c in either direction) is
// treated the same as a cost under the fragile ceiling: there is no depth
// to defend the price with, so it is fragile.
func RawReportability(cost *float64) domain.Reportability {
	if cost == nil {
		return domain.ReportabilityFragile
	}
	switch {
	case *cost < domain.CostFragileCeiling:
		return domain.ReportabilityFragile
	case *cost >= domain.CostReportableFloor:
		return domain.ReportabilityReportable
	default:
		return domain.ReportabilityCaution
	}
}

// TierAdjust downgrades the raw label according to how much confidence the
// pricer's own tier warrants: tier 1 is trusted as-is, tier 2 drops one
// notch, tier 3 is capped at caution, and tier 4 (stale VWAP or no data at
// all) is always reported fragile regardless of what the depth walk found —
// a stale price can't vouch for current book depth.
func TierAdjust(raw domain.Reportability, tier domain.Tier) domain.Reportability {
	switch tier {
	case domain.Tier1SixHourVWAP:
		return raw
	case domain.Tier2LongerVWAP:
		return downgradeOne(raw)
	case domain.Tier3Midpoint:
		return capAtCaution(raw)
	default:
		return domain.ReportabilityFragile
	}
}

func downgradeOne(r domain.Reportability) domain.Reportability {
	switch r {
	case domain.ReportabilityReportable:
		return domain.ReportabilityCaution
	case domain.ReportabilityCaution:
		return domain.ReportabilityFragile
	default:
		return r
	}
}

func capAtCaution(r domain.Reportability) domain.Reportability {
	if r == domain.ReportabilityReportable {
		return domain.ReportabilityCaution
	}
	return r
}

// Assess computes both the raw and tier-adjusted reportability for a
// single-venue assessment. It leaves WeakestVenue empty; the cross-venue
// coordinator builds its own Robustness after comparing both venues' costs.
func Assess(cost *float64, tier domain.Tier) domain.Robustness {
	raw := RawReportability(cost)
	return domain.Robustness{
		CostToMove5c:     cost,
		RawReportability: raw,
		Reportability:    TierAdjust(raw, tier),
	}
}
