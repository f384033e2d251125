package robustness

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sawpanic/bellwether/internal/domain"
)

func f(v float64) *float64 { return &v }

func TestRawReportability_Buckets(t *testing.T) {
	assert.Equal(t, domain.ReportabilityFragile, RawReportability(nil))
	assert.Equal(t, domain.ReportabilityFragile, RawReportability(f(9_999)))
	assert.Equal(t, domain.ReportabilityCaution, RawReportability(f(10_000)))
	assert.Equal(t, domain.ReportabilityCaution, RawReportability(f(99_999)))
	assert.Equal(t, domain.ReportabilityReportable, RawReportability(f(100_000)))
}

func TestTierAdjust_Tier1Unchanged(t *testing.T) {
	assert.Equal(t, domain.ReportabilityReportable, TierAdjust(domain.ReportabilityReportable, domain.Tier1SixHourVWAP))
	assert.Equal(t, domain.ReportabilityCaution, TierAdjust(domain.ReportabilityCaution, domain.Tier1SixHourVWAP))
	assert.Equal(t, domain.ReportabilityFragile, TierAdjust(domain.ReportabilityFragile, domain.Tier1SixHourVWAP))
}

func TestTierAdjust_Tier2DowngradesOneLevel(t *testing.T) {
	assert.Equal(t, domain.ReportabilityCaution, TierAdjust(domain.ReportabilityReportable, domain.Tier2LongerVWAP))
	assert.Equal(t, domain.ReportabilityFragile, TierAdjust(domain.ReportabilityCaution, domain.Tier2LongerVWAP))
	assert.Equal(t, domain.ReportabilityFragile, TierAdjust(domain.ReportabilityFragile, domain.Tier2LongerVWAP))
}

func TestTierAdjust_Tier3CapsAtCaution(t *testing.T) {
	assert.Equal(t, domain.ReportabilityCaution, TierAdjust(domain.ReportabilityReportable, domain.Tier3Midpoint))
	assert.Equal(t, domain.ReportabilityCaution, TierAdjust(domain.ReportabilityCaution, domain.Tier3Midpoint))
	assert.Equal(t, domain.ReportabilityFragile, TierAdjust(domain.ReportabilityFragile, domain.Tier3Midpoint))
}

func TestTierAdjust_Tier4AlwaysFragile(t *testing.T) {
	assert.Equal(t, domain.ReportabilityFragile, TierAdjust(domain.ReportabilityReportable, domain.Tier4StaleOrNone))
	assert.Equal(t, domain.ReportabilityFragile, TierAdjust(domain.ReportabilityCaution, domain.Tier4StaleOrNone))
}

func TestAssess_WiresCostAndBothLabels(t *testing.T) {
	r := Assess(f(50_000), domain.Tier2LongerVWAP)
	assert.Equal(t, domain.ReportabilityCaution, r.RawReportability)
	assert.Equal(t, domain.ReportabilityFragile, r.Reportability)
	assert.Equal(t, 50_000.0, *r.CostToMove5c)
}
