package core

import (
	"testing"
	"time"

	"github.com/patchgate/patchgate/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func metricFor(fw string, errorRate, rmaRate, healthScore float64) schema.HealthMetric {
	return schema.HealthMetric{
		FirmwareVersion: fw,
		ErrorRate:       schema.DefinedMetric(errorRate),
		RMARate:         schema.DefinedMetric(rmaRate),
		HealthScore:     schema.DefinedMetric(healthScore),
	}
}

// TestCompareToBaseline verifies one report per (firmware, metric) pair and
// the per-metric drift outcomes.
func TestCompareToBaseline(t *testing.T) {
	baseline := schema.Baseline{
		Version:   "baseline-1",
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Metrics: []schema.HealthMetric{
			metricFor("fw-1.0.0", 1.0, 0.2, 80.0),
			metricFor("fw-2.0.0", 2.0, 0.5, 40.0),
		},
	}
	current := []schema.HealthMetric{
		// error_rate +50% drifts, rma_rate unchanged, health_score -10% holds
		metricFor("fw-1.0.0", 1.5, 0.2, 72.0),
		// fw-2.0.0 absent from current metrics: all three incomparable
	}

	reports := CompareToBaseline(baseline, current, 0.2)
	require.Len(t, reports, 6)

	byKey := make(map[string]schema.DriftReport, len(reports))
	for _, r := range reports {
		byKey[r.FirmwareVersion+"/"+r.MetricName] = r
	}

	er := byKey["fw-1.0.0/error_rate"]
	require.True(t, er.Comparable)
	assert.True(t, er.Drifted)
	assert.InDelta(t, 0.5, er.RelativeChange, 1e-12)

	rr := byKey["fw-1.0.0/rma_rate"]
	require.True(t, rr.Comparable)
	assert.False(t, rr.Drifted)

	hs := byKey["fw-1.0.0/health_score"]
	require.True(t, hs.Comparable)
	assert.False(t, hs.Drifted)
	assert.InDelta(t, -0.1, hs.RelativeChange, 1e-12)

	for _, metric := range []string{"error_rate", "rma_rate", "health_score"} {
		r := byKey["fw-2.0.0/"+metric]
		assert.False(t, r.Comparable, metric)
		assert.False(t, r.Drifted, metric)
	}
}

// TestCompareToBaselineIgnoresNewFirmware verifies versions absent from the
// baseline produce no reports.
func TestCompareToBaselineIgnoresNewFirmware(t *testing.T) {
	baseline := schema.Baseline{
		Version: "baseline-1",
		Metrics: []schema.HealthMetric{metricFor("fw-1.0.0", 1.0, 0.2, 80.0)},
	}
	current := []schema.HealthMetric{
		metricFor("fw-1.0.0", 1.0, 0.2, 80.0),
		metricFor("fw-9.0.0", 5.0, 1.0, 0.0),
	}

	reports := CompareToBaseline(baseline, current, 0.2)
	require.Len(t, reports, 3)
	for _, r := range reports {
		assert.Equal(t, "fw-1.0.0", r.FirmwareVersion)
	}
}

// TestAnyDrift verifies aggregation over the report set.
func TestAnyDrift(t *testing.T) {
	assert.False(t, AnyDrift(nil))
	assert.False(t, AnyDrift([]schema.DriftReport{
		{FirmwareVersion: "fw-1.0.0", MetricName: "error_rate", Comparable: true, Drifted: false},
	}))
	assert.True(t, AnyDrift([]schema.DriftReport{
		{FirmwareVersion: "fw-1.0.0", MetricName: "error_rate", Comparable: true, Drifted: false},
		{FirmwareVersion: "fw-1.0.0", MetricName: "rma_rate", Comparable: true, Drifted: true},
	}))
}
