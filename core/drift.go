package core

import (
	"context"
	"fmt"
	"time"

	"github.com/patchgate/patchgate/internal/contract"
	"github.com/patchgate/patchgate/internal/outwriter"
	"github.com/patchgate/patchgate/schema"
)

// CompareToBaseline evaluates live metrics against a stored baseline,
// producing one report per (firmware, metric) pair the baseline covers.
// This is the comparison primitive the external retraining trigger keys
// off; the retraining action itself lives outside this system.
func CompareToBaseline(baseline schema.Baseline, current []schema.HealthMetric, tolerance float64) []schema.DriftReport {
	currentFor := make(map[string]schema.HealthMetric, len(current))
	for _, m := range current {
		currentFor[m.FirmwareVersion] = m
	}

	var reports []schema.DriftReport
	for _, base := range baseline.Metrics {
		cur := currentFor[base.FirmwareVersion] // zero value has undefined metrics
		fw := base.FirmwareVersion
		reports = append(reports,
			CompareMetric(fw, "error_rate", base.ErrorRate, cur.ErrorRate, tolerance),
			CompareMetric(fw, "rma_rate", base.RMARate, cur.RMARate, tolerance),
			CompareMetric(fw, "health_score", base.HealthScore, cur.HealthScore, tolerance),
		)
	}
	return reports
}

// AnyDrift reports whether at least one comparable metric drifted.
func AnyDrift(reports []schema.DriftReport) bool {
	for _, r := range reports {
		if r.Drifted {
			return true
		}
	}
	return false
}

// ExecuteDrift runs the drift command: load the stored baseline, compute
// live metrics, compare, render. The returned flag drives the exit code
// (nonzero when drift is detected, the retraining-trigger contract).
func ExecuteDrift(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (bool, error) {
	start := time.Now()

	baseline, err := mgr.GetBaselineStore().LoadBaseline(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to load baseline: %w", err)
	}

	current, err := LoadHealthMetrics(ctx, mgr)
	if err != nil {
		return false, err
	}

	reports := CompareToBaseline(baseline, current, cfg.Tolerance)
	if err := outwriter.WriteDriftReports(baseline, reports, cfg, time.Since(start)); err != nil {
		return false, err
	}
	return AnyDrift(reports), nil
}
