package core

import (
	"context"
	"fmt"
	"time"

	"github.com/patchgate/patchgate/internal/contract"
	"github.com/patchgate/patchgate/internal/outwriter"
	"github.com/patchgate/patchgate/schema"
)

// ExecuteBaselineSave snapshots the current fleet health metrics as the new
// baseline. Baselines are explicit, versioned records; nothing in the
// system mutates one in place.
func ExecuteBaselineSave(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	metrics, err := LoadHealthMetrics(ctx, mgr)
	if err != nil {
		return err
	}
	if len(metrics) == 0 {
		return fmt.Errorf("no telemetry history found; nothing to snapshot")
	}

	now := time.Now().UTC()
	version := cfg.BaselineVersion
	if version == "" {
		version = "baseline-" + now.Format("20060102T150405Z")
	}

	baseline := schema.Baseline{
		Version:   version,
		CreatedAt: now,
		Metrics:   metrics,
	}
	if err := mgr.GetBaselineStore().SaveBaseline(ctx, baseline); err != nil {
		return fmt.Errorf("failed to save baseline: %w", err)
	}

	fmt.Printf("Saved baseline %s covering %d firmware version(s)\n", version, len(metrics))
	return nil
}

// ExecuteBaselineShow renders the most recently stored baseline.
func ExecuteBaselineShow(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()

	baseline, err := mgr.GetBaselineStore().LoadBaseline(ctx)
	if err != nil {
		return fmt.Errorf("failed to load baseline: %w", err)
	}

	fmt.Printf("Baseline %s saved at %s\n", baseline.Version, baseline.CreatedAt.Format(time.RFC3339))
	return outwriter.WriteHealthMetrics(baseline.Metrics, cfg, time.Since(start))
}
