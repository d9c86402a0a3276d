package core

import (
	"fmt"

	"github.com/patchgate/patchgate/internal/contract"
	"github.com/patchgate/patchgate/schema"
)

// ExecuteDefinitions prints the scoring formulas and fixed constants so the
// gating and health methodology can be reviewed without running anything.
func ExecuteDefinitions(cfg *contract.Config) error {
	fmt.Println("Risk gate:")
	fmt.Printf("  risk_label = HIGH iff risk_probability >= threshold (threshold=%.2f)\n", cfg.Threshold)
	fmt.Println("  verdict    = FAIL iff count(HIGH) > 0")
	fmt.Println()

	fmt.Println("Feature contract (pre-deployment metrics only):")
	for _, col := range schema.FeatureColumns {
		fmt.Printf("  - %s\n", col)
	}
	fmt.Println()

	fmt.Println("Health metrics:")
	fmt.Println("  error_rate   = count(events) / count(distinct device_id)")
	fmt.Println("  rma_rate     = sum(rma_issued) / count(distinct ticket_id)")
	fmt.Printf("  health_score = 100 - (error_rate*%.0f + rma_rate*%.0f + tier_excess*%.0f), clamped to [0, 100]\n",
		schema.WErrorRate, schema.WRMARate, schema.WTierExcess)
	fmt.Println("  tier_excess  = (avg_support_tier - 1) / 2")
	fmt.Println()

	fmt.Println("Monitoring tiers (ratio of error_rate to fleet baseline):")
	fmt.Printf("  HIGH     >= %.1fx\n", schema.HighTierRatio)
	fmt.Printf("  MODERATE >= %.1fx\n", schema.ModerateTierRatio)
	fmt.Println("  LOW      otherwise")
	fmt.Println()

	fmt.Printf("Drift: |current - baseline| / baseline > tolerance (tolerance=%.2f)\n", cfg.Tolerance)
	return nil
}
