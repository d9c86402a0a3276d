package cmd

import (
	"github.com/patchgate/patchgate/core"
	"github.com/patchgate/patchgate/internal/contract"
	"github.com/spf13/cobra"
)

// healthCmd summarizes fleet stability per firmware version.
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Summarize fleet health metrics per firmware version",
	Long: `Compute per-firmware-version stability metrics from the telemetry history:

- error_rate: device events per distinct affected device
- rma_rate: RMAs issued per distinct support ticket
- avg_support_tier: mean escalation tier across tickets
- health_score: composite 0-100 score (higher is healthier)
- risk_tier: LOW / MODERATE / HIGH relative to the fleet average error rate

Firmware versions with no affected devices report undefined rates rather than
zeros, so sparse history is visible instead of silently optimistic.

Examples:
  # Human-readable table
  patchgate health

  # Machine-readable output for dashboards
  patchgate health --output json
  patchgate health --output csv --output-file fleet.csv`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteHealth(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Health summary failed", err)
		}
	},
}
