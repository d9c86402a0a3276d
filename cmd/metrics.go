package cmd

import (
	"github.com/patchgate/patchgate/core"
	"github.com/patchgate/patchgate/internal/contract"
	"github.com/spf13/cobra"
)

// metricsCmd displays the formal definitions behind the gate and health scores.
var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Display the formulas and thresholds behind gating and health scoring",
	Long: `Show the formal definitions behind the gate verdict, the health score,
and the drift check.

Provides complete transparency into the methodology, including:
- The feature contract the model artifact must match
- Health score formula and factor weights
- Monitoring tier cutoffs relative to the fleet average
- Drift tolerance semantics

No scoring is performed - this is purely informational.

Use this to:
- Explain a blocked deployment to a release manager
- Document the methodology for an audit
- Sanity-check a threshold or tolerance override

Examples:
  # Show default formulas
  patchgate metrics

  # Show with an overridden threshold
  patchgate metrics --threshold 0.3`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteDefinitions(cfg); err != nil {
			contract.LogFatal("Cannot display metrics", err)
		}
	},
}
