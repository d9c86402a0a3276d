package cmd

import (
	"fmt"
	"os"

	"github.com/patchgate/patchgate/core"
	"github.com/spf13/cobra"
)

// driftCmd compares live metrics against the stored baseline.
var driftCmd = &cobra.Command{
	Use:   "drift",
	Short: "Detect metric drift against the stored baseline (fails on drift)",
	Long: `Compare current fleet health metrics against the most recently saved
baseline and report per-metric relative change.

A metric drifts when |current - baseline| / baseline exceeds the tolerance
(default 20%). A zero baseline drifts on any nonzero current value. Pairs
where either side is undefined are reported as incomparable, never as drift.

Exit codes:
  0 - no drift detected
  1 - at least one metric drifted (retraining trigger)
  2 - no baseline saved yet, or the store could not be read

A scheduled CI job can branch on the exit code to page the model owners or
kick off a retraining pipeline.

Examples:
  # Default 20% tolerance
  patchgate drift

  # Tighter tolerance for a sensitive fleet
  patchgate drift --tolerance 0.1

  # Machine-readable report
  patchgate drift --output json --output-file drift.json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		drifted, err := core.ExecuteDrift(rootCtx, cfg, storeManager)
		if err != nil {
			// Missing baseline or store failure is distinct from "drifted"
			// so schedulers can tell a broken check from a firing one.
			fmt.Fprintf(os.Stderr, "Fatal drift check failed: %v\n", err)
			os.Exit(2)
		}
		if drifted {
			os.Exit(1)
		}
	},
}
