package cmd

import (
	"github.com/patchgate/patchgate/core"
	"github.com/patchgate/patchgate/internal/contract"
	"github.com/spf13/cobra"
)

// baselineCmd manages health-metric baselines.
var baselineCmd = &cobra.Command{
	Use:   "baseline",
	Short: "Manage fleet health baselines (snapshot and inspect)",
	Long: `Manage versioned snapshots of the fleet health metrics.

A baseline is the reference point for drift detection: 'patchgate drift'
compares live metrics against the most recently saved baseline. Baselines are
immutable once saved; a new save creates a new version.

Subcommands:
  save - Snapshot current metrics as the new baseline
  show - Print the most recently saved baseline

Examples:
  # Snapshot with a timestamp-derived label
  patchgate baseline save

  # Snapshot with an explicit release label
  patchgate baseline save --baseline-version fw-2.4-rollout

  # Inspect the stored snapshot
  patchgate baseline show --output json`,
}

// baselineSaveCmd snapshots the current metrics.
var baselineSaveCmd = &cobra.Command{
	Use:     "save",
	Short:   "Snapshot current fleet health metrics as the new baseline",
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteBaselineSave(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Baseline save failed", err)
		}
	},
}

// baselineShowCmd prints the stored baseline.
var baselineShowCmd = &cobra.Command{
	Use:     "show",
	Short:   "Print the most recently saved baseline",
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteBaselineShow(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Baseline show failed", err)
		}
	},
}
