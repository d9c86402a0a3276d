package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/patchgate/patchgate/core"
	"github.com/patchgate/patchgate/internal/contract"
	"github.com/patchgate/patchgate/schema"
	"github.com/spf13/cobra"
)

// gateCmd focused on CI/CD policy enforcement.
var gateCmd = &cobra.Command{
	Use:   "gate <feature-file>",
	Short: "Score a patch batch and block CI when any patch is high risk (fails build on violations)",
	Long: `Score a batch of firmware patches with the versioned risk model and enforce
the deployment gate.

Designed specifically for CI/CD integration - fails with non-zero exit code when any
patch's regression-risk probability reaches the threshold.

Exit codes:
  0 - PASS: no high-risk patches
  1 - FAIL: at least one high-risk patch (CI blocked)
  2 - input feature file is malformed or missing required columns
  3 - model artifact failed to load or violates the feature contract

Use cases:
- Pull request gates - block merges that ship risky firmware
- Release validation - score a release candidate batch before rollout
- Audit trail - every run writes a scored CSV and a tracking row

Examples:
  # Gate a patch batch with the default model and threshold
  patchgate gate features.csv

  # Stricter threshold for a hotfix train
  patchgate gate features.csv --threshold 0.3

  # Use a candidate model artifact
  patchgate gate features.csv --model models/risk_model_v003.json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteGate(rootCtx, cfg, storeManager); err != nil {
			exitGateError(err)
		}
	},
}

// exitGateError maps gate failures to the documented exit codes. CI systems
// branch on these, so the mapping is part of the public contract.
func exitGateError(err error) {
	var schemaErr *contract.SchemaError
	if errors.As(err, &schemaErr) {
		fmt.Fprintf(os.Stderr, "Fatal input error: %v\n", err)
		os.Exit(schema.ExitSchemaError)
	}
	var modelErr *contract.ModelLoadError
	if errors.As(err, &modelErr) {
		fmt.Fprintf(os.Stderr, "Fatal model error: %v\n", err)
		os.Exit(schema.ExitModelError)
	}
	contract.LogFatal("Gate run failed", err)
}
