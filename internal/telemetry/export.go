package telemetry

import (
	"context"
	"errors"
	"fmt"

	"github.com/patchgate/patchgate/internal/parquet"
)

// ExecuteExport dumps the gate audit trail to Parquet files for offline
// analysis and model retraining datasets.
func ExecuteExport(ctx context.Context, outputFile string) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	store := Manager.GetTelemetryStore()
	if store == nil {
		return errors.New("telemetry store is not initialized")
	}

	status, err := store.GetStatus(ctx)
	if err != nil {
		return fmt.Errorf("failed to get store status: %w", err)
	}

	if status.TotalRuns == 0 {
		return errors.New("no gate run data found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total gate runs: %d\n", status.TotalRuns)
	fmt.Printf("Total scored patches: %d\n", status.TableSizes[scoredPatchesTable])

	gateRuns, err := store.GetAllGateRuns(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve gate runs: %w", err)
	}

	scoredPatches, err := store.GetAllScoredPatches(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve scored patches: %w", err)
	}

	// Write gate runs to Parquet
	gateRunsFile := outputFile + ".gate_runs.parquet"
	parquetRuns := parquet.ConvertGateRunRecords(gateRuns)
	if err := parquet.WriteParquet(parquetRuns, gateRunsFile); err != nil {
		return fmt.Errorf("failed to write gate runs: %w", err)
	}
	fmt.Printf("Exported %d gate runs to: %s\n", len(parquetRuns), gateRunsFile)

	// Write scored patches to Parquet
	scoredFile := outputFile + ".scored_patches.parquet"
	parquetScores := parquet.ConvertScoredPatchRecords(scoredPatches)
	if err := parquet.WriteParquet(parquetScores, scoredFile); err != nil {
		return fmt.Errorf("failed to write scored patches: %w", err)
	}
	fmt.Printf("Exported %d scored patch records to: %s\n", len(parquetScores), scoredFile)

	fmt.Println("\nExport complete! The Parquet files can be used with:")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Any other Parquet-compatible tool")

	return nil
}
