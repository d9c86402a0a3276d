// Package core implements the gate decision pipeline and the health
// metrics engine that downstream prioritization and drift checks consume.
package core

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/patchgate/patchgate/internal/contract"
	"github.com/patchgate/patchgate/internal/featurestore"
	"github.com/patchgate/patchgate/internal/model"
	"github.com/patchgate/patchgate/internal/outwriter"
	"github.com/patchgate/patchgate/schema"
)

// ExecuteGate runs the risk gate end to end: load features, load the model,
// evaluate, write the audit trail, render the decision. The process exit
// code is the enforcement mechanism CI depends on, so a FAIL verdict exits
// nonzero here after the decision has been fully rendered.
//
// Error contract: feature problems surface as SchemaError, model problems
// as ModelLoadError; the command layer maps them to distinct exit codes.
func ExecuteGate(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	fmt.Fprintf(os.Stderr, "Processing input file: %s\n", cfg.FeatureFile)

	records, err := featurestore.LoadFeatureFile(cfg.FeatureFile)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Loaded %d rows from %s\n", len(records), cfg.FeatureFile)

	m, err := model.Load(cfg.ModelPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Scoring %d patches with model %s, threshold=%.2f\n", len(records), m.Version(), cfg.Threshold)

	decision, err := Evaluate(records, m, cfg.Threshold, cfg.FeatureFile)
	if err != nil {
		return err
	}

	// Audit trail: the scored file and the run record are best-effort.
	// A verdict must never flip because bookkeeping failed.
	scoredPath := cfg.ScoredOutput
	if scoredPath == "" {
		scoredPath = featurestore.DefaultScoredPath(cfg.FeatureFile)
	}
	if err := featurestore.WriteScoredCSV(scoredPath, records, decision.Scores); err != nil {
		contract.LogWarn("Scored output not written", err)
	} else {
		fmt.Fprintf(os.Stderr, "Scored output saved to %s\n", scoredPath)
	}

	if mgr != nil {
		if err := recordGateRun(ctx, mgr, &decision, start, len(records)); err != nil {
			contract.LogWarn("Gate run tracking failed", err)
		}
	}

	if err := outwriter.WriteGateDecision(&decision, cfg, time.Since(start)); err != nil {
		return err
	}

	if decision.Verdict == schema.FailVerdict {
		os.Exit(schema.ExitFail)
	}
	return nil
}

// recordGateRun persists the run in the telemetry store's audit tables.
func recordGateRun(ctx context.Context, mgr contract.StoreManager, decision *schema.GateDecision, start time.Time, totalPatches int) error {
	run := schema.GateRunRecord{
		StartTime:    start,
		EndTime:      time.Now(),
		InputFile:    decision.InputFile,
		ModelVersion: decision.ModelVersion,
		Threshold:    decision.Threshold,
		TotalPatches: totalPatches,
		NHighRisk:    decision.NHighRisk,
		AvgRiskScore: decision.AvgRiskScore,
		Verdict:      decision.Verdict,
	}
	_, err := mgr.GetTelemetryStore().RecordGateRun(ctx, run, decision.Scores)
	return err
}
