// Package parquet provides data structures and functions for exporting
// patchgate audit and health data to Parquet files using
// github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/patchgate/patchgate/schema"
)

// GateRun represents one completed gate invocation.
// This struct maps to the patchgate_gate_runs database table.
type GateRun struct {
	RunID        int64     `parquet:"run_id,snappy"`
	StartTime    time.Time `parquet:"start_time,snappy"`
	EndTime      time.Time `parquet:"end_time,snappy"`
	InputFile    string    `parquet:"input_file,snappy"`
	ModelVersion string    `parquet:"model_version,snappy"`
	Threshold    float64   `parquet:"threshold,snappy"`
	TotalPatches int32     `parquet:"total_patches,snappy"`
	NHighRisk    int32     `parquet:"n_high_risk,snappy"`
	AvgRiskScore float64   `parquet:"avg_risk_score,snappy"`
	Verdict      string    `parquet:"verdict,snappy"`
}

// ScoredPatch represents one scored patch within a gate run.
// This struct maps to the patchgate_scored_patches database table.
type ScoredPatch struct {
	RunID           int64   `parquet:"run_id,snappy"`
	FirmwareVersion string  `parquet:"firmware_version,snappy"`
	RiskProbability float64 `parquet:"risk_probability,snappy"`
	RiskLabel       string  `parquet:"risk_label,snappy"`
}

// HealthRow represents one firmware version's health summary. Undefined
// metrics are exported as nulls rather than sentinel numbers.
type HealthRow struct {
	FirmwareVersion string   `parquet:"firmware_version,snappy"`
	ErrorRate       *float64 `parquet:"error_rate,optional,snappy"`
	RMARate         *float64 `parquet:"rma_rate,optional,snappy"`
	AvgSupportTier  *float64 `parquet:"avg_support_tier,optional,snappy"`
	HealthScore     *float64 `parquet:"health_score,optional,snappy"`
	RiskTier        string   `parquet:"risk_tier,snappy"`
	Note            *string  `parquet:"note,optional,snappy"`
}

// DriftRow represents one baseline-vs-current metric comparison.
type DriftRow struct {
	FirmwareVersion string   `parquet:"firmware_version,snappy"`
	Metric          string   `parquet:"metric,snappy"`
	Baseline        *float64 `parquet:"baseline,optional,snappy"`
	Current         *float64 `parquet:"current,optional,snappy"`
	RelativeChange  float64  `parquet:"relative_change,snappy"`
	Comparable      bool     `parquet:"comparable,snappy"`
	Drifted         bool     `parquet:"drifted,snappy"`
}

// ConvertGateRunRecords converts store records to parquet rows.
func ConvertGateRunRecords(runs []schema.GateRunRecord) []GateRun {
	out := make([]GateRun, 0, len(runs))
	for _, r := range runs {
		out = append(out, GateRun{
			RunID:        r.RunID,
			StartTime:    r.StartTime,
			EndTime:      r.EndTime,
			InputFile:    r.InputFile,
			ModelVersion: r.ModelVersion,
			Threshold:    r.Threshold,
			TotalPatches: int32(r.TotalPatches),
			NHighRisk:    int32(r.NHighRisk),
			AvgRiskScore: r.AvgRiskScore,
			Verdict:      string(r.Verdict),
		})
	}
	return out
}

// ConvertScoredPatchRecords converts store records to parquet rows.
func ConvertScoredPatchRecords(patches []schema.ScoredPatchRecord) []ScoredPatch {
	out := make([]ScoredPatch, 0, len(patches))
	for _, p := range patches {
		out = append(out, ScoredPatch{
			RunID:           p.RunID,
			FirmwareVersion: p.FirmwareVersion,
			RiskProbability: p.Probability,
			RiskLabel:       string(p.Label),
		})
	}
	return out
}

// ConvertScores converts a single run's scores (no run ID yet).
func ConvertScores(scores []schema.RiskScore) []ScoredPatch {
	out := make([]ScoredPatch, 0, len(scores))
	for _, s := range scores {
		out = append(out, ScoredPatch{
			FirmwareVersion: s.FirmwareVersion,
			RiskProbability: s.Probability,
			RiskLabel:       string(s.Label),
		})
	}
	return out
}

// ConvertHealthMetrics converts computed health metrics to parquet rows.
func ConvertHealthMetrics(metrics []schema.HealthMetric) []HealthRow {
	out := make([]HealthRow, 0, len(metrics))
	for _, m := range metrics {
		row := HealthRow{
			FirmwareVersion: m.FirmwareVersion,
			ErrorRate:       optional(m.ErrorRate),
			RMARate:         optional(m.RMARate),
			AvgSupportTier:  optional(m.AvgTier),
			HealthScore:     optional(m.HealthScore),
			RiskTier:        string(m.Tier),
		}
		if m.Note != "" {
			note := m.Note
			row.Note = &note
		}
		out = append(out, row)
	}
	return out
}

// ConvertDriftReports converts drift comparisons to parquet rows.
func ConvertDriftReports(reports []schema.DriftReport) []DriftRow {
	out := make([]DriftRow, 0, len(reports))
	for _, r := range reports {
		out = append(out, DriftRow{
			FirmwareVersion: r.FirmwareVersion,
			Metric:          r.MetricName,
			Baseline:        optional(r.Baseline),
			Current:         optional(r.Current),
			RelativeChange:  r.RelativeChange,
			Comparable:      r.Comparable,
			Drifted:         r.Drifted,
		})
	}
	return out
}

func optional(m schema.Metric) *float64 {
	if !m.Defined {
		return nil
	}
	v := m.Value
	return &v
}

// WriteParquet writes rows of any supported row type to a file.
func WriteParquet[T any](rows []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create parquet file %q: %w", outputPath, err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if len(rows) > 0 {
		if _, err := writer.Write(rows); err != nil {
			_ = writer.Close()
			return fmt.Errorf("failed to write parquet rows: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}
