package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/patchgate/patchgate/internal/contract"
	"github.com/patchgate/patchgate/internal/parquet"
	"github.com/patchgate/patchgate/schema"
)

// WriteGateDecision emits the CI-facing decision on stdout and, when an
// output file is configured, the full score listing in the chosen format.
func WriteGateDecision(decision *schema.GateDecision, cfg *contract.Config, duration time.Duration) error {
	if err := FprintGateDecision(os.Stdout, decision, cfg, duration); err != nil {
		return err
	}

	// The full per-patch listing is optional and goes to --output-file.
	if cfg.OutputFile == "" {
		return nil
	}
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, decision)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeGateScoresCSV(w, decision.Scores, cfg.Precision)
		}, "Wrote CSV")
	case schema.ParquetOut:
		if err := parquet.WriteParquet(parquet.ConvertScores(decision.Scores), cfg.OutputFile); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote parquet to %s\n", cfg.OutputFile)
		return nil
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return FprintGateDecision(w, decision, cfg, duration)
		}, "Wrote decision")
	}
}

// FprintGateDecision renders the stable stdout contract: a JSON summary
// object, the HIGH-risk patch listing, then the human-readable verdict
// line. CI log parsers key off the summary's field names and order, so
// the layout here must not change casually.
func FprintGateDecision(w io.Writer, decision *schema.GateDecision, cfg *contract.Config, duration time.Duration) error {
	summary, err := json.MarshalIndent(decision.Summary(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode gate summary: %w", err)
	}
	fmt.Fprintln(w, string(summary))

	// Operators must be able to see which patches blocked the release.
	if high := decision.HighRiskScores(); len(high) > 0 {
		fmt.Fprintln(w, "\nHigh-risk patches:")
		for _, s := range high {
			fmt.Fprintf(w, "  - %s (risk: %.*f, threshold: %.2f)\n",
				s.FirmwareVersion, cfg.Precision, s.Probability, decision.Threshold)
		}
	}

	if decision.Verdict == schema.FailVerdict {
		fmt.Fprintf(w, "\n🚨 FAIL: %d high-risk patch(es) detected. CI BLOCKED.\n", decision.NHighRisk)
	} else {
		fmt.Fprintf(w, "\n✅ PASS: No high-risk patches detected. CI continues.\n")
	}

	fmt.Fprintf(w, "\nScored %d patch(es) with model %s in %v\n", len(decision.Scores), decision.ModelVersion, duration)
	return nil
}

// writeGateScoresCSV writes the per-patch score listing.
func writeGateScoresCSV(w io.Writer, scores []schema.RiskScore, precision int) error {
	header := []string{"firmware_version", "risk_probability", "risk_label"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, s := range scores {
			row := []string{
				s.FirmwareVersion,
				strconv.FormatFloat(s.Probability, 'f', precision, 64),
				string(s.Label),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
		return nil
	})
}
