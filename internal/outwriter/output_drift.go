package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/patchgate/patchgate/internal/contract"
	"github.com/patchgate/patchgate/internal/parquet"
	"github.com/patchgate/patchgate/schema"
)

// WriteDriftReports outputs baseline-vs-current comparisons, dispatching
// based on the output format configured.
func WriteDriftReports(baseline schema.Baseline, reports []schema.DriftReport, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, reports)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeDriftCSV(w, reports, cfg.Precision)
		}, "Wrote CSV")
	case schema.ParquetOut:
		if cfg.OutputFile == "" {
			return fmt.Errorf("--output-file is required for parquet output")
		}
		if err := parquet.WriteParquet(parquet.ConvertDriftReports(reports), cfg.OutputFile); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote parquet to %s\n", cfg.OutputFile)
		return nil
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeDriftTable(baseline, reports, cfg, duration, w)
		}, "Wrote table")
	}
}

// writeDriftTable generates and writes the human-readable table.
func writeDriftTable(baseline schema.Baseline, reports []schema.DriftReport, cfg *contract.Config, duration time.Duration, writer io.Writer) error {
	fmt.Fprintf(writer, "Drift check against baseline %s (saved %s, tolerance %.0f%%)\n\n",
		baseline.Version, baseline.CreatedAt.Format(time.RFC3339), cfg.Tolerance*100)

	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Firmware", "Metric", "Baseline", "Current", "Change", "Status"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	drifted := 0
	for _, r := range reports {
		data = append(data, []string{
			r.FirmwareVersion,
			r.MetricName,
			r.Baseline.Format(cfg.Precision),
			r.Current.Format(cfg.Precision),
			driftChangeText(r),
			driftStatusText(r, cfg.UseColors),
		})
		if r.Drifted {
			drifted++
		}
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if drifted > 0 {
		fmt.Fprintf(writer, "\n🚨 Drift detected in %d metric(s). Model retraining recommended.\n", drifted)
	} else {
		fmt.Fprintf(writer, "\n✅ No drift detected.\n")
	}
	fmt.Fprintf(writer, "\nCompared %d metric(s) in %v\n", len(reports), duration)
	return nil
}

// driftChangeText renders the relative change, or a dash when incomparable.
func driftChangeText(r schema.DriftReport) string {
	if !r.Comparable {
		return "-"
	}
	return fmt.Sprintf("%+.1f%%", r.RelativeChange*100)
}

// driftStatusText renders the drift status with optional coloring.
func driftStatusText(r schema.DriftReport, useColors bool) string {
	switch {
	case !r.Comparable:
		return "n/a"
	case r.Drifted:
		if useColors {
			return contract.HighColor.Sprint("DRIFT")
		}
		return "DRIFT"
	default:
		if useColors {
			return contract.LowColor.Sprint("stable")
		}
		return "stable"
	}
}

// writeDriftCSV writes one row per compared metric.
func writeDriftCSV(w io.Writer, reports []schema.DriftReport, precision int) error {
	header := []string{"firmware_version", "metric", "baseline", "current", "relative_change", "comparable", "drifted"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range reports {
			row := []string{
				r.FirmwareVersion,
				r.MetricName,
				csvMetric(r.Baseline, precision),
				csvMetric(r.Current, precision),
				strconv.FormatFloat(r.RelativeChange, 'f', precision, 64),
				strconv.FormatBool(r.Comparable),
				strconv.FormatBool(r.Drifted),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
		return nil
	})
}
