package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/patchgate/patchgate/internal/contract"
	"github.com/patchgate/patchgate/internal/parquet"
	"github.com/patchgate/patchgate/schema"
)

// WriteHealthMetrics outputs the fleet health summary, dispatching based on
// the output format configured.
func WriteHealthMetrics(metrics []schema.HealthMetric, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, metrics)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeHealthCSV(w, metrics, cfg.Precision)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if cfg.OutputFile == "" {
			return fmt.Errorf("--output-file is required for parquet output")
		}
		if err := parquet.WriteParquet(parquet.ConvertHealthMetrics(metrics), cfg.OutputFile); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote parquet to %s\n", cfg.OutputFile)
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeHealthTable(metrics, cfg, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeHealthTable generates and writes the human-readable table.
func writeHealthTable(metrics []schema.HealthMetric, cfg *contract.Config, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Firmware", "ErrRate", "RMARate", "AvgTier", "Health", "Tier", "Note"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	noteWidth := getMaxTableNoteWidth(cfg)
	var data [][]string
	for _, m := range metrics {
		data = append(data, []string{
			m.FirmwareVersion,
			m.ErrorRate.Format(cfg.Precision),
			m.RMARate.Format(cfg.Precision),
			m.AvgTier.Format(cfg.Precision),
			m.HealthScore.Format(1),
			contract.GetTierLabelText(m.Tier, cfg.UseColors),
			truncate(m.Note, noteWidth),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Fprintf(writer, "\nSummarized %d firmware version(s) in %v\n", len(metrics), duration)
	return nil
}

// writeHealthCSV writes the health summary, with empty cells for undefined metrics.
func writeHealthCSV(w io.Writer, metrics []schema.HealthMetric, precision int) error {
	header := []string{"firmware_version", "error_rate", "rma_rate", "avg_support_tier", "health_score", "risk_tier", "note"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, m := range metrics {
			row := []string{
				m.FirmwareVersion,
				csvMetric(m.ErrorRate, precision),
				csvMetric(m.RMARate, precision),
				csvMetric(m.AvgTier, precision),
				csvMetric(m.HealthScore, 1),
				string(m.Tier),
				m.Note,
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
		return nil
	})
}

// csvMetric renders a metric for CSV: undefined values become empty cells,
// which downstream tooling treats as nulls.
func csvMetric(m schema.Metric, precision int) string {
	if !m.Defined {
		return ""
	}
	return fmt.Sprintf("%.*f", precision, m.Value)
}
