package parquet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/patchgate/patchgate/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertHealthMetricsOptionalFields(t *testing.T) {
	metrics := []schema.HealthMetric{
		{
			FirmwareVersion: "fw-1.0.0",
			ErrorRate:       schema.DefinedMetric(1.25),
			RMARate:         schema.DefinedMetric(0.1),
			AvgTier:         schema.DefinedMetric(1.5),
			HealthScore:     schema.DefinedMetric(50),
			Tier:            schema.ModerateTier,
		},
		{
			FirmwareVersion: "fw-2.0.0",
			ErrorRate:       schema.DefinedMetric(0.5),
			Tier:            schema.LowTier,
			Note:            "no attributable tickets",
		},
	}

	rows := ConvertHealthMetrics(metrics)
	require.Len(t, rows, 2)

	require.NotNil(t, rows[0].ErrorRate)
	assert.InDelta(t, 1.25, *rows[0].ErrorRate, 1e-12)
	require.NotNil(t, rows[0].HealthScore)
	assert.Equal(t, "MODERATE", rows[0].RiskTier)
	assert.Nil(t, rows[0].Note)

	// Undefined metrics export as nulls, not sentinel numbers.
	assert.Nil(t, rows[1].RMARate)
	assert.Nil(t, rows[1].HealthScore)
	require.NotNil(t, rows[1].Note)
	assert.Equal(t, "no attributable tickets", *rows[1].Note)
}

func TestConvertDriftReports(t *testing.T) {
	reports := []schema.DriftReport{
		{
			FirmwareVersion: "fw-1.0.0",
			MetricName:      "error_rate",
			Baseline:        schema.DefinedMetric(1.0),
			Current:         schema.DefinedMetric(1.5),
			RelativeChange:  0.5,
			Comparable:      true,
			Drifted:         true,
		},
		{
			FirmwareVersion: "fw-2.0.0",
			MetricName:      "rma_rate",
			Baseline:        schema.DefinedMetric(0.2),
			Current:         schema.UndefinedMetric(),
		},
	}

	rows := ConvertDriftReports(reports)
	require.Len(t, rows, 2)
	assert.True(t, rows[0].Drifted)
	require.NotNil(t, rows[0].Current)
	assert.InDelta(t, 1.5, *rows[0].Current, 1e-12)
	assert.Nil(t, rows[1].Current)
	assert.False(t, rows[1].Comparable)
}

func TestWriteParquetRoundTrip(t *testing.T) {
	rows := []ScoredPatch{
		{RunID: 1, FirmwareVersion: "fw-1.0.0", RiskProbability: 0.17, RiskLabel: "LOW"},
		{RunID: 1, FirmwareVersion: "fw-2.0.0", RiskProbability: 0.73, RiskLabel: "HIGH"},
	}

	path := filepath.Join(t.TempDir(), "scores.parquet")
	require.NoError(t, WriteParquet(rows, path))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()
	info, err := file.Stat()
	require.NoError(t, err)

	reader := parquet.NewGenericReader[ScoredPatch](file)
	defer func() { _ = reader.Close() }()
	assert.Equal(t, int64(2), reader.NumRows())

	got := make([]ScoredPatch, 2)
	n, _ := reader.Read(got)
	require.Equal(t, 2, n)
	assert.Equal(t, rows, got)
	assert.Positive(t, info.Size())
}

func TestWriteParquetEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.parquet")
	require.NoError(t, WriteParquet([]GateRun{}, path))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}
