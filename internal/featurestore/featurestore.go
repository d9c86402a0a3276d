// Package featurestore loads per-patch feature files and writes the scored
// audit trail. It owns all input validation: missing or malformed values
// are a SchemaError, never a silent default.
package featurestore

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/patchgate/patchgate/internal/contract"
	"github.com/patchgate/patchgate/schema"
)

// flagColumns are parsed leniently: 0/1 and true/false are both accepted
// because upstream exporters disagree on boolean encoding.
var flagColumns = map[string]struct{}{
	"is_hotfix":      {},
	"patch_security": {},
}

// LoadFeatureFile reads a delimited feature file into immutable records.
// An empty file (header only, or no rows) yields zero records and no error;
// any structural problem is a SchemaError naming the offending column.
func LoadFeatureFile(path string) ([]schema.PatchFeatureRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &contract.SchemaError{Reason: fmt.Sprintf("input features file not found at %s", path)}
	}
	defer func() { _ = file.Close() }()

	return parseFeatureCSV(file, path)
}

// parseFeatureCSV is split out so tests can feed readers directly.
func parseFeatureCSV(r io.Reader, path string) ([]schema.PatchFeatureRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		// A file with no header has no rows either; treat as empty input.
		return []schema.PatchFeatureRecord{}, nil
	}
	if err != nil {
		return nil, &contract.SchemaError{Reason: fmt.Sprintf("cannot read header of %s: %v", path, err)}
	}

	colIndex := make(map[string]int, len(header))
	for i, name := range header {
		colIndex[strings.TrimSpace(name)] = i
	}

	// Accept the legacy "version" header as the patch identifier.
	if _, ok := colIndex[schema.IdentifierColumn]; !ok {
		if i, ok := colIndex["version"]; ok {
			colIndex[schema.IdentifierColumn] = i
		}
	}

	required := append([]string{schema.IdentifierColumn}, schema.FeatureColumns...)
	var missing []string
	for _, col := range required {
		if _, ok := colIndex[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &contract.SchemaError{
			Column: strings.Join(missing, ", "),
			Reason: fmt.Sprintf("required column(s) missing from %s", path),
		}
	}

	records := []schema.PatchFeatureRecord{}
	rowNum := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			return nil, &contract.SchemaError{Reason: fmt.Sprintf("row %d of %s is malformed: %v", rowNum, path, err)}
		}

		rec := schema.PatchFeatureRecord{
			FirmwareVersion: strings.TrimSpace(row[colIndex[schema.IdentifierColumn]]),
			Features:        make(map[string]float64, len(schema.FeatureColumns)),
		}
		for _, col := range schema.FeatureColumns {
			raw := strings.TrimSpace(row[colIndex[col]])
			v, err := parseFeatureValue(col, raw)
			if err != nil {
				return nil, &contract.SchemaError{
					Column: col,
					Reason: fmt.Sprintf("row %d of %s: %v", rowNum, path, err),
				}
			}
			rec.Features[col] = v
		}
		records = append(records, rec)
	}

	return records, nil
}

// parseFeatureValue parses one cell, normalizing boolean flags to 0/1.
func parseFeatureValue(col, raw string) (float64, error) {
	if raw == "" {
		return 0, errors.New("value is empty")
	}
	if _, isFlag := flagColumns[col]; isFlag {
		switch strings.ToLower(raw) {
		case "true":
			return 1, nil
		case "false":
			return 0, nil
		}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("value %q is not numeric", raw)
	}
	// ParseFloat accepts NaN and Inf spellings; those must fail here as bad
	// input rather than later in the model as a generic prediction error.
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("value %q is not finite", raw)
	}
	return v, nil
}

// DefaultScoredPath derives the audit file path from the input file name.
func DefaultScoredPath(inputPath string) string {
	base := inputPath
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}
	return "scored_" + base
}

// WriteScoredCSV writes the per-run audit trail: every input record paired
// with its risk score and HIGH flag. Scores must align with records.
func WriteScoredCSV(path string, records []schema.PatchFeatureRecord, scores []schema.RiskScore) error {
	if len(records) != len(scores) {
		return fmt.Errorf("record/score count mismatch: %d vs %d", len(records), len(scores))
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create scored output %q: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	w := csv.NewWriter(file)
	defer w.Flush()

	header := append([]string{schema.IdentifierColumn}, schema.FeatureColumns...)
	header = append(header, "risk_score", "high_risk_flag")
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write scored header: %w", err)
	}

	for i, rec := range records {
		row := make([]string, 0, len(header))
		row = append(row, rec.FirmwareVersion)
		for _, col := range schema.FeatureColumns {
			row = append(row, strconv.FormatFloat(rec.Features[col], 'g', -1, 64))
		}
		row = append(row, strconv.FormatFloat(scores[i].Probability, 'g', -1, 64))
		flag := "0"
		if scores[i].Label == schema.HighRisk {
			flag = "1"
		}
		row = append(row, flag)
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write scored row %d: %w", i+1, err)
		}
	}
	return nil
}
