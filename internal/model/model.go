// Package model loads the versioned risk-model artifact used by the gate.
// The classifier is treated as an opaque scoring function behind the
// contract.RiskModel interface; any model family that emits a probability
// can replace the artifact without touching gate logic.
package model

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"slices"

	"github.com/patchgate/patchgate/internal/contract"
	"github.com/patchgate/patchgate/schema"
)

// Artifact is the on-disk model format: a versioned logistic scorer with an
// explicit input-schema contract. Keep previous versions on disk for
// rollback; promote a new one by updating the configured model path.
type Artifact struct {
	Version  string             `json:"version"`
	Features []string           `json:"features"`
	Weights  map[string]float64 `json:"weights"`
	Bias     float64            `json:"bias"`
}

// LogisticModel satisfies contract.RiskModel with a logistic artifact.
type LogisticModel struct {
	artifact Artifact
}

var _ contract.RiskModel = (*LogisticModel)(nil) // Compile-time check

// Load reads and validates a model artifact. Any failure is a
// ModelLoadError so CI operators can tell a broken pipeline from bad input.
func Load(path string) (*LogisticModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &contract.ModelLoadError{Path: path, Reason: "artifact not readable", Err: err}
	}

	var artifact Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, &contract.ModelLoadError{Path: path, Reason: "artifact is not valid JSON", Err: err}
	}

	if artifact.Version == "" {
		return nil, &contract.ModelLoadError{Path: path, Reason: "artifact has no version identifier"}
	}
	if len(artifact.Features) == 0 {
		return nil, &contract.ModelLoadError{Path: path, Reason: "artifact declares no input features"}
	}
	for _, f := range artifact.Features {
		if _, ok := artifact.Weights[f]; !ok {
			return nil, &contract.ModelLoadError{
				Path:   path,
				Reason: fmt.Sprintf("artifact missing weight for feature %q", f),
			}
		}
	}

	// The gate's feature-file contract and the artifact's input schema must
	// agree, otherwise scoring would silently misalign columns.
	expected := slices.Clone(schema.FeatureColumns)
	got := slices.Clone(artifact.Features)
	slices.Sort(expected)
	slices.Sort(got)
	if !slices.Equal(expected, got) {
		return nil, &contract.ModelLoadError{
			Path:   path,
			Reason: fmt.Sprintf("artifact feature contract %v does not match expected %v", artifact.Features, schema.FeatureColumns),
		}
	}

	return &LogisticModel{artifact: artifact}, nil
}

// Predict maps a feature vector to a risk probability via the logistic link.
func (m *LogisticModel) Predict(features map[string]float64) (float64, error) {
	z := m.artifact.Bias
	for _, name := range m.artifact.Features {
		v, ok := features[name]
		if !ok {
			return 0, fmt.Errorf("feature vector missing %q", name)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("feature %q is not finite", name)
		}
		z += m.artifact.Weights[name] * v
	}
	return 1.0 / (1.0 + math.Exp(-z)), nil
}

// Version identifies the loaded artifact.
func (m *LogisticModel) Version() string {
	return m.artifact.Version
}

// FeatureNames returns the artifact's input schema, in declaration order.
func (m *LogisticModel) FeatureNames() []string {
	return slices.Clone(m.artifact.Features)
}
