package model

import (
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/patchgate/patchgate/internal/contract"
	"github.com/patchgate/patchgate/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeArtifact(t *testing.T, artifact Artifact) string {
	t.Helper()
	data, err := json.Marshal(artifact)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func validArtifact() Artifact {
	weights := make(map[string]float64, len(schema.FeatureColumns))
	for _, f := range schema.FeatureColumns {
		weights[f] = 0.5
	}
	return Artifact{
		Version:  "risk-v3",
		Features: schema.FeatureColumns,
		Weights:  weights,
		Bias:     -1.0,
	}
}

func asModelLoadError(t *testing.T, err error) *contract.ModelLoadError {
	t.Helper()
	var loadErr *contract.ModelLoadError
	require.True(t, errors.As(err, &loadErr), "expected a ModelLoadError, got %v", err)
	return loadErr
}

func zeroFeatures() map[string]float64 {
	features := make(map[string]float64, len(schema.FeatureColumns))
	for _, f := range schema.FeatureColumns {
		features[f] = 0
	}
	return features
}

func TestLoadValidArtifact(t *testing.T) {
	m, err := Load(writeArtifact(t, validArtifact()))
	require.NoError(t, err)

	assert.Equal(t, "risk-v3", m.Version())
	assert.Equal(t, schema.FeatureColumns, m.FeatureNames())
}

func TestPredictLogistic(t *testing.T) {
	m, err := Load(writeArtifact(t, validArtifact()))
	require.NoError(t, err)

	// All-zero features: p = sigmoid(bias) = sigmoid(-1)
	p, err := m.Predict(zeroFeatures())
	require.NoError(t, err)
	assert.InDelta(t, 1.0/(1.0+math.Exp(1.0)), p, 1e-12)

	// All-one features: z = -1 + 5*0.5 = 1.5
	features := zeroFeatures()
	for f := range features {
		features[f] = 1
	}
	p, err = m.Predict(features)
	require.NoError(t, err)
	assert.InDelta(t, 1.0/(1.0+math.Exp(-1.5)), p, 1e-12)
}

func TestPredictMissingFeature(t *testing.T) {
	m, err := Load(writeArtifact(t, validArtifact()))
	require.NoError(t, err)

	features := zeroFeatures()
	delete(features, "is_hotfix")
	_, err = m.Predict(features)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is_hotfix")
}

func TestPredictNonFiniteFeature(t *testing.T) {
	m, err := Load(writeArtifact(t, validArtifact()))
	require.NoError(t, err)

	features := zeroFeatures()
	features["code_churn_score"] = math.NaN()
	_, err = m.Predict(features)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not finite")
}

func TestLoadRejectsBadArtifacts(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Artifact)
		reason string
	}{
		{
			name:   "no version",
			mutate: func(a *Artifact) { a.Version = "" },
			reason: "version",
		},
		{
			name:   "no features",
			mutate: func(a *Artifact) { a.Features = nil },
			reason: "no input features",
		},
		{
			name:   "missing weight",
			mutate: func(a *Artifact) { delete(a.Weights, "patch_security") },
			reason: "missing weight",
		},
		{
			name: "feature contract mismatch",
			mutate: func(a *Artifact) {
				a.Features = []string{"something_else"}
				a.Weights = map[string]float64{"something_else": 1}
			},
			reason: "does not match",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			artifact := validArtifact()
			tt.mutate(&artifact)
			_, err := Load(writeArtifact(t, artifact))
			loadErr := asModelLoadError(t, err)
			assert.Contains(t, loadErr.Reason, tt.reason)
		})
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Load(path)
	loadErr := asModelLoadError(t, err)
	assert.Contains(t, loadErr.Reason, "not valid JSON")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	loadErr := asModelLoadError(t, err)
	assert.Contains(t, loadErr.Reason, "not readable")
}
