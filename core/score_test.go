package core

import (
	"errors"
	"testing"

	"github.com/patchgate/patchgate/internal/contract"
	"github.com/patchgate/patchgate/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubModel returns a fixed probability per firmware version.
type stubModel struct {
	probs    map[string]float64
	features []string
}

func (m *stubModel) Predict(features map[string]float64) (float64, error) {
	// The stub encodes its answer through the first feature value.
	return features[m.features[0]], nil
}

func (m *stubModel) Version() string { return "stub-v1" }

func (m *stubModel) FeatureNames() []string { return m.features }

// newStubRecord builds a record whose first feature carries the probability
// the stub model should return.
func newStubRecord(version string, prob float64) schema.PatchFeatureRecord {
	features := make(map[string]float64, len(schema.FeatureColumns))
	for _, col := range schema.FeatureColumns {
		features[col] = 0
	}
	features[schema.FeatureColumns[0]] = prob
	return schema.PatchFeatureRecord{FirmwareVersion: version, Features: features}
}

func newStub() *stubModel {
	return &stubModel{features: schema.FeatureColumns}
}

// TestScorePatchesThresholdBoundary verifies the inclusive threshold rule.
func TestScorePatchesThresholdBoundary(t *testing.T) {
	tests := []struct {
		name     string
		prob     float64
		expected schema.RiskLabel
	}{
		{name: "below threshold", prob: 0.49, expected: schema.LowRisk},
		{name: "exactly at threshold", prob: 0.50, expected: schema.HighRisk},
		{name: "above threshold", prob: 0.51, expected: schema.HighRisk},
		{name: "zero", prob: 0.0, expected: schema.LowRisk},
		{name: "one", prob: 1.0, expected: schema.HighRisk},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := []schema.PatchFeatureRecord{newStubRecord("fw-1.0.0", tt.prob)}
			scores, err := ScorePatches(records, newStub(), schema.DefaultRiskThreshold)
			require.NoError(t, err)
			require.Len(t, scores, 1)
			assert.Equal(t, tt.expected, scores[0].Label)
			assert.InDelta(t, tt.prob, scores[0].Probability, 1e-12)
		})
	}
}

// TestScorePatchesMissingFeature verifies that validation failures abort the
// batch with a SchemaError naming the feature.
func TestScorePatchesMissingFeature(t *testing.T) {
	rec := newStubRecord("fw-1.0.0", 0.3)
	delete(rec.Features, "code_churn_score")

	_, err := ScorePatches([]schema.PatchFeatureRecord{rec}, newStub(), 0.5)
	require.Error(t, err)

	var schemaErr *contract.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, "code_churn_score", schemaErr.Column)
}

// TestEvaluateEmptyBatch verifies that an empty batch is a PASS, not an error.
func TestEvaluateEmptyBatch(t *testing.T) {
	decision, err := Evaluate(nil, newStub(), 0.5, "empty.csv")
	require.NoError(t, err)

	assert.Equal(t, schema.PassVerdict, decision.Verdict)
	assert.Equal(t, 0, decision.NHighRisk)
	assert.Zero(t, decision.AvgRiskScore)
	assert.Empty(t, decision.Scores)
}

// TestEvaluateMixedBatch verifies verdict, counts and averaging over a batch
// with both labels present.
func TestEvaluateMixedBatch(t *testing.T) {
	records := []schema.PatchFeatureRecord{
		newStubRecord("fw-1.0.0", 0.1),
		newStubRecord("fw-1.1.0", 0.6),
		newStubRecord("fw-1.2.0", 0.2),
		newStubRecord("fw-2.0.0", 0.9),
		newStubRecord("fw-2.1.0", 0.5),
	}

	decision, err := Evaluate(records, newStub(), 0.5, "features.csv")
	require.NoError(t, err)

	assert.Equal(t, schema.FailVerdict, decision.Verdict)
	assert.Equal(t, 3, decision.NHighRisk)
	assert.InDelta(t, (0.1+0.6+0.2+0.9+0.5)/5, decision.AvgRiskScore, 1e-12)
	assert.Equal(t, "features.csv", decision.InputFile)
	assert.Equal(t, "stub-v1", decision.ModelVersion)
	assert.Len(t, decision.HighRiskScores(), 3)
}

// TestEvaluateAllLowPasses verifies a clean batch passes.
func TestEvaluateAllLowPasses(t *testing.T) {
	records := []schema.PatchFeatureRecord{
		newStubRecord("fw-1.0.0", 0.1),
		newStubRecord("fw-1.1.0", 0.2),
	}

	decision, err := Evaluate(records, newStub(), 0.5, "features.csv")
	require.NoError(t, err)

	assert.Equal(t, schema.PassVerdict, decision.Verdict)
	assert.Equal(t, 0, decision.NHighRisk)
}

// TestEvaluateDeterministic verifies re-running on identical input yields an
// identical decision.
func TestEvaluateDeterministic(t *testing.T) {
	records := []schema.PatchFeatureRecord{
		newStubRecord("fw-1.0.0", 0.42),
		newStubRecord("fw-1.1.0", 0.77),
	}

	first, err := Evaluate(records, newStub(), 0.5, "features.csv")
	require.NoError(t, err)
	second, err := Evaluate(records, newStub(), 0.5, "features.csv")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
