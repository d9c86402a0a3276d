package outwriter

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/patchgate/patchgate/internal/contract"
	"github.com/patchgate/patchgate/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *contract.Config {
	return &contract.Config{Precision: 4, Output: schema.TextOut}
}

func TestFprintGateDecisionFail(t *testing.T) {
	decision := &schema.GateDecision{
		InputFile:    "features.csv",
		ModelVersion: "risk-v3",
		Threshold:    0.5,
		NHighRisk:    1,
		AvgRiskScore: 0.45,
		Verdict:      schema.FailVerdict,
		Scores: []schema.RiskScore{
			{FirmwareVersion: "fw-1.0.0", Probability: 0.17, Label: schema.LowRisk},
			{FirmwareVersion: "fw-2.0.0", Probability: 0.73, Label: schema.HighRisk},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, FprintGateDecision(&buf, decision, testConfig(), time.Millisecond))
	out := buf.String()

	// The leading JSON summary is the machine-readable CI contract.
	end := strings.Index(out, "}")
	require.Greater(t, end, 0)
	var summary map[string]any
	require.NoError(t, json.Unmarshal([]byte(out[:end+1]), &summary))
	assert.Equal(t, "features.csv", summary["input_file"])
	assert.Equal(t, float64(1), summary["n_high_risk"])
	assert.InDelta(t, 0.45, summary["avg_risk_score"].(float64), 1e-12)

	assert.Contains(t, out, "High-risk patches:")
	assert.Contains(t, out, "fw-2.0.0 (risk: 0.7300, threshold: 0.50)")
	assert.NotContains(t, out, "fw-1.0.0 (risk:")
	assert.Contains(t, out, "FAIL: 1 high-risk patch(es) detected. CI BLOCKED.")
	assert.Contains(t, out, "model risk-v3")
}

func TestFprintGateDecisionPass(t *testing.T) {
	decision := &schema.GateDecision{
		InputFile: "features.csv",
		Verdict:   schema.PassVerdict,
		Scores: []schema.RiskScore{
			{FirmwareVersion: "fw-1.0.0", Probability: 0.1, Label: schema.LowRisk},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, FprintGateDecision(&buf, decision, testConfig(), time.Millisecond))
	out := buf.String()

	assert.Contains(t, out, "PASS: No high-risk patches detected. CI continues.")
	assert.NotContains(t, out, "High-risk patches:")
}

func TestWriteGateScoresCSV(t *testing.T) {
	scores := []schema.RiskScore{
		{FirmwareVersion: "fw-1.0.0", Probability: 0.1234, Label: schema.LowRisk},
		{FirmwareVersion: "fw-2.0.0", Probability: 0.9876, Label: schema.HighRisk},
	}

	var buf bytes.Buffer
	require.NoError(t, writeGateScoresCSV(&buf, scores, 2))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "firmware_version,risk_probability,risk_label", lines[0])
	assert.Equal(t, "fw-1.0.0,0.12,LOW", lines[1])
	assert.Equal(t, "fw-2.0.0,0.99,HIGH", lines[2])
}
