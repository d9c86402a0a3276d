package core

import (
	"fmt"

	"github.com/patchgate/patchgate/internal/contract"
	"github.com/patchgate/patchgate/schema"
)

// ScorePatches runs the model over a batch and classifies each patch via
// the fixed threshold. Classification is inclusive: a probability exactly
// at the threshold is HIGH. Validation failures abort the whole batch with
// a SchemaError; no record is silently skipped.
func ScorePatches(records []schema.PatchFeatureRecord, m contract.RiskModel, threshold float64) ([]schema.RiskScore, error) {
	scores := make([]schema.RiskScore, 0, len(records))

	for i, rec := range records {
		for _, name := range m.FeatureNames() {
			if _, ok := rec.Feature(name); !ok {
				return nil, &contract.SchemaError{
					Column: name,
					Reason: fmt.Sprintf("record %d (%s) is missing a required feature", i+1, rec.FirmwareVersion),
				}
			}
		}

		p, err := m.Predict(rec.Features)
		if err != nil {
			return nil, fmt.Errorf("model prediction failed for %s: %w", rec.FirmwareVersion, err)
		}

		label := schema.LowRisk
		if p >= threshold {
			label = schema.HighRisk
		}
		scores = append(scores, schema.RiskScore{
			FirmwareVersion: rec.FirmwareVersion,
			Probability:     p,
			Label:           label,
		})
	}

	return scores, nil
}

// Evaluate produces the deployment-blocking decision for a batch. It is
// deterministic for a fixed model version and threshold: re-running on
// identical input yields an identical decision. An empty batch is a PASS
// with zero high-risk patches, not an error.
func Evaluate(records []schema.PatchFeatureRecord, m contract.RiskModel, threshold float64, inputFile string) (schema.GateDecision, error) {
	scores, err := ScorePatches(records, m, threshold)
	if err != nil {
		return schema.GateDecision{}, err
	}

	decision := schema.GateDecision{
		InputFile:    inputFile,
		ModelVersion: m.Version(),
		Threshold:    threshold,
		Verdict:      schema.PassVerdict,
		Scores:       scores,
	}

	var sum float64
	for _, s := range scores {
		sum += s.Probability
		if s.Label == schema.HighRisk {
			decision.NHighRisk++
		}
	}
	if len(scores) > 0 {
		decision.AvgRiskScore = sum / float64(len(scores))
	}
	if decision.NHighRisk > 0 {
		decision.Verdict = schema.FailVerdict
	}

	return decision, nil
}
