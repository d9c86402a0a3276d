// Package schema has configs, models and shared constants for all parts of patchgate.
package schema

// PatchFeatureRecord is one candidate firmware patch read from a feature file.
// Records are immutable for the duration of a gate run.
type PatchFeatureRecord struct {
	FirmwareVersion string             // Patch identifier (e.g., v2.1.3)
	Features        map[string]float64 // Feature name -> numeric value
}

// Feature returns the named feature value and whether it is present.
func (r *PatchFeatureRecord) Feature(name string) (float64, bool) {
	v, ok := r.Features[name]
	return v, ok
}

// RiskScore is the per-patch model output after thresholding.
type RiskScore struct {
	FirmwareVersion string    `json:"firmware_version"`
	Probability     float64   `json:"risk_probability"`
	Label           RiskLabel `json:"risk_label"`
}

// GateDecision is the aggregate outcome over one batch of patches.
// It is produced once per run and never mutated afterward.
type GateDecision struct {
	InputFile    string      `json:"input_file"`
	ModelVersion string      `json:"model_version"`
	Threshold    float64     `json:"threshold"`
	NHighRisk    int         `json:"n_high_risk"`
	AvgRiskScore float64     `json:"avg_risk_score"`
	Verdict      Verdict     `json:"verdict"`
	Scores       []RiskScore `json:"scores"`
}

// GateSummary is the machine-readable stdout object consumed by CI log
// parsers. Field names and order are a stable contract.
type GateSummary struct {
	InputFile    string  `json:"input_file"`
	NHighRisk    int     `json:"n_high_risk"`
	AvgRiskScore float64 `json:"avg_risk_score"`
}

// Summary projects the decision into its stable CI-facing form.
func (d *GateDecision) Summary() GateSummary {
	return GateSummary{
		InputFile:    d.InputFile,
		NHighRisk:    d.NHighRisk,
		AvgRiskScore: d.AvgRiskScore,
	}
}

// HighRiskScores returns only the scores labeled HIGH, preserving input order.
func (d *GateDecision) HighRiskScores() []RiskScore {
	var out []RiskScore
	for _, s := range d.Scores {
		if s.Label == HighRisk {
			out = append(out, s)
		}
	}
	return out
}
