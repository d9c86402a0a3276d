package schema

import (
	"fmt"
	"time"
)

// Metric is a rate or score that may be undefined for sparse groups.
// A group with zero distinct devices has no error rate; that is an expected
// condition in production data, not an error, so the zero value carries an
// explicit Defined flag instead of a NaN.
type Metric struct {
	Value   float64 `json:"value"`
	Defined bool    `json:"defined"`
}

// DefinedMetric wraps a concrete value.
func DefinedMetric(v float64) Metric {
	return Metric{Value: v, Defined: true}
}

// UndefinedMetric is the sentinel for groups with an empty denominator.
func UndefinedMetric() Metric {
	return Metric{}
}

// Format renders the metric with the given precision, or "undefined".
func (m Metric) Format(precision int) string {
	if !m.Defined {
		return "undefined"
	}
	return fmt.Sprintf("%.*f", precision, m.Value)
}

// HealthMetric is the composite stability summary for one firmware version.
type HealthMetric struct {
	FirmwareVersion string        `json:"firmware_version"`
	ErrorRate       Metric        `json:"error_rate"`
	RMARate         Metric        `json:"rma_rate"`
	AvgTier         Metric        `json:"avg_support_tier"`
	HealthScore     Metric        `json:"health_score"`
	Tier            RiskTierLevel `json:"risk_tier"`
	Note            string        `json:"note,omitempty"` // set when a group was skipped or flagged
}

// Baseline is a versioned snapshot of fleet health metrics, loaded and saved
// explicitly through the baseline store. The retraining trigger compares
// live metrics against it.
type Baseline struct {
	Version   string         `json:"version"`
	CreatedAt time.Time      `json:"created_at"`
	Metrics   []HealthMetric `json:"metrics"`
}

// MetricFor returns the baseline entry for a firmware version.
func (b *Baseline) MetricFor(firmwareVersion string) (HealthMetric, bool) {
	for _, m := range b.Metrics {
		if m.FirmwareVersion == firmwareVersion {
			return m, true
		}
	}
	return HealthMetric{}, false
}

// DriftReport is the per-metric comparison between live and baseline values.
type DriftReport struct {
	FirmwareVersion string  `json:"firmware_version"`
	MetricName      string  `json:"metric"`
	Baseline        Metric  `json:"baseline"`
	Current         Metric  `json:"current"`
	RelativeChange  float64 `json:"relative_change"`
	Comparable      bool    `json:"comparable"`
	Drifted         bool    `json:"drifted"`
}

// DeviceEvent is one row of the device event history (read-only contract).
type DeviceEvent struct {
	DeviceID        string
	ErrorCode       string
	Timestamp       time.Time
	FirmwareVersion string
	Model           string
	Region          string
}

// SupportTicket is one row of the support ticket history (read-only contract).
type SupportTicket struct {
	TicketID  string
	DeviceID  string
	ErrorCode string
	CreatedAt time.Time
	Tier      int
	RMAIssued bool
}

// FirmwareRelease maps a firmware version to its release date.
type FirmwareRelease struct {
	FirmwareVersion string
	ReleaseDate     time.Time
}

// GateRunRecord is the audit-trail row for one completed gate invocation.
type GateRunRecord struct {
	RunID        int64
	StartTime    time.Time
	EndTime      time.Time
	InputFile    string
	ModelVersion string
	Threshold    float64
	TotalPatches int
	NHighRisk    int
	AvgRiskScore float64
	Verdict      Verdict
}

// ScoredPatchRecord is the audit-trail row for one scored patch within a run.
type ScoredPatchRecord struct {
	RunID           int64
	FirmwareVersion string
	Probability     float64
	Label           RiskLabel
}
