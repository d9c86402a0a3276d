package core

import (
	"fmt"
	"math"

	"github.com/patchgate/patchgate/internal/contract"
	"github.com/patchgate/patchgate/schema"
)

// ErrorRateBy computes events per distinct device for each group. The
// denominator is distinct device IDs, never raw row counts: an inflated
// denominator silently understates risk, which is the one mistake this
// engine must never make. Groups with zero distinct devices get the
// Undefined sentinel.
func ErrorRateBy(events []schema.DeviceEvent, key func(schema.DeviceEvent) string) map[string]schema.Metric {
	counts := make(map[string]int)
	devices := make(map[string]map[string]struct{})

	for _, ev := range events {
		k := key(ev)
		counts[k]++
		if devices[k] == nil {
			devices[k] = make(map[string]struct{})
		}
		if ev.DeviceID != "" {
			devices[k][ev.DeviceID] = struct{}{}
		}
	}

	out := make(map[string]schema.Metric, len(counts))
	for k, n := range counts {
		distinct := len(devices[k])
		if distinct == 0 {
			out[k] = schema.UndefinedMetric()
			continue
		}
		out[k] = schema.DefinedMetric(float64(n) / float64(distinct))
	}
	return out
}

// ErrorRateByFirmware groups events by firmware version.
func ErrorRateByFirmware(events []schema.DeviceEvent) map[string]schema.Metric {
	return ErrorRateBy(events, func(ev schema.DeviceEvent) string { return ev.FirmwareVersion })
}

// RMARateBy computes issued RMAs per distinct ticket for each group, with
// the same distinct-denominator and zero-guard policy as ErrorRateBy.
func RMARateBy(tickets []schema.SupportTicket, key func(schema.SupportTicket) string) map[string]schema.Metric {
	rmas := make(map[string]int)
	ids := make(map[string]map[string]struct{})

	for _, tk := range tickets {
		k := key(tk)
		if _, seen := ids[k]; !seen {
			ids[k] = make(map[string]struct{})
		}
		if tk.TicketID != "" {
			ids[k][tk.TicketID] = struct{}{}
		}
		if tk.RMAIssued {
			rmas[k]++
		}
	}

	out := make(map[string]schema.Metric, len(ids))
	for k, set := range ids {
		distinct := len(set)
		if distinct == 0 {
			out[k] = schema.UndefinedMetric()
			continue
		}
		out[k] = schema.DefinedMetric(float64(rmas[k]) / float64(distinct))
	}
	return out
}

// AvgTierBy computes the mean support tier per group over distinct tickets.
func AvgTierBy(tickets []schema.SupportTicket, key func(schema.SupportTicket) string) map[string]schema.Metric {
	sums := make(map[string]float64)
	seen := make(map[string]map[string]struct{})

	for _, tk := range tickets {
		k := key(tk)
		if seen[k] == nil {
			seen[k] = make(map[string]struct{})
		}
		if tk.TicketID == "" {
			continue
		}
		if _, dup := seen[k][tk.TicketID]; dup {
			continue
		}
		seen[k][tk.TicketID] = struct{}{}
		sums[k] += float64(tk.Tier)
	}

	out := make(map[string]schema.Metric, len(seen))
	for k, set := range seen {
		if len(set) == 0 {
			out[k] = schema.UndefinedMetric()
			continue
		}
		out[k] = schema.DefinedMetric(sums[k] / float64(len(set)))
	}
	return out
}

// HealthScore applies the fixed composite formula:
//
//	100 - (error_rate*30 + rma_rate*40 + tier_excess*30), tier_excess = (avg_tier-1)/2
//
// clamped to [0, 100]. Undefined inputs yield an undefined score; non-finite
// inputs are a ComputationError carrying the group key, contained per group
// by the caller.
func HealthScore(group string, errorRate, rmaRate, avgTier schema.Metric) (schema.Metric, error) {
	if !errorRate.Defined || !rmaRate.Defined || !avgTier.Defined {
		return schema.UndefinedMetric(), nil
	}
	for _, v := range []float64{errorRate.Value, rmaRate.Value, avgTier.Value} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return schema.UndefinedMetric(), &contract.ComputationError{
				Group: group,
				Reason: fmt.Sprintf("non-finite input to health score: error_rate=%v rma_rate=%v avg_tier=%v",
					errorRate.Value, rmaRate.Value, avgTier.Value),
			}
		}
	}

	tierExcess := (avgTier.Value - 1.0) / 2.0
	score := 100.0 - (errorRate.Value*schema.WErrorRate + rmaRate.Value*schema.WRMARate + tierExcess*schema.WTierExcess)
	return schema.DefinedMetric(clamp(score, 0, 100)), nil
}

// RiskTier classifies a group's error rate against the fleet baseline
// average. Boundaries are inclusive on the higher tier: exactly 1.5x is
// HIGH and exactly 1.0x is MODERATE. A positive rate against a zero
// baseline is always HIGH.
func RiskTier(errorRate, baselineAvg float64) schema.RiskTierLevel {
	if baselineAvg <= 0 {
		if errorRate > 0 {
			return schema.HighTier
		}
		return schema.LowTier
	}
	ratio := errorRate / baselineAvg
	switch {
	case ratio >= schema.HighTierRatio:
		return schema.HighTier
	case ratio >= schema.ModerateTierRatio:
		return schema.ModerateTier
	default:
		return schema.LowTier
	}
}

// DriftDetected reports whether the relative change from baseline exceeds
// tolerance. A zero baseline drifts for any nonzero current value.
func DriftDetected(current, baseline, tolerance float64) bool {
	if baseline == 0 {
		return current != 0
	}
	return math.Abs(current-baseline)/math.Abs(baseline) > tolerance
}

// CompareMetric applies DriftDetected to possibly-undefined metrics.
// Incomparable pairs (either side undefined) never signal drift; they are
// surfaced to the caller through the Comparable flag instead.
func CompareMetric(firmware, name string, baseline, current schema.Metric, tolerance float64) schema.DriftReport {
	report := schema.DriftReport{
		FirmwareVersion: firmware,
		MetricName:      name,
		Baseline:        baseline,
		Current:         current,
	}
	if !baseline.Defined || !current.Defined {
		return report
	}
	report.Comparable = true
	if baseline.Value != 0 {
		report.RelativeChange = (current.Value - baseline.Value) / math.Abs(baseline.Value)
	}
	report.Drifted = DriftDetected(current.Value, baseline.Value, tolerance)
	return report
}

// clamp bounds v into [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
