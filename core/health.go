package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/patchgate/patchgate/internal/contract"
	"github.com/patchgate/patchgate/internal/outwriter"
	"github.com/patchgate/patchgate/schema"
)

// DeviceFirmwareIndex maps each device to the firmware version of its most
// recent event. Support tickets carry no firmware column, so this index is
// how ticket-derived metrics are attributed to a firmware version.
func DeviceFirmwareIndex(events []schema.DeviceEvent) map[string]string {
	latest := make(map[string]time.Time)
	index := make(map[string]string)
	for _, ev := range events {
		if ev.DeviceID == "" || ev.FirmwareVersion == "" {
			continue
		}
		if ts, ok := latest[ev.DeviceID]; !ok || ev.Timestamp.After(ts) {
			latest[ev.DeviceID] = ev.Timestamp
			index[ev.DeviceID] = ev.FirmwareVersion
		}
	}
	return index
}

// ComputeHealthMetrics derives the per-firmware-version stability summary
// from raw event and ticket history. A group that trips a ComputationError
// is annotated and skipped, never fatal for the batch; sparse groups come
// back with undefined rates rather than division by zero.
func ComputeHealthMetrics(events []schema.DeviceEvent, tickets []schema.SupportTicket) []schema.HealthMetric {
	errorRates := ErrorRateByFirmware(events)

	deviceFW := DeviceFirmwareIndex(events)
	byFirmware := func(tk schema.SupportTicket) string { return deviceFW[tk.DeviceID] }
	rmaRates := RMARateBy(tickets, byFirmware)
	avgTiers := AvgTierBy(tickets, byFirmware)

	// Tickets whose device has no event history cannot be attributed.
	delete(rmaRates, "")
	delete(avgTiers, "")

	versions := make(map[string]struct{})
	for v := range errorRates {
		versions[v] = struct{}{}
	}
	for v := range rmaRates {
		versions[v] = struct{}{}
	}

	// Fleet baseline: mean of the defined error rates.
	var sum float64
	var n int
	for _, m := range errorRates {
		if m.Defined {
			sum += m.Value
			n++
		}
	}
	var fleetAvg float64
	if n > 0 {
		fleetAvg = sum / float64(n)
	}

	metrics := make([]schema.HealthMetric, 0, len(versions))
	for v := range versions {
		hm := schema.HealthMetric{
			FirmwareVersion: v,
			ErrorRate:       metricOrUndefined(errorRates, v),
			RMARate:         metricOrUndefined(rmaRates, v),
			AvgTier:         metricOrUndefined(avgTiers, v),
			Tier:            schema.LowTier,
		}

		score, err := HealthScore(v, hm.ErrorRate, hm.RMARate, hm.AvgTier)
		hm.HealthScore = score
		var compErr *contract.ComputationError
		if errors.As(err, &compErr) {
			hm.Note = fmt.Sprintf("health score undefined: %v", compErr)
		} else if !score.Defined {
			hm.Note = "insufficient data for health score"
		}

		if hm.ErrorRate.Defined {
			hm.Tier = RiskTier(hm.ErrorRate.Value, fleetAvg)
		}

		metrics = append(metrics, hm)
	}

	sort.Slice(metrics, func(i, j int) bool {
		return metrics[i].FirmwareVersion < metrics[j].FirmwareVersion
	})
	return metrics
}

// metricOrUndefined looks up a group metric, defaulting to the sentinel.
func metricOrUndefined(m map[string]schema.Metric, key string) schema.Metric {
	if v, ok := m[key]; ok {
		return v
	}
	return schema.UndefinedMetric()
}

// LoadHealthMetrics pulls history from the telemetry store and computes the
// current fleet summary.
func LoadHealthMetrics(ctx context.Context, mgr contract.StoreManager) ([]schema.HealthMetric, error) {
	store := mgr.GetTelemetryStore()

	events, err := store.DeviceEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load device events: %w", err)
	}
	tickets, err := store.SupportTickets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load support tickets: %w", err)
	}

	return ComputeHealthMetrics(events, tickets), nil
}

// ExecuteHealth runs the health command end to end.
func ExecuteHealth(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()

	metrics, err := LoadHealthMetrics(ctx, mgr)
	if err != nil {
		return err
	}

	return outwriter.WriteHealthMetrics(metrics, cfg, time.Since(start))
}
