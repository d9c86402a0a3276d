// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"

	"github.com/patchgate/patchgate/schema"
)

// RiskModel is the opaque classifier capability. Any model family can
// satisfy it; the gate's control logic never sees model internals, only a
// probability and a version identifier.
type RiskModel interface {
	// Predict maps a feature vector to a regression-risk probability in [0,1].
	Predict(features map[string]float64) (float64, error)

	// Version identifies the loaded model artifact.
	Version() string

	// FeatureNames returns the model's input schema contract, in order.
	FeatureNames() []string
}

// TelemetryStore reads the historical device/ticket/release tables and
// records gate-run audit rows. Implementations must be safe for use by a
// single run; there is no shared mutable state across invocations.
type TelemetryStore interface {
	// --- Read-only history (health metrics substrate) ---

	DeviceEvents(ctx context.Context) ([]schema.DeviceEvent, error)
	SupportTickets(ctx context.Context) ([]schema.SupportTicket, error)
	FirmwareReleases(ctx context.Context) ([]schema.FirmwareRelease, error)

	// --- Monitoring job writes (ingest path) ---

	InsertDeviceEvent(ctx context.Context, ev schema.DeviceEvent) error
	InsertSupportTicket(ctx context.Context, tk schema.SupportTicket) error

	// --- Gate audit trail ---

	// RecordGateRun persists a completed run with its per-patch scores and
	// returns the run ID.
	RecordGateRun(ctx context.Context, run schema.GateRunRecord, scores []schema.RiskScore) (int64, error)

	// GetAllGateRuns returns all recorded runs, oldest first.
	GetAllGateRuns(ctx context.Context) ([]schema.GateRunRecord, error)

	// GetAllScoredPatches returns all recorded per-patch scores, oldest run first.
	GetAllScoredPatches(ctx context.Context) ([]schema.ScoredPatchRecord, error)

	// GetStatus returns backend and row-count information.
	GetStatus(ctx context.Context) (StoreStatus, error)

	Close() error
}

// BaselineStore persists health-metric baseline snapshots. Writes are
// serialized (single-writer discipline); readers see the previous baseline
// until a write commits.
type BaselineStore interface {
	// SaveBaseline stores a new snapshot atomically.
	SaveBaseline(ctx context.Context, b schema.Baseline) error

	// LoadBaseline returns the most recently saved snapshot.
	LoadBaseline(ctx context.Context) (schema.Baseline, error)

	Close() error
}

// StoreManager bundles the stores backed by one database. This allows the
// persistence layer to be mocked for testing.
type StoreManager interface {
	GetTelemetryStore() TelemetryStore
	GetBaselineStore() BaselineStore
}

// StoreStatus summarizes the telemetry database for status commands.
type StoreStatus struct {
	Backend    schema.DatabaseBackend
	TableSizes map[string]int64
	TotalRuns  int64
}
