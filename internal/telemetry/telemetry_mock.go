package telemetry

import (
	"context"

	"github.com/patchgate/patchgate/internal/contract"
	"github.com/patchgate/patchgate/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetTelemetryStore implements the StoreManager interface.
func (m *MockStoreManager) GetTelemetryStore() contract.TelemetryStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.TelemetryStore)
	return store
}

// GetBaselineStore implements the StoreManager interface.
func (m *MockStoreManager) GetBaselineStore() contract.BaselineStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.BaselineStore)
	return store
}

// MockTelemetryStore is a mock implementation of TelemetryStore for testing.
type MockTelemetryStore struct {
	mock.Mock
}

var _ contract.TelemetryStore = &MockTelemetryStore{} // Compile-time check

// DeviceEvents implements the TelemetryStore interface.
func (m *MockTelemetryStore) DeviceEvents(ctx context.Context) ([]schema.DeviceEvent, error) {
	args := m.Called(ctx)
	events, _ := args.Get(0).([]schema.DeviceEvent)
	return events, args.Error(1)
}

// SupportTickets implements the TelemetryStore interface.
func (m *MockTelemetryStore) SupportTickets(ctx context.Context) ([]schema.SupportTicket, error) {
	args := m.Called(ctx)
	tickets, _ := args.Get(0).([]schema.SupportTicket)
	return tickets, args.Error(1)
}

// FirmwareReleases implements the TelemetryStore interface.
func (m *MockTelemetryStore) FirmwareReleases(ctx context.Context) ([]schema.FirmwareRelease, error) {
	args := m.Called(ctx)
	releases, _ := args.Get(0).([]schema.FirmwareRelease)
	return releases, args.Error(1)
}

// InsertDeviceEvent implements the TelemetryStore interface.
func (m *MockTelemetryStore) InsertDeviceEvent(ctx context.Context, ev schema.DeviceEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

// InsertSupportTicket implements the TelemetryStore interface.
func (m *MockTelemetryStore) InsertSupportTicket(ctx context.Context, tk schema.SupportTicket) error {
	args := m.Called(ctx, tk)
	return args.Error(0)
}

// RecordGateRun implements the TelemetryStore interface.
func (m *MockTelemetryStore) RecordGateRun(ctx context.Context, run schema.GateRunRecord, scores []schema.RiskScore) (int64, error) {
	args := m.Called(ctx, run, scores)
	return args.Get(0).(int64), args.Error(1)
}

// GetAllGateRuns implements the TelemetryStore interface.
func (m *MockTelemetryStore) GetAllGateRuns(ctx context.Context) ([]schema.GateRunRecord, error) {
	args := m.Called(ctx)
	runs, _ := args.Get(0).([]schema.GateRunRecord)
	return runs, args.Error(1)
}

// GetAllScoredPatches implements the TelemetryStore interface.
func (m *MockTelemetryStore) GetAllScoredPatches(ctx context.Context) ([]schema.ScoredPatchRecord, error) {
	args := m.Called(ctx)
	records, _ := args.Get(0).([]schema.ScoredPatchRecord)
	return records, args.Error(1)
}

// GetStatus implements the TelemetryStore interface.
func (m *MockTelemetryStore) GetStatus(ctx context.Context) (contract.StoreStatus, error) {
	args := m.Called(ctx)
	return args.Get(0).(contract.StoreStatus), args.Error(1)
}

// Close implements the TelemetryStore interface.
func (m *MockTelemetryStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockBaselineStore is a mock implementation of BaselineStore for testing.
type MockBaselineStore struct {
	mock.Mock
}

var _ contract.BaselineStore = &MockBaselineStore{} // Compile-time check

// SaveBaseline implements the BaselineStore interface.
func (m *MockBaselineStore) SaveBaseline(ctx context.Context, b schema.Baseline) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

// LoadBaseline implements the BaselineStore interface.
func (m *MockBaselineStore) LoadBaseline(ctx context.Context) (schema.Baseline, error) {
	args := m.Called(ctx)
	return args.Get(0).(schema.Baseline), args.Error(1)
}

// Close implements the BaselineStore interface.
func (m *MockBaselineStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
