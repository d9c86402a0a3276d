// Package telemetry persists device/ticket history, gate-run audit rows and
// health-metric baselines across sqlite, mysql and postgresql backends.
package telemetry

import (
	"fmt"
	"sync"

	"github.com/patchgate/patchgate/internal/contract"
	"github.com/patchgate/patchgate/schema"
)

// StoreManagerImpl manages the store instances backed by one database.
type StoreManagerImpl struct {
	sync.RWMutex // Protects the store pointers during initialization
	telemetry    contract.TelemetryStore
	baseline     contract.BaselineStore
}

var _ contract.StoreManager = &StoreManagerImpl{} // Compile-time check

// Manager is the global store manager instance, set by InitStores.
var Manager = &StoreManagerImpl{}

// GetTelemetryStore returns the telemetry store.
func (mgr *StoreManagerImpl) GetTelemetryStore() contract.TelemetryStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.telemetry
}

// GetBaselineStore returns the baseline store.
func (mgr *StoreManagerImpl) GetBaselineStore() contract.BaselineStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.baseline
}

// InitStores initializes the global manager with validated config.
func InitStores(backend schema.DatabaseBackend, connStr string) error {
	telemetryStore, err := NewTelemetryStore(backend, connStr)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry store: %w", err)
	}
	baselineStore, err := NewBaselineStore(backend, connStr)
	if err != nil {
		return fmt.Errorf("failed to initialize baseline store: %w", err)
	}

	Manager.Lock()
	defer Manager.Unlock()
	Manager.telemetry = telemetryStore
	Manager.baseline = baselineStore
	return nil
}
