package telemetry

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/patchgate/patchgate/internal/contract"
	"github.com/patchgate/patchgate/schema"
)

// baselinesTable holds versioned health-metric snapshots.
const baselinesTable = "patchgate_baselines"

// ErrNoBaseline is returned when no snapshot has been saved yet.
var ErrNoBaseline = errors.New("no baseline saved yet; run 'patchgate baseline save' first")

// BaselineStoreImpl implements the BaselineStore interface. Snapshots are
// stored as JSON payloads, one row per save, and loads return the newest row.
// Writes are serialized so a reader never observes a partial snapshot.
type BaselineStoreImpl struct {
	mu      sync.Mutex // serializes SaveBaseline calls within this process
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.BaselineStore = &BaselineStoreImpl{} // Compile-time check

// NewBaselineStore creates a new BaselineStore with the specified backend.
func NewBaselineStore(backend schema.DatabaseBackend, connStr string) (contract.BaselineStore, error) {
	db, _, err := openDatabase(backend, connStr)
	if err != nil {
		return nil, err
	}
	if db == nil {
		// No-op store for disabled persistence
		return &BaselineStoreImpl{db: nil, backend: backend}, nil
	}

	if _, err := db.Exec(getCreateBaselinesQuery(backend)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", baselinesTable, err)
	}

	return &BaselineStoreImpl{db: db, backend: backend}, nil
}

// getCreateBaselinesQuery returns the CREATE TABLE query for patchgate_baselines.
func getCreateBaselinesQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(baselinesTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				baseline_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				version VARCHAR(100) NOT NULL,
				created_at DATETIME(6) NOT NULL,
				payload TEXT NOT NULL
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				baseline_id BIGSERIAL PRIMARY KEY,
				version TEXT NOT NULL,
				created_at TIMESTAMPTZ NOT NULL,
				payload TEXT NOT NULL
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				baseline_id INTEGER PRIMARY KEY AUTOINCREMENT,
				version TEXT NOT NULL,
				created_at TEXT NOT NULL,
				payload TEXT NOT NULL
			);
		`, quotedTableName)
	}
}

// SaveBaseline stores a new snapshot. The insert is transactional, so a
// concurrent LoadBaseline sees either the previous snapshot or this one.
func (bs *BaselineStoreImpl) SaveBaseline(ctx context.Context, b schema.Baseline) error {
	// Skip for NoneBackend
	if bs.backend == schema.NoneBackend || bs.db == nil {
		return nil
	}

	bs.mu.Lock()
	defer bs.mu.Unlock()

	payload, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("failed to marshal baseline: %w", err)
	}

	tx, err := bs.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin baseline transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	quotedTableName := quoteTableName(baselinesTable, bs.backend)

	var query string
	switch bs.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`INSERT INTO %s (version, created_at, payload) VALUES ($1, $2, $3)`, quotedTableName)
	default: // SQLite and MySQL
		query = fmt.Sprintf(`INSERT INTO %s (version, created_at, payload) VALUES (?, ?, ?)`, quotedTableName)
	}

	if _, err := tx.ExecContext(ctx, query, b.Version, formatTime(b.CreatedAt, bs.backend), string(payload)); err != nil {
		return fmt.Errorf("failed to insert baseline: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit baseline: %w", err)
	}

	return nil
}

// LoadBaseline returns the most recently saved snapshot.
func (bs *BaselineStoreImpl) LoadBaseline(ctx context.Context) (schema.Baseline, error) {
	var baseline schema.Baseline

	if bs.backend == schema.NoneBackend || bs.db == nil {
		return baseline, ErrNoBaseline
	}

	quotedTableName := quoteTableName(baselinesTable, bs.backend)
	query := fmt.Sprintf("SELECT payload FROM %s ORDER BY baseline_id DESC LIMIT 1", quotedTableName)

	var payload string
	err := bs.db.QueryRowContext(ctx, query).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return baseline, ErrNoBaseline
	}
	if err != nil {
		return baseline, fmt.Errorf("failed to load baseline: %w", err)
	}

	if err := json.Unmarshal([]byte(payload), &baseline); err != nil {
		return baseline, fmt.Errorf("failed to unmarshal baseline: %w", err)
	}

	// Normalize timestamps that round-tripped through JSON.
	baseline.CreatedAt = baseline.CreatedAt.In(time.UTC)
	return baseline, nil
}

// Close closes the underlying connection.
func (bs *BaselineStoreImpl) Close() error {
	if bs.db != nil {
		return bs.db.Close()
	}
	return nil
}
