package vault

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/crisisready/fieldlink/pkg/observability"
)

const sqliteBackend = "sqlite"

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS vault_entries (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
`

// SQLiteStore keeps vault entries in a single on-device database file.
// The coordinator is the only writer, so no locking beyond the driver's.
type SQLiteStore struct {
	db      *sql.DB
	metrics *observability.Metrics
}

// NewSQLiteStore opens (or creates) the vault database at path
func NewSQLiteStore(path string, metrics *observability.Metrics) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open vault database: %w", err)
	}

	store, err := NewSQLiteStoreWithDB(db, metrics)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// NewSQLiteStoreWithDB wraps an existing database handle. The schema is
// created if missing.
func NewSQLiteStoreWithDB(db *sql.DB, metrics *observability.Metrics) (*SQLiteStore, error) {
	if _, err := db.Exec(sqliteSchema); err != nil {
		return nil, fmt.Errorf("failed to create vault schema: %w", err)
	}
	if metrics == nil {
		metrics = observability.NewNopMetrics()
	}
	return &SQLiteStore{db: db, metrics: metrics}, nil
}

func (s *SQLiteStore) set(ctx context.Context, name string, value []byte) error {
	s.metrics.VaultOperationsTotal.WithLabelValues(sqliteBackend, "set_"+name).Inc()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO vault_entries (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, name, value, time.Now().UTC())
	if err != nil {
		s.metrics.VaultErrorsTotal.WithLabelValues(sqliteBackend, "set_"+name).Inc()
		return fmt.Errorf("failed to write vault entry %q: %w", name, err)
	}
	return nil
}

func (s *SQLiteStore) get(ctx context.Context, name string) ([]byte, error) {
	s.metrics.VaultOperationsTotal.WithLabelValues(sqliteBackend, "get_"+name).Inc()
	var value []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM vault_entries WHERE key = ?`, name).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil // miss
	} else if err != nil {
		s.metrics.VaultErrorsTotal.WithLabelValues(sqliteBackend, "get_"+name).Inc()
		return nil, fmt.Errorf("failed to read vault entry %q: %w", name, err)
	}
	return value, nil
}

func (s *SQLiteStore) delete(ctx context.Context, name string) error {
	s.metrics.VaultOperationsTotal.WithLabelValues(sqliteBackend, "delete_"+name).Inc()
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM vault_entries WHERE key = ?`, name); err != nil {
		s.metrics.VaultErrorsTotal.WithLabelValues(sqliteBackend, "delete_"+name).Inc()
		return fmt.Errorf("failed to delete vault entry %q: %w", name, err)
	}
	return nil
}

// SetCredentials stores the backend credential pair
func (s *SQLiteStore) SetCredentials(ctx context.Context, creds Credentials) error {
	data, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}
	return s.set(ctx, KeyCredentials, data)
}

// Credentials retrieves the stored credential pair, (nil, nil) on a miss
func (s *SQLiteStore) Credentials(ctx context.Context) (*Credentials, error) {
	data, err := s.get(ctx, KeyCredentials)
	if err != nil || data == nil {
		return nil, err
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		s.delete(ctx, KeyCredentials)
		return nil, fmt.Errorf("failed to unmarshal credentials: %w", err)
	}
	return &creds, nil
}

// DeleteCredentials removes the stored credential pair
func (s *SQLiteStore) DeleteCredentials(ctx context.Context) error {
	return s.delete(ctx, KeyCredentials)
}

// SetProfileSnapshot stores the profile snapshot JSON
func (s *SQLiteStore) SetProfileSnapshot(ctx context.Context, snapshot json.RawMessage) error {
	return s.set(ctx, KeyProfileSnapshot, snapshot)
}

// ProfileSnapshot retrieves the profile snapshot, (nil, nil) on a miss
func (s *SQLiteStore) ProfileSnapshot(ctx context.Context) (json.RawMessage, error) {
	return s.get(ctx, KeyProfileSnapshot)
}

// DeleteProfileSnapshot removes the profile snapshot
func (s *SQLiteStore) DeleteProfileSnapshot(ctx context.Context) error {
	return s.delete(ctx, KeyProfileSnapshot)
}

// Clear removes all vault entries
func (s *SQLiteStore) Clear(ctx context.Context) error {
	s.metrics.VaultOperationsTotal.WithLabelValues(sqliteBackend, "clear").Inc()
	if _, err := s.db.ExecContext(ctx, `DELETE FROM vault_entries`); err != nil {
		s.metrics.VaultErrorsTotal.WithLabelValues(sqliteBackend, "clear").Inc()
		return fmt.Errorf("failed to clear vault: %w", err)
	}
	return nil
}

// Close closes the database handle
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
