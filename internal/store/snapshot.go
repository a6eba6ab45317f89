// Package store persists the latest full snapshot so a restarted process
// picks up break history, tasks and the configured duration. Only the most
// recent snapshot is kept; this is deliberately not a durable event log.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/teamdash/break-service/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	id       INTEGER PRIMARY KEY CHECK (id = 1),
	payload  TEXT NOT NULL,
	saved_at TIMESTAMP NOT NULL
);`

// SnapshotStore reads and writes the single persisted snapshot row.
type SnapshotStore struct {
	db *sqlx.DB
}

// Open connects to the SQLite database at path, creating the schema if
// needed.
func Open(path string) (*SnapshotStore, error) {
	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("could not open snapshot database: %w", err)
	}

	// A single writer process; more connections just contend.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not create snapshot schema: %w", err)
	}

	return &SnapshotStore{db: db}, nil
}

// Close closes the database connection
func (s *SnapshotStore) Close() error {
	return s.db.Close()
}

// Save upserts the latest snapshot as a JSON blob.
func (s *SnapshotStore) Save(ctx context.Context, snap models.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	query := `
		INSERT INTO snapshots (id, payload, saved_at)
		VALUES (1, ?, ?)
		ON CONFLICT (id) DO UPDATE SET payload = excluded.payload, saved_at = excluded.saved_at
	`
	if _, err := s.db.ExecContext(ctx, query, string(payload), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// Load returns the persisted snapshot, or nil when none has been saved yet.
func (s *SnapshotStore) Load(ctx context.Context) (*models.Snapshot, error) {
	var payload string
	err := s.db.GetContext(ctx, &payload, `SELECT payload FROM snapshots WHERE id = 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var snap models.Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &snap, nil
}
