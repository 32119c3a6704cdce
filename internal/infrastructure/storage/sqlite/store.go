package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"hdvtrack/internal/application/port"
	"hdvtrack/internal/domain"
)

// Store keeps one snapshot row per partition key in an embedded sqlite
// file. This is the default backend: survives restarts, needs no daemon.
type Store struct {
	db *sql.DB
}

func New(path string) (*Store, error) {
	// ensure directory exists
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		_ = os.MkdirAll(dir, 0o755)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS market_snapshots (
  partition_key TEXT PRIMARY KEY,
  payload TEXT NOT NULL,
  last_update INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_market_snapshots_update ON market_snapshots(last_update);
`)
	return err
}

func (s *Store) Load(ctx context.Context, key string) (*domain.Snapshot, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM market_snapshots WHERE partition_key=?`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: load %s: %w", key, err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		// unreadable snapshot counts as absent, the caller starts empty
		return nil, domain.ErrNotFound
	}
	return &snap, nil
}

func (s *Store) Save(ctx context.Context, key string, snap *domain.Snapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("sqlite: marshal %s: %w", key, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO market_snapshots(partition_key, payload, last_update)
		VALUES(?, ?, ?)
		ON CONFLICT(partition_key) DO UPDATE SET
		payload=excluded.payload, last_update=excluded.last_update
	`, key, string(b), snap.LastUpdate)
	if err != nil {
		return fmt.Errorf("sqlite: save %s: %w", key, err)
	}
	return nil
}

var _ port.SnapshotStore = (*Store)(nil)
