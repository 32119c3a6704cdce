package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"hdvtrack/internal/application/port"
	"hdvtrack/internal/domain"
)

// Store persists snapshots in postgres, for setups where the planner side
// already runs one and wants the collector feeding it directly.
type Store struct {
	db *sql.DB
}

func New(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)

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
  last_update BIGINT NOT NULL
);
`)
	return err
}

func (s *Store) Load(ctx context.Context, key string) (*domain.Snapshot, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM market_snapshots WHERE partition_key=$1`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: load %s: %w", key, err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return nil, domain.ErrNotFound
	}
	return &snap, nil
}

func (s *Store) Save(ctx context.Context, key string, snap *domain.Snapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("postgres: marshal %s: %w", key, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO market_snapshots(partition_key, payload, last_update)
		VALUES($1, $2, $3)
		ON CONFLICT(partition_key) DO UPDATE SET
		payload=excluded.payload, last_update=excluded.last_update
	`, key, string(b), snap.LastUpdate)
	if err != nil {
		return fmt.Errorf("postgres: save %s: %w", key, err)
	}
	return nil
}

var _ port.SnapshotStore = (*Store)(nil)
