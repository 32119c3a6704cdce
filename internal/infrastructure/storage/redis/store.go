package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"hdvtrack/internal/application/port"
	"hdvtrack/internal/domain"
)

// Store keeps snapshots as JSON strings under the partition-derived key.
// Useful when several wrapper instances on one machine should share the
// collected data. A TTL a little past the retention window lets redis
// reap partitions nobody plays on anymore.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

func (s *Store) Load(ctx context.Context, key string) (*domain.Snapshot, error) {
	data, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("redis: load %s: %w", key, err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, domain.ErrNotFound
	}
	return &snap, nil
}

func (s *Store) Save(ctx context.Context, key string, snap *domain.Snapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("redis: marshal %s: %w", key, err)
	}
	if err := s.rdb.Set(ctx, key, b, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis: save %s: %w", key, err)
	}
	return nil
}

func (s *Store) Close() error { return s.rdb.Close() }

var _ port.SnapshotStore = (*Store)(nil)
