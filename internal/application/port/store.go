package port

import (
	"context"

	"hdvtrack/internal/domain"
)

// SnapshotStore persists one snapshot per partition-derived key.
// Load returns domain.ErrNotFound when no snapshot exists under the key;
// an unreadable or malformed snapshot is reported the same way by the
// implementation so the caller starts from an empty book.
type SnapshotStore interface {
	Load(ctx context.Context, key string) (*domain.Snapshot, error)
	Save(ctx context.Context, key string, snap *domain.Snapshot) error
	Close() error
}
