package port

import (
	"context"

	"hdvtrack/internal/domain"
)

// ObservationFeed is one best-effort source of market observations. Feeds
// run independently: a silent or broken feed never blocks another. The
// returned channel closes when the feed shuts down.
type ObservationFeed interface {
	Name() string
	Subscribe(ctx context.Context) (<-chan domain.Observation, error)
}
