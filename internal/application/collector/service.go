// Package collector wires the feeds, the book and the snapshot store into
// one event loop. The loop is the only writer of the book while it runs:
// observations, flush ticks and export requests are all serviced from a
// single select, so merge+upsert is atomic with respect to other
// observations without any further locking discipline.
package collector

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"hdvtrack/internal/application/port"
	"hdvtrack/internal/domain"
)

type Deps struct {
	Feeds      []port.ObservationFeed
	Store      port.SnapshotStore
	Sink       port.ExportSink
	Server     string
	Namespace  string
	FlushEvery time.Duration
	Retention  time.Duration
}

type Service struct {
	deps      Deps
	book      *domain.Book
	exportReq chan struct{}
	now       func() time.Time
}

func NewService(deps Deps) *Service {
	if deps.FlushEvery <= 0 {
		deps.FlushEvery = 5 * time.Minute
	}
	if deps.Retention <= 0 {
		deps.Retention = 7 * 24 * time.Hour
	}
	return &Service{
		deps:      deps,
		book:      domain.NewBook(),
		exportReq: make(chan struct{}, 1),
		now:       time.Now,
	}
}

// Book exposes the record book for read-only use.
func (s *Service) Book() *domain.Book { return s.book }

// Key is the durable-storage key for this partition.
func (s *Service) Key() string { return s.deps.Namespace + "-" + s.deps.Server }

// RequestExport asks the running loop to produce one export artifact.
// Non-blocking; a request while one is already pending is coalesced.
func (s *Service) RequestExport() {
	select {
	case s.exportReq <- struct{}{}:
	default:
	}
}

// Run hydrates the book, starts every feed and services the loop until the
// context is cancelled, then flushes once more before returning.
func (s *Service) Run(ctx context.Context) error {
	if len(s.deps.Feeds) == 0 {
		return errors.New("no feeds")
	}

	s.hydrate(ctx)

	merged := make(chan domain.Observation, 1024)

	started := 0
	for _, feed := range s.deps.Feeds {
		ch, err := feed.Subscribe(ctx)
		if err != nil {
			// one broken channel never takes the other down
			log.Error().Str("feed", feed.Name()).Err(err).Msg("feed subscribe failed")
			continue
		}
		started++
		go func(name string, in <-chan domain.Observation) {
			for {
				select {
				case <-ctx.Done():
					return
				case o, ok := <-in:
					if !ok {
						return
					}
					merged <- o
				}
			}
		}(feed.Name(), ch)

		log.Info().Str("feed", feed.Name()).Msg("feed started")
	}
	if started == 0 {
		return errors.New("all feeds failed to start")
	}

	flushTicker := time.NewTicker(s.deps.FlushEvery)
	defer flushTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			// final synchronous flush, on a fresh context: the loop's
			// context is already dead at teardown
			fctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			s.flush(fctx)
			cancel()
			return ctx.Err()

		case <-flushTicker.C:
			s.flush(ctx)

		case <-s.exportReq:
			s.export(ctx)

		case o := <-merged:
			if o.ItemID <= 0 {
				continue
			}
			rec := s.book.Apply(o)
			log.Debug().
				Int64("item", rec.ItemID).
				Int64("price", rec.Price).
				Float64("avg", rec.AvgPrice).
				Msg("observation merged")
		}
	}
}

// hydrate restores the persisted snapshot and drops anything past the
// retention window. Absent or unreadable snapshots start the book empty.
func (s *Service) hydrate(ctx context.Context) {
	snap, err := s.deps.Store.Load(ctx, s.Key())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			log.Info().Str("key", s.Key()).Msg("no stored snapshot, starting empty")
		} else {
			log.Warn().Str("key", s.Key()).Err(err).Msg("snapshot load failed, starting empty")
		}
		return
	}

	s.book.Replace(snap.Items)
	cutoff := s.now().Add(-s.deps.Retention).UnixMilli()
	evicted := s.book.Prune(cutoff)
	log.Info().
		Str("key", s.Key()).
		Int("items", s.book.Len()).
		Int("evicted", evicted).
		Msg("snapshot restored")
}

// flush persists the full book. Failures are logged and swallowed:
// a missed save must never stall ingestion or crash the host.
func (s *Service) flush(ctx context.Context) {
	snap := &domain.Snapshot{
		Items:      s.book.Items(),
		LastUpdate: s.now().UnixMilli(),
	}
	if err := s.deps.Store.Save(ctx, s.Key(), snap); err != nil {
		log.Warn().Str("key", s.Key()).Err(err).Msg("snapshot save failed")
		return
	}
	log.Info().Str("key", s.Key()).Int("items", len(snap.Items)).Msg("snapshot saved")
}
