package bridge

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"hdvtrack/internal/application/decode"
	"hdvtrack/internal/application/port"
	"hdvtrack/internal/domain"
)

// MutationFeed is the scraping channel: it consumes serialized DOM
// mutation batches from the market window and best-effort extracts
// observations from the added rows. Strictly a fallback for traffic the
// structured channel misses; extraction failures are counted and dropped.
type MutationFeed struct {
	wsURL  string
	server string
}

func NewMutationFeed(wsURL, server string) *MutationFeed {
	return &MutationFeed{wsURL: strings.TrimSpace(wsURL), server: server}
}

func (f *MutationFeed) Name() string { return "scrape" }

func (f *MutationFeed) Subscribe(ctx context.Context) (<-chan domain.Observation, error) {
	if f.wsURL == "" {
		return nil, errors.New("bridge ws_url empty")
	}

	out := make(chan domain.Observation, 256)
	go func() {
		defer close(out)
		run(ctx, f.Name(), f.wsURL, func(env Envelope) {
			if env.Event != EventDomMutation {
				return
			}
			batch, err := decodeMutation(env.Data)
			if err != nil {
				log.Warn().Str("feed", f.Name()).Err(err).Msg("mutation payload dropped")
				return
			}
			obs, skipped := decode.BatchObservations(batch, f.server, time.Now().UnixMilli())
			if skipped > 0 {
				log.Debug().Str("feed", f.Name()).Int("skipped", skipped).Msg("unreadable rows skipped")
			}
			for _, o := range obs {
				select {
				case out <- o:
				case <-ctx.Done():
					return
				}
			}
		})
	}()
	return out, nil
}

var _ port.ObservationFeed = (*MutationFeed)(nil)
