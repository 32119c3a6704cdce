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

// ListingFeed is the structured channel: it consumes the typed market
// events the wrapper relays from the game GUI and emits one observation
// per well-formed item payload.
type ListingFeed struct {
	wsURL  string
	server string
}

func NewListingFeed(wsURL, server string) *ListingFeed {
	return &ListingFeed{wsURL: strings.TrimSpace(wsURL), server: server}
}

func (f *ListingFeed) Name() string { return "listing" }

func (f *ListingFeed) Subscribe(ctx context.Context) (<-chan domain.Observation, error) {
	if f.wsURL == "" {
		return nil, errors.New("bridge ws_url empty")
	}

	out := make(chan domain.Observation, 256)
	go func() {
		defer close(out)
		run(ctx, f.Name(), f.wsURL, func(env Envelope) {
			now := time.Now().UnixMilli()

			var obs []domain.Observation
			var err error
			switch env.Event {
			case EventListingAdd:
				obs, err = decode.ListingAddObservations(env.Data, f.server, now)
			case EventTypeDescriptions:
				obs, err = decode.TypeDescriptionObservations(env.Data, f.server, now)
			default:
				return
			}
			if err != nil {
				log.Warn().Str("feed", f.Name()).Str("event", env.Event).Err(err).Msg("payload dropped")
				return
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

var _ port.ObservationFeed = (*ListingFeed)(nil)
