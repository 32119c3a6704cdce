// Package bridge connects to the host wrapper's local relay socket. The
// wrapper forwards two kinds of traffic from the embedded game surface:
// typed GUI event envelopes and serialized DOM-mutation batches. Each feed
// owns its own connection so one stalling never starves the other.
package bridge

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Envelope is the wire frame the wrapper sends: an event name and an
// opaque payload interpreted per event.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Bridge event names relayed by the wrapper.
const (
	EventListingAdd       = "ExchangeBidHouseItemAddOk"
	EventTypeDescriptions = "ExchangeTypesItemsExchangerDescriptionForUser"
	EventDomMutation      = "DomMutation"
)

// run dials the bridge and feeds every envelope to onMsg, reconnecting
// with exponential backoff until the context is cancelled. Malformed
// frames are logged and dropped; they never kill the connection.
func run(ctx context.Context, name, wsURL string, onMsg func(Envelope)) {
	backoff := 500 * time.Millisecond
	maxBackoff := 10 * time.Second

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		conn, _, err := websocket.DefaultDialer.DialContext(cctx, wsURL, nil)
		cancel()
		if err != nil {
			log.Error().Str("feed", name).Err(err).Msg("bridge dial failed")
			time.Sleep(backoff)
			backoff = minDur(backoff*2, maxBackoff)
			continue
		}

		backoff = 500 * time.Millisecond
		log.Info().Str("feed", name).Str("url", wsURL).Msg("bridge connected")

		err = readLoop(ctx, conn, func(b []byte) {
			var env Envelope
			if e := json.Unmarshal(b, &env); e != nil {
				log.Warn().Str("feed", name).Err(e).Msg("bad bridge frame dropped")
				return
			}
			if env.Event == "" {
				return
			}
			onMsg(env)
		})

		_ = conn.Close()

		if ctx.Err() != nil {
			return
		}

		log.Warn().Str("feed", name).Err(err).Msg("bridge disconnected, reconnecting")
		time.Sleep(backoff)
		backoff = minDur(backoff*2, maxBackoff)
	}
}

func readLoop(ctx context.Context, conn *websocket.Conn, onMsg func([]byte)) error {
	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	pingTicker := time.NewTicker(25 * time.Second)
	defer pingTicker.Stop()

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		for {
			_, b, err := conn.ReadMessage()
			if err == nil {
				_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			}
			if err != nil {
				errCh <- err
				return
			}
			onMsg(b)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errCh:
			return err
		case <-pingTicker.C:
			_ = conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(5*time.Second))
		}
	}
}

func minDur(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}
