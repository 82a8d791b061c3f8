package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/mcdev12/warroom/go/internal/config"
	"github.com/rs/zerolog/log"
)

// NotifyChannel is the channel the draft_outbox insert trigger notifies on.
const NotifyChannel = "draft_outbox"

const listenerPingInterval = 90 * time.Second

// Listener forwards Postgres notifications about new outbox rows.
// An empty string on the output channel means the connection was re-established
// and notifications may have been missed.
type Listener struct {
	listener *pq.Listener
	out      chan string
}

func NewListener(databaseURL string, cfg config.OutboxConfig) (*Listener, error) {
	l := pq.NewListener(
		databaseURL,
		cfg.MinReconnect,
		cfg.MaxReconnect,
		func(ev pq.ListenerEventType, err error) {
			if err != nil {
				log.Error().Err(err).Msg("listener event")
			}
		},
	)
	if err := l.Listen(NotifyChannel); err != nil {
		_ = l.Close()
		return nil, fmt.Errorf("failed to listen to channel: %w", err)
	}

	log.Info().Str("channel", NotifyChannel).Msg("Listening for outbox notifications")
	return &Listener{listener: l, out: make(chan string, 64)}, nil
}

// Notifications returns the channel fed by Run.
func (l *Listener) Notifications() <-chan string {
	return l.out
}

// Run pumps notifications until ctx is done, then closes the connection.
func (l *Listener) Run(ctx context.Context) error {
	ping := time.NewTicker(listenerPingInterval)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return l.listener.Close()
		case note := <-l.listener.Notify:
			extra := ""
			if note != nil {
				extra = note.Extra
			}
			select {
			case l.out <- extra:
			case <-ctx.Done():
				return l.listener.Close()
			}
		case <-ping.C:
			if err := l.listener.Ping(); err != nil {
				log.Error().Err(err).Msg("failed to ping listener")
			}
		}
	}
}
