package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mcdev12/warroom/go/internal/config"
	"github.com/mcdev12/warroom/go/internal/metrics"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
)

// Publisher hands an outbox event to the broker.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

const (
	streamMaxAge          = 7 * 24 * time.Hour
	streamDuplicateWindow = 2 * time.Hour
)

type JetStreamPublisher struct {
	nc     *nats.Conn
	js     jetstream.JetStream
	stream string
	prefix string
}

// NewJetStreamPublisher connects to NATS and makes sure the event stream exists.
func NewJetStreamPublisher(ctx context.Context, cfg config.NATSConfig) (*JetStreamPublisher, error) {
	opts := []nats.Option{
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			log.Error().Err(err).Msg("NATS error")
		}),
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}

	p := &JetStreamPublisher{nc: nc, js: js, stream: cfg.Stream, prefix: cfg.SubjectPrefix}
	if err := p.ensureStream(ctx); err != nil {
		nc.Close()
		return nil, fmt.Errorf("ensure stream: %w", err)
	}
	return p, nil
}

func (p *JetStreamPublisher) ensureStream(ctx context.Context) error {
	sc := jetstream.StreamConfig{
		Name:        p.stream,
		Description: "Draft war room events",
		Subjects:    []string{p.prefix + ".>"},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      streamMaxAge,
		MaxMsgs:     -1,
		Storage:     jetstream.FileStorage,
		Replicas:    1,
		Duplicates:  streamDuplicateWindow,
	}

	_, err := p.js.Stream(ctx, p.stream)
	switch {
	case errors.Is(err, jetstream.ErrStreamNotFound):
		if _, err := p.js.CreateStream(ctx, sc); err != nil {
			return fmt.Errorf("create stream: %w", err)
		}
		log.Info().Str("stream", p.stream).Msg("Created JetStream stream")
	case err != nil:
		return fmt.Errorf("get stream: %w", err)
	default:
		if _, err := p.js.UpdateStream(ctx, sc); err != nil {
			return fmt.Errorf("update stream: %w", err)
		}
	}
	return nil
}

// Publish sends the event on <prefix>.<event type>. The event id is the
// JetStream message id, so a redelivered row is dropped by the server.
func (p *JetStreamPublisher) Publish(ctx context.Context, e Event) error {
	msg, err := newMessage(p.prefix, e)
	if err != nil {
		return err
	}

	ack, err := p.js.PublishMsg(ctx, msg,
		jetstream.WithMsgID(e.ID.String()),
		jetstream.WithExpectStream(p.stream),
	)
	if err != nil {
		return fmt.Errorf("publish to JetStream: %w", err)
	}

	log.Debug().
		Str("subject", msg.Subject).
		Str("event_id", e.ID.String()).
		Uint64("sequence", ack.Sequence).
		Bool("duplicate", ack.Duplicate).
		Msg("Published to JetStream")
	return nil
}

// Connected reports whether the NATS connection is up.
func (p *JetStreamPublisher) Connected() bool {
	return p.nc != nil && p.nc.IsConnected()
}

func (p *JetStreamPublisher) Close() error {
	if p.nc != nil {
		p.nc.Close()
	}
	return nil
}

func subjectFor(prefix string, e Event) string {
	return fmt.Sprintf("%s.%s", prefix, e.EventType)
}

func newMessage(prefix string, e Event) (*nats.Msg, error) {
	data, err := json.Marshal(e.envelope())
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return &nats.Msg{
		Subject: subjectFor(prefix, e),
		Data:    data,
		Header: nats.Header{
			"Event-Type": []string{string(e.EventType)},
			"Draft-ID":   []string{e.DraftID.String()},
			"Event-ID":   []string{e.ID.String()},
		},
	}, nil
}

// BreakerPublisher stops calling the broker after repeated failures until the breaker timeout passes.
type BreakerPublisher struct {
	next Publisher
	cb   *gobreaker.CircuitBreaker
}

func NewBreakerPublisher(next Publisher, cfg config.NATSConfig, m *metrics.Registry) *BreakerPublisher {
	if m == nil {
		m = metrics.NewUnregistered()
	}
	maxFailures := cfg.BreakerMaxFailures
	if maxFailures == 0 {
		maxFailures = 1
	}

	st := gobreaker.Settings{
		Name:    "outbox-publisher",
		Timeout: cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			m.OutboxBreakerState.Set(float64(to))
			log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Publisher circuit breaker changed state")
		},
	}
	return &BreakerPublisher{next: next, cb: gobreaker.NewCircuitBreaker(st)}
}

func (p *BreakerPublisher) Publish(ctx context.Context, e Event) error {
	_, err := p.cb.Execute(func() (interface{}, error) {
		return nil, p.next.Publish(ctx, e)
	})
	return err
}

// State exposes the breaker state for health reporting.
func (p *BreakerPublisher) State() gobreaker.State {
	return p.cb.State()
}
