package outbox

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/warroom/go/internal/apperr"
	"github.com/mcdev12/warroom/go/internal/config"
	"github.com/mcdev12/warroom/go/internal/metrics"
	"github.com/rs/zerolog/log"
)

// Relay moves unsent outbox rows to the broker. It reacts to notifications
// and sweeps the table on every poll tick to catch anything missed.
type Relay struct {
	repo      OutboxRepository
	publisher Publisher
	notify    <-chan string
	clock     clockwork.Clock
	cfg       config.OutboxConfig
	metrics   *metrics.Registry

	mu        sync.Mutex
	published uint64
	lastSent  time.Time
}

// RelayOption configures a Relay
type RelayOption func(*Relay)

// WithNotifications wakes the relay for every event id received on ch.
func WithNotifications(ch <-chan string) RelayOption {
	return func(r *Relay) { r.notify = ch }
}

func WithRelayMetrics(m *metrics.Registry) RelayOption {
	return func(r *Relay) { r.metrics = m }
}

func NewRelay(repo OutboxRepository, publisher Publisher, clock clockwork.Clock, cfg config.OutboxConfig, opts ...RelayOption) *Relay {
	r := &Relay{
		repo:      repo,
		publisher: publisher,
		clock:     clock,
		cfg:       cfg,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.metrics == nil {
		r.metrics = metrics.NewUnregistered()
	}
	if r.cfg.BatchSize <= 0 {
		r.cfg.BatchSize = 100
	}
	if r.cfg.PollInterval <= 0 {
		r.cfg.PollInterval = 5 * time.Second
	}
	return r
}

// Run sweeps once, then serves notifications and poll ticks until ctx is done.
func (r *Relay) Run(ctx context.Context) error {
	log.Info().
		Dur("poll_interval", r.cfg.PollInterval).
		Int("batch_size", r.cfg.BatchSize).
		Bool("notifications", r.notify != nil).
		Msg("Outbox relay started")

	ticker := r.clock.NewTicker(r.cfg.PollInterval)
	defer ticker.Stop()

	r.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Outbox relay stopped")
			return nil
		case extra, ok := <-r.notify:
			if !ok {
				r.notify = nil
				continue
			}
			if extra == "" {
				r.sweep(ctx)
				continue
			}
			if err := r.HandleNotification(ctx, extra); err != nil {
				log.Error().Err(err).Str("payload", extra).Msg("failed to handle notification")
			}
		case <-ticker.Chan():
			r.sweep(ctx)
		}
	}
}

func (r *Relay) sweep(ctx context.Context) {
	if _, err := r.ProcessUnsent(ctx); err != nil {
		log.Error().Err(err).Msg("failed to process unsent events")
	}
}

// HandleNotification publishes the event whose id is in the notification payload.
// An id that is already sent is ignored.
func (r *Relay) HandleNotification(ctx context.Context, extra string) error {
	id, err := uuid.Parse(extra)
	if err != nil {
		return fmt.Errorf("invalid event ID in notification: %w", err)
	}

	e, err := r.repo.FetchByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil
		}
		return err
	}
	return r.deliver(ctx, *e)
}

// ProcessUnsent publishes one batch of unsent events in creation order and
// returns how many were delivered. Failed events stay unsent for the next pass.
func (r *Relay) ProcessUnsent(ctx context.Context) (int, error) {
	unsent, err := r.repo.FetchUnsent(ctx, r.cfg.BatchSize)
	if err != nil {
		return 0, err
	}
	r.metrics.OutboxBatchSize.Observe(float64(len(unsent)))
	r.metrics.OutboxPending.Set(float64(len(unsent)))

	delivered := 0
	for _, e := range unsent {
		if ctx.Err() != nil {
			return delivered, ctx.Err()
		}
		if err := r.deliver(ctx, e); err != nil {
			log.Error().Err(err).
				Str("event_id", e.ID.String()).
				Str("event_type", string(e.EventType)).
				Msg("failed to publish event")
			continue
		}
		delivered++
	}

	if len(unsent) > 0 {
		log.Info().
			Int("delivered", delivered).
			Int("total", len(unsent)).
			Msg("Processed unsent events batch")
	}
	return delivered, nil
}

func (r *Relay) deliver(ctx context.Context, e Event) error {
	if err := r.publisher.Publish(ctx, e); err != nil {
		r.metrics.OutboxPublished.WithLabelValues(string(e.EventType), "failure").Inc()
		if rerr := r.repo.RecordFailure(ctx, e.ID, err); rerr != nil {
			log.Warn().Err(rerr).Str("event_id", e.ID.String()).Msg("failed to record publish failure")
		}
		return err
	}

	marked, err := r.repo.MarkSent(ctx, e.ID, r.clock.Now())
	if err != nil {
		return err
	}
	if !marked {
		// published twice; the broker drops the copy by message id
		r.metrics.OutboxPublished.WithLabelValues(string(e.EventType), "duplicate").Inc()
		return nil
	}

	r.metrics.OutboxPublished.WithLabelValues(string(e.EventType), "success").Inc()
	r.mu.Lock()
	r.published++
	r.lastSent = r.clock.Now()
	r.mu.Unlock()
	return nil
}

// Stats returns the number of events delivered and the time of the last one.
func (r *Relay) Stats() (uint64, time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.published, r.lastSent
}
