package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/warroom/go/internal/draft/events"
	"github.com/rs/zerolog/log"
)

// OutboxRepository defines what the app layer needs from the repository
type OutboxRepository interface {
	InsertEvent(ctx context.Context, e Event) error
	FetchUnsent(ctx context.Context, limit int) ([]Event, error)
	FetchByID(ctx context.Context, id uuid.UUID) (*Event, error)
	MarkSent(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	RecordFailure(ctx context.Context, id uuid.UUID, cause error) error
}

// App records draft events in the outbox. It implements events.Emitter.
type App struct {
	repo  OutboxRepository
	clock clockwork.Clock
}

// NewApp creates a new outbox App
func NewApp(repo OutboxRepository, clock clockwork.Clock) *App {
	return &App{
		repo:  repo,
		clock: clock,
	}
}

var _ events.Emitter = (*App)(nil)

// Emit serializes payload and inserts it as an unsent event.
func (a *App) Emit(ctx context.Context, draftID uuid.UUID, eventType events.Type, payload any) error {
	if eventType == "" {
		return fmt.Errorf("event type cannot be empty")
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	if len(data) == 0 || string(data) == "null" {
		return fmt.Errorf("event payload cannot be empty")
	}

	e := Event{
		ID:        uuid.New(),
		DraftID:   draftID,
		EventType: eventType,
		Payload:   data,
		CreatedAt: a.clock.Now(),
	}
	if err := a.repo.InsertEvent(ctx, e); err != nil {
		return fmt.Errorf("failed to insert %s event: %w", eventType, err)
	}

	log.Info().
		Str("event_id", e.ID.String()).
		Str("draft_id", draftID.String()).
		Str("event_type", string(eventType)).
		Msg("Outbox event recorded")
	return nil
}
