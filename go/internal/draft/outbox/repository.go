package outbox

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/warroom/go/internal/apperr"
	"github.com/mcdev12/warroom/go/internal/draft/events"
	"github.com/mcdev12/warroom/go/internal/draft/outbox/db"
	"github.com/mcdev12/warroom/go/internal/sqlutil"
)

type Repository struct {
	queries *db.Queries
}

func NewRepository(queries *db.Queries) *Repository {
	return &Repository{
		queries: queries,
	}
}

func (r *Repository) InsertEvent(ctx context.Context, e Event) error {
	err := r.queries.InsertOutboxEvent(ctx, db.InsertOutboxEventParams{
		ID:        e.ID,
		DraftID:   e.DraftID,
		EventType: string(e.EventType),
		Payload:   e.Payload,
		CreatedAt: e.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to insert %s outbox event: %w", e.EventType, err)
	}
	return nil
}

func (r *Repository) FetchUnsent(ctx context.Context, limit int) ([]Event, error) {
	rows, err := r.queries.FetchUnsentOutbox(ctx, int32(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unsent outbox events: %w", err)
	}

	out := make([]Event, len(rows))
	for i, row := range rows {
		out[i] = dbEventToModel(row)
	}
	return out, nil
}

// FetchByID returns an unsent event. Sent or unknown ids are NotFound.
func (r *Repository) FetchByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	row, err := r.queries.FetchOutboxByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFoundf("unsent outbox event %s", id)
		}
		return nil, fmt.Errorf("failed to fetch outbox event by ID: %w", err)
	}
	e := dbEventToModel(row)
	return &e, nil
}

// MarkSent reports false when another relay pass already marked the event.
func (r *Repository) MarkSent(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	n, err := r.queries.MarkOutboxSent(ctx, db.MarkOutboxSentParams{ID: id, SentAt: at})
	if err != nil {
		return false, fmt.Errorf("failed to mark outbox event as sent: %w", err)
	}
	return n > 0, nil
}

func (r *Repository) RecordFailure(ctx context.Context, id uuid.UUID, cause error) error {
	err := r.queries.RecordOutboxFailure(ctx, db.RecordOutboxFailureParams{ID: id, LastError: cause.Error()})
	if err != nil {
		return fmt.Errorf("failed to record outbox failure: %w", err)
	}
	return nil
}

func dbEventToModel(row db.DraftOutbox) Event {
	return Event{
		ID:        row.ID,
		DraftID:   row.DraftID,
		EventType: events.Type(row.EventType),
		Payload:   row.Payload,
		CreatedAt: row.CreatedAt,
		SentAt:    sqlutil.FromSqlTime(row.SentAt),
		Attempts:  int(row.Attempts),
		LastError: sqlutil.FromSqlString(row.LastError, ""),
	}
}
