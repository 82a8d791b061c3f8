package db

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const insertOutboxEvent = `-- name: InsertOutboxEvent :exec
INSERT INTO draft_outbox (id, draft_id, event_type, payload, created_at)
VALUES ($1, $2, $3, $4, $5)
`

type InsertOutboxEventParams struct {
	ID        uuid.UUID
	DraftID   uuid.UUID
	EventType string
	Payload   []byte
	CreatedAt time.Time
}

func (q *Queries) InsertOutboxEvent(ctx context.Context, arg InsertOutboxEventParams) error {
	_, err := q.db.ExecContext(ctx, insertOutboxEvent,
		arg.ID,
		arg.DraftID,
		arg.EventType,
		arg.Payload,
		arg.CreatedAt,
	)
	return err
}

const fetchUnsentOutbox = `-- name: FetchUnsentOutbox :many
SELECT id, draft_id, event_type, payload, created_at, sent_at, attempts, last_error FROM draft_outbox
WHERE sent_at IS NULL
ORDER BY created_at
LIMIT $1
`

func (q *Queries) FetchUnsentOutbox(ctx context.Context, limit int32) ([]DraftOutbox, error) {
	rows, err := q.db.QueryContext(ctx, fetchUnsentOutbox, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []DraftOutbox
	for rows.Next() {
		var i DraftOutbox
		if err := rows.Scan(
			&i.ID,
			&i.DraftID,
			&i.EventType,
			&i.Payload,
			&i.CreatedAt,
			&i.SentAt,
			&i.Attempts,
			&i.LastError,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const fetchOutboxByID = `-- name: FetchOutboxByID :one
SELECT id, draft_id, event_type, payload, created_at, sent_at, attempts, last_error FROM draft_outbox
WHERE id = $1 AND sent_at IS NULL
`

func (q *Queries) FetchOutboxByID(ctx context.Context, id uuid.UUID) (DraftOutbox, error) {
	row := q.db.QueryRowContext(ctx, fetchOutboxByID, id)
	var i DraftOutbox
	err := row.Scan(
		&i.ID,
		&i.DraftID,
		&i.EventType,
		&i.Payload,
		&i.CreatedAt,
		&i.SentAt,
		&i.Attempts,
		&i.LastError,
	)
	return i, err
}

const markOutboxSent = `-- name: MarkOutboxSent :execrows
UPDATE draft_outbox
SET sent_at = $2
WHERE id = $1 AND sent_at IS NULL
`

type MarkOutboxSentParams struct {
	ID     uuid.UUID
	SentAt time.Time
}

func (q *Queries) MarkOutboxSent(ctx context.Context, arg MarkOutboxSentParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, markOutboxSent, arg.ID, arg.SentAt)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const recordOutboxFailure = `-- name: RecordOutboxFailure :exec
UPDATE draft_outbox
SET attempts = attempts + 1, last_error = $2
WHERE id = $1
`

type RecordOutboxFailureParams struct {
	ID        uuid.UUID
	LastError string
}

func (q *Queries) RecordOutboxFailure(ctx context.Context, arg RecordOutboxFailureParams) error {
	_, err := q.db.ExecContext(ctx, recordOutboxFailure, arg.ID, arg.LastError)
	return err
}
