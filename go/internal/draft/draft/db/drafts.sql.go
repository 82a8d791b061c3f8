package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const createDraft = `-- name: CreateDraft :one
INSERT INTO drafts (id, year, status, rounds, picks_per_round, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $6)
RETURNING id, year, status, rounds, picks_per_round, started_at, completed_at, created_at, updated_at
`

type CreateDraftParams struct {
	ID            uuid.UUID
	Year          int32
	Status        string
	Rounds        int32
	PicksPerRound sql.NullInt32
	CreatedAt     time.Time
}

func (q *Queries) CreateDraft(ctx context.Context, arg CreateDraftParams) (Draft, error) {
	row := q.db.QueryRowContext(ctx, createDraft,
		arg.ID,
		arg.Year,
		arg.Status,
		arg.Rounds,
		arg.PicksPerRound,
		arg.CreatedAt,
	)
	var i Draft
	err := row.Scan(
		&i.ID,
		&i.Year,
		&i.Status,
		&i.Rounds,
		&i.PicksPerRound,
		&i.StartedAt,
		&i.CompletedAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getDraft = `-- name: GetDraft :one
SELECT id, year, status, rounds, picks_per_round, started_at, completed_at, created_at, updated_at FROM drafts
WHERE id = $1
`

func (q *Queries) GetDraft(ctx context.Context, id uuid.UUID) (Draft, error) {
	row := q.db.QueryRowContext(ctx, getDraft, id)
	var i Draft
	err := row.Scan(
		&i.ID,
		&i.Year,
		&i.Status,
		&i.Rounds,
		&i.PicksPerRound,
		&i.StartedAt,
		&i.CompletedAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const transitionDraftStatus = `-- name: TransitionDraftStatus :one
UPDATE drafts
SET status = $2,
    started_at = COALESCE(started_at, $4),
    completed_at = COALESCE(completed_at, $5),
    updated_at = $6
WHERE id = $1 AND status = ANY($3::text[])
RETURNING id, year, status, rounds, picks_per_round, started_at, completed_at, created_at, updated_at
`

type TransitionDraftStatusParams struct {
	ID          uuid.UUID
	Status      string
	FromStatus  []string
	StartedAt   sql.NullTime
	CompletedAt sql.NullTime
	UpdatedAt   time.Time
}

func (q *Queries) TransitionDraftStatus(ctx context.Context, arg TransitionDraftStatusParams) (Draft, error) {
	row := q.db.QueryRowContext(ctx, transitionDraftStatus,
		arg.ID,
		arg.Status,
		pq.Array(arg.FromStatus),
		arg.StartedAt,
		arg.CompletedAt,
		arg.UpdatedAt,
	)
	var i Draft
	err := row.Scan(
		&i.ID,
		&i.Year,
		&i.Status,
		&i.Rounds,
		&i.PicksPerRound,
		&i.StartedAt,
		&i.CompletedAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listDraftsByStatus = `-- name: ListDraftsByStatus :many
SELECT id, year, status, rounds, picks_per_round, started_at, completed_at, created_at, updated_at FROM drafts
WHERE status = $1
ORDER BY created_at
`

func (q *Queries) ListDraftsByStatus(ctx context.Context, status string) ([]Draft, error) {
	rows, err := q.db.QueryContext(ctx, listDraftsByStatus, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Draft
	for rows.Next() {
		var i Draft
		if err := rows.Scan(
			&i.ID,
			&i.Year,
			&i.Status,
			&i.Rounds,
			&i.PicksPerRound,
			&i.StartedAt,
			&i.CompletedAt,
			&i.CreatedAt,
			&i.UpdatedAt,
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

const countDraftPicks = `-- name: CountDraftPicks :one
SELECT COUNT(*) FROM draft_picks
WHERE draft_id = $1
`

func (q *Queries) CountDraftPicks(ctx context.Context, draftID uuid.UUID) (int64, error) {
	row := q.db.QueryRowContext(ctx, countDraftPicks, draftID)
	var count int64
	err := row.Scan(&count)
	return count, err
}
