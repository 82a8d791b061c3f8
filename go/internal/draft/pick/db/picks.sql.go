package db

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const lockDraftForPicks = `-- name: LockDraftForPicks :one
SELECT id FROM drafts
WHERE id = $1
FOR UPDATE
`

func (q *Queries) LockDraftForPicks(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	row := q.db.QueryRowContext(ctx, lockDraftForPicks, id)
	var lockedID uuid.UUID
	err := row.Scan(&lockedID)
	return lockedID, err
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

const createDraftPickBatch = `-- name: CreateDraftPickBatch :exec
INSERT INTO draft_picks (id, draft_id, round, pick, overall_pick, team_id, is_compensatory, notes)
SELECT
    unnest($1::uuid[]),
    $2,
    unnest($3::int[]),
    unnest($4::int[]),
    unnest($5::int[]),
    unnest($6::uuid[]),
    unnest($7::bool[]),
    unnest($8::text[])
`

type CreateDraftPickBatchParams struct {
	IDs            []string
	DraftID        uuid.UUID
	Rounds         []int32
	Picks          []int32
	OverallPicks   []int32
	TeamIDs        []string
	IsCompensatory []bool
	Notes          []string
}

func (q *Queries) CreateDraftPickBatch(ctx context.Context, arg CreateDraftPickBatchParams) error {
	_, err := q.db.ExecContext(ctx, createDraftPickBatch,
		pq.Array(arg.IDs),
		arg.DraftID,
		pq.Array(arg.Rounds),
		pq.Array(arg.Picks),
		pq.Array(arg.OverallPicks),
		pq.Array(arg.TeamIDs),
		pq.Array(arg.IsCompensatory),
		pq.Array(arg.Notes),
	)
	return err
}

const getDraftPick = `-- name: GetDraftPick :one
SELECT id, draft_id, round, pick, overall_pick, team_id, player_id, picked_at, original_team_id, is_compensatory, notes FROM draft_picks
WHERE id = $1
`

func (q *Queries) GetDraftPick(ctx context.Context, id uuid.UUID) (DraftPick, error) {
	row := q.db.QueryRowContext(ctx, getDraftPick, id)
	var i DraftPick
	err := row.Scan(
		&i.ID,
		&i.DraftID,
		&i.Round,
		&i.Pick,
		&i.OverallPick,
		&i.TeamID,
		&i.PlayerID,
		&i.PickedAt,
		&i.OriginalTeamID,
		&i.IsCompensatory,
		&i.Notes,
	)
	return i, err
}

const getDraftPicksByDraft = `-- name: GetDraftPicksByDraft :many
SELECT id, draft_id, round, pick, overall_pick, team_id, player_id, picked_at, original_team_id, is_compensatory, notes FROM draft_picks
WHERE draft_id = $1
ORDER BY overall_pick
`

func (q *Queries) GetDraftPicksByDraft(ctx context.Context, draftID uuid.UUID) ([]DraftPick, error) {
	rows, err := q.db.QueryContext(ctx, getDraftPicksByDraft, draftID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []DraftPick
	for rows.Next() {
		var i DraftPick
		if err := rows.Scan(
			&i.ID,
			&i.DraftID,
			&i.Round,
			&i.Pick,
			&i.OverallPick,
			&i.TeamID,
			&i.PlayerID,
			&i.PickedAt,
			&i.OriginalTeamID,
			&i.IsCompensatory,
			&i.Notes,
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

const getNextPickForDraft = `-- name: GetNextPickForDraft :one
SELECT id, draft_id, round, pick, overall_pick, team_id, player_id, picked_at, original_team_id, is_compensatory, notes FROM draft_picks
WHERE draft_id = $1 AND player_id IS NULL
ORDER BY overall_pick
LIMIT 1
`

func (q *Queries) GetNextPickForDraft(ctx context.Context, draftID uuid.UUID) (DraftPick, error) {
	row := q.db.QueryRowContext(ctx, getNextPickForDraft, draftID)
	var i DraftPick
	err := row.Scan(
		&i.ID,
		&i.DraftID,
		&i.Round,
		&i.Pick,
		&i.OverallPick,
		&i.TeamID,
		&i.PlayerID,
		&i.PickedAt,
		&i.OriginalTeamID,
		&i.IsCompensatory,
		&i.Notes,
	)
	return i, err
}

const listAvailablePicks = `-- name: ListAvailablePicks :many
SELECT id, draft_id, round, pick, overall_pick, team_id, player_id, picked_at, original_team_id, is_compensatory, notes FROM draft_picks
WHERE draft_id = $1 AND player_id IS NULL
ORDER BY overall_pick
`

func (q *Queries) ListAvailablePicks(ctx context.Context, draftID uuid.UUID) ([]DraftPick, error) {
	rows, err := q.db.QueryContext(ctx, listAvailablePicks, draftID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []DraftPick
	for rows.Next() {
		var i DraftPick
		if err := rows.Scan(
			&i.ID,
			&i.DraftID,
			&i.Round,
			&i.Pick,
			&i.OverallPick,
			&i.TeamID,
			&i.PlayerID,
			&i.PickedAt,
			&i.OriginalTeamID,
			&i.IsCompensatory,
			&i.Notes,
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

const countRemainingPicks = `-- name: CountRemainingPicks :one
SELECT COUNT(*) FROM draft_picks
WHERE draft_id = $1 AND player_id IS NULL
`

func (q *Queries) CountRemainingPicks(ctx context.Context, draftID uuid.UUID) (int64, error) {
	row := q.db.QueryRowContext(ctx, countRemainingPicks, draftID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const getPickByPlayer = `-- name: GetPickByPlayer :one
SELECT id, draft_id, round, pick, overall_pick, team_id, player_id, picked_at, original_team_id, is_compensatory, notes FROM draft_picks
WHERE draft_id = $1 AND player_id = $2
`

type GetPickByPlayerParams struct {
	DraftID  uuid.UUID
	PlayerID uuid.NullUUID
}

func (q *Queries) GetPickByPlayer(ctx context.Context, arg GetPickByPlayerParams) (DraftPick, error) {
	row := q.db.QueryRowContext(ctx, getPickByPlayer, arg.DraftID, arg.PlayerID)
	var i DraftPick
	err := row.Scan(
		&i.ID,
		&i.DraftID,
		&i.Round,
		&i.Pick,
		&i.OverallPick,
		&i.TeamID,
		&i.PlayerID,
		&i.PickedAt,
		&i.OriginalTeamID,
		&i.IsCompensatory,
		&i.Notes,
	)
	return i, err
}

const makePick = `-- name: MakePick :one
UPDATE draft_picks
SET player_id = $2, picked_at = $3
WHERE id = $1 AND player_id IS NULL
RETURNING id, draft_id, round, pick, overall_pick, team_id, player_id, picked_at, original_team_id, is_compensatory, notes
`

type MakePickParams struct {
	ID       uuid.UUID
	PlayerID uuid.NullUUID
	PickedAt time.Time
}

func (q *Queries) MakePick(ctx context.Context, arg MakePickParams) (DraftPick, error) {
	row := q.db.QueryRowContext(ctx, makePick, arg.ID, arg.PlayerID, arg.PickedAt)
	var i DraftPick
	err := row.Scan(
		&i.ID,
		&i.DraftID,
		&i.Round,
		&i.Pick,
		&i.OverallPick,
		&i.TeamID,
		&i.PlayerID,
		&i.PickedAt,
		&i.OriginalTeamID,
		&i.IsCompensatory,
		&i.Notes,
	)
	return i, err
}

const listDraftedPlayerIDs = `-- name: ListDraftedPlayerIDs :many
SELECT player_id FROM draft_picks
WHERE draft_id = $1 AND player_id IS NOT NULL
`

func (q *Queries) ListDraftedPlayerIDs(ctx context.Context, draftID uuid.UUID) ([]uuid.NullUUID, error) {
	rows, err := q.db.QueryContext(ctx, listDraftedPlayerIDs, draftID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []uuid.NullUUID
	for rows.Next() {
		var player_id uuid.NullUUID
		if err := rows.Scan(&player_id); err != nil {
			return nil, err
		}
		items = append(items, player_id)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
