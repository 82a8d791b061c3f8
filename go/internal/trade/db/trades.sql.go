package db

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const lockPicks = `-- name: LockPicks :many
SELECT id, draft_id, round, pick, overall_pick, team_id, player_id, picked_at, original_team_id, is_compensatory, notes FROM draft_picks
WHERE id = ANY($1::uuid[])
ORDER BY id
FOR UPDATE
`

func (q *Queries) LockPicks(ctx context.Context, ids []string) ([]DraftPick, error) {
	rows, err := q.db.QueryContext(ctx, lockPicks, pq.Array(ids))
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

const listActiveTradePicks = `-- name: ListActiveTradePicks :many
SELECT pick_id FROM pick_trade_details
WHERE active AND pick_id = ANY($1::uuid[])
`

func (q *Queries) ListActiveTradePicks(ctx context.Context, ids []string) ([]uuid.UUID, error) {
	rows, err := q.db.QueryContext(ctx, listActiveTradePicks, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []uuid.UUID
	for rows.Next() {
		var pick_id uuid.UUID
		if err := rows.Scan(&pick_id); err != nil {
			return nil, err
		}
		items = append(items, pick_id)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createTrade = `-- name: CreateTrade :one
INSERT INTO pick_trades (id, session_id, from_team_id, to_team_id, status, from_value, to_value, value_difference, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id, session_id, from_team_id, to_team_id, status, from_value, to_value, value_difference, created_at, resolved_at
`

type CreateTradeParams struct {
	ID              uuid.UUID
	SessionID       uuid.UUID
	FromTeamID      uuid.UUID
	ToTeamID        uuid.UUID
	Status          string
	FromValue       float64
	ToValue         float64
	ValueDifference float64
	CreatedAt       time.Time
}

func (q *Queries) CreateTrade(ctx context.Context, arg CreateTradeParams) (PickTrade, error) {
	row := q.db.QueryRowContext(ctx, createTrade,
		arg.ID,
		arg.SessionID,
		arg.FromTeamID,
		arg.ToTeamID,
		arg.Status,
		arg.FromValue,
		arg.ToValue,
		arg.ValueDifference,
		arg.CreatedAt,
	)
	var i PickTrade
	err := row.Scan(
		&i.ID,
		&i.SessionID,
		&i.FromTeamID,
		&i.ToTeamID,
		&i.Status,
		&i.FromValue,
		&i.ToValue,
		&i.ValueDifference,
		&i.CreatedAt,
		&i.ResolvedAt,
	)
	return i, err
}

const createTradeDetail = `-- name: CreateTradeDetail :exec
INSERT INTO pick_trade_details (id, trade_id, pick_id, side, active)
VALUES ($1, $2, $3, $4, true)
`

type CreateTradeDetailParams struct {
	ID      uuid.UUID
	TradeID uuid.UUID
	PickID  uuid.UUID
	Side    string
}

func (q *Queries) CreateTradeDetail(ctx context.Context, arg CreateTradeDetailParams) error {
	_, err := q.db.ExecContext(ctx, createTradeDetail,
		arg.ID,
		arg.TradeID,
		arg.PickID,
		arg.Side,
	)
	return err
}

const getTrade = `-- name: GetTrade :one
SELECT id, session_id, from_team_id, to_team_id, status, from_value, to_value, value_difference, created_at, resolved_at FROM pick_trades
WHERE id = $1
`

func (q *Queries) GetTrade(ctx context.Context, id uuid.UUID) (PickTrade, error) {
	row := q.db.QueryRowContext(ctx, getTrade, id)
	var i PickTrade
	err := row.Scan(
		&i.ID,
		&i.SessionID,
		&i.FromTeamID,
		&i.ToTeamID,
		&i.Status,
		&i.FromValue,
		&i.ToValue,
		&i.ValueDifference,
		&i.CreatedAt,
		&i.ResolvedAt,
	)
	return i, err
}

const lockTrade = `-- name: LockTrade :one
SELECT id, session_id, from_team_id, to_team_id, status, from_value, to_value, value_difference, created_at, resolved_at FROM pick_trades
WHERE id = $1
FOR UPDATE
`

func (q *Queries) LockTrade(ctx context.Context, id uuid.UUID) (PickTrade, error) {
	row := q.db.QueryRowContext(ctx, lockTrade, id)
	var i PickTrade
	err := row.Scan(
		&i.ID,
		&i.SessionID,
		&i.FromTeamID,
		&i.ToTeamID,
		&i.Status,
		&i.FromValue,
		&i.ToValue,
		&i.ValueDifference,
		&i.CreatedAt,
		&i.ResolvedAt,
	)
	return i, err
}

const listTradeDetails = `-- name: ListTradeDetails :many
SELECT id, trade_id, pick_id, side, active FROM pick_trade_details
WHERE trade_id = $1
ORDER BY side, pick_id
`

func (q *Queries) ListTradeDetails(ctx context.Context, tradeID uuid.UUID) ([]PickTradeDetail, error) {
	rows, err := q.db.QueryContext(ctx, listTradeDetails, tradeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []PickTradeDetail
	for rows.Next() {
		var i PickTradeDetail
		if err := rows.Scan(
			&i.ID,
			&i.TradeID,
			&i.PickID,
			&i.Side,
			&i.Active,
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

const listPendingTradesForTeam = `-- name: ListPendingTradesForTeam :many
SELECT id, session_id, from_team_id, to_team_id, status, from_value, to_value, value_difference, created_at, resolved_at FROM pick_trades
WHERE to_team_id = $1 AND status = 'PROPOSED'
ORDER BY created_at
`

func (q *Queries) ListPendingTradesForTeam(ctx context.Context, toTeamID uuid.UUID) ([]PickTrade, error) {
	rows, err := q.db.QueryContext(ctx, listPendingTradesForTeam, toTeamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []PickTrade
	for rows.Next() {
		var i PickTrade
		if err := rows.Scan(
			&i.ID,
			&i.SessionID,
			&i.FromTeamID,
			&i.ToTeamID,
			&i.Status,
			&i.FromValue,
			&i.ToValue,
			&i.ValueDifference,
			&i.CreatedAt,
			&i.ResolvedAt,
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

const transferPick = `-- name: TransferPick :execrows
UPDATE draft_picks
SET team_id = $2,
    original_team_id = COALESCE(original_team_id, team_id)
WHERE id = $1 AND team_id = $3 AND player_id IS NULL
`

type TransferPickParams struct {
	ID         uuid.UUID
	TeamID     uuid.UUID
	FromTeamID uuid.UUID
}

func (q *Queries) TransferPick(ctx context.Context, arg TransferPickParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, transferPick, arg.ID, arg.TeamID, arg.FromTeamID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deactivateTradeDetails = `-- name: DeactivateTradeDetails :exec
UPDATE pick_trade_details
SET active = false
WHERE trade_id = $1
`

func (q *Queries) DeactivateTradeDetails(ctx context.Context, tradeID uuid.UUID) error {
	_, err := q.db.ExecContext(ctx, deactivateTradeDetails, tradeID)
	return err
}

const resolveTrade = `-- name: ResolveTrade :one
UPDATE pick_trades
SET status = $2, resolved_at = $3
WHERE id = $1 AND status = 'PROPOSED'
RETURNING id, session_id, from_team_id, to_team_id, status, from_value, to_value, value_difference, created_at, resolved_at
`

type ResolveTradeParams struct {
	ID         uuid.UUID
	Status     string
	ResolvedAt time.Time
}

func (q *Queries) ResolveTrade(ctx context.Context, arg ResolveTradeParams) (PickTrade, error) {
	row := q.db.QueryRowContext(ctx, resolveTrade, arg.ID, arg.Status, arg.ResolvedAt)
	var i PickTrade
	err := row.Scan(
		&i.ID,
		&i.SessionID,
		&i.FromTeamID,
		&i.ToTeamID,
		&i.Status,
		&i.FromValue,
		&i.ToValue,
		&i.ValueDifference,
		&i.CreatedAt,
		&i.ResolvedAt,
	)
	return i, err
}
