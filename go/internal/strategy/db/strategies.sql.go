package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
)

const getStrategy = `-- name: GetStrategy :one
SELECT id, team_id, draft_id, bpa_weight, need_weight, position_multipliers, aggressiveness, created_at, updated_at FROM draft_strategies
WHERE team_id = $1 AND draft_id = $2
`

type GetStrategyParams struct {
	TeamID  uuid.UUID
	DraftID uuid.UUID
}

func (q *Queries) GetStrategy(ctx context.Context, arg GetStrategyParams) (DraftStrategy, error) {
	row := q.db.QueryRowContext(ctx, getStrategy, arg.TeamID, arg.DraftID)
	var i DraftStrategy
	err := row.Scan(
		&i.ID,
		&i.TeamID,
		&i.DraftID,
		&i.BpaWeight,
		&i.NeedWeight,
		&i.PositionMultipliers,
		&i.Aggressiveness,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const insertStrategyIfAbsent = `-- name: InsertStrategyIfAbsent :exec
INSERT INTO draft_strategies (id, team_id, draft_id, bpa_weight, need_weight, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $6)
ON CONFLICT (team_id, draft_id) DO NOTHING
`

type InsertStrategyIfAbsentParams struct {
	ID         uuid.UUID
	TeamID     uuid.UUID
	DraftID    uuid.UUID
	BpaWeight  int32
	NeedWeight int32
	CreatedAt  time.Time
}

func (q *Queries) InsertStrategyIfAbsent(ctx context.Context, arg InsertStrategyIfAbsentParams) error {
	_, err := q.db.ExecContext(ctx, insertStrategyIfAbsent,
		arg.ID,
		arg.TeamID,
		arg.DraftID,
		arg.BpaWeight,
		arg.NeedWeight,
		arg.CreatedAt,
	)
	return err
}

const upsertStrategy = `-- name: UpsertStrategy :one
INSERT INTO draft_strategies (id, team_id, draft_id, bpa_weight, need_weight, position_multipliers, aggressiveness, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
ON CONFLICT (team_id, draft_id) DO UPDATE
SET bpa_weight = EXCLUDED.bpa_weight,
    need_weight = EXCLUDED.need_weight,
    position_multipliers = EXCLUDED.position_multipliers,
    aggressiveness = EXCLUDED.aggressiveness,
    updated_at = EXCLUDED.updated_at
RETURNING id, team_id, draft_id, bpa_weight, need_weight, position_multipliers, aggressiveness, created_at, updated_at
`

type UpsertStrategyParams struct {
	ID                  uuid.UUID
	TeamID              uuid.UUID
	DraftID             uuid.UUID
	BpaWeight           int32
	NeedWeight          int32
	PositionMultipliers pqtype.NullRawMessage
	Aggressiveness      sql.NullFloat64
	UpdatedAt           time.Time
}

func (q *Queries) UpsertStrategy(ctx context.Context, arg UpsertStrategyParams) (DraftStrategy, error) {
	row := q.db.QueryRowContext(ctx, upsertStrategy,
		arg.ID,
		arg.TeamID,
		arg.DraftID,
		arg.BpaWeight,
		arg.NeedWeight,
		arg.PositionMultipliers,
		arg.Aggressiveness,
		arg.UpdatedAt,
	)
	var i DraftStrategy
	err := row.Scan(
		&i.ID,
		&i.TeamID,
		&i.DraftID,
		&i.BpaWeight,
		&i.NeedWeight,
		&i.PositionMultipliers,
		&i.Aggressiveness,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}
