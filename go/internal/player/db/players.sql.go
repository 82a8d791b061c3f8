package db

import (
	"context"

	"github.com/google/uuid"
)

const getPlayer = `-- name: GetPlayer :one
SELECT id, full_name, position, college, eligibility_year, is_draft_eligible, created_at FROM players
WHERE id = $1
`

func (q *Queries) GetPlayer(ctx context.Context, id uuid.UUID) (Player, error) {
	row := q.db.QueryRowContext(ctx, getPlayer, id)
	var i Player
	err := row.Scan(
		&i.ID,
		&i.FullName,
		&i.Position,
		&i.College,
		&i.EligibilityYear,
		&i.IsDraftEligible,
		&i.CreatedAt,
	)
	return i, err
}

const listPlayersByEligibilityYear = `-- name: ListPlayersByEligibilityYear :many
SELECT id, full_name, position, college, eligibility_year, is_draft_eligible, created_at FROM players
WHERE eligibility_year = $1
ORDER BY full_name
`

func (q *Queries) ListPlayersByEligibilityYear(ctx context.Context, eligibilityYear int32) ([]Player, error) {
	rows, err := q.db.QueryContext(ctx, listPlayersByEligibilityYear, eligibilityYear)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Player
	for rows.Next() {
		var i Player
		if err := rows.Scan(
			&i.ID,
			&i.FullName,
			&i.Position,
			&i.College,
			&i.EligibilityYear,
			&i.IsDraftEligible,
			&i.CreatedAt,
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
