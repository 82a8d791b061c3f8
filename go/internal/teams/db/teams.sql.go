package db

import (
	"context"

	"github.com/google/uuid"
)

const getTeam = `-- name: GetTeam :one
SELECT id, name, code, city, created_at FROM teams
WHERE id = $1
`

func (q *Queries) GetTeam(ctx context.Context, id uuid.UUID) (Team, error) {
	row := q.db.QueryRowContext(ctx, getTeam, id)
	var i Team
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Code,
		&i.City,
		&i.CreatedAt,
	)
	return i, err
}

const getTeamByCode = `-- name: GetTeamByCode :one
SELECT id, name, code, city, created_at FROM teams
WHERE code = $1
`

func (q *Queries) GetTeamByCode(ctx context.Context, code string) (Team, error) {
	row := q.db.QueryRowContext(ctx, getTeamByCode, code)
	var i Team
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Code,
		&i.City,
		&i.CreatedAt,
	)
	return i, err
}

const listAllTeams = `-- name: ListAllTeams :many
SELECT id, name, code, city, created_at FROM teams
ORDER BY code
`

func (q *Queries) ListAllTeams(ctx context.Context) ([]Team, error) {
	rows, err := q.db.QueryContext(ctx, listAllTeams)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Team
	for rows.Next() {
		var i Team
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.Code,
			&i.City,
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

const listStandingsByYear = `-- name: ListStandingsByYear :many
SELECT team_id, year, wins, losses, ties, draft_position FROM team_standings
WHERE year = $1
ORDER BY draft_position ASC
`

func (q *Queries) ListStandingsByYear(ctx context.Context, year int32) ([]TeamStanding, error) {
	rows, err := q.db.QueryContext(ctx, listStandingsByYear, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []TeamStanding
	for rows.Next() {
		var i TeamStanding
		if err := rows.Scan(
			&i.TeamID,
			&i.Year,
			&i.Wins,
			&i.Losses,
			&i.Ties,
			&i.DraftPosition,
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
