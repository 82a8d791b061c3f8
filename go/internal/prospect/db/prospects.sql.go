package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const getScoutingReport = `-- name: GetScoutingReport :one
SELECT id, team_id, player_id, grade, fit_grade, injury_concern, character_concern, updated_at FROM scouting_reports
WHERE team_id = $1 AND player_id = $2
`

type GetScoutingReportParams struct {
	TeamID   uuid.UUID
	PlayerID uuid.UUID
}

func (q *Queries) GetScoutingReport(ctx context.Context, arg GetScoutingReportParams) (ScoutingReport, error) {
	row := q.db.QueryRowContext(ctx, getScoutingReport, arg.TeamID, arg.PlayerID)
	var i ScoutingReport
	err := row.Scan(
		&i.ID,
		&i.TeamID,
		&i.PlayerID,
		&i.Grade,
		&i.FitGrade,
		&i.InjuryConcern,
		&i.CharacterConcern,
		&i.UpdatedAt,
	)
	return i, err
}

const listScoutingReportsByTeam = `-- name: ListScoutingReportsByTeam :many
SELECT id, team_id, player_id, grade, fit_grade, injury_concern, character_concern, updated_at FROM scouting_reports
WHERE team_id = $1
`

func (q *Queries) ListScoutingReportsByTeam(ctx context.Context, teamID uuid.UUID) ([]ScoutingReport, error) {
	rows, err := q.db.QueryContext(ctx, listScoutingReportsByTeam, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ScoutingReport
	for rows.Next() {
		var i ScoutingReport
		if err := rows.Scan(
			&i.ID,
			&i.TeamID,
			&i.PlayerID,
			&i.Grade,
			&i.FitGrade,
			&i.InjuryConcern,
			&i.CharacterConcern,
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

const listCombineResultsByPlayers = `-- name: ListCombineResultsByPlayers :many
SELECT id, player_id, year, source, measurements FROM combine_results
WHERE player_id = ANY($1::uuid[])
ORDER BY player_id, year DESC, source
`

func (q *Queries) ListCombineResultsByPlayers(ctx context.Context, playerIds []uuid.UUID) ([]CombineResult, error) {
	rows, err := q.db.QueryContext(ctx, listCombineResultsByPlayers, pq.Array(playerIds))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CombineResult
	for rows.Next() {
		var i CombineResult
		if err := rows.Scan(
			&i.ID,
			&i.PlayerID,
			&i.Year,
			&i.Source,
			&i.Measurements,
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

const listPercentileTablesByPositions = `-- name: ListPercentileTablesByPositions :many
SELECT position, measurement, percentile, value FROM percentile_tables
WHERE position = ANY($1::text[])
ORDER BY position, measurement, percentile
`

func (q *Queries) ListPercentileTablesByPositions(ctx context.Context, positions []string) ([]PercentileTable, error) {
	rows, err := q.db.QueryContext(ctx, listPercentileTablesByPositions, pq.Array(positions))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []PercentileTable
	for rows.Next() {
		var i PercentileTable
		if err := rows.Scan(
			&i.Position,
			&i.Measurement,
			&i.Percentile,
			&i.Value,
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

const listTeamNeeds = `-- name: ListTeamNeeds :many
SELECT team_id, position, priority FROM team_needs
WHERE team_id = $1
ORDER BY priority
`

func (q *Queries) ListTeamNeeds(ctx context.Context, teamID uuid.UUID) ([]TeamNeed, error) {
	rows, err := q.db.QueryContext(ctx, listTeamNeeds, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []TeamNeed
	for rows.Next() {
		var i TeamNeed
		if err := rows.Scan(&i.TeamID, &i.Position, &i.Priority); err != nil {
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
