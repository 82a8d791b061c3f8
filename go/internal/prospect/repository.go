package prospect

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mcdev12/warroom/go/internal/apperr"
	"github.com/mcdev12/warroom/go/internal/models"
	"github.com/mcdev12/warroom/go/internal/prospect/db"
	"github.com/mcdev12/warroom/go/internal/sqlutil"
)

// Querier defines what the repository needs from the database layer
type Querier interface {
	GetScoutingReport(ctx context.Context, arg db.GetScoutingReportParams) (db.ScoutingReport, error)
	ListScoutingReportsByTeam(ctx context.Context, teamID uuid.UUID) ([]db.ScoutingReport, error)
	ListCombineResultsByPlayers(ctx context.Context, playerIds []uuid.UUID) ([]db.CombineResult, error)
	ListPercentileTablesByPositions(ctx context.Context, positions []string) ([]db.PercentileTable, error)
	ListTeamNeeds(ctx context.Context, teamID uuid.UUID) ([]db.TeamNeed, error)
}

// Repository reads the scouting data a team keeps on draft prospects
type Repository struct {
	queries Querier
}

// NewRepository creates a new prospect repository
func NewRepository(queries Querier) *Repository {
	return &Repository{queries: queries}
}

// GetScoutingReport returns the team's report on a player, NotFound if the team never scouted them
func (r *Repository) GetScoutingReport(ctx context.Context, teamID, playerID uuid.UUID) (*models.ScoutingReport, error) {
	row, err := r.queries.GetScoutingReport(ctx, db.GetScoutingReportParams{
		TeamID:   teamID,
		PlayerID: playerID,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFoundf("scouting report for player %s by team %s", playerID, teamID)
		}
		return nil, fmt.Errorf("failed to get scouting report: %w", err)
	}
	return dbReportToModel(row), nil
}

// ListScoutingReportsByTeam returns every report the team has filed, keyed by player
func (r *Repository) ListScoutingReportsByTeam(ctx context.Context, teamID uuid.UUID) (map[uuid.UUID]models.ScoutingReport, error) {
	rows, err := r.queries.ListScoutingReportsByTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list scouting reports: %w", err)
	}

	reports := make(map[uuid.UUID]models.ScoutingReport, len(rows))
	for _, row := range rows {
		reports[row.PlayerID] = *dbReportToModel(row)
	}
	return reports, nil
}

// ListCombineResultsByPlayer returns all measurement records for a player
func (r *Repository) ListCombineResultsByPlayer(ctx context.Context, playerID uuid.UUID) ([]models.CombineResult, error) {
	byPlayer, err := r.ListCombineResultsByPlayers(ctx, []uuid.UUID{playerID})
	if err != nil {
		return nil, err
	}
	return byPlayer[playerID], nil
}

// ListCombineResultsByPlayers returns measurement records grouped by player
func (r *Repository) ListCombineResultsByPlayers(ctx context.Context, playerIDs []uuid.UUID) (map[uuid.UUID][]models.CombineResult, error) {
	out := make(map[uuid.UUID][]models.CombineResult)
	if len(playerIDs) == 0 {
		return out, nil
	}

	rows, err := r.queries.ListCombineResultsByPlayers(ctx, playerIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list combine results: %w", err)
	}

	for _, row := range rows {
		measurements := map[string]float64{}
		if len(row.Measurements) > 0 {
			if err := json.Unmarshal(row.Measurements, &measurements); err != nil {
				return nil, fmt.Errorf("failed to decode measurements for combine result %s: %w", row.ID, err)
			}
		}
		out[row.PlayerID] = append(out[row.PlayerID], models.CombineResult{
			ID:           row.ID,
			PlayerID:     row.PlayerID,
			Year:         int(row.Year),
			Source:       row.Source,
			Measurements: measurements,
		})
	}
	return out, nil
}

// ListPercentileTables returns reference tables for the given positions, keyed by position then measurement
func (r *Repository) ListPercentileTables(ctx context.Context, positions []string) (map[string]map[string]models.PercentileTable, error) {
	out := make(map[string]map[string]models.PercentileTable)
	if len(positions) == 0 {
		return out, nil
	}

	rows, err := r.queries.ListPercentileTablesByPositions(ctx, positions)
	if err != nil {
		return nil, fmt.Errorf("failed to list percentile tables: %w", err)
	}

	for _, row := range rows {
		byMeasurement, ok := out[row.Position]
		if !ok {
			byMeasurement = make(map[string]models.PercentileTable)
			out[row.Position] = byMeasurement
		}
		table := byMeasurement[row.Measurement]
		table.Position = row.Position
		table.Measurement = row.Measurement
		table.Points = append(table.Points, models.PercentilePoint{
			Percentile: row.Percentile,
			Value:      row.Value,
		})
		byMeasurement[row.Measurement] = table
	}
	return out, nil
}

// ListTeamNeeds returns the team's needs ordered by priority
func (r *Repository) ListTeamNeeds(ctx context.Context, teamID uuid.UUID) ([]models.TeamNeed, error) {
	rows, err := r.queries.ListTeamNeeds(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list team needs: %w", err)
	}

	needs := make([]models.TeamNeed, len(rows))
	for i, row := range rows {
		needs[i] = models.TeamNeed{
			TeamID:   row.TeamID,
			Position: row.Position,
			Priority: int(row.Priority),
		}
	}
	return needs, nil
}

func dbReportToModel(row db.ScoutingReport) *models.ScoutingReport {
	report := &models.ScoutingReport{
		ID:               row.ID,
		TeamID:           row.TeamID,
		PlayerID:         row.PlayerID,
		Grade:            row.Grade,
		InjuryConcern:    row.InjuryConcern,
		CharacterConcern: row.CharacterConcern,
		UpdatedAt:        row.UpdatedAt,
	}
	if fit := sqlutil.FromSqlStringPtr(row.FitGrade); fit != nil {
		grade := models.FitGrade(*fit)
		report.FitGrade = &grade
	}
	return report
}
