package teams

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mcdev12/warroom/go/internal/apperr"
	"github.com/mcdev12/warroom/go/internal/models"
	"github.com/mcdev12/warroom/go/internal/teams/db"
)

// Querier defines what the repository needs from the database layer
type Querier interface {
	GetTeam(ctx context.Context, id uuid.UUID) (db.Team, error)
	GetTeamByCode(ctx context.Context, code string) (db.Team, error)
	ListAllTeams(ctx context.Context) ([]db.Team, error)
	ListStandingsByYear(ctx context.Context, year int32) ([]db.TeamStanding, error)
}

// Repository implements team data access operations
type Repository struct {
	queries Querier
}

// NewRepository creates a new teams repository
func NewRepository(querier Querier) *Repository {
	return &Repository{
		queries: querier,
	}
}

// GetTeam retrieves a team by ID
func (r *Repository) GetTeam(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	dbTeam, err := r.queries.GetTeam(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFoundf("team %s", id)
		}
		return nil, fmt.Errorf("failed to get team: %w", err)
	}

	return r.dbTeamToModel(dbTeam), nil
}

// GetTeamByCode retrieves a team by its short code
func (r *Repository) GetTeamByCode(ctx context.Context, code string) (*models.Team, error) {
	dbTeam, err := r.queries.GetTeamByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFoundf("team with code %q", code)
		}
		return nil, fmt.Errorf("failed to get team by code: %w", err)
	}

	return r.dbTeamToModel(dbTeam), nil
}

// ListAllTeams retrieves all teams
func (r *Repository) ListAllTeams(ctx context.Context) ([]models.Team, error) {
	dbTeams, err := r.queries.ListAllTeams(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list all teams: %w", err)
	}

	teams := make([]models.Team, len(dbTeams))
	for i, dbTeam := range dbTeams {
		teams[i] = *r.dbTeamToModel(dbTeam)
	}

	return teams, nil
}

// ListStandingsByYear retrieves a season's final standings ordered by draft position
func (r *Repository) ListStandingsByYear(ctx context.Context, year int) ([]models.TeamStanding, error) {
	rows, err := r.queries.ListStandingsByYear(ctx, int32(year))
	if err != nil {
		return nil, fmt.Errorf("failed to list standings for %d: %w", year, err)
	}

	standings := make([]models.TeamStanding, len(rows))
	for i, row := range rows {
		standings[i] = models.TeamStanding{
			TeamID:        row.TeamID,
			Year:          int(row.Year),
			Wins:          int(row.Wins),
			Losses:        int(row.Losses),
			Ties:          int(row.Ties),
			DraftPosition: int(row.DraftPosition),
		}
	}

	return standings, nil
}

func (r *Repository) dbTeamToModel(dbTeam db.Team) *models.Team {
	return &models.Team{
		ID:        dbTeam.ID,
		Name:      dbTeam.Name,
		Code:      dbTeam.Code,
		City:      dbTeam.City,
		CreatedAt: dbTeam.CreatedAt,
	}
}
