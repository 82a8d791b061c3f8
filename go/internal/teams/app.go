package teams

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mcdev12/warroom/go/internal/apperr"
	"github.com/mcdev12/warroom/go/internal/models"
)

// TeamsRepository defines what the app layer needs from the repository
type TeamsRepository interface {
	GetTeam(ctx context.Context, id uuid.UUID) (*models.Team, error)
	GetTeamByCode(ctx context.Context, code string) (*models.Team, error)
	ListAllTeams(ctx context.Context) ([]models.Team, error)
	ListStandingsByYear(ctx context.Context, year int) ([]models.TeamStanding, error)
}

// App handles team lookups
type App struct {
	repo TeamsRepository
}

// NewApp creates a new teams App
func NewApp(repo TeamsRepository) *App {
	return &App{
		repo: repo,
	}
}

// GetTeam retrieves a team by ID
func (a *App) GetTeam(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	if id == uuid.Nil {
		return nil, apperr.Validationf("team id is required")
	}
	return a.repo.GetTeam(ctx, id)
}

// GetTeamByCode retrieves a team by short code, case-insensitively
func (a *App) GetTeamByCode(ctx context.Context, code string) (*models.Team, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, apperr.Validationf("team code is required")
	}
	return a.repo.GetTeamByCode(ctx, code)
}

// ListAllTeams retrieves all teams
func (a *App) ListAllTeams(ctx context.Context) ([]models.Team, error) {
	return a.repo.ListAllTeams(ctx)
}

// ListStandingsByYear retrieves standings ordered by draft position
func (a *App) ListStandingsByYear(ctx context.Context, year int) ([]models.TeamStanding, error) {
	if year <= 0 {
		return nil, apperr.Validationf("invalid standings year %d", year)
	}
	standings, err := a.repo.ListStandingsByYear(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("failed to get standings: %w", err)
	}
	return standings, nil
}

// ResolveTeam accepts either a team UUID or a short code.
func (a *App) ResolveTeam(ctx context.Context, ref string) (*models.Team, error) {
	if id, err := uuid.Parse(ref); err == nil {
		return a.GetTeam(ctx, id)
	}
	return a.GetTeamByCode(ctx, ref)
}
