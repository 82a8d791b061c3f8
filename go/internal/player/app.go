package player

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mcdev12/warroom/go/internal/apperr"
	"github.com/mcdev12/warroom/go/internal/models"
)

// PlayerRepository defines what the app layer needs from the repository
type PlayerRepository interface {
	GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error)
	ListPlayersByEligibilityYear(ctx context.Context, year int) ([]models.Player, error)
}

// App handles player lookups
type App struct {
	repo PlayerRepository
}

// NewApp creates a new player App
func NewApp(repo PlayerRepository) *App {
	return &App{
		repo: repo,
	}
}

// GetPlayer retrieves a player by ID
func (a *App) GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	if id == uuid.Nil {
		return nil, apperr.Validationf("player id is required")
	}
	return a.repo.GetPlayer(ctx, id)
}

// ListDraftClass returns the draft-eligible players of the given year
func (a *App) ListDraftClass(ctx context.Context, year int) ([]models.Player, error) {
	all, err := a.repo.ListPlayersByEligibilityYear(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("failed to get draft class: %w", err)
	}

	eligible := make([]models.Player, 0, len(all))
	for _, p := range all {
		if p.IsDraftEligible {
			eligible = append(eligible, p)
		}
	}
	return eligible, nil
}

// CheckEligibility reports why a player cannot be selected in a draft of the given year.
func CheckEligibility(p *models.Player, draftYear int) error {
	if p.EligibilityYear != draftYear {
		return apperr.Validationf("player %s is eligible for the %d draft, not %d", p.ID, p.EligibilityYear, draftYear)
	}
	if !p.IsDraftEligible {
		return apperr.Validationf("player %s is not draft eligible", p.ID)
	}
	return nil
}
