package player

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mcdev12/warroom/go/internal/apperr"
	"github.com/mcdev12/warroom/go/internal/models"
	"github.com/mcdev12/warroom/go/internal/player/db"
	"github.com/mcdev12/warroom/go/internal/sqlutil"
)

// Repository handles all player-related database operations
type Repository struct {
	queries db.Querier
}

// NewRepository creates a new player repository
func NewRepository(queries db.Querier) *Repository {
	return &Repository{
		queries: queries,
	}
}

// GetPlayer retrieves a player by ID
func (r *Repository) GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	dbPlayer, err := r.queries.GetPlayer(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFoundf("player %s", id)
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	return dbPlayerToDomain(dbPlayer), nil
}

// ListPlayersByEligibilityYear retrieves every player of a draft class, eligible or not
func (r *Repository) ListPlayersByEligibilityYear(ctx context.Context, year int) ([]models.Player, error) {
	rows, err := r.queries.ListPlayersByEligibilityYear(ctx, int32(year))
	if err != nil {
		return nil, fmt.Errorf("failed to list players for %d: %w", year, err)
	}

	players := make([]models.Player, len(rows))
	for i, row := range rows {
		players[i] = *dbPlayerToDomain(row)
	}
	return players, nil
}

// Helper function to convert database player to domain model
func dbPlayerToDomain(dbPlayer db.Player) *models.Player {
	return &models.Player{
		ID:              dbPlayer.ID,
		FullName:        dbPlayer.FullName,
		Position:        dbPlayer.Position,
		College:         sqlutil.FromSqlStringPtr(dbPlayer.College),
		EligibilityYear: int(dbPlayer.EligibilityYear),
		IsDraftEligible: dbPlayer.IsDraftEligible,
		CreatedAt:       dbPlayer.CreatedAt,
	}
}
