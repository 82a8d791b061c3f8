package strategy

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/warroom/go/internal/apperr"
	"github.com/mcdev12/warroom/go/internal/models"
	"github.com/mcdev12/warroom/go/internal/sqlutil"
	"github.com/mcdev12/warroom/go/internal/strategy/db"
	"github.com/sqlc-dev/pqtype"
)

// Querier defines what the repository needs from the database layer
type Querier interface {
	GetStrategy(ctx context.Context, arg db.GetStrategyParams) (db.DraftStrategy, error)
	InsertStrategyIfAbsent(ctx context.Context, arg db.InsertStrategyIfAbsentParams) error
	UpsertStrategy(ctx context.Context, arg db.UpsertStrategyParams) (db.DraftStrategy, error)
}

type Repository struct {
	queries Querier
}

func NewRepository(queries Querier) *Repository {
	return &Repository{queries: queries}
}

func (r *Repository) GetStrategy(ctx context.Context, teamID, draftID uuid.UUID) (*models.DraftStrategy, error) {
	row, err := r.queries.GetStrategy(ctx, db.GetStrategyParams{TeamID: teamID, DraftID: draftID})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFoundf("strategy for team %s in draft %s", teamID, draftID)
		}
		return nil, fmt.Errorf("failed to get strategy: %w", err)
	}
	return dbStrategyToModel(row)
}

// CreateIfAbsent inserts s unless the team already has a strategy for the draft.
func (r *Repository) CreateIfAbsent(ctx context.Context, s models.DraftStrategy) error {
	err := r.queries.InsertStrategyIfAbsent(ctx, db.InsertStrategyIfAbsentParams{
		ID:         s.ID,
		TeamID:     s.TeamID,
		DraftID:    s.DraftID,
		BpaWeight:  int32(s.BPAWeight),
		NeedWeight: int32(s.NeedWeight),
		CreatedAt:  s.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to create default strategy: %w", err)
	}
	return nil
}

func (r *Repository) UpsertStrategy(ctx context.Context, s models.DraftStrategy, now time.Time) (*models.DraftStrategy, error) {
	multipliers := pqtype.NullRawMessage{}
	if len(s.PositionMultipliers) > 0 {
		raw, err := json.Marshal(s.PositionMultipliers)
		if err != nil {
			return nil, fmt.Errorf("failed to encode position multipliers: %w", err)
		}
		multipliers = pqtype.NullRawMessage{RawMessage: raw, Valid: true}
	}

	row, err := r.queries.UpsertStrategy(ctx, db.UpsertStrategyParams{
		ID:                  s.ID,
		TeamID:              s.TeamID,
		DraftID:             s.DraftID,
		BpaWeight:           int32(s.BPAWeight),
		NeedWeight:          int32(s.NeedWeight),
		PositionMultipliers: multipliers,
		Aggressiveness:      sqlutil.ToSqlFloat64(s.Aggressiveness),
		UpdatedAt:           now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save strategy: %w", err)
	}
	return dbStrategyToModel(row)
}

func dbStrategyToModel(row db.DraftStrategy) (*models.DraftStrategy, error) {
	s := &models.DraftStrategy{
		ID:             row.ID,
		TeamID:         row.TeamID,
		DraftID:        row.DraftID,
		BPAWeight:      int(row.BpaWeight),
		NeedWeight:     int(row.NeedWeight),
		Aggressiveness: sqlutil.FromSqlFloat64(row.Aggressiveness),
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
	if row.PositionMultipliers.Valid && len(row.PositionMultipliers.RawMessage) > 0 {
		if err := json.Unmarshal(row.PositionMultipliers.RawMessage, &s.PositionMultipliers); err != nil {
			return nil, fmt.Errorf("failed to decode position multipliers for strategy %s: %w", row.ID, err)
		}
	}
	return s, nil
}
