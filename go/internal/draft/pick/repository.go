package pick

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/warroom/go/internal/apperr"
	"github.com/mcdev12/warroom/go/internal/draft/pick/db"
	"github.com/mcdev12/warroom/go/internal/models"
	"github.com/mcdev12/warroom/go/internal/sqlutil"
)

const (
	overallPickConstraint   = "draft_picks_draft_id_overall_pick_key"
	draftedPlayerConstraint = "draft_picks_draft_player_key"
)

type Repository struct {
	queries *db.Queries
	sqlDB   *sql.DB
}

func NewRepository(queries *db.Queries, sqlDB *sql.DB) *Repository {
	return &Repository{
		queries: queries,
		sqlDB:   sqlDB,
	}
}

// CreateDraftPicksBatch inserts every pick of a draft in one transaction.
// The draft row is locked first so concurrent initializations serialize, and
// the insert is refused when the draft already has picks.
func (r *Repository) CreateDraftPicksBatch(ctx context.Context, draftID uuid.UUID, picks []models.DraftPick) error {
	if len(picks) == 0 {
		return nil
	}

	ids := make([]string, len(picks))
	rounds := make([]int32, len(picks))
	pickNumbers := make([]int32, len(picks))
	overallPicks := make([]int32, len(picks))
	teamIDs := make([]string, len(picks))
	compensatory := make([]bool, len(picks))
	notes := make([]string, len(picks))

	for i, pick := range picks {
		ids[i] = pick.ID.String()
		rounds[i] = int32(pick.Round)
		pickNumbers[i] = int32(pick.Pick)
		overallPicks[i] = int32(pick.OverallPick)
		teamIDs[i] = pick.TeamID.String()
		compensatory[i] = pick.IsCompensatory
		notes[i] = pick.Notes
	}

	err := sqlutil.Run(ctx, r.sqlDB, r.queries.WithTx, func(q *db.Queries) error {
		if _, err := q.LockDraftForPicks(ctx, draftID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperr.NotFoundf("draft %s", draftID)
			}
			return fmt.Errorf("failed to lock draft: %w", err)
		}

		existing, err := q.CountDraftPicks(ctx, draftID)
		if err != nil {
			return fmt.Errorf("failed to count existing picks: %w", err)
		}
		if existing > 0 {
			return apperr.Validationf("draft %s already has %d picks", draftID, existing)
		}

		return q.CreateDraftPickBatch(ctx, db.CreateDraftPickBatchParams{
			IDs:            ids,
			DraftID:        draftID,
			Rounds:         rounds,
			Picks:          pickNumbers,
			OverallPicks:   overallPicks,
			TeamIDs:        teamIDs,
			IsCompensatory: compensatory,
			Notes:          notes,
		})
	})
	if err != nil {
		if sqlutil.IsUniqueViolation(err, overallPickConstraint) {
			return apperr.Validationf("draft %s already has picks", draftID)
		}
		if errors.Is(err, apperr.ErrValidation) || errors.Is(err, apperr.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to batch create draft picks: %w", err)
	}

	return nil
}

func (r *Repository) GetDraftPick(ctx context.Context, id uuid.UUID) (*models.DraftPick, error) {
	pick, err := r.queries.GetDraftPick(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFoundf("draft pick %s", id)
		}
		return nil, fmt.Errorf("failed to get draft pick: %w", err)
	}

	return r.dbDraftPickToModel(pick), nil
}

func (r *Repository) GetDraftPicksByDraft(ctx context.Context, draftID uuid.UUID) ([]models.DraftPick, error) {
	picks, err := r.queries.GetDraftPicksByDraft(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to get draft picks by draft: %w", err)
	}

	return r.dbDraftPicksToModels(picks), nil
}

func (r *Repository) GetNextPickForDraft(ctx context.Context, draftID uuid.UUID) (*models.DraftPick, error) {
	pick, err := r.queries.GetNextPickForDraft(ctx, draftID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFoundf("no remaining picks in draft %s", draftID)
		}
		return nil, fmt.Errorf("failed to get next pick for draft: %w", err)
	}

	return r.dbDraftPickToModel(pick), nil
}

func (r *Repository) ListAvailablePicks(ctx context.Context, draftID uuid.UUID) ([]models.DraftPick, error) {
	picks, err := r.queries.ListAvailablePicks(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to list available picks: %w", err)
	}

	return r.dbDraftPicksToModels(picks), nil
}

func (r *Repository) CountRemainingPicks(ctx context.Context, draftID uuid.UUID) (int, error) {
	count, err := r.queries.CountRemainingPicks(ctx, draftID)
	if err != nil {
		return 0, fmt.Errorf("failed to count remaining picks: %w", err)
	}
	return int(count), nil
}

func (r *Repository) CountPicks(ctx context.Context, draftID uuid.UUID) (int, error) {
	count, err := r.queries.CountDraftPicks(ctx, draftID)
	if err != nil {
		return 0, fmt.Errorf("failed to count draft picks: %w", err)
	}
	return int(count), nil
}

func (r *Repository) GetPickByPlayer(ctx context.Context, draftID, playerID uuid.UUID) (*models.DraftPick, error) {
	pick, err := r.queries.GetPickByPlayer(ctx, db.GetPickByPlayerParams{
		DraftID:  draftID,
		PlayerID: uuid.NullUUID{UUID: playerID, Valid: true},
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFoundf("player %s has not been drafted", playerID)
		}
		return nil, fmt.Errorf("failed to get pick by player: %w", err)
	}

	return r.dbDraftPickToModel(pick), nil
}

// MakePick assigns the player only if the pick is still open.
func (r *Repository) MakePick(ctx context.Context, pickID, playerID uuid.UUID, at time.Time) (*models.DraftPick, error) {
	pick, err := r.queries.MakePick(ctx, db.MakePickParams{
		ID:       pickID,
		PlayerID: uuid.NullUUID{UUID: playerID, Valid: true},
		PickedAt: at,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.Validationf("pick %s already made", pickID)
		}
		if sqlutil.IsUniqueViolation(err, draftedPlayerConstraint) {
			return nil, apperr.AlreadyDrafted("player %s", playerID)
		}
		return nil, fmt.Errorf("failed to make pick: %w", err)
	}

	return r.dbDraftPickToModel(pick), nil
}

func (r *Repository) ListDraftedPlayerIDs(ctx context.Context, draftID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.queries.ListDraftedPlayerIDs(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafted players: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		if row.Valid {
			ids = append(ids, row.UUID)
		}
	}
	return ids, nil
}

func (r *Repository) dbDraftPicksToModels(picks []db.DraftPick) []models.DraftPick {
	result := make([]models.DraftPick, len(picks))
	for i, pick := range picks {
		result[i] = *r.dbDraftPickToModel(pick)
	}
	return result
}

// Helper function to convert DB draft pick to model
func (r *Repository) dbDraftPickToModel(dbPick db.DraftPick) *models.DraftPick {
	return &models.DraftPick{
		ID:             dbPick.ID,
		DraftID:        dbPick.DraftID,
		Round:          int(dbPick.Round),
		Pick:           int(dbPick.Pick),
		OverallPick:    int(dbPick.OverallPick),
		TeamID:         dbPick.TeamID,
		PlayerID:       sqlutil.FromNullUUID(dbPick.PlayerID),
		PickedAt:       sqlutil.FromSqlTime(dbPick.PickedAt),
		OriginalTeamID: sqlutil.FromNullUUID(dbPick.OriginalTeamID),
		IsCompensatory: dbPick.IsCompensatory,
		Notes:          dbPick.Notes,
	}
}
