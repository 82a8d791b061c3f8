package draft

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mcdev12/warroom/go/internal/apperr"
	"github.com/mcdev12/warroom/go/internal/draft/draft/db"
	"github.com/mcdev12/warroom/go/internal/models"
	"github.com/mcdev12/warroom/go/internal/sqlutil"
)

// ErrTransitionRejected means the draft was not in any of the expected statuses.
var ErrTransitionRejected = errors.New("draft status changed concurrently")

type Repository struct {
	queries *db.Queries
}

func NewRepository(queries *db.Queries) *Repository {
	return &Repository{
		queries: queries,
	}
}

func (r *Repository) CreateDraft(ctx context.Context, d models.Draft) (*models.Draft, error) {
	row, err := r.queries.CreateDraft(ctx, db.CreateDraftParams{
		ID:            d.ID,
		Year:          int32(d.Year),
		Status:        string(d.Status),
		Rounds:        int32(d.Rounds),
		PicksPerRound: sqlutil.ToSqlInt32(d.PicksPerRound),
		CreatedAt:     d.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create draft: %w", err)
	}

	return r.dbDraftToModel(row), nil
}

func (r *Repository) GetDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error) {
	row, err := r.queries.GetDraft(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFoundf("draft %s", id)
		}
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}

	return r.dbDraftToModel(row), nil
}

// TransitionStatus applies a compare-and-set status change.
// It returns ErrTransitionRejected when the draft is no longer in req.From.
func (r *Repository) TransitionStatus(ctx context.Context, req TransitionRequest) (*models.Draft, error) {
	from := make([]string, len(req.From))
	for i, s := range req.From {
		from[i] = string(s)
	}

	row, err := r.queries.TransitionDraftStatus(ctx, db.TransitionDraftStatusParams{
		ID:          req.DraftID,
		Status:      string(req.Status),
		FromStatus:  from,
		StartedAt:   sqlutil.ToSqlTime(req.StartedAt),
		CompletedAt: sqlutil.ToSqlTime(req.CompletedAt),
		UpdatedAt:   req.At,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTransitionRejected
		}
		return nil, fmt.Errorf("failed to update draft status: %w", err)
	}

	return r.dbDraftToModel(row), nil
}

func (r *Repository) ListDraftsByStatus(ctx context.Context, status models.DraftStatus) ([]models.Draft, error) {
	rows, err := r.queries.ListDraftsByStatus(ctx, string(status))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s drafts: %w", status, err)
	}

	drafts := make([]models.Draft, len(rows))
	for i, row := range rows {
		drafts[i] = *r.dbDraftToModel(row)
	}
	return drafts, nil
}

// CountPicks returns how many pick slots the draft has, made or not.
func (r *Repository) CountPicks(ctx context.Context, draftID uuid.UUID) (int, error) {
	count, err := r.queries.CountDraftPicks(ctx, draftID)
	if err != nil {
		return 0, fmt.Errorf("failed to count draft picks: %w", err)
	}
	return int(count), nil
}

// Helper function to convert DB draft to model
func (r *Repository) dbDraftToModel(row db.Draft) *models.Draft {
	return &models.Draft{
		ID:            row.ID,
		Year:          int(row.Year),
		Status:        models.DraftStatus(row.Status),
		Rounds:        int(row.Rounds),
		PicksPerRound: sqlutil.FromSqlInt32(row.PicksPerRound),
		StartedAt:     sqlutil.FromSqlTime(row.StartedAt),
		CompletedAt:   sqlutil.FromSqlTime(row.CompletedAt),
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}
