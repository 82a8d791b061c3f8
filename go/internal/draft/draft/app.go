package draft

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/warroom/go/internal/apperr"
	"github.com/mcdev12/warroom/go/internal/draft/events"
	"github.com/mcdev12/warroom/go/internal/models"
	"github.com/rs/zerolog/log"
)

// DraftRepository defines what the draft app layer needs from the draft repository
type DraftRepository interface {
	CreateDraft(ctx context.Context, d models.Draft) (*models.Draft, error)
	GetDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error)
	TransitionStatus(ctx context.Context, req TransitionRequest) (*models.Draft, error)
	ListDraftsByStatus(ctx context.Context, status models.DraftStatus) ([]models.Draft, error)
	CountPicks(ctx context.Context, draftID uuid.UUID) (int, error)
}

var allowedTransitions = map[models.DraftStatus][]models.DraftStatus{
	models.DraftStatusNotStarted: {models.DraftStatusInProgress},
	models.DraftStatusInProgress: {models.DraftStatusPaused, models.DraftStatusCompleted},
	models.DraftStatusPaused:     {models.DraftStatusInProgress, models.DraftStatusCompleted},
	models.DraftStatusCompleted:  {},
}

// App handles draft lifecycle business logic
type App struct {
	repo   DraftRepository
	events events.Emitter
	clock  clockwork.Clock
}

// NewApp creates a new draft App
func NewApp(repo DraftRepository, emitter events.Emitter, clock clockwork.Clock) *App {
	if emitter == nil {
		emitter = events.Discard
	}
	return &App{
		repo:   repo,
		events: emitter,
		clock:  clock,
	}
}

// CreateDraft creates a new NOT_STARTED draft
func (a *App) CreateDraft(ctx context.Context, req CreateDraftRequest) (*models.Draft, error) {
	if err := a.validateCreateDraftRequest(req); err != nil {
		return nil, err
	}

	d, err := a.repo.CreateDraft(ctx, models.Draft{
		ID:            uuid.New(),
		Year:          req.Year,
		Status:        models.DraftStatusNotStarted,
		Rounds:        req.Rounds,
		PicksPerRound: req.PicksPerRound,
		CreatedAt:     a.clock.Now(),
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("draft_id", d.ID.String()).
		Int("year", d.Year).
		Int("rounds", d.Rounds).
		Bool("realistic", d.IsRealistic()).
		Msg("Created draft")
	return d, nil
}

// GetDraft retrieves a draft by ID
func (a *App) GetDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error) {
	return a.repo.GetDraft(ctx, id)
}

// ListDraftsByStatus lists drafts in the given status, oldest first
func (a *App) ListDraftsByStatus(ctx context.Context, status models.DraftStatus) ([]models.Draft, error) {
	if _, ok := allowedTransitions[status]; !ok {
		return nil, apperr.Validationf("invalid draft status: %s", status)
	}
	return a.repo.ListDraftsByStatus(ctx, status)
}

// StartDraft moves a NOT_STARTED draft to IN_PROGRESS.
// The pick order must have been initialized or imported first.
func (a *App) StartDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error) {
	n, err := a.repo.CountPicks(ctx, id)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		if _, err := a.repo.GetDraft(ctx, id); err != nil {
			return nil, err
		}
		return nil, apperr.Validationf("draft %s has no picks; initialize or import the pick order before starting", id)
	}

	now := a.clock.Now()
	d, err := a.transition(ctx, id, models.DraftStatusInProgress, &now, nil, models.DraftStatusNotStarted)
	if err != nil {
		return nil, err
	}
	a.emit(ctx, d.ID, events.DraftStarted, events.DraftStartedPayload{
		DraftID:     d.ID.String(),
		Year:        d.Year,
		StartedAt:   now,
		TotalRounds: d.Rounds,
	})
	return d, nil
}

// PauseDraft moves an IN_PROGRESS draft to PAUSED
func (a *App) PauseDraft(ctx context.Context, id uuid.UUID, reason string) (*models.Draft, error) {
	d, err := a.transition(ctx, id, models.DraftStatusPaused, nil, nil, models.DraftStatusInProgress)
	if err != nil {
		return nil, err
	}
	a.emit(ctx, d.ID, events.DraftPaused, events.DraftPausedPayload{
		DraftID:  d.ID.String(),
		PausedAt: d.UpdatedAt,
		Reason:   reason,
	})
	return d, nil
}

// ResumeDraft moves a PAUSED draft back to IN_PROGRESS
func (a *App) ResumeDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error) {
	d, err := a.transition(ctx, id, models.DraftStatusInProgress, nil, nil, models.DraftStatusPaused)
	if err != nil {
		return nil, err
	}
	a.emit(ctx, d.ID, events.DraftResumed, events.DraftResumedPayload{
		DraftID:   d.ID.String(),
		ResumedAt: d.UpdatedAt,
	})
	return d, nil
}

// CompleteDraft moves an IN_PROGRESS or PAUSED draft to COMPLETED
func (a *App) CompleteDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error) {
	now := a.clock.Now()
	d, err := a.transition(ctx, id, models.DraftStatusCompleted, nil, &now,
		models.DraftStatusInProgress, models.DraftStatusPaused)
	if err != nil {
		return nil, err
	}

	payload := events.DraftCompletedPayload{
		DraftID:     d.ID.String(),
		CompletedAt: now,
	}
	if d.StartedAt != nil {
		payload.Duration = now.Sub(*d.StartedAt).Round(time.Second).String()
	}
	a.emit(ctx, d.ID, events.DraftCompleted, payload)
	return d, nil
}

func (a *App) transition(
	ctx context.Context,
	id uuid.UUID,
	to models.DraftStatus,
	startedAt, completedAt *time.Time,
	from ...models.DraftStatus,
) (*models.Draft, error) {
	current, err := a.repo.GetDraft(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validateStatusTransition(current.Status, to); err != nil {
		return nil, err
	}
	if !containsStatus(from, current.Status) {
		return nil, apperr.Validationf("draft %s is %s", id, current.Status)
	}

	d, err := a.repo.TransitionStatus(ctx, TransitionRequest{
		DraftID:     id,
		Status:      to,
		From:        []models.DraftStatus{current.Status},
		StartedAt:   startedAt,
		CompletedAt: completedAt,
		At:          a.clock.Now(),
	})
	if err != nil {
		if errors.Is(err, ErrTransitionRejected) {
			return nil, apperr.Validationf("draft %s changed status while moving to %s", id, to)
		}
		return nil, err
	}

	log.Info().
		Str("draft_id", id.String()).
		Str("from", string(current.Status)).
		Str("to", string(to)).
		Msg("Draft status changed")
	return d, nil
}

func (a *App) emit(ctx context.Context, draftID uuid.UUID, eventType events.Type, payload any) {
	if err := a.events.Emit(ctx, draftID, eventType, payload); err != nil {
		log.Warn().Err(err).
			Str("draft_id", draftID.String()).
			Str("event_type", string(eventType)).
			Msg("failed to record draft event")
	}
}

// validateCreateDraftRequest validates create draft request
func (a *App) validateCreateDraftRequest(req CreateDraftRequest) error {
	if req.Year <= 0 {
		return apperr.Validationf("invalid draft year %d", req.Year)
	}
	if req.Rounds <= 0 {
		return apperr.Validationf("rounds must be greater than 0")
	}
	if req.PicksPerRound != nil && *req.PicksPerRound <= 0 {
		return apperr.Validationf("picks_per_round must be greater than 0 when set")
	}
	return nil
}

// validateStatusTransition validates if a status transition is allowed
func validateStatusTransition(current, next models.DraftStatus) error {
	allowedNext, exists := allowedTransitions[current]
	if !exists {
		return apperr.Validationf("unknown current status: %s", current)
	}
	if containsStatus(allowedNext, next) {
		return nil
	}
	return apperr.Validationf("transition from %s to %s is not allowed", current, next)
}

func containsStatus(list []models.DraftStatus, s models.DraftStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// CanTransition reports whether the lifecycle allows moving from current to next.
func CanTransition(current, next models.DraftStatus) bool {
	return validateStatusTransition(current, next) == nil
}
