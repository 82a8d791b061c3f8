package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/mcdev12/warroom/go/internal/apperr"
	"github.com/mcdev12/warroom/go/internal/models"
	"github.com/rs/zerolog/log"
)

// worker processes drafts from the work channel
func (o *Orchestrator) worker(ctx context.Context, wg *sync.WaitGroup, workerID int, workCh <-chan uuid.UUID) {
	defer wg.Done()

	for draftID := range workCh {
		if ctx.Err() != nil {
			o.release(draftID)
			continue
		}
		if err := o.advance(ctx, draftID); err != nil && ctx.Err() == nil {
			log.Error().
				Err(err).
				Str("draft_id", draftID.String()).
				Str("instance", o.instanceID).
				Int("worker_id", workerID).
				Msg("auto-pick round failed")
		}
		o.release(draftID)
	}
}

// advance makes the next pick of the draft, or completes the draft when every pick is made.
// A draft without pick slots is left alone.
func (o *Orchestrator) advance(ctx context.Context, draftID uuid.UUID) error {
	next, err := o.picks.FindNextPick(ctx, draftID)
	if errors.Is(err, apperr.ErrNotFound) {
		total, err := o.picks.CountPicks(ctx, draftID)
		if err != nil {
			return fmt.Errorf("failed to count picks: %w", err)
		}
		if total == 0 {
			log.Warn().
				Str("draft_id", draftID.String()).
				Msg("draft in progress has no picks, skipping")
			return nil
		}
		return o.complete(ctx, draftID)
	}
	if err != nil {
		return fmt.Errorf("failed to find next pick: %w", err)
	}

	if o.pickDelay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-o.clock.After(o.pickDelay):
		}
	}

	// the draft may have been paused or completed while we waited
	d, err := o.drafts.GetDraft(ctx, draftID)
	if err != nil {
		return fmt.Errorf("failed to get draft: %w", err)
	}
	if d.Status != models.DraftStatusInProgress {
		log.Debug().
			Str("draft_id", draftID.String()).
			Str("status", string(d.Status)).
			Msg("draft no longer in progress, skipping pick")
		return nil
	}

	res, err := o.autoPicker.ExecuteAutoPick(ctx, next.ID)
	if err != nil {
		if errors.Is(err, apperr.ErrValidation) {
			// made by hand in the meantime
			log.Debug().Err(err).Str("pick_id", next.ID.String()).Msg("pick no longer open")
			return nil
		}
		return fmt.Errorf("auto-pick for pick %d failed: %w", next.OverallPick, err)
	}

	log.Debug().
		Str("draft_id", draftID.String()).
		Str("pick_id", res.Pick.ID.String()).
		Str("instance", o.instanceID).
		Msg("draft advanced")

	remaining, err := o.picks.CountRemainingPicks(ctx, draftID)
	if err != nil {
		return fmt.Errorf("failed to count remaining picks: %w", err)
	}
	if remaining == 0 {
		return o.complete(ctx, draftID)
	}
	return nil
}

func (o *Orchestrator) complete(ctx context.Context, draftID uuid.UUID) error {
	d, err := o.drafts.CompleteDraft(ctx, draftID)
	if err != nil {
		if errors.Is(err, apperr.ErrValidation) {
			return nil
		}
		return fmt.Errorf("failed to complete draft: %w", err)
	}
	log.Info().
		Str("draft_id", d.ID.String()).
		Str("instance", o.instanceID).
		Msg("All picks made, draft completed")
	return nil
}
