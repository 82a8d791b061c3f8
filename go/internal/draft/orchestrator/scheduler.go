package orchestrator

import (
	"context"

	"github.com/google/uuid"
	"github.com/mcdev12/warroom/go/internal/models"
	"github.com/rs/zerolog/log"
)

// poll enqueues every in-progress draft that no worker is handling.
func (o *Orchestrator) poll(ctx context.Context, workCh chan<- uuid.UUID) {
	drafts, err := o.drafts.ListDraftsByStatus(ctx, models.DraftStatusInProgress)
	if err != nil {
		if ctx.Err() == nil {
			log.Error().Err(err).Str("instance", o.instanceID).Msg("failed to list in-progress drafts")
		}
		return
	}

	for _, d := range drafts {
		if !o.claim(d.ID) {
			continue
		}
		select {
		case workCh <- d.ID:
			log.Debug().Str("draft_id", d.ID.String()).Msg("enqueued draft for auto-pick")
		default:
			o.release(d.ID)
			log.Warn().Str("draft_id", d.ID.String()).Msg("work channel full, draft deferred to next poll")
		}
	}
}

// claim marks the draft in flight. It returns false when a worker already has it.
func (o *Orchestrator) claim(draftID uuid.UUID) bool {
	o.inFlightMu.Lock()
	defer o.inFlightMu.Unlock()
	if o.inFlight[draftID] {
		return false
	}
	o.inFlight[draftID] = true
	return true
}

func (o *Orchestrator) release(draftID uuid.UUID) {
	o.inFlightMu.Lock()
	defer o.inFlightMu.Unlock()
	delete(o.inFlight, draftID)
}
