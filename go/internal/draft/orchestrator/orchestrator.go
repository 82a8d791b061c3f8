package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/warroom/go/internal/config"
	"github.com/mcdev12/warroom/go/internal/draft/autopick"
	"github.com/mcdev12/warroom/go/internal/models"
	"github.com/rs/zerolog/log"
)

// DraftService defines what the orchestrator needs from the draft lifecycle app
type DraftService interface {
	GetDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error)
	ListDraftsByStatus(ctx context.Context, status models.DraftStatus) ([]models.Draft, error)
	CompleteDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error)
}

// PickService defines what the orchestrator needs from the pick sequencer
type PickService interface {
	FindNextPick(ctx context.Context, draftID uuid.UUID) (*models.DraftPick, error)
	CountRemainingPicks(ctx context.Context, draftID uuid.UUID) (int, error)
	CountPicks(ctx context.Context, draftID uuid.UUID) (int, error)
}

// AutoPicker makes the selection for a pick
type AutoPicker interface {
	ExecuteAutoPick(ctx context.Context, pickID uuid.UUID) (*autopick.Result, error)
}

// Orchestrator drives in-progress drafts by auto-picking every open pick in order.
// Each draft is handled by at most one worker at a time.
type Orchestrator struct {
	drafts     DraftService
	picks      PickService
	autoPicker AutoPicker
	clock      clockwork.Clock
	instanceID string

	pollInterval time.Duration
	pickDelay    time.Duration
	numWorkers   int

	// Track in-flight work to prevent duplicate processing
	inFlight   map[uuid.UUID]bool
	inFlightMu sync.Mutex
}

// NewOrchestrator creates a new draft orchestrator with worker pool
func NewOrchestrator(
	drafts DraftService,
	picks PickService,
	autoPicker AutoPicker,
	clock clockwork.Clock,
	cfg config.OrchestratorConfig,
) *Orchestrator {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 2 * time.Second
	}
	return &Orchestrator{
		drafts:       drafts,
		picks:        picks,
		autoPicker:   autoPicker,
		clock:        clock,
		instanceID:   uuid.New().String()[:8], // short ID for logging
		pollInterval: cfg.PollInterval,
		pickDelay:    cfg.PickDelay,
		numWorkers:   cfg.Workers,
		inFlight:     make(map[uuid.UUID]bool),
	}
}

// Run polls for in-progress drafts and feeds them to the worker pool until ctx is done.
func (o *Orchestrator) Run(ctx context.Context) error {
	log.Info().
		Str("instance", o.instanceID).
		Int("workers", o.numWorkers).
		Dur("poll_interval", o.pollInterval).
		Dur("pick_delay", o.pickDelay).
		Msg("Draft orchestrator started")

	workCh := make(chan uuid.UUID, o.numWorkers*2)

	var wg sync.WaitGroup
	for i := 0; i < o.numWorkers; i++ {
		wg.Add(1)
		go o.worker(ctx, &wg, i, workCh)
	}

	defer func() {
		close(workCh)
		wg.Wait()
		log.Info().Str("instance", o.instanceID).Msg("Draft orchestrator stopped")
	}()

	ticker := o.clock.NewTicker(o.pollInterval)
	defer ticker.Stop()

	o.poll(ctx, workCh)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.Chan():
			o.poll(ctx, workCh)
		}
	}
}
