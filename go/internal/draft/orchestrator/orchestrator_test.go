package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/warroom/go/internal/apperr"
	"github.com/mcdev12/warroom/go/internal/config"
	"github.com/mcdev12/warroom/go/internal/draft/autopick"
	"github.com/mcdev12/warroom/go/internal/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDraftRoom keeps one draft and its picks behind a mutex.
type fakeDraftRoom struct {
	mu        sync.Mutex
	draft     models.Draft
	picks     []models.DraftPick
	completed int
	autoErr   error
	executed  []uuid.UUID
	listErr   error
}

func newFakeDraftRoom(picks int) *fakeDraftRoom {
	r := &fakeDraftRoom{draft: models.Draft{ID: uuid.New(), Year: 2026, Rounds: 1, Status: models.DraftStatusInProgress}}
	for i := 1; i <= picks; i++ {
		r.picks = append(r.picks, models.DraftPick{ID: uuid.New(), DraftID: r.draft.ID, Round: 1, Pick: i, OverallPick: i, TeamID: uuid.New()})
	}
	return r
}

func (r *fakeDraftRoom) GetDraft(_ context.Context, id uuid.UUID) (*models.Draft, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id != r.draft.ID {
		return nil, apperr.NotFoundf("draft %s", id)
	}
	d := r.draft
	return &d, nil
}

func (r *fakeDraftRoom) ListDraftsByStatus(_ context.Context, status models.DraftStatus) ([]models.Draft, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	if r.draft.Status != status {
		return nil, nil
	}
	return []models.Draft{r.draft}, nil
}

func (r *fakeDraftRoom) CompleteDraft(_ context.Context, id uuid.UUID) (*models.Draft, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.draft.Status == models.DraftStatusCompleted {
		return nil, apperr.Validationf("draft %s is already completed", id)
	}
	r.draft.Status = models.DraftStatusCompleted
	r.completed++
	d := r.draft
	return &d, nil
}

func (r *fakeDraftRoom) FindNextPick(_ context.Context, draftID uuid.UUID) (*models.DraftPick, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.picks {
		if !r.picks[i].IsMade() {
			p := r.picks[i]
			return &p, nil
		}
	}
	return nil, apperr.NotFoundf("no remaining picks for draft %s", draftID)
}

func (r *fakeDraftRoom) CountRemainingPicks(_ context.Context, _ uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, p := range r.picks {
		if !p.IsMade() {
			n++
		}
	}
	return n, nil
}

func (r *fakeDraftRoom) CountPicks(_ context.Context, _ uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.picks), nil
}

func (r *fakeDraftRoom) ExecuteAutoPick(_ context.Context, pickID uuid.UUID) (*autopick.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.autoErr != nil {
		return nil, r.autoErr
	}
	for i := range r.picks {
		if r.picks[i].ID == pickID {
			player := uuid.New()
			r.picks[i].PlayerID = &player
			r.executed = append(r.executed, pickID)
			p := r.picks[i]
			return &autopick.Result{Pick: &p, Decision: &autopick.Decision{PlayerID: player}, Attempts: 1}, nil
		}
	}
	return nil, apperr.NotFoundf("draft pick %s", pickID)
}

func (r *fakeDraftRoom) setStatus(s models.DraftStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.draft.Status = s
}

func (r *fakeDraftRoom) state() (executed int, completed int, status models.DraftStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.executed), r.completed, r.draft.Status
}

func newTestOrchestrator(room *fakeDraftRoom, clock clockwork.Clock, delay time.Duration) *Orchestrator {
	cfg := config.Default().Orchestrator
	cfg.PickDelay = delay
	return NewOrchestrator(room, room, room, clock, cfg)
}

func TestRun_DrivesDraftToCompletion(t *testing.T) {
	room := newFakeDraftRoom(3)
	clock := clockwork.NewFakeClock()
	o := newTestOrchestrator(room, clock, 0)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- o.Run(ctx) }()

	require.NoError(t, clock.BlockUntilContext(ctx, 1))

	for want := 1; want <= 3; want++ {
		require.Eventually(t, func() bool {
			executed, _, _ := room.state()
			return executed >= want
		}, time.Second, 5*time.Millisecond, "pick %d", want)
		require.Eventually(t, func() bool {
			o.inFlightMu.Lock()
			defer o.inFlightMu.Unlock()
			return len(o.inFlight) == 0
		}, time.Second, 5*time.Millisecond)
		clock.Advance(o.pollInterval)
	}

	require.Eventually(t, func() bool {
		_, completed, _ := room.state()
		return completed == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	executed, completed, status := room.state()
	assert.Equal(t, 3, executed)
	assert.Equal(t, 1, completed)
	assert.Equal(t, models.DraftStatusCompleted, status)
	// picks were made in overall order
	for i, id := range room.executed {
		assert.Equal(t, room.picks[i].ID, id)
	}
}

func TestAdvance_CompletesWhenNoPicksRemain(t *testing.T) {
	room := newFakeDraftRoom(2)
	for i := range room.picks {
		player := uuid.New()
		room.picks[i].PlayerID = &player
	}
	o := newTestOrchestrator(room, clockwork.NewFakeClock(), 0)

	require.NoError(t, o.advance(context.Background(), room.draft.ID))
	executed, completed, status := room.state()
	assert.Zero(t, executed)
	assert.Equal(t, 1, completed)
	assert.Equal(t, models.DraftStatusCompleted, status)

	// a second pass sees the draft already completed
	assert.NoError(t, o.advance(context.Background(), room.draft.ID))
	_, completed, _ = room.state()
	assert.Equal(t, 1, completed)
}

func TestAdvance_LeavesDraftWithoutPicks(t *testing.T) {
	room := newFakeDraftRoom(0)
	o := newTestOrchestrator(room, clockwork.NewFakeClock(), 0)

	require.NoError(t, o.advance(context.Background(), room.draft.ID))
	executed, completed, status := room.state()
	assert.Zero(t, executed)
	assert.Zero(t, completed)
	assert.Equal(t, models.DraftStatusInProgress, status)
}

func TestAdvance_LogsStepAtDebug(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf).Level(zerolog.InfoLevel)
	t.Cleanup(func() { log.Logger = prev })

	room := newFakeDraftRoom(2)
	o := newTestOrchestrator(room, clockwork.NewFakeClock(), 0)

	require.NoError(t, o.advance(context.Background(), room.draft.ID))
	executed, _, _ := room.state()
	require.Equal(t, 1, executed)
	// the engine reports the pick itself
	assert.NotContains(t, buf.String(), "Auto-pick made")
	assert.NotContains(t, buf.String(), "draft advanced")
}

func TestAdvance_SkipsDraftPausedDuringDelay(t *testing.T) {
	room := newFakeDraftRoom(2)
	clock := clockwork.NewFakeClock()
	o := newTestOrchestrator(room, clock, time.Second)

	ctx := context.Background()
	done := make(chan error, 1)
	go func() { done <- o.advance(ctx, room.draft.ID) }()

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	room.setStatus(models.DraftStatusPaused)
	clock.Advance(time.Second)

	require.NoError(t, <-done)
	executed, _, _ := room.state()
	assert.Zero(t, executed)
}

func TestAdvance_WaitsPickDelay(t *testing.T) {
	room := newFakeDraftRoom(2)
	clock := clockwork.NewFakeClock()
	o := newTestOrchestrator(room, clock, 500*time.Millisecond)

	ctx := context.Background()
	done := make(chan error, 1)
	go func() { done <- o.advance(ctx, room.draft.ID) }()

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	executed, _, _ := room.state()
	assert.Zero(t, executed, "no pick before the delay")

	clock.Advance(500 * time.Millisecond)
	require.NoError(t, <-done)
	executed, completed, _ := room.state()
	assert.Equal(t, 1, executed)
	assert.Zero(t, completed)
}

func TestAdvance_Errors(t *testing.T) {
	t.Run("pick made by hand meanwhile", func(t *testing.T) {
		room := newFakeDraftRoom(1)
		room.autoErr = apperr.Validationf("pick already made")
		o := newTestOrchestrator(room, clockwork.NewFakeClock(), 0)
		assert.NoError(t, o.advance(context.Background(), room.draft.ID))
	})

	t.Run("no candidates", func(t *testing.T) {
		room := newFakeDraftRoom(1)
		room.autoErr = apperr.NotFoundf("no scouted players available")
		o := newTestOrchestrator(room, clockwork.NewFakeClock(), 0)
		err := o.advance(context.Background(), room.draft.ID)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
		_, completed, _ := room.state()
		assert.Zero(t, completed)
	})

	t.Run("cancelled during delay", func(t *testing.T) {
		room := newFakeDraftRoom(1)
		o := newTestOrchestrator(room, clockwork.NewFakeClock(), time.Minute)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, o.advance(ctx, room.draft.ID), context.Canceled)
	})
}

func TestPoll_DedupsInFlightDrafts(t *testing.T) {
	room := newFakeDraftRoom(1)
	o := newTestOrchestrator(room, clockwork.NewFakeClock(), 0)
	workCh := make(chan uuid.UUID, 4)

	o.poll(context.Background(), workCh)
	o.poll(context.Background(), workCh)
	assert.Len(t, workCh, 1, "draft already in flight is not queued twice")

	<-workCh
	o.release(room.draft.ID)
	o.poll(context.Background(), workCh)
	assert.Len(t, workCh, 1)
}

func TestPoll_FullChannelReleasesClaim(t *testing.T) {
	room := newFakeDraftRoom(1)
	o := newTestOrchestrator(room, clockwork.NewFakeClock(), 0)
	workCh := make(chan uuid.UUID)

	o.poll(context.Background(), workCh)
	assert.True(t, o.claim(room.draft.ID), "claim released when the queue is full")
}

func TestPoll_ListError(t *testing.T) {
	room := newFakeDraftRoom(1)
	room.listErr = errors.New("connection refused")
	o := newTestOrchestrator(room, clockwork.NewFakeClock(), 0)
	workCh := make(chan uuid.UUID, 1)

	o.poll(context.Background(), workCh)
	assert.Empty(t, workCh)
}
