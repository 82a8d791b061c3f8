package trade

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/warroom/go/internal/apperr"
	"github.com/mcdev12/warroom/go/internal/config"
	"github.com/mcdev12/warroom/go/internal/draft/events"
	"github.com/mcdev12/warroom/go/internal/metrics"
	"github.com/mcdev12/warroom/go/internal/models"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memRepo mirrors the repository's transactional behavior with a single mutex.
type memRepo struct {
	mu     sync.Mutex
	picks  map[uuid.UUID]models.DraftPick
	trades map[uuid.UUID]*models.PickTrade
}

func newMemRepo() *memRepo {
	return &memRepo{picks: map[uuid.UUID]models.DraftPick{}, trades: map[uuid.UUID]*models.PickTrade{}}
}

func (r *memRepo) activePicks() map[uuid.UUID]bool {
	active := map[uuid.UUID]bool{}
	for _, t := range r.trades {
		for _, d := range t.Details {
			if d.Active {
				active[d.PickID] = true
			}
		}
	}
	return active
}

func (r *memRepo) Propose(_ context.Context, pickIDs []uuid.UUID, build func([]LockedPick) (*models.PickTrade, error)) (*models.PickTrade, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	active := r.activePicks()
	var locked []LockedPick
	for _, id := range pickIDs {
		if p, ok := r.picks[id]; ok {
			locked = append(locked, LockedPick{DraftPick: p, InActiveTrade: active[id]})
		}
	}
	t, err := build(locked)
	if err != nil {
		return nil, err
	}
	for _, d := range t.Details {
		if active[d.PickID] {
			return nil, apperr.Validationf("a pick in this trade is already part of a proposed trade")
		}
	}
	stored := *t
	stored.Details = append([]models.PickTradeDetail(nil), t.Details...)
	r.trades[t.ID] = &stored
	return t, nil
}

func (r *memRepo) Resolve(_ context.Context, tradeID uuid.UUID, at time.Time, decide func(*models.PickTrade) (*Resolution, error)) (*models.PickTrade, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.trades[tradeID]
	if !ok {
		return nil, apperr.NotFoundf("trade %s", tradeID)
	}
	snapshot := *stored
	snapshot.Details = append([]models.PickTradeDetail(nil), stored.Details...)

	res, err := decide(&snapshot)
	if err != nil {
		return nil, err
	}

	moved := map[uuid.UUID]models.DraftPick{}
	for _, tr := range res.Transfers {
		p := r.picks[tr.PickID]
		if p.TeamID != tr.From || p.IsMade() {
			return nil, fmt.Errorf("%w: %w", ErrStaleTrade,
				apperr.Validationf("pick %s is no longer available from team %s", tr.PickID, tr.From))
		}
		if p.OriginalTeamID == nil {
			orig := p.TeamID
			p.OriginalTeamID = &orig
		}
		p.TeamID = tr.To
		moved[p.ID] = p
	}
	for id, p := range moved {
		r.picks[id] = p
	}

	stored.Status = res.Status
	stored.ResolvedAt = &at
	for i := range stored.Details {
		stored.Details[i].Active = false
	}
	out := *stored
	out.Details = append([]models.PickTradeDetail(nil), stored.Details...)
	return &out, nil
}

func (r *memRepo) GetTrade(_ context.Context, id uuid.UUID) (*models.PickTrade, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.trades[id]
	if !ok {
		return nil, apperr.NotFoundf("trade %s", id)
	}
	out := *t
	out.Details = append([]models.PickTradeDetail(nil), t.Details...)
	return &out, nil
}

func (r *memRepo) ListPendingTrades(_ context.Context, teamID uuid.UUID) ([]models.PickTrade, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.PickTrade
	for _, t := range r.trades {
		if t.ToTeamID == teamID && t.Status == models.TradeStatusProposed {
			out = append(out, *t)
		}
	}
	return out, nil
}

type eventLog struct {
	mu    sync.Mutex
	types []events.Type
}

func (e *eventLog) Emit(_ context.Context, _ uuid.UUID, eventType events.Type, _ any) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.types = append(e.types, eventType)
	return nil
}

type tradeFixture struct {
	app          *App
	repo         *memRepo
	events       *eventLog
	metrics      *metrics.Registry
	draftID      uuid.UUID
	team1, team2 uuid.UUID
}

func newTradeFixture() *tradeFixture {
	cfg := config.Default().Trade
	f := &tradeFixture{
		repo:    newMemRepo(),
		events:  &eventLog{},
		metrics: metrics.NewUnregistered(),
		draftID: uuid.New(),
		team1:   uuid.New(),
		team2:   uuid.New(),
	}
	clock := clockwork.NewFakeClockAt(time.Date(2026, 4, 23, 19, 0, 0, 0, time.UTC))
	f.app = NewApp(f.repo, NewValueChart(cfg.ValueChart), cfg.FairnessThreshold, f.events, clock, f.metrics)
	return f
}

func (f *tradeFixture) addPick(overall int, owner uuid.UUID) uuid.UUID {
	p := models.DraftPick{ID: uuid.New(), DraftID: f.draftID, Round: 1, Pick: overall, OverallPick: overall, TeamID: owner}
	f.repo.picks[p.ID] = p
	return p.ID
}

func (f *tradeFixture) owner(pickID uuid.UUID) uuid.UUID {
	return f.repo.picks[pickID].TeamID
}

func (f *tradeFixture) propose(from, to []uuid.UUID) (*models.PickTrade, error) {
	return f.app.ProposeTrade(context.Background(), ProposeRequest{
		SessionID:   f.draftID,
		FromTeamID:  f.team1,
		ToTeamID:    f.team2,
		FromPickIDs: from,
		ToPickIDs:   to,
	})
}

func TestProposeTrade_Fairness(t *testing.T) {
	f := newTradeFixture()
	first := f.addPick(1, f.team1)
	second := f.addPick(2, f.team2)

	trade, err := f.propose([]uuid.UUID{first}, []uuid.UUID{second})
	require.NoError(t, err)
	assert.Equal(t, models.TradeStatusProposed, trade.Status)
	assert.Equal(t, 3000.0, trade.FromValue)
	assert.Equal(t, 2600.0, trade.ToValue)
	assert.Equal(t, 400.0, trade.ValueDifference)
	assert.Equal(t, []uuid.UUID{first}, trade.PickIDs(models.TradeSideFrom))

	g := newTradeFixture()
	first = g.addPick(1, g.team1)
	late := g.addPick(55, g.team2)
	_, err = g.propose([]uuid.UUID{first}, []uuid.UUID{late})
	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Contains(t, err.Error(), "unfair trade")
	assert.Equal(t, 1.0, testutil.ToFloat64(g.metrics.TradeOutcomes.WithLabelValues("invalid")))
}

func TestProposeTrade_Exclusivity(t *testing.T) {
	f := newTradeFixture()
	a := f.addPick(10, f.team1)
	b := f.addPick(11, f.team2)
	c := f.addPick(12, f.team2)

	original, err := f.propose([]uuid.UUID{a}, []uuid.UUID{b})
	require.NoError(t, err)

	_, err = f.propose([]uuid.UUID{a}, []uuid.UUID{c})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	stored, err := f.app.GetTrade(context.Background(), original.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TradeStatusProposed, stored.Status)
	for _, d := range stored.Details {
		assert.True(t, d.Active)
	}

	// once the first trade is closed the pick is free again
	_, err = f.app.RejectTrade(context.Background(), original.ID, f.team2)
	require.NoError(t, err)
	_, err = f.propose([]uuid.UUID{a}, []uuid.UUID{c})
	assert.NoError(t, err)
}

func TestAcceptTrade_SwapsOwnership(t *testing.T) {
	f := newTradeFixture()
	a := f.addPick(20, f.team1)
	b := f.addPick(21, f.team2)

	trade, err := f.propose([]uuid.UUID{a}, []uuid.UUID{b})
	require.NoError(t, err)

	accepted, err := f.app.AcceptTrade(context.Background(), trade.ID, f.team2)
	require.NoError(t, err)
	assert.Equal(t, models.TradeStatusAccepted, accepted.Status)
	assert.NotNil(t, accepted.ResolvedAt)

	assert.Equal(t, f.team2, f.owner(a))
	assert.Equal(t, f.team1, f.owner(b))
	assert.Equal(t, f.team1, *f.repo.picks[a].OriginalTeamID)
	assert.Equal(t, f.team2, *f.repo.picks[b].OriginalTeamID)
	for _, d := range accepted.Details {
		assert.False(t, d.Active)
	}

	_, err = f.app.AcceptTrade(context.Background(), trade.ID, f.team2)
	assert.ErrorIs(t, err, apperr.ErrValidation, "already accepted")

	assert.Equal(t, []events.Type{events.TradeProposed, events.TradeAccepted}, f.events.types)
}

func TestAcceptTrade_OnlyReceiver(t *testing.T) {
	f := newTradeFixture()
	a := f.addPick(20, f.team1)
	b := f.addPick(21, f.team2)
	trade, err := f.propose([]uuid.UUID{a}, []uuid.UUID{b})
	require.NoError(t, err)

	_, err = f.app.AcceptTrade(context.Background(), trade.ID, f.team1)
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = f.app.AcceptTrade(context.Background(), trade.ID, uuid.New())
	assert.ErrorIs(t, err, apperr.ErrValidation)

	stored, err := f.app.GetTrade(context.Background(), trade.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TradeStatusProposed, stored.Status)
	assert.Equal(t, f.team1, f.owner(a))
}

func TestAcceptTrade_RejectsStaleTrade(t *testing.T) {
	f := newTradeFixture()
	a := f.addPick(20, f.team1)
	b := f.addPick(21, f.team2)
	c := f.addPick(22, f.team2)
	trade, err := f.propose([]uuid.UUID{a}, []uuid.UUID{b})
	require.NoError(t, err)

	// b is used while the proposal is pending
	p := f.repo.picks[b]
	player := uuid.New()
	p.PlayerID = &player
	f.repo.picks[b] = p

	_, err = f.app.AcceptTrade(context.Background(), trade.ID, f.team2)
	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.ErrorIs(t, err, ErrStaleTrade)

	stored, err := f.app.GetTrade(context.Background(), trade.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TradeStatusRejected, stored.Status)
	assert.Equal(t, f.team1, f.owner(a))
	assert.Equal(t, f.team2, f.owner(b))
	assert.Equal(t, []events.Type{events.TradeProposed, events.TradeRejected}, f.events.types)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.TradeOutcomes.WithLabelValues("stale")))

	// a is no longer held by the closed proposal
	_, err = f.propose([]uuid.UUID{a}, []uuid.UUID{c})
	assert.NoError(t, err)
}

func TestRejectTrade(t *testing.T) {
	f := newTradeFixture()
	a := f.addPick(30, f.team1)
	b := f.addPick(31, f.team2)

	trade, err := f.propose([]uuid.UUID{a}, []uuid.UUID{b})
	require.NoError(t, err)

	_, err = f.app.RejectTrade(context.Background(), trade.ID, uuid.New())
	assert.ErrorIs(t, err, apperr.ErrValidation, "outsider cannot reject")

	rejected, err := f.app.RejectTrade(context.Background(), trade.ID, f.team1)
	require.NoError(t, err)
	assert.Equal(t, models.TradeStatusRejected, rejected.Status)
	assert.Equal(t, f.team1, f.owner(a))
	assert.Equal(t, f.team2, f.owner(b))
	assert.Nil(t, f.repo.picks[a].OriginalTeamID)

	_, err = f.app.AcceptTrade(context.Background(), trade.ID, f.team2)
	assert.ErrorIs(t, err, apperr.ErrValidation, "rejected is terminal")

	_, err = f.app.RejectTrade(context.Background(), uuid.New(), f.team1)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestProposeTrade_Validation(t *testing.T) {
	f := newTradeFixture()
	mine := f.addPick(40, f.team1)
	theirs := f.addPick(41, f.team2)
	used := f.addPick(42, f.team2)
	p := f.repo.picks[used]
	player := uuid.New()
	p.PlayerID = &player
	f.repo.picks[used] = p

	otherDraft := models.DraftPick{ID: uuid.New(), DraftID: uuid.New(), OverallPick: 41, TeamID: f.team2}
	f.repo.picks[otherDraft.ID] = otherDraft

	tests := []struct {
		name     string
		req      ProposeRequest
		wantKind error
	}{
		{"self trade", ProposeRequest{SessionID: f.draftID, FromTeamID: f.team1, ToTeamID: f.team1, FromPickIDs: []uuid.UUID{mine}}, apperr.ErrValidation},
		{"empty", ProposeRequest{SessionID: f.draftID, FromTeamID: f.team1, ToTeamID: f.team2}, apperr.ErrValidation},
		{"duplicate pick", ProposeRequest{SessionID: f.draftID, FromTeamID: f.team1, ToTeamID: f.team2, FromPickIDs: []uuid.UUID{mine, mine}}, apperr.ErrValidation},
		{"not owner", ProposeRequest{SessionID: f.draftID, FromTeamID: f.team1, ToTeamID: f.team2, FromPickIDs: []uuid.UUID{theirs}, ToPickIDs: []uuid.UUID{mine}}, apperr.ErrValidation},
		{"used pick", ProposeRequest{SessionID: f.draftID, FromTeamID: f.team1, ToTeamID: f.team2, FromPickIDs: []uuid.UUID{mine}, ToPickIDs: []uuid.UUID{used}}, apperr.ErrValidation},
		{"other draft", ProposeRequest{SessionID: f.draftID, FromTeamID: f.team1, ToTeamID: f.team2, FromPickIDs: []uuid.UUID{mine}, ToPickIDs: []uuid.UUID{otherDraft.ID}}, apperr.ErrValidation},
		{"missing pick", ProposeRequest{SessionID: f.draftID, FromTeamID: f.team1, ToTeamID: f.team2, FromPickIDs: []uuid.UUID{mine}, ToPickIDs: []uuid.UUID{uuid.New()}}, apperr.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.app.ProposeTrade(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantKind)
		})
	}
	assert.Empty(t, f.repo.trades)
	assert.Empty(t, f.events.types)
}

func TestGetPendingTrades(t *testing.T) {
	f := newTradeFixture()
	a := f.addPick(50, f.team1)
	b := f.addPick(51, f.team2)
	trade, err := f.propose([]uuid.UUID{a}, []uuid.UUID{b})
	require.NoError(t, err)

	pending, err := f.app.GetPendingTrades(context.Background(), f.team2)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, trade.ID, pending[0].ID)

	pending, err = f.app.GetPendingTrades(context.Background(), f.team1)
	require.NoError(t, err)
	assert.Empty(t, pending)

	_, err = f.app.GetPendingTrades(context.Background(), uuid.Nil)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}
