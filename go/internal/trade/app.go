package trade

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/warroom/go/internal/apperr"
	"github.com/mcdev12/warroom/go/internal/draft/events"
	"github.com/mcdev12/warroom/go/internal/metrics"
	"github.com/mcdev12/warroom/go/internal/models"
	"github.com/rs/zerolog/log"
)

// TradeRepository defines what the trade app layer needs from the trade repository
type TradeRepository interface {
	Propose(ctx context.Context, pickIDs []uuid.UUID, build func(locked []LockedPick) (*models.PickTrade, error)) (*models.PickTrade, error)
	Resolve(ctx context.Context, tradeID uuid.UUID, at time.Time, decide func(t *models.PickTrade) (*Resolution, error)) (*models.PickTrade, error)
	GetTrade(ctx context.Context, id uuid.UUID) (*models.PickTrade, error)
	ListPendingTrades(ctx context.Context, teamID uuid.UUID) ([]models.PickTrade, error)
}

// App handles pick trade business logic
type App struct {
	repo      TradeRepository
	chart     *ValueChart
	threshold float64
	events    events.Emitter
	clock     clockwork.Clock
	metrics   *metrics.Registry
}

// NewApp creates a new trade App. Trades whose sides differ in value by more
// than threshold (relative to the larger side) are refused.
func NewApp(
	repo TradeRepository,
	chart *ValueChart,
	threshold float64,
	emitter events.Emitter,
	clock clockwork.Clock,
	m *metrics.Registry,
) *App {
	if emitter == nil {
		emitter = events.Discard
	}
	if m == nil {
		m = metrics.NewUnregistered()
	}
	return &App{
		repo:      repo,
		chart:     chart,
		threshold: threshold,
		events:    emitter,
		clock:     clock,
		metrics:   m,
	}
}

// ProposeTrade validates and records a trade proposal.
// Ownership, use and exclusivity of every pick are checked while the picks are locked.
func (a *App) ProposeTrade(ctx context.Context, req ProposeRequest) (*models.PickTrade, error) {
	if err := validateProposeRequest(req); err != nil {
		a.metrics.TradeOutcomes.WithLabelValues("invalid").Inc()
		return nil, err
	}

	pickIDs := append(append([]uuid.UUID{}, req.FromPickIDs...), req.ToPickIDs...)
	t, err := a.repo.Propose(ctx, pickIDs, func(locked []LockedPick) (*models.PickTrade, error) {
		return a.buildTrade(req, locked)
	})
	if err != nil {
		a.metrics.TradeOutcomes.WithLabelValues(outcomeLabel(err)).Inc()
		return nil, err
	}

	a.metrics.TradeOutcomes.WithLabelValues("proposed").Inc()
	log.Info().
		Str("trade_id", t.ID.String()).
		Str("draft_id", t.SessionID.String()).
		Str("from_team_id", t.FromTeamID.String()).
		Str("to_team_id", t.ToTeamID.String()).
		Float64("from_value", t.FromValue).
		Float64("to_value", t.ToValue).
		Msg("Trade proposed")

	a.emit(ctx, events.TradeProposed, t, t.FromTeamID)
	return t, nil
}

// AcceptTrade swaps pick ownership. Only the receiving team may accept.
// A trade whose picks were used or moved since the proposal is rejected
// instead, which frees its other picks for new proposals.
func (a *App) AcceptTrade(ctx context.Context, tradeID, actingTeamID uuid.UUID) (*models.PickTrade, error) {
	t, err := a.repo.Resolve(ctx, tradeID, a.clock.Now(), func(t *models.PickTrade) (*Resolution, error) {
		if t.Status != models.TradeStatusProposed {
			return nil, apperr.Validationf("trade %s is %s", t.ID, t.Status)
		}
		if actingTeamID != t.ToTeamID {
			return nil, apperr.Validationf("only the receiving team can accept trade %s", t.ID)
		}
		return &Resolution{Status: models.TradeStatusAccepted, Transfers: transfersFor(t)}, nil
	})
	if errors.Is(err, ErrStaleTrade) {
		a.closeStale(ctx, tradeID, actingTeamID, err)
		a.metrics.TradeOutcomes.WithLabelValues("stale").Inc()
		return nil, err
	}
	if err != nil {
		a.metrics.TradeOutcomes.WithLabelValues(outcomeLabel(err)).Inc()
		return nil, err
	}

	a.metrics.TradeOutcomes.WithLabelValues("accepted").Inc()
	log.Info().
		Str("trade_id", t.ID.String()).
		Str("draft_id", t.SessionID.String()).
		Int("picks_moved", len(t.Details)).
		Msg("Trade accepted")

	a.emit(ctx, events.TradeAccepted, t, actingTeamID)
	return t, nil
}

// RejectTrade closes a proposal without moving picks.
// Either party may reject; the proposer rejecting withdraws the offer.
func (a *App) RejectTrade(ctx context.Context, tradeID, actingTeamID uuid.UUID) (*models.PickTrade, error) {
	t, err := a.repo.Resolve(ctx, tradeID, a.clock.Now(), func(t *models.PickTrade) (*Resolution, error) {
		if t.Status != models.TradeStatusProposed {
			return nil, apperr.Validationf("trade %s is %s", t.ID, t.Status)
		}
		if !t.IsParticipant(actingTeamID) {
			return nil, apperr.Validationf("team %s is not a party to trade %s", actingTeamID, t.ID)
		}
		return &Resolution{Status: models.TradeStatusRejected}, nil
	})
	if err != nil {
		a.metrics.TradeOutcomes.WithLabelValues(outcomeLabel(err)).Inc()
		return nil, err
	}

	a.metrics.TradeOutcomes.WithLabelValues("rejected").Inc()
	log.Info().
		Str("trade_id", t.ID.String()).
		Str("draft_id", t.SessionID.String()).
		Str("acting_team_id", actingTeamID.String()).
		Msg("Trade rejected")

	a.emit(ctx, events.TradeRejected, t, actingTeamID)
	return t, nil
}

// closeStale rejects a proposal that can no longer be settled.
func (a *App) closeStale(ctx context.Context, tradeID, actingTeamID uuid.UUID, cause error) {
	t, err := a.repo.Resolve(ctx, tradeID, a.clock.Now(), func(t *models.PickTrade) (*Resolution, error) {
		if t.Status != models.TradeStatusProposed {
			return nil, apperr.Validationf("trade %s is %s", t.ID, t.Status)
		}
		return &Resolution{Status: models.TradeStatusRejected}, nil
	})
	if err != nil {
		log.Warn().Err(err).Str("trade_id", tradeID.String()).Msg("failed to close stale trade")
		return
	}

	log.Info().
		Str("trade_id", t.ID.String()).
		Str("draft_id", t.SessionID.String()).
		Str("cause", cause.Error()).
		Msg("Stale trade rejected")
	a.emit(ctx, events.TradeRejected, t, actingTeamID)
}

// GetTrade retrieves a trade with its details
func (a *App) GetTrade(ctx context.Context, id uuid.UUID) (*models.PickTrade, error) {
	return a.repo.GetTrade(ctx, id)
}

// GetPendingTrades lists proposals awaiting the team's answer
func (a *App) GetPendingTrades(ctx context.Context, teamID uuid.UUID) ([]models.PickTrade, error) {
	if teamID == uuid.Nil {
		return nil, apperr.Validationf("team_id is required")
	}
	return a.repo.ListPendingTrades(ctx, teamID)
}

// buildTrade runs under the pick locks.
func (a *App) buildTrade(req ProposeRequest, locked []LockedPick) (*models.PickTrade, error) {
	byID := make(map[uuid.UUID]LockedPick, len(locked))
	for _, p := range locked {
		byID[p.ID] = p
	}

	fromPicks, err := a.checkSide(req, req.FromPickIDs, req.FromTeamID, byID)
	if err != nil {
		return nil, err
	}
	toPicks, err := a.checkSide(req, req.ToPickIDs, req.ToTeamID, byID)
	if err != nil {
		return nil, err
	}

	fromValue := a.chart.Total(fromPicks)
	toValue := a.chart.Total(toPicks)
	if diff := RelativeDifference(fromValue, toValue); diff > a.threshold {
		return nil, apperr.Validationf("unfair trade: values %.1f and %.1f differ by %.1f%%, limit is %.1f%%",
			fromValue, toValue, diff*100, a.threshold*100)
	}

	t := &models.PickTrade{
		ID:              uuid.New(),
		SessionID:       req.SessionID,
		FromTeamID:      req.FromTeamID,
		ToTeamID:        req.ToTeamID,
		Status:          models.TradeStatusProposed,
		FromValue:       fromValue,
		ToValue:         toValue,
		ValueDifference: fromValue - toValue,
		CreatedAt:       a.clock.Now(),
	}
	for _, p := range fromPicks {
		t.Details = append(t.Details, models.PickTradeDetail{ID: uuid.New(), TradeID: t.ID, PickID: p.ID, Side: models.TradeSideFrom, Active: true})
	}
	for _, p := range toPicks {
		t.Details = append(t.Details, models.PickTradeDetail{ID: uuid.New(), TradeID: t.ID, PickID: p.ID, Side: models.TradeSideTo, Active: true})
	}
	return t, nil
}

func (a *App) checkSide(req ProposeRequest, ids []uuid.UUID, owner uuid.UUID, locked map[uuid.UUID]LockedPick) ([]models.DraftPick, error) {
	picks := make([]models.DraftPick, 0, len(ids))
	for _, id := range ids {
		p, ok := locked[id]
		switch {
		case !ok:
			return nil, apperr.NotFoundf("draft pick %s", id)
		case p.DraftID != req.SessionID:
			return nil, apperr.Validationf("pick %s belongs to another draft", id)
		case p.TeamID != owner:
			return nil, apperr.Validationf("pick %s is not owned by team %s", id, owner)
		case p.IsMade():
			return nil, apperr.Validationf("pick %s has already been used", id)
		case p.InActiveTrade:
			return nil, apperr.Validationf("pick %s is already part of a proposed trade", id)
		}
		picks = append(picks, p.DraftPick)
	}
	return picks, nil
}

// transfersFor sends FROM picks to the receiver and TO picks to the proposer.
func transfersFor(t *models.PickTrade) []Transfer {
	transfers := make([]Transfer, 0, len(t.Details))
	for _, d := range t.Details {
		switch d.Side {
		case models.TradeSideFrom:
			transfers = append(transfers, Transfer{PickID: d.PickID, From: t.FromTeamID, To: t.ToTeamID})
		case models.TradeSideTo:
			transfers = append(transfers, Transfer{PickID: d.PickID, From: t.ToTeamID, To: t.FromTeamID})
		}
	}
	return transfers
}

func validateProposeRequest(req ProposeRequest) error {
	if req.SessionID == uuid.Nil {
		return apperr.Validationf("session_id is required")
	}
	if req.FromTeamID == uuid.Nil || req.ToTeamID == uuid.Nil {
		return apperr.Validationf("from_team_id and to_team_id are required")
	}
	if req.FromTeamID == req.ToTeamID {
		return apperr.Validationf("a team cannot trade with itself")
	}
	if len(req.FromPickIDs) == 0 && len(req.ToPickIDs) == 0 {
		return apperr.Validationf("a trade needs at least one pick")
	}

	seen := make(map[uuid.UUID]bool, len(req.FromPickIDs)+len(req.ToPickIDs))
	for _, id := range append(append([]uuid.UUID{}, req.FromPickIDs...), req.ToPickIDs...) {
		if seen[id] {
			return apperr.Validationf("pick %s is listed more than once", id)
		}
		seen[id] = true
	}
	return nil
}

func outcomeLabel(err error) string {
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		return "invalid"
	case apperr.KindNotFound:
		return "not_found"
	default:
		return "error"
	}
}

func (a *App) emit(ctx context.Context, eventType events.Type, t *models.PickTrade, actingTeamID uuid.UUID) {
	payload := events.TradePayload{
		TradeID:         t.ID.String(),
		DraftID:         t.SessionID.String(),
		FromTeamID:      t.FromTeamID.String(),
		ToTeamID:        t.ToTeamID.String(),
		FromPickIDs:     idStrings(t.PickIDs(models.TradeSideFrom)),
		ToPickIDs:       idStrings(t.PickIDs(models.TradeSideTo)),
		FromValue:       t.FromValue,
		ToValue:         t.ToValue,
		ValueDifference: t.ValueDifference,
		Status:          string(t.Status),
		ActingTeamID:    actingTeamID.String(),
		At:              a.clock.Now(),
	}
	if err := a.events.Emit(ctx, t.SessionID, eventType, payload); err != nil {
		log.Warn().Err(err).
			Str("trade_id", t.ID.String()).
			Str("event_type", string(eventType)).
			Msg("failed to record trade event")
	}
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
