package pick

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/warroom/go/internal/apperr"
	"github.com/mcdev12/warroom/go/internal/draft/events"
	"github.com/mcdev12/warroom/go/internal/models"
	"github.com/mcdev12/warroom/go/internal/player"
	"github.com/rs/zerolog/log"
)

// PickRepository defines what the pick app layer needs from the pick repository
type PickRepository interface {
	CreateDraftPicksBatch(ctx context.Context, draftID uuid.UUID, picks []models.DraftPick) error
	GetDraftPick(ctx context.Context, id uuid.UUID) (*models.DraftPick, error)
	GetDraftPicksByDraft(ctx context.Context, draftID uuid.UUID) ([]models.DraftPick, error)
	GetNextPickForDraft(ctx context.Context, draftID uuid.UUID) (*models.DraftPick, error)
	ListAvailablePicks(ctx context.Context, draftID uuid.UUID) ([]models.DraftPick, error)
	CountRemainingPicks(ctx context.Context, draftID uuid.UUID) (int, error)
	CountPicks(ctx context.Context, draftID uuid.UUID) (int, error)
	GetPickByPlayer(ctx context.Context, draftID, playerID uuid.UUID) (*models.DraftPick, error)
	MakePick(ctx context.Context, pickID, playerID uuid.UUID, at time.Time) (*models.DraftPick, error)
	ListDraftedPlayerIDs(ctx context.Context, draftID uuid.UUID) ([]uuid.UUID, error)
}

// DraftLookup defines what the pick app layer needs to know about drafts
type DraftLookup interface {
	GetDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error)
}

// TeamLookup defines what the pick app layer needs to order teams
type TeamLookup interface {
	ListAllTeams(ctx context.Context) ([]models.Team, error)
	ListStandingsByYear(ctx context.Context, year int) ([]models.TeamStanding, error)
}

// PlayerLookup defines what the pick app layer needs to validate selections
type PlayerLookup interface {
	GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error)
}

// App handles pick sequencing business logic
type App struct {
	repo    PickRepository
	drafts  DraftLookup
	teams   TeamLookup
	players PlayerLookup
	events  events.Emitter
	clock   clockwork.Clock
}

// NewApp creates a new pick App
func NewApp(
	repo PickRepository,
	drafts DraftLookup,
	teams TeamLookup,
	players PlayerLookup,
	emitter events.Emitter,
	clock clockwork.Clock,
) *App {
	if emitter == nil {
		emitter = events.Discard
	}
	return &App{
		repo:    repo,
		drafts:  drafts,
		teams:   teams,
		players: players,
		events:  emitter,
		clock:   clock,
	}
}

// InitializePicks creates the full rounds x teams pick grid for a draft.
// The order comes from the prior season's standings when they cover every team,
// otherwise from the default team listing.
func (a *App) InitializePicks(ctx context.Context, draftID uuid.UUID) ([]models.DraftPick, error) {
	d, err := a.draftForInitialization(ctx, draftID)
	if err != nil {
		return nil, err
	}

	order, source, err := a.resolveOrder(ctx, d.Year)
	if err != nil {
		return nil, err
	}
	if d.PicksPerRound != nil && *d.PicksPerRound != len(order) {
		return nil, apperr.Validationf("draft %s expects %d picks per round but %d teams were resolved",
			draftID, *d.PicksPerRound, len(order))
	}

	picks := generateLinearDraftPicks(draftID, d.Rounds, order)
	if err := a.repo.CreateDraftPicksBatch(ctx, draftID, picks); err != nil {
		return nil, err
	}

	log.Info().
		Str("draft_id", draftID.String()).
		Int("picks", len(picks)).
		Int("rounds", d.Rounds).
		Str("order_from", string(source)).
		Msg("Initialized draft picks")

	a.emitPicksInitialized(ctx, d, len(picks), source)
	return picks, nil
}

// ImportPickOrder creates the picks of a realistic draft from an externally supplied order.
func (a *App) ImportPickOrder(ctx context.Context, draftID uuid.UUID, slots []PickSlot) ([]models.DraftPick, error) {
	d, err := a.draftForInitialization(ctx, draftID)
	if err != nil {
		return nil, err
	}

	teams, err := a.teams.ListAllTeams(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	known := make(map[uuid.UUID]bool, len(teams))
	for _, t := range teams {
		known[t.ID] = true
	}

	if err := validatePickSlots(d, slots, known); err != nil {
		return nil, err
	}

	picks := make([]models.DraftPick, len(slots))
	for i, s := range slots {
		picks[i] = models.DraftPick{
			ID:             uuid.New(),
			DraftID:        draftID,
			Round:          s.Round,
			Pick:           s.Pick,
			OverallPick:    s.OverallPick,
			TeamID:         s.TeamID,
			IsCompensatory: s.IsCompensatory,
			Notes:          s.Notes,
		}
	}

	if err := a.repo.CreateDraftPicksBatch(ctx, draftID, picks); err != nil {
		return nil, err
	}

	log.Info().
		Str("draft_id", draftID.String()).
		Int("picks", len(picks)).
		Msg("Imported draft pick order")

	a.emitPicksInitialized(ctx, d, len(picks), OrderFromImport)
	return picks, nil
}

// FindNextPick returns the unmade pick with the smallest overall number
func (a *App) FindNextPick(ctx context.Context, draftID uuid.UUID) (*models.DraftPick, error) {
	return a.repo.GetNextPickForDraft(ctx, draftID)
}

// FindAvailablePicks returns every unmade pick in overall order
func (a *App) FindAvailablePicks(ctx context.Context, draftID uuid.UUID) ([]models.DraftPick, error) {
	return a.repo.ListAvailablePicks(ctx, draftID)
}

// ListPicks returns every pick of a draft in overall order
func (a *App) ListPicks(ctx context.Context, draftID uuid.UUID) ([]models.DraftPick, error) {
	return a.repo.GetDraftPicksByDraft(ctx, draftID)
}

// GetPick retrieves a draft pick by ID
func (a *App) GetPick(ctx context.Context, pickID uuid.UUID) (*models.DraftPick, error) {
	return a.repo.GetDraftPick(ctx, pickID)
}

// CountRemainingPicks returns the number of unpicked slots in a draft
func (a *App) CountRemainingPicks(ctx context.Context, draftID uuid.UUID) (int, error) {
	return a.repo.CountRemainingPicks(ctx, draftID)
}

// CountPicks returns the number of pick slots in a draft, made or not
func (a *App) CountPicks(ctx context.Context, draftID uuid.UUID) (int, error) {
	return a.repo.CountPicks(ctx, draftID)
}

// ListDraftedPlayerIDs returns the players already assigned in a draft
func (a *App) ListDraftedPlayerIDs(ctx context.Context, draftID uuid.UUID) ([]uuid.UUID, error) {
	return a.repo.ListDraftedPlayerIDs(ctx, draftID)
}

// MakePick assigns a player to an open pick.
// A player already held by another pick in the same draft fails with
// apperr.ErrPlayerAlreadyDrafted, both from the pre-check here and from the
// storage constraint when two selections race.
func (a *App) MakePick(ctx context.Context, req MakePickRequest) (*models.DraftPick, error) {
	if req.PickID == uuid.Nil {
		return nil, apperr.Validationf("pick_id is required")
	}
	if req.PlayerID == uuid.Nil {
		return nil, apperr.Validationf("player_id is required")
	}

	pick, err := a.repo.GetDraftPick(ctx, req.PickID)
	if err != nil {
		return nil, err
	}
	if pick.IsMade() {
		return nil, apperr.Validationf("pick %s already made", pick.ID)
	}

	d, err := a.drafts.GetDraft(ctx, pick.DraftID)
	if err != nil {
		return nil, err
	}
	if d.Status == models.DraftStatusCompleted {
		return nil, apperr.Validationf("draft %s is completed", d.ID)
	}

	p, err := a.players.GetPlayer(ctx, req.PlayerID)
	if err != nil {
		return nil, err
	}
	if err := player.CheckEligibility(p, d.Year); err != nil {
		return nil, err
	}

	holder, err := a.repo.GetPickByPlayer(ctx, pick.DraftID, p.ID)
	switch {
	case err == nil:
		return nil, apperr.AlreadyDrafted("player %s taken at overall pick %d", p.ID, holder.OverallPick)
	case !errors.Is(err, apperr.ErrNotFound):
		return nil, err
	}

	updated, err := a.repo.MakePick(ctx, pick.ID, p.ID, a.clock.Now())
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("draft_id", updated.DraftID.String()).
		Str("pick_id", updated.ID.String()).
		Int("overall_pick", updated.OverallPick).
		Str("team_id", updated.TeamID.String()).
		Str("player_id", p.ID.String()).
		Bool("auto_pick", req.AutoPick).
		Msg("Pick made")

	a.emit(ctx, updated.DraftID, events.PickMade, events.PickMadePayload{
		PickID:      updated.ID.String(),
		DraftID:     updated.DraftID.String(),
		TeamID:      updated.TeamID.String(),
		PlayerID:    p.ID.String(),
		PlayerName:  p.FullName,
		Position:    p.Position,
		Round:       updated.Round,
		Pick:        updated.Pick,
		OverallPick: updated.OverallPick,
		AutoPick:    req.AutoPick,
		MadeAt:      *updated.PickedAt,
	})
	return updated, nil
}

func (a *App) draftForInitialization(ctx context.Context, draftID uuid.UUID) (*models.Draft, error) {
	d, err := a.drafts.GetDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if d.Status != models.DraftStatusNotStarted {
		return nil, apperr.Validationf("draft %s is %s, picks can only be initialized before it starts", draftID, d.Status)
	}
	return d, nil
}

// resolveOrder returns team ids in first-round order.
func (a *App) resolveOrder(ctx context.Context, draftYear int) ([]uuid.UUID, OrderSource, error) {
	teams, err := a.teams.ListAllTeams(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list teams: %w", err)
	}
	if len(teams) == 0 {
		return nil, "", apperr.Validationf("no teams available to build a pick order")
	}

	if draftYear > 1 {
		standings, err := a.teams.ListStandingsByYear(ctx, draftYear-1)
		if err != nil {
			return nil, "", fmt.Errorf("failed to get standings: %w", err)
		}
		if order, ok := orderFromStandings(teams, standings); ok {
			return order, OrderFromStandings, nil
		}
		log.Info().
			Int("standings_year", draftYear-1).
			Int("standings", len(standings)).
			Int("teams", len(teams)).
			Msg("Standings incomplete, using default team order")
	}

	order := make([]uuid.UUID, len(teams))
	for i, t := range teams {
		order[i] = t.ID
	}
	return order, OrderFromTeamListing, nil
}

// orderFromStandings orders teams by draft position when standings hold exactly one entry per team.
func orderFromStandings(teams []models.Team, standings []models.TeamStanding) ([]uuid.UUID, bool) {
	if len(standings) != len(teams) {
		return nil, false
	}
	remaining := make(map[uuid.UUID]bool, len(teams))
	for _, t := range teams {
		remaining[t.ID] = true
	}

	sorted := make([]models.TeamStanding, len(standings))
	copy(sorted, standings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DraftPosition < sorted[j].DraftPosition
	})

	order := make([]uuid.UUID, 0, len(sorted))
	for _, s := range sorted {
		if !remaining[s.TeamID] {
			return nil, false
		}
		delete(remaining, s.TeamID)
		order = append(order, s.TeamID)
	}
	return order, len(remaining) == 0
}

// generateLinearDraftPicks generates picks with the same team order in every round
func generateLinearDraftPicks(draftID uuid.UUID, rounds int, draftOrder []uuid.UUID) []models.DraftPick {
	numTeams := len(draftOrder)
	picks := make([]models.DraftPick, 0, rounds*numTeams)

	overallPick := 1
	for round := 1; round <= rounds; round++ {
		for pick, teamID := range draftOrder {
			picks = append(picks, models.DraftPick{
				ID:          uuid.New(),
				DraftID:     draftID,
				Round:       round,
				Pick:        pick + 1, // 1-indexed pick number within round
				OverallPick: overallPick,
				TeamID:      teamID,
			})
			overallPick++
		}
	}

	return picks
}

// validatePickSlots checks an imported order is a contiguous sequence of known teams' picks
func validatePickSlots(d *models.Draft, slots []PickSlot, knownTeams map[uuid.UUID]bool) error {
	if len(slots) == 0 {
		return apperr.Validationf("pick order is empty")
	}

	perRound := make(map[int]int)
	prevRound := 0
	for i, s := range slots {
		if s.OverallPick != i+1 {
			return apperr.Validationf("slot %d has overall pick %d, expected %d", i, s.OverallPick, i+1)
		}
		if s.Round < 1 || s.Round > d.Rounds {
			return apperr.Validationf("overall pick %d is in round %d, draft has %d rounds", s.OverallPick, s.Round, d.Rounds)
		}
		if s.Round < prevRound || s.Round > prevRound+1 {
			return apperr.Validationf("overall pick %d jumps from round %d to %d", s.OverallPick, prevRound, s.Round)
		}
		if s.Pick != perRound[s.Round]+1 {
			return apperr.Validationf("overall pick %d is pick %d of round %d, expected %d",
				s.OverallPick, s.Pick, s.Round, perRound[s.Round]+1)
		}
		if !knownTeams[s.TeamID] {
			return apperr.Validationf("overall pick %d belongs to unknown team %s", s.OverallPick, s.TeamID)
		}
		perRound[s.Round]++
		prevRound = s.Round
	}

	if d.PicksPerRound != nil {
		for round := 1; round <= prevRound; round++ {
			if perRound[round] != *d.PicksPerRound {
				return apperr.Validationf("round %d has %d picks, draft expects %d", round, perRound[round], *d.PicksPerRound)
			}
		}
	}
	return nil
}

func (a *App) emitPicksInitialized(ctx context.Context, d *models.Draft, total int, source OrderSource) {
	a.emit(ctx, d.ID, events.PicksInitialized, events.PicksInitializedPayload{
		DraftID:    d.ID.String(),
		TotalPicks: total,
		Rounds:     d.Rounds,
		OrderFrom:  string(source),
		CreatedAt:  a.clock.Now(),
	})
}

func (a *App) emit(ctx context.Context, draftID uuid.UUID, eventType events.Type, payload any) {
	if err := a.events.Emit(ctx, draftID, eventType, payload); err != nil {
		log.Warn().Err(err).
			Str("draft_id", draftID.String()).
			Str("event_type", string(eventType)).
			Msg("failed to record pick event")
	}
}
