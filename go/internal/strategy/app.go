package strategy

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/warroom/go/internal/apperr"
	"github.com/mcdev12/warroom/go/internal/config"
	"github.com/mcdev12/warroom/go/internal/models"
	"github.com/rs/zerolog/log"
)

const (
	needTopScore = 100.0
	needDecay    = 15.0
	needFloor    = 20.0
	unlistedNeed = 10.0
	totalWeight  = 100
)

// StrategyRepository defines what the app layer needs from the repository
type StrategyRepository interface {
	GetStrategy(ctx context.Context, teamID, draftID uuid.UUID) (*models.DraftStrategy, error)
	CreateIfAbsent(ctx context.Context, s models.DraftStrategy) error
	UpsertStrategy(ctx context.Context, s models.DraftStrategy, now time.Time) (*models.DraftStrategy, error)
}

// SetStrategyRequest configures a team's strategy for one draft
type SetStrategyRequest struct {
	TeamID              uuid.UUID          `json:"team_id"`
	DraftID             uuid.UUID          `json:"draft_id"`
	BPAWeight           int                `json:"bpa_weight"`
	NeedWeight          int                `json:"need_weight"`
	PositionMultipliers map[string]float64 `json:"position_multipliers,omitempty"`
	Aggressiveness      *float64           `json:"aggressiveness,omitempty"`
}

// App resolves the strategy a team drafts with
type App struct {
	repo     StrategyRepository
	clock    clockwork.Clock
	defaults config.StrategyConfig
}

func NewApp(repo StrategyRepository, clock clockwork.Clock, defaults config.StrategyConfig) *App {
	return &App{
		repo:     repo,
		clock:    clock,
		defaults: defaults,
	}
}

// Resolve returns the team's strategy for the draft, creating the default one
// on first use. Concurrent callers converge on the same stored row.
func (a *App) Resolve(ctx context.Context, teamID, draftID uuid.UUID) (*models.DraftStrategy, error) {
	s, err := a.repo.GetStrategy(ctx, teamID, draftID)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return nil, fmt.Errorf("failed to resolve strategy: %w", err)
	}

	def := models.DraftStrategy{
		ID:         uuid.New(),
		TeamID:     teamID,
		DraftID:    draftID,
		BPAWeight:  a.defaults.DefaultBPAWeight,
		NeedWeight: a.defaults.DefaultNeedWeight,
		CreatedAt:  a.clock.Now(),
	}
	if err := a.repo.CreateIfAbsent(ctx, def); err != nil {
		return nil, err
	}

	s, err = a.repo.GetStrategy(ctx, teamID, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to read back default strategy: %w", err)
	}

	log.Info().
		Str("team_id", teamID.String()).
		Str("draft_id", draftID.String()).
		Int("bpa_weight", s.BPAWeight).
		Int("need_weight", s.NeedWeight).
		Msg("Created default draft strategy")
	return s, nil
}

// SetStrategy creates or replaces a team's strategy after validating it
func (a *App) SetStrategy(ctx context.Context, req SetStrategyRequest) (*models.DraftStrategy, error) {
	if err := validateSetStrategyRequest(req); err != nil {
		return nil, err
	}

	multipliers := make(map[string]float64, len(req.PositionMultipliers))
	for pos, m := range req.PositionMultipliers {
		multipliers[normalizePosition(pos)] = m
	}

	s, err := a.repo.UpsertStrategy(ctx, models.DraftStrategy{
		ID:                  uuid.New(),
		TeamID:              req.TeamID,
		DraftID:             req.DraftID,
		BPAWeight:           req.BPAWeight,
		NeedWeight:          req.NeedWeight,
		PositionMultipliers: multipliers,
		Aggressiveness:      req.Aggressiveness,
		CreatedAt:           a.clock.Now(),
	}, a.clock.Now())
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("team_id", req.TeamID.String()).
		Str("draft_id", req.DraftID.String()).
		Int("bpa_weight", s.BPAWeight).
		Int("need_weight", s.NeedWeight).
		Int("overrides", len(s.PositionMultipliers)).
		Msg("Saved draft strategy")
	return s, nil
}

// PositionMultiplier returns the strategy's override for position, else the default table.
func (a *App) PositionMultiplier(s *models.DraftStrategy, position string) float64 {
	pos := normalizePosition(position)
	if s != nil {
		if m, ok := s.PositionMultipliers[pos]; ok {
			return m
		}
	}
	if m, ok := a.defaults.PositionMultipliers[pos]; ok {
		return m
	}
	return a.defaults.FallbackMultiplier
}

// NeedScore scores how much a team needs a position: 100 for the top need,
// 15 less per priority step down to 20, and 10 for positions not listed.
func NeedScore(position string, needs []models.TeamNeed) float64 {
	pos := normalizePosition(position)
	best := 0
	for _, n := range needs {
		if normalizePosition(n.Position) != pos || n.Priority < 1 {
			continue
		}
		if best == 0 || n.Priority < best {
			best = n.Priority
		}
	}
	if best == 0 {
		return unlistedNeed
	}
	score := needTopScore - needDecay*float64(best-1)
	if score < needFloor {
		return needFloor
	}
	return score
}

func validateSetStrategyRequest(req SetStrategyRequest) error {
	if req.TeamID == uuid.Nil || req.DraftID == uuid.Nil {
		return apperr.Validationf("team_id and draft_id are required")
	}
	if req.BPAWeight < 0 || req.BPAWeight > totalWeight || req.NeedWeight < 0 || req.NeedWeight > totalWeight {
		return apperr.Validationf("weights must be between 0 and %d", totalWeight)
	}
	if req.BPAWeight+req.NeedWeight != totalWeight {
		return apperr.Validationf("bpa_weight + need_weight must equal %d, got %d", totalWeight, req.BPAWeight+req.NeedWeight)
	}
	for pos, m := range req.PositionMultipliers {
		if strings.TrimSpace(pos) == "" {
			return apperr.Validationf("position multiplier with empty position")
		}
		if m <= 0 {
			return apperr.Validationf("multiplier for %s must be positive, got %v", pos, m)
		}
	}
	if req.Aggressiveness != nil && (*req.Aggressiveness < 0 || *req.Aggressiveness > 1) {
		return apperr.Validationf("aggressiveness must be between 0 and 1, got %v", *req.Aggressiveness)
	}
	return nil
}

func normalizePosition(position string) string {
	return strings.ToUpper(strings.TrimSpace(position))
}
