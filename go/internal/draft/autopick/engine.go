package autopick

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/mcdev12/warroom/go/internal/apperr"
	"github.com/mcdev12/warroom/go/internal/config"
	"github.com/mcdev12/warroom/go/internal/draft/pick"
	"github.com/mcdev12/warroom/go/internal/evaluation"
	"github.com/mcdev12/warroom/go/internal/metrics"
	"github.com/mcdev12/warroom/go/internal/models"
	"github.com/mcdev12/warroom/go/internal/strategy"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// StrategyResolver defines what the engine needs from the strategy app
type StrategyResolver interface {
	Resolve(ctx context.Context, teamID, draftID uuid.UUID) (*models.DraftStrategy, error)
	PositionMultiplier(s *models.DraftStrategy, position string) float64
}

// ProspectData defines the scouting data the engine pre-fetches for a decision
type ProspectData interface {
	ListScoutingReportsByTeam(ctx context.Context, teamID uuid.UUID) (map[uuid.UUID]models.ScoutingReport, error)
	ListCombineResultsByPlayers(ctx context.Context, playerIDs []uuid.UUID) (map[uuid.UUID][]models.CombineResult, error)
	ListTeamNeeds(ctx context.Context, teamID uuid.UUID) ([]models.TeamNeed, error)
}

// Sequencer defines what the engine needs from the pick app to commit a selection
type Sequencer interface {
	GetPick(ctx context.Context, pickID uuid.UUID) (*models.DraftPick, error)
	ListDraftedPlayerIDs(ctx context.Context, draftID uuid.UUID) ([]uuid.UUID, error)
	MakePick(ctx context.Context, req pick.MakePickRequest) (*models.DraftPick, error)
}

// DraftLookup defines what the engine needs to know about drafts
type DraftLookup interface {
	GetDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error)
}

// PlayerPool defines what the engine needs to list a draft class
type PlayerPool interface {
	ListDraftClass(ctx context.Context, year int) ([]models.Player, error)
}

// Candidate is one scored player in a decision
type Candidate struct {
	PlayerID   uuid.UUID            `json:"player_id"`
	FullName   string               `json:"full_name"`
	Position   string               `json:"position"`
	BPA        evaluation.Breakdown `json:"bpa"`
	NeedScore  float64              `json:"need_score"`
	Multiplier float64              `json:"multiplier"`
	FinalScore float64              `json:"final_score"`
}

// Decision is the selected player plus the full ranking it came from
type Decision struct {
	TeamID     uuid.UUID   `json:"team_id"`
	DraftID    uuid.UUID   `json:"draft_id"`
	PlayerID   uuid.UUID   `json:"player_id"`
	BPAWeight  int         `json:"bpa_weight"`
	NeedWeight int         `json:"need_weight"`
	Candidates []Candidate `json:"candidates"` // final score descending
	Skipped    int         `json:"skipped"`    // players without a scouting report
}

// Selected returns the winning candidate.
func (d *Decision) Selected() Candidate {
	return d.Candidates[0]
}

// Result is the outcome of an executed auto-pick
type Result struct {
	Pick     *models.DraftPick `json:"pick"`
	Decision *Decision         `json:"decision"`
	Attempts int               `json:"attempts"`
}

// Engine decides and executes automatic selections
type Engine struct {
	scorer      *evaluation.Scorer
	strategies  StrategyResolver
	prospects   ProspectData
	percentiles evaluation.PercentileLookup
	maxAttempts int
	metrics     *metrics.Registry

	// set by WithAutoPick
	sequencer Sequencer
	drafts    DraftLookup
	pool      PlayerPool
}

// Option configures an Engine
type Option func(*Engine)

// WithAutoPick wires the collaborators ExecuteAutoPick needs.
func WithAutoPick(sequencer Sequencer, drafts DraftLookup, pool PlayerPool) Option {
	return func(e *Engine) {
		e.sequencer = sequencer
		e.drafts = drafts
		e.pool = pool
	}
}

// WithMetrics records decisions and retries in m.
func WithMetrics(m *metrics.Registry) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// NewEngine creates a new auto-pick Engine
func NewEngine(
	scorer *evaluation.Scorer,
	strategies StrategyResolver,
	prospects ProspectData,
	percentiles evaluation.PercentileLookup,
	cfg config.AutoPickConfig,
	opts ...Option,
) *Engine {
	e := &Engine{
		scorer:      scorer,
		strategies:  strategies,
		prospects:   prospects,
		percentiles: percentiles,
		maxAttempts: cfg.MaxAttempts,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.maxAttempts < 1 {
		e.maxAttempts = 1
	}
	if e.metrics == nil {
		e.metrics = metrics.NewUnregistered()
	}
	return e
}

// prefetched is everything one decision reads, fetched once.
type prefetched struct {
	reports map[uuid.UUID]models.ScoutingReport
	results map[uuid.UUID][]models.CombineResult
	tables  map[string]map[string]models.PercentileTable
	needs   []models.TeamNeed
}

// Decide ranks players for the team and selects the best one.
// Players the team has not scouted are skipped; if none remain the result is NotFound.
func (e *Engine) Decide(ctx context.Context, teamID, draftID uuid.UUID, players []models.Player) (*Decision, error) {
	if len(players) == 0 {
		return nil, apperr.Validationf("no players to choose from")
	}

	s, err := e.strategies.Resolve(ctx, teamID, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve strategy: %w", err)
	}

	data, err := e.prefetch(ctx, teamID, players)
	if err != nil {
		return nil, err
	}

	decision := &Decision{
		TeamID:     teamID,
		DraftID:    draftID,
		BPAWeight:  s.BPAWeight,
		NeedWeight: s.NeedWeight,
		Candidates: make([]Candidate, 0, len(players)),
	}
	for i := range players {
		p := &players[i]
		report, ok := data.reports[p.ID]
		if !ok {
			decision.Skipped++
			continue
		}

		bpa := e.scorer.ScoreWithData(p, &report, data.results[p.ID], data.tables[p.Position])
		need := strategy.NeedScore(p.Position, data.needs)
		multiplier := e.strategies.PositionMultiplier(s, p.Position)

		decision.Candidates = append(decision.Candidates, Candidate{
			PlayerID:   p.ID,
			FullName:   p.FullName,
			Position:   p.Position,
			BPA:        bpa,
			NeedScore:  need,
			Multiplier: multiplier,
			FinalScore: FinalScore(bpa.Score, need, s.BPAWeight, s.NeedWeight, multiplier),
		})
	}

	if len(decision.Candidates) == 0 {
		return nil, apperr.NotFoundf("team %s has no scouting reports for any of %d players", teamID, len(players))
	}

	sort.SliceStable(decision.Candidates, func(i, j int) bool {
		return ranksAbove(decision.Candidates[i], decision.Candidates[j])
	})
	decision.PlayerID = decision.Candidates[0].PlayerID
	return decision, nil
}

// FinalScore blends BPA and need by the strategy weights and applies the position multiplier.
func FinalScore(bpa, need float64, bpaWeight, needWeight int, multiplier float64) float64 {
	return (bpa*float64(bpaWeight)/100 + need*float64(needWeight)/100) * multiplier
}

// ranksAbove orders by final score, then BPA, then need, then player id.
func ranksAbove(a, b Candidate) bool {
	if a.FinalScore != b.FinalScore {
		return a.FinalScore > b.FinalScore
	}
	if a.BPA.Score != b.BPA.Score {
		return a.BPA.Score > b.BPA.Score
	}
	if a.NeedScore != b.NeedScore {
		return a.NeedScore > b.NeedScore
	}
	return a.PlayerID.String() < b.PlayerID.String()
}

func (e *Engine) prefetch(ctx context.Context, teamID uuid.UUID, players []models.Player) (*prefetched, error) {
	ids := make([]uuid.UUID, len(players))
	seen := make(map[string]bool)
	var positions []string
	for i, p := range players {
		ids[i] = p.ID
		if !seen[p.Position] {
			seen[p.Position] = true
			positions = append(positions, p.Position)
		}
	}

	var data prefetched
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if data.reports, err = e.prospects.ListScoutingReportsByTeam(gctx, teamID); err != nil {
			return fmt.Errorf("failed to get scouting reports: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if data.results, err = e.prospects.ListCombineResultsByPlayers(gctx, ids); err != nil {
			return fmt.Errorf("failed to get measurements: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if data.tables, err = e.percentiles.ListPercentileTables(gctx, positions); err != nil {
			return fmt.Errorf("failed to get percentile tables: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if data.needs, err = e.prospects.ListTeamNeeds(gctx, teamID); err != nil {
			return fmt.Errorf("failed to get team needs: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &data, nil
}

// ExecuteAutoPick selects and commits a player for the pick.
// When the chosen player is taken concurrently the pool is refreshed and the
// decision retried, up to the configured number of attempts.
func (e *Engine) ExecuteAutoPick(ctx context.Context, pickID uuid.UUID) (*Result, error) {
	if e.sequencer == nil || e.drafts == nil || e.pool == nil {
		e.metrics.AutoPickDecisions.WithLabelValues("unconfigured").Inc()
		return nil, apperr.Internalf("auto-pick is not configured with a pick sequencer and player pool")
	}

	timer := prometheus.NewTimer(e.metrics.AutoPickDuration)
	defer timer.ObserveDuration()

	target, err := e.sequencer.GetPick(ctx, pickID)
	if err != nil {
		e.metrics.AutoPickDecisions.WithLabelValues("error").Inc()
		return nil, err
	}
	d, err := e.drafts.GetDraft(ctx, target.DraftID)
	if err != nil {
		e.metrics.AutoPickDecisions.WithLabelValues("error").Inc()
		return nil, err
	}

	var lastErr error
	for attempt := 1; attempt <= e.maxAttempts; attempt++ {
		if attempt > 1 {
			e.metrics.AutoPickRetries.Inc()
			// the pick may have changed hands while we lost the race
			if target, err = e.sequencer.GetPick(ctx, pickID); err != nil {
				e.metrics.AutoPickDecisions.WithLabelValues("error").Inc()
				return nil, err
			}
		}
		e.metrics.AutoPickAttempts.Inc()

		players, err := e.availablePlayers(ctx, d)
		if err != nil {
			e.metrics.AutoPickDecisions.WithLabelValues("error").Inc()
			return nil, err
		}

		decision, err := e.Decide(ctx, target.TeamID, d.ID, players)
		if err != nil {
			e.metrics.AutoPickDecisions.WithLabelValues(resultLabel(err)).Inc()
			return nil, err
		}

		made, err := e.sequencer.MakePick(ctx, pick.MakePickRequest{
			PickID:   pickID,
			PlayerID: decision.PlayerID,
			AutoPick: true,
		})
		if err == nil {
			selected := decision.Selected()
			log.Info().
				Str("draft_id", d.ID.String()).
				Str("pick_id", pickID.String()).
				Str("team_id", target.TeamID.String()).
				Str("player_id", selected.PlayerID.String()).
				Str("position", selected.Position).
				Float64("final_score", selected.FinalScore).
				Int("candidates", len(decision.Candidates)).
				Int("attempt", attempt).
				Msg("Auto-pick made")
			e.metrics.AutoPickDecisions.WithLabelValues("selected").Inc()
			return &Result{Pick: made, Decision: decision, Attempts: attempt}, nil
		}
		if !errors.Is(err, apperr.ErrPlayerAlreadyDrafted) {
			e.metrics.AutoPickDecisions.WithLabelValues(resultLabel(err)).Inc()
			return nil, err
		}

		log.Warn().
			Str("pick_id", pickID.String()).
			Str("player_id", decision.PlayerID.String()).
			Int("attempt", attempt).
			Msg("auto-pick lost race for player, retrying")
		lastErr = err
	}

	e.metrics.AutoPickDecisions.WithLabelValues("exhausted").Inc()
	return nil, fmt.Errorf("auto-pick gave up after %d attempts: %w", e.maxAttempts, lastErr)
}

// availablePlayers is the draft class minus players already assigned in the draft.
func (e *Engine) availablePlayers(ctx context.Context, d *models.Draft) ([]models.Player, error) {
	class, err := e.pool.ListDraftClass(ctx, d.Year)
	if err != nil {
		return nil, fmt.Errorf("failed to list draft class: %w", err)
	}
	drafted, err := e.sequencer.ListDraftedPlayerIDs(ctx, d.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafted players: %w", err)
	}

	taken := make(map[uuid.UUID]bool, len(drafted))
	for _, id := range drafted {
		taken[id] = true
	}
	available := make([]models.Player, 0, len(class))
	for _, p := range class {
		if !taken[p.ID] {
			available = append(available, p)
		}
	}
	return available, nil
}

func resultLabel(err error) string {
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		return "no_candidates"
	case apperr.KindValidation:
		return "invalid"
	default:
		return "error"
	}
}
