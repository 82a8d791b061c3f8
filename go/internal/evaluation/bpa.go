package evaluation

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mcdev12/warroom/go/internal/config"
	"github.com/mcdev12/warroom/go/internal/models"
)

const (
	gradeWeight   = 0.60
	combineWeight = 0.20
	fitWeight     = 0.15

	injuryPenalty    = 5.0
	characterPenalty = 5.0

	unsetFitScore = 60.0
)

var fitScores = map[models.FitGrade]float64{
	models.FitGradeA: 100,
	models.FitGradeB: 80,
	models.FitGradeC: 60,
	models.FitGradeD: 40,
	models.FitGradeF: 20,
}

// CombineMethod records how the combine component was derived.
type CombineMethod string

const (
	CombinePercentile CombineMethod = "percentile"
	CombineLinear     CombineMethod = "linear"
	CombineDefault    CombineMethod = "default"
)

// Breakdown is the explained BPA score of one player for one team.
type Breakdown struct {
	PlayerID      uuid.UUID     `json:"player_id"`
	TeamID        uuid.UUID     `json:"team_id"`
	Position      string        `json:"position"`
	Grade         float64       `json:"grade"`
	CombineScore  float64       `json:"combine_score"`
	CombineMethod CombineMethod `json:"combine_method"`
	FitScore      float64       `json:"fit_score"`
	Penalty       float64       `json:"penalty"`
	Score         float64       `json:"score"`
}

// Scorer computes BPA scores from pre-fetched data.
type Scorer struct {
	normalizer     *Normalizer
	defaultCombine float64
}

func NewScorer(cfg config.EvaluationConfig) *Scorer {
	return &Scorer{
		normalizer:     NewNormalizer(cfg),
		defaultCombine: cfg.DefaultCombineScore,
	}
}

// ScoreWithData scores a player from the team's report, the player's combine
// results and the percentile tables of the player's position (keyed by measurement).
func (s *Scorer) ScoreWithData(
	player *models.Player,
	report *models.ScoutingReport,
	results []models.CombineResult,
	tables map[string]models.PercentileTable,
) Breakdown {
	combine, method := s.CombineScore(player.Position, MergeMeasurements(results), tables)
	fit := FitScore(report.FitGrade)
	penalty := ConcernPenalty(report)

	score := 10*report.Grade*gradeWeight + combine*combineWeight + fit*fitWeight - penalty

	return Breakdown{
		PlayerID:      player.ID,
		TeamID:        report.TeamID,
		Position:      player.Position,
		Grade:         report.Grade,
		CombineScore:  combine,
		CombineMethod: method,
		FitScore:      fit,
		Penalty:       penalty,
		Score:         clamp(score, 0, 100),
	}
}

// CombineScore turns merged measurements into a 0-100 athletic score.
// Percentile tables are used only when every weighted measurement has one.
func (s *Scorer) CombineScore(position string, measurements map[string]float64, tables map[string]models.PercentileTable) (float64, CombineMethod) {
	profile := ProfileFor(position)
	weights := profile.Weights()

	present := make(map[string]float64, len(measurements))
	for name, v := range measurements {
		if _, ok := weights[name]; ok {
			present[name] = v
		}
	}
	if len(present) == 0 {
		return s.defaultCombine, CombineDefault
	}

	if scores, ok := s.percentileScores(present, tables); ok {
		if avg, ok := weightedAverage(profile, scores); ok {
			return avg, CombinePercentile
		}
	}

	linear := make(map[string]float64, len(present))
	for name, v := range present {
		if score, ok := s.normalizer.Linear(name, v); ok {
			linear[name] = score
		}
	}
	if avg, ok := weightedAverage(profile, linear); ok {
		return avg, CombineLinear
	}
	return s.defaultCombine, CombineDefault
}

func (s *Scorer) percentileScores(present map[string]float64, tables map[string]models.PercentileTable) (map[string]float64, bool) {
	if len(tables) == 0 {
		return nil, false
	}
	scores := make(map[string]float64, len(present))
	for name, v := range present {
		table, ok := tables[name]
		if !ok {
			return nil, false
		}
		score, ok := PercentileScore(table, v, s.normalizer.LowerIsBetter(name))
		if !ok {
			return nil, false
		}
		scores[name] = score
	}
	return scores, true
}

// FitScore maps a scheme-fit grade to 0-100; an unset grade is average.
func FitScore(grade *models.FitGrade) float64 {
	if grade == nil {
		return unsetFitScore
	}
	if score, ok := fitScores[*grade]; ok {
		return score
	}
	return unsetFitScore
}

// ConcernPenalty is the points deducted for flagged concerns.
func ConcernPenalty(report *models.ScoutingReport) float64 {
	var penalty float64
	if report.InjuryConcern {
		penalty += injuryPenalty
	}
	if report.CharacterConcern {
		penalty += characterPenalty
	}
	return penalty
}

// ReportLookup defines what the evaluator needs to find a team's scouting report
type ReportLookup interface {
	GetScoutingReport(ctx context.Context, teamID, playerID uuid.UUID) (*models.ScoutingReport, error)
}

// MeasurementLookup defines what the evaluator needs to find combine results
type MeasurementLookup interface {
	ListCombineResultsByPlayer(ctx context.Context, playerID uuid.UUID) ([]models.CombineResult, error)
}

// PercentileLookup defines what the evaluator needs to find reference tables
type PercentileLookup interface {
	ListPercentileTables(ctx context.Context, positions []string) (map[string]map[string]models.PercentileTable, error)
}

// Evaluator scores single players, fetching what it needs.
type Evaluator struct {
	*Scorer
	reports      ReportLookup
	measurements MeasurementLookup
	percentiles  PercentileLookup
}

func NewEvaluator(scorer *Scorer, reports ReportLookup, measurements MeasurementLookup, percentiles PercentileLookup) *Evaluator {
	return &Evaluator{
		Scorer:       scorer,
		reports:      reports,
		measurements: measurements,
		percentiles:  percentiles,
	}
}

// BPAScore returns the team's best-player-available score for player.
// A player the team has not scouted is NotFound.
func (e *Evaluator) BPAScore(ctx context.Context, player *models.Player, teamID uuid.UUID) (*Breakdown, error) {
	report, err := e.reports.GetScoutingReport(ctx, teamID, player.ID)
	if err != nil {
		return nil, err
	}

	results, err := e.measurements.ListCombineResultsByPlayer(ctx, player.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get measurements: %w", err)
	}

	tables, err := e.percentiles.ListPercentileTables(ctx, []string{player.Position})
	if err != nil {
		return nil, fmt.Errorf("failed to get percentile tables: %w", err)
	}

	b := e.ScoreWithData(player, report, results, tables[player.Position])
	return &b, nil
}
