package evaluation

import (
	"sort"

	"github.com/mcdev12/warroom/go/internal/config"
	"github.com/mcdev12/warroom/go/internal/models"
)

// Measurement names understood by the scorer.
const (
	FortyYardDash = "forty_yard_dash"
	TenYardSplit  = "ten_yard_split"
	VerticalJump  = "vertical_jump"
	BroadJump     = "broad_jump"
	BenchPress    = "bench_press"
	ThreeCone     = "three_cone"
	ShortShuttle  = "short_shuttle"
)

// Range is the linear normalization window of one measurement.
// Values at or beyond the good end score 100, at or beyond the bad end 0.
type Range struct {
	Min           float64
	Max           float64
	LowerIsBetter bool
}

// Normalizer converts raw measurements to 0-100 sub-scores.
type Normalizer struct {
	ranges map[string]Range
}

func NewNormalizer(cfg config.EvaluationConfig) *Normalizer {
	ranges := make(map[string]Range, len(cfg.Ranges))
	for name, r := range cfg.Ranges {
		ranges[name] = Range{Min: r.Min, Max: r.Max, LowerIsBetter: r.LowerIsBetter}
	}
	return &Normalizer{ranges: ranges}
}

// Linear scores a raw value against its fixed range. ok is false for unknown measurements.
func (n *Normalizer) Linear(name string, value float64) (score float64, ok bool) {
	r, ok := n.ranges[name]
	if !ok {
		return 0, false
	}
	frac := (value - r.Min) / (r.Max - r.Min)
	if r.LowerIsBetter {
		frac = 1 - frac
	}
	return clamp(frac*100, 0, 100), true
}

// LowerIsBetter reports the direction of a measurement.
func (n *Normalizer) LowerIsBetter(name string) bool {
	return n.ranges[name].LowerIsBetter
}

// MergeMeasurements flattens a player's results into one value per measurement.
// For each measurement the most recent year wins; within a year the combine
// beats other sources, and remaining ties go to the alphabetically first source.
func MergeMeasurements(results []models.CombineResult) map[string]float64 {
	ordered := make([]models.CombineResult, len(results))
	copy(ordered, results)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.Year != b.Year {
			return a.Year > b.Year
		}
		aCombine, bCombine := a.Source == models.SourceCombine, b.Source == models.SourceCombine
		if aCombine != bCombine {
			return aCombine
		}
		return a.Source < b.Source
	})

	merged := make(map[string]float64)
	for _, r := range ordered {
		for name, v := range r.Measurements {
			if _, seen := merged[name]; !seen {
				merged[name] = v
			}
		}
	}
	return merged
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
