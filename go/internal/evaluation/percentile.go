package evaluation

import (
	"sort"

	"github.com/mcdev12/warroom/go/internal/models"
)

// PercentileOf returns the population percentile of value in table, interpolating
// linearly between breakpoints and holding the end percentiles beyond them.
// Points map a raw value to the share of the population at or below it.
func PercentileOf(table models.PercentileTable, value float64) (float64, bool) {
	if len(table.Points) == 0 {
		return 0, false
	}

	points := make([]models.PercentilePoint, len(table.Points))
	copy(points, table.Points)
	sort.Slice(points, func(i, j int) bool { return points[i].Value < points[j].Value })

	first, last := points[0], points[len(points)-1]
	if value <= first.Value {
		return clamp(first.Percentile, 0, 100), true
	}
	if value >= last.Value {
		return clamp(last.Percentile, 0, 100), true
	}

	for i := 1; i < len(points); i++ {
		lo, hi := points[i-1], points[i]
		if value > hi.Value {
			continue
		}
		if hi.Value == lo.Value {
			return clamp(hi.Percentile, 0, 100), true
		}
		frac := (value - lo.Value) / (hi.Value - lo.Value)
		return clamp(lo.Percentile+frac*(hi.Percentile-lo.Percentile), 0, 100), true
	}
	return clamp(last.Percentile, 0, 100), true
}

// PercentileScore is PercentileOf oriented so that 100 is always best.
func PercentileScore(table models.PercentileTable, value float64, lowerIsBetter bool) (float64, bool) {
	p, ok := PercentileOf(table, value)
	if !ok {
		return 0, false
	}
	if lowerIsBetter {
		return 100 - p, true
	}
	return p, true
}
