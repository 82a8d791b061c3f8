package trade

import (
	"math"

	"github.com/mcdev12/warroom/go/internal/config"
	"github.com/mcdev12/warroom/go/internal/models"
)

// ValueChart prices picks by overall number.
// Picks past the end of the table lose TailStep points each, down to Floor.
type ValueChart struct {
	values   []float64
	tailStep float64
	floor    float64
}

func NewValueChart(cfg config.ValueChartConfig) *ValueChart {
	values := make([]float64, len(cfg.Values))
	copy(values, cfg.Values)
	return &ValueChart{
		values:   values,
		tailStep: cfg.TailStep,
		floor:    cfg.Floor,
	}
}

// ValueOf returns the chart value of an overall pick. It is non-increasing in overall.
func (c *ValueChart) ValueOf(overall int) float64 {
	if overall < 1 || len(c.values) == 0 {
		return 0
	}
	if overall <= len(c.values) {
		return math.Max(c.values[overall-1], c.floor)
	}
	last := c.values[len(c.values)-1]
	return math.Max(last-c.tailStep*float64(overall-len(c.values)), c.floor)
}

// Total sums the value of picks.
func (c *ValueChart) Total(picks []models.DraftPick) float64 {
	var total float64
	for _, p := range picks {
		total += c.ValueOf(p.OverallPick)
	}
	return total
}

// RelativeDifference is |a-b| / max(a,b), or 0 when both are zero.
func RelativeDifference(a, b float64) float64 {
	hi := math.Max(a, b)
	if hi == 0 {
		return 0
	}
	return math.Abs(a-b) / hi
}
