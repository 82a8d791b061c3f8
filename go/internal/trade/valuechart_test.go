package trade

import (
	"testing"

	"github.com/mcdev12/warroom/go/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestValueChart(t *testing.T) {
	chart := NewValueChart(config.Default().Trade.ValueChart)

	assert.Equal(t, 3000.0, chart.ValueOf(1))
	assert.Equal(t, 2600.0, chart.ValueOf(2))
	assert.Equal(t, 350.0, chart.ValueOf(55))
	assert.Equal(t, 27.4, chart.ValueOf(160))
	assert.InDelta(t, 27.0, chart.ValueOf(161), 1e-9)
	assert.Equal(t, 1.0, chart.ValueOf(10_000))
	assert.Zero(t, chart.ValueOf(0))

	prev := chart.ValueOf(1)
	for overall := 2; overall <= 300; overall++ {
		v := chart.ValueOf(overall)
		assert.LessOrEqual(t, v, prev, "overall %d", overall)
		prev = v
	}
}

func TestValueChartFloorAppliesInsideTable(t *testing.T) {
	chart := NewValueChart(config.ValueChartConfig{Values: []float64{10, 5, 0.5}, TailStep: 1, Floor: 1})

	assert.Equal(t, 1.0, chart.ValueOf(3))
	assert.Equal(t, 5.0, chart.ValueOf(2))
	assert.Equal(t, 1.0, chart.ValueOf(4))
}

func TestRelativeDifference(t *testing.T) {
	assert.InDelta(t, 0.1333, RelativeDifference(3000, 2600), 1e-4)
	assert.InDelta(t, 0.8833, RelativeDifference(350, 3000), 1e-4)
	assert.Zero(t, RelativeDifference(0, 0))
}
