package type_chart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultChart(t *testing.T) {
	chart := Default()

	require.Len(t, chart.Types(), 18)

	assert.Equal(t, SUPER_EFFECTIVE, chart.Multiplier("WATER", "ROCK"))
	assert.Equal(t, NOT_VERY_EFFECTIVE, chart.Multiplier("FIRE", "WATER"))
	assert.Equal(t, NO_EFFECT, chart.Multiplier("GROUND", "FLYING"))
	assert.Equal(t, NOT_VERY_EFFECTIVE, chart.Multiplier("NORMAL", "ROCK"))
	assert.Equal(t, NEUTRAL, chart.Multiplier("WATER", "NORMAL"))
}

func TestMultiplierUnknownTypes(t *testing.T) {
	chart := Default()

	assert.Equal(t, NEUTRAL, chart.Multiplier("SHADOW", "ROCK"))
	assert.Equal(t, NEUTRAL, chart.Multiplier("ROCK", "SHADOW"))
	assert.Equal(t, NEUTRAL, Chart(nil).Multiplier("WATER", "ROCK"))
}

func TestDefensiveMultiplier(t *testing.T) {
	chart := Default()

	// GRASS/POISON takes 2x from FIRE, neutral from the POISON half.
	assert.Equal(t, float64(2), chart.DefensiveMultiplier("FIRE", []string{"GRASS", "POISON"}))
	// ICE vs GRASS/FLYING is 4x.
	assert.Equal(t, float64(4), chart.DefensiveMultiplier("ICE", []string{"GRASS", "FLYING"}))
	// immunity wins.
	assert.Equal(t, float64(0), chart.DefensiveMultiplier("ELECTRIC", []string{"WATER", "GROUND"}))
	// no types defends as NORMAL.
	assert.Equal(t, float64(2), chart.DefensiveMultiplier("FIGHTING", nil))
	assert.Equal(t, float64(0), chart.DefensiveMultiplier("GHOST", []string{}))
}

func TestBestMultiplier(t *testing.T) {
	chart := Default()

	assert.Equal(t, float64(2), chart.BestMultiplier([]string{"NORMAL", "WATER"}, "ROCK"))
	assert.Equal(t, float64(0.5), chart.BestMultiplier([]string{"NORMAL"}, "ROCK"))
	assert.Equal(t, NEUTRAL, chart.BestMultiplier(nil, "ROCK"))
}

func TestDefaultReturnsCopy(t *testing.T) {
	chart := Default()
	chart["WATER"]["ROCK"] = 100

	assert.Equal(t, SUPER_EFFECTIVE, Default().Multiplier("WATER", "ROCK"))
}
