package recommender

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pvpokemon/pvpokemon/pokedex"
	"github.com/pvpokemon/pvpokemon/type_chart"
)

func creature(id int, types ...string) *pokedex.Creature {
	return &pokedex.Creature{
		Id:          id,
		Types:       types,
		QuickMoves:  []pokedex.Move{},
		ChargeMoves: []pokedex.Move{},
		Sprites:     []string{},
	}
}

func TestScoreWithoutOpponents(t *testing.T) {
	scorer := NewScorer(type_chart.Default())

	// baseline power + 1 type.
	assert.Equal(t, 9.5, scorer.Score(creature(1, "WATER"), nil))
	// baseline power + 2 types.
	assert.Equal(t, float64(11), scorer.Score(creature(1, "GRASS", "POISON"), nil))
	// baseline power only.
	assert.Equal(t, float64(8), scorer.Score(creature(1), nil))
	// duplicate types count once.
	assert.Equal(t, 9.5, scorer.Score(creature(1, "FIRE", "FIRE"), nil))
}

func TestScoreAveragePower(t *testing.T) {
	scorer := NewScorer(type_chart.Default())

	c := creature(7, "WATER")
	c.QuickMoves = []pokedex.Move{detailed("Tackle", 12), pokedex.NamedMove("Bubble")}
	c.ChargeMoves = []pokedex.Move{detailed("Hydro Pump", 90)}

	sb := scorer.Breakdown(c, nil)
	assert.Equal(t, float64(51), sb.AveragePower)
	assert.Equal(t, 1.5, sb.TypeCount)
	assert.Zero(t, sb.NaiveDiversity)
	assert.Zero(t, sb.Effectiveness)
	assert.Equal(t, 52.5, scorer.Score(c, nil))
}

func TestScoreAgainstOpponents(t *testing.T) {
	chart := type_chart.Chart{
		"WATER": {"ROCK": 2},
	}
	scorer := NewScorer(chart)

	water := creature(7, "WATER")
	normal := creature(16, "NORMAL")

	// 8 + 1.5 + 2 + 25*(2-1)
	assert.Equal(t, 36.5, scorer.Score(water, []string{"ROCK"}))
	// 8 + 1.5 + 2 + 25*(1-1)
	assert.Equal(t, 11.5, scorer.Score(normal, []string{"ROCK"}))
	assert.Greater(t, scorer.Score(water, []string{"ROCK"}), scorer.Score(normal, []string{"ROCK"}))

	// shared types don't get the naive diversity bonus.
	rock := creature(74, "ROCK", "GROUND")
	sb := scorer.Breakdown(rock, []string{"ROCK"})
	assert.Equal(t, 2.0, sb.NaiveDiversity)
	assert.Zero(t, sb.Effectiveness)
}

func TestScoreDefaultChartPenalizesResisted(t *testing.T) {
	scorer := NewScorer(type_chart.Default())

	// NORMAL is resisted by ROCK: 8 + 1.5 + 2 + 25*(0.5-1)
	assert.Equal(t, float64(-1), scorer.Score(creature(16, "NORMAL"), []string{"ROCK"}))
	// best of the creature's types is used, per opponent type:
	// GRASS vs WATER 2, GRASS vs GROUND 2 -> 25*(1+1)
	sb := scorer.Breakdown(creature(1, "GRASS", "POISON"), []string{"WATER", "GROUND"})
	assert.Equal(t, float64(50), sb.Effectiveness)
	assert.Equal(t, float64(4), sb.NaiveDiversity)
}

func TestScoreIsDeterministic(t *testing.T) {
	scorer := NewScorer(type_chart.Default())

	c := creature(6, "FIRE", "FLYING")
	c.QuickMoves = []pokedex.Move{detailed("Ember", 10), detailed("Wing Attack", 8)}
	c.ChargeMoves = []pokedex.Move{detailed("Blast Burn", 110), detailed("Dragon Claw", 50)}
	opponents := []string{"GRASS", "BUG", "ICE"}

	first := scorer.Score(c, opponents)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, scorer.Score(c, opponents))
	}
}

func TestNormalizeOpponentTypes(t *testing.T) {
	assert.Equal(t, []string{"ROCK", "FIRE"}, NormalizeOpponentTypes([]string{"rock", "POKEMON_TYPE_FIRE", " Rock ", ""}))
	assert.Empty(t, NormalizeOpponentTypes(nil))
}
