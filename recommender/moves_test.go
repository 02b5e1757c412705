package recommender

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gopkg.in/guregu/null.v4"

	"github.com/pvpokemon/pvpokemon/pokedex"
)

func detailed(name string, power float64) pokedex.DetailedMove {
	return pokedex.DetailedMove{
		Name:  null.StringFrom(name),
		Power: null.FloatFrom(power),
	}
}

func TestBestMove(t *testing.T) {
	t.Run("highest power wins", func(t *testing.T) {
		moves := []pokedex.Move{detailed("Weak", 5), detailed("Strong", 50), detailed("Middle", 20)}
		assert.Equal(t, "Strong", BestMove(moves).MoveName())
	})

	t.Run("ties keep the first listed", func(t *testing.T) {
		moves := []pokedex.Move{detailed("First", 30), detailed("Second", 30)}
		assert.Equal(t, "First", BestMove(moves).MoveName())
	})

	t.Run("moves without power are ignored", func(t *testing.T) {
		moves := []pokedex.Move{
			pokedex.NamedMove("Bare"),
			pokedex.DetailedMove{Name: null.StringFrom("No Power")},
			detailed("Zero", 0),
		}
		assert.Equal(t, "Zero", BestMove(moves).MoveName())
	})

	t.Run("falls back to the first entry", func(t *testing.T) {
		moves := []pokedex.Move{pokedex.NamedMove("Bare"), pokedex.DetailedMove{Name: null.StringFrom("No Power")}}
		assert.Equal(t, pokedex.NamedMove("Bare"), BestMove(moves))
	})

	t.Run("no moves", func(t *testing.T) {
		assert.Nil(t, BestMove(nil))
		assert.Nil(t, BestMove([]pokedex.Move{}))
	})
}
