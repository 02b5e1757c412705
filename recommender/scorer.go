package recommender

import (
	"github.com/pvpokemon/pvpokemon/pokedex"
	"github.com/pvpokemon/pvpokemon/type_chart"
)

// NormalizeOpponentTypes canonicalizes raw opponent type tokens, dropping
// empty ones and duplicates.
func NormalizeOpponentTypes(raw []string) []string {
	return pokedex.NormalizeTypes(raw)
}

// ScoreBreakdown holds the terms that add up to a creature's score.
type ScoreBreakdown struct {
	AveragePower   float64
	TypeCount      float64
	NaiveDiversity float64
	Effectiveness  float64
}

func (sb ScoreBreakdown) Total() float64 {
	return sb.AveragePower + sb.TypeCount + sb.NaiveDiversity + sb.Effectiveness
}

// Scorer computes how strong a single creature is offensively. It holds
// no mutable state.
type Scorer struct {
	chart type_chart.Chart
}

// Score returns the creature's score against 'opponentTypes', which must
// already be canonical and free of duplicates. No opponent types is fine.
func (scorer *Scorer) Score(creature *pokedex.Creature, opponentTypes []string) float64 {
	return scorer.Breakdown(creature, opponentTypes).Total()
}

func (scorer *Scorer) Breakdown(creature *pokedex.Creature, opponentTypes []string) ScoreBreakdown {
	types := distinctTypes(creature.Types)

	var sb ScoreBreakdown

	sb.AveragePower = averageMovePower(creature)
	sb.TypeCount = TYPE_COUNT_WEIGHT * float64(len(types))

	if len(opponentTypes) == 0 {
		return sb
	}

	absent := 0
	for _, t := range types {
		if !containsType(opponentTypes, t) {
			absent++
		}
	}
	sb.NaiveDiversity = NAIVE_DIVERSITY_WEIGHT * float64(absent)

	var effectiveness float64
	for _, opponentType := range opponentTypes {
		effectiveness += scorer.chart.BestMultiplier(types, opponentType) - 1
	}
	sb.Effectiveness = EFFECTIVENESS_WEIGHT * effectiveness

	return sb
}

func averageMovePower(creature *pokedex.Creature) float64 {
	var total float64
	var count int

	for _, moves := range [][]pokedex.Move{creature.QuickMoves, creature.ChargeMoves} {
		for _, move := range moves {
			if power, ok := move.MovePower(); ok {
				total += power
				count++
			}
		}
	}

	if count == 0 {
		return DEFAULT_BASELINE_POWER
	}
	return total / float64(count)
}

func containsType(types []string, t string) bool {
	for _, existing := range types {
		if existing == t {
			return true
		}
	}
	return false
}

func distinctTypes(types []string) []string {
	distinct := make([]string, 0, len(types))
	for _, t := range types {
		if !containsType(distinct, t) {
			distinct = append(distinct, t)
		}
	}
	return distinct
}

func NewScorer(chart type_chart.Chart) *Scorer {
	return &Scorer{chart: chart}
}
