package type_chart

import "sort"

const (
	SUPER_EFFECTIVE     = float64(2)
	NOT_VERY_EFFECTIVE  = float64(0.5)
	NO_EFFECT           = float64(0)
	NEUTRAL             = float64(1)
	DEFAULT_MEMBER_TYPE = "NORMAL"
)

// Chart maps attacker type -> defender type -> damage multiplier. Only
// non-neutral pairs need to be present. A Chart is never modified after
// construction, so it is safe to share between goroutines.
type Chart map[string]map[string]float64

// Multiplier returns the multiplier for an attack of type 'attacker' against
// a single defender type. Unknown pairs are neutral.
func (chart Chart) Multiplier(attacker, defender string) float64 {
	if row, ok := chart[attacker]; ok {
		if mult, ok := row[defender]; ok {
			return mult
		}
	}
	return NEUTRAL
}

// DefensiveMultiplier is the damage multiplier an attack of type 'attacker'
// gets against something with all of 'defenderTypes'. Something with no types
// defends as DEFAULT_MEMBER_TYPE.
func (chart Chart) DefensiveMultiplier(attacker string, defenderTypes []string) float64 {
	if len(defenderTypes) == 0 {
		return chart.Multiplier(attacker, DEFAULT_MEMBER_TYPE)
	}
	mult := NEUTRAL
	for _, defender := range defenderTypes {
		mult *= chart.Multiplier(attacker, defender)
	}
	return mult
}

// BestMultiplier returns the highest multiplier any of 'attackerTypes' gets
// against 'defender'. No attacker types means neutral.
func (chart Chart) BestMultiplier(attackerTypes []string, defender string) float64 {
	if len(attackerTypes) == 0 {
		return NEUTRAL
	}
	best := chart.Multiplier(attackerTypes[0], defender)
	for _, attacker := range attackerTypes[1:] {
		if mult := chart.Multiplier(attacker, defender); mult > best {
			best = mult
		}
	}
	return best
}

// Types returns every type mentioned in the chart, sorted.
func (chart Chart) Types() []string {
	seen := make(map[string]struct{})
	for attacker, row := range chart {
		seen[attacker] = struct{}{}
		for defender := range row {
			seen[defender] = struct{}{}
		}
	}
	types := make([]string, 0, len(seen))
	for t := range seen {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

type matchups struct {
	superEffective   []string
	notVeryEffective []string
	noEffect         []string
}

var defaultMatchups = map[string]matchups{
	"NORMAL": {
		notVeryEffective: []string{"ROCK", "STEEL"},
		noEffect:         []string{"GHOST"},
	},
	"FIRE": {
		superEffective:   []string{"GRASS", "ICE", "BUG", "STEEL"},
		notVeryEffective: []string{"FIRE", "WATER", "ROCK", "DRAGON"},
	},
	"WATER": {
		superEffective:   []string{"FIRE", "GROUND", "ROCK"},
		notVeryEffective: []string{"WATER", "GRASS", "DRAGON"},
	},
	"ELECTRIC": {
		superEffective:   []string{"WATER", "FLYING"},
		notVeryEffective: []string{"ELECTRIC", "GRASS", "DRAGON"},
		noEffect:         []string{"GROUND"},
	},
	"GRASS": {
		superEffective:   []string{"WATER", "GROUND", "ROCK"},
		notVeryEffective: []string{"FIRE", "GRASS", "POISON", "FLYING", "BUG", "DRAGON", "STEEL"},
	},
	"ICE": {
		superEffective:   []string{"GRASS", "GROUND", "FLYING", "DRAGON"},
		notVeryEffective: []string{"FIRE", "WATER", "ICE", "STEEL"},
	},
	"FIGHTING": {
		superEffective:   []string{"NORMAL", "ICE", "ROCK", "DARK", "STEEL"},
		notVeryEffective: []string{"POISON", "FLYING", "PSYCHIC", "BUG", "FAIRY"},
		noEffect:         []string{"GHOST"},
	},
	"POISON": {
		superEffective:   []string{"GRASS", "FAIRY"},
		notVeryEffective: []string{"POISON", "GROUND", "ROCK", "GHOST"},
		noEffect:         []string{"STEEL"},
	},
	"GROUND": {
		superEffective:   []string{"FIRE", "ELECTRIC", "POISON", "ROCK", "STEEL"},
		notVeryEffective: []string{"GRASS", "BUG"},
		noEffect:         []string{"FLYING"},
	},
	"FLYING": {
		superEffective:   []string{"GRASS", "FIGHTING", "BUG"},
		notVeryEffective: []string{"ELECTRIC", "ROCK", "STEEL"},
	},
	"PSYCHIC": {
		superEffective:   []string{"FIGHTING", "POISON"},
		notVeryEffective: []string{"PSYCHIC", "STEEL"},
		noEffect:         []string{"DARK"},
	},
	"BUG": {
		superEffective:   []string{"GRASS", "PSYCHIC", "DARK"},
		notVeryEffective: []string{"FIRE", "FIGHTING", "POISON", "FLYING", "GHOST", "STEEL", "FAIRY"},
	},
	"ROCK": {
		superEffective:   []string{"FIRE", "ICE", "FLYING", "BUG"},
		notVeryEffective: []string{"FIGHTING", "GROUND", "STEEL"},
	},
	"GHOST": {
		superEffective:   []string{"PSYCHIC", "GHOST"},
		notVeryEffective: []string{"DARK"},
		noEffect:         []string{"NORMAL"},
	},
	"DRAGON": {
		superEffective:   []string{"DRAGON"},
		notVeryEffective: []string{"STEEL"},
		noEffect:         []string{"FAIRY"},
	},
	"DARK": {
		superEffective:   []string{"PSYCHIC", "GHOST"},
		notVeryEffective: []string{"FIGHTING", "DARK", "FAIRY"},
	},
	"STEEL": {
		superEffective:   []string{"ICE", "ROCK", "FAIRY"},
		notVeryEffective: []string{"FIRE", "WATER", "ELECTRIC", "STEEL"},
	},
	"FAIRY": {
		superEffective:   []string{"FIGHTING", "DRAGON", "DARK"},
		notVeryEffective: []string{"FIRE", "POISON", "STEEL"},
	},
}

// Default returns a new copy of the standard 18 type chart.
func Default() Chart {
	chart := make(Chart, len(defaultMatchups))
	for attacker, m := range defaultMatchups {
		row := make(map[string]float64)
		for _, defender := range m.superEffective {
			row[defender] = SUPER_EFFECTIVE
		}
		for _, defender := range m.notVeryEffective {
			row[defender] = NOT_VERY_EFFECTIVE
		}
		for _, defender := range m.noEffect {
			row[defender] = NO_EFFECT
		}
		chart[attacker] = row
	}
	return chart
}
