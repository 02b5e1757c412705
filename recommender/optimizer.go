package recommender

import (
	"sort"

	"github.com/pvpokemon/pvpokemon/type_chart"
)

// Team is the result of a team search, along with the terms of its value.
type Team struct {
	Members []ScoredCandidate

	Offense        float64
	DiversityBonus float64
	// average defensive multiplier of the members against the opponent
	// types. 1 is neutral.
	Vulnerability float64
	Penalty       float64
	Value         float64
}

// Optimizer picks the best team from a candidate pool.
type Optimizer struct {
	scorer      *Scorer
	chart       type_chart.Chart
	maxPoolSize int
}

// Rank scores every candidate and returns them best first. Equal scores
// keep their pool order.
func (opt *Optimizer) Rank(pool []Candidate, opponentTypes []string) ScoredCandidates {
	scored := make(ScoredCandidates, 0, len(pool))
	for _, candidate := range pool {
		if candidate.Creature == nil {
			continue
		}
		scored = append(scored, ScoredCandidate{
			Candidate: candidate,
			Score:     opt.scorer.Score(candidate.Creature, opponentTypes),
		})
	}
	sort.Stable(scored)
	scored.setRanks()
	return scored
}

// BestTeam searches every combination of TEAM_SIZE members (or fewer, if the
// pool is smaller) among the best scoring candidates and returns the one
// with the highest value. On equal values the first combination found
// wins. An empty pool results in a Team with no members.
func (opt *Optimizer) BestTeam(pool []Candidate, opponentTypes []string) Team {
	ranked := opt.Rank(pool, opponentTypes)
	if len(ranked) > opt.maxPoolSize {
		ranked = ranked[:opt.maxPoolSize]
	}

	n := len(ranked)
	if n == 0 {
		return Team{}
	}

	teamSize := TEAM_SIZE
	if n < teamSize {
		teamSize = n
	}

	// defensive multipliers depend only on the member, so compute them once.
	defensive := make([][]float64, n)
	for idx, candidate := range ranked {
		mults := make([]float64, len(opponentTypes))
		for oIdx, opponentType := range opponentTypes {
			mults[oIdx] = opt.chart.DefensiveMultiplier(opponentType, candidate.Creature.Types)
		}
		defensive[idx] = mults
	}

	var best Team
	found := false

	forEachCombination(n, teamSize, func(indexes []int) {
		team := opt.evaluate(ranked, defensive, indexes, len(opponentTypes))
		if !found || team.Value > best.Value {
			best = team
			found = true
		}
	})

	return best
}

func (opt *Optimizer) evaluate(ranked ScoredCandidates, defensive [][]float64, indexes []int, numOpponentTypes int) Team {
	members := make([]ScoredCandidate, len(indexes))
	types := make([]string, 0, 2*len(indexes))

	var offense float64
	for mIdx, idx := range indexes {
		member := ranked[idx]
		members[mIdx] = member
		offense += member.Score
		for _, t := range member.Creature.Types {
			if !containsType(types, t) {
				types = append(types, t)
			}
		}
	}

	vulnerability := type_chart.NEUTRAL
	if numOpponentTypes > 0 {
		var total float64
		for oIdx := 0; oIdx < numOpponentTypes; oIdx++ {
			var sum float64
			for _, idx := range indexes {
				sum += defensive[idx][oIdx]
			}
			total += sum / float64(len(indexes))
		}
		vulnerability = total / float64(numOpponentTypes)
	}

	diversityBonus := TEAM_DIVERSITY_WEIGHT * float64(len(types))
	penalty := (vulnerability - 1) * VULNERABILITY_WEIGHT

	return Team{
		Members:        members,
		Offense:        offense,
		DiversityBonus: diversityBonus,
		Vulnerability:  vulnerability,
		Penalty:        penalty,
		Value:          offense + diversityBonus - penalty,
	}
}

// forEachCombination calls fn with every r-sized combination of [0, n) in
// lexicographic order. The slice is reused between calls.
func forEachCombination(n, r int, fn func([]int)) {
	if r <= 0 || r > n {
		return
	}

	indexes := make([]int, r)
	for i := range indexes {
		indexes[i] = i
	}

	for {
		fn(indexes)

		// find the rightmost index that can still move right.
		i := r - 1
		for i >= 0 && indexes[i] == n-r+i {
			i--
		}
		if i < 0 {
			return
		}
		indexes[i]++
		for j := i + 1; j < r; j++ {
			indexes[j] = indexes[j-1] + 1
		}
	}
}

func NewOptimizer(chart type_chart.Chart, maxPoolSize int) *Optimizer {
	if maxPoolSize <= 0 {
		maxPoolSize = DEFAULT_MAX_POOL_SIZE
	}
	return &Optimizer{
		scorer:      NewScorer(chart),
		chart:       chart,
		maxPoolSize: maxPoolSize,
	}
}
