package recommender

import (
	"gopkg.in/guregu/null.v4"

	"github.com/pvpokemon/pvpokemon/pokedex"
)

// Candidate is a creature that may be picked for a team. Sprite is an
// optional hint (such as the sprite of a box entry) that wins over the
// creature's own sprites.
type Candidate struct {
	Creature *pokedex.Creature
	Sprite   null.String
}

type ScoredCandidate struct {
	Candidate

	// 1-based position after ranking.
	Rank  int
	Score float64
}

type ScoredCandidates []ScoredCandidate

func (sc ScoredCandidates) Len() int {
	return len(sc)
}

func (sc ScoredCandidates) Swap(i, j int) {
	sc[i], sc[j] = sc[j], sc[i]
}

// sort by Score DESC. Use with sort.Stable so equal scores keep pool order.
func (sc ScoredCandidates) Less(i, j int) bool {
	return sc[i].Score > sc[j].Score
}

func (sc ScoredCandidates) setRanks() {
	for idx := range sc {
		sc[idx].Rank = idx + 1
	}
}
