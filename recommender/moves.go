package recommender

import "github.com/pvpokemon/pvpokemon/pokedex"

// BestMove returns the move with the highest power among moves that have
// power metadata. Ties keep the first one seen. If no move has power
// metadata, the first move is returned. Returns nil for no moves.
func BestMove(moves []pokedex.Move) pokedex.Move {
	var best pokedex.Move
	var bestPower float64

	for _, move := range moves {
		power, ok := move.MovePower()
		if !ok {
			continue
		}
		if best == nil || power > bestPower {
			best, bestPower = move, power
		}
	}

	if best == nil && len(moves) > 0 {
		return moves[0]
	}
	return best
}
