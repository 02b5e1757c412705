package pokedex

import (
	"gopkg.in/guregu/null.v4"
)

// Move is either a NamedMove (only a name is known) or a DetailedMove
// (name, type and power, each possibly missing). Source data mixes both
// shapes, sometimes within the same list.
type Move interface {
	MoveName() string
	// MoveType returns the canonical type token, or "" when unknown.
	MoveType() string
	// MovePower returns the power and whether the move carries power
	// metadata at all. Moves without power metadata report 0, false.
	MovePower() (float64, bool)

	isMove()
}

// NamedMove is a bare move name. It encodes to JSON as a string.
type NamedMove string

func (m NamedMove) MoveName() string           { return string(m) }
func (m NamedMove) MoveType() string           { return "" }
func (m NamedMove) MovePower() (float64, bool) { return 0, false }
func (NamedMove) isMove()                      {}

// DetailedMove is a move record. It encodes to JSON as an object.
type DetailedMove struct {
	Name  null.String `json:"name"`
	Type  null.String `json:"type"`
	Power null.Float  `json:"power"`
}

func (m DetailedMove) MoveName() string {
	return m.Name.ValueOrZero()
}

func (m DetailedMove) MoveType() string {
	return m.Type.ValueOrZero()
}

func (m DetailedMove) MovePower() (float64, bool) {
	return m.Power.ValueOrZero(), m.Power.Valid
}

func (DetailedMove) isMove() {}

var (
	_ Move = NamedMove("")
	_ Move = DetailedMove{}
)

// MoveNames returns the name of every move, in order. Detailed moves
// without a name contribute "".
func MoveNames(moves []Move) []string {
	names := make([]string, len(moves))
	for idx, move := range moves {
		names[idx] = move.MoveName()
	}
	return names
}
