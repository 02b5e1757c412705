package pokedex

import (
	"encoding/json"
	"fmt"

	"gopkg.in/guregu/null.v4"
)

type Creature struct {
	Id          int         `json:"poke_id"`
	Name        null.String `json:"name"`
	Types       []string    `json:"types"`
	QuickMoves  []Move      `json:"quick_moves"`
	ChargeMoves []Move      `json:"charge_moves"`
	Sprites     []string    `json:"sprites"`
}

func (creature *Creature) String() string {
	if creature.Name.Valid {
		return fmt.Sprintf("%s(#%d)", creature.Name.String, creature.Id)
	}
	return fmt.Sprintf("#%d", creature.Id)
}

// FirstSprite returns the first known sprite, if any.
func (creature *Creature) FirstSprite() null.String {
	if len(creature.Sprites) == 0 {
		return null.String{}
	}
	return null.StringFrom(creature.Sprites[0])
}

// Pokedex is the registry of creatures by id. It is filled once by the
// catalog loader and is read only afterwards, so it may be shared between
// goroutines without locking. The *Creature values handed out must not be
// modified.
//
// All methods work on a nil *Pokedex, which behaves as an empty one.
type Pokedex struct {
	creatures map[int]*Creature
	// ids in order of first insertion
	order []int
	raw   json.RawMessage
}

// add stores a creature, replacing any creature with the same id. A replaced
// creature keeps its original position in All().
func (dex *Pokedex) add(creature *Creature) {
	if _, ok := dex.creatures[creature.Id]; !ok {
		dex.order = append(dex.order, creature.Id)
	}
	dex.creatures[creature.Id] = creature
}

// Get returns the creature by id. Returns nil if it is unknown.
func (dex *Pokedex) Get(id int) *Creature {
	if dex == nil {
		return nil
	}
	return dex.creatures[id]
}

// All returns every creature in the order they were first loaded.
func (dex *Pokedex) All() []*Creature {
	if dex == nil {
		return nil
	}
	creatures := make([]*Creature, len(dex.order))
	for idx, id := range dex.order {
		creatures[idx] = dex.creatures[id]
	}
	return creatures
}

func (dex *Pokedex) Len() int {
	if dex == nil {
		return 0
	}
	return len(dex.creatures)
}

// Raw returns the document the Pokedex was loaded from, verbatim. Returns
// nil if nothing was loaded.
func (dex *Pokedex) Raw() json.RawMessage {
	if dex == nil {
		return nil
	}
	return dex.raw
}

func NewPokedex() *Pokedex {
	return &Pokedex{
		creatures: make(map[int]*Creature),
	}
}
