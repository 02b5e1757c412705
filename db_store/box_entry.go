package db_store

import (
	"encoding/json"
	"errors"

	"gopkg.in/guregu/null.v4"
)

var ErrInvalidSlot = errors.New("invalid slot index")

// BoxEntry is one caught creature in a user's box.
type BoxEntry struct {
	// optional nickname
	Name        null.String `json:"name"`
	Sprite      string      `json:"sprite"`
	CP          int64       `json:"cp"`
	QuickMove   null.String `json:"quick_move"`
	ChargeMoves []string    `json:"charge_moves"`
}

// ChargeMove returns the first charge move, if any. Older clients only
// know about a single charge move.
func (entry BoxEntry) ChargeMove() null.String {
	if len(entry.ChargeMoves) == 0 {
		return null.String{}
	}
	return null.StringFrom(entry.ChargeMoves[0])
}

func (entry BoxEntry) MarshalJSON() ([]byte, error) {
	type plainEntry BoxEntry

	plain := plainEntry(entry)
	if plain.ChargeMoves == nil {
		plain.ChargeMoves = []string{}
	}

	return json.Marshal(struct {
		plainEntry
		ChargeMove null.String `json:"charge_move"`
	}{plain, entry.ChargeMove()})
}

func (entry BoxEntry) clone() BoxEntry {
	entry.ChargeMoves = append([]string{}, entry.ChargeMoves...)
	return entry
}

func cloneEntries(entries []BoxEntry) []BoxEntry {
	cloned := make([]BoxEntry, len(entries))
	for idx, entry := range entries {
		cloned[idx] = entry.clone()
	}
	return cloned
}
