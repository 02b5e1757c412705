package events

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gopkg.in/guregu/null.v4"

	"github.com/pvpokemon/pvpokemon/db_store"
)

const (
	BOX_ENTRY_ADDED   = "Box.EntryAdded"
	BOX_ENTRY_UPDATED = "Box.EntryUpdated"
	BOX_ENTRY_REMOVED = "Box.EntryRemoved"
)

type Event struct {
	// Unique per event, so receivers can drop redeliveries.
	Id        string `json:"event_id"`
	Type      string `json:"event_type"`
	Timestamp int64  `json:"timestamp"`
	Payload   any    `json:"payload"`
}

func NewEvent(eventType string, payload any) Event {
	return Event{
		Id:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().Unix(),
		Payload:   payload,
	}
}

// BoxChanged is the payload of all of the Box.* events.
type BoxChanged struct {
	UserId string `json:"user_id"`
	// "add", "update", or "remove"
	Action        string              `json:"action"`
	Slot          null.Int            `json:"slot"`
	EntrySnapshot *db_store.BoxEntry  `json:"entry_snapshot,omitempty"`
	Removed       *db_store.BoxEntry  `json:"removed,omitempty"`
	Box           []db_store.BoxEntry `json:"box"`
}

func (bc *BoxChanged) String() string {
	if bc.Slot.Valid {
		return fmt.Sprintf("%s[user=%s,slot=%d,size=%d]", bc.Action, bc.UserId, bc.Slot.Int64, len(bc.Box))
	}
	return fmt.Sprintf("%s[user=%s,size=%d]", bc.Action, bc.UserId, len(bc.Box))
}

func NewBoxEntryAdded(userId string, box []db_store.BoxEntry) Event {
	payload := &BoxChanged{
		UserId: userId,
		Action: "add",
		Box:    box,
	}
	if len(box) > 0 {
		payload.EntrySnapshot = &box[len(box)-1]
	}
	return NewEvent(BOX_ENTRY_ADDED, payload)
}

func NewBoxEntryUpdated(userId string, slot int, box []db_store.BoxEntry) Event {
	return NewEvent(BOX_ENTRY_UPDATED, &BoxChanged{
		UserId: userId,
		Action: "update",
		Slot:   null.IntFrom(int64(slot)),
		Box:    box,
	})
}

func NewBoxEntryRemoved(userId string, slot int, removed db_store.BoxEntry, box []db_store.BoxEntry) Event {
	return NewEvent(BOX_ENTRY_REMOVED, &BoxChanged{
		UserId:  userId,
		Action:  "remove",
		Slot:    null.IntFrom(int64(slot)),
		Removed: &removed,
		Box:     box,
	})
}
