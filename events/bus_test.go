package events

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	logrus_test "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pvpokemon/pvpokemon/db_store"
)

func TestBusOrderAndIsolation(t *testing.T) {
	logger, hook := logrus_test.NewNullLogger()
	bus := NewBus(logger)

	var calls []string

	bus.Subscribe(BOX_ENTRY_ADDED, "first", func(Event) error {
		calls = append(calls, "first")
		return errors.New("boom")
	})
	bus.Subscribe(BOX_ENTRY_ADDED, "second", func(Event) error {
		calls = append(calls, "second")
		panic("oops")
	})
	bus.Subscribe(BOX_ENTRY_ADDED, "third", func(Event) error {
		calls = append(calls, "third")
		return nil
	})
	bus.Subscribe(BOX_ENTRY_REMOVED, "other", func(Event) error {
		calls = append(calls, "other")
		return nil
	})

	bus.Publish(NewBoxEntryAdded("ash", nil))

	assert.Equal(t, []string{"first", "second", "third"}, calls)
	require.Len(t, hook.AllEntries(), 2)
	assert.Contains(t, hook.AllEntries()[0].Message, "handler 'first' failed: boom")
	assert.Contains(t, hook.AllEntries()[1].Message, "handler 'second' failed: panic: oops")
}

func TestBusNoSubscribers(t *testing.T) {
	logger, hook := logrus_test.NewNullLogger()
	bus := NewBus(logger)

	bus.Publish(Event{Type: "Unknown"})
	assert.Empty(t, hook.AllEntries())
}

func TestBoxEvents(t *testing.T) {
	box := []db_store.BoxEntry{{Sprite: "a.png", CP: 1}, {Sprite: "b.png", CP: 2}}

	added := NewBoxEntryAdded("ash", box)
	assert.Equal(t, BOX_ENTRY_ADDED, added.Type)
	payload := added.Payload.(*BoxChanged)
	require.NotNil(t, payload.EntrySnapshot)
	assert.Equal(t, "b.png", payload.EntrySnapshot.Sprite)
	assert.False(t, payload.Slot.Valid)
	assert.Equal(t, "add[user=ash,size=2]", payload.String())

	assert.Nil(t, NewBoxEntryAdded("ash", nil).Payload.(*BoxChanged).EntrySnapshot)

	removed := NewBoxEntryRemoved("ash", 1, db_store.BoxEntry{Sprite: "c.png"}, box)
	assert.Equal(t, BOX_ENTRY_REMOVED, removed.Type)
	assert.Equal(t, "remove[user=ash,slot=1,size=2]", removed.Payload.(*BoxChanged).String())

	updated := NewBoxEntryUpdated("ash", 0, []db_store.BoxEntry{})
	_, err := uuid.Parse(updated.Id)
	require.NoError(t, err)
	assert.NotEqual(t, updated.Id, removed.Id)
	assert.NotZero(t, updated.Timestamp)

	updated.Id = "id-1"
	updated.Timestamp = 1700000000

	data, err := json.Marshal(updated)
	require.NoError(t, err)
	assert.JSONEq(t, `{"event_id": "id-1", "event_type": "Box.EntryUpdated", "timestamp": 1700000000, "payload": {"user_id": "ash", "action": "update", "slot": 0, "box": []}}`, string(data))
}
