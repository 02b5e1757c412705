package db_store

import (
	"context"
	"sync"
)

var _ BoxStore = (*MemoryBoxStore)(nil)

// MemoryBoxStore keeps boxes in memory. It's used when no boxes_db is
// configured. Nothing survives a restart.
type MemoryBoxStore struct {
	mutex sync.Mutex
	boxes map[string][]BoxEntry
}

func (st *MemoryBoxStore) GetBox(ctx context.Context, userId string) ([]BoxEntry, error) {
	st.mutex.Lock()
	defer st.mutex.Unlock()
	return cloneEntries(st.boxes[userId]), nil
}

func (st *MemoryBoxStore) AddEntry(ctx context.Context, userId string, entry BoxEntry) ([]BoxEntry, error) {
	st.mutex.Lock()
	defer st.mutex.Unlock()

	st.boxes[userId] = append(st.boxes[userId], entry.clone())
	return cloneEntries(st.boxes[userId]), nil
}

func (st *MemoryBoxStore) UpdateEntry(ctx context.Context, userId string, slot int, entry BoxEntry) ([]BoxEntry, error) {
	st.mutex.Lock()
	defer st.mutex.Unlock()

	box := st.boxes[userId]
	if slot < 0 || slot >= len(box) {
		return nil, ErrInvalidSlot
	}

	box[slot] = entry.clone()
	return cloneEntries(box), nil
}

func (st *MemoryBoxStore) RemoveEntry(ctx context.Context, userId string, slot int) (BoxEntry, []BoxEntry, error) {
	st.mutex.Lock()
	defer st.mutex.Unlock()

	box := st.boxes[userId]
	if slot < 0 || slot >= len(box) {
		return BoxEntry{}, nil, ErrInvalidSlot
	}

	removed := box[slot]
	box = append(box[:slot], box[slot+1:]...)
	if len(box) == 0 {
		delete(st.boxes, userId)
	} else {
		st.boxes[userId] = box
	}

	return removed, cloneEntries(box), nil
}

func NewMemoryBoxStore() *MemoryBoxStore {
	return &MemoryBoxStore{
		boxes: make(map[string][]BoxEntry),
	}
}
