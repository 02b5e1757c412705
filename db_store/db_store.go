package db_store

import "context"

// BoxStore persists users' boxes. A slot is the 0-based position of an
// entry in insertion order. Methods that change a box return the box as it
// is after the change.
type BoxStore interface {
	GetBox(ctx context.Context, userId string) ([]BoxEntry, error)
	AddEntry(ctx context.Context, userId string, entry BoxEntry) ([]BoxEntry, error)
	UpdateEntry(ctx context.Context, userId string, slot int, entry BoxEntry) ([]BoxEntry, error)
	RemoveEntry(ctx context.Context, userId string, slot int) (BoxEntry, []BoxEntry, error)
}
