package projections

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/sirupsen/logrus"

	"github.com/pvpokemon/pvpokemon/db_store"
	"github.com/pvpokemon/pvpokemon/events"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

type BoxSnapshot struct {
	UserId string              `json:"user_id"`
	Box    []db_store.BoxEntry `json:"box"`
}

// BoxSnapshotProjection keeps a box_<user>.json file per user up to date
// with the box in the latest Box.* event.
type BoxSnapshotProjection struct {
	logger *logrus.Logger
	dir    string
}

// SnapshotPath returns where the snapshot for 'userId' is written.
// Characters that aren't safe in a filename are replaced with '_'.
func (proj *BoxSnapshotProjection) SnapshotPath(userId string) string {
	return filepath.Join(proj.dir, "box_"+unsafeFilenameChars.ReplaceAllString(userId, "_")+".json")
}

func (proj *BoxSnapshotProjection) Register(bus *events.Bus) {
	for _, eventType := range []string{events.BOX_ENTRY_ADDED, events.BOX_ENTRY_UPDATED, events.BOX_ENTRY_REMOVED} {
		bus.Subscribe(eventType, "box-snapshots", proj.HandleEvent)
	}
}

func (proj *BoxSnapshotProjection) HandleEvent(event events.Event) error {
	payload, ok := event.Payload.(*events.BoxChanged)
	if !ok {
		return fmt.Errorf("unexpected payload type %T", event.Payload)
	}

	box := payload.Box
	if box == nil {
		box = []db_store.BoxEntry{}
	}

	if err := proj.writeSnapshot(BoxSnapshot{UserId: payload.UserId, Box: box}); err != nil {
		return fmt.Errorf("failed to write snapshot for user '%s': %w", payload.UserId, err)
	}

	proj.logger.Debugf("PROJECTIONS: wrote box snapshot after %s", payload)
	return nil
}

func (proj *BoxSnapshotProjection) writeSnapshot(snapshot BoxSnapshot) error {
	path := proj.SnapshotPath(snapshot.UserId)

	f, err := os.CreateTemp(proj.dir, filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	err = encoder.Encode(snapshot)
	if err != nil {
		if unlinkErr := os.Remove(f.Name()); unlinkErr != nil {
			proj.logger.Warnf("PROJECTIONS: failed to remove tmpfile '%s': %v", f.Name(), unlinkErr)
		}
		return err
	}

	err = os.Rename(f.Name(), path)
	if err != nil {
		return fmt.Errorf("failed to rename tmp snapshot file: %s -> %s: %v", f.Name(), path, err)
	}

	return nil
}

// LoadSnapshot reads back a user's last written snapshot.
func (proj *BoxSnapshotProjection) LoadSnapshot(userId string) (*BoxSnapshot, error) {
	data, err := os.ReadFile(proj.SnapshotPath(userId))
	if err != nil {
		return nil, err
	}

	var snapshot BoxSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, err
	}

	return &snapshot, nil
}

// NewBoxSnapshotProjection creates 'dir' if needed.
func NewBoxSnapshotProjection(logger *logrus.Logger, dir string) (*BoxSnapshotProjection, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create read models dir '%s': %w", dir, err)
	}
	return &BoxSnapshotProjection{
		logger: logger,
		dir:    dir,
	}, nil
}
