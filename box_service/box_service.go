package box_service

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/guregu/null.v4"

	"github.com/pvpokemon/pvpokemon/db_store"
	"github.com/pvpokemon/pvpokemon/events"
	"github.com/pvpokemon/pvpokemon/pokedex"
	"github.com/pvpokemon/pvpokemon/recommender"
)

const (
	MAX_CHARGE_MOVES = 2
	MAX_USER_ID_LEN  = 64
)

type Publisher interface {
	Publish(events.Event)
}

// BoxService applies the rules for changing a box on top of a BoxStore
// and publishes a Box.* event after every change.
type BoxService struct {
	logger    *logrus.Logger
	store     db_store.BoxStore
	assetsDir string
	dex       *pokedex.Pokedex
	publisher Publisher
}

func isUrl(sprite string) bool {
	return strings.HasPrefix(sprite, "http://") || strings.HasPrefix(sprite, "https://")
}

func (svc *BoxService) validateUserId(userId string) error {
	if userId == "" {
		return validationErrorf("user_id is required")
	}
	if len(userId) > MAX_USER_ID_LEN {
		return validationErrorf("user_id is too long (max %d)", MAX_USER_ID_LEN)
	}
	return nil
}

func (svc *BoxService) validateSprite(sprite string) error {
	if sprite == "" {
		return validationErrorf("sprite is required")
	}
	if isUrl(sprite) {
		return nil
	}
	if !filepath.IsLocal(sprite) {
		return ErrSpriteNotFound
	}
	fi, err := os.Stat(filepath.Join(svc.assetsDir, sprite))
	if err != nil || !fi.Mode().IsRegular() {
		return ErrSpriteNotFound
	}
	return nil
}

// validateMoves checks the moves against the creature the sprite belongs
// to. Entries whose creature isn't in the Pokedex only get the charge move
// count checked.
func (svc *BoxService) validateMoves(req *EntryRequest) error {
	if len(req.ChargeMoves) > MAX_CHARGE_MOVES {
		return validationErrorf("At most %d charge moves may be selected", MAX_CHARGE_MOVES)
	}

	pokeId, ok := pokedex.ExtractIdFromFilename(req.Sprite)
	if !ok {
		return nil
	}

	creature := svc.dex.Get(pokeId)
	if creature == nil {
		return nil
	}

	if len(creature.QuickMoves) > 0 {
		if !req.QuickMove.Valid {
			return validationErrorf("A quick move must be provided for poke_id %d", pokeId)
		}
		if !containsName(pokedex.MoveNames(creature.QuickMoves), req.QuickMove.String) {
			return validationErrorf("quick_move '%s' is not valid for poke_id %d", req.QuickMove.String, pokeId)
		}
	}

	if len(creature.ChargeMoves) > 0 {
		if len(req.ChargeMoves) < 1 {
			return validationErrorf("At least one charge move must be provided for poke_id %d", pokeId)
		}
		allowed := pokedex.MoveNames(creature.ChargeMoves)
		for _, chargeMove := range req.ChargeMoves {
			if !containsName(allowed, chargeMove) {
				return validationErrorf("charge_move '%s' is not valid for poke_id %d", chargeMove, pokeId)
			}
		}
	}

	return nil
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// validate checks 'req' and returns the entry to store.
func (svc *BoxService) validate(userId string, req EntryRequest) (db_store.BoxEntry, error) {
	if err := svc.validateUserId(userId); err != nil {
		return db_store.BoxEntry{}, err
	}

	if !req.CP.Valid {
		return db_store.BoxEntry{}, validationErrorf("CP is required")
	}
	if req.CP.Int64 < 0 {
		return db_store.BoxEntry{}, validationErrorf("Invalid cp value")
	}

	if err := svc.validateSprite(req.Sprite); err != nil {
		return db_store.BoxEntry{}, err
	}

	if err := svc.validateMoves(&req); err != nil {
		return db_store.BoxEntry{}, err
	}

	chargeMoves := req.ChargeMoves
	if chargeMoves == nil {
		chargeMoves = []string{}
	}

	return db_store.BoxEntry{
		Name:        req.Name,
		Sprite:      req.Sprite,
		CP:          req.CP.Int64,
		QuickMove:   req.QuickMove,
		ChargeMoves: chargeMoves,
	}, nil
}

func (svc *BoxService) GetBox(ctx context.Context, userId string) ([]db_store.BoxEntry, error) {
	if err := svc.validateUserId(userId); err != nil {
		return nil, err
	}
	return svc.store.GetBox(ctx, userId)
}

func (svc *BoxService) AddEntry(ctx context.Context, userId string, req EntryRequest) ([]db_store.BoxEntry, error) {
	entry, err := svc.validate(userId, req)
	if err != nil {
		return nil, err
	}

	box, err := svc.store.AddEntry(ctx, userId, entry)
	if err != nil {
		return nil, err
	}

	svc.logger.Debugf("BOX[%s]: added '%s' (cp %d), now %d entries", userId, entry.Sprite, entry.CP, len(box))
	svc.publisher.Publish(events.NewBoxEntryAdded(userId, box))

	return box, nil
}

func (svc *BoxService) UpdateEntry(ctx context.Context, userId string, slot int, req EntryRequest) ([]db_store.BoxEntry, error) {
	entry, err := svc.validate(userId, req)
	if err != nil {
		return nil, err
	}

	box, err := svc.store.UpdateEntry(ctx, userId, slot, entry)
	if err != nil {
		return nil, err
	}

	svc.logger.Debugf("BOX[%s]: updated slot %d to '%s' (cp %d)", userId, slot, entry.Sprite, entry.CP)
	svc.publisher.Publish(events.NewBoxEntryUpdated(userId, slot, box))

	return box, nil
}

func (svc *BoxService) RemoveEntry(ctx context.Context, userId string, slot int) (db_store.BoxEntry, []db_store.BoxEntry, error) {
	if err := svc.validateUserId(userId); err != nil {
		return db_store.BoxEntry{}, nil, err
	}

	removed, box, err := svc.store.RemoveEntry(ctx, userId, slot)
	if err != nil {
		return db_store.BoxEntry{}, nil, err
	}

	svc.logger.Debugf("BOX[%s]: removed slot %d ('%s'), now %d entries", userId, slot, removed.Sprite, len(box))
	svc.publisher.Publish(events.NewBoxEntryRemoved(userId, slot, removed, box))

	return removed, box, nil
}

// Candidates turns a user's box into a pool for the recommender. Entries
// are matched to creatures by the id in their sprite filename, and the
// sprite is kept as the candidate's sprite hint. Entries that don't match
// a creature are skipped.
func (svc *BoxService) Candidates(ctx context.Context, userId string) ([]recommender.Candidate, error) {
	box, err := svc.GetBox(ctx, userId)
	if err != nil {
		return nil, err
	}

	pool := make([]recommender.Candidate, 0, len(box))
	skipped := 0

	for _, entry := range box {
		pokeId, ok := pokedex.ExtractIdFromFilename(entry.Sprite)
		if !ok {
			skipped++
			continue
		}
		creature := svc.dex.Get(pokeId)
		if creature == nil {
			skipped++
			continue
		}
		pool = append(pool, recommender.Candidate{
			Creature: creature,
			Sprite:   null.NewString(entry.Sprite, entry.Sprite != ""),
		})
	}

	if skipped > 0 {
		svc.logger.Debugf("BOX[%s]: %d of %d entries don't match a known creature", userId, skipped, len(box))
	}

	return pool, nil
}

func NewBoxService(logger *logrus.Logger, store db_store.BoxStore, dex *pokedex.Pokedex, assetsDir string, publisher Publisher) *BoxService {
	return &BoxService{
		logger:    logger,
		store:     store,
		assetsDir: assetsDir,
		dex:       dex,
		publisher: publisher,
	}
}
