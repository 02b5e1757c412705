package pokedex

import (
	"encoding/json"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"gopkg.in/guregu/null.v4"
)

// SAMPLE_KEY is the key holding the record array in object-shaped documents.
const SAMPLE_KEY = "pokedex_sample"

// id keys, canonical first.
var idKeys = []string{"poke_id", "dexNr", "dex", "dex_nr", "id"}

type moveListKeys struct {
	list   string
	legacy string
}

var (
	quickMoveKeys  = moveListKeys{list: "quick_moves", legacy: "quickMoves"}
	chargeMoveKeys = moveListKeys{list: "charge_moves", legacy: "cinematicMoves"}
)

// LoadStats describes what happened during a load.
type LoadStats struct {
	Shape   string
	Records int
	Loaded  int
	// records dropped for having no usable id
	Dropped int
}

// LoadCatalog builds a Pokedex from a parsed document. 'doc' is either an
// array of creature records or an object with a SAMPLE_KEY array of them.
// A document that does not exist (the zero gjson.Result) or has any other
// shape produces an empty Pokedex. Sprites from 'sprites' (may be nil) are
// appended to each creature's own sprite list.
func LoadCatalog(doc gjson.Result, sprites SpriteIndex) *Pokedex {
	dex, _ := loadCatalog(doc, sprites)
	return dex
}

func loadCatalog(doc gjson.Result, sprites SpriteIndex) (*Pokedex, LoadStats) {
	var stats LoadStats

	dex := NewPokedex()
	if !doc.Exists() {
		stats.Shape = "none"
		return dex, stats
	}

	dex.raw = json.RawMessage(doc.Raw)

	var records gjson.Result

	switch {
	case doc.IsArray():
		stats.Shape = "list"
		records = doc
	case doc.IsObject():
		sample := doc.Get(SAMPLE_KEY)
		if !sample.IsArray() {
			stats.Shape = "unknown object"
			return dex, stats
		}
		stats.Shape = SAMPLE_KEY
		records = sample
	default:
		stats.Shape = "unknown"
		return dex, stats
	}

	records.ForEach(func(_, record gjson.Result) bool {
		stats.Records++
		creature, ok := parseCreature(record)
		if !ok {
			stats.Dropped++
			return true
		}
		creature.Sprites = mergeSprites(creature.Sprites, sprites[creature.Id])
		dex.add(creature)
		return true
	})

	stats.Loaded = dex.Len()

	return dex, stats
}

// parseCreature returns false only when the record has no usable id. Every
// other field falls back to its empty value.
func parseCreature(record gjson.Result) (*Creature, bool) {
	if !record.IsObject() {
		return nil, false
	}

	id, ok := parseRecordId(record)
	if !ok {
		return nil, false
	}

	return &Creature{
		Id:          id,
		Name:        parseName(record),
		Types:       parseTypes(record),
		QuickMoves:  parseMoves(record, quickMoveKeys),
		ChargeMoves: parseMoves(record, chargeMoveKeys),
		Sprites:     parseStrings(record.Get("sprites")),
	}, true
}

func parseRecordId(record gjson.Result) (int, bool) {
	for _, key := range idKeys {
		if id, ok := parseId(record.Get(key)); ok {
			return id, true
		}
	}
	return 0, false
}

// parseId accepts non-negative integral numbers and numeric strings.
func parseId(value gjson.Result) (int, bool) {
	switch value.Type {
	case gjson.Number:
		if id, err := strconv.Atoi(value.Raw); err == nil {
			return id, id >= 0
		}
		num := value.Num
		if num < 0 || num > math.MaxInt32 || num != math.Trunc(num) {
			return 0, false
		}
		return int(num), true
	case gjson.String:
		id, err := strconv.Atoi(strings.TrimSpace(value.Str))
		if err != nil {
			return 0, false
		}
		return id, id >= 0
	}
	return 0, false
}

func parseName(record gjson.Result) null.String {
	if names := record.Get("names"); names.IsObject() {
		if name, ok := parseNonEmptyString(names.Get("English")); ok {
			return null.StringFrom(name)
		}
	}
	if name, ok := parseNonEmptyString(record.Get("name")); ok {
		return null.StringFrom(name)
	}
	return null.String{}
}

func parseNonEmptyString(value gjson.Result) (string, bool) {
	if value.Type != gjson.String || value.Str == "" {
		return "", false
	}
	return value.Str, true
}

func parseTypeToken(value gjson.Result) (string, bool) {
	if value.Type != gjson.String {
		return "", false
	}
	return NormalizeType(value.Str)
}

func parseTypes(record gjson.Result) []string {
	types := make([]string, 0, 2)

	if rawTypes := record.Get("types"); rawTypes.IsArray() && len(rawTypes.Array()) > 0 {
		rawTypes.ForEach(func(_, value gjson.Result) bool {
			if t, ok := parseTypeToken(value); ok {
				types = appendUniqueType(types, t)
			}
			return true
		})
		return types
	}

	for _, key := range []string{"primaryType", "secondaryType"} {
		nested := record.Get(key)
		if !nested.IsObject() {
			continue
		}
		if t, ok := parseTypeToken(nested.Get("type")); ok {
			types = appendUniqueType(types, t)
		}
	}

	return types
}

// parseMoves prefers a non-empty list under keys.list and falls back to the
// keys of an object under keys.legacy, in document order.
func parseMoves(record gjson.Result, keys moveListKeys) []Move {
	moves := make([]Move, 0)

	if list := record.Get(keys.list); list.IsArray() && len(list.Array()) > 0 {
		list.ForEach(func(_, value gjson.Result) bool {
			if move, ok := parseMove(value); ok {
				moves = append(moves, move)
			}
			return true
		})
		return moves
	}

	if legacy := record.Get(keys.legacy); legacy.IsObject() {
		legacy.ForEach(func(key, _ gjson.Result) bool {
			moves = append(moves, NamedMove(key.String()))
			return true
		})
	}

	return moves
}

func parseMove(value gjson.Result) (Move, bool) {
	switch {
	case value.Type == gjson.String:
		return NamedMove(value.Str), true
	case value.IsObject():
		var move DetailedMove
		if name := value.Get("name"); name.Type == gjson.String {
			move.Name = null.StringFrom(name.Str)
		}
		if t, ok := parseTypeToken(value.Get("type")); ok {
			move.Type = null.StringFrom(t)
		}
		if power, ok := parsePower(value.Get("power")); ok {
			move.Power = null.FloatFrom(power)
		}
		return move, true
	}
	return nil, false
}

func parsePower(value gjson.Result) (float64, bool) {
	var power float64

	switch value.Type {
	case gjson.Number:
		power = value.Num
	case gjson.String:
		var err error
		power, err = strconv.ParseFloat(strings.TrimSpace(value.Str), 64)
		if err != nil {
			return 0, false
		}
	default:
		return 0, false
	}

	if math.IsNaN(power) || math.IsInf(power, 0) {
		return 0, false
	}
	return power, true
}

func parseStrings(value gjson.Result) []string {
	strs := make([]string, 0)
	if !value.IsArray() {
		return strs
	}
	value.ForEach(func(_, v gjson.Result) bool {
		if s, ok := parseNonEmptyString(v); ok {
			strs = append(strs, s)
		}
		return true
	})
	return strs
}

func mergeSprites(own, indexed []string) []string {
	if len(indexed) == 0 {
		return own
	}
	seen := make(map[string]struct{}, len(own))
	for _, sprite := range own {
		seen[sprite] = struct{}{}
	}
	for _, sprite := range indexed {
		if _, ok := seen[sprite]; ok {
			continue
		}
		seen[sprite] = struct{}{}
		own = append(own, sprite)
	}
	return own
}

// CatalogLoader loads a Pokedex from a file or bytes. Loading never fails:
// problems are logged and produce an empty Pokedex.
type CatalogLoader struct {
	logger  *logrus.Logger
	sprites SpriteIndex
}

func (loader *CatalogLoader) LoadDocument(doc gjson.Result) *Pokedex {
	dex, stats := loadCatalog(doc, loader.sprites)
	if stats.Dropped > 0 {
		loader.logger.Warnf("CATALOG: dropped %d record(s) without a usable id", stats.Dropped)
	}
	if stats.Records == 0 && doc.Exists() {
		loader.logger.Warnf("CATALOG: document shape '%s' has no creature records", stats.Shape)
	}
	loader.logger.Infof("CATALOG: loaded %d creature(s) from %d record(s) (shape: %s)", stats.Loaded, stats.Records, stats.Shape)
	return dex
}

func (loader *CatalogLoader) LoadBytes(data []byte) *Pokedex {
	if !gjson.ValidBytes(data) {
		loader.logger.Warnf("CATALOG: document is not valid JSON, using an empty pokedex")
		return NewPokedex()
	}
	return loader.LoadDocument(gjson.ParseBytes(data))
}

func (loader *CatalogLoader) LoadFile(filename string) *Pokedex {
	data, err := os.ReadFile(filename)
	if err != nil {
		loader.logger.Warnf("CATALOG: couldn't read '%s' (using an empty pokedex): %v", filename, err)
		return NewPokedex()
	}
	loader.logger.Infof("CATALOG: loading pokedex from '%s'", filename)
	return loader.LoadBytes(data)
}

func NewCatalogLoader(logger *logrus.Logger, sprites SpriteIndex) *CatalogLoader {
	return &CatalogLoader{
		logger:  logger,
		sprites: sprites,
	}
}
