package pokedex

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v4"
)

func TestExtractIdFromFilename(t *testing.T) {
	tests := []struct {
		filename string
		id       int
		ok       bool
	}{
		{"pokemon_icon_025_00.png", 25, true},
		{"pokemon_icon_001_00_shiny.png", 1, true},
		{"http://cdn2.example.com/sprites/pokemon_icon_150_00.png", 150, true},
		{"unown.png", 0, false},
		{"", 0, false},
	}

	for _, test := range tests {
		id, ok := ExtractIdFromFilename(test.filename)
		assert.Equal(t, test.ok, ok, test.filename)
		assert.Equal(t, test.id, id, test.filename)
	}
}

func TestBuildSpriteIndex(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"pokemon_icon_025_00_shiny.png",
		"pokemon_icon_025_00.png",
		"pokemon_icon_001_00.PNG",
		"readme.txt",
		"background.png",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "pokemon_icon_999_00.png"), 0o755))

	sprites, err := ListSprites(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"background.png",
		"pokemon_icon_001_00.PNG",
		"pokemon_icon_025_00.png",
		"pokemon_icon_025_00_shiny.png",
	}, sprites)

	index, err := BuildSpriteIndex(dir)
	require.NoError(t, err)
	assert.Equal(t, SpriteIndex{
		1:  {"pokemon_icon_001_00.PNG"},
		25: {"pokemon_icon_025_00.png", "pokemon_icon_025_00_shiny.png"},
	}, index)

	_, err = BuildSpriteIndex(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestConventionalSpriteFilename(t *testing.T) {
	assert.Equal(t, "pokemon_icon_007_00.png", ConventionalSpriteFilename(7))
	assert.Equal(t, "pokemon_icon_1000_00.png", ConventionalSpriteFilename(1000))
}

func TestNormalizeType(t *testing.T) {
	for _, raw := range []string{"fire", "FIRE", "POKEMON_TYPE_FIRE", "  fire ", "pokemon_type_fire", " POKEMON_TYPE_ FIRE"} {
		normalized, ok := NormalizeType(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, "FIRE", normalized, raw)
	}

	for _, raw := range []string{"", "   ", "POKEMON_TYPE_"} {
		_, ok := NormalizeType(raw)
		assert.False(t, ok, "%q", raw)
	}

	assert.Equal(t, []string{"ROCK", "WATER"}, NormalizeTypes([]string{"rock", "", "POKEMON_TYPE_WATER", "Rock"}))
	assert.Empty(t, NormalizeTypes(nil))
}

func TestMoveJSON(t *testing.T) {
	moves := []Move{
		NamedMove("Tackle"),
		DetailedMove{Name: null.StringFrom("Ember"), Type: null.StringFrom("FIRE"), Power: null.FloatFrom(10)},
		DetailedMove{Name: null.StringFrom("Mystery")},
	}

	data, err := json.Marshal(moves)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		"Tackle",
		{"name": "Ember", "type": "FIRE", "power": 10},
		{"name": "Mystery", "type": null, "power": null}
	]`, string(data))

	assert.Equal(t, []string{"Tackle", "Ember", "Mystery"}, MoveNames(moves))
}
