package pokedex

import (
	"fmt"
	"os"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// SpriteIndex maps creature id to sprite filenames, relative to the assets dir.
type SpriteIndex map[int][]string

var firstNumberRe = regexp.MustCompile(`\d+`)

// ExtractIdFromFilename returns the first run of digits in the base name of
// 'filename' as an id. 'pokemon_icon_025_00.png' is 25.
func ExtractIdFromFilename(filename string) (int, bool) {
	match := firstNumberRe.FindString(path.Base(filename))
	if match == "" {
		return 0, false
	}
	id, err := strconv.Atoi(match)
	if err != nil {
		return 0, false
	}
	return id, true
}

// ConventionalSpriteFilename is the name sprites are conventionally stored
// under in the assets dir.
func ConventionalSpriteFilename(id int) string {
	return fmt.Sprintf("pokemon_icon_%03d_00.png", id)
}

// ListSprites returns the sorted names of all png files in 'assetsDir'.
func ListSprites(assetsDir string) ([]string, error) {
	entries, err := os.ReadDir(assetsDir)
	if err != nil {
		return nil, err
	}

	sprites := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if name := entry.Name(); strings.HasSuffix(strings.ToLower(name), ".png") {
			sprites = append(sprites, name)
		}
	}
	sort.Strings(sprites)

	return sprites, nil
}

// BuildSpriteIndex groups the png files in 'assetsDir' by the id in their
// filename. Files without an id are ignored.
func BuildSpriteIndex(assetsDir string) (SpriteIndex, error) {
	sprites, err := ListSprites(assetsDir)
	if err != nil {
		return nil, err
	}

	index := make(SpriteIndex)
	for _, sprite := range sprites {
		id, ok := ExtractIdFromFilename(sprite)
		if !ok {
			continue
		}
		// already sorted.
		index[id] = append(index[id], sprite)
	}

	return index, nil
}
