package pokedex

import "strings"

const TYPE_TOKEN_PREFIX = "POKEMON_TYPE_"

// NormalizeType converts a raw type token ("fire", "POKEMON_TYPE_FIRE",
// " Fire ") into its canonical form ("FIRE"). The bool is false when
// nothing is left, in which case there is no type.
func NormalizeType(raw string) (string, bool) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = strings.TrimSpace(strings.TrimPrefix(s, TYPE_TOKEN_PREFIX))
	return s, s != ""
}

// NormalizeTypes normalizes each token, dropping empty results and
// duplicates. Order of first occurrence is kept.
func NormalizeTypes(raw []string) []string {
	types := make([]string, 0, len(raw))
	for _, r := range raw {
		if t, ok := NormalizeType(r); ok {
			types = appendUniqueType(types, t)
		}
	}
	return types
}

func appendUniqueType(types []string, t string) []string {
	for _, existing := range types {
		if existing == t {
			return types
		}
	}
	return append(types, t)
}
