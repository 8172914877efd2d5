package textdiff

import (
	"strings"
	"unicode"
)

// Normalize produces the comparison key for a text unit by removing every
// whitespace rune. Two units are content-equal iff their keys are equal,
// which makes the comparison insensitive to line wrapping and reflow.
func Normalize(text string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text)
}
