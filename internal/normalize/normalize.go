// Package normalize translates the game's private-use glyphs into plain text
// and applies Unicode compatibility decomposition. Rule matching and
// classification both run on normalized text; raw text containing the custom
// font codepoints would never match plain-text rules.
package normalize

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// lowestGlyph is the first private-use codepoint the game's fonts remap.
// Anything below it passes through untouched.
const lowestGlyph = ''

// replacements covers the glyphs that do not sit in one of the contiguous
// runs handled in Normalize: numerals 1-5 and 10-31, two symbols, and a few
// irregular letters. Note  expands to two characters.
var replacements = map[rune]string{
	// numerals
	'': "1",
	'': "2",
	'': "3",
	'': "4",
	'': "5",
	'': "10",
	'': "11",
	'': "12",
	'': "13",
	'': "14",
	'': "15",
	'': "16",
	'': "17",
	'': "18",
	'': "19",
	'': "20",
	'': "21",
	'': "22",
	'': "23",
	'': "24",
	'': "25",
	'': "26",
	'': "27",
	'': "28",
	'': "29",
	'': "30",
	'': "31",

	// symbols
	'': "+",
	'': "?",

	// letters outside the contiguous alphabet run
	'': "A",
	'': "_A",
	'': "E",
}

// Normalize maps private-use glyphs to their plain-text equivalents and then
// applies NFKD compatibility decomposition. It is total and idempotent.
func Normalize(input string) string {
	var b strings.Builder

	b.Grow(len(input))

	for _, r := range input {
		switch {
		case r < lowestGlyph:
			b.WriteRune(r)
		case r >= 0xe071 && r <= 0xe08a: // boxed A-Z
			b.WriteRune(r - 0xe030)
		case r >= 0xe060 && r <= 0xe069: // boxed 0-9
			b.WriteRune(r - 0xe030)
		case r >= 0xe0b1 && r <= 0xe0b9: // filled 1-9
			b.WriteRune(r - 0xe080)
		case r >= 0xe090 && r <= 0xe098: // outlined 1-9
			b.WriteRune(r - 0xe05f)
		default:
			if rep, ok := replacements[r]; ok {
				b.WriteString(rep)
			} else {
				b.WriteRune(r)
			}
		}
	}

	return norm.NFKD.String(b.String())
}
