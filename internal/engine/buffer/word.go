package buffer

import (
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
)

// DefaultWordSeparators are the characters that split words in addition
// to whitespace.
const DefaultWordSeparators = "`~!@#$%^&*()-=+[{]}\\|;:'\",.<>/?"

// wordSpan is a half-open [start, end) character span of one word.
type wordSpan struct {
	start, end int
}

// wordsInLine returns the words of a line in order.
// Words are found by Unicode word segmentation (UAX #29); each segment is
// further split at whitespace and separator characters.
func wordsInLine(line, separators string) []wordSpan {
	var spans []wordSpan
	pos := 0
	state := -1
	rest := line

	for len(rest) > 0 {
		var segment string
		segment, rest, state = uniseg.FirstWordInString(rest, state)

		start := -1
		for _, r := range segment {
			if isWordRune(r, separators) {
				if start < 0 {
					start = pos
				}
			} else if start >= 0 {
				spans = append(spans, wordSpan{start: start, end: pos})
				start = -1
			}
			pos++
		}
		if start >= 0 {
			spans = append(spans, wordSpan{start: start, end: pos})
		}
	}

	return spans
}

func isWordRune(r rune, separators string) bool {
	if unicode.IsSpace(r) || unicode.IsControl(r) {
		return false
	}
	return !strings.ContainsRune(separators, r)
}

// wordRangeInLine returns the first word whose span contains p.Character,
// treating both edges as inside.
func wordRangeInLine(line string, p Point, separators string) (PointRange, bool) {
	for _, w := range wordsInLine(line, separators) {
		if w.start > p.Character {
			break
		}
		if p.Character <= w.end {
			return PointRange{
				Start: Point{Line: p.Line, Character: w.start},
				End:   Point{Line: p.Line, Character: w.end},
			}, true
		}
	}
	return PointRange{}, false
}
