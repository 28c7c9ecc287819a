package motion

import (
	"strings"
	"unicode/utf8"
)

// TextBuffer is the read access the resolver needs from a host buffer.
type TextBuffer interface {
	// LineText returns the text of a line without its terminator.
	LineText(line int) string

	// WordRangeAt returns the word containing p, if any.
	WordRangeAt(p Point) (PointRange, bool)
}

// Resolve computes where spec moves a cursor at pos.
//
// A motion that cannot advance returns pos unchanged. The only failure is
// an unknown Kind, reported as *Error from whichever repeat step hit it.
func Resolve(buf TextBuffer, pos Point, spec Spec) (Point, error) {
	if spec.count() > 1 {
		return resolveRepeat(buf, pos, spec)
	}

	switch spec.Kind {
	case KindLetter:
		if next, ok := nextLetter(buf, pos, spec.Letter); ok {
			return next, nil
		}
		return pos, nil

	case KindLineEnd:
		return pos.With(utf8.RuneCountInString(buf.LineText(pos.Line))), nil

	case KindAfterLetter:
		next, ok := nextLetter(buf, pos, spec.Letter)
		if !ok {
			return pos, nil
		}
		if spec.WillRepeat {
			// Stay on the letter so the following step searches past it.
			return next, nil
		}
		return next.Translate(0, 1), nil

	case KindWord:
		return wordStep(buf, pos, spec), nil

	default:
		return pos, &Error{Kind: spec.KindName()}
	}
}

// resolveRepeat folds a count > 1 into single steps.
//
// The first step is taken with WillRepeat set. If it is blocked the whole
// motion is. If the remaining count makes no progress from there, the first
// step is recomputed without WillRepeat and returned instead, so that word
// and afterLetter motions land where a standalone step would.
func resolveRepeat(buf TextBuffer, pos Point, spec Spec) (Point, error) {
	next, err := Resolve(buf, pos, spec.repeating())
	if err != nil {
		return pos, err
	}
	if next == pos {
		return pos, nil
	}

	final, err := Resolve(buf, next, spec.WithCount(spec.count()-1))
	if err != nil {
		return pos, err
	}
	if final == next {
		return Resolve(buf, pos, spec.WithCount(1))
	}
	return final, nil
}

// nextLetter finds the first occurrence of letter strictly after pos on the
// same line.
func nextLetter(buf TextBuffer, pos Point, letter string) (Point, bool) {
	if letter == "" {
		return pos, false
	}

	line := buf.LineText(pos.Line)
	start := byteIndex(line, pos.Character+1)
	if start >= len(line) {
		return pos, false
	}

	idx := strings.Index(line[start:], letter)
	if idx < 0 {
		return pos, false
	}
	offset := utf8.RuneCountInString(line[start : start+idx])
	return pos.Translate(0, offset+1), true
}

// wordStep takes one word step.
func wordStep(buf TextBuffer, pos Point, spec Spec) Point {
	wordEnd := pos
	if r, ok := buf.WordRangeAt(pos); ok {
		wordEnd = r.End
	}

	if !spec.WillRepeat && spec.InsideOnly {
		return wordEnd
	}

	lineLen := utf8.RuneCountInString(buf.LineText(pos.Line))
	for wordEnd.Character < lineLen {
		wordEnd = wordEnd.Translate(0, 1)
		if _, ok := buf.WordRangeAt(wordEnd); ok {
			break
		}
	}
	return wordEnd
}

// byteIndex returns the byte offset of the n-th character of s, or len(s)
// if s is shorter.
func byteIndex(s string, n int) int {
	if n <= 0 {
		return 0
	}
	i := 0
	for pos := range s {
		if i == n {
			return pos
		}
		i++
	}
	return len(s)
}
