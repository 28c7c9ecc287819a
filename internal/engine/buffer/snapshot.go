package buffer

import (
	"strings"
	"unicode/utf8"
)

// Snapshot provides a read-only view of a buffer at a specific point in time.
// It is safe for concurrent access and will not change even if the original
// buffer is modified.
type Snapshot struct {
	lines          []string
	revisionID     RevisionID
	lineEnding     LineEnding
	wordSeparators string
}

// Text returns the full snapshot content as a string.
func (s *Snapshot) Text() string {
	return strings.Join(s.lines, s.lineEnding.Sequence())
}

// LineCount returns the number of lines.
func (s *Snapshot) LineCount() int {
	return len(s.lines)
}

// LineText returns the text of a specific line (without terminator).
func (s *Snapshot) LineText(line int) string {
	if line < 0 || line >= len(s.lines) {
		return ""
	}
	return s.lines[line]
}

// LineLen returns the length of a specific line in characters.
func (s *Snapshot) LineLen(line int) int {
	return utf8.RuneCountInString(s.LineText(line))
}

// Lines returns a copy of the snapshot lines.
func (s *Snapshot) Lines() []string {
	out := make([]string, len(s.lines))
	copy(out, s.lines)
	return out
}

// WordRangeAt returns the range of the word containing p.
func (s *Snapshot) WordRangeAt(p Point) (PointRange, bool) {
	if p.Line < 0 || p.Line >= len(s.lines) {
		return PointRange{}, false
	}
	return wordRangeInLine(s.lines[p.Line], p, s.wordSeparators)
}

// RevisionID returns the revision ID at snapshot time.
func (s *Snapshot) RevisionID() RevisionID {
	return s.revisionID
}

// LineEnding returns the line ending used by Text.
func (s *Snapshot) LineEnding() LineEnding {
	return s.lineEnding
}
