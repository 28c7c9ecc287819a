package buffer

import (
	"errors"
	"strings"
	"sync"
	"unicode/utf8"
)

// Errors returned by buffer operations.
var (
	ErrPointOutOfRange = errors.New("point out of range")
	ErrRangeInvalid    = errors.New("invalid range")
	ErrTxClosed        = errors.New("edit transaction already closed")
)

// LineEnding specifies the line ending style.
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
	LineEndingCR                     // Old Mac: \r
)

// String returns the string representation of the line ending.
func (le LineEnding) String() string {
	switch le {
	case LineEndingLF:
		return "\\n"
	case LineEndingCRLF:
		return "\\r\\n"
	case LineEndingCR:
		return "\\r"
	default:
		return "\\n"
	}
}

// Sequence returns the actual line ending characters.
func (le LineEnding) Sequence() string {
	switch le {
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	default:
		return "\n"
	}
}

// Buffer is an in-memory, line-oriented text buffer.
// Lines are stored without their terminators; the line ending style is
// only applied when the full text is rendered by Text.
// All methods are thread-safe.
type Buffer struct {
	mu             sync.RWMutex
	lines          []string
	revisionID     RevisionID
	lineEnding     LineEnding
	wordSeparators string
}

// NewBuffer creates a new empty buffer.
func NewBuffer(opts ...Option) *Buffer {
	b := &Buffer{
		lines:          []string{""},
		revisionID:     NewRevisionID(),
		lineEnding:     LineEndingLF,
		wordSeparators: DefaultWordSeparators,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// NewBufferFromString creates a buffer with initial content.
func NewBufferFromString(s string, opts ...Option) *Buffer {
	b := NewBuffer(opts...)
	b.lines = splitLines(s)
	return b
}

// splitLines splits text on any line terminator (\n, \r\n or \r).
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.Split(s, "\n")
}

// Read Operations

// Text returns the full buffer content joined with the buffer's line ending.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return strings.Join(b.lines, b.lineEnding.Sequence())
}

// LineCount returns the number of lines. An empty buffer has one line.
func (b *Buffer) LineCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.lines)
}

// LineText returns the text of a specific line (without terminator).
// Lines outside the buffer read as empty.
func (b *Buffer) LineText(line int) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if line < 0 || line >= len(b.lines) {
		return ""
	}
	return b.lines[line]
}

// LineLen returns the length of a line in characters.
func (b *Buffer) LineLen(line int) int {
	return utf8.RuneCountInString(b.LineText(line))
}

// Lines returns a copy of all lines.
func (b *Buffer) Lines() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}

// WordRangeAt returns the range of the word containing p, or false if p
// is not inside or at the edge of a word.
func (b *Buffer) WordRangeAt(p Point) (PointRange, bool) {
	b.mu.RLock()
	if p.Line < 0 || p.Line >= len(b.lines) {
		b.mu.RUnlock()
		return PointRange{}, false
	}
	line, seps := b.lines[p.Line], b.wordSeparators
	b.mu.RUnlock()

	return wordRangeInLine(line, p, seps)
}

// ValidatePoint reports whether p addresses a location inside the buffer.
// The position just past the last character of a line is valid.
func (b *Buffer) ValidatePoint(p Point) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.validatePointLocked(p)
}

func (b *Buffer) validatePointLocked(p Point) error {
	if p.Line < 0 || p.Line >= len(b.lines) || p.Character < 0 {
		return ErrPointOutOfRange
	}
	if p.Character > utf8.RuneCountInString(b.lines[p.Line]) {
		return ErrPointOutOfRange
	}
	return nil
}

// ClampPoint returns p clamped into the buffer bounds.
func (b *Buffer) ClampPoint(p Point) Point {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.clampPointLocked(p)
}

func (b *Buffer) clampPointLocked(p Point) Point {
	if p.Line < 0 {
		return Point{}
	}
	if p.Line >= len(b.lines) {
		last := len(b.lines) - 1
		return Point{Line: last, Character: utf8.RuneCountInString(b.lines[last])}
	}
	if p.Character < 0 {
		return Point{Line: p.Line}
	}
	if n := utf8.RuneCountInString(b.lines[p.Line]); p.Character > n {
		return Point{Line: p.Line, Character: n}
	}
	return p
}

// Buffer State

// RevisionID returns the current revision ID.
func (b *Buffer) RevisionID() RevisionID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revisionID
}

// IsEmpty returns true if the buffer holds no text.
func (b *Buffer) IsEmpty() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.lines) == 1 && b.lines[0] == ""
}

// LineEnding returns the buffer's line ending style.
func (b *Buffer) LineEnding() LineEnding {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lineEnding
}

// WordSeparators returns the characters that never belong to a word.
func (b *Buffer) WordSeparators() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.wordSeparators
}

// Snapshot returns a read-only snapshot of the current buffer state.
// Safe for concurrent access from other goroutines.
func (b *Buffer) Snapshot() *Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	lines := make([]string, len(b.lines))
	copy(lines, b.lines)
	return &Snapshot{
		lines:          lines,
		revisionID:     b.revisionID,
		lineEnding:     b.lineEnding,
		wordSeparators: b.wordSeparators,
	}
}
