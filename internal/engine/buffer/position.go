package buffer

import (
	"fmt"
	"sync/atomic"
)

// Point represents a line and character position.
// Both Line and Character are 0-indexed.
// Character is measured in Unicode code points from the start of the line.
// Point is an immutable value type; all transformations return a new value.
type Point struct {
	Line      int // 0-indexed line number
	Character int // 0-indexed character (code point offset within line)
}

// NewPoint creates a point at the given line and character.
func NewPoint(line, character int) Point {
	return Point{Line: line, Character: character}
}

// String returns a human-readable representation of the point.
func (p Point) String() string {
	return fmt.Sprintf("(%d:%d)", p.Line, p.Character)
}

// Compare returns -1 if p < other, 0 if p == other, 1 if p > other.
// Ordering is lexicographic: line first, then character.
func (p Point) Compare(other Point) int {
	if p.Line < other.Line {
		return -1
	}
	if p.Line > other.Line {
		return 1
	}
	if p.Character < other.Character {
		return -1
	}
	if p.Character > other.Character {
		return 1
	}
	return 0
}

// Before returns true if p comes before other.
func (p Point) Before(other Point) bool {
	return p.Compare(other) < 0
}

// After returns true if p comes after other.
func (p Point) After(other Point) bool {
	return p.Compare(other) > 0
}

// Translate returns a point shifted by the given line and character deltas.
func (p Point) Translate(lineDelta, characterDelta int) Point {
	return Point{Line: p.Line + lineDelta, Character: p.Character + characterDelta}
}

// With returns a point on the same line at the given character.
func (p Point) With(character int) Point {
	return Point{Line: p.Line, Character: character}
}

// RevisionID uniquely identifies a buffer revision.
// Each modification to the buffer creates a new revision.
type RevisionID uint64

// revisionCounter is used to generate unique revision IDs.
var revisionCounter uint64

// NewRevisionID generates a new unique revision ID.
// This is thread-safe using atomic operations.
func NewRevisionID() RevisionID {
	return RevisionID(atomic.AddUint64(&revisionCounter, 1))
}
