package cursor

import (
	"fmt"

	"github.com/dshills/keymotion/internal/engine/buffer"
)

// Point is an alias for buffer.Point for convenience.
type Point = buffer.Point

// PointRange is an alias for buffer.PointRange for convenience.
type PointRange = buffer.PointRange

// Selection represents a range of selected text.
// Anchor is the fixed end; Active is where the cursor is.
// When Anchor == Active, this represents a cursor with no selection.
// Selection is an immutable value type.
type Selection struct {
	Anchor Point // Fixed end of the selection
	Active Point // Current cursor position
}

// NewSelection creates a selection from anchor to active.
func NewSelection(anchor, active Point) Selection {
	return Selection{Anchor: anchor, Active: active}
}

// NewCursorSelection creates a selection representing just a cursor (no extent).
func NewCursorSelection(p Point) Selection {
	return Selection{Anchor: p, Active: p}
}

// IsEmpty returns true if the selection has no extent (just a cursor).
func (s Selection) IsEmpty() bool {
	return s.Anchor == s.Active
}

// Range returns the selection as a range (always Start <= End).
func (s Selection) Range() PointRange {
	if s.IsForward() {
		return PointRange{Start: s.Anchor, End: s.Active}
	}
	return PointRange{Start: s.Active, End: s.Anchor}
}

// Start returns the lower bound of the selection.
func (s Selection) Start() Point {
	return s.Range().Start
}

// End returns the upper bound of the selection.
func (s Selection) End() Point {
	return s.Range().End
}

// IsForward returns true if the selection extends forward (active >= anchor).
func (s Selection) IsForward() bool {
	return !s.Active.Before(s.Anchor)
}

// IsBackward returns true if the selection extends backward (active < anchor).
func (s Selection) IsBackward() bool {
	return s.Active.Before(s.Anchor)
}

// Extend returns a new selection with the active end moved to p.
// The anchor remains fixed.
func (s Selection) Extend(p Point) Selection {
	return Selection{Anchor: s.Anchor, Active: p}
}

// MoveTo returns a new collapsed selection (cursor) at p.
func (s Selection) MoveTo(p Point) Selection {
	return Selection{Anchor: p, Active: p}
}

// Collapse collapses the selection to a cursor at the active end.
func (s Selection) Collapse() Selection {
	return Selection{Anchor: s.Active, Active: s.Active}
}

// Flip returns a selection with anchor and active swapped.
func (s Selection) Flip() Selection {
	return Selection{Anchor: s.Active, Active: s.Anchor}
}

// Contains returns true if p is within the selection.
// For empty selections (cursors), this always returns false.
func (s Selection) Contains(p Point) bool {
	return s.Range().Contains(p)
}

// String returns a string representation of the selection.
func (s Selection) String() string {
	if s.IsEmpty() {
		return fmt.Sprintf("Cursor%s", s.Active)
	}
	dir := "→"
	if s.IsBackward() {
		dir = "←"
	}
	return fmt.Sprintf("Selection(%s%s%s)", s.Anchor, dir, s.Active)
}

// Equals returns true if two selections have the same anchor and active end.
func (s Selection) Equals(other Selection) bool {
	return s.Anchor == other.Anchor && s.Active == other.Active
}
