package buffer

import "fmt"

// PointRange represents a range using line/character positions.
// Start is inclusive, End is exclusive: [Start, End).
// Start <= End is not enforced by construction; use Normalize before
// treating a range as a span of text.
type PointRange struct {
	Start Point // Inclusive start position
	End   Point // Exclusive end position
}

// NewPointRange creates a new PointRange from start and end points.
func NewPointRange(start, end Point) PointRange {
	return PointRange{Start: start, End: end}
}

// String returns a human-readable representation of the range.
func (r PointRange) String() string {
	return fmt.Sprintf("[%s:%s)", r.Start.String(), r.End.String())
}

// IsEmpty returns true if start equals end.
func (r PointRange) IsEmpty() bool {
	return r.Start.Compare(r.End) == 0
}

// IsValid returns true if start <= end.
func (r PointRange) IsValid() bool {
	return r.Start.Compare(r.End) <= 0
}

// Normalize returns the range with start and end in document order.
func (r PointRange) Normalize() PointRange {
	if r.IsValid() {
		return r
	}
	return PointRange{Start: r.End, End: r.Start}
}

// Contains returns true if the given point is within the range.
func (r PointRange) Contains(p Point) bool {
	return p.Compare(r.Start) >= 0 && p.Compare(r.End) < 0
}

// ContainsInclusive returns true if the point is within [Start, End].
func (r PointRange) ContainsInclusive(p Point) bool {
	return p.Compare(r.Start) >= 0 && p.Compare(r.End) <= 0
}

// Touches returns true if the ranges overlap or are adjacent.
func (r PointRange) Touches(other PointRange) bool {
	return r.Start.Compare(other.End) <= 0 && other.Start.Compare(r.End) <= 0
}

// Union returns the smallest range that contains both ranges.
func (r PointRange) Union(other PointRange) PointRange {
	start := r.Start
	if other.Start.Before(start) {
		start = other.Start
	}
	end := r.End
	if other.End.After(end) {
		end = other.End
	}
	return PointRange{Start: start, End: end}
}

// IsSingleLine returns true if the range spans only one line.
func (r PointRange) IsSingleLine() bool {
	return r.Start.Line == r.End.Line
}
