package motion

import (
	"fmt"

	"github.com/dshills/keymotion/internal/engine/cursor"
)

// Positions resolves the active point of every selection.
// Results are in selection order; cursors never influence each other.
func Positions(buf TextBuffer, sels []cursor.Selection, spec Spec) ([]Point, error) {
	out := make([]Point, len(sels))
	for i, sel := range sels {
		target, err := Resolve(buf, sel.Active, spec)
		if err != nil {
			return nil, fmt.Errorf("cursor %d: %w", i, err)
		}
		out[i] = target
	}
	return out, nil
}

// Ranges returns, for every selection, the span from its active point to
// the resolved target. Spans are not normalized.
func Ranges(buf TextBuffer, sels []cursor.Selection, spec Spec) ([]PointRange, error) {
	targets, err := Positions(buf, sels, spec)
	if err != nil {
		return nil, err
	}
	out := make([]PointRange, len(sels))
	for i, sel := range sels {
		out[i] = PointRange{Start: sel.Active, End: targets[i]}
	}
	return out, nil
}

// Selections returns every selection with its active end moved to the
// resolved target and its anchor unchanged.
func Selections(buf TextBuffer, sels []cursor.Selection, spec Spec) ([]cursor.Selection, error) {
	targets, err := Positions(buf, sels, spec)
	if err != nil {
		return nil, err
	}
	out := make([]cursor.Selection, len(sels))
	for i, sel := range sels {
		out[i] = sel.Extend(targets[i])
	}
	return out, nil
}
