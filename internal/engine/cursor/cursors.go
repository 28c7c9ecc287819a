package cursor

// CursorSet holds the selections of a multi-cursor editor.
// Selections keep the order they were given in and are never merged:
// each one is an independent cursor. The first selection is the primary one.
type CursorSet struct {
	selections []Selection
}

// NewCursorSet creates a cursor set with a single selection.
func NewCursorSet(initial Selection) *CursorSet {
	return &CursorSet{
		selections: []Selection{initial},
	}
}

// NewCursorSetFromSlice creates a cursor set from a slice of selections.
// An empty slice yields a single cursor at (0:0).
func NewCursorSetFromSlice(selections []Selection) *CursorSet {
	cs := &CursorSet{}
	cs.SetAll(selections)
	return cs
}

// Primary returns the primary (first) selection.
func (cs *CursorSet) Primary() Selection {
	if len(cs.selections) == 0 {
		return Selection{}
	}
	return cs.selections[0]
}

// All returns a copy of all selections.
// The returned slice is safe to modify without affecting the CursorSet.
func (cs *CursorSet) All() []Selection {
	result := make([]Selection, len(cs.selections))
	copy(result, cs.selections)
	return result
}

// Count returns the number of cursors/selections.
func (cs *CursorSet) Count() int {
	return len(cs.selections)
}

// IsMulti returns true if there are multiple selections.
func (cs *CursorSet) IsMulti() bool {
	return len(cs.selections) > 1
}

// Get returns the selection at the given index.
// Returns an empty selection if index is out of range.
func (cs *CursorSet) Get(index int) Selection {
	if index < 0 || index >= len(cs.selections) {
		return Selection{}
	}
	return cs.selections[index]
}

// Add appends a selection.
func (cs *CursorSet) Add(sel Selection) {
	cs.selections = append(cs.selections, sel)
}

// SetAll replaces all selections, keeping their order.
func (cs *CursorSet) SetAll(sels []Selection) {
	if len(sels) == 0 {
		cs.selections = []Selection{{}}
		return
	}
	cs.selections = make([]Selection, len(sels))
	copy(cs.selections, sels)
}

// Map applies f to each selection and returns the results in order.
func (cs *CursorSet) Map(f func(sel Selection) Selection) []Selection {
	result := make([]Selection, len(cs.selections))
	for i, sel := range cs.selections {
		result[i] = f(sel)
	}
	return result
}

// HasSelection returns true if any selection is non-empty (has extent).
func (cs *CursorSet) HasSelection() bool {
	for _, sel := range cs.selections {
		if !sel.IsEmpty() {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the cursor set.
func (cs *CursorSet) Clone() *CursorSet {
	return NewCursorSetFromSlice(cs.selections)
}

// Equals returns true if two cursor sets have the same selections in the same order.
func (cs *CursorSet) Equals(other *CursorSet) bool {
	if other == nil {
		return false
	}
	if cs.Count() != other.Count() {
		return false
	}
	for i, sel := range cs.selections {
		if !sel.Equals(other.selections[i]) {
			return false
		}
	}
	return true
}
