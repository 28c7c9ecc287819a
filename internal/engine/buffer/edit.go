package buffer

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// Edit represents a text edit operation.
// It specifies a range to replace and the new text.
type Edit struct {
	Range   PointRange // The range to replace
	NewText string     // The replacement text
}

// NewDelete creates an Edit that deletes a range of text.
func NewDelete(r PointRange) Edit {
	return Edit{Range: r}
}

// String returns a human-readable representation of the edit.
func (e Edit) String() string {
	if e.Range.IsEmpty() {
		return fmt.Sprintf("Insert(%s, %q)", e.Range.Start, e.NewText)
	}
	if e.NewText == "" {
		return fmt.Sprintf("Delete%s", e.Range.String())
	}
	return fmt.Sprintf("Replace%s with %q", e.Range.String(), e.NewText)
}

// IsDelete returns true if this is a pure deletion (empty replacement).
func (e Edit) IsDelete() bool {
	return !e.Range.IsEmpty() && e.NewText == ""
}

// IsNoOp returns true if this edit does nothing.
func (e Edit) IsNoOp() bool {
	return e.Range.IsEmpty() && e.NewText == ""
}

// EditTx is the write side of a transaction as seen by callers that only
// queue edits.
type EditTx interface {
	Delete(r PointRange)
	Replace(r PointRange, text string)
}

// Tx collects edits for one atomic transaction.
// A Tx is only valid inside the callback passed to Buffer.Transact.
type Tx struct {
	id     uuid.UUID
	edits  []Edit
	closed bool
}

// ID returns the transaction identifier.
func (tx *Tx) ID() string {
	return tx.id.String()
}

// Delete queues the deletion of r. Reversed ranges are normalized and
// empty ranges are ignored when the transaction commits.
func (tx *Tx) Delete(r PointRange) {
	if tx.closed {
		return
	}
	tx.edits = append(tx.edits, NewDelete(r.Normalize()))
}

// Replace queues the replacement of r with text.
func (tx *Tx) Replace(r PointRange, text string) {
	if tx.closed {
		return
	}
	tx.edits = append(tx.edits, Edit{Range: r.Normalize(), NewText: text})
}

var _ EditTx = (*Tx)(nil)

// Len returns the number of queued edits.
func (tx *Tx) Len() int {
	return len(tx.edits)
}

// TxResult describes a committed transaction.
type TxResult struct {
	ID       string     // Transaction identifier
	Applied  []Edit     // Edits in document order, after merging
	Revision RevisionID // Buffer revision after the commit
}

// Transact runs fn to collect edits and applies them atomically.
// Either every edit is applied and a new revision is created, or the
// buffer is left untouched and an error is returned.
func (b *Buffer) Transact(fn func(tx *Tx)) (TxResult, error) {
	tx := &Tx{id: uuid.New()}
	fn(tx)
	tx.closed = true

	b.mu.Lock()
	defer b.mu.Unlock()

	edits, err := b.prepareLocked(tx.edits)
	if err != nil {
		return TxResult{ID: tx.ID()}, fmt.Errorf("transaction %s: %w", tx.ID(), err)
	}
	if len(edits) == 0 {
		return TxResult{ID: tx.ID(), Revision: b.revisionID}, nil
	}

	lines := make([]string, len(b.lines))
	copy(lines, b.lines)

	// Apply back to front so earlier ranges keep their coordinates.
	for i := len(edits) - 1; i >= 0; i-- {
		lines = replaceRange(lines, edits[i].Range, edits[i].NewText)
	}

	b.lines = lines
	b.revisionID = NewRevisionID()

	return TxResult{ID: tx.ID(), Applied: edits, Revision: b.revisionID}, nil
}

// prepareLocked clamps edits into the buffer, sorts them into document order
// and merges overlapping or touching deletions. Inserts and replacements may
// not overlap. Selections restored after an edit can point past the end of
// a shortened line, so out of range ends are clamped rather than rejected.
func (b *Buffer) prepareLocked(edits []Edit) ([]Edit, error) {
	out := make([]Edit, 0, len(edits))
	for _, e := range edits {
		e.Range = PointRange{
			Start: b.clampPointLocked(e.Range.Start),
			End:   b.clampPointLocked(e.Range.End),
		}.Normalize()
		if e.IsNoOp() {
			continue
		}
		out = append(out, e)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Range.Start.Before(out[j].Range.Start)
	})

	merged := out[:0]
	for _, e := range out {
		if n := len(merged); n > 0 {
			last := &merged[n-1]
			if last.IsDelete() && e.IsDelete() && last.Range.Touches(e.Range) {
				last.Range = last.Range.Union(e.Range)
				continue
			}
			if e.Range.Start.Before(last.Range.End) {
				return nil, fmt.Errorf("%w: %s overlaps %s", ErrRangeInvalid, e.Range, last.Range)
			}
		}
		merged = append(merged, e)
	}

	return merged, nil
}

// replaceRange replaces r in lines with text. r must be valid and normalized.
func replaceRange(lines []string, r PointRange, text string) []string {
	first := []rune(lines[r.Start.Line])
	last := []rune(lines[r.End.Line])

	joined := string(first[:r.Start.Character]) + text + string(last[r.End.Character:])
	repl := splitLines(joined)

	out := make([]string, 0, len(lines)-(r.End.Line-r.Start.Line)+len(repl)-1)
	out = append(out, lines[:r.Start.Line]...)
	out = append(out, repl...)
	out = append(out, lines[r.End.Line+1:]...)
	return out
}
