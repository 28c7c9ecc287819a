package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/dshills/keymotion/internal/engine/buffer"
	"github.com/dshills/keymotion/internal/engine/cursor"
)

// Re-export commonly used types for convenience.
type (
	// Point represents a line/character position.
	Point = buffer.Point

	// PointRange represents a span between two points.
	PointRange = buffer.PointRange

	// Selection represents a cursor selection.
	Selection = cursor.Selection

	// EditTx queues edits inside Engine.Edit.
	EditTx = buffer.EditTx

	// TxResult describes a committed edit transaction.
	TxResult = buffer.TxResult

	// LineEnding specifies the line ending style.
	LineEnding = buffer.LineEnding

	// RevisionID uniquely identifies a buffer revision.
	RevisionID = buffer.RevisionID
)

// Re-export constants.
const (
	LineEndingLF   = buffer.LineEndingLF
	LineEndingCRLF = buffer.LineEndingCRLF
	LineEndingCR   = buffer.LineEndingCR
)

// Engine is the editor state a motion command operates on: a text buffer
// plus an ordered set of selections.
//
// All operations are thread-safe. The buffer serializes its own edits;
// the engine lock only guards the selection set, so an Edit callback may
// read selections without deadlocking.
type Engine struct {
	mu sync.RWMutex

	buf     *buffer.Buffer
	cursors *cursor.CursorSet

	// Configuration
	lineEnding     buffer.LineEnding
	wordSeparators string
	readOnly       bool
	observer       func(TxResult)

	// Initialization
	initContent    string
	initSelections []Selection
}

// New creates a new engine with the given options.
func New(opts ...Option) *Engine {
	e := &Engine{
		lineEnding: buffer.LineEndingLF,
	}
	for _, opt := range opts {
		opt(e)
	}

	e.buf = buffer.NewBufferFromString(e.initContent, e.bufferOptions()...)
	e.cursors = cursor.NewCursorSetFromSlice(e.initSelections)
	e.initContent = ""
	e.initSelections = nil
	return e
}

func (e *Engine) bufferOptions() []buffer.Option {
	return []buffer.Option{
		buffer.WithLineEnding(e.lineEnding),
		buffer.WithWordSeparators(e.wordSeparators),
	}
}

// ============================================================================
// Read Operations
// ============================================================================

// Text returns the entire buffer content.
func (e *Engine) Text() string {
	return e.buf.Text()
}

// LineCount returns the number of lines.
func (e *Engine) LineCount() int {
	return e.buf.LineCount()
}

// LineText returns the text of a line without its terminator.
// Lines outside the buffer read as empty.
func (e *Engine) LineText(line int) string {
	return e.buf.LineText(line)
}

// LineLen returns the length of a line in characters.
func (e *Engine) LineLen(line int) int {
	return e.buf.LineLen(line)
}

// Lines returns a copy of every line.
func (e *Engine) Lines() []string {
	return e.buf.Lines()
}

// WordRangeAt returns the word containing p, if any.
func (e *Engine) WordRangeAt(p Point) (PointRange, bool) {
	return e.buf.WordRangeAt(p)
}

// RevisionID returns the current buffer revision.
func (e *Engine) RevisionID() RevisionID {
	return e.buf.RevisionID()
}

// Snapshot returns a read-only snapshot of the buffer.
func (e *Engine) Snapshot() *buffer.Snapshot {
	return e.buf.Snapshot()
}

// IsReadOnly returns true if edits are rejected.
func (e *Engine) IsReadOnly() bool {
	return e.readOnly
}

// ============================================================================
// Selections
// ============================================================================

// Selections returns a copy of every selection in order.
func (e *Engine) Selections() []Selection {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cursors.All()
}

// SetSelections replaces every selection. Positions are stored as given.
// An empty slice leaves a single cursor at (0:0).
func (e *Engine) SetSelections(sels []Selection) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cursors.SetAll(sels)
}

// PrimarySelection returns the first selection.
func (e *Engine) PrimarySelection() Selection {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cursors.Primary()
}

// CursorCount returns the number of selections.
func (e *Engine) CursorCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cursors.Count()
}

// ============================================================================
// Edit Operations
// ============================================================================

// Edit runs fn to queue edits and applies them as one atomic transaction.
// Selections are not touched; callers that need them restored or moved do
// so after Edit returns.
func (e *Engine) Edit(ctx context.Context, fn func(tx EditTx)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if e.readOnly {
		return ErrReadOnly
	}

	res, err := e.buf.Transact(func(tx *buffer.Tx) {
		fn(tx)
	})
	if err != nil {
		return fmt.Errorf("edit: %w", err)
	}

	if e.observer != nil && len(res.Applied) > 0 {
		e.observer(res)
	}
	return nil
}
