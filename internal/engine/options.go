package engine

import (
	"github.com/dshills/keymotion/internal/engine/buffer"
	"github.com/dshills/keymotion/internal/engine/cursor"
)

// Option configures an Engine during creation.
type Option func(*Engine)

// WithContent sets the initial content of the engine.
func WithContent(content string) Option {
	return func(e *Engine) {
		e.initContent = content
	}
}

// WithLineEnding sets the line ending style used by Text.
func WithLineEnding(ending buffer.LineEnding) Option {
	return func(e *Engine) {
		e.lineEnding = ending
	}
}

// WithWordSeparators sets the characters that never belong to a word.
// An empty string keeps the default set.
func WithWordSeparators(separators string) Option {
	return func(e *Engine) {
		e.wordSeparators = separators
	}
}

// WithSelections sets the initial selections.
func WithSelections(sels ...cursor.Selection) Option {
	return func(e *Engine) {
		e.initSelections = append([]cursor.Selection(nil), sels...)
	}
}

// WithReadOnly creates a read-only engine.
// Edit returns ErrReadOnly.
func WithReadOnly() Option {
	return func(e *Engine) {
		e.readOnly = true
	}
}

// WithEditObserver registers fn to be called after every transaction that
// changed the buffer.
func WithEditObserver(fn func(TxResult)) Option {
	return func(e *Engine) {
		e.observer = fn
	}
}
