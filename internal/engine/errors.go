package engine

import "errors"

// Errors returned by engine operations.
var (
	// ErrReadOnly indicates an edit was attempted on a read-only engine.
	ErrReadOnly = errors.New("engine is read-only")

	// ErrNoNumber indicates there is no number at or after the position.
	ErrNoNumber = errors.New("no number under or after cursor")
)
