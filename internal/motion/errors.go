package motion

import (
	"errors"
	"fmt"
)

// Errors returned by motion resolution.
var (
	// ErrUnknownMotion indicates a motion kind the resolver does not know.
	ErrUnknownMotion = errors.New("unknown motion")

	// ErrInvalidSpec indicates a spec that breaks its own invariants.
	ErrInvalidSpec = errors.New("invalid motion spec")
)

// Error reports an unrecognized motion kind.
// It matches ErrUnknownMotion with errors.Is.
type Error struct {
	// Kind is the unrecognized kind as it was received.
	Kind string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("Unknown movement: %s", e.Kind)
}

// Is reports whether target is ErrUnknownMotion.
func (e *Error) Is(target error) bool {
	return target == ErrUnknownMotion
}
