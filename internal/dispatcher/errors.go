package dispatcher

import (
	"errors"
	"fmt"
)

// Dispatcher errors.
var (
	// ErrNoHandler indicates no handler was found for a command.
	ErrNoHandler = errors.New("dispatcher: no handler for command")

	// ErrPanic indicates the handler panicked.
	ErrPanic = errors.New("dispatcher: handler panic")

	// ErrInvalidRequest indicates a malformed or inconsistent request.
	ErrInvalidRequest = errors.New("dispatcher: invalid request")

	// ErrCountTooLarge indicates a movement count above the configured limit.
	ErrCountTooLarge = errors.New("dispatcher: repeat count too large")
)

// UnknownCommandError reports a command with no registered handler.
// It matches ErrNoHandler with errors.Is.
type UnknownCommandError struct {
	Command string
}

// Error implements the error interface.
func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("Unknown command: %s", e.Command)
}

// Is reports whether target is ErrNoHandler.
func (e *UnknownCommandError) Is(target error) bool {
	return target == ErrNoHandler
}

// PanicError carries a recovered handler panic.
// It matches ErrPanic with errors.Is.
type PanicError struct {
	Command string
	Value   any
	Stack   []byte
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("command %s panicked: %v", e.Command, e.Value)
}

// Is reports whether target is ErrPanic.
func (e *PanicError) Is(target error) bool {
	return target == ErrPanic
}
