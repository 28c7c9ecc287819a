package lua

import (
	"errors"
	"fmt"
)

// Errors for Lua state operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrUnknownCommand is returned when no script defines the command.
	ErrUnknownCommand = errors.New("lua: unknown command")

	// ErrReentrant is returned when a script runs a host command while
	// another one is still executing on the same state.
	ErrReentrant = errors.New("lua: nested command execution")

	// ErrNoDispatcher is returned by keymotion.dispatch when the host has
	// no dispatcher attached.
	ErrNoDispatcher = errors.New("lua: no dispatcher attached")
)

// CommandError reports a failed script command.
type CommandError struct {
	Command string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("lua command %s: %v", e.Command, e.Err)
	}
	return fmt.Sprintf("lua command %s: %s", e.Command, e.Message)
}

// Unwrap returns the underlying error.
func (e *CommandError) Unwrap() error {
	return e.Err
}
