package app

import (
	"errors"
	"fmt"

	"github.com/dshills/keymotion/internal/dispatcher/handler"
)

// Application errors.
var (
	// ErrClosed indicates the application has been closed.
	ErrClosed = errors.New("application closed")

	// ErrCommandFailed indicates a dispatched command did not succeed.
	ErrCommandFailed = errors.New("command failed")
)

// InitError represents a startup failure of one component.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return "init " + e.Component + ": " + e.Err.Error()
}

func (e *InitError) Unwrap() error {
	return e.Err
}

// DispatchError reports a request that ended in an error or cancelled result.
type DispatchError struct {
	Command string
	Status  handler.ResultStatus
	Message string
	Err     error
}

func (e *DispatchError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Command, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Command, e.Message)
	default:
		return fmt.Sprintf("%s: %s", e.Command, e.Status)
	}
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}

// Is matches ErrCommandFailed.
func (e *DispatchError) Is(target error) bool {
	return target == ErrCommandFailed
}

// ErrorList collects multiple errors.
// ErrorList is not safe for concurrent use.
type ErrorList struct {
	errors []error
}

// Add adds an error to the list. Nil errors are ignored.
func (e *ErrorList) Add(err error) {
	if err != nil {
		e.errors = append(e.errors, err)
	}
}

// HasErrors returns true if there are any errors.
func (e *ErrorList) HasErrors() bool {
	return len(e.errors) > 0
}

// Len returns the number of errors.
func (e *ErrorList) Len() int {
	return len(e.errors)
}

// Errors returns a copy of the collected errors.
func (e *ErrorList) Errors() []error {
	if e == nil || len(e.errors) == 0 {
		return nil
	}
	out := make([]error, len(e.errors))
	copy(out, e.errors)
	return out
}

// Error returns a combined error message.
func (e *ErrorList) Error() string {
	if e == nil || len(e.errors) == 0 {
		return ""
	}
	if len(e.errors) == 1 {
		return e.errors[0].Error()
	}
	return fmt.Sprintf("%d errors: first: %v", len(e.errors), e.errors[0])
}

// Unwrap exposes every collected error to errors.Is and errors.As.
func (e *ErrorList) Unwrap() []error {
	return e.Errors()
}

// AsError returns nil if there are no errors, otherwise the list.
func (e *ErrorList) AsError() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

// First returns the first error, or nil if empty.
func (e *ErrorList) First() error {
	if len(e.errors) == 0 {
		return nil
	}
	return e.errors[0]
}
