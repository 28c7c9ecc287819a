package handler

import (
	"fmt"
)

// ResultStatus indicates the outcome of a command.
type ResultStatus uint8

const (
	// StatusOK indicates successful execution.
	StatusOK ResultStatus = iota
	// StatusNoOp indicates the command had no effect.
	StatusNoOp
	// StatusError indicates an error occurred.
	StatusError
	// StatusCancelled indicates the command was cancelled.
	StatusCancelled
)

// String returns a string representation of the status.
func (s ResultStatus) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNoOp:
		return "no-op"
	case StatusError:
		return "error"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Result is what a handler reports back to the dispatcher.
//
// Error is set only for StatusError, and sometimes for StatusCancelled.
// Message is shown to the user. Data carries counters for callers and
// tests: the motion handlers set "cursors", the commands batch sets
// "executed" to the number of host commands that succeeded.
type Result struct {
	Status  ResultStatus
	Error   error
	Message string
	Data    map[string]any
}

// IsOK returns true if the result indicates success.
func (r Result) IsOK() bool {
	return r.Status == StatusOK
}

// IsError returns true if the result indicates an error.
func (r Result) IsError() bool {
	return r.Status == StatusError
}

// Success creates a successful result.
func Success() Result {
	return Result{Status: StatusOK}
}

// SuccessWithMessage creates a successful result with a message.
func SuccessWithMessage(msg string) Result {
	return Result{Status: StatusOK, Message: msg}
}

// SuccessWithData creates a successful result with data.
func SuccessWithData(key string, value any) Result {
	return Result{
		Status: StatusOK,
		Data:   map[string]any{key: value},
	}
}

// NoOpWithMessage creates a no-operation result with a message.
func NoOpWithMessage(msg string) Result {
	return Result{Status: StatusNoOp, Message: msg}
}

// Error creates an error result.
func Error(err error) Result {
	return Result{Status: StatusError, Error: err}
}

// Errorf creates an error result with a formatted message.
func Errorf(format string, args ...any) Result {
	return Result{
		Status: StatusError,
		Error:  fmt.Errorf(format, args...),
	}
}

// Cancelled creates a cancelled result.
func Cancelled() Result {
	return Result{Status: StatusCancelled}
}

// CancelledWithMessage creates a cancelled result with a message.
func CancelledWithMessage(msg string) Result {
	return Result{Status: StatusCancelled, Message: msg}
}

// WithMessage returns a copy of the result with the specified message.
func (r Result) WithMessage(msg string) Result {
	r.Message = msg
	return r
}

// WithData returns a copy of the result with data added.
func (r Result) WithData(key string, value any) Result {
	data := make(map[string]any, len(r.Data)+1)
	for k, v := range r.Data {
		data[k] = v
	}
	data[key] = value
	r.Data = data
	return r
}

// GetData retrieves a value from the result data.
func (r Result) GetData(key string) (any, bool) {
	if r.Data == nil {
		return nil, false
	}
	v, ok := r.Data[key]
	return v, ok
}

// GetDataInt retrieves an integer from the result data. Values decoded
// from JSON arrive as float64 and are truncated.
func (r Result) GetDataInt(key string) int {
	if v, ok := r.GetData(key); ok {
		switch n := v.(type) {
		case int:
			return n
		case int64:
			return int(n)
		case float64:
			return int(n)
		}
	}
	return 0
}
