package execctx

import "errors"

// Context validation errors.
var (
	// ErrMissingEditor indicates the editor is required but not set.
	ErrMissingEditor = errors.New("execution context: editor is required")

	// ErrMissingCommands indicates the command executor is required but not set.
	ErrMissingCommands = errors.New("execution context: command executor is required")

	// ErrMissingIncrementer indicates the incrementer is required but not set.
	ErrMissingIncrementer = errors.New("execution context: incrementer is required")
)
