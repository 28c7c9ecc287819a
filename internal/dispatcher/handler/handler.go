// Package handler provides the handler interface and types for command dispatch.
package handler

import (
	"github.com/dshills/keymotion/internal/dispatcher/execctx"
	"github.com/dshills/keymotion/internal/dispatcher/request"
)

// Handler processes a specific command or set of commands.
type Handler interface {
	// Handle executes the request and returns a result.
	Handle(req request.Request, ctx *execctx.ExecutionContext) Result

	// CanHandle returns true if this handler can process the command.
	CanHandle(command string) bool

	// Priority returns the handler priority (higher = checked first).
	Priority() int
}

// HandlerFunc is a function adapter for Handler interface.
// It allows using a simple function as a Handler.
type HandlerFunc struct {
	fn   func(req request.Request, ctx *execctx.ExecutionContext) Result
	prio int
}

// NewHandlerFunc creates a HandlerFunc from a function.
func NewHandlerFunc(fn func(req request.Request, ctx *execctx.ExecutionContext) Result) *HandlerFunc {
	return &HandlerFunc{fn: fn, prio: 0}
}

// NewHandlerFuncWithPriority creates a HandlerFunc with a specified priority.
func NewHandlerFuncWithPriority(fn func(req request.Request, ctx *execctx.ExecutionContext) Result, priority int) *HandlerFunc {
	return &HandlerFunc{fn: fn, prio: priority}
}

// Handle implements Handler.Handle.
func (f *HandlerFunc) Handle(req request.Request, ctx *execctx.ExecutionContext) Result {
	if f.fn == nil {
		return Errorf("handler function is nil")
	}
	return f.fn(req, ctx)
}

// CanHandle implements Handler.CanHandle.
// HandlerFunc always returns true; caller must ensure correct routing.
func (f *HandlerFunc) CanHandle(command string) bool {
	return true
}

// Priority implements Handler.Priority.
func (f *HandlerFunc) Priority() int {
	return f.prio
}

// Set groups several commands behind one handler.
// Each command maps to its own function.
type Set struct {
	name     string
	commands map[string]func(req request.Request, ctx *execctx.ExecutionContext) Result
}

// NewSet creates an empty handler set.
func NewSet(name string) *Set {
	return &Set{
		name:     name,
		commands: make(map[string]func(req request.Request, ctx *execctx.ExecutionContext) Result),
	}
}

// Register registers a function for a command name.
func (s *Set) Register(command string, fn func(req request.Request, ctx *execctx.ExecutionContext) Result) {
	s.commands[command] = fn
}

// Name returns the set name.
func (s *Set) Name() string {
	return s.name
}

// Commands returns the registered command names.
func (s *Set) Commands() []string {
	names := make([]string, 0, len(s.commands))
	for name := range s.commands {
		names = append(names, name)
	}
	return names
}

// CanHandle implements Handler.CanHandle.
func (s *Set) CanHandle(command string) bool {
	_, ok := s.commands[command]
	return ok
}

// Priority implements Handler.Priority.
func (s *Set) Priority() int {
	return 0
}

// Handle implements Handler.Handle.
func (s *Set) Handle(req request.Request, ctx *execctx.ExecutionContext) Result {
	fn, ok := s.commands[req.Command]
	if !ok {
		return Errorf("unknown command in %s: %s", s.name, req.Command)
	}
	return fn(req, ctx)
}
