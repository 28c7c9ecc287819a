// Package execctx provides the execution context for command handlers.
package execctx

import (
	"context"

	"github.com/dshills/keymotion/internal/engine/buffer"
	"github.com/dshills/keymotion/internal/engine/cursor"
	"github.com/dshills/keymotion/internal/motion"
)

// Editor abstracts the host editor for handlers.
type Editor interface {
	// Read operations used by motion resolution.
	motion.TextBuffer

	// Selections returns every selection in order.
	Selections() []cursor.Selection

	// SetSelections replaces every selection.
	SetSelections(sels []cursor.Selection)

	// Edit runs fn and applies the queued edits atomically.
	Edit(ctx context.Context, fn func(tx buffer.EditTx)) error
}

// CommandExecutor runs named host commands.
type CommandExecutor interface {
	ExecuteCommand(ctx context.Context, name string, args map[string]any) error
}

// Incrementer performs the host's numeric increment action.
type Incrementer interface {
	IncrementAt(ctx context.Context, p buffer.Point) error
}

// ExecutionContext provides context for command execution.
// It contains references to the host subsystems handlers may need.
type ExecutionContext struct {
	// Context carries cancellation for blocking host calls.
	Context context.Context

	// Editor provides access to the buffer and selections.
	Editor Editor

	// Commands runs host commands.
	Commands CommandExecutor

	// Incrementer performs numeric increments.
	Incrementer Incrementer

	// Data holds handler-specific context data.
	Data map[string]any
}

// New creates a new execution context.
func New() *ExecutionContext {
	return &ExecutionContext{
		Context: context.Background(),
		Data:    make(map[string]any),
	}
}

// WithContext returns the context with the Go context set.
func (ctx *ExecutionContext) WithContext(c context.Context) *ExecutionContext {
	if c != nil {
		ctx.Context = c
	}
	return ctx
}

// WithEditor returns the context with the editor set.
func (ctx *ExecutionContext) WithEditor(editor Editor) *ExecutionContext {
	ctx.Editor = editor
	return ctx
}

// WithCommands returns the context with the command executor set.
func (ctx *ExecutionContext) WithCommands(commands CommandExecutor) *ExecutionContext {
	ctx.Commands = commands
	return ctx
}

// WithIncrementer returns the context with the incrementer set.
func (ctx *ExecutionContext) WithIncrementer(inc Incrementer) *ExecutionContext {
	ctx.Incrementer = inc
	return ctx
}

// Ctx returns the Go context, never nil.
func (ctx *ExecutionContext) Ctx() context.Context {
	if ctx.Context == nil {
		return context.Background()
	}
	return ctx.Context
}

// SetData sets a context data value.
func (ctx *ExecutionContext) SetData(key string, value any) {
	if ctx.Data == nil {
		ctx.Data = make(map[string]any)
	}
	ctx.Data[key] = value
}

// GetData retrieves a context data value.
func (ctx *ExecutionContext) GetData(key string) (any, bool) {
	if ctx.Data == nil {
		return nil, false
	}
	v, ok := ctx.Data[key]
	return v, ok
}

// Validate checks that the context has an editor.
func (ctx *ExecutionContext) Validate() error {
	if ctx.Editor == nil {
		return ErrMissingEditor
	}
	return nil
}

// ValidateForCommands checks that the context can run host commands.
func (ctx *ExecutionContext) ValidateForCommands() error {
	if ctx.Commands == nil {
		return ErrMissingCommands
	}
	return nil
}

// ValidateForIncrement checks that the context can increment numbers.
func (ctx *ExecutionContext) ValidateForIncrement() error {
	if err := ctx.Validate(); err != nil {
		return err
	}
	if ctx.Incrementer == nil {
		return ErrMissingIncrementer
	}
	return nil
}
