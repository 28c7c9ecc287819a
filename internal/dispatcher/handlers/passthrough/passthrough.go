package passthrough

import (
	"fmt"

	"github.com/dshills/keymotion/internal/dispatcher/execctx"
	"github.com/dshills/keymotion/internal/dispatcher/handler"
	"github.com/dshills/keymotion/internal/dispatcher/request"
)

// Command names handled here.
const (
	CommandBatch     = request.CommandBatch
	CommandIncrement = request.CommandIncrement
)

// Logger receives a line per forwarded command.
type Logger interface {
	Debug(msg string, args ...any)
}

// Handler implements the commands batch and increment.
type Handler struct {
	logger Logger
}

// NewHandler creates a new passthrough handler. logger may be nil.
func NewHandler(logger Logger) *Handler {
	return &Handler{logger: logger}
}

// Commands returns the command names this handler serves.
func (h *Handler) Commands() []string {
	return []string{CommandBatch, CommandIncrement}
}

// CanHandle returns true if this handler can process the command.
func (h *Handler) CanHandle(command string) bool {
	return command == CommandBatch || command == CommandIncrement
}

// Priority returns the handler priority.
func (h *Handler) Priority() int {
	return 0
}

// Handle processes a passthrough command.
func (h *Handler) Handle(req request.Request, ctx *execctx.ExecutionContext) handler.Result {
	switch req.Command {
	case CommandBatch:
		return h.batch(req, ctx)
	case CommandIncrement:
		return h.increment(ctx)
	default:
		return handler.Errorf("unknown passthrough command: %s", req.Command)
	}
}

// batch runs every host command in order and stops at the first failure.
func (h *Handler) batch(req request.Request, ctx *execctx.ExecutionContext) handler.Result {
	if len(req.Commands) == 0 {
		return handler.NoOpWithMessage("no commands")
	}
	if err := ctx.ValidateForCommands(); err != nil {
		return handler.Error(err)
	}

	for i, call := range req.Commands {
		args := call.Args
		if args == nil {
			args = map[string]any{}
		}
		if h.logger != nil {
			h.logger.Debug("executing command %s %v", call.Command, args)
		}
		if err := ctx.Commands.ExecuteCommand(ctx.Ctx(), call.Command, args); err != nil {
			return handler.Error(fmt.Errorf("command %d (%s): %w", i, call.Command, err)).
				WithData("executed", i)
		}
	}

	return handler.Success().WithData("executed", len(req.Commands))
}

// increment forwards to the host at the start of the primary selection.
func (h *Handler) increment(ctx *execctx.ExecutionContext) handler.Result {
	if err := ctx.ValidateForIncrement(); err != nil {
		return handler.Error(err)
	}

	sels := ctx.Editor.Selections()
	if len(sels) == 0 {
		return handler.NoOpWithMessage("no selection")
	}

	if err := ctx.Incrementer.IncrementAt(ctx.Ctx(), sels[0].Start()); err != nil {
		return handler.Error(fmt.Errorf("increment: %w", err))
	}
	return handler.Success()
}
