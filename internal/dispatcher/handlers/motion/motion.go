package motion

import (
	"errors"
	"fmt"

	"github.com/dshills/keymotion/internal/dispatcher/execctx"
	"github.com/dshills/keymotion/internal/dispatcher/handler"
	"github.com/dshills/keymotion/internal/dispatcher/request"
	"github.com/dshills/keymotion/internal/engine/buffer"
	"github.com/dshills/keymotion/internal/engine/cursor"
	"github.com/dshills/keymotion/internal/motion"
)

// Command names handled here.
const (
	CommandMove   = request.CommandMove
	CommandSelect = request.CommandSelect
	CommandDelete = request.CommandDelete
)

// ErrMissingMovement indicates a motion command without a movement.
var ErrMissingMovement = errors.New("motion command requires a movement")

// Handler implements the move, select and delete commands.
type Handler struct{}

// NewHandler creates a new motion handler.
func NewHandler() *Handler {
	return &Handler{}
}

// Commands returns the command names this handler serves.
func (h *Handler) Commands() []string {
	return []string{CommandMove, CommandSelect, CommandDelete}
}

// CanHandle returns true if this handler can process the command.
func (h *Handler) CanHandle(command string) bool {
	switch command {
	case CommandMove, CommandSelect, CommandDelete:
		return true
	}
	return false
}

// Priority returns the handler priority.
func (h *Handler) Priority() int {
	return 0
}

// Handle processes a motion command.
func (h *Handler) Handle(req request.Request, ctx *execctx.ExecutionContext) handler.Result {
	if err := ctx.Validate(); err != nil {
		return handler.Error(err)
	}
	if req.Movement == nil {
		return handler.Error(fmt.Errorf("%s: %w", req.Command, ErrMissingMovement))
	}
	spec := *req.Movement

	switch req.Command {
	case CommandMove:
		return h.move(ctx, spec)
	case CommandSelect:
		return h.selectTo(ctx, spec)
	case CommandDelete:
		return h.delete(ctx, spec)
	default:
		return handler.Errorf("unknown motion command: %s", req.Command)
	}
}

// move collapses every selection onto its resolved target.
func (h *Handler) move(ctx *execctx.ExecutionContext, spec motion.Spec) handler.Result {
	ed := ctx.Editor

	targets, err := motion.Positions(ed, ed.Selections(), spec)
	if err != nil {
		return handler.Error(err)
	}

	sels := make([]cursor.Selection, len(targets))
	for i, p := range targets {
		sels[i] = cursor.NewCursorSelection(p)
	}
	ed.SetSelections(sels)

	return handler.Success().WithData("cursors", len(sels))
}

// selectTo moves the active point of every selection, keeping anchors.
func (h *Handler) selectTo(ctx *execctx.ExecutionContext, spec motion.Spec) handler.Result {
	ed := ctx.Editor

	sels, err := motion.Selections(ed, ed.Selections(), spec)
	if err != nil {
		return handler.Error(err)
	}
	ed.SetSelections(sels)

	return handler.Success().WithData("cursors", len(sels))
}

// delete removes the span from every active point to its target.
// The pre-edit selections are restored only after the edit has landed.
func (h *Handler) delete(ctx *execctx.ExecutionContext, spec motion.Spec) handler.Result {
	ed := ctx.Editor
	snapshot := ed.Selections()

	ranges, err := motion.Ranges(ed, snapshot, spec)
	if err != nil {
		return handler.Error(err)
	}

	err = ed.Edit(ctx.Ctx(), func(tx buffer.EditTx) {
		for _, r := range ranges {
			tx.Delete(r)
		}
	})
	if err != nil {
		return handler.Error(fmt.Errorf("delete: %w", err))
	}

	ed.SetSelections(snapshot)

	return handler.Success().WithData("ranges", len(ranges))
}
