package passthrough_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dshills/keymotion/internal/dispatcher/execctx"
	"github.com/dshills/keymotion/internal/dispatcher/handler"
	"github.com/dshills/keymotion/internal/dispatcher/handlers/passthrough"
	"github.com/dshills/keymotion/internal/dispatcher/request"
	"github.com/dshills/keymotion/internal/engine"
	"github.com/dshills/keymotion/internal/engine/buffer"
	"github.com/dshills/keymotion/internal/engine/cursor"
)

type call struct {
	name string
	args map[string]any
}

type fakeCommands struct {
	calls  []call
	failOn string
}

func (f *fakeCommands) ExecuteCommand(ctx context.Context, name string, args map[string]any) error {
	f.calls = append(f.calls, call{name, args})
	if name == f.failOn {
		return errors.New("command failed")
	}
	return nil
}

type debugLog struct {
	lines int
}

func (d *debugLog) Debug(msg string, args ...any) {
	d.lines++
}

func TestBatchRunsInOrder(t *testing.T) {
	cmds := &fakeCommands{}
	log := &debugLog{}
	ctx := execctx.New().WithCommands(cmds)

	req := request.Batch(
		request.CommandCall{Command: "save", Args: map[string]any{"all": true}},
		request.CommandCall{Command: "format"},
	)
	result := passthrough.NewHandler(log).Handle(req, ctx)

	if !result.IsOK() {
		t.Fatalf("unexpected result %v: %v", result.Status, result.Error)
	}
	if len(cmds.calls) != 2 || cmds.calls[0].name != "save" || cmds.calls[1].name != "format" {
		t.Fatalf("unexpected calls %v", cmds.calls)
	}
	if cmds.calls[0].args["all"] != true {
		t.Errorf("args not forwarded: %v", cmds.calls[0].args)
	}
	if cmds.calls[1].args == nil {
		t.Error("missing args should default to an empty map")
	}
	if log.lines != 2 {
		t.Errorf("expected 2 debug lines, got %d", log.lines)
	}
}

func TestBatchStopsAtFailure(t *testing.T) {
	cmds := &fakeCommands{failOn: "b"}
	ctx := execctx.New().WithCommands(cmds)

	req := request.Batch(
		request.CommandCall{Command: "a"},
		request.CommandCall{Command: "b"},
		request.CommandCall{Command: "c"},
	)
	result := passthrough.NewHandler(nil).Handle(req, ctx)

	if !result.IsError() {
		t.Fatalf("expected error, got %v", result.Status)
	}
	if len(cmds.calls) != 2 {
		t.Errorf("expected execution to stop after b, got %v", cmds.calls)
	}
	if result.GetDataInt("executed") != 1 {
		t.Errorf("expected 1 executed, got %d", result.GetDataInt("executed"))
	}
}

func TestBatchEmpty(t *testing.T) {
	result := passthrough.NewHandler(nil).Handle(request.Batch(), execctx.New())

	if result.Status != handler.StatusNoOp {
		t.Errorf("expected no-op, got %v", result.Status)
	}
}

func TestBatchWithoutExecutor(t *testing.T) {
	req := request.Batch(request.CommandCall{Command: "save"})
	result := passthrough.NewHandler(nil).Handle(req, execctx.New())

	if !errors.Is(result.Error, execctx.ErrMissingCommands) {
		t.Errorf("expected ErrMissingCommands, got %v", result.Error)
	}
}

type recordingIncrementer struct {
	at buffer.Point
}

func (r *recordingIncrementer) IncrementAt(ctx context.Context, p buffer.Point) error {
	r.at = p
	return nil
}

func TestIncrementUsesPrimarySelectionStart(t *testing.T) {
	e := engine.New(
		engine.WithContent("a 1 2"),
		engine.WithSelections(
			cursor.NewSelection(buffer.NewPoint(0, 4), buffer.NewPoint(0, 2)),
			cursor.NewCursorSelection(buffer.NewPoint(0, 0)),
		),
	)
	inc := &recordingIncrementer{}
	ctx := execctx.New().WithEditor(e).WithIncrementer(inc)

	result := passthrough.NewHandler(nil).Handle(request.New(passthrough.CommandIncrement), ctx)
	if !result.IsOK() {
		t.Fatalf("unexpected result %v: %v", result.Status, result.Error)
	}
	if inc.at != buffer.NewPoint(0, 2) {
		t.Errorf("expected increment at (0:2), got %s", inc.at)
	}
}

func TestIncrementWithEngine(t *testing.T) {
	e := engine.New(engine.WithContent("x = 9"))
	ctx := execctx.New().WithEditor(e).WithIncrementer(e)

	result := passthrough.NewHandler(nil).Handle(request.New(passthrough.CommandIncrement), ctx)
	if !result.IsOK() {
		t.Fatalf("unexpected result %v: %v", result.Status, result.Error)
	}
	if e.Text() != "x = 10" {
		t.Errorf("expected 'x = 10', got %q", e.Text())
	}
}

func TestIncrementFailure(t *testing.T) {
	e := engine.New(engine.WithContent("no digits"))
	ctx := execctx.New().WithEditor(e).WithIncrementer(e)

	result := passthrough.NewHandler(nil).Handle(request.New(passthrough.CommandIncrement), ctx)
	if !errors.Is(result.Error, engine.ErrNoNumber) {
		t.Errorf("expected ErrNoNumber, got %v", result.Error)
	}
}
