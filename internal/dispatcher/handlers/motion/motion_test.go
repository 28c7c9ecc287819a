package motion_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dshills/keymotion/internal/dispatcher/execctx"
	"github.com/dshills/keymotion/internal/dispatcher/handler"
	motionhandler "github.com/dshills/keymotion/internal/dispatcher/handlers/motion"
	"github.com/dshills/keymotion/internal/dispatcher/request"
	"github.com/dshills/keymotion/internal/engine"
	"github.com/dshills/keymotion/internal/engine/buffer"
	"github.com/dshills/keymotion/internal/engine/cursor"
	"github.com/dshills/keymotion/internal/motion"
)

func pt(line, char int) buffer.Point {
	return buffer.NewPoint(line, char)
}

func newContext(e execctx.Editor) *execctx.ExecutionContext {
	return execctx.New().WithEditor(e)
}

// recordingEditor wraps an engine and records the order of host calls.
type recordingEditor struct {
	*engine.Engine
	calls   []string
	editErr error
}

func (r *recordingEditor) SetSelections(sels []cursor.Selection) {
	r.calls = append(r.calls, "setSelections")
	r.Engine.SetSelections(sels)
}

func (r *recordingEditor) Edit(ctx context.Context, fn func(tx buffer.EditTx)) error {
	r.calls = append(r.calls, "edit")
	if r.editErr != nil {
		return r.editErr
	}
	return r.Engine.Edit(ctx, fn)
}

func TestHandlerCanHandle(t *testing.T) {
	h := motionhandler.NewHandler()

	for _, cmd := range h.Commands() {
		if !h.CanHandle(cmd) {
			t.Errorf("expected CanHandle(%q)", cmd)
		}
	}
	if h.CanHandle("commands") {
		t.Error("motion handler should not handle commands")
	}
}

func TestMove(t *testing.T) {
	e := engine.New(
		engine.WithContent("hello world"),
		engine.WithSelections(cursor.NewSelection(pt(0, 6), pt(0, 0))),
	)
	h := motionhandler.NewHandler()

	result := h.Handle(request.Motion(motionhandler.CommandMove, motion.Letter("o")), newContext(e))
	if !result.IsOK() {
		t.Fatalf("expected OK, got %v: %v", result.Status, result.Error)
	}

	got := e.Selections()
	if len(got) != 1 || got[0] != cursor.NewCursorSelection(pt(0, 4)) {
		t.Errorf("expected collapsed cursor at (0:4), got %v", got)
	}
}

func TestMoveMultiCursor(t *testing.T) {
	e := engine.New(
		engine.WithContent("foo bar\nbaz"),
		engine.WithSelections(
			cursor.NewCursorSelection(pt(1, 0)),
			cursor.NewCursorSelection(pt(0, 0)),
			cursor.NewCursorSelection(pt(0, 2)),
		),
	)

	result := motionhandler.NewHandler().Handle(request.Motion(motionhandler.CommandMove, motion.LineEnd()), newContext(e))
	if !result.IsOK() {
		t.Fatalf("unexpected result %v: %v", result.Status, result.Error)
	}

	want := []buffer.Point{pt(1, 3), pt(0, 7), pt(0, 7)}
	got := e.Selections()
	if len(got) != len(want) {
		t.Fatalf("expected %d selections, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].Active != want[i] || !got[i].IsEmpty() {
			t.Errorf("selection %d: got %s, want cursor at %s", i, got[i], want[i])
		}
	}
}

func TestSelectKeepsAnchors(t *testing.T) {
	before := []cursor.Selection{
		cursor.NewSelection(pt(0, 1), pt(0, 2)),
		cursor.NewCursorSelection(pt(1, 0)),
	}
	e := engine.New(engine.WithContent("a.b.c\nx.y"), engine.WithSelections(before...))

	result := motionhandler.NewHandler().Handle(request.Motion(motionhandler.CommandSelect, motion.AfterLetter(".")), newContext(e))
	if !result.IsOK() {
		t.Fatalf("unexpected result %v: %v", result.Status, result.Error)
	}

	after := e.Selections()
	for i := range before {
		if after[i].Anchor != before[i].Anchor {
			t.Errorf("selection %d: anchor moved from %s to %s", i, before[i].Anchor, after[i].Anchor)
		}
	}
	if after[0].Active != pt(0, 4) {
		t.Errorf("expected active (0:4), got %s", after[0].Active)
	}
	if after[1].Active != pt(1, 2) {
		t.Errorf("expected active (1:2), got %s", after[1].Active)
	}
}

func TestDeleteWordInside(t *testing.T) {
	sel := cursor.NewCursorSelection(pt(0, 0))
	e := engine.New(engine.WithContent("foo bar"), engine.WithSelections(sel))

	result := motionhandler.NewHandler().Handle(request.Motion(motionhandler.CommandDelete, motion.Word(true)), newContext(e))
	if !result.IsOK() {
		t.Fatalf("unexpected result %v: %v", result.Status, result.Error)
	}

	if e.Text() != " bar" {
		t.Errorf("expected ' bar', got %q", e.Text())
	}
	got := e.Selections()
	if len(got) != 1 || got[0] != sel {
		t.Errorf("expected selections unchanged, got %v", got)
	}
}

func TestDeleteRestoresSnapshotExactly(t *testing.T) {
	before := []cursor.Selection{
		cursor.NewSelection(pt(0, 0), pt(0, 4)),
		cursor.NewCursorSelection(pt(1, 1)),
	}
	e := engine.New(engine.WithContent("one two three\nabcabc"), engine.WithSelections(before...))

	result := motionhandler.NewHandler().Handle(request.Motion(motionhandler.CommandDelete, motion.Letter("c")), newContext(e))
	if !result.IsOK() {
		t.Fatalf("unexpected result %v: %v", result.Status, result.Error)
	}

	// "one two three": active (0:4) finds no 'c', empty range.
	// "abcabc": active (1:1) to the 'c' at (1:2).
	if e.Text() != "one two three\nacabc" {
		t.Errorf("unexpected text %q", e.Text())
	}
	if result.GetDataInt("ranges") != 2 {
		t.Errorf("expected 2 ranges, got %d", result.GetDataInt("ranges"))
	}

	after := e.Selections()
	for i := range before {
		if after[i] != before[i] {
			t.Errorf("selection %d: got %s, want %s", i, after[i], before[i])
		}
	}
}

func TestDeleteAgainAfterRestoredCursorsPassLineEnd(t *testing.T) {
	e := engine.New(
		engine.WithContent("foo bar"),
		engine.WithSelections(
			cursor.NewCursorSelection(pt(0, 0)),
			cursor.NewCursorSelection(pt(0, 4)),
		),
	)
	h := motionhandler.NewHandler()

	result := h.Handle(request.Motion(motionhandler.CommandDelete, motion.Word(true)), newContext(e))
	if !result.IsOK() {
		t.Fatalf("first delete: %v: %v", result.Status, result.Error)
	}
	if e.Text() != " " {
		t.Fatalf("expected ' ', got %q", e.Text())
	}
	// The restored second cursor now sits past the end of the line.
	if got := e.Selections()[1].Active; got != pt(0, 4) {
		t.Fatalf("expected restored cursor at 0:4, got %s", got)
	}

	result = h.Handle(request.Motion(motionhandler.CommandDelete, motion.LineEnd()), newContext(e))
	if !result.IsOK() {
		t.Fatalf("second delete: %v: %v", result.Status, result.Error)
	}
	if e.Text() != "" {
		t.Errorf("expected empty text, got %q", e.Text())
	}
}

func TestDeleteMultiCursorOneTransaction(t *testing.T) {
	var txs int
	e := engine.New(
		engine.WithContent("aa bb cc"),
		engine.WithSelections(
			cursor.NewCursorSelection(pt(0, 0)),
			cursor.NewCursorSelection(pt(0, 6)),
		),
		engine.WithEditObserver(func(engine.TxResult) { txs++ }),
	)

	result := motionhandler.NewHandler().Handle(request.Motion(motionhandler.CommandDelete, motion.Word(false)), newContext(e))
	if !result.IsOK() {
		t.Fatalf("unexpected result %v: %v", result.Status, result.Error)
	}

	if e.Text() != "bb " {
		t.Errorf("expected 'bb ', got %q", e.Text())
	}
	if txs != 1 {
		t.Errorf("expected one transaction, got %d", txs)
	}
}

func TestDeleteRestoreHappensAfterEdit(t *testing.T) {
	ed := &recordingEditor{Engine: engine.New(engine.WithContent("foo bar"))}

	result := motionhandler.NewHandler().Handle(request.Motion(motionhandler.CommandDelete, motion.LineEnd()), newContext(ed))
	if !result.IsOK() {
		t.Fatalf("unexpected result %v: %v", result.Status, result.Error)
	}

	if len(ed.calls) != 2 || ed.calls[0] != "edit" || ed.calls[1] != "setSelections" {
		t.Errorf("unexpected call order %v", ed.calls)
	}
}

func TestDeleteEditFailureLeavesSelections(t *testing.T) {
	boom := errors.New("transaction rejected")
	ed := &recordingEditor{Engine: engine.New(engine.WithContent("foo bar")), editErr: boom}

	result := motionhandler.NewHandler().Handle(request.Motion(motionhandler.CommandDelete, motion.LineEnd()), newContext(ed))
	if !result.IsError() || !errors.Is(result.Error, boom) {
		t.Fatalf("expected wrapped edit error, got %v", result.Error)
	}
	for _, c := range ed.calls {
		if c == "setSelections" {
			t.Error("selections must not be restored when the edit fails")
		}
	}
}

func TestUnknownKindAbortsBeforeMutation(t *testing.T) {
	commands := []string{motionhandler.CommandMove, motionhandler.CommandSelect, motionhandler.CommandDelete}

	for _, cmd := range commands {
		ed := &recordingEditor{Engine: engine.New(engine.WithContent("foo bar"))}
		spec := motion.Spec{Kind: motion.Kind(77)}

		result := motionhandler.NewHandler().Handle(request.Motion(cmd, spec), newContext(ed))

		if !errors.Is(result.Error, motion.ErrUnknownMotion) {
			t.Errorf("%s: expected ErrUnknownMotion, got %v", cmd, result.Error)
		}
		if len(ed.calls) != 0 {
			t.Errorf("%s: host mutated before failure: %v", cmd, ed.calls)
		}
		if ed.Text() != "foo bar" {
			t.Errorf("%s: buffer changed", cmd)
		}
	}
}

func TestMissingMovement(t *testing.T) {
	e := engine.New()

	result := motionhandler.NewHandler().Handle(request.New(motionhandler.CommandMove), newContext(e))
	if !errors.Is(result.Error, motionhandler.ErrMissingMovement) {
		t.Errorf("expected ErrMissingMovement, got %v", result.Error)
	}
}

func TestMissingEditor(t *testing.T) {
	result := motionhandler.NewHandler().Handle(request.Motion(motionhandler.CommandMove, motion.LineEnd()), execctx.New())

	if result.Status != handler.StatusError || !errors.Is(result.Error, execctx.ErrMissingEditor) {
		t.Errorf("expected ErrMissingEditor, got %v", result.Error)
	}
}
