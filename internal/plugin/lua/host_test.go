package lua

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/tidwall/gjson"
)

type recordLogger struct {
	lines []string
}

func (l *recordLogger) Debug(msg string, args ...any) {
	l.lines = append(l.lines, fmt.Sprintf(msg, args...))
}

func newTestHost(t *testing.T, code string, opts ...HostOption) *Host {
	t.Helper()
	h := NewHost(nil, opts...)
	t.Cleanup(func() { h.Close() })
	if err := h.LoadString(context.Background(), "test.lua", code); err != nil {
		t.Fatalf("LoadString() error = %v", err)
	}
	return h
}

func TestHostExecuteCommand(t *testing.T) {
	h := newTestHost(t, `
calls = {}
function save(args)
    calls[#calls + 1] = tostring(args.force) .. ":" .. tostring(args.n)
end
function count_calls()
    return #calls
end
`)

	err := h.ExecuteCommand(context.Background(), "save", map[string]any{"force": true, "n": float64(2)})
	if err != nil {
		t.Fatalf("ExecuteCommand() error = %v", err)
	}

	results, err := h.state.Call(context.Background(), "count_calls")
	if err != nil || len(results) != 1 || results[0].String() != "1" {
		t.Fatalf("count_calls = %v, %v", results, err)
	}
	v := h.state.LuaState().GetGlobal("calls")
	got := h.bridge.ToGoValue(v)
	if !reflect.DeepEqual(got, []any{"true:2"}) {
		t.Errorf("calls = %#v", got)
	}
}

func TestHostExecuteCommandNilArgs(t *testing.T) {
	h := newTestHost(t, `
function check(args)
    assert(type(args) == "table")
    assert(next(args) == nil)
end
`)

	if err := h.ExecuteCommand(context.Background(), "check", nil); err != nil {
		t.Errorf("ExecuteCommand() error = %v", err)
	}
}

func TestHostCommandFailures(t *testing.T) {
	h := newTestHost(t, `
function ok_nil() return nil end
function ok_true() return true end
function fail_false() return false end
function fail_msg() return nil, "disk full" end
function fail_raise() error("boom") end
`)

	tests := []struct {
		name    string
		wantErr bool
		msg     string
	}{
		{"ok_nil", false, ""},
		{"ok_true", false, ""},
		{"fail_false", true, "lua command fail_false: command failed"},
		{"fail_msg", true, "lua command fail_msg: disk full"},
		{"fail_raise", true, "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := h.ExecuteCommand(context.Background(), tt.name, nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				return
			}
			var cerr *CommandError
			if !errors.As(err, &cerr) || cerr.Command != tt.name {
				t.Errorf("expected *CommandError for %s, got %v", tt.name, err)
			}
			if !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("error %q does not contain %q", err, tt.msg)
			}
		})
	}
}

func TestHostUnknownCommand(t *testing.T) {
	h := newTestHost(t, ``)

	err := h.ExecuteCommand(context.Background(), "nope", nil)
	if !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("expected ErrUnknownCommand, got %v", err)
	}
}

func TestHostCommands(t *testing.T) {
	h := newTestHost(t, `
function zeta() end
function alpha() end
local function hidden() end
`)

	if got := h.Commands(); !reflect.DeepEqual(got, []string{"alpha", "zeta"}) {
		t.Errorf("Commands() = %v", got)
	}
	if !h.HasCommand("alpha") || h.HasCommand("hidden") || h.HasCommand("print") {
		t.Error("HasCommand() mismatch")
	}
}

func TestHostDispatch(t *testing.T) {
	var got []string
	d := DispatcherFunc(func(_ context.Context, data []byte) error {
		got = append(got, string(data))
		return nil
	})

	h := newTestHost(t, `
function to_end()
    assert(keymotion.dispatch({command = "move", movement = {kind = "afterLetter", letter = ",", count = 2}}))
    local km = require("keymotion")
    assert(km.dispatch('{"command":"increment"}'))
end
`, WithDispatcher(d))

	if err := h.ExecuteCommand(context.Background(), "to_end", nil); err != nil {
		t.Fatalf("ExecuteCommand() error = %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 dispatches, got %v", got)
	}
	req := gjson.Parse(got[0])
	if req.Get("command").String() != "move" ||
		req.Get("movement.kind").String() != "afterLetter" ||
		req.Get("movement.letter").String() != "," ||
		req.Get("movement.count").Int() != 2 {
		t.Errorf("unexpected request %s", got[0])
	}
	if got[1] != `{"command":"increment"}` {
		t.Errorf("string request changed: %s", got[1])
	}
}

func TestHostDispatchError(t *testing.T) {
	d := DispatcherFunc(func(context.Context, []byte) error {
		return errors.New("Unknown movement: x")
	})

	h := newTestHost(t, `
function try()
    local ok, msg = keymotion.dispatch({command = "move"})
    assert(ok == nil)
    return nil, "dispatch: " .. msg
end
`, WithDispatcher(d))

	err := h.ExecuteCommand(context.Background(), "try", nil)
	if err == nil || !strings.Contains(err.Error(), "dispatch: Unknown movement: x") {
		t.Errorf("unexpected error %v", err)
	}
}

func TestHostDispatchWithoutDispatcher(t *testing.T) {
	h := newTestHost(t, `
function try()
    local ok, msg = keymotion.dispatch({command = "increment"})
    return ok, msg
end
`)

	err := h.ExecuteCommand(context.Background(), "try", nil)
	if err == nil || !strings.Contains(err.Error(), ErrNoDispatcher.Error()) {
		t.Errorf("expected no dispatcher error, got %v", err)
	}
}

func TestHostReentrantCommand(t *testing.T) {
	var h *Host
	d := DispatcherFunc(func(ctx context.Context, _ []byte) error {
		// a commands batch that targets the same host
		return h.ExecuteCommand(ctx, "inner", nil)
	})

	h = newTestHost(t, `
function inner() end
function outer()
    return keymotion.dispatch({command = "commands", commands = {{command = "inner"}}})
end
`, WithDispatcher(d))

	err := h.ExecuteCommand(context.Background(), "outer", nil)
	if err == nil || !strings.Contains(err.Error(), ErrReentrant.Error()) {
		t.Errorf("expected reentrancy error, got %v", err)
	}

	// the host is still usable afterwards
	if err := h.ExecuteCommand(context.Background(), "inner", nil); err != nil {
		t.Errorf("inner after reentrancy: %v", err)
	}
}

func TestHostLog(t *testing.T) {
	logger := &recordLogger{}
	h := newTestHost(t, `function hello() keymotion.log("hi", 3, true) end`, WithLogger(logger))

	if err := h.ExecuteCommand(context.Background(), "hello", nil); err != nil {
		t.Fatal(err)
	}

	found := false
	for _, line := range logger.lines {
		if line == "lua: hi 3 true" {
			found = true
		}
	}
	if !found {
		t.Errorf("log line missing: %v", logger.lines)
	}
}

func TestHostLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "commands.lua")
	if err := os.WriteFile(path, []byte(`function format() end`), 0o644); err != nil {
		t.Fatal(err)
	}

	h := NewHost(nil)
	defer h.Close()

	if err := h.LoadFile(context.Background(), path); err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if !h.HasCommand("format") {
		t.Error("format not registered")
	}
	if got := h.Scripts(); len(got) != 1 || got[0] != path {
		t.Errorf("Scripts() = %v", got)
	}

	if err := h.LoadFile(context.Background(), filepath.Join(dir, "missing.lua")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestHostLoadSyntaxError(t *testing.T) {
	h := NewHost(nil)
	defer h.Close()

	err := h.LoadString(context.Background(), "bad.lua", `function (`)
	if err == nil || !strings.HasPrefix(err.Error(), "load bad.lua:") {
		t.Errorf("unexpected error %v", err)
	}
	if len(h.Scripts()) != 0 {
		t.Error("failed script was recorded")
	}
}

func TestEncodeRequest(t *testing.T) {
	data, err := encodeRequest(map[string]any{
		"command":  "commands",
		"commands": []any{map[string]any{"command": "save", "args": map[string]any{"a.b": int64(1)}}},
	})
	if err != nil {
		t.Fatal(err)
	}

	v := gjson.ParseBytes(data)
	if v.Get("command").String() != "commands" || v.Get("commands.0.command").String() != "save" {
		t.Errorf("unexpected encoding %s", data)
	}
	if v.Get(`commands.0.args.a\.b`).Int() != 1 {
		t.Errorf("nested keys should be kept verbatim: %s", data)
	}
}
