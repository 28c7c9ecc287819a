package lua

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/tidwall/sjson"
	lua "github.com/yuin/gopher-lua"
)

// Logger receives script diagnostics. Messages are printf-style.
type Logger interface {
	Debug(msg string, args ...any)
}

// Dispatcher runs a JSON-encoded request on behalf of a script.
type Dispatcher interface {
	DispatchJSON(ctx context.Context, data []byte) error
}

// DispatcherFunc is a function adapter for Dispatcher.
type DispatcherFunc func(ctx context.Context, data []byte) error

// DispatchJSON implements Dispatcher.
func (f DispatcherFunc) DispatchJSON(ctx context.Context, data []byte) error {
	return f(ctx, data)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}

// activeKey marks a context derived inside a running script.
type activeKey struct{}

// Host executes host commands defined as global Lua functions.
type Host struct {
	state  *State
	bridge *Bridge
	logger Logger

	mu         sync.RWMutex
	dispatcher Dispatcher
	scripts    []string
}

// HostOption configures a Host.
type HostOption func(*Host)

// WithLogger sets the logger for script diagnostics and keymotion.log.
func WithLogger(logger Logger) HostOption {
	return func(h *Host) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithDispatcher sets the target of keymotion.dispatch.
func WithDispatcher(d Dispatcher) HostOption {
	return func(h *Host) {
		h.dispatcher = d
	}
}

// NewHost creates a host with a fresh sandboxed state.
func NewHost(stateOpts []StateOption, opts ...HostOption) *Host {
	state := NewState(stateOpts...)
	h := &Host{
		state:  state,
		bridge: NewBridge(state.LuaState()),
		logger: nopLogger{},
	}
	for _, opt := range opts {
		opt(h)
	}

	state.RegisterModule(ModuleName, map[string]lua.LGFunction{
		"dispatch": h.luaDispatch,
		"log":      h.luaLog,
	})
	return h
}

// LoadFile runs a script file, registering the functions it defines.
func (h *Host) LoadFile(ctx context.Context, path string) error {
	if err := h.state.DoFile(ctx, path); err != nil {
		return fmt.Errorf("load %s: %w", filepath.Base(path), err)
	}

	h.mu.Lock()
	h.scripts = append(h.scripts, path)
	h.mu.Unlock()

	h.logger.Debug("lua: loaded %s", path)
	return nil
}

// LoadString runs a script chunk. name identifies it in errors.
func (h *Host) LoadString(ctx context.Context, name, code string) error {
	if err := h.state.DoString(ctx, code); err != nil {
		return fmt.Errorf("load %s: %w", name, err)
	}

	h.mu.Lock()
	h.scripts = append(h.scripts, name)
	h.mu.Unlock()
	return nil
}

// Scripts returns the loaded script names in load order.
func (h *Host) Scripts() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]string, len(h.scripts))
	copy(out, h.scripts)
	return out
}

// Commands returns the sorted names of the commands scripts define.
func (h *Host) Commands() []string {
	names := h.state.GlobalFunctions()
	sort.Strings(names)
	return names
}

// HasCommand reports whether a script defines name.
func (h *Host) HasCommand(name string) bool {
	for _, c := range h.state.GlobalFunctions() {
		if c == name {
			return true
		}
	}
	return false
}

// ExecuteCommand calls the global function name with args as a table.
//
// The command fails when the function raises an error, returns false, or
// returns nil followed by a message.
func (h *Host) ExecuteCommand(ctx context.Context, name string, args map[string]any) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if ctx.Value(activeKey{}) == h {
		return &CommandError{Command: name, Err: ErrReentrant}
	}
	if args == nil {
		args = map[string]any{}
	}

	h.logger.Debug("lua: command %s", name)

	results, err := h.state.Call(ctx, name, h.bridge.MapToTable(args))
	if err != nil {
		return &CommandError{Command: name, Err: err}
	}
	return commandResult(name, results)
}

// commandResult interprets a command's return values.
func commandResult(name string, results []lua.LValue) error {
	if len(results) == 0 {
		return nil
	}
	first := results[0]
	if first != lua.LFalse && first != lua.LNil {
		return nil
	}

	msg := "command failed"
	if len(results) > 1 {
		if s, ok := results[1].(lua.LString); ok {
			msg = string(s)
		}
	} else if first == lua.LNil {
		// a bare nil is an ordinary empty return
		return nil
	}
	return &CommandError{Command: name, Message: msg}
}

// Close releases the Lua state.
func (h *Host) Close() error {
	return h.state.Close()
}

// luaDispatch implements keymotion.dispatch(request).
// request is a table or a JSON string. It returns true, or nil and a message.
func (h *Host) luaDispatch(L *lua.LState) int {
	h.mu.RLock()
	d := h.dispatcher
	h.mu.RUnlock()

	var data []byte
	switch arg := L.CheckAny(1).(type) {
	case lua.LString:
		data = []byte(arg)
	case *lua.LTable:
		m, ok := h.bridge.ToGoValue(arg).(map[string]any)
		if !ok {
			L.ArgError(1, "request table must have string keys")
			return 0
		}
		encoded, err := encodeRequest(m)
		if err != nil {
			L.ArgError(1, err.Error())
			return 0
		}
		data = encoded
	default:
		L.ArgError(1, "request must be a table or a JSON string")
		return 0
	}

	if d == nil {
		L.Push(lua.LNil)
		L.Push(lua.LString(ErrNoDispatcher.Error()))
		return 2
	}

	ctx := L.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, activeKey{}, h)

	if err := d.DispatchJSON(ctx, data); err != nil {
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LTrue)
	return 1
}

// luaLog implements keymotion.log(message, ...).
func (h *Host) luaLog(L *lua.LState) int {
	parts := make([]string, 0, L.GetTop())
	for i := 1; i <= L.GetTop(); i++ {
		parts = append(parts, L.ToStringMeta(L.Get(i)).String())
	}
	h.logger.Debug("lua: %s", strings.Join(parts, " "))
	return 0
}

// encodeRequest renders a request map as a JSON object.
func encodeRequest(m map[string]any) ([]byte, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := []byte(`{}`)
	for _, k := range keys {
		var err error
		out, err = sjson.SetBytes(out, escapePath(k), m[k])
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", k, err)
		}
	}
	return out, nil
}

// escapePath escapes sjson path metacharacters in a literal key.
func escapePath(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch r {
		case '.', '*', '?', '|', '#', '@', '\\', ':', '!', '=', '<', '>', '%':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
