package lua

import (
	"context"
	"fmt"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// Default limits for a Lua state.
const (
	DefaultExecutionTimeout = 5 * time.Second
	DefaultCallStackSize    = 256
)

// State wraps gopher-lua with a sandbox and serialized access.
//
// gopher-lua's LState is not goroutine-safe. Every method locks mu, and
// Lua code must not be run from other goroutines through LuaState.
type State struct {
	L *lua.LState

	mu sync.Mutex

	executionTimeout time.Duration

	closed bool
}

// StateOption configures a State.
type StateOption func(*State)

// WithExecutionTimeout bounds every call into Lua. Zero disables the bound.
// gopher-lua checks the deadline between VM instructions, so a script stuck
// in a Go function is not interrupted.
func WithExecutionTimeout(d time.Duration) StateOption {
	return func(s *State) {
		s.executionTimeout = d
	}
}

// NewState creates a new sandboxed Lua state.
func NewState(opts ...StateOption) *State {
	state := &State{
		executionTimeout: DefaultExecutionTimeout,
	}
	for _, opt := range opts {
		opt(state)
	}

	state.L = lua.NewState(lua.Options{
		SkipOpenLibs:  true,
		CallStackSize: DefaultCallStackSize,
	})
	openSafeLibraries(state.L)
	installSandbox(state.L)

	return state
}

// openSafeLibraries opens only the libraries without host access.
// io, os and debug stay closed; package is needed for require and is
// restricted by the sandbox.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenPackage(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// DoFile executes a Lua file.
func (s *State) DoFile(ctx context.Context, path string) error {
	return s.run(ctx, func(L *lua.LState) error {
		return L.DoFile(path)
	})
}

// DoString executes a Lua chunk.
func (s *State) DoString(ctx context.Context, code string) error {
	return s.run(ctx, func(L *lua.LState) error {
		return L.DoString(code)
	})
}

// Call calls the global function fn with args and returns its results.
// It returns an empty slice, not nil, when fn returns nothing.
func (s *State) Call(ctx context.Context, fn string, args ...lua.LValue) ([]lua.LValue, error) {
	var results []lua.LValue
	err := s.run(ctx, func(L *lua.LState) error {
		fnVal := L.GetGlobal(fn)
		if fnVal.Type() != lua.LTFunction {
			return fmt.Errorf("%w: %s", ErrUnknownCommand, fn)
		}

		stackTop := L.GetTop()
		L.Push(fnVal)
		for _, arg := range args {
			L.Push(arg)
		}
		if err := L.PCall(len(args), lua.MultRet, nil); err != nil {
			return err
		}

		nRet := L.GetTop() - stackTop
		results = make([]lua.LValue, 0, max(nRet, 0))
		for i := 0; i < nRet; i++ {
			results = append(results, L.Get(stackTop+i+1))
		}
		if nRet > 0 {
			L.Pop(nRet)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// run executes fn under the lock with the call's context installed.
func (s *State) run(ctx context.Context, fn func(L *lua.LState) error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.executionTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.executionTimeout)
		defer cancel()
	}

	s.L.SetContext(ctx)
	defer s.L.RemoveContext()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()

	if err := fn(s.L); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%w: %v", ctxErr, err)
		}
		return err
	}
	return nil
}

// GlobalFunctions returns the names of global Lua functions that are not
// part of the opened libraries.
func (s *State) GlobalFunctions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	var names []string
	globals := s.L.Get(lua.GlobalsIndex).(*lua.LTable)
	globals.ForEach(func(k, v lua.LValue) {
		name, ok := k.(lua.LString)
		fn, isFn := v.(*lua.LFunction)
		// Go functions are library bindings, not script commands.
		if !ok || !isFn || fn.IsG {
			return
		}
		names = append(names, string(name))
	})
	return names
}

// RegisterModule preloads a module with the given functions and sets it as
// a global of the same name.
func (s *State) RegisterModule(name string, funcs map[string]lua.LGFunction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	mod := s.L.SetFuncs(s.L.NewTable(), funcs)
	s.L.SetGlobal(name, mod)
	s.L.PreloadModule(name, func(L *lua.LState) int {
		L.Push(mod)
		return 1
	})
}

// LuaState returns the underlying gopher-lua state. It bypasses the lock.
func (s *State) LuaState() *lua.LState {
	return s.L
}

// IsClosed returns true if the state has been closed.
func (s *State) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close releases the Lua state. Later calls return ErrStateClosed.
func (s *State) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.L.Close()
	s.closed = true
	return nil
}
