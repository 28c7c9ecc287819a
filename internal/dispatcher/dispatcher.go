// Package dispatcher routes command requests to handlers and coordinates execution.
package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/dshills/keymotion/internal/dispatcher/execctx"
	"github.com/dshills/keymotion/internal/dispatcher/handler"
	"github.com/dshills/keymotion/internal/dispatcher/request"
)

// Notifier shows messages to the user.
type Notifier interface {
	Notify(message string)
}

// NotifierFunc is a function adapter for Notifier.
type NotifierFunc func(message string)

// Notify implements Notifier.
func (f NotifierFunc) Notify(message string) {
	f(message)
}

// Logger receives diagnostic output. Messages are printf-style.
type Logger interface {
	Debug(msg string, args ...any)
	Error(msg string, args ...any)
}

type nopNotifier struct{}

func (nopNotifier) Notify(string) {}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Error(string, ...any) {}

// Dispatcher routes requests to handlers and coordinates execution.
type Dispatcher struct {
	mu sync.RWMutex

	// Core components
	registry *Registry

	// Host ports
	editor      execctx.Editor
	commands    execctx.CommandExecutor
	incrementer execctx.Incrementer

	// Reporting
	notifier Notifier
	logger   Logger

	// Configuration
	config Config

	// Metrics
	metrics *Metrics

	// Hooks
	preHooks  []PreDispatchHook
	postHooks []PostDispatchHook
}

// New creates a new dispatcher with the given configuration.
func New(config Config) *Dispatcher {
	d := &Dispatcher{
		registry: NewRegistry(),
		notifier: nopNotifier{},
		logger:   nopLogger{},
		config:   config,
	}

	if config.EnableMetrics {
		d.metrics = NewMetrics()
	}

	return d
}

// NewWithDefaults creates a new dispatcher with default configuration.
func NewWithDefaults() *Dispatcher {
	return New(DefaultConfig())
}

// SetEditor sets the host editor.
func (d *Dispatcher) SetEditor(editor execctx.Editor) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.editor = editor
}

// SetCommands sets the host command executor.
func (d *Dispatcher) SetCommands(commands execctx.CommandExecutor) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.commands = commands
}

// SetIncrementer sets the host increment action.
func (d *Dispatcher) SetIncrementer(inc execctx.Incrementer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.incrementer = inc
}

// SetNotifier sets where user-visible messages go.
func (d *Dispatcher) SetNotifier(n Notifier) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if n == nil {
		n = nopNotifier{}
	}
	d.notifier = n
}

// SetLogger sets the diagnostic logger.
func (d *Dispatcher) SetLogger(l Logger) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if l == nil {
		l = nopLogger{}
	}
	d.logger = l
}

// Editor returns the host editor.
func (d *Dispatcher) Editor() execctx.Editor {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.editor
}

// Dispatch executes a request synchronously.
//
// Failures never escape as panics or errors: an unknown command is reported
// to the notifier and yields a no-op result; any other failure is reported
// to the notifier, logged, and returned as an error result.
func (d *Dispatcher) Dispatch(ctx context.Context, req request.Request) handler.Result {
	startTime := time.Now()

	ectx := d.buildContext(ctx)

	if !d.runPreHooks(&req, ectx) {
		return handler.CancelledWithMessage("cancelled by hook")
	}

	result := d.execute(req, ectx)

	d.runPostHooks(&req, ectx, &result)

	if d.metrics != nil {
		d.metrics.Record(req, time.Since(startTime), result)
	}

	return result
}

// DispatchAll executes requests in order and returns their results.
// A failed request does not stop the ones after it.
func (d *Dispatcher) DispatchAll(ctx context.Context, reqs []request.Request) []handler.Result {
	results := make([]handler.Result, 0, len(reqs))
	for _, req := range reqs {
		if err := ctx.Err(); err != nil {
			results = append(results, handler.Cancelled().WithMessage(err.Error()))
			continue
		}
		results = append(results, d.Dispatch(ctx, req))
	}
	return results
}

// execute finds the handler and runs it.
func (d *Dispatcher) execute(req request.Request, ectx *execctx.ExecutionContext) handler.Result {
	h := d.registry.Get(req.Command)
	if h == nil {
		err := &UnknownCommandError{Command: req.Command}
		d.notify(err.Error())
		return handler.NoOpWithMessage(err.Error())
	}

	if err := d.validate(req); err != nil {
		return d.fail(req, handler.Error(err))
	}

	var result handler.Result
	if d.config.RecoverFromPanic {
		result = d.executeWithRecovery(h, req, ectx)
	} else {
		result = h.Handle(req, ectx)
	}

	if result.IsError() {
		return d.fail(req, result)
	}
	return result
}

// validate checks request invariants the handlers rely on.
func (d *Dispatcher) validate(req request.Request) error {
	if req.Movement == nil {
		return nil
	}
	if err := req.Movement.Validate(); err != nil {
		return err
	}
	if limit := d.config.MaxRepeatCount; limit > 0 && req.Movement.Count > limit {
		return fmt.Errorf("%w: %d exceeds %d", ErrCountTooLarge, req.Movement.Count, limit)
	}
	return nil
}

// executeWithRecovery executes a handler with panic recovery.
func (d *Dispatcher) executeWithRecovery(h handler.Handler, req request.Request, ectx *execctx.ExecutionContext) (result handler.Result) {
	defer func() {
		if r := recover(); r != nil {
			stack := make([]byte, 4096)
			n := runtime.Stack(stack, false)

			result = handler.Error(&PanicError{
				Command: req.Command,
				Value:   r,
				Stack:   stack[:n],
			})
		}
	}()

	return h.Handle(req, ectx)
}

// fail reports a failed result to the user and the log.
func (d *Dispatcher) fail(req request.Request, result handler.Result) handler.Result {
	err := result.Error
	if err == nil {
		err = fmt.Errorf("%s failed", req.Command)
		result.Error = err
	}

	d.notify(err.Error())

	d.mu.RLock()
	logger := d.logger
	d.mu.RUnlock()

	var perr *PanicError
	if errors.As(err, &perr) {
		logger.Error("%s: %v\n%s", req, err, perr.Stack)
	} else {
		logger.Error("%s: %v", req, err)
	}
	return result
}

func (d *Dispatcher) notify(msg string) {
	d.mu.RLock()
	n := d.notifier
	d.mu.RUnlock()
	n.Notify(msg)
}

// buildContext builds an execution context from current state.
func (d *Dispatcher) buildContext(ctx context.Context) *execctx.ExecutionContext {
	d.mu.RLock()
	defer d.mu.RUnlock()

	ectx := execctx.New().WithContext(ctx)
	ectx.Editor = d.editor
	ectx.Commands = d.commands
	ectx.Incrementer = d.incrementer
	return ectx
}

// RegisterHandlerFunc registers a handler function for a command name.
func (d *Dispatcher) RegisterHandlerFunc(command string, fn func(request.Request, *execctx.ExecutionContext) handler.Result) {
	d.registry.Register(command, handler.NewHandlerFunc(fn))
}

// RegisterPreHook registers a pre-dispatch hook.
func (d *Dispatcher) RegisterPreHook(hook PreDispatchHook) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.preHooks = append(d.preHooks, hook)
}

// RegisterPostHook registers a post-dispatch hook.
func (d *Dispatcher) RegisterPostHook(hook PostDispatchHook) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.postHooks = append(d.postHooks, hook)
}

// runPreHooks runs all pre-dispatch hooks.
// Returns false if any hook cancels the request.
func (d *Dispatcher) runPreHooks(req *request.Request, ctx *execctx.ExecutionContext) bool {
	d.mu.RLock()
	hooks := make([]PreDispatchHook, len(d.preHooks))
	copy(hooks, d.preHooks)
	d.mu.RUnlock()

	for _, h := range hooks {
		if !h.PreDispatch(req, ctx) {
			return false
		}
	}
	return true
}

// runPostHooks runs all post-dispatch hooks.
func (d *Dispatcher) runPostHooks(req *request.Request, ctx *execctx.ExecutionContext, result *handler.Result) {
	d.mu.RLock()
	hooks := make([]PostDispatchHook, len(d.postHooks))
	copy(hooks, d.postHooks)
	d.mu.RUnlock()

	for _, h := range hooks {
		h.PostDispatch(req, ctx, result)
	}
}

// Registry returns the handler registry.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Metrics returns the metrics collector (may be nil if disabled).
func (d *Dispatcher) Metrics() *Metrics {
	return d.metrics
}

// Config returns the dispatcher configuration.
func (d *Dispatcher) Config() Config {
	return d.config
}
