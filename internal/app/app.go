// Package app wires configuration, the editing engine, the command
// dispatcher and the Lua command host into one runnable session.
//
// A session owns a single buffer. Requests are dispatched in order against
// it, and every result, user notice and edit is recorded so that a Report
// can describe the final state.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/dshills/keymotion/internal/config"
	"github.com/dshills/keymotion/internal/dispatcher"
	"github.com/dshills/keymotion/internal/dispatcher/handler"
	"github.com/dshills/keymotion/internal/dispatcher/request"
	"github.com/dshills/keymotion/internal/engine"
	"github.com/dshills/keymotion/internal/plugin/lua"
)

// Options configures a new Application.
type Options struct {
	// ConfigPath is the TOML configuration file. A missing file yields the
	// defaults.
	ConfigPath string

	// Config, when set, is used instead of loading ConfigPath.
	Config *config.Config

	// IgnoreEnv skips the KEYMOTION_* environment overrides.
	IgnoreEnv bool

	// LogLevel overrides the configured log level when non-empty.
	LogLevel string

	// LogOutput receives log lines. Defaults to os.Stderr.
	LogOutput io.Writer

	// Text is the initial buffer content.
	Text string

	// Cursors are the initial selections. Empty means one cursor at 0:0.
	Cursors []engine.Selection

	// ReadOnly rejects every edit.
	ReadOnly bool

	// Scripts are Lua files or directories loaded after the configured ones.
	Scripts []string
}

// StepResult records the outcome of one top-level request.
type StepResult struct {
	Command string
	Status  handler.ResultStatus
	Message string
	Err     error
}

// Application is one editing session.
type Application struct {
	opts Options

	config     *config.Config
	logger     *Logger
	engine     *engine.Engine
	dispatcher *dispatcher.Dispatcher
	plugins    *lua.Host

	mu      sync.Mutex
	steps   []StepResult
	notices []string
	edits   int
	closed  bool
}

var (
	_ dispatcher.Notifier = (*Application)(nil)
	_ lua.Dispatcher      = (*Application)(nil)
)

// New creates and initializes an application.
func New(opts Options) (*Application, error) {
	app := &Application{opts: opts}
	if err := newBootstrapper(app, opts).bootstrap(); err != nil {
		return nil, err
	}
	return app, nil
}

// Config returns the effective configuration.
func (app *Application) Config() *config.Config {
	return app.config
}

// Logger returns the application logger.
func (app *Application) Logger() *Logger {
	return app.logger
}

// Engine returns the editing engine.
func (app *Application) Engine() *engine.Engine {
	return app.engine
}

// Dispatcher returns the command dispatcher.
func (app *Application) Dispatcher() *dispatcher.Dispatcher {
	return app.dispatcher
}

// Plugins returns the Lua command host.
func (app *Application) Plugins() *lua.Host {
	return app.plugins
}

// Dispatch runs one request and records its result.
func (app *Application) Dispatch(ctx context.Context, req request.Request) (handler.Result, error) {
	if app.isClosed() {
		return handler.Error(ErrClosed), ErrClosed
	}
	result := app.dispatcher.Dispatch(ctx, req)
	app.record(req.Command, result)
	return result, nil
}

// Run dispatches requests in order. A failed request does not stop the
// ones after it; cancellation of ctx does.
func (app *Application) Run(ctx context.Context, reqs []request.Request) ([]StepResult, error) {
	if app.isClosed() {
		return nil, ErrClosed
	}

	out := make([]StepResult, 0, len(reqs))
	for i, req := range reqs {
		if err := ctx.Err(); err != nil {
			return out, fmt.Errorf("request %d: %w", i, err)
		}
		result := app.dispatcher.Dispatch(ctx, req)
		out = append(out, app.record(req.Command, result))
	}
	return out, nil
}

// RunScript parses a JSON or YAML request script and runs it. name selects
// the format by extension.
func (app *Application) RunScript(ctx context.Context, name string, data []byte) ([]StepResult, error) {
	reqs, err := dispatcher.ParseScriptFile(name, data)
	if err != nil {
		return nil, err
	}
	app.logger.Debug("running %s: %d requests", name, len(reqs))
	return app.Run(ctx, reqs)
}

// DispatchJSON decodes and dispatches one request. It implements the
// target of keymotion.dispatch, so nested results are not recorded as
// steps. An error or cancelled result becomes a *DispatchError.
func (app *Application) DispatchJSON(ctx context.Context, data []byte) error {
	if app.isClosed() {
		return ErrClosed
	}
	req, err := dispatcher.ParseRequest(data)
	if err != nil {
		return err
	}
	result := app.dispatcher.Dispatch(ctx, req)
	return resultError(req.Command, result)
}

// Notify records a user-facing message.
func (app *Application) Notify(message string) {
	app.logger.Warn("%s", message)

	app.mu.Lock()
	app.notices = append(app.notices, message)
	app.mu.Unlock()
}

// Steps returns the recorded top-level results in order.
func (app *Application) Steps() []StepResult {
	app.mu.Lock()
	defer app.mu.Unlock()
	out := make([]StepResult, len(app.steps))
	copy(out, app.steps)
	return out
}

// Notices returns the recorded user messages in order.
func (app *Application) Notices() []string {
	app.mu.Lock()
	defer app.mu.Unlock()
	out := make([]string, len(app.notices))
	copy(out, app.notices)
	return out
}

// EditCount returns the number of committed edit transactions.
func (app *Application) EditCount() int {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.edits
}

// Close releases the Lua state. It is safe to call more than once.
func (app *Application) Close() error {
	app.mu.Lock()
	if app.closed {
		app.mu.Unlock()
		return nil
	}
	app.closed = true
	app.mu.Unlock()

	var errs ErrorList
	if app.plugins != nil {
		errs.Add(app.plugins.Close())
	}
	return errs.AsError()
}

func (app *Application) isClosed() bool {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.closed
}

func (app *Application) record(command string, result handler.Result) StepResult {
	step := StepResult{
		Command: command,
		Status:  result.Status,
		Message: result.Message,
		Err:     result.Error,
	}

	app.mu.Lock()
	app.steps = append(app.steps, step)
	app.mu.Unlock()
	return step
}

// observeEdit is the engine's edit observer.
func (app *Application) observeEdit(tx engine.TxResult) {
	app.mu.Lock()
	app.edits++
	app.mu.Unlock()

	if app.logger != nil {
		app.logger.Debug("edit %s: %d changes, revision %d", tx.ID, len(tx.Applied), tx.Revision)
	}
}

func resultError(command string, result handler.Result) error {
	switch result.Status {
	case handler.StatusError, handler.StatusCancelled:
		return &DispatchError{
			Command: command,
			Status:  result.Status,
			Message: result.Message,
			Err:     result.Error,
		}
	}
	return nil
}

// Failed reports whether any recorded step ended in an error.
func Failed(steps []StepResult) bool {
	for _, s := range steps {
		if s.Status == handler.StatusError {
			return true
		}
	}
	return false
}

// ParseCursor parses a cursor written as "line:character" or a selection
// written as "line:character-line:character" (anchor then active).
// Positions are zero-based.
func ParseCursor(s string) (engine.Selection, error) {
	anchorText, activeText, ranged := strings.Cut(s, "-")

	anchor, err := parsePoint(anchorText)
	if err != nil {
		return engine.Selection{}, fmt.Errorf("cursor %q: %w", s, err)
	}
	if !ranged {
		return engine.Selection{Anchor: anchor, Active: anchor}, nil
	}

	active, err := parsePoint(activeText)
	if err != nil {
		return engine.Selection{}, fmt.Errorf("cursor %q: %w", s, err)
	}
	return engine.Selection{Anchor: anchor, Active: active}, nil
}

var errBadPoint = errors.New("expected line:character")

func parsePoint(s string) (engine.Point, error) {
	lineText, charText, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return engine.Point{}, errBadPoint
	}
	line, err := strconv.Atoi(lineText)
	if err != nil || line < 0 {
		return engine.Point{}, errBadPoint
	}
	char, err := strconv.Atoi(charText)
	if err != nil || char < 0 {
		return engine.Point{}, errBadPoint
	}
	return engine.Point{Line: line, Character: char}, nil
}
