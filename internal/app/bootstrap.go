package app

import (
	"context"
	"time"

	"github.com/dshills/keymotion/internal/config"
	"github.com/dshills/keymotion/internal/dispatcher"
	"github.com/dshills/keymotion/internal/engine"
	"github.com/dshills/keymotion/internal/engine/buffer"
	"github.com/dshills/keymotion/internal/plugin/lua"
)

// bootstrapper handles component initialization with cleanup on failure.
type bootstrapper struct {
	app       *Application
	opts      Options
	initOrder []string
}

func newBootstrapper(app *Application, opts Options) *bootstrapper {
	return &bootstrapper{
		app:       app,
		opts:      opts,
		initOrder: make([]string, 0, 5),
	}
}

// bootstrap initializes all components in dependency order.
// On failure, it cleans up already-initialized components.
func (b *bootstrapper) bootstrap() error {
	steps := []func() error{
		b.initConfig,
		b.initLogger,
		b.initEngine,
		b.initDispatcher,
		b.initPlugins,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			b.cleanup()
			return err
		}
	}
	return nil
}

// initConfig loads the configuration file and applies the environment.
func (b *bootstrapper) initConfig() error {
	cfg := b.opts.Config
	if cfg == nil {
		loaded, err := config.Load(b.opts.ConfigPath)
		if err != nil {
			return &InitError{Component: "config", Err: err}
		}
		cfg = loaded
	}
	if !b.opts.IgnoreEnv {
		if err := cfg.ApplyEnv(); err != nil {
			return &InitError{Component: "config", Err: err}
		}
	}
	if b.opts.LogLevel != "" {
		cfg.Log.Level = b.opts.LogLevel
		if err := cfg.Validate(); err != nil {
			return &InitError{Component: "config", Err: err}
		}
	}

	b.app.config = cfg
	b.initOrder = append(b.initOrder, "config")
	return nil
}

func (b *bootstrapper) initLogger() error {
	lc := DefaultLoggerConfig()
	lc.Level = ParseLogLevel(b.app.config.Log.Level)
	if b.opts.LogOutput != nil {
		lc.Output = b.opts.LogOutput
	}
	b.app.logger = NewLogger(lc)

	if path := b.app.config.Path(); path != "" {
		b.app.logger.Debug("config loaded from %s", path)
	}
	b.initOrder = append(b.initOrder, "logger")
	return nil
}

// initEngine creates the buffer from the initial text.
func (b *bootstrapper) initEngine() error {
	cfg := b.app.config

	ending, explicit := cfg.Editor.LineEndingValue()
	if !explicit {
		ending = buffer.DetectLineEnding(b.opts.Text)
	}

	opts := []engine.Option{
		engine.WithContent(b.opts.Text),
		engine.WithLineEnding(ending),
		engine.WithWordSeparators(cfg.Editor.WordSeparators),
		engine.WithEditObserver(b.app.observeEdit),
	}
	if len(b.opts.Cursors) > 0 {
		opts = append(opts, engine.WithSelections(b.opts.Cursors...))
	}
	if b.opts.ReadOnly {
		opts = append(opts, engine.WithReadOnly())
	}

	b.app.engine = engine.New(opts...)
	b.initOrder = append(b.initOrder, "engine")
	return nil
}

// initDispatcher creates the dispatcher and registers the handlers.
func (b *bootstrapper) initDispatcher() error {
	cfg := b.app.config.Dispatcher

	dc := dispatcher.DefaultConfig().
		WithPanicRecovery(cfg.RecoverFromPanic).
		WithMaxRepeatCount(cfg.MaxRepeatCount)
	if cfg.Metrics {
		dc = dc.WithMetrics()
	}

	logger := b.app.logger.WithComponent("dispatcher")

	d := dispatcher.New(dc)
	d.SetEditor(b.app.engine)
	d.SetIncrementer(b.app.engine)
	d.SetNotifier(b.app)
	d.SetLogger(logger)

	hook := dispatcher.NewLoggingHook(logger)
	d.RegisterPreHook(hook)
	d.RegisterPostHook(hook)

	RegisterHandlers(d, logger)

	b.app.dispatcher = d
	b.initOrder = append(b.initOrder, "dispatcher")
	return nil
}

// initPlugins creates the Lua host, points the dispatcher's host commands
// at it and loads the configured scripts.
func (b *bootstrapper) initPlugins() error {
	cfg := b.app.config.Plugins

	var stateOpts []lua.StateOption
	if timeout := time.Duration(cfg.Timeout); timeout > 0 {
		stateOpts = append(stateOpts, lua.WithExecutionTimeout(timeout))
	}

	host := lua.NewHost(stateOpts,
		lua.WithLogger(b.app.logger.WithComponent("lua")),
		lua.WithDispatcher(b.app),
	)
	b.app.plugins = host
	b.app.dispatcher.SetCommands(host)
	b.initOrder = append(b.initOrder, "plugins")

	paths := make([]string, 0, len(cfg.Scripts)+len(b.opts.Scripts))
	paths = append(paths, cfg.Scripts...)
	paths = append(paths, b.opts.Scripts...)
	if len(paths) == 0 {
		return nil
	}

	if err := host.LoadScripts(context.Background(), paths); err != nil {
		return &InitError{Component: "plugins", Err: err}
	}
	b.app.logger.Debug("loaded %d scripts, %d commands", len(host.Scripts()), len(host.Commands()))
	return nil
}

// cleanup releases components in reverse initialization order.
func (b *bootstrapper) cleanup() {
	for i := len(b.initOrder) - 1; i >= 0; i-- {
		b.cleanupComponent(b.initOrder[i])
	}
	b.initOrder = b.initOrder[:0]
}

func (b *bootstrapper) cleanupComponent(component string) {
	switch component {
	case "plugins":
		if b.app.plugins != nil {
			_ = b.app.plugins.Close()
			b.app.plugins = nil
		}
	case "dispatcher":
		b.app.dispatcher = nil
	case "engine":
		b.app.engine = nil
	case "logger":
		b.app.logger = nil
	case "config":
		b.app.config = nil
	}
}
