// Package main is the entry point for the keymotion command.
//
// keymotion loads a text file, dispatches a script of motion and host
// command requests against it, and prints a JSON report of the result.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dshills/keymotion/internal/app"
	"github.com/dshills/keymotion/internal/config"
	"github.com/dshills/keymotion/internal/engine"
	"github.com/dshills/keymotion/internal/watcher"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// cursorList collects repeated -cursor flags.
type cursorList []engine.Selection

func (c *cursorList) String() string {
	parts := make([]string, len(*c))
	for i, sel := range *c {
		parts[i] = sel.String()
	}
	return strings.Join(parts, ",")
}

func (c *cursorList) Set(value string) error {
	sel, err := app.ParseCursor(value)
	if err != nil {
		return err
	}
	*c = append(*c, sel)
	return nil
}

// stringList collects repeated string flags.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(value string) error {
	*s = append(*s, value)
	return nil
}

type cliOptions struct {
	configPath string
	logLevel   string
	cursors    cursorList
	scripts    stringList
	readOnly   bool
	metrics    bool
	compact    bool
	watch      bool
	dumpConfig bool

	textPath   string
	scriptPath string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	if opts.dumpConfig {
		cfg, err := loadConfig(opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		data, err := cfg.TOML()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		_, _ = os.Stdout.Write(data)
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	failed, err := runOnce(ctx, opts, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if !opts.watch {
			return 1
		}
	}

	if opts.watch {
		if err := watch(ctx, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	if failed {
		return 2
	}
	return 0
}

// loadConfig reads the configuration file and the environment and applies
// command line overrides.
func loadConfig(opts cliOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.metrics {
		cfg.Dispatcher.Metrics = true
	}
	return cfg, cfg.Validate()
}

// runOnce builds a fresh session from the files on disk, runs the script
// and writes the report to out. failed is true when any request failed.
func runOnce(ctx context.Context, opts cliOptions, out io.Writer) (failed bool, err error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return false, err
	}

	text, err := os.ReadFile(opts.textPath)
	if err != nil {
		return false, err
	}
	script, err := os.ReadFile(opts.scriptPath)
	if err != nil {
		return false, err
	}

	application, err := app.New(app.Options{
		Config:    cfg,
		IgnoreEnv: true,
		Text:      string(text),
		Cursors:   opts.cursors,
		ReadOnly:  opts.readOnly,
		Scripts:   opts.scripts,
	})
	if err != nil {
		return false, err
	}
	defer application.Close()

	steps, err := application.RunScript(ctx, opts.scriptPath, script)
	if err != nil {
		return false, err
	}

	report, err := application.Report(app.ReportOptions{Metrics: opts.metrics, Compact: opts.compact})
	if err != nil {
		return false, err
	}
	if _, err := out.Write(append(report, '\n')); err != nil {
		return false, err
	}
	return app.Failed(steps), nil
}

// watch re-runs the script whenever the text, script or config file
// changes, until ctx is cancelled.
func watch(ctx context.Context, opts cliOptions) error {
	w, err := watcher.New()
	if err != nil {
		return err
	}
	defer w.Close()

	paths := []string{opts.textPath, opts.scriptPath}
	if opts.configPath != "" {
		paths = append(paths, opts.configPath)
	}
	for _, p := range paths {
		if err := w.Watch(p); err != nil && !errors.Is(err, watcher.ErrAlreadyWatching) {
			if opts.configPath == p && errors.Is(err, watcher.ErrPathNotExist) {
				continue
			}
			return fmt.Errorf("watch %s: %w", p, err)
		}
	}

	fmt.Fprintf(os.Stderr, "watching %s\n", strings.Join(w.WatchedPaths(), ", "))

	watcher.Run(ctx, w, func(event watcher.Event) {
		if event.Op.Has(watcher.OpRemove) && !event.Op.Has(watcher.OpCreate) {
			return
		}
		if _, err := runOnce(ctx, opts, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}, func(err error) {
		fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
	})

	fmt.Fprintf(os.Stderr, "stopped after %d changes", w.TotalEvents())
	if n := w.Dropped(); n > 0 {
		fmt.Fprintf(os.Stderr, " (%d dropped while busy)", n)
	}
	fmt.Fprintln(os.Stderr)
	return nil
}

func parseFlags() cliOptions {
	var opts cliOptions
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.Var(&opts.cursors, "cursor", "Initial cursor as line:char or line:char-line:char (repeatable)")
	flag.Var(&opts.scripts, "lua", "Lua command script or directory (repeatable)")
	flag.BoolVar(&opts.readOnly, "readonly", false, "Reject edits")
	flag.BoolVar(&opts.readOnly, "R", false, "Reject edits (shorthand)")
	flag.BoolVar(&opts.metrics, "metrics", false, "Include dispatcher metrics in the report")
	flag.BoolVar(&opts.compact, "compact", false, "Print the report without indentation")
	flag.BoolVar(&opts.watch, "watch", false, "Re-run when the text, script or config changes")
	flag.BoolVar(&opts.watch, "w", false, "Re-run on changes (shorthand)")
	flag.BoolVar(&opts.dumpConfig, "dump-config", false, "Print the effective configuration and exit")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "keymotion - run motion scripts against a text file\n\n")
		fmt.Fprintf(os.Stderr, "Usage: keymotion [options] <text-file> <script.json|script.yaml>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment:\n")
		for _, name := range config.EnvVars() {
			fmt.Fprintf(os.Stderr, "  %s\n", name)
		}
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  keymotion notes.txt edits.json\n")
		fmt.Fprintf(os.Stderr, "  keymotion -cursor 0:4 -cursor 2:0 notes.txt edits.yaml\n")
		fmt.Fprintf(os.Stderr, "  keymotion -lua ./commands -w notes.txt edits.json\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("keymotion %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	if opts.dumpConfig {
		return opts
	}

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(1)
	}
	opts.textPath = flag.Arg(0)
	opts.scriptPath = flag.Arg(1)

	return opts
}
