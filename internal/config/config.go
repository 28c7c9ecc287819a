package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/keymotion/internal/engine/buffer"
)

// Defaults.
const (
	DefaultLogLevel       = "info"
	DefaultMaxRepeatCount = 10000
	DefaultPluginTimeout  = 5 * time.Second
)

// Config is the complete keymotion configuration.
type Config struct {
	Log        LogConfig        `toml:"log"`
	Editor     EditorConfig     `toml:"editor"`
	Dispatcher DispatcherConfig `toml:"dispatcher"`
	Plugins    PluginsConfig    `toml:"plugins"`

	// path is the file the configuration was loaded from, if any.
	path string
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`
}

// EditorConfig holds buffer settings.
type EditorConfig struct {
	// WordSeparators are the characters that never belong to a word.
	WordSeparators string `toml:"word_separators"`

	// LineEnding is auto, lf, crlf or cr. auto detects it from the text.
	LineEnding string `toml:"line_ending"`
}

// DispatcherConfig holds command dispatch settings.
type DispatcherConfig struct {
	// RecoverFromPanic turns handler panics into error results.
	RecoverFromPanic bool `toml:"recover_from_panic"`

	// MaxRepeatCount is the largest accepted movement count.
	MaxRepeatCount int `toml:"max_repeat_count"`

	// Metrics enables per-command execution metrics.
	Metrics bool `toml:"metrics"`
}

// PluginsConfig holds Lua command script settings.
type PluginsConfig struct {
	// Scripts lists Lua files and directories of Lua files to load.
	Scripts []string `toml:"scripts"`

	// Timeout bounds each script call.
	Timeout Duration `toml:"timeout"`
}

// Duration is a time.Duration written as a string such as "5s".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log: LogConfig{Level: DefaultLogLevel},
		Editor: EditorConfig{
			WordSeparators: buffer.DefaultWordSeparators,
			LineEnding:     "auto",
		},
		Dispatcher: DispatcherConfig{
			RecoverFromPanic: true,
			MaxRepeatCount:   DefaultMaxRepeatCount,
		},
		Plugins: PluginsConfig{
			Timeout: Duration(DefaultPluginTimeout),
		},
	}
}

// Load reads the TOML file at path over the defaults.
// A missing file is not an error: the defaults are returned.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := cfg.decode(path, data); err != nil {
		return nil, err
	}
	cfg.path = path
	cfg.resolvePaths(filepath.Dir(path))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes TOML data over the defaults. source names the data in
// errors. Relative plugin paths are kept as written.
func Parse(source string, data []byte) (*Config, error) {
	cfg := Default()
	if err := cfg.decode(source, data); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decode strictly unmarshals data into c.
func (c *Config) decode(source string, data []byte) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	err := dec.Decode(c)
	if err == nil {
		return nil
	}

	var strict *toml.StrictMissingError
	if errors.As(err, &strict) && len(strict.Errors) > 0 {
		first := strict.Errors[0]
		return &ValidationError{
			Path:    strings.Join(first.Key(), "."),
			Message: "not recognized in " + source,
			Code:    CodeUnknownSetting,
		}
	}

	perr := &ParseError{Path: source, Err: err}
	var derr *toml.DecodeError
	if errors.As(err, &derr) {
		perr.Line, perr.Column = derr.Position()
	}
	return perr
}

// resolvePaths makes relative plugin paths relative to dir.
func (c *Config) resolvePaths(dir string) {
	for i, p := range c.Plugins.Scripts {
		if p == "" || filepath.IsAbs(p) {
			continue
		}
		c.Plugins.Scripts[i] = filepath.Join(dir, p)
	}
}

// Path returns the file the configuration was loaded from, or "".
func (c *Config) Path() string {
	return c.path
}

// Validate checks every setting and returns the first failure as a
// *ValidationError.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{
			Path:    "log.level",
			Message: "must be one of debug, info, warn, error",
			Value:   c.Log.Level,
			Code:    CodeInvalidEnum,
		}
	}

	if _, _, err := parseLineEnding(c.Editor.LineEnding); err != nil {
		return err
	}

	if c.Dispatcher.MaxRepeatCount < 1 {
		return &ValidationError{
			Path:    "dispatcher.max_repeat_count",
			Message: "must be at least 1",
			Value:   c.Dispatcher.MaxRepeatCount,
			Code:    CodeOutOfRange,
		}
	}

	if c.Plugins.Timeout < 0 {
		return &ValidationError{
			Path:    "plugins.timeout",
			Message: "must not be negative",
			Value:   time.Duration(c.Plugins.Timeout),
			Code:    CodeOutOfRange,
		}
	}
	return nil
}

// LineEndingValue returns the configured line ending. ok is false for auto.
func (c EditorConfig) LineEndingValue() (ending buffer.LineEnding, ok bool) {
	ending, ok, _ = parseLineEnding(c.LineEnding)
	return ending, ok
}

func parseLineEnding(s string) (buffer.LineEnding, bool, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return buffer.LineEndingLF, false, nil
	case "lf":
		return buffer.LineEndingLF, true, nil
	case "crlf":
		return buffer.LineEndingCRLF, true, nil
	case "cr":
		return buffer.LineEndingCR, true, nil
	default:
		return buffer.LineEndingLF, false, &ValidationError{
			Path:    "editor.line_ending",
			Message: "must be one of auto, lf, crlf, cr",
			Value:   s,
			Code:    CodeInvalidEnum,
		}
	}
}

// TOML renders the configuration as a TOML document.
func (c *Config) TOML() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return data, nil
}
