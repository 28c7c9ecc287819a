package config

import (
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "KEYMOTION_"

// envSetters maps environment variables to the setting they override.
var envSetters = map[string]struct {
	path string
	set  func(c *Config, v string) error
}{
	"KEYMOTION_LOG_LEVEL": {"log.level", func(c *Config, v string) error {
		c.Log.Level = v
		return nil
	}},
	"KEYMOTION_WORD_SEPARATORS": {"editor.word_separators", func(c *Config, v string) error {
		c.Editor.WordSeparators = v
		return nil
	}},
	"KEYMOTION_LINE_ENDING": {"editor.line_ending", func(c *Config, v string) error {
		c.Editor.LineEnding = v
		return nil
	}},
	"KEYMOTION_MAX_REPEAT_COUNT": {"dispatcher.max_repeat_count", func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		c.Dispatcher.MaxRepeatCount = n
		return nil
	}},
	"KEYMOTION_RECOVER_FROM_PANIC": {"dispatcher.recover_from_panic", func(c *Config, v string) error {
		b, err := parseBool(v)
		if err != nil {
			return err
		}
		c.Dispatcher.RecoverFromPanic = b
		return nil
	}},
	"KEYMOTION_PLUGIN_TIMEOUT": {"plugins.timeout", func(c *Config, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		c.Plugins.Timeout = Duration(d)
		return nil
	}},
}

// ApplyEnv overrides settings from the process environment.
func (c *Config) ApplyEnv() error {
	return c.ApplyEnvFunc(os.LookupEnv)
}

// ApplyEnvFunc overrides settings from lookup. Variables are applied in name
// order; an empty value counts as set. The result is validated.
func (c *Config) ApplyEnvFunc(lookup func(string) (string, bool)) error {
	for _, name := range EnvVars() {
		v, ok := lookup(name)
		if !ok {
			continue
		}
		setter := envSetters[name]
		if err := setter.set(c, v); err != nil {
			return &ValidationError{
				Path:    setter.path,
				Message: "invalid value in " + name,
				Value:   v,
				Code:    CodeTypeMismatch,
			}
		}
	}
	return c.Validate()
}

// EnvVars returns the names of the supported environment variables.
func EnvVars() []string {
	names := make([]string, 0, len(envSetters))
	for name := range envSetters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// parseBool accepts the usual spellings of a boolean.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0":
		return false, nil
	default:
		return false, strconv.ErrSyntax
	}
}
