package dispatcher

// Config holds dispatcher configuration options.
type Config struct {
	// EnableMetrics enables dispatch timing and statistics collection.
	EnableMetrics bool

	// RecoverFromPanic wraps handler execution in panic recovery.
	RecoverFromPanic bool

	// MaxRepeatCount limits the count of a request's movement.
	// Zero means no limit.
	MaxRepeatCount int
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		EnableMetrics:    false,
		RecoverFromPanic: true,
		MaxRepeatCount:   10000,
	}
}

// WithMetrics returns a copy of the config with metrics enabled.
func (c Config) WithMetrics() Config {
	c.EnableMetrics = true
	return c
}

// WithPanicRecovery returns a copy of the config with panic recovery set.
func (c Config) WithPanicRecovery(recover bool) Config {
	c.RecoverFromPanic = recover
	return c
}

// WithMaxRepeatCount returns a copy of the config with the max repeat count set.
func (c Config) WithMaxRepeatCount(limit int) Config {
	c.MaxRepeatCount = limit
	return c
}
