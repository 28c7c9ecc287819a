// Package watcher reports changes to individual files.
//
// Editors often save by writing a temporary file and renaming it over the
// original, which drops an inotify watch placed on the file itself. The
// Watcher therefore watches each file's parent directory and filters events
// by name. Rapid changes to one file are coalesced into a single Event
// delivered after the debounce delay.
package watcher

import (
	"context"
	"errors"
	"time"
)

// Common errors returned by watcher operations.
var (
	ErrWatcherClosed   = errors.New("watcher is closed")
	ErrAlreadyWatching = errors.New("path is already being watched")
	ErrNotWatching     = errors.New("path is not being watched")
	ErrPathNotExist    = errors.New("path does not exist")
	ErrIsDirectory     = errors.New("path is a directory")
)

// Op represents the type of file system operation.
type Op uint32

const (
	// OpCreate indicates the file was created.
	OpCreate Op = 1 << iota
	// OpWrite indicates the file was written to.
	OpWrite
	// OpRemove indicates the file was removed.
	OpRemove
	// OpRename indicates the file was renamed away.
	OpRename
	// OpChmod indicates file permissions were changed.
	OpChmod
)

// String returns a human-readable representation of the operation.
func (op Op) String() string {
	switch op {
	case OpCreate:
		return "CREATE"
	case OpWrite:
		return "WRITE"
	case OpRemove:
		return "REMOVE"
	case OpRename:
		return "RENAME"
	case OpChmod:
		return "CHMOD"
	case 0:
		return "NONE"
	}

	var s string
	for _, o := range []Op{OpCreate, OpWrite, OpRemove, OpRename, OpChmod} {
		if op.Has(o) {
			if s != "" {
				s += "|"
			}
			s += o.String()
		}
	}
	if s == "" {
		return "UNKNOWN"
	}
	return s
}

// Has returns true if the operation includes the given op.
func (op Op) Has(o Op) bool {
	return op&o == o
}

// Event represents a change to a watched file.
type Event struct {
	// Path is the absolute path of the file.
	Path string

	// Op holds every operation coalesced into this event.
	Op Op

	// Timestamp is when the last coalesced change occurred.
	Timestamp time.Time
}

// Config holds watcher configuration options.
type Config struct {
	// DebounceDelay is the quiet period before an event is delivered.
	// Default: 100ms
	DebounceDelay time.Duration

	// BufferSize is the size of the event and error channels.
	// Default: 100
	BufferSize int

	// IgnoreChmod drops events that only change permissions.
	// Default: true
	IgnoreChmod bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		DebounceDelay: 100 * time.Millisecond,
		BufferSize:    100,
		IgnoreChmod:   true,
	}
}

// Option configures a watcher.
type Option func(*Config)

// WithDebounceDelay sets the debounce delay.
func WithDebounceDelay(d time.Duration) Option {
	return func(c *Config) {
		c.DebounceDelay = d
	}
}

// WithBufferSize sets the channel buffer size.
func WithBufferSize(size int) Option {
	return func(c *Config) {
		c.BufferSize = size
	}
}

// WithIgnoreChmod sets whether permission-only changes are dropped.
func WithIgnoreChmod(ignore bool) Option {
	return func(c *Config) {
		c.IgnoreChmod = ignore
	}
}

// Handler is a function that handles file events.
type Handler func(event Event)

// ErrorHandler is a function that handles watcher errors.
type ErrorHandler func(err error)

// Run delivers events and errors from w to the handlers until ctx is
// cancelled or w is closed. errFn may be nil.
func Run(ctx context.Context, w *Watcher, fn Handler, errFn ErrorHandler) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.Events():
			if !ok {
				return
			}
			fn(event)
		case err, ok := <-w.Errors():
			if !ok {
				return
			}
			if errFn != nil {
				errFn(err)
			}
		}
	}
}
