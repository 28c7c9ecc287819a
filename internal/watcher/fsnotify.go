package watcher

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches individual files using fsnotify.
type Watcher struct {
	mu sync.Mutex

	watcher *fsnotify.Watcher
	config  Config

	// files maps watched file paths to true; dirs counts files per directory.
	files map[string]bool
	dirs  map[string]int

	pending map[string]*pendingEvent

	events chan Event
	errors chan error

	totalEvents int64
	dropped     int64

	closed   bool
	closeCh  chan struct{}
	closedWg sync.WaitGroup
}

// pendingEvent tracks a debounced event.
type pendingEvent struct {
	event Event
	timer *time.Timer
}

// New creates a watcher and starts its event loop.
func New(opts ...Option) (*Watcher, error) {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.BufferSize <= 0 {
		config.BufferSize = 100
	}
	if config.DebounceDelay < 0 {
		config.DebounceDelay = 0
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher: fsw,
		config:  config,
		files:   make(map[string]bool),
		dirs:    make(map[string]int),
		pending: make(map[string]*pendingEvent),
		events:  make(chan Event, config.BufferSize),
		errors:  make(chan error, config.BufferSize),
		closeCh: make(chan struct{}),
	}

	w.closedWg.Add(1)
	go w.processLoop()

	return w, nil
}

// Watch starts watching a file.
func (w *Watcher) Watch(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrPathNotExist
		}
		return err
	}
	if info.IsDir() {
		return ErrIsDirectory
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}
	if w.files[absPath] {
		return ErrAlreadyWatching
	}

	dir := filepath.Dir(absPath)
	if w.dirs[dir] == 0 {
		if err := w.watcher.Add(dir); err != nil {
			return err
		}
	}
	w.dirs[dir]++
	w.files[absPath] = true
	return nil
}

// Unwatch stops watching a file.
func (w *Watcher) Unwatch(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}
	if !w.files[absPath] {
		return ErrNotWatching
	}

	dir := filepath.Dir(absPath)
	w.dirs[dir]--
	if w.dirs[dir] == 0 {
		delete(w.dirs, dir)
		if err := w.watcher.Remove(dir); err != nil {
			return err
		}
	}
	delete(w.files, absPath)
	if p, ok := w.pending[absPath]; ok {
		p.timer.Stop()
		delete(w.pending, absPath)
	}
	return nil
}

// IsWatching returns true if the file is being watched.
func (w *Watcher) IsWatching(path string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	return w.files[absPath]
}

// WatchedPaths returns the watched files, sorted.
func (w *Watcher) WatchedPaths() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	paths := make([]string, 0, len(w.files))
	for p := range w.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Events returns the debounced event channel. It is closed by Close.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns the error channel. It is closed by Close.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// TotalEvents returns the number of events delivered so far.
func (w *Watcher) TotalEvents() int64 {
	return atomic.LoadInt64(&w.totalEvents)
}

// Dropped returns the number of events dropped because the channel was full.
func (w *Watcher) Dropped() int64 {
	return atomic.LoadInt64(&w.dropped)
}

// Close stops the watcher and closes its channels.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	for path, p := range w.pending {
		p.timer.Stop()
		delete(w.pending, path)
	}
	w.mu.Unlock()

	err := w.watcher.Close()
	w.closedWg.Wait()

	// Timers that already fired hold the lock while sending, so no sender
	// remains once closed is set and the lock has been taken.
	w.mu.Lock()
	close(w.events)
	close(w.errors)
	w.mu.Unlock()

	return err
}

// processLoop handles incoming fsnotify events.
func (w *Watcher) processLoop() {
	defer w.closedWg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case fsEvent, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(fsEvent)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.sendError(err)
		}
	}
}

// handleFSEvent filters an fsnotify event and schedules its delivery.
func (w *Watcher) handleFSEvent(fsEvent fsnotify.Event) {
	op := convertOp(fsEvent.Op)
	if op == 0 || (w.config.IgnoreChmod && op == OpChmod) {
		return
	}

	path := filepath.Clean(fsEvent.Name)

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed || !w.files[path] {
		return
	}

	now := time.Now()
	if p, ok := w.pending[path]; ok {
		p.event.Op |= op
		p.event.Timestamp = now
		p.timer.Reset(w.config.DebounceDelay)
		return
	}

	p := &pendingEvent{event: Event{Path: path, Op: op, Timestamp: now}}
	p.timer = time.AfterFunc(w.config.DebounceDelay, func() {
		w.fire(path)
	})
	w.pending[path] = p
}

// fire delivers a pending event.
func (w *Watcher) fire(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	p, ok := w.pending[path]
	if !ok || w.closed {
		return
	}
	delete(w.pending, path)

	select {
	case w.events <- p.event:
		atomic.AddInt64(&w.totalEvents, 1)
	default:
		atomic.AddInt64(&w.dropped, 1)
	}
}

// sendError forwards an error without blocking.
func (w *Watcher) sendError(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	select {
	case w.errors <- err:
	default:
	}
}

// convertOp converts fsnotify.Op to Op.
func convertOp(fsOp fsnotify.Op) Op {
	var op Op
	if fsOp.Has(fsnotify.Create) {
		op |= OpCreate
	}
	if fsOp.Has(fsnotify.Write) {
		op |= OpWrite
	}
	if fsOp.Has(fsnotify.Remove) {
		op |= OpRemove
	}
	if fsOp.Has(fsnotify.Rename) {
		op |= OpRename
	}
	if fsOp.Has(fsnotify.Chmod) {
		op |= OpChmod
	}
	return op
}
