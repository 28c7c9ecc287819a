package dispatcher

import (
	"sort"
	"sync"

	"github.com/dshills/keymotion/internal/dispatcher/handler"
)

// Registry manages handler registration by exact command name.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string][]handler.Handler // command name -> handlers (sorted by priority)
}

// NewRegistry creates a new handler registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string][]handler.Handler),
	}
}

// Register adds a handler for a command name.
// Multiple handlers can be registered for the same command; they are sorted by priority.
func (r *Registry) Register(command string, h handler.Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	handlers := r.handlers[command]
	handlers = append(handlers, h)

	// Sort by priority (descending)
	sort.SliceStable(handlers, func(i, j int) bool {
		return handlers[i].Priority() > handlers[j].Priority()
	})

	r.handlers[command] = handlers
}

// Unregister removes all handlers for a command name.
func (r *Registry) Unregister(command string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handlers, command)
}

// RegisterAll adds h for every listed command.
func (r *Registry) RegisterAll(h handler.Handler, commands ...string) {
	for _, command := range commands {
		if h.CanHandle(command) {
			r.Register(command, h)
		}
	}
}

// Get returns the highest priority handler for a command.
// Returns nil if no handler is registered.
func (r *Registry) Get(command string) handler.Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	handlers := r.handlers[command]
	if len(handlers) == 0 {
		return nil
	}
	return handlers[0]
}

// Has returns true if a handler is registered for the command.
func (r *Registry) Has(command string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers[command]) > 0
}

// List returns all registered command names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered commands.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers)
}

// Clear removes all registered handlers.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers = make(map[string][]handler.Handler)
}
