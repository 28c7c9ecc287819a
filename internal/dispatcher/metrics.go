package dispatcher

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/dshills/keymotion/internal/dispatcher/handler"
	"github.com/dshills/keymotion/internal/dispatcher/request"
)

// Metrics collects dispatch statistics per command and per motion kind.
type Metrics struct {
	mu       sync.RWMutex
	total    CommandMetrics
	commands map[string]*CommandMetrics
	motions  map[string]*MotionMetrics
}

// CommandMetrics holds the outcome counters of one command.
type CommandMetrics struct {
	Name       string
	Dispatches uint64
	Failures   uint64 // error results, panics included
	Unhandled  uint64 // no-op results
	Cancelled  uint64
	Panics     uint64
	Elapsed    time.Duration
	Slowest    time.Duration
}

// Average returns the mean dispatch duration.
func (c CommandMetrics) Average() time.Duration {
	if c.Dispatches == 0 {
		return 0
	}
	return c.Elapsed / time.Duration(c.Dispatches)
}

// FailureRate returns the share of dispatches that failed, in percent.
func (c CommandMetrics) FailureRate() float64 {
	if c.Dispatches == 0 {
		return 0
	}
	return float64(c.Failures) / float64(c.Dispatches) * 100
}

func (c *CommandMetrics) record(elapsed time.Duration, result handler.Result) {
	c.Dispatches++
	c.Elapsed += elapsed
	if elapsed > c.Slowest {
		c.Slowest = elapsed
	}

	switch result.Status {
	case handler.StatusError:
		c.Failures++
		if errors.Is(result.Error, ErrPanic) {
			c.Panics++
		}
	case handler.StatusNoOp:
		c.Unhandled++
	case handler.StatusCancelled:
		c.Cancelled++
	}
}

// MotionMetrics counts the requests that carried one motion kind.
// Unrecognized kinds are counted under the name they were sent with.
type MotionMetrics struct {
	Kind     string
	Requests uint64
	Steps    uint64 // single steps requested, repeat counts expanded
	Failures uint64
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{
		commands: make(map[string]*CommandMetrics),
		motions:  make(map[string]*MotionMetrics),
	}
}

// Record adds one finished dispatch.
func (m *Metrics) Record(req request.Request, elapsed time.Duration, result handler.Result) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.total.record(elapsed, result)

	cm := m.commands[req.Command]
	if cm == nil {
		cm = &CommandMetrics{Name: req.Command}
		m.commands[req.Command] = cm
	}
	cm.record(elapsed, result)

	if req.Movement == nil {
		return
	}
	kind := req.Movement.KindName()
	mm := m.motions[kind]
	if mm == nil {
		mm = &MotionMetrics{Kind: kind}
		m.motions[kind] = mm
	}
	mm.Requests++
	mm.Steps += uint64(max(req.Movement.Count, 1))
	if result.IsError() {
		mm.Failures++
	}
}

// Totals returns the counters over every command.
func (m *Metrics) Totals() CommandMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.total
}

// Command returns the counters of one command.
func (m *Metrics) Command(name string) (CommandMetrics, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cm, ok := m.commands[name]
	if !ok {
		return CommandMetrics{}, false
	}
	return *cm, true
}

// MetricsSnapshot is a point-in-time copy of all counters.
type MetricsSnapshot struct {
	Totals CommandMetrics

	// Commands is ordered by dispatch count, then name.
	Commands []CommandMetrics

	// Motions is ordered by kind name.
	Motions []MotionMetrics
}

// Snapshot copies the current counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := MetricsSnapshot{
		Totals:   m.total,
		Commands: make([]CommandMetrics, 0, len(m.commands)),
		Motions:  make([]MotionMetrics, 0, len(m.motions)),
	}
	for _, cm := range m.commands {
		snap.Commands = append(snap.Commands, *cm)
	}
	for _, mm := range m.motions {
		snap.Motions = append(snap.Motions, *mm)
	}

	sort.Slice(snap.Commands, func(i, j int) bool {
		a, b := snap.Commands[i], snap.Commands[j]
		if a.Dispatches != b.Dispatches {
			return a.Dispatches > b.Dispatches
		}
		return a.Name < b.Name
	})
	sort.Slice(snap.Motions, func(i, j int) bool {
		return snap.Motions[i].Kind < snap.Motions[j].Kind
	})
	return snap
}
