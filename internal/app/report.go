package app

import (
	"fmt"

	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/dshills/keymotion/internal/engine"
)

// ReportOptions selects optional report sections.
type ReportOptions struct {
	// Metrics includes dispatcher metrics when they are enabled.
	Metrics bool

	// Compact disables indentation.
	Compact bool
}

// Report renders the session state as a JSON document:
//
//	{
//	  "text": "...",
//	  "lines": 3,
//	  "lineEnding": "lf",
//	  "revision": 7,
//	  "edits": 2,
//	  "readOnly": false,
//	  "selections": [{"anchor": {"line": 0, "character": 4}, "active": {...}}],
//	  "results": [{"command": "move", "status": "ok"}],
//	  "notices": ["..."],
//	  "metrics": {...}
//	}
func (app *Application) Report(opts ReportOptions) ([]byte, error) {
	snap := app.engine.Snapshot()

	w := &reportWriter{data: []byte(`{}`)}
	w.set("text", snap.Text())
	w.set("lines", snap.LineCount())
	w.set("lineEnding", lineEndingName(snap.LineEnding()))
	w.set("revision", uint64(snap.RevisionID()))
	w.set("edits", app.EditCount())
	w.set("readOnly", app.engine.IsReadOnly())

	w.raw("selections", "[]")
	for i, sel := range app.engine.Selections() {
		w.point(fmt.Sprintf("selections.%d.anchor", i), sel.Anchor)
		w.point(fmt.Sprintf("selections.%d.active", i), sel.Active)
	}

	w.raw("results", "[]")
	for i, step := range app.Steps() {
		base := fmt.Sprintf("results.%d", i)
		w.set(base+".command", step.Command)
		w.set(base+".status", step.Status.String())
		if step.Message != "" {
			w.set(base+".message", step.Message)
		}
		if step.Err != nil {
			w.set(base+".error", step.Err.Error())
		}
	}

	w.raw("notices", "[]")
	for i, n := range app.Notices() {
		w.set(fmt.Sprintf("notices.%d", i), n)
	}

	if opts.Metrics {
		if m := app.dispatcher.Metrics(); m != nil {
			ms := m.Snapshot()
			w.set("metrics.dispatches", ms.Totals.Dispatches)
			w.set("metrics.errors", ms.Totals.Failures)
			w.set("metrics.unhandled", ms.Totals.Unhandled)
			w.set("metrics.cancelled", ms.Totals.Cancelled)
			w.set("metrics.panics", ms.Totals.Panics)
			w.set("metrics.averageMicros", ms.Totals.Average().Microseconds())
			w.raw("metrics.commands", "[]")
			for i, cm := range ms.Commands {
				base := fmt.Sprintf("metrics.commands.%d", i)
				w.set(base+".name", cm.Name)
				w.set(base+".count", cm.Dispatches)
				w.set(base+".errors", cm.Failures)
				w.set(base+".errorRate", cm.FailureRate())
				w.set(base+".maxMicros", cm.Slowest.Microseconds())
			}
			w.raw("metrics.motions", "[]")
			for i, mm := range ms.Motions {
				base := fmt.Sprintf("metrics.motions.%d", i)
				w.set(base+".kind", mm.Kind)
				w.set(base+".count", mm.Requests)
				w.set(base+".steps", mm.Steps)
				w.set(base+".errors", mm.Failures)
			}
		}
	}

	if w.err != nil {
		return nil, fmt.Errorf("building report: %w", w.err)
	}
	if opts.Compact {
		return pretty.Ugly(w.data), nil
	}
	return pretty.PrettyOptions(w.data, &pretty.Options{Width: 80, Indent: "  "}), nil
}

// reportWriter accumulates sjson updates and keeps the first error.
type reportWriter struct {
	data []byte
	err  error
}

func (w *reportWriter) set(path string, value any) {
	if w.err != nil {
		return
	}
	w.data, w.err = sjson.SetBytes(w.data, path, value)
}

func (w *reportWriter) raw(path, value string) {
	if w.err != nil {
		return
	}
	w.data, w.err = sjson.SetRawBytes(w.data, path, []byte(value))
}

func (w *reportWriter) point(path string, p engine.Point) {
	w.set(path+".line", p.Line)
	w.set(path+".character", p.Character)
}

func lineEndingName(le engine.LineEnding) string {
	switch le {
	case engine.LineEndingCRLF:
		return "crlf"
	case engine.LineEndingCR:
		return "cr"
	default:
		return "lf"
	}
}
