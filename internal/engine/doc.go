// Package engine provides the editor state that motion commands act on.
//
// An Engine combines a line buffer (package buffer) with an ordered set of
// selections (package cursor). It implements the host editor port used by
// the dispatcher: line reads, word lookup, selection replacement and a
// scoped, atomic edit transaction.
//
// # Thread Safety
//
// All Engine operations are thread-safe. Reads go straight to the buffer,
// which allows concurrent readers and serializes transactions. Selections
// are guarded separately.
//
// # Basic Usage
//
//	e := engine.New(engine.WithContent("foo bar"))
//	err := e.Edit(ctx, func(tx engine.EditTx) {
//		tx.Delete(engine.PointRange{
//			Start: engine.Point{Line: 0, Character: 0},
//			End:   engine.Point{Line: 0, Character: 4},
//		})
//	})
//	// e.Text() == "bar"
//
// # Sub-packages
//
//   - buffer: points, ranges, the line buffer and its transactions
//   - cursor: selections and the ordered selection set
package engine
