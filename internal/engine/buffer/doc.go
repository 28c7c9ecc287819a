// Package buffer provides a thread-safe, line-oriented text buffer and the
// position types used throughout the editor engine.
//
// The buffer package provides:
//
//   - Point and PointRange value types (0-indexed line, character in code points)
//   - Thread-safe read access to lines via sync.RWMutex
//   - Word lookup (WordRangeAt) based on Unicode word segmentation
//   - Atomic edit transactions with per-transaction IDs
//   - Read-only snapshots for concurrent access
//
// Basic usage:
//
//	buf := buffer.NewBufferFromString("foo bar")
//
//	// Find the word under a position
//	r, ok := buf.WordRangeAt(buffer.NewPoint(0, 1)) // [(0:0):(0:3)), true
//
//	// Delete ranges atomically
//	res, err := buf.Transact(func(tx *buffer.Tx) {
//	    tx.Delete(r)
//	})
//
// Transactions:
//
// Edits queued on a Tx are validated together. If any range falls outside
// the buffer, or two non-deletion edits overlap, nothing is applied.
// Overlapping deletions are merged. Edits are applied back to front, so
// every range is interpreted against the text as it was before the
// transaction started.
package buffer
