// Package cursor provides selection management for multi-cursor editing.
//
// Selection Model:
//
// Selections use an anchor/active model where:
//   - Anchor: The fixed end of the selection
//   - Active: The current cursor position
//
// When Anchor == Active, the selection represents just a cursor with no
// selected text. The selection can extend forward (active > anchor) or
// backward (active < anchor), preserving the user's selection direction.
//
// Multi-Cursor Support:
//
// CursorSet holds selections in caller order. Unlike a typical editor
// selection list it never sorts or merges: motion results are mapped back
// to cursors by index, and a restored snapshot must come back exactly as
// it was captured.
//
// Basic usage:
//
//	sel := cursor.NewCursorSelection(buffer.NewPoint(0, 4))
//	sel = sel.Extend(buffer.NewPoint(0, 9))
//
//	cs := cursor.NewCursorSet(sel)
//	cs.Add(cursor.NewCursorSelection(buffer.NewPoint(2, 0)))
//
// Thread Safety:
//
// Selection is an immutable value type and safe for concurrent use.
// CursorSet is not thread-safe and should be protected by external
// synchronization if accessed concurrently.
package cursor
