// Package motion resolves declarative cursor motions against a text buffer.
//
// A Spec names a motion kind (letter, afterLetter, word, lineEnd), its
// parameters and an optional repeat count. Resolve turns a position and a
// Spec into a target position; Positions, Ranges and Selections apply it
// to every cursor of a multi-cursor selection set.
//
// # Single steps
//
//   - letter: onto the next occurrence of Letter after the cursor
//   - afterLetter: one character past that occurrence
//   - word: to the start of the next word, or with InsideOnly to the end of
//     the current word
//   - lineEnd: past the last character of the line
//
// A step that cannot advance (letter not found, end of line) returns the
// cursor unchanged.
//
// # Counts
//
// A count above one is folded into single steps. A blocked first step
// blocks the whole motion. When the remaining steps stall, the first step
// is recomputed as a standalone step and returned:
//
//	buf := buffer.NewBufferFromString("a.b.c")
//	motion.Resolve(buf, buffer.NewPoint(0, 0), motion.AfterLetter(".").WithCount(5))
//	// (0:4): two dots found, the last step lands past the second one
//
// The resolver only reads the buffer. It never edits text and keeps no
// state between calls.
package motion
