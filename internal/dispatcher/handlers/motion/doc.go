// Package motion provides handlers for motion-driven commands.
//
// Every command resolves the request's movement against the active point
// of each selection, independently and in selection order:
//
//   - move collapses each selection onto its target
//   - select keeps each anchor and moves the active point to the target
//   - delete removes the text between each active point and its target in
//     one atomic edit, then restores the selections exactly as they were
//     before the edit
//
// Resolution is read-only, so a motion error aborts the command before
// the buffer or the selections are touched.
package motion
