// Package passthrough provides handlers that forward work to the host.
//
// The commands batch runs each listed host command in order through the
// CommandExecutor; increment asks the host to increment the number at the
// start of the primary selection.
package passthrough
