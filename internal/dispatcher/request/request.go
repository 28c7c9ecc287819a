// Package request defines the command requests accepted by the dispatcher.
package request

import (
	"fmt"
	"strings"

	"github.com/dshills/keymotion/internal/motion"
)

// Command names recognized by the default handlers.
const (
	CommandMove      = "move"
	CommandSelect    = "select"
	CommandDelete    = "delete"
	CommandBatch     = "commands"
	CommandIncrement = "increment"
)

// Request is a single command invocation.
type Request struct {
	// Command is the command name.
	Command string

	// Movement is the motion for move, select and delete.
	Movement *motion.Spec

	// Commands is the host command list for the commands batch.
	Commands []CommandCall
}

// CommandCall is one host command in a batch.
type CommandCall struct {
	Command string
	Args    map[string]any
}

// New creates a request for a command with no payload.
func New(command string) Request {
	return Request{Command: command}
}

// Motion creates a request for a motion-driven command.
func Motion(command string, spec motion.Spec) Request {
	return Request{Command: command, Movement: &spec}
}

// Batch creates a commands batch request.
func Batch(calls ...CommandCall) Request {
	return Request{Command: CommandBatch, Commands: calls}
}

// String returns a compact description for logs.
func (r Request) String() string {
	var b strings.Builder
	b.WriteString(r.Command)
	if r.Movement != nil {
		fmt.Fprintf(&b, " %s", r.Movement)
	}
	if len(r.Commands) > 0 {
		names := make([]string, len(r.Commands))
		for i, c := range r.Commands {
			names[i] = c.Command
		}
		fmt.Fprintf(&b, " [%s]", strings.Join(names, ", "))
	}
	return b.String()
}
