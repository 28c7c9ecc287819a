// Package dispatcher routes command requests to handlers and coordinates execution.
//
// The dispatcher is the boundary between a host editor and the motion
// commands. It receives requests (decoded from JSON with gjson or from YAML
// with yaml.v3), finds the handler registered for the command name, and
// runs it against an ExecutionContext built from the host ports it was
// given.
//
// # Handler Execution
//
// When a request is dispatched:
//
//  1. An ExecutionContext is built with the editor, command executor and
//     incrementer
//  2. Pre-dispatch hooks are called (can modify or cancel the request)
//  3. The registry finds the handler; an unknown command is reported to the
//     Notifier as "Unknown command: <name>" and nothing else happens
//  4. The movement is validated against MaxRepeatCount
//  5. The handler is executed (with optional panic recovery)
//  6. A failed result is reported to the Notifier and logged at error level
//  7. Post-dispatch hooks are called
//  8. Metrics are recorded (if enabled)
//
// # Handlers
//
// Handlers implement the Handler interface:
//
//	type Handler interface {
//	    Handle(req request.Request, ctx *execctx.ExecutionContext) Result
//	    CanHandle(command string) bool
//	    Priority() int
//	}
//
// Register handlers by exact command name through the registry:
//
//	d.Registry().RegisterAll(motionHandler, motionHandler.Commands()...)
//
// # Scripts
//
// ParseScript accepts a JSON array of requests, ParseYAMLScript a YAML
// document (or several) holding one request or a list:
//
//	- command: move
//	  movement: {kind: letter, letter: "o", count: 2}
//	- command: commands
//	  commands:
//	    - command: save
//
// Movements also accept the legacy form {type: line, modifier: end}.
package dispatcher
