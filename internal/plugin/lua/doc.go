// Package lua runs host commands written in Lua.
//
// A Host owns one sandboxed gopher-lua state. Every global function a loaded
// script defines becomes a command that the dispatcher's commands batch can
// execute by name:
//
//	function save(args)
//	    if args.force then
//	        keymotion.log("forced save")
//	    end
//	end
//
// The function receives the command arguments as a table. A command fails
// when the script raises an error or returns false (or nil) followed by a
// message string.
//
// Scripts reach back into the editor through the keymotion module:
//
//	keymotion.dispatch({command = "move", movement = {kind = "lineEnd"}})
//	keymotion.log("moved")
//
// The state is not goroutine-safe; the Host serializes every call with a
// mutex. A script may not run a host command of the same Host while one is
// in progress, so a dispatched commands batch that targets the same Host
// fails with ErrReentrant instead of deadlocking.
//
// The sandbox opens only the base, table, string and math libraries and
// removes dofile, loadfile, load and loadstring. require accepts those
// libraries and the keymotion module.
package lua
