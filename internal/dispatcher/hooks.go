package dispatcher

import (
	"github.com/dshills/keymotion/internal/dispatcher/execctx"
	"github.com/dshills/keymotion/internal/dispatcher/handler"
	"github.com/dshills/keymotion/internal/dispatcher/request"
)

// PreDispatchHook is called before a request is dispatched.
// Returning false cancels the dispatch.
type PreDispatchHook interface {
	// PreDispatch is called before dispatch.
	// It may modify the request or context.
	// Returns false to cancel the dispatch.
	PreDispatch(req *request.Request, ctx *execctx.ExecutionContext) bool
}

// PostDispatchHook is called after a request is dispatched.
type PostDispatchHook interface {
	// PostDispatch is called after dispatch completes.
	// It may inspect or modify the result.
	PostDispatch(req *request.Request, ctx *execctx.ExecutionContext, result *handler.Result)
}

// PreDispatchFunc is a function adapter for PreDispatchHook.
type PreDispatchFunc func(req *request.Request, ctx *execctx.ExecutionContext) bool

// PreDispatch implements PreDispatchHook.
func (f PreDispatchFunc) PreDispatch(req *request.Request, ctx *execctx.ExecutionContext) bool {
	return f(req, ctx)
}

// PostDispatchFunc is a function adapter for PostDispatchHook.
type PostDispatchFunc func(req *request.Request, ctx *execctx.ExecutionContext, result *handler.Result)

// PostDispatch implements PostDispatchHook.
func (f PostDispatchFunc) PostDispatch(req *request.Request, ctx *execctx.ExecutionContext, result *handler.Result) {
	f(req, ctx, result)
}

// LoggingHook logs every request and its outcome at debug level.
type LoggingHook struct {
	Logger Logger
}

// NewLoggingHook creates a new logging hook.
func NewLoggingHook(logger Logger) *LoggingHook {
	return &LoggingHook{Logger: logger}
}

// PreDispatch logs the request being dispatched.
func (h *LoggingHook) PreDispatch(req *request.Request, ctx *execctx.ExecutionContext) bool {
	if h.Logger != nil {
		h.Logger.Debug("dispatching %s", req)
	}
	return true
}

// PostDispatch logs the dispatch result.
func (h *LoggingHook) PostDispatch(req *request.Request, ctx *execctx.ExecutionContext, result *handler.Result) {
	if h.Logger != nil {
		h.Logger.Debug("dispatch complete: %s -> %s", req.Command, result.Status)
	}
}
