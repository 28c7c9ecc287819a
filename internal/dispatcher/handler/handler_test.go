package handler_test

import (
	"strings"
	"testing"

	"github.com/dshills/keymotion/internal/dispatcher/execctx"
	"github.com/dshills/keymotion/internal/dispatcher/handler"
	"github.com/dshills/keymotion/internal/dispatcher/request"
)

func TestHandlerFunc(t *testing.T) {
	called := false
	fn := handler.NewHandlerFunc(func(req request.Request, ctx *execctx.ExecutionContext) handler.Result {
		called = true
		return handler.Success()
	})

	result := fn.Handle(request.New("test"), execctx.New())

	if !called {
		t.Error("expected handler func to be called")
	}
	if result.Status != handler.StatusOK {
		t.Errorf("expected StatusOK, got %v", result.Status)
	}
}

func TestHandlerFuncNil(t *testing.T) {
	fn := &handler.HandlerFunc{}
	result := fn.Handle(request.New("test"), execctx.New())

	if result.Status != handler.StatusError {
		t.Errorf("expected StatusError for nil func, got %v", result.Status)
	}
}

func TestHandlerFuncWithPriority(t *testing.T) {
	fn := handler.NewHandlerFuncWithPriority(func(req request.Request, ctx *execctx.ExecutionContext) handler.Result {
		return handler.Success()
	}, 50)

	if fn.Priority() != 50 {
		t.Errorf("expected priority 50, got %d", fn.Priority())
	}
	if !fn.CanHandle("anything") {
		t.Error("expected CanHandle to return true")
	}
}

func TestSet(t *testing.T) {
	set := handler.NewSet("motion")
	set.Register("move", func(req request.Request, ctx *execctx.ExecutionContext) handler.Result {
		return handler.SuccessWithMessage("moved")
	})

	if set.Name() != "motion" {
		t.Errorf("unexpected name %q", set.Name())
	}
	if !set.CanHandle("move") || set.CanHandle("select") {
		t.Error("CanHandle should match registered commands only")
	}

	result := set.Handle(request.New("move"), execctx.New())
	if result.Message != "moved" {
		t.Errorf("expected 'moved', got %q", result.Message)
	}

	result = set.Handle(request.New("select"), execctx.New())
	if !result.IsError() || !strings.Contains(result.Error.Error(), "select") {
		t.Errorf("expected error for unregistered command, got %+v", result)
	}
}
