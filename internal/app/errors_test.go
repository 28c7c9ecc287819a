package app

import (
	"errors"
	"strings"
	"testing"

	"github.com/dshills/keymotion/internal/dispatcher/handler"
)

func TestInitError(t *testing.T) {
	cause := errors.New("boom")
	err := &InitError{Component: "config", Err: cause}

	if err.Error() != "init config: boom" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("expected InitError to unwrap to its cause")
	}
}

func TestDispatchError(t *testing.T) {
	cause := errors.New("no number")
	tests := []struct {
		name     string
		err      *DispatchError
		expected string
	}{
		{"with cause", &DispatchError{Command: "increment", Status: handler.StatusError, Err: cause}, "increment: no number"},
		{"message only", &DispatchError{Command: "move", Status: handler.StatusCancelled, Message: "cancelled by hook"}, "move: cancelled by hook"},
		{"status only", &DispatchError{Command: "move", Status: handler.StatusCancelled}, "move: " + handler.StatusCancelled.String()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.expected {
				t.Errorf("Error() = %q, expected %q", tt.err.Error(), tt.expected)
			}
			if !errors.Is(tt.err, ErrCommandFailed) {
				t.Error("expected errors.Is(err, ErrCommandFailed)")
			}
		})
	}

	wrapped := &DispatchError{Command: "increment", Err: cause}
	if !errors.Is(wrapped, cause) {
		t.Error("expected DispatchError to unwrap to its cause")
	}
}

func TestErrorList(t *testing.T) {
	var list ErrorList
	if list.HasErrors() || list.AsError() != nil || list.First() != nil {
		t.Fatal("empty list should report no errors")
	}

	first := errors.New("first")
	second := errors.New("second")
	list.Add(nil)
	list.Add(first)
	list.Add(second)

	if list.Len() != 2 {
		t.Errorf("expected 2 errors, got %d", list.Len())
	}
	if list.First() != first {
		t.Errorf("unexpected first error %v", list.First())
	}
	if !strings.HasPrefix(list.Error(), "2 errors") {
		t.Errorf("unexpected message %q", list.Error())
	}
	if !errors.Is(list.AsError(), second) {
		t.Error("expected errors.Is to search every collected error")
	}

	errs := list.Errors()
	errs[0] = nil
	if list.First() != first {
		t.Error("Errors() must return a copy")
	}
}
