package config

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrValidationFailed is matched by every *ValidationError.
var ErrValidationFailed = errors.New("validation failed")

// ParseError reports malformed TOML. Line and Column are 1-based and zero
// when the decoder did not report a position.
type ParseError struct {
	Path   string
	Line   int
	Column int
	Err    error
}

// Error renders the error as path:line:column: message.
func (e *ParseError) Error() string {
	loc := e.Path
	if e.Line > 0 {
		loc += ":" + strconv.Itoa(e.Line)
		if e.Column > 0 {
			loc += ":" + strconv.Itoa(e.Column)
		}
	}
	msg := "malformed TOML"
	if e.Err != nil {
		msg = e.Err.Error()
	}
	return loc + ": " + msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError rejects one setting. Path is the dotted TOML key.
type ValidationError struct {
	Path    string
	Message string
	Value   any
	Code    Code
}

func (e *ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("%s %s: %s", e.Code, e.Path, e.Message)
	}
	return fmt.Sprintf("%s %s: %s (got %v)", e.Code, e.Path, e.Message, e.Value)
}

// Is reports whether target is ErrValidationFailed.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

// Code classifies a ValidationError.
type Code uint8

const (
	CodeUnknownSetting Code = iota
	CodeTypeMismatch
	CodeOutOfRange
	CodeInvalidEnum
)

var codeNames = [...]string{
	CodeUnknownSetting: "unknown setting",
	CodeTypeMismatch:   "type mismatch",
	CodeOutOfRange:     "out of range",
	CodeInvalidEnum:    "invalid value",
}

func (c Code) String() string {
	if int(c) < len(codeNames) {
		return codeNames[c]
	}
	return "code(" + strconv.Itoa(int(c)) + ")"
}
