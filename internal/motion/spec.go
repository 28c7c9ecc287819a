package motion

import (
	"fmt"

	"github.com/dshills/keymotion/internal/engine/buffer"
)

// Kind identifies a motion type.
type Kind uint8

const (
	// KindLetter moves onto the next occurrence of a letter on the line.
	KindLetter Kind = iota + 1
	// KindAfterLetter moves just past the next occurrence of a letter.
	KindAfterLetter
	// KindWord moves to the end of the current word or the start of the next.
	KindWord
	// KindLineEnd moves past the last character of the line.
	KindLineEnd
)

// String returns the wire name of the kind.
func (k Kind) String() string {
	switch k {
	case KindLetter:
		return "letter"
	case KindAfterLetter:
		return "afterLetter"
	case KindWord:
		return "word"
	case KindLineEnd:
		return "lineEnd"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// ParseKind converts a wire name to a Kind.
// The legacy pair ("line", "end") is accepted as KindLineEnd.
func ParseKind(name, modifier string) (Kind, error) {
	switch name {
	case "letter":
		return KindLetter, nil
	case "afterLetter":
		return KindAfterLetter, nil
	case "word":
		return KindWord, nil
	case "lineEnd":
		return KindLineEnd, nil
	case "line":
		if modifier == "end" {
			return KindLineEnd, nil
		}
		return 0, &Error{Kind: name + ":" + modifier}
	default:
		return 0, &Error{Kind: name}
	}
}

// Spec is a declarative description of a cursor motion.
// Spec is a value: resolution derives modified copies and never
// changes the caller's Spec.
type Spec struct {
	Kind Kind

	// Name is the kind as received when it was not recognized. Such a spec
	// survives decoding and fails with *Error when it is validated or
	// resolved.
	Name string

	// Letter is the text searched for by letter and afterLetter motions.
	Letter string

	// InsideOnly makes a single, non-repeating word step stop at the end of
	// the current word instead of the start of the next one.
	InsideOnly bool

	// Count repeats the single step. Zero means 1.
	Count int

	// WillRepeat marks a step taken as part of a repeat sequence.
	// It is set by Resolve itself; callers leave it false.
	WillRepeat bool
}

// Unknown returns a spec for a kind name that is not recognized.
func Unknown(name string) Spec {
	return Spec{Name: name}
}

// KindName returns the kind as reported in errors and descriptions.
func (s Spec) KindName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Kind.String()
}

// Letter returns a letter motion spec.
func Letter(letter string) Spec {
	return Spec{Kind: KindLetter, Letter: letter}
}

// AfterLetter returns an afterLetter motion spec.
func AfterLetter(letter string) Spec {
	return Spec{Kind: KindAfterLetter, Letter: letter}
}

// Word returns a word motion spec.
func Word(insideOnly bool) Spec {
	return Spec{Kind: KindWord, InsideOnly: insideOnly}
}

// LineEnd returns a lineEnd motion spec.
func LineEnd() Spec {
	return Spec{Kind: KindLineEnd}
}

// WithCount returns a copy of the spec with the given repeat count.
func (s Spec) WithCount(count int) Spec {
	s.Count = count
	return s
}

// repeating returns a single-step copy marked as part of a repeat sequence.
func (s Spec) repeating() Spec {
	s.Count = 1
	s.WillRepeat = true
	return s
}

// count returns the effective repeat count.
func (s Spec) count() int {
	if s.Count < 1 {
		return 1
	}
	return s.Count
}

// Validate checks the invariants of a caller-built spec.
func (s Spec) Validate() error {
	switch s.Kind {
	case KindLetter, KindAfterLetter:
		if s.Letter == "" {
			return fmt.Errorf("%w: %s motion needs a letter", ErrInvalidSpec, s.Kind)
		}
	case KindWord, KindLineEnd:
	default:
		return &Error{Kind: s.KindName()}
	}
	if s.Count < 0 {
		return fmt.Errorf("%w: count must be at least 1, got %d", ErrInvalidSpec, s.Count)
	}
	return nil
}

// String returns a compact description of the spec.
func (s Spec) String() string {
	out := s.KindName()
	if s.Letter != "" {
		out += fmt.Sprintf("(%q)", s.Letter)
	}
	if s.InsideOnly {
		out += "[inside]"
	}
	if s.Count > 1 {
		out = fmt.Sprintf("%d%s", s.Count, out)
	}
	return out
}

// Point is an alias for buffer.Point for convenience.
type Point = buffer.Point

// PointRange is an alias for buffer.PointRange for convenience.
type PointRange = buffer.PointRange
