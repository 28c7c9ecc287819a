package motion

import (
	"errors"
	"testing"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		name, modifier string
		want           Kind
		wantErr        bool
	}{
		{"letter", "", KindLetter, false},
		{"afterLetter", "", KindAfterLetter, false},
		{"word", "", KindWord, false},
		{"lineEnd", "", KindLineEnd, false},
		{"line", "end", KindLineEnd, false},
		{"line", "start", 0, true},
		{"paragraph", "", 0, true},
		{"", "", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseKind(tt.name, tt.modifier)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownMotion) {
				t.Errorf("ParseKind(%q, %q): expected ErrUnknownMotion, got %v", tt.name, tt.modifier, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseKind(%q, %q) = %v, %v; want %v", tt.name, tt.modifier, got, err, tt.want)
		}
	}
}

func TestKindStringRoundTrip(t *testing.T) {
	for _, k := range []Kind{KindLetter, KindAfterLetter, KindWord, KindLineEnd} {
		got, err := ParseKind(k.String(), "")
		if err != nil || got != k {
			t.Errorf("round trip of %s gave %v, %v", k, got, err)
		}
	}
}

func TestErrorMessage(t *testing.T) {
	_, err := ParseKind("paragraph", "")
	if err.Error() != "Unknown movement: paragraph" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestUnknownSpecReportsName(t *testing.T) {
	spec := Unknown("paragraph").WithCount(2)

	if got := spec.Validate(); got == nil || got.Error() != "Unknown movement: paragraph" {
		t.Errorf("Validate() = %v", got)
	}
	if got := spec.String(); got != "2paragraph" {
		t.Errorf("String() = %q", got)
	}
}

func TestSpecValidate(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
		want error
	}{
		{"letter ok", Letter("a"), nil},
		{"letter empty", Letter(""), ErrInvalidSpec},
		{"after letter empty", AfterLetter(""), ErrInvalidSpec},
		{"word ok", Word(true), nil},
		{"line end ok", LineEnd().WithCount(3), nil},
		{"negative count", LineEnd().WithCount(-1), ErrInvalidSpec},
		{"zero kind", Spec{}, ErrUnknownMotion},
		{"unknown name", Unknown("paragraph"), ErrUnknownMotion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			if tt.want == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestSpecRepeatingCopies(t *testing.T) {
	s := Word(true).WithCount(4)
	r := s.repeating()

	if s.Count != 4 || s.WillRepeat {
		t.Errorf("original modified: %+v", s)
	}
	if r.Count != 1 || !r.WillRepeat || !r.InsideOnly {
		t.Errorf("unexpected repeating copy: %+v", r)
	}
}

func TestSpecString(t *testing.T) {
	if got := AfterLetter(",").WithCount(3).String(); got != `3afterLetter(",")` {
		t.Errorf("unexpected %s", got)
	}
	if got := Word(true).String(); got != "word[inside]" {
		t.Errorf("unexpected %s", got)
	}
}
