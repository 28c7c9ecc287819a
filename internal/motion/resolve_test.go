package motion_test

import (
	"errors"
	"testing"

	"github.com/dshills/keymotion/internal/engine/buffer"
	"github.com/dshills/keymotion/internal/motion"
)

func pt(line, char int) buffer.Point {
	return buffer.NewPoint(line, char)
}

func TestResolveScenarios(t *testing.T) {
	tests := []struct {
		name string
		text string
		pos  buffer.Point
		spec motion.Spec
		want buffer.Point
	}{
		{"letter found", "hello world", pt(0, 0), motion.Letter("o"), pt(0, 4)},
		{"letter not found", "hello world", pt(0, 0), motion.Letter("z"), pt(0, 0)},
		{"line end", "hello world", pt(0, 3), motion.LineEnd(), pt(0, 11)},
		{"word inside", "foo bar", pt(0, 0), motion.Word(true), pt(0, 3)},
		{"word next start", "foo bar", pt(0, 0), motion.Word(false), pt(0, 4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := buffer.NewBufferFromString(tt.text)
			got, err := motion.Resolve(buf, tt.pos, tt.spec)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%s, %s) = %s, want %s", tt.pos, tt.spec, got, tt.want)
			}
		})
	}
}

func TestResolveLetter(t *testing.T) {
	buf := buffer.NewBufferFromString("abcabc\nxyz")

	tests := []struct {
		pos    buffer.Point
		letter string
		want   buffer.Point
	}{
		{pt(0, 0), "a", pt(0, 3)}, // the letter under the cursor is skipped
		{pt(0, 0), "c", pt(0, 2)},
		{pt(0, 3), "a", pt(0, 3)},
		{pt(0, 5), "c", pt(0, 5)},
		{pt(0, 0), "bc", pt(0, 1)},
		{pt(0, 0), "x", pt(0, 0)}, // never crosses lines
		{pt(1, 0), "z", pt(1, 2)},
	}

	for _, tt := range tests {
		got, err := motion.Resolve(buf, tt.pos, motion.Letter(tt.letter))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != tt.want {
			t.Errorf("letter %q from %s = %s, want %s", tt.letter, tt.pos, got, tt.want)
		}
	}
}

func TestResolveLetterUnicode(t *testing.T) {
	buf := buffer.NewBufferFromString("héllo wörld")

	got, err := motion.Resolve(buf, pt(0, 0), motion.Letter("ö"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != pt(0, 7) {
		t.Errorf("expected (0:7), got %s", got)
	}
}

func TestResolveAfterLetter(t *testing.T) {
	buf := buffer.NewBufferFromString("a,b,c")

	got, err := motion.Resolve(buf, pt(0, 0), motion.AfterLetter(","))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != pt(0, 2) {
		t.Errorf("expected (0:2), got %s", got)
	}

	got, _ = motion.Resolve(buf, pt(0, 3), motion.AfterLetter(","))
	if got != pt(0, 3) {
		t.Errorf("not found should stay at (0:3), got %s", got)
	}
}

func TestResolveAfterLetterWillRepeatStaysOnLetter(t *testing.T) {
	buf := buffer.NewBufferFromString("a,b,c")
	spec := motion.AfterLetter(",")
	spec.WillRepeat = true

	got, err := motion.Resolve(buf, pt(0, 0), spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != pt(0, 1) {
		t.Errorf("expected (0:1), got %s", got)
	}
}

func TestResolveAfterLetterCount(t *testing.T) {
	buf := buffer.NewBufferFromString("a,b,c,d")

	tests := []struct {
		count int
		want  buffer.Point
	}{
		{1, pt(0, 2)},
		{2, pt(0, 4)},
		{3, pt(0, 6)},
		// only three commas: the stalled remainder falls back to the
		// standalone first step of the last productive frame
		{4, pt(0, 6)},
		{9, pt(0, 6)},
	}

	for _, tt := range tests {
		got, err := motion.Resolve(buf, pt(0, 0), motion.AfterLetter(",").WithCount(tt.count))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != tt.want {
			t.Errorf("count %d: got %s, want %s", tt.count, got, tt.want)
		}
	}
}

func TestResolveLetterCount(t *testing.T) {
	buf := buffer.NewBufferFromString("xoxoxo")

	tests := []struct {
		count int
		want  buffer.Point
	}{
		{2, pt(0, 3)},
		{3, pt(0, 5)},
		{4, pt(0, 5)},
	}

	for _, tt := range tests {
		got, err := motion.Resolve(buf, pt(0, 0), motion.Letter("o").WithCount(tt.count))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != tt.want {
			t.Errorf("count %d: got %s, want %s", tt.count, got, tt.want)
		}
	}
}

func TestResolveWord(t *testing.T) {
	buf := buffer.NewBufferFromString("foo  bar.baz")

	tests := []struct {
		name string
		pos  buffer.Point
		spec motion.Spec
		want buffer.Point
	}{
		{"skip spaces", pt(0, 0), motion.Word(false), pt(0, 5)},
		{"from gap", pt(0, 4), motion.Word(false), pt(0, 5)},
		{"inside from gap stays", pt(0, 4), motion.Word(true), pt(0, 4)},
		{"skip separator", pt(0, 5), motion.Word(false), pt(0, 9)},
		{"inside mid word", pt(0, 6), motion.Word(true), pt(0, 8)},
		{"last word runs to line end", pt(0, 9), motion.Word(false), pt(0, 12)},
		{"at line end", pt(0, 12), motion.Word(false), pt(0, 12)},
		{"count two", pt(0, 0), motion.Word(false).WithCount(2), pt(0, 9)},
		{"inside count two", pt(0, 0), motion.Word(true).WithCount(2), pt(0, 8)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := motion.Resolve(buf, tt.pos, tt.spec)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%s, %s) = %s, want %s", tt.pos, tt.spec, got, tt.want)
			}
		})
	}
}

func TestResolveWordRepeatFallback(t *testing.T) {
	// "foo" then trailing spaces: the second step stalls at the line end,
	// so the inside-only first step is recomputed from the start.
	buf := buffer.NewBufferFromString("foo  ")

	got, err := motion.Resolve(buf, pt(0, 0), motion.Word(true).WithCount(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// first repeating step: (0:5); remainder from there stalls; fallback is
	// the standalone inside step (0:3)
	if got != pt(0, 3) {
		t.Errorf("expected fallback (0:3), got %s", got)
	}
}

func TestResolveNotFoundIdentity(t *testing.T) {
	buf := buffer.NewBufferFromString("hello world\nsecond")
	letters := []string{"z", "q", "H", "\t"}

	for _, letter := range letters {
		for char := 0; char <= 11; char++ {
			pos := pt(0, char)
			for _, spec := range []motion.Spec{motion.Letter(letter), motion.AfterLetter(letter)} {
				got, err := motion.Resolve(buf, pos, spec)
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if got != pos {
					t.Errorf("%s from %s moved to %s", spec, pos, got)
				}
			}
		}
	}
}

func TestResolveLineEndIdempotent(t *testing.T) {
	buf := buffer.NewBufferFromString("hello world\n\nthird line here")

	for line := 0; line < 3; line++ {
		for char := 0; char < 5; char++ {
			once, err := motion.Resolve(buf, pt(line, char), motion.LineEnd())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			twice, _ := motion.Resolve(buf, once, motion.LineEnd())
			if once != twice {
				t.Errorf("line end not idempotent from (%d:%d): %s then %s", line, char, once, twice)
			}
		}
	}
}

func TestResolveBlockedRepeatHalts(t *testing.T) {
	buf := buffer.NewBufferFromString("foo bar")
	end := pt(0, 7)

	specs := []motion.Spec{
		motion.Letter("z"),
		motion.AfterLetter("z"),
		motion.Word(false),
		motion.Word(true),
		motion.LineEnd(),
	}

	for _, spec := range specs {
		single, err := motion.Resolve(buf, end, spec)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if single != end {
			t.Fatalf("%s should be blocked at %s, got %s", spec, end, single)
		}
		for count := 2; count <= 5; count++ {
			got, err := motion.Resolve(buf, end, spec.WithCount(count))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != end {
				t.Errorf("%s x%d moved a blocked cursor to %s", spec, count, got)
			}
		}
	}
}

func TestResolveUnknownKind(t *testing.T) {
	buf := buffer.NewBufferFromString("foo")

	for _, count := range []int{0, 1, 3} {
		spec := motion.Spec{Kind: motion.Kind(42), Count: count}
		_, err := motion.Resolve(buf, pt(0, 0), spec)

		if !errors.Is(err, motion.ErrUnknownMotion) {
			t.Errorf("count %d: expected ErrUnknownMotion, got %v", count, err)
		}
		var merr *motion.Error
		if !errors.As(err, &merr) || merr.Kind != "Kind(42)" {
			t.Errorf("count %d: expected *motion.Error, got %v", count, err)
		}
	}
}

func TestResolveUnknownName(t *testing.T) {
	buf := buffer.NewBufferFromString("foo")

	got, err := motion.Resolve(buf, pt(0, 1), motion.Unknown("paragraph").WithCount(3))
	var merr *motion.Error
	if !errors.As(err, &merr) || merr.Kind != "paragraph" {
		t.Fatalf("expected *motion.Error for paragraph, got %v", err)
	}
	if got != pt(0, 1) {
		t.Errorf("position moved to %v", got)
	}
}

func TestResolveDoesNotModifySpec(t *testing.T) {
	buf := buffer.NewBufferFromString("a.b.c")
	spec := motion.AfterLetter(".").WithCount(3)
	before := spec

	_, _ = motion.Resolve(buf, pt(0, 0), spec)

	if spec != before {
		t.Errorf("spec modified: %+v", spec)
	}
}

func TestResolveCountZeroIsOne(t *testing.T) {
	buf := buffer.NewBufferFromString("xoxo")

	zero, _ := motion.Resolve(buf, pt(0, 0), motion.Letter("o").WithCount(0))
	one, _ := motion.Resolve(buf, pt(0, 0), motion.Letter("o").WithCount(1))
	if zero != one {
		t.Errorf("count 0 = %s, count 1 = %s", zero, one)
	}
}
