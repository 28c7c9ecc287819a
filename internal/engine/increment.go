package engine

import (
	"context"
	"fmt"
	"strconv"
)

// IncrementAt adds one to the decimal number under or after p on its line.
// A '-' directly before the digits is part of the number.
func (e *Engine) IncrementAt(ctx context.Context, p Point) error {
	line := []rune(e.buf.LineText(p.Line))

	start, end, ok := numberAt(line, p.Character)
	if !ok {
		return fmt.Errorf("%w at %s", ErrNoNumber, p)
	}

	n, err := strconv.ParseInt(string(line[start:end]), 10, 64)
	if err != nil {
		return fmt.Errorf("increment at %s: %w", p, err)
	}

	r := PointRange{Start: p.With(start), End: p.With(end)}
	return e.Edit(ctx, func(tx EditTx) {
		tx.Replace(r, strconv.FormatInt(n+1, 10))
	})
}

// numberAt returns the first digit run on line that ends after char.
func numberAt(line []rune, char int) (start, end int, ok bool) {
	for i := 0; i < len(line); {
		if !isDigit(line[i]) {
			i++
			continue
		}
		j := i
		for j < len(line) && isDigit(line[j]) {
			j++
		}
		if j > char {
			if i > 0 && line[i-1] == '-' {
				i--
			}
			return i, j, true
		}
		i = j
	}
	return 0, 0, false
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
