package buffer

// Option is a functional option for configuring a Buffer.
type Option func(*Buffer)

// WithLineEnding sets the buffer's line ending style.
func WithLineEnding(le LineEnding) Option {
	return func(b *Buffer) {
		b.lineEnding = le
	}
}

// WithWordSeparators sets the characters that split words.
// An empty string keeps the default separators.
func WithWordSeparators(separators string) Option {
	return func(b *Buffer) {
		if separators != "" {
			b.wordSeparators = separators
		}
	}
}

// DetectLineEnding returns a LineEnding based on the most common line ending in the text.
// Returns LineEndingLF if no line endings are found.
func DetectLineEnding(text string) LineEnding {
	var lfCount, crlfCount, crCount int

	i := 0
	for i < len(text) {
		if i+1 < len(text) && text[i] == '\r' && text[i+1] == '\n' {
			crlfCount++
			i += 2
		} else if text[i] == '\r' {
			crCount++
			i++
		} else if text[i] == '\n' {
			lfCount++
			i++
		} else {
			i++
		}
	}

	if crlfCount > 0 && crlfCount >= lfCount && crlfCount >= crCount {
		return LineEndingCRLF
	}
	if crCount > 0 && crCount >= lfCount {
		return LineEndingCR
	}
	return LineEndingLF
}
