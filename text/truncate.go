package text

// TruncateOptions controls Truncated.
type TruncateOptions struct {
	// Range is applied before anything else. Nil keeps the whole fragment.
	Range *Range
	// Suffix is the text that already follows the insertion point. Whatever
	// part of the fragment overlaps with its first line is cut off.
	Suffix           *Fragment
	IgnoreWhitespace bool
	MatchFromStart   bool
}

// DefaultTruncateOptions ignores whitespace and matches anywhere in a line.
func DefaultTruncateOptions() TruncateOptions {
	return TruncateOptions{IgnoreWhitespace: true}
}

// Truncated returns a new fragment holding f (narrowed by opts.Range) up to
// the point where it starts repeating opts.Suffix. The overlap is located by
// searching every line for the first non-blank line of the suffix; the
// deepest occurrence wins. Without a suffix, or without any occurrence, the
// result is a copy of the narrowed fragment.
func (f *Fragment) Truncated(opts TruncateOptions) *Fragment {
	candidate := f.Fragment(ViewOptions{Range: opts.Range})
	if opts.Suffix == nil {
		return candidate
	}

	suffixLines := opts.Suffix.Lines(ViewOptions{IgnoreWhitespace: opts.IgnoreWhitespace})
	if len(suffixLines) == 0 {
		return candidate
	}
	needle := suffixLines[0]

	bestDepth := -1
	bestLine := -1
	bestStart := 0

	counted := 0
	lineIndex := 0
	for line := range candidate.IterateLines(IterateOptions{}) {
		if match := matchLine(needle, line, opts.IgnoreWhitespace, opts.MatchFromStart); match != nil {
			if depth := counted + match.EndOffset; depth > bestDepth {
				bestDepth = depth
				bestLine = lineIndex
				bestStart = match.StartOffset
			}
		}
		counted += len(line) + 1
		lineIndex++
	}

	if bestLine < 0 {
		return candidate
	}

	return candidate.Fragment(ViewOptions{Range: &Range{
		StartLine:    0,
		EndLine:      bestLine,
		EndLineLimit: bestStart,
	}})
}
