package text

import "slices"

// CompletionOptions controls RemainingCompletion.
type CompletionOptions struct {
	// IgnoreWhitespace trims lines and skips blank ones while aligning the
	// typed text with the reference. The returned remainder keeps the
	// reference's own whitespace either way.
	IgnoreWhitespace bool
	// MergeWhitespace attributes trailing indentation-only typed lines to the
	// remainder instead of treating them as already typed.
	MergeWhitespace bool
}

// DefaultCompletionOptions ignores whitespace and does not merge indentation.
func DefaultCompletionOptions() CompletionOptions {
	return CompletionOptions{IgnoreWhitespace: true}
}

// RemainingCompletion treats f as what the user has typed so far and returns
// the part of reference that has not been typed yet. It returns nil when the
// end of f does not line up with the start of reference.
//
// With MergeWhitespace, trailing indentation-only lines of f are folded into
// the start of the remainder. That step assumes f and reference are already
// known to align; it does not re-check the alignment on its own.
func (f *Fragment) RemainingCompletion(reference *Fragment, opts CompletionOptions) *Fragment {
	c := completion{typed: f, reference: reference}
	return c.remaining(opts)
}

// EndsWithStartOf reports whether the end of f lines up with the start of
// reference, i.e. whether RemainingCompletion would find a remainder.
func (f *Fragment) EndsWithStartOf(reference *Fragment, ignoreWhitespace bool) bool {
	return f.RemainingCompletion(reference, CompletionOptions{IgnoreWhitespace: ignoreWhitespace}) != nil
}

// EndsWith reports whether the last lines of f equal the lines of suffix.
func (f *Fragment) EndsWith(suffix *Fragment, ignoreWhitespace bool) bool {
	want := suffix.Lines(ViewOptions{IgnoreWhitespace: ignoreWhitespace})
	got := f.Tail(len(want), ignoreWhitespace)
	if len(want) > len(got) {
		return false
	}
	return slices.Equal(want, got)
}

// completion holds the two sides of one RemainingCompletion call.
type completion struct {
	typed     *Fragment
	reference *Fragment
}

func (c *completion) remaining(opts CompletionOptions) *Fragment {
	matched := c.matchingRange(opts.IgnoreWhitespace)
	if matched == nil {
		return nil
	}

	if opts.MergeWhitespace {
		if merged := c.indentationMergeRange(opts.IgnoreWhitespace); merged != nil {
			return c.reference.Fragment(ViewOptions{Range: merged})
		}
	}

	if c.typed.LineCount(ViewOptions{IgnoreWhitespace: opts.IgnoreWhitespace}) == 0 {
		return c.reference.Fragment(ViewOptions{})
	}

	r := matched
	if opts.IgnoreWhitespace {
		maxLines := min(c.typed.LineCount(ViewOptions{}), c.reference.LineCount(ViewOptions{}))
		r = c.offsetByWhitespace(*matched, maxLines, opts.MergeWhitespace)
	}

	return c.reference.Fragment(ViewOptions{Range: r})
}

// matchingRange probes ever longer trailing slices of the typed text against
// the start of the reference and keeps the deepest alignment. Equal depths
// go to the later, longer probe.
func (c *completion) matchingRange(ignoreWhitespace bool) *Range {
	if c.typed.LineCount(ViewOptions{IgnoreWhitespace: ignoreWhitespace}) == 0 {
		last := c.reference.Tail(1, false)[0]
		return &Range{
			StartLine:    0,
			EndLine:      c.reference.LineCount(ViewOptions{}) - 1,
			EndLineLimit: len(last),
		}
	}

	referenceLines := c.reference.Lines(ViewOptions{})
	maxLines := min(c.typed.LineCount(ViewOptions{}), len(referenceLines))

	var best *Range
	bestDepth := -1
	for tail := range c.typed.TrailingLines(maxLines, ignoreWhitespace) {
		r := matchLines(tail, referenceLines, ignoreWhitespace, true)
		if r == nil {
			continue
		}

		depth := r.StartLineOffset
		for i := range r.StartLine {
			depth += len(referenceLines[i]) + 1
		}
		if depth < bestDepth {
			continue
		}
		best, bestDepth = r, depth
	}

	return best
}

// offsetByWhitespace moves the start of r past whitespace the user already
// typed: trailing blank lines of the typed text push the start down a line
// each, and trailing indentation pushes it right.
func (c *completion) offsetByWhitespace(r Range, maxLines int, mergeWhitespace bool) *Range {
	ignorableLines := 0
	ignorableSpaces := 0

	for line := range c.typed.IterateLines(IterateOptions{Backward: true, MaxLines: maxLines}) {
		if isBlank(line) {
			if line != "" && mergeWhitespace {
				ignorableSpaces = len(line)
				break
			}
			ignorableLines++
			continue
		}

		ignorableSpaces = LineIndent(line, true)
		if lastIndent := LineIndent(c.typed.Tail(1, false)[0], true); lastIndent > 0 {
			ignorableSpaces = lastIndent
		}
		break
	}

	if ignorableLines > 0 {
		r.StartLine += ignorableLines
		r.StartLineOffset = 0
	}
	if ignorableSpaces > 0 {
		r.StartLineOffset += ignorableSpaces
	}
	return &r
}

// indentationMergeRange looks for a whitespace-only line at the end of the
// typed text (skipping empty lines). When found, the remainder starts at the
// same line of the reference, after as much indentation as the user typed.
// Under ignoreWhitespace the typed indentation is capped at the reference
// line's own indentation.
func (c *completion) indentationMergeRange(ignoreWhitespace bool) *Range {
	referenceCount := c.reference.LineCount(ViewOptions{})
	startLine := c.typed.LineCount(ViewOptions{}) - 1

	for line := range c.typed.IterateLines(IterateOptions{Backward: true}) {
		if line == "" {
			startLine--
			continue
		}
		if !isBlank(line) {
			return nil
		}

		offset := len(line)
		if ignoreWhitespace {
			lineNumber := min(startLine, referenceCount-1)
			referenceLine := c.reference.Lines(ViewOptions{Range: LineRange(lineNumber, lineNumber)})
			if len(referenceLine) > 0 {
				offset = min(offset, LineIndent(referenceLine[0], false))
			}
		}

		last := c.reference.Tail(1, false)[0]
		return &Range{
			StartLine:       startLine,
			StartLineOffset: offset,
			EndLine:         referenceCount - 1,
			EndLineLimit:    len(last),
		}
	}

	return nil
}
