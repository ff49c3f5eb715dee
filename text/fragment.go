package text

import (
	"iter"
	"strings"
)

// NoLimit as a Range.EndLineLimit keeps the whole last line of the range.
const NoLimit = -1

// Range selects an inclusive interval of lines. StartLineOffset trims the
// front of the first selected line and EndLineLimit truncates the last one.
// All components are clamped into bounds when the range is applied; a range
// that lies outside the fragment, or is inverted, selects nothing.
//
// The zero EndLineLimit cuts the last line to nothing. Build ranges with
// LineRange or SpanRange, or set EndLineLimit to NoLimit explicitly.
type Range struct {
	StartLine       int
	EndLine         int
	StartLineOffset int
	EndLineLimit    int // NoLimit (or any negative value) keeps the whole line
}

// LineRange returns a range covering lines start through end without
// character bounds.
func LineRange(start, end int) *Range {
	return &Range{StartLine: start, EndLine: end, EndLineLimit: NoLimit}
}

// SpanRange returns a range from (startLine, startOffset) through
// (endLine, endLimit).
func SpanRange(startLine, startOffset, endLine, endLimit int) *Range {
	return &Range{
		StartLine:       startLine,
		StartLineOffset: startOffset,
		EndLine:         endLine,
		EndLineLimit:    endLimit,
	}
}

// ViewOptions narrows what a retrieval method returns. A nil Range means the
// whole fragment.
type ViewOptions struct {
	Range            *Range
	IgnoreWhitespace bool
}

// IterateOptions controls IterateLines. MaxLines <= 0 means no cap.
type IterateOptions struct {
	Backward         bool
	MaxLines         int
	IgnoreWhitespace bool
}

// Fragment is an immutable, line-indexed view over a snapshot of source text.
// It always holds at least one line. Methods never modify the receiver, so a
// Fragment can be shared between goroutines freely.
type Fragment struct {
	lines []string
}

// NewFragment splits text on "\n" and "\r\n".
func NewFragment(text string) *Fragment {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return &Fragment{lines: strings.Split(text, "\n")}
}

// String returns the text of the fragment with "\n" line endings.
func (f *Fragment) String() string {
	return strings.Join(f.lines, "\n")
}

// LineCount returns the number of lines selected by opts.
func (f *Fragment) LineCount(opts ViewOptions) int {
	if opts.Range == nil && !opts.IgnoreWhitespace {
		return len(f.lines)
	}
	return len(f.Lines(opts))
}

// Text returns the lines selected by opts joined with "\n".
func (f *Fragment) Text(opts ViewOptions) string {
	return strings.Join(f.Lines(opts), "\n")
}

// Fragment returns a new fragment holding the text selected by opts.
func (f *Fragment) Fragment(opts ViewOptions) *Fragment {
	lines := f.Lines(opts)
	if len(lines) == 0 {
		lines = []string{""}
	}
	return &Fragment{lines: lines}
}

// Lines returns a copy of the lines selected by opts.
//
// With a range, the line interval is clamped and sliced first, whitespace
// filtering is applied to the slice, and only then are the character bounds
// applied: StartLineOffset to the first remaining line and EndLineLimit to
// the last one. For a single-line selection the limit therefore applies to
// the already offset text. The limit is clamped against the raw length of
// the range's last line.
func (f *Fragment) Lines(opts ViewOptions) []string {
	if opts.Range == nil {
		return normalizeForWhitespace(f.lines, opts.IgnoreWhitespace)
	}

	r := opts.Range
	startLine := max(0, r.StartLine)
	startOffset := max(0, r.StartLineOffset)
	endLine := min(r.EndLine, len(f.lines)-1)
	if endLine < 0 || startLine > endLine {
		return []string{}
	}

	endLimit := len(f.lines[endLine])
	if r.EndLineLimit >= 0 {
		endLimit = min(endLimit, r.EndLineLimit)
	}

	selected := normalizeForWhitespace(f.lines[startLine:endLine+1], opts.IgnoreWhitespace)
	if len(selected) == 0 {
		return []string{}
	}

	startOffset = min(startOffset, len(selected[0]))
	selected[0] = selected[0][startOffset:]

	last := len(selected) - 1
	if endLimit < len(selected[last]) {
		selected[last] = selected[last][:endLimit]
	}

	return selected
}

// Head returns up to maxLines lines from the front of the fragment. The
// whitespace filter is applied to the whole fragment before counting.
func (f *Fragment) Head(maxLines int, ignoreWhitespace bool) []string {
	lines := normalizeForWhitespace(f.lines, ignoreWhitespace)
	n := min(maxLines, len(lines))
	if n <= 0 {
		return []string{}
	}
	return lines[:n]
}

// Tail returns up to maxLines lines from the back of the fragment. The
// whitespace filter is applied to the whole fragment before counting.
func (f *Fragment) Tail(maxLines int, ignoreWhitespace bool) []string {
	lines := normalizeForWhitespace(f.lines, ignoreWhitespace)
	n := min(maxLines, len(lines))
	if n <= 0 {
		return []string{}
	}
	return lines[len(lines)-n:]
}

// IterateLines returns a lazy sequence over the lines of the fragment. Each
// call returns an independent sequence. MaxLines caps the number of lines
// yielded, not the number scanned: blank lines skipped under
// IgnoreWhitespace do not count.
func (f *Fragment) IterateLines(opts IterateOptions) iter.Seq[string] {
	return func(yield func(string) bool) {
		yielded := 0
		for k := range f.lines {
			i := k
			if opts.Backward {
				i = len(f.lines) - 1 - k
			}

			line := f.lines[i]
			if opts.IgnoreWhitespace {
				line = strings.TrimSpace(line)
				if line == "" {
					continue
				}
			}

			if !yield(line) {
				return
			}
			yielded++
			if opts.MaxLines > 0 && yielded >= opts.MaxLines {
				return
			}
		}
	}
}

// TrailingLines yields progressively longer suffixes of Tail(maxLines):
// the last line, then the last two lines, and so on. Yielded slices share
// storage and must not be modified.
func (f *Fragment) TrailingLines(maxLines int, ignoreWhitespace bool) iter.Seq[[]string] {
	return func(yield func([]string) bool) {
		tail := f.Tail(maxLines, ignoreWhitespace)
		for count := 1; count <= len(tail); count++ {
			if !yield(tail[len(tail)-count:]) {
				return
			}
		}
	}
}
