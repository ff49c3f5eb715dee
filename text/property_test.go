package text

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func sourceText() *rapid.Generator[string] {
	return rapid.StringOfN(rapid.RuneFrom([]rune("ab \t\r\n")), 0, 40, -1)
}

func lfText() *rapid.Generator[string] {
	return rapid.StringOfN(rapid.RuneFrom([]rune("ab \t\n")), 0, 40, -1)
}

func TestProperty_LineCount(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := sourceText().Draw(rt, "text")
		normalized := strings.ReplaceAll(s, "\r\n", "\n")
		fragment := NewFragment(s)

		nonBlank := 0
		for _, line := range strings.Split(normalized, "\n") {
			if strings.TrimSpace(line) != "" {
				nonBlank++
			}
		}

		assert.Equal(rt, strings.Count(normalized, "\n")+1, fragment.LineCount(ViewOptions{}), "raw line count")
		assert.Equal(rt, nonBlank, fragment.LineCount(ViewOptions{IgnoreWhitespace: true}), "non-blank line count")
	})
}

func TestProperty_TextRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := sourceText().Draw(rt, "text")

		got := NewFragment(s).Text(ViewOptions{})

		assert.Equal(rt, strings.ReplaceAll(s, "\r\n", "\n"), got, "text round trip")
	})
}

func TestProperty_HeadTailZero(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		fragment := NewFragment(sourceText().Draw(rt, "text"))
		ignore := rapid.Bool().Draw(rt, "ignore")

		assert.Empty(rt, fragment.Head(0, ignore), "head")
		assert.Empty(rt, fragment.Tail(0, ignore), "tail")
	})
}

func TestProperty_EndsWithStartOfAgreesWithRemaining(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		typed := NewFragment(sourceText().Draw(rt, "typed"))
		reference := NewFragment(sourceText().Draw(rt, "reference"))
		ignore := rapid.Bool().Draw(rt, "ignore")

		remaining := typed.RemainingCompletion(reference, CompletionOptions{IgnoreWhitespace: ignore})

		assert.Equal(rt, remaining != nil, typed.EndsWithStartOf(reference, ignore), "agreement")
	})
}

func TestProperty_PrefixOfReferenceAlwaysMatches(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		reference := lfText().Draw(rt, "reference")
		cut := rapid.IntRange(0, len(reference)).Draw(rt, "cut")

		typed := NewFragment(reference[:cut])

		assert.True(rt, typed.EndsWithStartOf(NewFragment(reference), false), "typed prefix aligns")
	})
}

func TestProperty_TruncatedIsPrefix(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		subject := NewFragment(sourceText().Draw(rt, "subject"))
		suffix := NewFragment(sourceText().Draw(rt, "suffix"))

		plain := subject.Truncated(TruncateOptions{})
		cut := subject.Truncated(TruncateOptions{Suffix: suffix, IgnoreWhitespace: rapid.Bool().Draw(rt, "ignore")})

		assert.Equal(rt, subject.String(), plain.String(), "no options keeps the text")
		assert.NotSame(rt, subject, plain, "no options still copies")
		assert.True(rt, strings.HasPrefix(subject.String(), cut.String()), "truncation only removes a tail")
	})
}

func TestProperty_TruncatedCutsAtLastMatchingLine(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		subject := lfText().Draw(rt, "subject")
		needle := rapid.StringOfN(rapid.RuneFrom([]rune("ab")), 1, 3, -1).Draw(rt, "needle")
		lines := strings.Split(subject, "\n")

		got := NewFragment(subject).Truncated(TruncateOptions{Suffix: NewFragment(needle)}).Text(ViewOptions{})

		last := -1
		for i, line := range lines {
			if strings.Contains(line, needle) {
				last = i
			}
		}
		if last < 0 {
			assert.Equal(rt, subject, got, "no overlap keeps everything")
			return
		}

		kept := append(append([]string{}, lines[:last]...), lines[last][:strings.Index(lines[last], needle)])
		assert.Equal(rt, strings.Join(kept, "\n"), got, "cut before the needle on the last line holding it")
	})
}
