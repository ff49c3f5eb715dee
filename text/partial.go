package text

import (
	"strings"
	"unicode/utf8"
)

// FindNextWordBoundary returns the byte length of s up to and including the
// next word boundary character. Without a boundary the whole string counts.
func FindNextWordBoundary(s string) int {
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if strings.ContainsRune(WordBoundaryChars, r) {
			return i + size
		}
		i += size
	}
	return len(s)
}

// AcceptWord splits a remaining completion after its next word. The accepted
// text never crosses a line: a remainder that starts with a line break
// accepts just the break.
func AcceptWord(remaining *Fragment) (string, *Fragment) {
	all := remaining.String()
	first := remaining.lines[0]

	if first == "" {
		if len(remaining.lines) == 1 {
			return "", NewFragment("")
		}
		return "\n", NewFragment(all[1:])
	}

	n := FindNextWordBoundary(first)
	return first[:n], NewFragment(all[n:])
}

// AcceptLine splits a remaining completion after its first line, including
// the line break when there is one.
func AcceptLine(remaining *Fragment) (string, *Fragment) {
	all := remaining.String()
	idx := strings.IndexByte(all, '\n')
	if idx < 0 {
		return all, NewFragment("")
	}
	return all[:idx+1], NewFragment(all[idx+1:])
}
