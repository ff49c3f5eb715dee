package text

import (
	"slices"
	"strings"
	"unicode"
)

// normalizeForWhitespace returns a copy of lines. When ignoreWhitespace is set
// every line is trimmed and lines that end up empty are dropped.
func normalizeForWhitespace(lines []string, ignoreWhitespace bool) []string {
	if !ignoreWhitespace {
		return slices.Clone(lines)
	}

	normalized := make([]string, 0, len(lines))
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			normalized = append(normalized, trimmed)
		}
	}
	return normalized
}

// LineIndent returns the number of leading whitespace bytes in line, or the
// number of trailing whitespace bytes when backward is set.
func LineIndent(line string, backward bool) int {
	if backward {
		return len(line) - len(strings.TrimRightFunc(line, unicode.IsSpace))
	}
	return len(line) - len(strings.TrimLeftFunc(line, unicode.IsSpace))
}

// isBlank reports whether line has no content besides whitespace.
func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}
