package text

import "strings"

// MatchOffset is a byte span inside a single line, measured in the untrimmed
// line.
type MatchOffset struct {
	StartOffset int
	EndOffset   int
}

// matchLine finds needle inside hay.
//
// When ignoreWhitespace is set a blank needle matches trivially, and the
// search runs over hay with its leading indentation stripped; the returned
// offsets are translated back into hay. matchFromStart only allows a match
// at the start of the (possibly stripped) line.
func matchLine(needle, hay string, ignoreWhitespace, matchFromStart bool) *MatchOffset {
	if ignoreWhitespace {
		if isBlank(needle) {
			return &MatchOffset{StartOffset: 0, EndOffset: len(needle)}
		}

		indent := LineIndent(hay, false)
		start, ok := findInLine(needle, hay[indent:], matchFromStart)
		if !ok {
			return nil
		}
		return &MatchOffset{
			StartOffset: start + indent,
			EndOffset:   start + len(needle) + indent,
		}
	}

	start, ok := findInLine(needle, hay, matchFromStart)
	if !ok {
		return nil
	}
	return &MatchOffset{StartOffset: start, EndOffset: start + len(needle)}
}

func findInLine(needle, line string, matchFromStart bool) (int, bool) {
	if matchFromStart {
		return 0, strings.HasPrefix(line, needle)
	}
	start := strings.Index(line, needle)
	return start, start >= 0
}

type lineMapping struct {
	full    string
	trimmed string
	index   int
}

// matchLines aligns typedTail with the start of referenceLines. Every typed
// line but the last must equal its reference line (trimmed when ignoring
// whitespace, and with blank reference lines skipped); the last typed line is
// located with matchLine. The returned range starts right after the match and
// runs to the end of the reference.
func matchLines(typedTail, referenceLines []string, ignoreWhitespace, matchFromStart bool) *Range {
	mapped := make([]lineMapping, 0, len(referenceLines))
	for i, line := range referenceLines {
		trimmed := line
		if ignoreWhitespace {
			trimmed = strings.TrimSpace(line)
			if trimmed == "" {
				continue
			}
		}
		mapped = append(mapped, lineMapping{full: line, trimmed: trimmed, index: i})
	}

	if len(typedTail) > len(mapped) {
		return nil
	}

	finalIndex := len(referenceLines) - 1
	if len(mapped) > 0 {
		finalIndex = mapped[len(mapped)-1].index
	}
	finalLimit := 0
	if finalIndex >= 0 {
		finalLimit = len(referenceLines[finalIndex])
	}

	if len(typedTail) == 0 {
		return &Range{StartLine: 0, EndLine: max(finalIndex, 0), EndLineLimit: finalLimit}
	}

	last := len(typedTail) - 1
	for i := range last {
		if mapped[i].trimmed != typedTail[i] {
			return nil
		}
	}

	target := mapped[last]
	match := matchLine(typedTail[last], target.full, ignoreWhitespace, matchFromStart)
	if match == nil {
		return nil
	}

	return &Range{
		StartLine:       target.index,
		StartLineOffset: match.EndOffset,
		EndLine:         finalIndex,
		EndLineLimit:    finalLimit,
	}
}
