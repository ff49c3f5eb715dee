package text

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffOp is the kind of a DiffSpan.
type DiffOp int

const (
	DiffEqual DiffOp = iota
	DiffInsert
	DiffDelete
)

// String returns the string representation of DiffOp
func (op DiffOp) String() string {
	switch op {
	case DiffEqual:
		return "equal"
	case DiffInsert:
		return "insert"
	case DiffDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// DiffSpan is one run of a character-level diff.
type DiffSpan struct {
	Op   DiffOp
	Text string
}

// DiffSpans computes a character-level diff turning want into got, cleaned
// up for readability. It is meant for reporting mismatched ghost text, not
// for aligning documents.
func DiffSpans(want, got string) []DiffSpan {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(want, got, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	spans := make([]DiffSpan, 0, len(diffs))
	for _, diff := range diffs {
		var op DiffOp
		switch diff.Type {
		case diffmatchpatch.DiffInsert:
			op = DiffInsert
		case diffmatchpatch.DiffDelete:
			op = DiffDelete
		default:
			op = DiffEqual
		}
		spans = append(spans, DiffSpan{Op: op, Text: diff.Text})
	}
	return spans
}

// FormatDiff renders spans inline, wrapping deletions in [-...-] and
// insertions in {+...+}.
func FormatDiff(spans []DiffSpan) string {
	var sb strings.Builder
	for _, span := range spans {
		switch span.Op {
		case DiffInsert:
			sb.WriteString(diffInsertOpen)
			sb.WriteString(span.Text)
			sb.WriteString(diffInsertClose)
		case DiffDelete:
			sb.WriteString(diffDeleteOpen)
			sb.WriteString(span.Text)
			sb.WriteString(diffDeleteClose)
		default:
			sb.WriteString(span.Text)
		}
	}
	return sb.String()
}
