package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiffSpans(t *testing.T) {
	spans := DiffSpans("return x", "return y")

	assert.Equal(t, []DiffSpan{
		{Op: DiffEqual, Text: "return "},
		{Op: DiffDelete, Text: "x"},
		{Op: DiffInsert, Text: "y"},
	}, spans, "spans")
}

func TestDiffSpans_Equal(t *testing.T) {
	spans := DiffSpans("same", "same")

	assert.Equal(t, []DiffSpan{{Op: DiffEqual, Text: "same"}}, spans, "single equal span")
}

func TestDiffSpans_Insertion(t *testing.T) {
	spans := DiffSpans("", "abc")

	assert.Equal(t, []DiffSpan{{Op: DiffInsert, Text: "abc"}}, spans, "pure insertion")
}

func TestFormatDiff(t *testing.T) {
	assert.Equal(t, "return [-x-]{+y+}", FormatDiff(DiffSpans("return x", "return y")), "inline diff")
	assert.Equal(t, "", FormatDiff(nil), "no spans")
}

func TestDiffOpString(t *testing.T) {
	assert.Equal(t, "equal", DiffEqual.String())
	assert.Equal(t, "insert", DiffInsert.String())
	assert.Equal(t, "delete", DiffDelete.String())
	assert.Equal(t, "unknown", DiffOp(42).String())
}
