package text

// WordBoundaryChars defines characters that end a word for partial accept.
// Includes spaces, tabs, and common punctuation.
const WordBoundaryChars = " \t.,;:!?()[]{}\"'`<>/"

const (
	// diffDeleteOpen and friends mark spans in FormatDiff output.
	diffDeleteOpen  = "[-"
	diffDeleteClose = "-]"
	diffInsertOpen  = "{+"
	diffInsertClose = "+}"
)
