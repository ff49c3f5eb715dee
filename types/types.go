package types

// Position is a cursor location in an editor buffer.
type Position struct {
	Row int // 1-indexed
	Col int // 0-indexed, in bytes
}

// LineStart returns the position at the start of p's row.
func (p Position) LineStart() Position {
	return Position{Row: p.Row, Col: 0}
}

// Ghost is the text to display after the cursor for an active suggestion.
type Ghost struct {
	ID    string
	Text  string
	Lines []string
}

// Empty reports whether there is nothing left to display.
func (g Ghost) Empty() bool {
	return g.Text == ""
}
