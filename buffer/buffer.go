package buffer

import (
	"fmt"
	"strings"

	"typethrough/logger"
	"typethrough/types"

	"github.com/neovim/go-client/nvim"
)

// NvimBuffer is a snapshot of the current Neovim buffer and cursor.
type NvimBuffer struct {
	client *nvim.Nvim

	id     nvim.Buffer
	lines  []string
	cursor types.Position
}

func New(client *nvim.Nvim) *NvimBuffer {
	return &NvimBuffer{
		client: client,
		lines:  []string{""},
		cursor: types.Position{Row: 1, Col: 0},
	}
}

// ID returns the handle of the buffer read by the last Sync.
func (b *NvimBuffer) ID() nvim.Buffer { return b.id }

func (b *NvimBuffer) Lines() []string { return b.lines }

func (b *NvimBuffer) Cursor() types.Position { return b.cursor }

// Sync reads the current buffer and window cursor in one round-trip.
func (b *NvimBuffer) Sync() error {
	defer logger.Trace("buffer.Sync")()
	if b.client == nil {
		return fmt.Errorf("nvim client not set")
	}

	batch := b.client.NewBatch()

	var id nvim.Buffer
	var lines [][]byte
	var cursor [2]int

	batch.CurrentBuffer(&id)
	batch.BufferLines(nvim.Buffer(0), 0, -1, false, &lines)
	batch.WindowCursor(nvim.Window(0), &cursor)

	if err := batch.Execute(); err != nil {
		return fmt.Errorf("sync buffer: %w", err)
	}

	b.id = id
	b.setLines(lines)
	b.cursor = types.Position{Row: cursor[0], Col: cursor[1]}
	return nil
}

func (b *NvimBuffer) setLines(lines [][]byte) {
	if len(lines) == 0 {
		b.lines = []string{""}
		return
	}
	b.lines = make([]string, len(lines))
	for i, line := range lines {
		b.lines[i] = string(line)
	}
}

// LinePrefix returns the text of the cursor line before the cursor.
func (b *NvimBuffer) LinePrefix() string {
	return spanText(b.lines, b.cursor.LineStart(), b.cursor)
}

// Span returns the text between from and to.
func (b *NvimBuffer) Span(from, to types.Position) string {
	return spanText(b.lines, from, to)
}

// Suffix returns the text after cursor, spanning at most maxLines lines
// counting the cursor line. maxLines <= 0 means the rest of the buffer.
func (b *NvimBuffer) Suffix(cursor types.Position, maxLines int) string {
	return suffixText(b.lines, cursor, maxLines)
}

// spanText slices lines between two positions. Rows and columns are
// clamped to the buffer; an inverted span is empty.
func spanText(lines []string, from, to types.Position) string {
	fromRow, fromCol := clampPosition(lines, from)
	toRow, toCol := clampPosition(lines, to)
	if fromRow > toRow || (fromRow == toRow && fromCol > toCol) {
		return ""
	}
	if fromRow == toRow {
		return lines[fromRow][fromCol:toCol]
	}

	var sb strings.Builder
	sb.WriteString(lines[fromRow][fromCol:])
	for i := fromRow + 1; i < toRow; i++ {
		sb.WriteByte('\n')
		sb.WriteString(lines[i])
	}
	sb.WriteByte('\n')
	sb.WriteString(lines[toRow][:toCol])
	return sb.String()
}

func suffixText(lines []string, cursor types.Position, maxLines int) string {
	row, col := clampPosition(lines, cursor)
	end := len(lines)
	if maxLines > 0 {
		end = min(end, row+maxLines)
	}

	parts := make([]string, 0, end-row)
	parts = append(parts, lines[row][col:])
	parts = append(parts, lines[row+1:end]...)
	return strings.Join(parts, "\n")
}

// clampPosition converts a 1-indexed row to a line index and keeps both
// within the buffer.
func clampPosition(lines []string, p types.Position) (int, int) {
	row := min(max(p.Row-1, 0), len(lines)-1)
	col := min(max(p.Col, 0), len(lines[row]))
	return row, col
}
