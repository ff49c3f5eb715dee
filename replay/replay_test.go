package replay

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"typethrough/metrics"
	"typethrough/types"

	"github.com/andybalholm/brotli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jsonlRecording = `{"name": "func-main", "prefix": "func", "reference": " main() {\n}", "steps": [{"typed": "func ", "want": "main() {\n}"}]}

{"name": "no-prefix", "reference": "hello world", "steps": [{"typed": "hello", "want": " world"}]}
`

func strPtr(s string) *string { return &s }

func TestFormatOf(t *testing.T) {
	tests := []struct {
		path       string
		format     Format
		compressed bool
	}{
		{"a.yaml", FormatYAML, false},
		{"a.YML", FormatYAML, false},
		{"a.jsonl", FormatJSONL, false},
		{"a.ndjson", FormatJSONL, false},
		{"dir/a.yaml.br", FormatYAML, true},
		{"a.jsonl.br", FormatJSONL, true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			format, compressed, err := FormatOf(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.format, format, "format")
			assert.Equal(t, tt.compressed, compressed, "compressed")
		})
	}

	_, _, err := FormatOf("a.txt.br")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestLoadFile_YAML(t *testing.T) {
	sessions, err := LoadFile(filepath.Join("testdata", "sessions.yaml"))
	require.NoError(t, err)

	require.Len(t, sessions, 2)
	assert.Equal(t, "func-main", sessions[0].Name)
	assert.Equal(t, " main() {\n}", sessions[0].Reference)
	assert.Equal(t, Step{Typed: "func ma", Want: strPtr("in() {\n}")}, sessions[0].Steps[0])
	assert.Equal(t, Step{Typed: "funcx", WantInvalid: true}, sessions[0].Steps[2])
	assert.Equal(t, ")", sessions[1].Suffix)
	assert.Nil(t, sessions[1].Steps[1].Want, "no expectation")
}

func TestLoadFile_JSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(jsonlRecording), 0o644))

	sessions, err := LoadFile(path)
	require.NoError(t, err)

	require.Len(t, sessions, 2, "blank line skipped")
	assert.Equal(t, "no-prefix", sessions[1].Name)
	assert.Equal(t, "", sessions[1].Prefix)
}

func TestLoadFile_Compressed(t *testing.T) {
	raw, err := os.ReadFile(filepath.Join("testdata", "sessions.yaml"))
	require.NoError(t, err)

	var buf bytes.Buffer
	w := brotli.NewWriterLevel(&buf, 1)
	_, err = w.Write(raw)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	path := filepath.Join(t.TempDir(), "sessions.yaml.br")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	sessions, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, sessions, 2)
}

func TestWriteCompressed(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCompressed(&buf, []byte(jsonlRecording)))

	sessions, err := Decode(brotli.NewReader(&buf), FormatJSONL)
	require.NoError(t, err)
	assert.Len(t, sessions, 2)
}

func TestCompressFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(jsonlRecording), 0o644))

	out, err := CompressFile(path)
	require.NoError(t, err)
	assert.Equal(t, path+".br", out)

	sessions, err := LoadFile(out)
	require.NoError(t, err)
	assert.Len(t, sessions, 2, "same sessions after compression")

	again, err := CompressFile(out)
	require.NoError(t, err)
	assert.Equal(t, out, again, "already compressed")
}

func TestDecode_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		input  string
		target error
	}{
		{"unknown format", Format("csv"), "", ErrUnknownFormat},
		{"empty reference", FormatYAML, "name: x\nsteps:\n  - typed: a\n", ErrInvalidSession},
		{"no steps", FormatJSONL, `{"name": "x", "reference": "y"}`, ErrInvalidSession},
		{"exclusive expectations", FormatYAML, "name: x\nreference: y\nsteps:\n  - typed: a\n    want: b\n    want_invalid: true\n", ErrInvalidSession},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input), tt.format)
			assert.ErrorIs(t, err, tt.target)
		})
	}

	_, err := Decode(strings.NewReader("{not json"), FormatJSONL)
	assert.Error(t, err, "malformed jsonl")
	_, err = Decode(strings.NewReader("name: [unclosed"), FormatYAML)
	assert.Error(t, err, "malformed yaml")
}

func TestRun_Fixture(t *testing.T) {
	sessions, err := LoadFile(filepath.Join("testdata", "sessions.yaml"))
	require.NoError(t, err)
	tracker := metrics.NewTracker()

	results := Run(sessions, tracker)

	require.Len(t, results, 5)
	for _, r := range results {
		assert.True(t, r.Passed, r.String())
	}
	assert.Equal(t, 0, Failed(results))
	assert.Equal(t, metrics.Stats{Shown: 2, Disposed: 2}, tracker.Snapshot())
}

func TestRun_Mismatch(t *testing.T) {
	sessions := []Session{{
		Name:      "mismatch",
		Prefix:    "func",
		Reference: " main() {\n}",
		Steps: []Step{
			{Typed: "func ma", Want: strPtr("ain() {\n}")},
			{Typed: "funcx", Want: strPtr("anything")},
			{Typed: "func m", WantInvalid: true},
		},
	}}

	results := Run(sessions, nil)

	require.Len(t, results, 3)
	assert.Equal(t, 3, Failed(results))

	assert.Equal(t, "in() {\n}", results[0].Got)
	assert.Equal(t, "[-a-]in() {\n}", results[0].Diff())

	assert.True(t, results[1].Invalid, "diverged")
	assert.Empty(t, results[1].Diff(), "no diff for validity mismatch")
	assert.Contains(t, results[1].String(), "unexpectedly invalid")

	assert.False(t, results[2].Invalid)
	assert.Equal(t, "FAIL mismatch#3: want invalid, invalid=false", results[2].String())
}

func TestSession_EngineConfig(t *testing.T) {
	off := false

	defaults := Session{}.engineConfig()
	overridden := Session{IgnoreWhitespace: &off, MergeWhitespace: &off}.engineConfig()

	assert.True(t, defaults.IgnoreWhitespace, "default ignore")
	assert.True(t, defaults.MergeWhitespace, "default merge")
	assert.False(t, overridden.IgnoreWhitespace, "ignore off")
	assert.False(t, overridden.MergeWhitespace, "merge off")
	assert.Equal(t, defaults.MaxSuffixLines, overridden.MaxSuffixLines, "kept")
}

func TestCursorAfter(t *testing.T) {
	tests := []struct {
		typed   string
		wantRow int
		wantCol int
	}{
		{"", 2, 0},
		{"func", 2, 4},
		{"func main() {\n", 3, 0},
		{"a\nbc\ndef", 4, 3},
	}

	for _, tt := range tests {
		t.Run(tt.typed, func(t *testing.T) {
			got := cursorAfter(types.Position{Row: 2}, tt.typed)
			assert.Equal(t, tt.wantRow, got.Row, "row")
			assert.Equal(t, tt.wantCol, got.Col, "col")
		})
	}
}
