package replay

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/andybalholm/brotli"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatYAML  Format = "yaml"
	FormatJSONL Format = "jsonl"
)

const compressedExt = ".br"

var ErrUnknownFormat = errors.New("unknown recording format")

// FormatOf infers the format of a recording from its file name, ignoring a
// trailing ".br". It also reports whether the file is brotli compressed.
func FormatOf(path string) (Format, bool, error) {
	compressed := strings.HasSuffix(path, compressedExt)
	base := strings.TrimSuffix(path, compressedExt)

	switch strings.ToLower(filepath.Ext(base)) {
	case ".yaml", ".yml":
		return FormatYAML, compressed, nil
	case ".jsonl", ".ndjson":
		return FormatJSONL, compressed, nil
	default:
		return "", compressed, fmt.Errorf("%s: %w", path, ErrUnknownFormat)
	}
}

// LoadFile reads every session from a recording file.
func LoadFile(path string) ([]Session, error) {
	format, compressed, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening recording: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if compressed {
		r = brotli.NewReader(f)
	}

	sessions, err := Decode(r, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sessions, nil
}

// Decode reads sessions from r. YAML input is a stream of documents, one
// session each; JSONL input is one session per line. Blank lines and empty
// documents are skipped. Every session is validated.
func Decode(r io.Reader, format Format) ([]Session, error) {
	var sessions []Session
	var err error

	switch format {
	case FormatYAML:
		sessions, err = decodeYAML(r)
	case FormatJSONL:
		sessions, err = decodeJSONL(r)
	default:
		return nil, fmt.Errorf("%q: %w", format, ErrUnknownFormat)
	}
	if err != nil {
		return nil, err
	}

	for _, s := range sessions {
		if err := s.Validate(); err != nil {
			return nil, err
		}
	}
	return sessions, nil
}

func decodeYAML(r io.Reader) ([]Session, error) {
	var sessions []Session
	dec := yaml.NewDecoder(r)
	for {
		var node yaml.Node
		if err := dec.Decode(&node); err != nil {
			if errors.Is(err, io.EOF) {
				return sessions, nil
			}
			return nil, fmt.Errorf("decoding yaml: %w", err)
		}
		if len(node.Content) == 0 {
			continue
		}

		var s Session
		if err := node.Decode(&s); err != nil {
			return nil, fmt.Errorf("decoding session at line %d: %w", node.Line, err)
		}
		sessions = append(sessions, s)
	}
}

func decodeJSONL(r io.Reader) ([]Session, error) {
	var sessions []Session
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var s Session
		if err := json.Unmarshal(line, &s); err != nil {
			return nil, fmt.Errorf("decoding session on line %d: %w", lineNo, err)
		}
		sessions = append(sessions, s)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading jsonl: %w", err)
	}
	return sessions, nil
}

// WriteCompressed brotli-compresses a recording, for storing large
// captures.
func WriteCompressed(w io.Writer, recording []byte) error {
	bw := brotli.NewWriterLevel(w, brotli.DefaultCompression)
	if _, err := bw.Write(recording); err != nil {
		return fmt.Errorf("failed to compress recording: %w", err)
	}
	if err := bw.Close(); err != nil {
		return fmt.Errorf("failed to close brotli writer: %w", err)
	}
	return nil
}

// CompressFile writes a brotli copy of the recording at path next to it and
// returns the new path. Compressed recordings are left alone.
func CompressFile(path string) (string, error) {
	if strings.HasSuffix(path, compressedExt) {
		return path, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading recording: %w", err)
	}

	var buf bytes.Buffer
	if err := WriteCompressed(&buf, raw); err != nil {
		return "", err
	}

	out := path + compressedExt
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("writing compressed recording: %w", err)
	}
	return out, nil
}
