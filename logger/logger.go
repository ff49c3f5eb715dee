package logger

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// MaxLogLines is how many lines a log file keeps once it has been trimmed.
const MaxLogLines = 5000

var noopFunc = func() {}

// Trace returns a function that logs how long an operation took.
// Usage: defer logger.Trace("operation")()
func Trace(name string) func() {
	l := current()
	if !l.enabled(LevelTrace) {
		return noopFunc
	}
	start := time.Now()
	return func() {
		l.log(LevelTrace, "%s: %v", name, time.Since(start))
	}
}

// Level is the minimum severity a Logger writes.
type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "TRACE"
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a level name to a Level. Unknown names, including the
// empty string, fall back to LevelInfo and report false.
func ParseLevel(s string) (Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return LevelTrace, true
	case "DEBUG":
		return LevelDebug, true
	case "INFO":
		return LevelInfo, true
	case "WARN", "WARNING":
		return LevelWarn, true
	case "ERROR":
		return LevelError, true
	default:
		return LevelInfo, false
	}
}

// Logger writes leveled lines to a sink. When the sink is a file, the file
// is trimmed to its last MaxLogLines lines whenever it grows past twice
// that.
type Logger struct {
	mu    sync.Mutex
	out   io.Writer
	file  *os.File
	lines int
	level Level
	now   func() time.Time
}

var (
	globalMu sync.RWMutex
	global   = &Logger{out: os.Stderr, level: LevelInfo, now: time.Now}
)

func current() *Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return global
}

// SetDefault installs l as the target of the package-level functions.
func SetDefault(l *Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	global = l
}

// New returns a logger writing to w.
func New(w io.Writer, level Level) *Logger {
	return &Logger{out: w, level: level, now: time.Now}
}

// OpenFile appends to the log file at path, creating it when missing.
// Caller must Close the returned logger.
func OpenFile(path string, level Level) (*Logger, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	l := &Logger{out: f, file: f, level: level, now: time.Now}
	l.lines = countLines(f)
	return l, nil
}

func countLines(f *os.File) int {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return 0
	}
	count := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		count++
	}
	f.Seek(0, io.SeekEnd)
	return count
}

// SetLevel changes the minimum level.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

func (l *Logger) enabled(level Level) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return level >= l.level
}

func (l *Logger) log(level Level, format string, v ...any) {
	if !l.enabled(level) {
		return
	}
	msg := fmt.Sprintf("%s [%s] %s\n", l.now().Format("2006/01/02 15:04:05"), level, fmt.Sprintf(format, v...))
	l.Write([]byte(msg))
}

// Write implements io.Writer so the logger can back the standard log
// package and the Neovim RPC client's log function.
func (l *Logger) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	n, err := l.out.Write(p)
	if err != nil {
		return n, err
	}

	l.lines += bytes.Count(p, []byte{'\n'})
	if l.file != nil && l.lines > 2*MaxLogLines {
		l.trim()
	}
	return n, nil
}

// trim rewrites the file keeping only its last MaxLogLines lines.
func (l *Logger) trim() {
	if _, err := l.file.Seek(0, io.SeekStart); err != nil {
		return
	}

	kept := make([]string, 0, MaxLogLines)
	scanner := bufio.NewScanner(l.file)
	for scanner.Scan() {
		if len(kept) == MaxLogLines {
			kept = kept[1:]
		}
		kept = append(kept, scanner.Text())
	}

	l.file.Truncate(0)
	l.file.Seek(0, io.SeekStart)
	w := bufio.NewWriter(l.file)
	for _, line := range kept {
		w.WriteString(line)
		w.WriteByte('\n')
	}
	w.Flush()
	l.lines = len(kept)
}

// Close closes the underlying file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

func (l *Logger) Debug(format string, v ...any) { l.log(LevelDebug, format, v...) }
func (l *Logger) Info(format string, v ...any)  { l.log(LevelInfo, format, v...) }
func (l *Logger) Warn(format string, v ...any)  { l.log(LevelWarn, format, v...) }
func (l *Logger) Error(format string, v ...any) { l.log(LevelError, format, v...) }

func Debug(format string, v ...any) { current().log(LevelDebug, format, v...) }
func Info(format string, v ...any)  { current().log(LevelInfo, format, v...) }
func Warn(format string, v ...any)  { current().log(LevelWarn, format, v...) }
func Error(format string, v ...any) { current().log(LevelError, format, v...) }

// Fatal logs at error level and exits with status 1.
func Fatal(format string, v ...any) {
	current().log(LevelError, format, v...)
	os.Exit(1)
}

// Printf logs at info level. It matches the signature expected by
// nvim.New for its RPC log function.
func Printf(format string, v ...any) { current().log(LevelInfo, format, v...) }
