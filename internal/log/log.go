// ABOUTME: Debug logging wrapper around slog levels for verbose mode output
// ABOUTME: Global level via SetLevel; output redirectable so raw-mode screens stay clean

package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
)

// Level constants matching slog levels.
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

var (
	level atomic.Int64

	mu  sync.Mutex
	out io.Writer = os.Stderr
)

func init() {
	level.Store(int64(LevelInfo))
}

// SetLevel sets the global log level.
func SetLevel(l slog.Level) {
	level.Store(int64(l))
}

// GetLevel returns the current log level.
func GetLevel() slog.Level {
	return slog.Level(level.Load())
}

// SetOutput redirects all log lines to w and returns the previous writer.
func SetOutput(w io.Writer) io.Writer {
	mu.Lock()
	defer mu.Unlock()

	prev := out
	out = w
	return prev
}

// Debug logs a debug message if the level allows it.
func Debug(format string, args ...any) {
	logf(LevelDebug, "[DEBUG] ", format, args...)
}

// Info logs an info message if the level allows it.
func Info(format string, args ...any) {
	logf(LevelInfo, "[INFO] ", format, args...)
}

// Warn logs a warning message if the level allows it.
func Warn(format string, args ...any) {
	logf(LevelWarn, "[WARN] ", format, args...)
}

// Error logs an error message (always emitted).
func Error(format string, args ...any) {
	logf(LevelError, "[ERROR] ", format, args...)
}

func logf(l slog.Level, prefix, format string, args ...any) {
	if l < LevelError && slog.Level(level.Load()) > l {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(out, prefix+format+"\n", args...)
}
