package logger

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// Logger wraps charm/log for structured logging
type Logger struct {
	*log.Logger
}

// New creates a new logger with the given output
func New(w io.Writer) *Logger {
	return NewWithLevel(w, log.InfoLevel)
}

// NewWithLevel creates a logger with a specific level
func NewWithLevel(w io.Writer, level log.Level) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level,
	})
	return &Logger{Logger: l}
}

// ParseLevel converts a configured level name into a log level
func ParseLevel(name string) (log.Level, error) {
	if name == "" {
		return log.InfoLevel, nil
	}
	return log.ParseLevel(name)
}

// NewFileLogger creates a logger that appends to a file
func NewFileLogger(path string, level log.Level) (*Logger, func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		f.Close()
	}

	return NewWithLevel(f, level), cleanup, nil
}

// Discard returns a logger that discards all output
func Discard() *Logger {
	return New(io.Discard)
}

// VaultOpened logs a vault being opened for browsing
func (l *Logger) VaultOpened(name, path string, notes int) {
	l.Info("vault opened",
		"vault", name,
		"path", path,
		"notes", notes)
}

// NoteOpened logs a note being parsed
func (l *Logger) NoteOpened(path string, bytes, nodes int) {
	l.Info("note opened",
		"path", path,
		"bytes", bytes,
		"nodes", nodes)
}

// NoteRendered logs a layout pass
func (l *Logger) NoteRendered(path string, width, lines int, duration time.Duration) {
	l.Debug("note rendered",
		"path", path,
		"width", width,
		"lines", lines,
		"duration", duration.Round(time.Microsecond))
}

// NoteReloaded logs a note being reparsed after a change on disk
func (l *Logger) NoteReloaded(path, reason string) {
	l.Info("note reloaded",
		"path", path,
		"reason", reason)
}

// NoteError logs an error for a specific note
func (l *Logger) NoteError(path string, err error) {
	l.Error("note error",
		"path", path,
		"error", err)
}

// WatchError logs a file watcher error
func (l *Logger) WatchError(path string, err error) {
	l.Warn("watch error",
		"path", path,
		"error", err)
}

// StateError logs a state-related error
func (l *Logger) StateError(operation string, err error) {
	l.Error("state error",
		"operation", operation,
		"error", err)
}

// ConfigLoaded logs successful config loading
func (l *Logger) ConfigLoaded(vault string, maxWidth int, level string) {
	l.Debug("config loaded",
		"vault", vault,
		"max_width", maxWidth,
		"log_level", level)
}
