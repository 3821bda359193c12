// Package logging provides structured logging for ensemble runs.
// It wraps Go's log/slog package to provide JSON-formatted leveled logs
// whose threshold can be adjusted while the program is running.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Log levels supported by the logger
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

// Logger provides structured logging with persistent attributes and a
// runtime-adjustable level. It is safe for concurrent use. Child loggers
// created via With* share the parent's level, so adjusting the level on
// any of them affects the whole family.
type Logger struct {
	logger *slog.Logger
	level  *slog.LevelVar
	attrs  []slog.Attr
}

// New creates a Logger that writes JSON-formatted logs to w at the given
// level. If w is nil, logs go to stderr.
//
// The level parameter controls which messages are logged:
//   - DEBUG: All messages
//   - INFO: Info, Warn, and Error messages
//   - WARN: Warn and Error messages
//   - ERROR: Only Error messages
func New(w io.Writer, level string) *Logger {
	if w == nil {
		w = os.Stderr
	}

	lv := new(slog.LevelVar)
	lv.Set(parseLevel(level))

	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lv})

	return &Logger{
		logger: slog.New(handler),
		level:  lv,
		attrs:  make([]slog.Attr, 0),
	}
}

// Nop returns a Logger that discards all output. Useful for tests.
func Nop() *Logger {
	return &Logger{
		logger: slog.New(slog.NewJSONHandler(io.Discard, nil)),
		level:  new(slog.LevelVar),
		attrs:  make([]slog.Attr, 0),
	}
}

// parseLevel converts a string log level to slog.Level.
// Defaults to INFO if the level string is not recognized.
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LevelName returns the canonical name for a slog.Level.
func LevelName(level slog.Level) string {
	switch {
	case level <= slog.LevelDebug:
		return LevelDebug
	case level <= slog.LevelInfo:
		return LevelInfo
	case level <= slog.LevelWarn:
		return LevelWarn
	default:
		return LevelError
	}
}

// Level returns the current log level threshold.
func (l *Logger) Level() slog.Level {
	return l.level.Level()
}

// SetLevel changes the log level threshold at runtime.
func (l *Logger) SetLevel(level string) {
	l.level.Set(parseLevel(level))
}

// Adjust shifts the log level threshold by delta slog units (adjacent named
// levels are 4 units apart) and returns the new level. The result is clamped
// to the DEBUG..ERROR range, so repeated adjustment in one direction is
// harmless.
func (l *Logger) Adjust(delta int) slog.Level {
	next := l.level.Level() + slog.Level(delta)
	if next < slog.LevelDebug {
		next = slog.LevelDebug
	}
	if next > slog.LevelError {
		next = slog.LevelError
	}
	l.level.Set(next)
	return next
}

// WithPlugin returns a new Logger with the plugin name added to all log
// entries. This creates a child logger that inherits all existing attributes.
func (l *Logger) WithPlugin(name string) *Logger {
	return l.withAttr(slog.String("plugin", name))
}

// WithRun returns a new Logger with the run ID added to all log entries.
func (l *Logger) WithRun(runID string) *Logger {
	return l.withAttr(slog.String("run_id", runID))
}

// With returns a new Logger with arbitrary key-value attributes.
// Keys and values are provided as alternating arguments.
func (l *Logger) With(args ...any) *Logger {
	if len(args) == 0 {
		return l
	}

	newAttrs := make([]slog.Attr, 0, len(l.attrs)+len(args)/2)
	newAttrs = append(newAttrs, l.attrs...)

	for i := 0; i < len(args)-1; i += 2 {
		key, ok := args[i].(string)
		if !ok {
			continue
		}
		newAttrs = append(newAttrs, slog.Any(key, args[i+1]))
	}

	return &Logger{
		logger: l.logger,
		level:  l.level,
		attrs:  newAttrs,
	}
}

// withAttr creates a new Logger with an additional attribute.
func (l *Logger) withAttr(attr slog.Attr) *Logger {
	newAttrs := make([]slog.Attr, len(l.attrs)+1)
	copy(newAttrs, l.attrs)
	newAttrs[len(l.attrs)] = attr

	return &Logger{
		logger: l.logger,
		level:  l.level,
		attrs:  newAttrs,
	}
}

// Debug logs a message at DEBUG level with optional key-value pairs.
func (l *Logger) Debug(msg string, args ...any) {
	l.log(slog.LevelDebug, msg, args...)
}

// Info logs a message at INFO level with optional key-value pairs.
func (l *Logger) Info(msg string, args ...any) {
	l.log(slog.LevelInfo, msg, args...)
}

// Warn logs a message at WARN level with optional key-value pairs.
func (l *Logger) Warn(msg string, args ...any) {
	l.log(slog.LevelWarn, msg, args...)
}

// Error logs a message at ERROR level with optional key-value pairs.
func (l *Logger) Error(msg string, args ...any) {
	l.log(slog.LevelError, msg, args...)
}

// log combines persistent attributes with per-call arguments.
func (l *Logger) log(level slog.Level, msg string, args ...any) {
	allArgs := make([]any, 0, len(l.attrs)*2+len(args))
	for _, attr := range l.attrs {
		allArgs = append(allArgs, attr.Key, attr.Value.Any())
	}
	allArgs = append(allArgs, args...)

	l.logger.Log(context.Background(), level, msg, allArgs...)
}
