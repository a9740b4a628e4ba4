package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger defines structured logging interface
type Logger interface {
	Info(msg string, args ...any)
	Error(msg string, args ...any)
	Warn(msg string, args ...any)
	Debug(msg string, args ...any)
	With(args ...any) Logger
}

// SlogLogger implements Logger using Go's standard log/slog
type SlogLogger struct {
	logger *slog.Logger
}

// New creates a JSON logger writing to stdout at the given level
func New(level string) Logger {
	return NewWithWriter(os.Stdout, level)
}

// NewWithWriter creates a JSON logger writing to w
func NewWithWriter(w io.Writer, level string) Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)})
	return &SlogLogger{logger: slog.New(handler)}
}

// ParseLevel maps LOG_LEVEL values onto slog levels. Unknown values are info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *SlogLogger) Info(msg string, args ...any) {
	l.logger.Info(msg, args...)
}

func (l *SlogLogger) Error(msg string, args ...any) {
	l.logger.Error(msg, args...)
}

func (l *SlogLogger) Warn(msg string, args ...any) {
	l.logger.Warn(msg, args...)
}

func (l *SlogLogger) Debug(msg string, args ...any) {
	l.logger.Debug(msg, args...)
}

// With returns a new logger with the specified attributes
func (l *SlogLogger) With(args ...any) Logger {
	return &SlogLogger{logger: l.logger.With(args...)}
}

// Default returns a default logger instance
func Default() Logger {
	return New("info")
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() Logger {
	return NewWithWriter(io.Discard, "error")
}
