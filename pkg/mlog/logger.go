// Package mlog provides the service logger: slog with a compact,
// console-friendly handler.
package mlog

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger wraps slog.Logger with convenience methods
type Logger struct {
	*slog.Logger
}

// consoleHandler formats logs in a clean, CLI-friendly way
type consoleHandler struct {
	level  slog.Level
	output io.Writer
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *consoleHandler) Handle(_ context.Context, r slog.Record) error {
	// Format: [LEVEL] message key=value, key=value
	var b strings.Builder

	switch r.Level {
	case slog.LevelDebug:
		b.WriteString("🔍 ")
	case slog.LevelInfo:
		b.WriteString("ℹ️  ")
	case slog.LevelWarn:
		b.WriteString("⚠️  ")
	case slog.LevelError:
		b.WriteString("❌ ")
	}

	b.WriteString(r.Message)

	if r.NumAttrs() > 0 {
		first := true
		r.Attrs(func(a slog.Attr) bool {
			if first {
				b.WriteString(" ")
				first = false
			} else {
				b.WriteString(", ")
			}
			b.WriteString(a.Key)
			b.WriteString("=")
			b.WriteString(a.Value.String())
			return true
		})
	}

	b.WriteString("\n")
	_, err := h.output.Write([]byte(b.String()))
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	// Persistent attrs are not needed by this handler
	return h
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	// Groups are not needed by this handler
	return h
}

// NewLogger creates a new logger with the specified level and output
func NewLogger(level slog.Level, output io.Writer) *Logger {
	if output == nil {
		output = os.Stdout
	}

	return &Logger{
		Logger: slog.New(&consoleHandler{level: level, output: output}),
	}
}

// NewDefault creates a logger with INFO level
func NewDefault() *Logger {
	return NewLogger(slog.LevelInfo, os.Stdout)
}
