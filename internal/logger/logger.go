// Package logger wraps log/slog with the conventions used across the service:
// a service attribute on the root logger, a component attribute per package,
// caller information on errors and request logging.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Config holds logger configuration
type Config struct {
	Level        string // debug, info, warn, error
	Format       string // json, text
	Output       io.Writer
	EnableCaller bool
	Service      string
	Environment  string
}

// Logger wraps slog.Logger
type Logger struct {
	*slog.Logger
	config Config
}

// New creates a logger from cfg. A nil Output writes to stdout.
func New(cfg Config) *Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		handler = slog.NewTextHandler(out, opts)
	} else {
		handler = slog.NewJSONHandler(out, opts)
	}

	l := slog.New(handler)
	if cfg.Service != "" {
		l = l.With("service", cfg.Service)
	}
	if cfg.Environment != "" {
		l = l.With("environment", cfg.Environment)
	}

	return &Logger{Logger: l, config: cfg}
}

// Nop returns a logger that discards everything. Used in tests.
func Nop() *Logger {
	return New(Config{Output: io.Discard})
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithContext creates a new logger with additional attributes
func (l *Logger) WithContext(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...), config: l.config}
}

// WithComponent creates a logger with component context
func (l *Logger) WithComponent(component string) *Logger {
	return l.WithContext("component", component)
}

// Error logs at error level, adding the caller when enabled
func (l *Logger) Error(msg string, args ...any) {
	l.errorAt(2, msg, args...)
}

// Fatal logs at error level and exits. Deferred calls do not run.
func (l *Logger) Fatal(msg string, args ...any) {
	l.errorAt(2, msg, args...)
	os.Exit(1)
}

// errorAt records the caller skip frames above itself.
func (l *Logger) errorAt(skip int, msg string, args ...any) {
	if l.config.EnableCaller {
		if _, file, line, ok := runtime.Caller(skip); ok {
			args = append(args, "caller", fmt.Sprintf("%s:%d", filepath.Base(file), line))
		}
	}
	l.Logger.Error(msg, args...)
}
