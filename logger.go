package corvid

import (
	"fmt"
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the logger contract external to the core, per spec.md §6:
// trace/debug/info/warn/error/fatal, each accepting a message and
// printf-style args. A no-op implementation is acceptable and is the
// default.
type Logger interface {
	Trace(msg string, args ...interface{})
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// NopLogger discards everything. It is the Dispatcher/Router default.
type NopLogger struct{}

func (NopLogger) Trace(string, ...interface{}) {}
func (NopLogger) Debug(string, ...interface{}) {}
func (NopLogger) Info(string, ...interface{})  {}
func (NopLogger) Warn(string, ...interface{})  {}
func (NopLogger) Error(string, ...interface{}) {}
func (NopLogger) Fatal(string, ...interface{}) {}

// SlogLogger adapts log/slog.Logger to the Logger contract. This is the
// production default an embedding application wires in place of
// NopLogger; trace/fatal have no slog equivalent, so trace is mapped to
// slog's Debug level and fatal to its Error level (slog has no process-
// exit semantics, and the core never calls os.Exit on a library's
// behalf).
type SlogLogger struct {
	L *slog.Logger
}

// NewSlogLogger wraps l, or slog.Default() if l is nil.
func NewSlogLogger(l *slog.Logger) SlogLogger {
	if l == nil {
		l = slog.Default()
	}
	return SlogLogger{L: l}
}

func (s SlogLogger) Trace(msg string, args ...interface{}) { s.L.Debug(fmt.Sprintf(msg, args...)) }
func (s SlogLogger) Debug(msg string, args ...interface{}) { s.L.Debug(fmt.Sprintf(msg, args...)) }
func (s SlogLogger) Info(msg string, args ...interface{})  { s.L.Info(fmt.Sprintf(msg, args...)) }
func (s SlogLogger) Warn(msg string, args ...interface{})  { s.L.Warn(fmt.Sprintf(msg, args...)) }
func (s SlogLogger) Error(msg string, args ...interface{}) { s.L.Error(fmt.Sprintf(msg, args...)) }
func (s SlogLogger) Fatal(msg string, args ...interface{}) { s.L.Error(fmt.Sprintf(msg, args...)) }

// RotatingFileConfig configures a size/age-rotated log file for
// NewRotatingSlogLogger.
type RotatingFileConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// NewRotatingSlogLogger builds a SlogLogger that writes JSON lines to a
// lumberjack-rotated file — the deployment an embedding application
// reaches for once NopLogger/stderr stops being enough, without
// reimplementing log rotation on top of the standard library.
func NewRotatingSlogLogger(cfg RotatingFileConfig) SlogLogger {
	rotator := &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
	handler := slog.NewJSONHandler(rotator, nil)
	return NewSlogLogger(slog.New(handler))
}
