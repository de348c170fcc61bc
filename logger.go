package dflow

import (
	"log/slog"
	"strings"
)

// LogLevel represents the severity level for a graph log event.
type LogLevel string

const (
	// LogLevelDebug is used for detailed information.
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo is used for general information messages.
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn is used for warning conditions.
	LogLevelWarn LogLevel = "warn"
	// LogLevelError is used for error conditions.
	LogLevelError LogLevel = "error"
)

// Logger defines an interface for logging at different severity levels.
// The default, installed by NewGraph unless overridden with GraphOption
// WithLogger, wraps slog.Default().
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// slogLogger adapts *slog.Logger to the Logger interface.
type slogLogger struct {
	l *slog.Logger
}

func (s slogLogger) Debug(msg string, args ...any) { s.l.Debug(msg, args...) }
func (s slogLogger) Info(msg string, args ...any)  { s.l.Info(msg, args...) }
func (s slogLogger) Warn(msg string, args ...any)  { s.l.Warn(msg, args...) }
func (s slogLogger) Error(msg string, args ...any) { s.l.Error(msg, args...) }

func defaultLogger() Logger {
	return slogLogger{l: slog.Default()}
}

// noopLogger discards everything.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// logConfig holds log levels for graph events. Only LevelWorkerExit is
// consulted (by Graph when a worker goroutine exits); state transitions and
// pipe overflows are not logged, so LevelTransition and LevelOverflow are
// filled with defaults but not read. Unset levels default the way the
// teacher's LoggerConfig does: success-ish events quiet, failure-ish events
// loud.
type logConfig struct {
	LevelTransition LogLevel
	LevelOverflow   LogLevel
	LevelWorkerExit LogLevel
}

func parseLogLevel(level LogLevel) LogLevel {
	return LogLevel(strings.ToLower(string(level)))
}

func (c *logConfig) applyDefaults() {
	c.LevelTransition = parseLogLevel(c.LevelTransition)
	if c.LevelTransition == "" {
		c.LevelTransition = LogLevelDebug
	}
	c.LevelOverflow = parseLogLevel(c.LevelOverflow)
	if c.LevelOverflow == "" {
		c.LevelOverflow = LogLevelWarn
	}
	c.LevelWorkerExit = parseLogLevel(c.LevelWorkerExit)
	if c.LevelWorkerExit == "" {
		c.LevelWorkerExit = LogLevelDebug
	}
}

func logFuncFor(level LogLevel, log Logger) func(msg string, args ...any) {
	switch level {
	case LogLevelDebug:
		return log.Debug
	case LogLevelWarn:
		return log.Warn
	case LogLevelError:
		return log.Error
	default:
		return log.Info
	}
}
