// Package obslog provides the leveled, field-aware logger the planning
// core takes as a caller-supplied sink. Grounded on
// internal/logging/logging.go's shape (Level enum, ParseLevel, Discard,
// injectable output), upgraded from its hand-rolled mutex+fmt.Sprintf
// formatter to a structured logrus.Entry so satellite/target/pass-index
// fields are queryable. The core never touches a process-global logger:
// every constructor returns a value the caller threads through
// explicitly.
package obslog

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Level mirrors the teacher's four-tier severity scale, mapped onto
// logrus.Level at construction so callers never import logrus directly.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
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

func (l Level) logrusLevel() logrus.Level {
	switch l {
	case LevelDebug:
		return logrus.DebugLevel
	case LevelWarn:
		return logrus.WarnLevel
	case LevelError:
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// ParseLevel parses the wire/config string form of a Level, defaulting
// to LevelInfo for anything unrecognized.
func ParseLevel(s string) Level {
	switch s {
	case "debug", "DEBUG":
		return LevelDebug
	case "info", "INFO":
		return LevelInfo
	case "warn", "WARN", "warning", "WARNING":
		return LevelWarn
	case "error", "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger wraps a logrus.Logger behind the teacher's Debug/Info/Warn/
// Error shape, plus a With helper for attaching structured fields
// (satellite_id, target_id, pass_index, run_id) scoped to one call site.
type Logger struct {
	entry *logrus.Entry
}

// New creates a Logger at the given level, writing structured
// (logrus.TextFormatter) lines to os.Stderr by default.
func New(level Level) *Logger {
	base := logrus.New()
	base.SetLevel(level.logrusLevel())
	return &Logger{entry: logrus.NewEntry(base)}
}

// Discard returns a Logger that drops every line, for tests and
// dry-run callers that don't want log noise.
func Discard() *Logger {
	base := logrus.New()
	base.SetOutput(io.Discard)
	return &Logger{entry: logrus.NewEntry(base)}
}

// SetOutput redirects the underlying logrus.Logger's destination.
func (l *Logger) SetOutput(w io.Writer) {
	l.entry.Logger.SetOutput(w)
}

// SetLevel adjusts the minimum logged severity.
func (l *Logger) SetLevel(level Level) {
	l.entry.Logger.SetLevel(level.logrusLevel())
}

// With returns a child Logger with the given fields attached to every
// subsequent line, leaving the receiver untouched.
func (l *Logger) With(fields map[string]interface{}) *Logger {
	return &Logger{entry: l.entry.WithFields(fields)}
}

func (l *Logger) Debug(format string, args ...interface{}) { l.entry.Debugf(format, args...) }
func (l *Logger) Info(format string, args ...interface{})  { l.entry.Infof(format, args...) }
func (l *Logger) Warn(format string, args ...interface{})  { l.entry.Warnf(format, args...) }
func (l *Logger) Error(format string, args ...interface{}) { l.entry.Errorf(format, args...) }
