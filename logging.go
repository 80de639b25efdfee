// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Ryan Johnson

package rdpbridge

import (
	"fmt"
	"log"
	"os"
	"strings"
)

// Field represents a structured logging field with a key-value pair.
type Field struct {
	Key   string
	Value interface{}
}

// Logger defines the interface for structured logging throughout the bridge.
type Logger interface {
	// Debug logs debug-level messages with optional structured fields.
	Debug(msg string, fields ...Field)

	// Info logs info-level messages with optional structured fields.
	Info(msg string, fields ...Field)

	// Warn logs warning-level messages with optional structured fields.
	Warn(msg string, fields ...Field)

	// Error logs error-level messages with optional structured fields.
	Error(msg string, fields ...Field)

	// With creates a new logger instance with the provided fields pre-populated.
	With(fields ...Field) Logger
}

// LogLevel orders log severities for loggers that filter output.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the level tag used in formatted output and as the engine
// verbosity string.
func (l LogLevel) String() string {
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

// ParseLogLevel parses a level name case-insensitively. Unknown names yield
// LevelInfo and false.
func ParseLogLevel(s string) (LogLevel, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG", "TRACE":
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

// NoOpLogger is a Logger implementation that discards all log messages.
type NoOpLogger struct{}

// Debug discards debug-level log messages.
func (l *NoOpLogger) Debug(msg string, fields ...Field) {}

// Info discards info-level log messages.
func (l *NoOpLogger) Info(msg string, fields ...Field) {}

// Warn discards warning-level log messages.
func (l *NoOpLogger) Warn(msg string, fields ...Field) {}

// Error discards error-level log messages.
func (l *NoOpLogger) Error(msg string, fields ...Field) {}

// With returns the same NoOpLogger.
func (l *NoOpLogger) With(fields ...Field) Logger {
	return l
}

// StandardLogger writes leveled, key=value formatted lines through Go's
// standard log package.
type StandardLogger struct {
	// Logger is the underlying standard library logger. When nil, a shared
	// stderr logger with an "RDPBRIDGE: " prefix is used.
	Logger *log.Logger

	// MinLevel drops messages below this level. The zero value logs everything.
	MinLevel LogLevel

	contextFields []Field
}

var defaultStdLogger = log.New(os.Stderr, "RDPBRIDGE: ", log.LstdFlags|log.Lmsgprefix)

// output never writes back to l, so a zero-value StandardLogger is safe to
// share between goroutines.
func (l *StandardLogger) output() *log.Logger {
	if l.Logger == nil {
		return defaultStdLogger
	}
	return l.Logger
}

func (l *StandardLogger) write(level LogLevel, msg string, fields []Field) {
	if level < l.MinLevel {
		return
	}

	var b strings.Builder
	b.WriteString("[")
	b.WriteString(level.String())
	b.WriteString("] ")
	b.WriteString(msg)
	for _, f := range l.contextFields {
		writeField(&b, f)
	}
	for _, f := range fields {
		writeField(&b, f)
	}
	l.output().Print(b.String())
}

func writeField(b *strings.Builder, f Field) {
	b.WriteByte(' ')
	b.WriteString(f.Key)
	b.WriteByte('=')
	b.WriteString(formatFieldValue(f.Value))
}

// formatFieldValue quotes strings containing whitespace and error values.
// Everything else uses default formatting.
func formatFieldValue(value interface{}) string {
	switch v := value.(type) {
	case string:
		if strings.ContainsAny(v, " \t\n\r") {
			return `"` + v + `"`
		}
		return v
	case error:
		return `"` + v.Error() + `"`
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Debug logs a debug-level message with structured fields.
func (l *StandardLogger) Debug(msg string, fields ...Field) {
	l.write(LevelDebug, msg, fields)
}

// Info logs an info-level message with structured fields.
func (l *StandardLogger) Info(msg string, fields ...Field) {
	l.write(LevelInfo, msg, fields)
}

// Warn logs a warning-level message with structured fields.
func (l *StandardLogger) Warn(msg string, fields ...Field) {
	l.write(LevelWarn, msg, fields)
}

// Error logs an error-level message with structured fields.
func (l *StandardLogger) Error(msg string, fields ...Field) {
	l.write(LevelError, msg, fields)
}

// With creates a new StandardLogger that includes the provided fields in all
// subsequent messages.
func (l *StandardLogger) With(fields ...Field) Logger {
	merged := make([]Field, 0, len(l.contextFields)+len(fields))
	merged = append(merged, l.contextFields...)
	merged = append(merged, fields...)

	return &StandardLogger{
		Logger:        l.output(),
		MinLevel:      l.MinLevel,
		contextFields: merged,
	}
}
