// Package logging provides the leveled key/value logger used across the coin counter.
//
// Output goes to stderr because stdout carries either the MCP protocol stream or
// the plain-text report.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// Level is a logging severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = map[Level]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
}

// String returns the upper-case level name.
func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("LEVEL(%d)", int(l))
}

// ParseLevel converts "debug", "info", "warn"/"warning" or "error" into a Level.
// Unknown or empty strings yield LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger writes leveled messages followed by key=value pairs.
type Logger struct {
	mu     sync.Mutex
	level  Level
	logger *log.Logger
}

// New creates a Logger writing to w. Messages below level are dropped.
func New(w io.Writer, prefix string, level Level) *Logger {
	if prefix != "" {
		prefix = "[" + prefix + "] "
	}
	return &Logger{
		level:  level,
		logger: log.New(w, prefix, log.Ldate|log.Ltime|log.Lshortfile),
	}
}

// NewStderr creates a Logger on os.Stderr.
func NewStderr(prefix string, level Level) *Logger {
	return New(os.Stderr, prefix, level)
}

// Discard returns a Logger that drops everything. Useful in tests.
func Discard() *Logger {
	return New(io.Discard, "", LevelError+1)
}

// Level reports the minimum level that is written.
func (l *Logger) Level() Level {
	return l.level
}

// Debug logs a debug message with key-value pairs.
func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.logWithKV(LevelDebug, msg, keysAndValues...)
}

// Info logs an informational message with key-value pairs.
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.logWithKV(LevelInfo, msg, keysAndValues...)
}

// Warn logs a warning message with key-value pairs.
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.logWithKV(LevelWarn, msg, keysAndValues...)
}

// Error logs an error message with key-value pairs.
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.logWithKV(LevelError, msg, keysAndValues...)
}

func (l *Logger) logWithKV(level Level, msg string, keysAndValues ...interface{}) {
	if l == nil || level < l.level {
		return
	}

	var sb strings.Builder
	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 < len(keysAndValues) {
			fmt.Fprintf(&sb, " %v=%v", keysAndValues[i], keysAndValues[i+1])
		} else {
			fmt.Fprintf(&sb, " %v=<missing>", keysAndValues[i])
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	// calldepth 3: Output <- logWithKV <- Info/Warn/... <- caller
	_ = l.logger.Output(3, fmt.Sprintf("[%s] %s%s", level, msg, sb.String()))
}
