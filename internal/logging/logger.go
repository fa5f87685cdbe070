package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync/atomic"
)

// Level orders log severities.
type Level int32

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
		return fmt.Sprintf("LEVEL(%d)", int32(l))
	}
}

// ParseLevel maps "debug", "info", "warn"/"warning" and "error" to a Level.
// Anything else is LevelInfo.
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

// Logger writes leveled messages with key/value pairs:
//
//	2026/10/16 09:12:44 [http] [INFO] request served status=200 latency=41ms
type Logger struct {
	prefix string
	level  *atomic.Int32
	logger *log.Logger
}

// NewLogger creates a logger writing to stderr at LevelInfo.
func NewLogger(prefix string) *Logger {
	return New(os.Stderr, prefix, LevelInfo)
}

// New creates a logger writing to w.
func New(w io.Writer, prefix string, level Level) *Logger {
	lv := new(atomic.Int32)
	lv.Store(int32(level))
	return &Logger{
		prefix: prefix,
		level:  lv,
		logger: log.New(w, fmt.Sprintf("[%s] ", prefix), log.Ldate|log.Ltime|log.Lmsgprefix),
	}
}

// With returns a logger sharing this one's output and level, under another
// prefix.
func (l *Logger) With(prefix string) *Logger {
	return &Logger{
		prefix: prefix,
		level:  l.level,
		logger: log.New(l.logger.Writer(), fmt.Sprintf("[%s] ", prefix), l.logger.Flags()),
	}
}

// SetLevel changes the minimum level for this logger and every logger
// derived from it with With.
func (l *Logger) SetLevel(level Level) {
	l.level.Store(int32(level))
}

// Enabled reports whether messages at level would be written.
func (l *Logger) Enabled(level Level) bool {
	return int32(level) >= l.level.Load()
}

// Info logs an informational message with key-value pairs
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.logWithKV(LevelInfo, msg, keysAndValues...)
}

// Warn logs a warning message with key-value pairs
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.logWithKV(LevelWarn, msg, keysAndValues...)
}

// Error logs an error message with key-value pairs
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.logWithKV(LevelError, msg, keysAndValues...)
}

// Debug logs a debug message with key-value pairs
func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.logWithKV(LevelDebug, msg, keysAndValues...)
}

func (l *Logger) logWithKV(level Level, msg string, keysAndValues ...interface{}) {
	if !l.Enabled(level) {
		return
	}
	var kv strings.Builder
	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 < len(keysAndValues) {
			fmt.Fprintf(&kv, " %v=%v", keysAndValues[i], keysAndValues[i+1])
		} else {
			fmt.Fprintf(&kv, " %v=<missing>", keysAndValues[i])
		}
	}
	l.logger.Printf("[%s] %s%s", level, msg, kv.String())
}
