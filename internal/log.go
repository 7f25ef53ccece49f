package internal

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync/atomic"
)

// LogLevel is a logging verbosity
type LogLevel int32

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
	LogLevelTrace
)

var levelNames = [...]string{"ERROR", "WARN", "INFO", "DEBUG", "TRACE"}

func (l LogLevel) String() string {
	if l < 0 || int(l) >= len(levelNames) {
		return fmt.Sprintf("LogLevel(%d)", int(l))
	}
	return levelNames[l]
}

// ParseLogLevel reads a level name, ignoring case
func ParseLogLevel(s string) (LogLevel, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for i, name := range levelNames {
		if s == name {
			return LogLevel(i), true
		}
	}
	return LogLevelInfo, false
}

// Logger writes leveled lines through the standard log package. A logger
// made by Component shares its parent's level and tags every line.
type Logger struct {
	level *atomic.Int32
	tag   string
}

// NewLogger creates a logger at level
func NewLogger(level LogLevel) *Logger {
	l := &Logger{level: new(atomic.Int32)}
	l.level.Store(int32(level))
	return l
}

// NewDefaultLogger creates a logger at the LOG_LEVEL level, INFO when unset
// or unknown
func NewDefaultLogger() *Logger {
	level, _ := ParseLogLevel(os.Getenv("LOG_LEVEL"))
	return NewLogger(level)
}

// Component returns a logger writing "[name] " before each message
func (l *Logger) Component(name string) *Logger {
	return &Logger{level: l.level, tag: "[" + name + "] "}
}

// SetLevel changes the level of this logger and every logger sharing it
func (l *Logger) SetLevel(level LogLevel) { l.level.Store(int32(level)) }

// GetLevel returns the current level
func (l *Logger) GetLevel() LogLevel { return LogLevel(l.level.Load()) }

// Enabled reports whether messages at level are written
func (l *Logger) Enabled(level LogLevel) bool { return l.GetLevel() >= level }

func (l *Logger) printf(level LogLevel, format string, args ...interface{}) {
	if !l.Enabled(level) {
		return
	}
	log.Printf("["+level.String()+"] "+l.tag+format, args...)
}

func (l *Logger) Error(format string, args ...interface{}) { l.printf(LogLevelError, format, args...) }

func (l *Logger) Warn(format string, args ...interface{}) { l.printf(LogLevelWarn, format, args...) }

func (l *Logger) Info(format string, args ...interface{}) { l.printf(LogLevelInfo, format, args...) }

func (l *Logger) Debug(format string, args ...interface{}) { l.printf(LogLevelDebug, format, args...) }

func (l *Logger) Trace(format string, args ...interface{}) { l.printf(LogLevelTrace, format, args...) }

// Global logger instance
var DefaultLogger = NewDefaultLogger()
