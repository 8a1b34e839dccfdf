// Package logger provides leveled logging for the psceval command and its
// internal packages. Messages are printf-style and prefixed with their level
// and, for component loggers, the component name.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// Level represents a logging level
type Level int

const (
	// DebugLevel is used for per-year calculation traces.
	DebugLevel Level = iota
	// InfoLevel is the default logging priority.
	InfoLevel
	// WarnLevel marks skipped scenarios and recoverable failures.
	WarnLevel
	// ErrorLevel marks failures that abort a command.
	ErrorLevel
)

var levelNames = map[Level]string{
	DebugLevel: "DEBUG",
	InfoLevel:  "INFO",
	WarnLevel:  "WARN",
	ErrorLevel: "ERROR",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("LEVEL(%d)", int(l))
}

// ParseLevel maps a config string to a Level. Unknown values map to InfoLevel.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

type state struct {
	mu     sync.RWMutex
	level  Level
	logger *log.Logger
}

var std = &state{level: InfoLevel}

// Init configures the package logger with the given level and format.
// The "text" format adds the caller's file and line.
func Init(level string, format string) {
	initWith(os.Stderr, level, format)
}

// SetOutput redirects log output, mainly for tests.
func SetOutput(w io.Writer, level string) {
	initWith(w, level, "json")
}

func initWith(w io.Writer, level, format string) {
	flags := log.LstdFlags | log.Lmicroseconds
	if strings.ToLower(format) == "text" {
		flags |= log.Lshortfile
	}
	std.mu.Lock()
	defer std.mu.Unlock()
	std.level = ParseLevel(level)
	std.logger = log.New(w, "", flags)
}

// Enabled reports whether messages at l would be written.
func Enabled(l Level) bool {
	std.mu.RLock()
	defer std.mu.RUnlock()
	return std.logger != nil && std.level <= l
}

func output(l Level, prefix, format string, args ...interface{}) {
	std.mu.RLock()
	defer std.mu.RUnlock()
	if std.logger == nil || std.level > l {
		return
	}
	msg := fmt.Sprintf("["+l.String()+"] "+prefix+format, args...)
	_ = std.logger.Output(3, msg)
}

// Debug logs a message at DebugLevel
func Debug(format string, args ...interface{}) { output(DebugLevel, "", format, args...) }

// Info logs a message at InfoLevel
func Info(format string, args ...interface{}) { output(InfoLevel, "", format, args...) }

// Warn logs a message at WarnLevel
func Warn(format string, args ...interface{}) { output(WarnLevel, "", format, args...) }

// Error logs a message at ErrorLevel
func Error(format string, args ...interface{}) { output(ErrorLevel, "", format, args...) }

// Fatal logs a message and exits
func Fatal(format string, args ...interface{}) {
	msg := fmt.Sprintf("[FATAL] "+format, args...)
	std.mu.RLock()
	l := std.logger
	std.mu.RUnlock()
	if l == nil {
		log.Fatal(msg)
	}
	_ = l.Output(2, msg)
	os.Exit(1)
}

// Component is a logger that tags every message with a component name.
type Component struct {
	prefix string
}

// Named returns a component logger, e.g. Named("engine").
func Named(name string) Component {
	return Component{prefix: "[" + name + "] "}
}

// Debug logs a message at DebugLevel
func (c Component) Debug(format string, args ...interface{}) {
	output(DebugLevel, c.prefix, format, args...)
}

// Info logs a message at InfoLevel
func (c Component) Info(format string, args ...interface{}) {
	output(InfoLevel, c.prefix, format, args...)
}

// Warn logs a message at WarnLevel
func (c Component) Warn(format string, args ...interface{}) {
	output(WarnLevel, c.prefix, format, args...)
}

// Error logs a message at ErrorLevel
func (c Component) Error(format string, args ...interface{}) {
	output(ErrorLevel, c.prefix, format, args...)
}
