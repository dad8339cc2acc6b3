// Package logger provides levelled logging for recipesync.
// Errors are always printed. Debug, info and warning messages are only
// printed in verbose mode (the --verbose flag), to help users follow
// what the sync layer is doing. Output goes to stderr so it never mixes
// with command output.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Level is the severity of a log line.
type Level int

// Log levels, lowest first.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the tag printed in front of a line.
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
		return "LOG"
	}
}

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	logf(LevelDebug, "", format, args...)
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	logf(LevelInfo, "", format, args...)
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	logf(LevelWarn, "", format, args...)
}

// Error prints an error message regardless of verbose mode.
func Error(format string, args ...any) {
	logf(LevelError, "", format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Component is a logger that tags every line with a component name.
type Component struct {
	name string
}

// For returns a logger for the named component.
func For(name string) Component {
	return Component{name: name}
}

// Debug prints a tagged message if verbose mode is enabled.
func (c Component) Debug(format string, args ...any) {
	logf(LevelDebug, c.name, format, args...)
}

// Info prints a tagged informational message if verbose mode is enabled.
func (c Component) Info(format string, args ...any) {
	logf(LevelInfo, c.name, format, args...)
}

// Warn prints a tagged warning if verbose mode is enabled.
func (c Component) Warn(format string, args ...any) {
	logf(LevelWarn, c.name, format, args...)
}

// Error prints a tagged error regardless of verbose mode.
func (c Component) Error(format string, args ...any) {
	logf(LevelError, c.name, format, args...)
}

func logf(level Level, component, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if level < LevelError && !verbose {
		return
	}
	prefix := "[" + level.String() + "] "
	if component != "" {
		prefix += component + ": "
	}
	fmt.Fprintf(output, prefix+format+"\n", args...)
}
