// Package log provides colored console output for the gobcast tool and an
// optional Logger handle that library code can carry around.
package log

import (
	"os"

	"github.com/fatih/color"
)

var red = color.New(color.FgRed).FprintfFunc()
var blue = color.New(color.FgBlue).FprintfFunc()
var yellow = color.New(color.FgYellow).FprintfFunc()

// ErrorMsg prints an error message to stderr in red color.
func ErrorMsg(format string, a ...interface{}) {
	red(os.Stderr, "[!] Error: "+format, a...)
}

// InfoMsg prints an informational message to stderr in blue color.
func InfoMsg(format string, a ...interface{}) {
	blue(os.Stderr, "[+] "+format, a...)
}

// Logger wraps the package-level output functions and adds a verbose mode.
// A nil *Logger is silent, so library code can log unconditionally.
type Logger struct {
	Verbose bool
}

// NewLogger returns a logger with the given verbosity.
func NewLogger(verbose bool) *Logger {
	return &Logger{Verbose: verbose}
}

// ErrorMsg prints an error message unless the logger is nil.
func (l *Logger) ErrorMsg(format string, a ...interface{}) {
	if l == nil {
		return
	}
	ErrorMsg(format, a...)
}

// InfoMsg prints an informational message unless the logger is nil.
func (l *Logger) InfoMsg(format string, a ...interface{}) {
	if l == nil {
		return
	}
	InfoMsg(format, a...)
}

// VerboseMsg prints a debug message to stderr in yellow, but only when
// verbose mode is enabled.
func (l *Logger) VerboseMsg(format string, a ...interface{}) {
	if l == nil || !l.Verbose {
		return
	}
	yellow(os.Stderr, "[*] "+format, a...)
}
