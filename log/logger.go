package log

import (
	"fmt"
	"io"
)

// Logger is a minimal wrapper around an io.Writer.
type Logger struct {
	io.Writer
}

// New returns a new logger which writes to w.
func New(w io.Writer) *Logger {
	return &Logger{Writer: w}
}

// Logln logs a line.
func (l *Logger) Logln(args ...interface{}) {
	fmt.Fprintln(l, args...)
}

// Logf logs a formatted string.
func (l *Logger) Logf(f string, args ...interface{}) {
	fmt.Fprintf(l, f, args...)
}

// LogSyncfln logs a formatted line, prefixed with `sync: `, for messages
// emitted while materialising a lockfile into an environment.
func (l *Logger) LogSyncfln(format string, args ...interface{}) {
	fmt.Fprintf(l, "sync: "+format+"\n", args...)
}

// LogSolvefln logs a formatted line, prefixed with `solve: `, for messages
// emitted while resolving and picking dependency versions.
func (l *Logger) LogSolvefln(format string, args ...interface{}) {
	fmt.Fprintf(l, "solve: "+format+"\n", args...)
}
