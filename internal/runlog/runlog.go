// Package runlog provides the human-readable run log shared by both
// pipelines: timestamped lines split into command announcements (CMD),
// informational lines (INFO), and errors (ERROR). Errors go to a separate
// stream so they survive stdout redirection.
package runlog

import (
	"io"
	"log"
	"strings"
)

// Logger writes timestamped, labelled log lines. Info and Cmd lines go to
// the out stream, Error lines to the err stream.
type Logger struct {
	out *log.Logger
	err *log.Logger
}

// New returns a Logger writing informational output to out and errors to err.
func New(out, err io.Writer) *Logger {
	return &Logger{
		out: log.New(out, "", log.LstdFlags),
		err: log.New(err, "", log.LstdFlags),
	}
}

// Infof logs an informational line.
func (l *Logger) Infof(format string, args ...any) {
	l.out.Printf("INFO  "+format, args...)
}

// Cmdf announces an external command about to run.
func (l *Logger) Cmdf(name string, args []string) {
	l.out.Printf("CMD   %s %s", name, strings.Join(args, " "))
}

// Errorf logs an error line to the error stream.
func (l *Logger) Errorf(format string, args ...any) {
	l.err.Printf("ERROR "+format, args...)
}
