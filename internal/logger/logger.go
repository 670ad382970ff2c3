package logger

import (
	"io"
	"log"
	"os"
)

// Log flags
const (
	LstdFlags     = log.LstdFlags
	Lmicroseconds = log.Lmicroseconds
)

// Logger wraps the standard log.Logger with a verbose-gated debug level.
type Logger struct {
	*log.Logger
	verbose bool
}

// New creates a new logger writing bare lines to stdout, so improvement
// output can be consumed as-is. File loggers add timestamps via SetFlags.
func New() *Logger {
	return &Logger{
		Logger: log.New(os.Stdout, "", 0),
	}
}

// NewWriter creates a new logger that writes to the provided writer.
func NewWriter(w io.Writer) *Logger {
	return &Logger{
		Logger: log.New(w, "", log.LstdFlags),
	}
}

// SetVerbose enables or disables Debugf output.
func (l *Logger) SetVerbose(v bool) {
	l.verbose = v
}

// Debugf logs only when verbose output is enabled.
func (l *Logger) Debugf(format string, v ...any) {
	if l.verbose {
		l.Printf(format, v...)
	}
}

// SetFlags sets the output flags for the logger.
func (l *Logger) SetFlags(flag int) {
	l.Logger.SetFlags(flag)
}
