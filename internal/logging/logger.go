package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"
)

// Logger is a small leveled logger used by the server and long-running
// commands.
type Logger struct {
	info    *log.Logger
	warn    *log.Logger
	err     *log.Logger
	debug   *log.Logger
	verbose bool
	color   bool
}

// New creates a Logger writing info, warn and debug lines to stdout and
// errors to stderr. Debug lines are dropped unless verbose is set. Levels
// are colored only when stdout is a terminal.
func New(verbose bool) *Logger {
	return &Logger{
		info:    log.New(os.Stdout, "", 0),
		warn:    log.New(os.Stdout, "", 0),
		err:     log.New(os.Stderr, "", 0),
		debug:   log.New(os.Stdout, "", 0),
		verbose: verbose,
		color:   isTerminal(os.Stdout),
	}
}

// isTerminal reports whether f is a character device rather than a file
// or pipe.
func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// NewWriter creates an uncolored Logger sending every level to w.
func NewWriter(w io.Writer, verbose bool) *Logger {
	l := log.New(w, "", 0)
	return &Logger{info: l, warn: l, err: l, debug: l, verbose: verbose}
}

func (l *Logger) line(level, ansi, format string) string {
	tag := level
	if l.color {
		tag = "\033[" + ansi + "m" + level + "\033[0m"
	}
	return fmt.Sprintf("[%s] %-5s %s", time.Now().Format("2006-01-02 15:04:05"), tag, format)
}

func (l *Logger) Info(format string, args ...any) {
	l.info.Printf(l.line("INFO", "32", format), args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.warn.Printf(l.line("WARN", "33", format), args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.err.Printf(l.line("ERROR", "31", format), args...)
}

func (l *Logger) Debug(format string, args ...any) {
	if !l.verbose {
		return
	}
	l.debug.Printf(l.line("DEBUG", "36", format), args...)
}
