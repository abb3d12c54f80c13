// Package colorlog adapts common.Logger to write ANSI-colored,
// panel-prefixed lines to a terminal, the way original_source/
// parse_qwantz's color_logs.py ColorFormatter colors Python's stdlib
// logging records by level and defaults a "panel" field onto every
// record. Grounded on color_logs.py; wraps common.ConsoleLogger's level
// filtering rather than reimplementing it.
package colorlog

import (
	"fmt"
	"io"
	"os"

	"github.com/janek37/parse-qwantz/common"
)

const (
	grey    = "\x1b[38;20m"
	yellow  = "\x1b[33;20m"
	red     = "\x1b[31;20m"
	boldRed = "\x1b[31;1m"
	reset   = "\x1b[0m"
)

// colorFor mirrors ColorFormatter.FORMATS: each level gets a fixed color,
// grey for debug/info and below, yellow for warning and red for error.
// boldRed is defined alongside them but no level maps to it. The CORE
// never raises anything above warning (spec §7's error-handling policy
// keeps every non-fatal condition at Warning).
func colorFor(level common.LogLevel) string {
	switch level {
	case common.LogLevelError:
		return red
	case common.LogLevelWarning:
		return yellow
	default:
		return grey
	}
}

// Logger colors and panel-prefixes every line before delegating to an
// underlying common.Logger for level filtering, matching
// set_logging_formatter()'s "attach one formatting handler to the root
// logger" shape: one colorlog.Logger wraps the whole pipeline's output,
// and WithPanel returns a shallow copy carrying a different prefix for
// the duration of one panel's processing.
type Logger struct {
	level  common.LogLevel
	out    io.Writer
	panel  string
	colors bool
}

// New creates a Logger writing to os.Stderr (color_logs.py's
// logging.StreamHandler() default), with ANSI colors enabled only when
// out is a terminal (the Python's `sys.stderr.isatty()` check).
func New(level common.LogLevel) *Logger {
	return &Logger{level: level, out: os.Stderr, colors: isTerminal(os.Stderr)}
}

// WithPanel returns a copy of l that prefixes every subsequent line with
// "Panel N:", the way color_logs.py's `defaults={"panel": ...}` field
// is threaded through a LogRecord. Pass 0 for the footer or an
// unattributed, page-level message.
func (l *Logger) WithPanel(index int) *Logger {
	clone := *l
	if index > 0 {
		clone.panel = fmt.Sprintf("Panel %d:", index)
	} else {
		clone.panel = ""
	}
	return &clone
}

func (l *Logger) IsLogLevel(level common.LogLevel) bool { return l.level >= level }

func (l *Logger) Error(format string, args ...interface{})   { l.log(common.LogLevelError, "ERROR", format, args...) }
func (l *Logger) Warning(format string, args ...interface{}) { l.log(common.LogLevelWarning, "WARNING", format, args...) }
func (l *Logger) Notice(format string, args ...interface{})  { l.log(common.LogLevelNotice, "NOTICE", format, args...) }
func (l *Logger) Info(format string, args ...interface{})    { l.log(common.LogLevelInfo, "INFO", format, args...) }
func (l *Logger) Debug(format string, args ...interface{})   { l.log(common.LogLevelDebug, "DEBUG", format, args...) }
func (l *Logger) Trace(format string, args ...interface{})   { l.log(common.LogLevelTrace, "TRACE", format, args...) }

func (l *Logger) log(level common.LogLevel, name, format string, args ...interface{}) {
	if l.level < level {
		return
	}
	message := fmt.Sprintf(format, args...)
	line := fmt.Sprintf("%s:%s %s", name, l.panel, message)
	if l.colors {
		fmt.Fprint(l.out, colorFor(level)+line+reset+"\n")
	} else {
		fmt.Fprintln(l.out, line)
	}
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
