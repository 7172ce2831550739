// Package logging builds the diagnostic logger. Per-subject status lines are
// not logs and go to stdout separately; this logger carries the detail behind
// them (matched scans, created folders, link outcomes) on stderr and, when a
// log file is configured, into a size-rotated file.
package logging

import (
	"fmt"
	"io"

	"github.com/natefinch/lumberjack"
	"github.com/sirupsen/logrus"
)

// Options configures New.
type Options struct {
	Level      string // logrus level name; empty means warn, or debug when Verbose
	Verbose    bool
	File       string
	MaxSizeMB  int
	MaxAgeDays int
}

// Logger wraps a logrus logger together with its optional rotating file.
type Logger struct {
	*logrus.Logger
	file *lumberjack.Logger
}

// New returns a logger writing to w and, if opts.File is set, to a rotating
// log file.
func New(w io.Writer, opts Options) (*Logger, error) {
	level := logrus.WarnLevel
	if opts.Verbose {
		level = logrus.DebugLevel
	}
	if opts.Level != "" {
		parsed, err := logrus.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("parsing log level: %w", err)
		}
		level = parsed
	}

	l := &Logger{Logger: logrus.New()}
	l.SetLevel(level)
	l.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})

	out := w
	if opts.File != "" {
		l.file = &lumberjack.Logger{
			Filename: opts.File,
			MaxSize:  opts.MaxSizeMB, // megabytes
			MaxAge:   opts.MaxAgeDays,
		}
		out = io.MultiWriter(w, l.file)
		// Files get timestamps even though the terminal does not.
		l.SetFormatter(&logrus.TextFormatter{
			DisableColors: true,
			FullTimestamp: true,
		})
	}
	l.SetOutput(out)
	return l, nil
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	l := &Logger{Logger: logrus.New()}
	l.SetOutput(io.Discard)
	return l
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
