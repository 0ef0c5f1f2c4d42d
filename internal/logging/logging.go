// Package logging configures the process-wide logrus logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Params selects where and how logs are written.
type Params struct {
	Level string
	// File enables a size-rotated log file. Empty keeps logs on stderr.
	File string
	// Stderr also mirrors file output to stderr.
	Stderr bool
	JSON   bool
}

// fileOut is the rotated log file of the last Setup; nil when logs only go
// to stderr.
var fileOut io.Writer

// Setup configures logrus and returns a closer for the log file, if any.
func Setup(params Params) (io.Closer, error) {
	level, err := ParseLevel(params.Level)
	if err != nil {
		return nil, err
	}
	logrus.SetLevel(level)
	if params.JSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: params.File == ""})
	}

	if params.File == "" {
		fileOut = nil
		logrus.SetOutput(os.Stderr)
		return nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(params.File), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log dir: %w", err)
	}
	file := &lumberjack.Logger{
		Filename:   params.File,
		MaxSize:    5, // megabytes
		MaxBackups: 3,
		LocalTime:  true,
		Compress:   true,
	}
	fileOut = file
	if params.Stderr {
		logrus.SetOutput(NewCombinedWriter(os.Stderr, file))
	} else {
		logrus.SetOutput(file)
	}
	return file, nil
}

// DetachTerminal keeps log output off the terminal while a full-screen UI
// owns it. Entries still reach the log file when one is configured and are
// dropped otherwise. The returned func restores the previous output.
func DetachTerminal() (restore func()) {
	prev := logrus.StandardLogger().Out
	var out io.Writer = io.Discard
	if fileOut != nil {
		out = fileOut
	}
	logrus.SetOutput(out)
	return func() { logrus.SetOutput(prev) }
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// ParseLevel maps a level name to a logrus level; empty means warn.
func ParseLevel(level string) (logrus.Level, error) {
	level = strings.TrimSpace(level)
	if level == "" {
		return logrus.WarnLevel, nil
	}
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return 0, fmt.Errorf("invalid log level %q", level)
	}
	return parsed, nil
}

// CombinedWriter fans writes out to several writers.
type CombinedWriter struct {
	Writers []io.Writer
}

// NewCombinedWriter returns a writer that duplicates writes to all writers.
func NewCombinedWriter(writers ...io.Writer) *CombinedWriter {
	return &CombinedWriter{Writers: writers}
}

// Write writes p to every writer. Failures are merged and reported together;
// the write counts as done when at least one writer took all of p.
func (cw *CombinedWriter) Write(p []byte) (int, error) {
	var err error
	ok := false
	for _, w := range cw.Writers {
		written, werr := w.Write(p)
		if werr != nil {
			err = multierr.Append(err, werr)
			continue
		}
		if written == len(p) {
			ok = true
		}
	}
	if !ok {
		return 0, err
	}
	return len(p), err
}
