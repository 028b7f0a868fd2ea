// Package applog sets up the application's logrus logger. The terminal UI
// owns stdout, so everything is written to a log file.
package applog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Setup opens (or creates) the log file at path and returns a logger
// writing to it. An unknown level falls back to info with a warning.
// The returned closer closes the file.
func Setup(path, level string) (*logrus.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	log := New(f, level)
	return log, f, nil
}

// New returns a logger writing text entries to w.
func New(w io.Writer, level string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{
		DisableColors: true,
		FullTimestamp: true,
	})

	lvl := logrus.InfoLevel
	if level != "" {
		parsed, err := logrus.ParseLevel(level)
		if err != nil {
			log.WithField("level", level).Warn("unknown log level, using info")
		} else {
			lvl = parsed
		}
	}
	log.SetLevel(lvl)
	return log
}
