//go:build !unix

package applog

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Capture is a no-op where audio libraries do not write to stderr.
type Capture struct{}

func CaptureStderr(_ logrus.FieldLogger) (*Capture, error) {
	return &Capture{}, nil
}

func (c *Capture) WriteOriginal(msg string) {
	_, _ = os.Stderr.WriteString(msg)
}

func (c *Capture) Stop() {}
