//go:build unix

package applog

import (
	"bufio"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// Capture redirects file descriptor 2 into log. C audio libraries (ALSA)
// write there directly and would otherwise corrupt the terminal UI. Call it
// early, before the audio device is opened. Stop restores the original
// stderr.
type Capture struct {
	orig int
	r, w *os.File
	done chan struct{}
	once sync.Once
}

// CaptureStderr starts forwarding stderr lines to log at warn level.
func CaptureStderr(log logrus.FieldLogger) (*Capture, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}

	orig, err := unix.Dup(int(os.Stderr.Fd()))
	if err != nil {
		r.Close()
		w.Close()
		return nil, err
	}

	if err := unix.Dup2(int(w.Fd()), int(os.Stderr.Fd())); err != nil {
		unix.Close(orig)
		r.Close()
		w.Close()
		return nil, err
	}

	c := &Capture{orig: orig, r: r, w: w, done: make(chan struct{})}
	log = log.WithField("component", "stderr")
	go func() {
		defer close(c.done)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				log.Warn(line)
			}
		}
	}()
	return c, nil
}

// WriteOriginal writes directly to the original stderr, bypassing capture.
func (c *Capture) WriteOriginal(msg string) {
	_, _ = unix.Write(c.orig, []byte(msg))
}

// Stop restores the original stderr and waits for buffered lines to be
// logged.
func (c *Capture) Stop() {
	c.once.Do(func() {
		_ = unix.Dup2(c.orig, int(os.Stderr.Fd()))
		_ = unix.Close(c.orig)
		c.w.Close()
		<-c.done
		c.r.Close()
	})
}
