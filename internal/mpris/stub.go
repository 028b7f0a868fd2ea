//go:build !linux

package mpris

// Adapter exports nothing outside Linux, where there is no MPRIS bus. The
// Session still caches engine state, so callers need no platform checks.
type Adapter struct{}

// New returns an inert adapter.
func New(string, Controller, *Session) (*Adapter, error) { return &Adapter{}, nil }

// Close does nothing.
func (*Adapter) Close() error { return nil }
