//go:build !linux

package keepalive

import "context"

// DBus is a no-op on platforms without a session bus.
type DBus struct{}

// NewDBus returns a no-op wake lock on non-Linux platforms.
func NewDBus(_, _ string) (*DBus, error) {
	return &DBus{}, nil
}

func (d *DBus) Acquire(_ context.Context) error { return nil }

func (d *DBus) Release(_ context.Context) error { return nil }

func (d *DBus) Ping(_ context.Context) error { return nil }

func (d *DBus) Close() error { return nil }
