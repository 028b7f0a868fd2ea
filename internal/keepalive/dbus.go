//go:build linux

package keepalive

import (
	"context"
	"sync"

	"github.com/godbus/dbus/v5"
)

const (
	dbusScreenSaverDest      = "org.freedesktop.ScreenSaver"
	dbusScreenSaverPath      = "/org/freedesktop/ScreenSaver"
	dbusScreenSaverInterface = "org.freedesktop.ScreenSaver"
)

// DBus inhibits idle via the freedesktop ScreenSaver service and pings it
// with simulated user activity.
type DBus struct {
	conn   *dbus.Conn
	obj    dbus.BusObject
	app    string
	reason string

	mu     sync.Mutex
	cookie uint32
	held   bool
}

var (
	_ WakeLock = (*DBus)(nil)
	_ Pinger   = (*DBus)(nil)
)

// NewDBus connects to the session bus. It fails when no session bus is
// available; callers fall back to running without a wake lock.
func NewDBus(app, reason string) (*DBus, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, err
	}
	return &DBus{
		conn:   conn,
		obj:    conn.Object(dbusScreenSaverDest, dbusScreenSaverPath),
		app:    app,
		reason: reason,
	}, nil
}

// Acquire takes an idle inhibition. A second Acquire keeps the first cookie.
func (d *DBus) Acquire(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.held {
		return nil
	}

	// Inhibit(application_name, reason_for_inhibit) -> cookie
	call := d.obj.CallWithContext(ctx, dbusScreenSaverInterface+".Inhibit", 0, d.app, d.reason)
	if call.Err != nil {
		return call.Err
	}
	var cookie uint32
	if err := call.Store(&cookie); err != nil {
		return err
	}
	d.cookie = cookie
	d.held = true
	return nil
}

// Release drops the inhibition taken by Acquire.
func (d *DBus) Release(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.held {
		return nil
	}
	d.held = false
	call := d.obj.CallWithContext(ctx, dbusScreenSaverInterface+".UnInhibit", 0, d.cookie)
	return call.Err
}

// Ping resets the session idle timer.
func (d *DBus) Ping(ctx context.Context) error {
	return d.obj.CallWithContext(ctx, dbusScreenSaverInterface+".SimulateUserActivity", 0).Err
}

// Close releases any held inhibition. The shared session connection stays
// open for other users.
func (d *DBus) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	defer cancel()
	return d.Release(ctx)
}
