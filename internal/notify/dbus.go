//go:build linux

package notify

import (
	"strings"

	"github.com/godbus/dbus/v5"
)

const (
	busName    = "org.freedesktop.Notifications"
	busPath    = "/org/freedesktop/Notifications"
	notifyCall = busName + ".Notify"
	closeCall  = busName + ".CloseNotification"
)

type busNotifier struct {
	app string
	obj dbus.BusObject
}

// New connects to the session bus and sends notifications as app. Without
// a session bus the returned Notifier drops everything.
func New(app string) (Notifier, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return discard{}, nil //nolint:nilerr // notifications are optional
	}
	return &busNotifier{app: app, obj: conn.Object(busName, busPath)}, nil
}

// Notify calls Notify(app_name, replaces_id, app_icon, summary, body,
// actions, hints, expire_timeout).
func (b *busNotifier) Notify(n Notification) (uint32, error) {
	var id uint32
	err := b.obj.Call(notifyCall, 0,
		b.app, n.Replaces, n.Icon, n.Summary, n.Body,
		[]string{}, hints(b.app, n), expireMillis(n.Expire),
	).Store(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (b *busNotifier) Close(id uint32) error {
	return b.obj.Call(closeCall, 0, id).Err
}

func hints(app string, n Notification) map[string]dbus.Variant {
	h := map[string]dbus.Variant{
		"urgency":       dbus.MakeVariant(byte(n.Urgency)),
		"desktop-entry": dbus.MakeVariant(strings.ToLower(app)),
	}
	if n.Transient {
		h["transient"] = dbus.MakeVariant(true)
	}
	return h
}
