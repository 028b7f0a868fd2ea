// Package notify shows "now playing" desktop notifications.
package notify

import "time"

// Urgency is the freedesktop notification urgency level.
type Urgency byte

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

// Notification is one desktop notification. A non-zero Replaces updates
// that notification in place instead of stacking a new one.
type Notification struct {
	Summary   string
	Body      string // basic markup allowed, escape user text
	Icon      string // icon name or local path
	Expire    time.Duration
	Replaces  uint32
	Urgency   Urgency
	Transient bool // keep out of the notification history
}

// Notifier sends notifications and returns the server-assigned id.
type Notifier interface {
	Notify(n Notification) (uint32, error)
	Close(id uint32) error
}

// discard is the Notifier used when no notification server is reachable.
type discard struct{}

func (discard) Notify(Notification) (uint32, error) { return 0, nil }
func (discard) Close(uint32) error                  { return nil }

// expireMillis converts Expire to the wire value; -1 asks for the server
// default.
func expireMillis(d time.Duration) int32 {
	if d <= 0 {
		return -1
	}
	return int32(d.Milliseconds())
}
