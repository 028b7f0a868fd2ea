// Package sched provides the timer source used by playback components.
//
// Components never call time.AfterFunc directly: they receive a Scheduler so
// the same code runs against the wall clock in production and against a
// manually advanced clock in tests.
package sched

import (
	"time"

	"github.com/benbjohnson/clock"
)

// Timer is a scheduled callback that can be cancelled.
type Timer interface {
	// Stop prevents the callback from firing. It returns false if the
	// callback already fired or the timer was already stopped.
	Stop() bool
}

// Scheduler is a clock that can run callbacks after a delay.
type Scheduler interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
}

// clockScheduler adapts a clock.Clock to Scheduler.
type clockScheduler struct {
	clock clock.Clock
}

// New returns a Scheduler backed by the wall clock.
func New() Scheduler {
	return FromClock(clock.New())
}

// FromClock returns a Scheduler backed by the given clock.
func FromClock(c clock.Clock) Scheduler {
	return &clockScheduler{clock: c}
}

func (s *clockScheduler) Now() time.Time {
	return s.clock.Now()
}

func (s *clockScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	return s.clock.AfterFunc(d, fn)
}

// Stop stops t if it is non-nil and returns nil, so callers can write
// `x.timer = sched.Stop(x.timer)`.
func Stop(t Timer) Timer {
	if t != nil {
		t.Stop()
	}
	return nil
}
