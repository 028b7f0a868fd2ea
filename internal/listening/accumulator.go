// Package listening keeps track of how long the current track has actually
// been heard, across pause/resume and seek.
package listening

import "time"

// Clock provides the current time. Both clock.Clock and sched.Scheduler
// satisfy it.
type Clock interface {
	Now() time.Time
}

// Accumulator sums listening sessions for one track.
//
// It is not safe for concurrent use; the playback engine owns it and calls
// it under its own lock.
type Accumulator struct {
	clock     Clock
	total     float64 // seconds folded in by Stop
	startedAt time.Time
	running   bool
	eligible  bool
}

// New creates an accumulator reading time from c.
func New(c Clock) *Accumulator {
	return &Accumulator{clock: c}
}

// Start begins a listening session. Starting while already running is a
// no-op, so the in-progress session is not lost.
func (a *Accumulator) Start() {
	if a.running {
		return
	}
	a.startedAt = a.clock.Now()
	a.running = true
}

// Stop ends the current session, folds it into the total and returns its
// length in seconds. Calling Stop when no session runs returns 0.
func (a *Accumulator) Stop() float64 {
	if !a.running {
		return 0
	}
	elapsed := a.sessionSeconds()
	a.total += elapsed
	a.running = false
	a.startedAt = time.Time{}
	return elapsed
}

// Reset clears the total, the running session and eligibility.
func (a *Accumulator) Reset() {
	a.total = 0
	a.running = false
	a.startedAt = time.Time{}
	a.eligible = false
}

// Running reports whether a session is in progress.
func (a *Accumulator) Running() bool {
	return a.running
}

// TotalSeconds returns the seconds folded in by Stop, excluding any session
// still running.
func (a *Accumulator) TotalSeconds() float64 {
	return a.total
}

// ElapsedSeconds returns the total including the running session.
func (a *Accumulator) ElapsedSeconds() float64 {
	if !a.running {
		return a.total
	}
	return a.total + a.sessionSeconds()
}

// IsEligible reports whether listening time has reached threshold. Once it
// has, it stays true until Reset, regardless of later threshold values or
// pause/resume cycles.
func (a *Accumulator) IsEligible(threshold time.Duration) bool {
	if a.eligible {
		return true
	}
	if a.ElapsedSeconds() >= threshold.Seconds() {
		a.eligible = true
	}
	return a.eligible
}

func (a *Accumulator) sessionSeconds() float64 {
	d := a.clock.Now().Sub(a.startedAt)
	if d < 0 {
		return 0
	}
	return d.Seconds()
}
