// Package fade drives eased volume ramps on an audio output.
package fade

import (
	"sync"
	"time"

	"github.com/llehouerou/aura/internal/sched"
)

// DefaultTick is the sampling interval, roughly one display frame.
const DefaultTick = 16 * time.Millisecond

// Direction is the direction of a fade.
type Direction int

const (
	None Direction = iota
	In
	Out
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case None:
		return "None"
	case In:
		return "In"
	case Out:
		return "Out"
	default:
		return "Unknown"
	}
}

// Output is the volume control a fade writes to.
type Output interface {
	Volume() float64
	SetVolume(level float64)
}

// Controller runs at most one fade at a time.
//
//	┌──────┐  FadeIn/FadeOut  ┌────────┐
//	│ Idle │ ────────────────▶│ Fading │
//	└──────┘                  └────────┘
//	    ▲   progress = 1 / Cancel   │
//	    └───────────────────────────┘
//
// Starting a fade while another one runs is a no-op; callers that want to
// supersede a fade call Cancel first.
type Controller struct {
	mu     sync.Mutex
	out    Output
	sched  sched.Scheduler
	tick   time.Duration
	target float64
	active *run
}

// run is the state of one fade in progress.
type run struct {
	dir       Direction
	startedAt time.Time
	from      float64
	to        float64
	duration  time.Duration
	timer     sched.Timer
	onDone    func()
}

// New creates a fade controller writing to out. A non-positive tick uses
// DefaultTick. Fade-ins ramp up to full volume until SetTarget is called.
func New(out Output, s sched.Scheduler, tick time.Duration) *Controller {
	if tick <= 0 {
		tick = DefaultTick
	}
	return &Controller{
		out:    out,
		sched:  s,
		tick:   tick,
		target: 1,
	}
}

// SetTarget sets the volume fade-ins ramp up to.
func (c *Controller) SetTarget(level float64) {
	c.mu.Lock()
	c.target = clamp(level)
	c.mu.Unlock()
}

// Target returns the volume fade-ins ramp up to.
func (c *Controller) Target() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

// FadeIn silences the output and ramps it up to the target volume over d.
// onDone, if non-nil, runs once the ramp completes. Returns false if a fade
// is already running.
func (c *Controller) FadeIn(d time.Duration, onDone func()) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active != nil {
		return false
	}
	c.out.SetVolume(0)
	c.startLocked(In, 0, c.target, d, onDone)
	return true
}

// FadeOut ramps the output from its current volume down to silence over d.
// onDone, if non-nil, runs once the ramp completes. Returns false if a fade
// is already running.
func (c *Controller) FadeOut(d time.Duration, onDone func()) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active != nil {
		return false
	}
	c.startLocked(Out, clamp(c.out.Volume()), 0, d, onDone)
	return true
}

// Cancel stops the running fade, if any, without calling its completion
// callback. The output keeps whatever volume the last tick applied.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return
	}
	c.active.timer = sched.Stop(c.active.timer)
	c.active = nil
}

// Active reports whether a fade is running.
func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active != nil
}

// Direction returns the direction of the running fade, or None.
func (c *Controller) Direction() Direction {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return None
	}
	return c.active.dir
}

func (c *Controller) startLocked(dir Direction, from, to float64, d time.Duration, onDone func()) {
	r := &run{
		dir:       dir,
		startedAt: c.sched.Now(),
		from:      from,
		to:        to,
		duration:  d,
		onDone:    onDone,
	}
	c.active = r
	r.timer = c.sched.AfterFunc(c.tick, func() { c.step(r) })
}

func (c *Controller) step(r *run) {
	c.mu.Lock()
	if c.active != r {
		// Cancelled or superseded between scheduling and firing.
		c.mu.Unlock()
		return
	}

	p := progress(c.sched.Now().Sub(r.startedAt), r.duration)
	c.out.SetVolume(clamp(r.from + (r.to-r.from)*EaseInOutCubic(p)))

	if p < 1 {
		r.timer = c.sched.AfterFunc(c.tick, func() { c.step(r) })
		c.mu.Unlock()
		return
	}

	c.active = nil
	done := r.onDone
	c.mu.Unlock()

	if done != nil {
		done()
	}
}

func progress(elapsed, duration time.Duration) float64 {
	if duration <= 0 {
		return 1
	}
	p := float64(elapsed) / float64(duration)
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	default:
		return p
	}
}

// EaseInOutCubic maps linear progress in [0,1] onto a symmetric cubic curve.
func EaseInOutCubic(p float64) float64 {
	if p < 0.5 {
		return 4 * p * p * p
	}
	q := -2*p + 2
	return 1 - q*q*q/2
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
