// Package keepalive stops the platform from suspending audio while a track
// plays: it holds a wake lock and periodically pings background
// collaborators and the audio output.
package keepalive

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/llehouerou/aura/internal/sched"
)

// Defaults.
const (
	DefaultInterval = 10 * time.Second
	callTimeout     = 2 * time.Second
)

// Pinger receives the periodic keep-alive signal.
type Pinger interface {
	Ping(ctx context.Context) error
}

// WakeLock prevents the system from idling while held.
type WakeLock interface {
	Acquire(ctx context.Context) error
	Release(ctx context.Context) error
}

// Output is the audio pipeline checked on every tick.
type Output interface {
	ResumeIfSuspended() error
}

// Config configures a Coordinator.
type Config struct {
	Scheduler sched.Scheduler
	Interval  time.Duration
	Output    Output
	Pingers   []Pinger
	WakeLock  WakeLock
	Logger    logrus.FieldLogger
}

// Coordinator runs the keep-alive loop between Start and Stop. All
// collaborator failures are logged and swallowed.
type Coordinator struct {
	mu       sync.Mutex
	sched    sched.Scheduler
	interval time.Duration
	output   Output
	pingers  []Pinger
	wakeLock WakeLock
	log      logrus.FieldLogger

	running bool
	gen     uint64
	timer   sched.Timer
	ticks   int
}

// New creates a stopped coordinator.
func New(cfg Config) *Coordinator {
	c := &Coordinator{
		sched:    cfg.Scheduler,
		interval: cfg.Interval,
		output:   cfg.Output,
		pingers:  cfg.Pingers,
		wakeLock: cfg.WakeLock,
		log:      cfg.Logger,
	}
	if c.sched == nil {
		c.sched = sched.New()
	}
	if c.interval <= 0 {
		c.interval = DefaultInterval
	}
	if c.log == nil {
		c.log = logrus.StandardLogger()
	}
	c.log = c.log.WithField("component", "keepalive")
	return c
}

// Start acquires the wake lock and begins pinging. Calling Start while
// running is a no-op.
func (c *Coordinator) Start() {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return
	}
	c.running = true
	c.gen++
	gen := c.gen
	c.timer = c.sched.AfterFunc(c.interval, func() { c.tick(gen) })
	lock := c.wakeLock
	c.mu.Unlock()

	if lock != nil {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()
		if err := lock.Acquire(ctx); err != nil {
			c.log.WithError(err).Debug("acquire wake lock")
		}
	}
}

// Stop cancels the ping loop and releases the wake lock. Calling Stop while
// stopped is a no-op.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	c.gen++
	c.timer = sched.Stop(c.timer)
	lock := c.wakeLock
	c.mu.Unlock()

	if lock != nil {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()
		if err := lock.Release(ctx); err != nil {
			c.log.WithError(err).Debug("release wake lock")
		}
	}
}

// Running reports whether the loop is active.
func (c *Coordinator) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Ticks returns how many ping rounds have run.
func (c *Coordinator) Ticks() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ticks
}

func (c *Coordinator) tick(gen uint64) {
	c.mu.Lock()
	if !c.running || gen != c.gen {
		c.mu.Unlock()
		return
	}
	c.ticks++
	pingers := c.pingers
	output := c.output
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	for _, p := range pingers {
		if err := p.Ping(ctx); err != nil {
			c.log.WithError(err).Debug("keep-alive ping")
		}
	}
	cancel()
	if output != nil {
		if err := output.ResumeIfSuspended(); err != nil {
			c.log.WithError(err).Debug("resume audio output")
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running && gen == c.gen {
		c.timer = c.sched.AfterFunc(c.interval, func() { c.tick(gen) })
	}
}
