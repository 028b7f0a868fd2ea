// Package playback owns the audio resource for one app session: it loads
// tracks, walks the playlist, drives volume fades and decides when a track
// has been listened to long enough to count.
package playback

import (
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/llehouerou/aura/internal/fade"
	"github.com/llehouerou/aura/internal/listening"
	"github.com/llehouerou/aura/internal/player"
	"github.com/llehouerou/aura/internal/playlist"
	"github.com/llehouerou/aura/internal/retry"
	"github.com/llehouerou/aura/internal/sched"
)

// Defaults.
const (
	DefaultFadeIn           = 15 * time.Second
	DefaultFadeOut          = 8 * time.Second
	DefaultFadeOutWindow    = 8 * time.Second
	DefaultResumeFadeWindow = 5 * time.Second
	DefaultRestartThreshold = 3 * time.Second
	DefaultEligibility      = 90 * time.Second
)

// Sentinel errors.
var (
	ErrInvalidTrack = errors.New("track has no playable link")
	ErrNoTrack      = errors.New("no track at index")
	ErrClosed       = errors.New("engine closed")
)

// Config wires an Engine. Player and Scheduler are required; other
// collaborators default to no-ops and durations to the package defaults.
// A zero Retry policy means retry.DefaultPolicy.
type Config struct {
	Player    player.Interface
	Scheduler sched.Scheduler
	Stats     StatsSink
	KeepAlive KeepAlive
	Session   MediaSession
	Store     Persister
	Retry     retry.Policy
	Logger    logrus.FieldLogger

	FadeIn           time.Duration
	FadeOut          time.Duration
	FadeTick         time.Duration
	FadeOutWindow    time.Duration
	ResumeFadeWindow time.Duration
	RestartThreshold time.Duration
	// Eligibility is the listening time after which a track counts.
	Eligibility time.Duration
}

func (c *Config) applyDefaults() {
	if c.Stats == nil {
		c.Stats = nopStats{}
	}
	if c.KeepAlive == nil {
		c.KeepAlive = nopKeepAlive{}
	}
	if c.Session == nil {
		c.Session = nopSession{}
	}
	if c.Store == nil {
		c.Store = nopPersister{}
	}
	if c.Retry == (retry.Policy{}) {
		c.Retry = retry.DefaultPolicy()
	}
	if c.Logger == nil {
		c.Logger = logrus.StandardLogger()
	}
	setDefault(&c.FadeIn, DefaultFadeIn)
	setDefault(&c.FadeOut, DefaultFadeOut)
	setDefault(&c.FadeOutWindow, DefaultFadeOutWindow)
	setDefault(&c.ResumeFadeWindow, DefaultResumeFadeWindow)
	setDefault(&c.RestartThreshold, DefaultRestartThreshold)
	setDefault(&c.Eligibility, DefaultEligibility)
}

func setDefault(d *time.Duration, v time.Duration) {
	if *d <= 0 {
		*d = v
	}
}

// Engine is the playback state machine.
//
//	        Play            ready
//	Empty ───────▶ Loading ───────▶ Playing ◀──────┐
//	                 │  ▲             │  ▲         │ Resume
//	     load failed │  │ retry  Pause│  │Resume   │
//	   (no retries)  ▼  │             ▼  │         │
//	              Paused(err)       Paused ────────┘
//
// Ended and Error are transient: Ended advances or restarts, Error waits
// for a retry or a skip. Every load bumps a generation counter; callbacks
// from older generations are dropped.
type Engine struct {
	mu sync.Mutex

	cfg     Config
	player  player.Interface
	sched   sched.Scheduler
	fade    *fade.Controller
	acc     *listening.Accumulator
	retries *retry.Tracker
	log     logrus.FieldLogger

	queue      *playlist.Queue
	current    *playlist.Track
	index      int // queue index current was loaded from, or -1
	state      State
	repeatMode RepeatMode
	lastErr    error

	gen    uint64
	src    string
	skip   bool // a failed retry skips ahead instead of idling
	resume resumePoint
	timer  sched.Timer // pending retry or skip

	closed bool

	subs       []*Subscription
	subsMu     sync.RWMutex
	subsClosed bool
}

// New creates an engine and registers it for the player's events.
func New(cfg Config) *Engine {
	cfg.applyDefaults()
	e := &Engine{
		cfg:     cfg,
		player:  cfg.Player,
		sched:   cfg.Scheduler,
		fade:    fade.New(cfg.Player, cfg.Scheduler, cfg.FadeTick),
		acc:     listening.New(cfg.Scheduler),
		retries: retry.NewTracker(cfg.Retry),
		log:     cfg.Logger.WithField("component", "playback"),
		queue:   playlist.NewQueue(),
		index:   -1,
	}
	cfg.Player.OnEvent(e.HandleEvent)
	return e
}

// State returns the current playback state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// CurrentTrack returns a copy of the active track, or nil if none.
func (e *Engine) CurrentTrack() *playlist.Track {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil {
		return nil
	}
	t := *e.current
	return &t
}

// CurrentIndex returns the playlist cursor (-1 if the playlist is empty).
func (e *Engine) CurrentIndex() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.queue.CurrentIndex()
}

// Playlist returns a copy of the playlist.
func (e *Engine) Playlist() []playlist.Track {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.queue.Tracks()
}

// RepeatMode returns the current repeat mode.
func (e *Engine) RepeatMode() RepeatMode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.repeatMode
}

// Position returns the playback position of the loaded track.
func (e *Engine) Position() time.Duration {
	return e.player.Position()
}

// Duration returns the duration of the loaded track.
func (e *Engine) Duration() time.Duration {
	return e.player.Duration()
}

// Volume returns the level fade-ins ramp up to.
func (e *Engine) Volume() float64 {
	return e.fade.Target()
}

// ListenedSeconds returns the listening time accumulated for the current
// track.
func (e *Engine) ListenedSeconds() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.acc.ElapsedSeconds()
}

// Eligible reports whether the current track has been listened to long
// enough to count.
func (e *Engine) Eligible() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.acc.IsEligible(e.cfg.Eligibility)
}

// LastError returns the error that left the engine idle, if any.
func (e *Engine) LastError() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

// Subscribe creates a new event subscription.
func (e *Engine) Subscribe() *Subscription {
	e.subsMu.Lock()
	defer e.subsMu.Unlock()
	sub := newSubscription()
	if e.subsClosed {
		sub.close()
		return sub
	}
	e.subs = append(e.subs, sub)
	return sub
}

// Close stops playback, cancels every pending timer, flushes the last
// snapshot and closes subscriptions. It is safe to call more than once.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.saveLocked()
	e.gen++
	e.timer = sched.Stop(e.timer)
	e.fade.Cancel()
	e.acc.Stop()
	e.cfg.KeepAlive.Stop()
	e.player.Stop()
	e.cfg.Session.SetPlaybackState(StatusNone)
	e.closed = true
	e.mu.Unlock()

	err := e.cfg.Store.FlushPlayback()

	e.subsMu.Lock()
	for _, sub := range e.subs {
		sub.close()
	}
	e.subs = nil
	e.subsClosed = true
	e.subsMu.Unlock()

	return err
}

// resumePoint is a position to seek to once the track with key is ready.
type resumePoint struct {
	key string
	at  time.Duration
}

func (e *Engine) setStateLocked(s State) {
	if e.state == s {
		return
	}
	prev := e.state
	e.state = s
	e.broadcast(func(sub *Subscription) {
		sub.sendState(StateChange{Previous: prev, Current: s})
	})
}

func (e *Engine) broadcast(fn func(*Subscription)) {
	e.subsMu.RLock()
	defer e.subsMu.RUnlock()
	for _, sub := range e.subs {
		fn(sub)
	}
}
