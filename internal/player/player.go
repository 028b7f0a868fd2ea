package player

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/sirupsen/logrus"
)

// DefaultTimeUpdateInterval is how often EventTimeUpdate fires while playing.
const DefaultTimeUpdateInterval = 250 * time.Millisecond

var (
	speakerMu          sync.Mutex
	speakerInitialized bool
	speakerSampleRate  beep.SampleRate
)

// initSpeaker opens the output device once, at the first track's rate.
// Later tracks are resampled to it.
func initSpeaker(rate beep.SampleRate) (beep.SampleRate, error) {
	speakerMu.Lock()
	defer speakerMu.Unlock()
	if speakerInitialized {
		return speakerSampleRate, nil
	}
	if err := speaker.Init(rate, rate.N(time.Second/10)); err != nil {
		return 0, err
	}
	speakerInitialized = true
	speakerSampleRate = rate
	return rate, nil
}

func speakerReady() bool {
	speakerMu.Lock()
	defer speakerMu.Unlock()
	return speakerInitialized
}

// Config holds Player dependencies. Zero values get defaults.
type Config struct {
	Client             *http.Client
	Clock              clock.Clock
	Logger             logrus.FieldLogger
	UserAgent          string
	MaxBytes           int64
	TimeUpdateInterval time.Duration
}

// Player downloads a track over HTTP, decodes it and plays it through the
// beep speaker with a volume stage the fade controller drives.
type Player struct {
	mu        sync.Mutex
	client    *http.Client
	clock     clock.Clock
	log       logrus.FieldLogger
	userAgent string
	maxBytes  int64
	interval  time.Duration

	state    State
	src      string
	gen      uint64
	cancel   context.CancelFunc
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	volume   *effects.Volume
	level    float64
	attached bool
	stopTick chan struct{}
	onEvent  func(Event)
}

// New creates a stopped player.
func New(cfg Config) *Player {
	p := &Player{
		client:    cfg.Client,
		clock:     cfg.Clock,
		log:       cfg.Logger,
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBytes,
		interval:  cfg.TimeUpdateInterval,
		state:     Stopped,
		level:     1,
	}
	if p.client == nil {
		p.client = NewHTTPClient()
	}
	if p.clock == nil {
		p.clock = clock.New()
	}
	if p.log == nil {
		p.log = logrus.StandardLogger()
	}
	if p.maxBytes <= 0 {
		p.maxBytes = DefaultMaxBytes
	}
	if p.interval <= 0 {
		p.interval = DefaultTimeUpdateInterval
	}
	return p
}

// Load stops the current source and fetches src in the background.
func (p *Player) Load(src string, ready func(error)) {
	p.mu.Lock()
	p.stopLocked()
	p.gen++
	gen := p.gen
	p.src = src

	if src == "" {
		p.mu.Unlock()
		go p.emit(Event{Type: EventError, Code: CodeEmptySource})
		go ready(&Error{Code: CodeEmptySource, Err: ErrEmptySource})
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.state = Loading
	p.mu.Unlock()

	go p.load(ctx, gen, src, ready)
}

func (p *Player) load(ctx context.Context, gen uint64, src string, ready func(error)) {
	log := p.log.WithField("src", src)

	streamer, format, err := p.open(ctx, src)

	p.mu.Lock()
	if gen != p.gen {
		p.mu.Unlock()
		if streamer != nil {
			_ = streamer.Close()
		}
		log.Debug("load superseded")
		return
	}
	p.cancel = nil
	if err != nil {
		p.state = Stopped
		p.mu.Unlock()
		log.WithError(err).Warn("load failed")
		ready(err)
		return
	}

	var out beep.Streamer = streamer
	if rate, _ := initSpeaker(format.SampleRate); format.SampleRate != rate {
		out = beep.Resample(4, format.SampleRate, rate, streamer)
	}
	p.streamer = streamer
	p.format = format
	p.ctrl = &beep.Ctrl{Streamer: out, Paused: true}
	p.volume = &effects.Volume{
		Streamer: p.ctrl,
		Base:     2,
		Volume:   levelToVolume(p.level),
		Silent:   p.level <= 0,
	}
	p.state = Paused
	p.mu.Unlock()

	log.WithField("duration", format.SampleRate.D(streamer.Len())).Debug("source ready")
	ready(nil)
}

func (p *Player) open(ctx context.Context, src string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := p.fetch(ctx, src)
	if err != nil {
		return nil, beep.Format{}, err
	}
	streamer, format, err := decode(src, f)
	if err != nil {
		return nil, beep.Format{}, err
	}
	if _, err := initSpeaker(format.SampleRate); err != nil {
		_ = streamer.Close()
		return nil, beep.Format{}, &Error{Code: CodeDecode, Err: err}
	}
	return streamer, format, nil
}

// Play starts or resumes output.
func (p *Player) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.volume == nil {
		return ErrNotLoaded
	}

	speaker.Lock()
	p.ctrl.Paused = false
	speaker.Unlock()

	if !p.attached {
		gen := p.gen
		speaker.Play(beep.Seq(p.volume, beep.Callback(func() {
			// Runs on the speaker goroutine with the speaker lock held.
			go p.finished(gen)
		})))
		p.attached = true
	}
	p.state = Playing
	p.startTickerLocked()
	return nil
}

// Pause halts output, keeping the position.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != Playing || p.ctrl == nil {
		return
	}
	speaker.Lock()
	p.ctrl.Paused = true
	speaker.Unlock()
	p.state = Paused
	p.stopTickerLocked()
}

// Stop abandons any load in flight and releases the current source.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
	p.gen++
	p.src = ""
}

func (p *Player) stopLocked() {
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.stopTickerLocked()
	if p.attached {
		speaker.Clear()
		p.attached = false
	}
	if p.streamer != nil {
		_ = p.streamer.Close()
		p.streamer = nil
	}
	p.ctrl = nil
	p.volume = nil
	p.state = Stopped
}

// Seek moves to an absolute position, clamped to the track bounds.
func (p *Player) Seek(pos time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.streamer == nil {
		return ErrNotLoaded
	}
	n := p.format.SampleRate.N(pos)
	n = min(max(n, 0), p.streamer.Len())

	speaker.Lock()
	err := p.streamer.Seek(n)
	speaker.Unlock()
	if err != nil {
		return &Error{Code: CodeDecode, Err: err}
	}
	if p.state == Ended {
		p.state = Paused
	}
	return nil
}

func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Player) Source() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.src
}

func (p *Player) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.positionLocked()
}

func (p *Player) positionLocked() time.Duration {
	if p.streamer == nil {
		return 0
	}
	speaker.Lock()
	n := p.streamer.Position()
	speaker.Unlock()
	return p.format.SampleRate.D(n)
}

func (p *Player) Duration() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.streamer == nil {
		return 0
	}
	return p.format.SampleRate.D(p.streamer.Len())
}

// ResumeIfSuspended resumes the output device while playing. It is a no-op
// otherwise.
func (p *Player) ResumeIfSuspended() error {
	p.mu.Lock()
	playing := p.state == Playing
	p.mu.Unlock()
	if !playing || !speakerReady() {
		return nil
	}
	return speaker.Resume()
}

func (p *Player) OnEvent(fn func(Event)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onEvent = fn
}

// emit calls the handler without holding p.mu.
func (p *Player) emit(ev Event) {
	p.mu.Lock()
	fn := p.onEvent
	p.mu.Unlock()
	if fn != nil {
		fn(ev)
	}
}

func (p *Player) finished(gen uint64) {
	p.mu.Lock()
	if gen != p.gen || !p.attached {
		p.mu.Unlock()
		return
	}
	p.attached = false
	p.state = Ended
	p.stopTickerLocked()
	ev := Event{Type: EventEnded, Src: p.src, Position: p.positionLocked()}
	if p.streamer != nil {
		ev.Duration = p.format.SampleRate.D(p.streamer.Len())
	}
	p.mu.Unlock()

	p.emit(ev)
}

func (p *Player) startTickerLocked() {
	if p.stopTick != nil {
		return
	}
	stop := make(chan struct{})
	p.stopTick = stop
	go p.tickLoop(p.gen, stop)
}

func (p *Player) stopTickerLocked() {
	if p.stopTick != nil {
		close(p.stopTick)
		p.stopTick = nil
	}
}

func (p *Player) tickLoop(gen uint64, stop <-chan struct{}) {
	t := p.clock.Ticker(p.interval)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			if ev, ok := p.progress(gen); ok {
				p.emit(ev)
			}
		}
	}
}

// progress builds the periodic event, or an error event once the decoder
// failed mid-stream.
func (p *Player) progress(gen uint64) (Event, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen || p.state != Playing || p.streamer == nil {
		return Event{}, false
	}
	if err := p.streamer.Err(); err != nil {
		p.stopTickerLocked()
		return Event{Type: EventError, Src: p.src, Code: CodeDecode, Err: err}, true
	}
	return Event{
		Type:     EventTimeUpdate,
		Src:      p.src,
		Position: p.positionLocked(),
		Duration: p.format.SampleRate.D(p.streamer.Len()),
	}, true
}
