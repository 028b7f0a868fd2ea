package playback

import "time"

const eventBufferSize = 16

// Subscription delivers engine events. Sends never block the engine: a
// subscriber more than eventBufferSize events behind misses the newer ones.
// PositionChanged holds only the latest position.
type Subscription struct {
	StateChanged    <-chan StateChange
	TrackChanged    <-chan TrackChange
	PositionChanged <-chan PositionChange
	QueueChanged    <-chan QueueChange
	ModeChanged     <-chan ModeChange
	Error           <-chan ErrorEvent
	Done            <-chan struct{}

	state    chan StateChange
	track    chan TrackChange
	position chan PositionChange
	queue    chan QueueChange
	mode     chan ModeChange
	errs     chan ErrorEvent
	done     chan struct{}
}

func newSubscription() *Subscription {
	s := &Subscription{
		state:    make(chan StateChange, eventBufferSize),
		track:    make(chan TrackChange, eventBufferSize),
		position: make(chan PositionChange, 1),
		queue:    make(chan QueueChange, eventBufferSize),
		mode:     make(chan ModeChange, eventBufferSize),
		errs:     make(chan ErrorEvent, eventBufferSize),
		done:     make(chan struct{}),
	}
	s.StateChanged, s.TrackChanged, s.PositionChanged = s.state, s.track, s.position
	s.QueueChanged, s.ModeChanged, s.Error, s.Done = s.queue, s.mode, s.errs, s.done
	return s
}

func (s *Subscription) close() {
	close(s.done)
}

func (s *Subscription) sendState(e StateChange) { offer(s.state, e) }
func (s *Subscription) sendTrack(e TrackChange) { offer(s.track, e) }
func (s *Subscription) sendQueue(e QueueChange) { offer(s.queue, e) }
func (s *Subscription) sendMode(e ModeChange)   { offer(s.mode, e) }
func (s *Subscription) sendError(e ErrorEvent)  { offer(s.errs, e) }

func (s *Subscription) sendPosition(pos time.Duration) {
	replace(s.position, PositionChange{Position: pos})
}

// offer sends v unless ch is full.
func offer[T any](ch chan T, v T) bool {
	select {
	case ch <- v:
		return true
	default:
		return false
	}
}

// replace sends v, discarding a value the reader has not taken yet. The
// engine is the only sender, so the loop ends once the stale value is gone.
func replace[T any](ch chan T, v T) {
	for !offer(ch, v) {
		select {
		case <-ch:
		default:
		}
	}
}
