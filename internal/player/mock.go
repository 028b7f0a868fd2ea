// internal/player/mock.go
package player

import (
	"sync"
	"time"
)

type pendingLoad struct {
	src   string
	ready func(error)
	seq   int
}

// Mock is a test double for Player. Loads stay pending until the test
// completes them, so load ordering and late callbacks can be driven
// explicitly.
type Mock struct {
	mu           sync.Mutex
	state        State
	src          string
	position     time.Duration
	duration     time.Duration
	loadDuration time.Duration
	volume       float64
	volumes      []float64
	pending      []pendingLoad
	loadSeq      int
	loads        []string
	playCalls    int
	pauseCalls   int
	stopCalls    int
	seekCalls    []time.Duration
	playErr      error
	onEvent      func(Event)
}

// NewMock creates a new mock player for testing.
func NewMock() *Mock {
	return &Mock{
		state:        Stopped,
		volume:       1,
		loadDuration: 3 * time.Minute,
	}
}

func (m *Mock) Load(src string, ready func(error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadSeq++
	m.src = src
	m.state = Loading
	m.position = 0
	m.duration = 0
	m.loads = append(m.loads, src)
	m.pending = append(m.pending, pendingLoad{src: src, ready: ready, seq: m.loadSeq})
}

func (m *Mock) Play() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playCalls++
	if m.playErr != nil {
		return m.playErr
	}
	if !m.state.Loaded() {
		return ErrNotLoaded
	}
	m.state = Playing
	return nil
}

func (m *Mock) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pauseCalls++
	if m.state == Playing {
		m.state = Paused
	}
}

func (m *Mock) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopCalls++
	m.state = Stopped
	m.src = ""
	m.position = 0
	m.duration = 0
}

func (m *Mock) Seek(pos time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.state.Loaded() {
		return ErrNotLoaded
	}
	m.seekCalls = append(m.seekCalls, pos)
	m.position = pos
	if m.state == Ended {
		m.state = Paused
	}
	return nil
}

func (m *Mock) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Mock) Source() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.src
}

func (m *Mock) Position() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

func (m *Mock) Duration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duration
}

func (m *Mock) Volume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volume
}

func (m *Mock) SetVolume(level float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = clampLevel(level)
	m.volumes = append(m.volumes, m.volume)
}

func (m *Mock) ResumeIfSuspended() error {
	return nil
}

func (m *Mock) OnEvent(fn func(Event)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onEvent = fn
}

// Test helpers

// CompleteLoad resolves the most recent pending load.
func (m *Mock) CompleteLoad(err error) bool {
	m.mu.Lock()
	n := len(m.pending)
	m.mu.Unlock()
	if n == 0 {
		return false
	}
	return m.CompleteLoadAt(n-1, err)
}

// CompleteLoadAt resolves the i-th still pending load, oldest first. Only
// the latest load changes the mock's state, but ready is always invoked so
// tests can deliver late callbacks from superseded loads.
func (m *Mock) CompleteLoadAt(i int, err error) bool {
	m.mu.Lock()
	if i < 0 || i >= len(m.pending) {
		m.mu.Unlock()
		return false
	}
	pl := m.pending[i]
	m.pending = append(m.pending[:i], m.pending[i+1:]...)
	if pl.seq == m.loadSeq && m.state == Loading {
		if err != nil {
			m.state = Stopped
		} else {
			m.state = Paused
			m.duration = m.loadDuration
		}
	}
	m.mu.Unlock()

	pl.ready(err)
	return true
}

// PendingLoads returns the sources of loads not yet completed.
func (m *Mock) PendingLoads() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.pending))
	for i, pl := range m.pending {
		out[i] = pl.src
	}
	return out
}

// Emit delivers ev to the registered event handler.
func (m *Mock) Emit(ev Event) {
	m.mu.Lock()
	fn := m.onEvent
	if ev.Type == EventEnded && m.state == Playing {
		m.state = Ended
	}
	m.mu.Unlock()
	if fn != nil {
		fn(ev)
	}
}

// SetPlayError makes Play fail with err until cleared.
func (m *Mock) SetPlayError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playErr = err
}

// SetLoadDuration sets the duration reported after a successful load.
func (m *Mock) SetLoadDuration(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadDuration = d
}

func (m *Mock) SetDuration(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.duration = d
}

func (m *Mock) SetPosition(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.position = d
}

func (m *Mock) Loads() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.loads...)
}

func (m *Mock) PlayCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playCalls
}

func (m *Mock) PauseCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pauseCalls
}

func (m *Mock) StopCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopCalls
}

func (m *Mock) SeekCalls() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Duration(nil), m.seekCalls...)
}

// VolumeHistory returns every level passed to SetVolume.
func (m *Mock) VolumeHistory() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.volumes...)
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
