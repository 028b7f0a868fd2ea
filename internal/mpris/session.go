package mpris

import (
	"sync"
	"time"

	"github.com/llehouerou/aura/internal/playback"
)

// Session caches what the engine pushes so D-Bus property reads never call
// back into the engine.
type Session struct {
	mu       sync.RWMutex
	metadata playback.Metadata
	status   playback.Status
	duration time.Duration
	position time.Duration
	// positionAt is when position was reported; Position extrapolates from
	// it while playing.
	positionAt time.Time
	now        func() time.Time
}

var _ playback.MediaSession = (*Session)(nil)

// NewSession creates an empty session.
func NewSession() *Session {
	return &Session{now: time.Now}
}

func (s *Session) SetMetadata(md playback.Metadata) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metadata = md
	s.duration = md.Length
	s.position = 0
	s.positionAt = s.now()
}

func (s *Session) SetPlaybackState(st playback.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == playback.StatusPlaying && st != playback.StatusPlaying {
		s.position = s.positionLocked()
	}
	s.status = st
	s.positionAt = s.now()
}

func (s *Session) SetPositionState(duration, position time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if duration > 0 {
		s.duration = duration
	}
	s.position = position
	s.positionAt = s.now()
}

// Metadata returns the last metadata pushed.
func (s *Session) Metadata() playback.Metadata {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.metadata
}

// Status returns the last playback status pushed.
func (s *Session) Status() playback.Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Position returns the estimated position, advancing with wall time while
// playing and capped at the duration.
func (s *Session) Position() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.positionLocked()
}

func (s *Session) positionLocked() time.Duration {
	pos := s.position
	if s.status == playback.StatusPlaying {
		pos += s.now().Sub(s.positionAt)
	}
	if s.duration > 0 && pos > s.duration {
		pos = s.duration
	}
	return max(pos, 0)
}
