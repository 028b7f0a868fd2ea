package mpris

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/llehouerou/aura/internal/playback"
)

func newTestSession() (*Session, *time.Time) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewSession()
	s.now = func() time.Time { return now }
	return s, &now
}

func TestSession_PositionAdvancesWhilePlaying(t *testing.T) {
	s, now := newTestSession()
	s.SetMetadata(playback.Metadata{Title: "Song", Length: time.Minute})
	s.SetPlaybackState(playback.StatusPlaying)

	*now = now.Add(10 * time.Second)
	assert.Equal(t, 10*time.Second, s.Position())

	s.SetPlaybackState(playback.StatusPaused)
	*now = now.Add(10 * time.Second)
	assert.Equal(t, 10*time.Second, s.Position())
}

func TestSession_SeekResetsPosition(t *testing.T) {
	s, now := newTestSession()
	s.SetMetadata(playback.Metadata{Length: time.Minute})
	s.SetPlaybackState(playback.StatusPlaying)
	*now = now.Add(5 * time.Second)

	s.SetPositionState(time.Minute, 30*time.Second)
	*now = now.Add(time.Second)

	assert.Equal(t, 31*time.Second, s.Position())
}

func TestSession_PositionCappedAtDuration(t *testing.T) {
	s, now := newTestSession()
	s.SetMetadata(playback.Metadata{Length: time.Minute})
	s.SetPlaybackState(playback.StatusPlaying)
	*now = now.Add(time.Hour)

	assert.Equal(t, time.Minute, s.Position())
}

func TestSession_MetadataResetsPosition(t *testing.T) {
	s, _ := newTestSession()
	s.SetPositionState(time.Minute, 40*time.Second)
	s.SetMetadata(playback.Metadata{Title: "Next", Length: 2 * time.Minute})

	assert.Equal(t, "Next", s.Metadata().Title)
	assert.Zero(t, s.Position())
	assert.Equal(t, playback.StatusNone, s.Status())
}
