package playback

import (
	"time"

	"github.com/llehouerou/aura/internal/playlist"
	"github.com/llehouerou/aura/internal/state"
)

// Status is the playback status shown by the platform media session.
type Status int

const (
	StatusNone Status = iota
	StatusPlaying
	StatusPaused
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusPlaying:
		return "Playing"
	case StatusPaused:
		return "Paused"
	default:
		return "Stopped"
	}
}

// Metadata describes the current track to the media session.
type Metadata struct {
	TrackID string
	Title   string
	Artist  string
	Album   string
	Genre   string
	ArtURL  string
	Length  time.Duration
}

// MetadataFor builds session metadata for track.
func MetadataFor(track playlist.Track, length time.Duration) Metadata {
	return Metadata{
		TrackID: track.Key(),
		Title:   track.Title,
		Artist:  track.Artist,
		Album:   track.Album,
		Genre:   track.Genre,
		ArtURL:  track.Thumbnail,
		Length:  length,
	}
}

// MediaSession is the platform "now playing" surface. Implementations must
// not call back into the engine synchronously.
type MediaSession interface {
	SetMetadata(md Metadata)
	SetPlaybackState(s Status)
	SetPositionState(duration, position time.Duration)
}

// KeepAlive keeps the process and audio output awake while playing.
type KeepAlive interface {
	Start()
	Stop()
}

// StatsSink receives finished listening sessions. ReportAsync must not block.
type StatsSink interface {
	ReportAsync(track playlist.Track, seconds float64)
}

// Persister stores playback snapshots.
type Persister interface {
	SavePlayback(snap state.PlaybackSnapshot)
	FlushPlayback() error
}

// Sessions fans calls out to several media sessions.
type Sessions []MediaSession

func (s Sessions) SetMetadata(md Metadata) {
	for _, m := range s {
		m.SetMetadata(md)
	}
}

func (s Sessions) SetPlaybackState(st Status) {
	for _, m := range s {
		m.SetPlaybackState(st)
	}
}

func (s Sessions) SetPositionState(duration, position time.Duration) {
	for _, m := range s {
		m.SetPositionState(duration, position)
	}
}

type nopSession struct{}

func (nopSession) SetMetadata(Metadata)                          {}
func (nopSession) SetPlaybackState(Status)                       {}
func (nopSession) SetPositionState(time.Duration, time.Duration) {}

type nopKeepAlive struct{}

func (nopKeepAlive) Start() {}
func (nopKeepAlive) Stop()  {}

type nopStats struct{}

func (nopStats) ReportAsync(playlist.Track, float64) {}

type nopPersister struct{}

func (nopPersister) SavePlayback(state.PlaybackSnapshot) {}
func (nopPersister) FlushPlayback() error                { return nil }
