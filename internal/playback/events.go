package playback

import (
	"time"

	"github.com/llehouerou/aura/internal/playlist"
)

// StateChange is emitted when playback state changes.
type StateChange struct {
	Previous State
	Current  State
}

// TrackChange is emitted when a different track starts loading.
//
// Emitted by Play, PlayIndex, Next, Previous and automatic advance after a
// track ends or fails. Not emitted by retries of the same track or by a
// RepeatOne restart.
type TrackChange struct {
	Previous      *playlist.Track
	Current       *playlist.Track
	PreviousIndex int
	Index         int
}

// QueueChange is emitted when the playlist is replaced.
type QueueChange struct {
	Tracks []playlist.Track
	Index  int
}

// ModeChange is emitted when the repeat mode changes.
type ModeChange struct {
	RepeatMode RepeatMode
}

// PositionChange is emitted when a seek occurs.
type PositionChange struct {
	Position time.Duration
}

// ErrorEvent is emitted when a track fails to load or play.
type ErrorEvent struct {
	Operation string // "load", "play" or "playback"
	Track     *playlist.Track
	Err       error
	// Final is set when no retry follows.
	Final bool
}
