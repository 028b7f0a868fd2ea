// Package stats reports listening time for finished tracks to a remote
// recorder, buffering locally when the remote write fails.
package stats

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/llehouerou/aura/internal/playlist"
)

// Defaults.
const (
	DefaultMinReportable = 30 * time.Second
	DefaultTimeout       = 2500 * time.Millisecond
)

// Sentinel errors.
var (
	ErrBelowFloor  = errors.New("listening time below reportable floor")
	ErrNoUser      = errors.New("no user present")
	ErrPersistence = errors.New("listening stats could not be persisted")
)

// Listen is one reported play.
type Listen struct {
	TrackID  string    `json:"track_id"`
	Title    string    `json:"title"`
	Artist   string    `json:"artist"`
	Album    string    `json:"album,omitempty"`
	Genre    string    `json:"genre,omitempty"`
	Seconds  float64   `json:"seconds"`
	Minutes  float64   `json:"minutes"`
	PlayedAt time.Time `json:"played_at"`
}

// NewListen builds a Listen for track.
func NewListen(track playlist.Track, seconds float64, at time.Time) Listen {
	return Listen{
		TrackID:  track.Key(),
		Title:    track.Title,
		Artist:   track.Artist,
		Album:    track.Album,
		Genre:    track.Genre,
		Seconds:  seconds,
		Minutes:  Minutes(seconds),
		PlayedAt: at,
	}
}

// Recorder applies an increment-style update remotely: one more song played,
// Minutes more listened, last played at PlayedAt.
type Recorder interface {
	RecordListen(ctx context.Context, user string, l Listen) error
}

// Identity tells whether a user is present and who it is.
type Identity interface {
	CurrentUser() (string, bool)
}

// Minutes rounds seconds to the nearest half minute, with a 0.5 minimum.
func Minutes(seconds float64) float64 {
	m := math.Round(seconds/60*2) / 2
	return math.Max(m, 0.5)
}
