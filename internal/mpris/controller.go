package mpris

import (
	"time"

	"github.com/llehouerou/aura/internal/playback"
)

// Controller receives commands from MPRIS clients. *playback.Engine
// satisfies it.
type Controller interface {
	Next() error
	Previous() error
	Pause() error
	Resume() error
	Toggle() error
	SeekTo(pos time.Duration) error
	Volume() float64
	SetVolume(level float64)
	RepeatMode() playback.RepeatMode
	SetRepeatMode(mode playback.RepeatMode)
}

var _ Controller = (*playback.Engine)(nil)
