package app

import (
	"context"
	"time"

	"github.com/llehouerou/aura/internal/playback"
	"github.com/llehouerou/aura/internal/playlist"
	"github.com/llehouerou/aura/internal/stats"
	"github.com/llehouerou/aura/internal/ui/playerbar"
)

// Engine is the part of the playback engine the UI drives. *playback.Engine
// satisfies it.
type Engine interface {
	playerbar.Source

	SetPlaylist(tracks []playlist.Track, start int)
	PlayIndex(i int) error
	Toggle() error
	Next() error
	Previous() error
	SeekTo(pos time.Duration) error
	CycleRepeatMode() playback.RepeatMode
	SetVolume(level float64)
	Subscribe() *playback.Subscription
}

// Stats exposes listening totals and the pending-report buffer.
// *stats.Reporter satisfies it.
type Stats interface {
	Totals() (stats.Totals, error)
	PendingCount() int
	Reconcile(ctx context.Context) (int, error)
}

// VolumeStore persists the user's volume.
type VolumeStore interface {
	SaveVolume(level float64) error
}

var (
	_ Engine = (*playback.Engine)(nil)
	_ Stats  = (*stats.Reporter)(nil)
)
