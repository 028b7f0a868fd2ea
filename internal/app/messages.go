// Package app contains the Bubble Tea model for the mini-player.
package app

import (
	"time"

	"github.com/llehouerou/aura/internal/playback"
	"github.com/llehouerou/aura/internal/stats"
)

// TickMsg refreshes the player bar.
type TickMsg time.Time

// StateChangedMsg wraps a playback state transition.
type StateChangedMsg playback.StateChange

// TrackChangedMsg wraps a change of the loaded track.
type TrackChangedMsg playback.TrackChange

// ModeChangedMsg wraps a repeat mode change.
type ModeChangedMsg playback.ModeChange

// PlaybackErrorMsg wraps a load or playback failure.
type PlaybackErrorMsg playback.ErrorEvent

// EngineClosedMsg is sent once the engine subscription closes.
type EngineClosedMsg struct{}

// ReconcileDueMsg triggers a flush of buffered listening reports.
type ReconcileDueMsg struct{}

// ReconciledMsg carries the result of a reconcile pass.
type ReconciledMsg struct {
	Delivered int
	Err       error
}

// StatsLoadedMsg carries the listening totals for the stats panel.
type StatsLoadedMsg struct {
	Totals  stats.Totals
	Pending int
	Err     error
}
