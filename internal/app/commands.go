package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/aura/internal/playback"
)

// TickCmd returns a command that sends TickMsg after d.
func TickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// WatchEvents waits for the next engine event and converts it to a message.
// Each handler re-issues it to keep listening.
func WatchEvents(sub *playback.Subscription) tea.Cmd {
	if sub == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case e := <-sub.StateChanged:
			return StateChangedMsg(e)
		case e := <-sub.TrackChanged:
			return TrackChangedMsg(e)
		case e := <-sub.ModeChanged:
			return ModeChangedMsg(e)
		case e := <-sub.Error:
			return PlaybackErrorMsg(e)
		case <-sub.Done:
			return EngineClosedMsg{}
		}
	}
}

// ReconcileAfterCmd schedules the next reconcile pass.
func ReconcileAfterCmd(d time.Duration) tea.Cmd {
	if d <= 0 {
		return nil
	}
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ReconcileDueMsg{}
	})
}

// ReconcileCmd delivers buffered listening reports.
func ReconcileCmd(s Stats, timeout time.Duration) tea.Cmd {
	if s == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		n, err := s.Reconcile(ctx)
		return ReconciledMsg{Delivered: n, Err: err}
	}
}

// LoadStatsCmd reads the local listening totals.
func LoadStatsCmd(s Stats) tea.Cmd {
	if s == nil {
		return nil
	}
	return func() tea.Msg {
		t, err := s.Totals()
		return StatsLoadedMsg{Totals: t, Pending: s.PendingCount(), Err: err}
	}
}
