package app

import (
	"fmt"
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/aura/internal/errmsg"
	"github.com/llehouerou/aura/internal/keymap"
	"github.com/llehouerou/aura/internal/playback"
)

// Update handles messages and returns updated model and commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.help.Width = msg.Width
		m.search.Width = max(msg.Width-6, 10)
		m.cursor.Fit(len(m.list), m.listHeight())
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.handleSearchKey(msg)
		}
		return m.handleKey(msg)

	case TickMsg:
		return m, TickCmd(m.tick)

	case StateChangedMsg:
		if msg.Current == playback.StatePlaying && m.statusErr {
			m.setStatus("")
		}
		return m, WatchEvents(m.sub)

	case TrackChangedMsg:
		m.followTrack(msg.Current)
		return m, WatchEvents(m.sub)

	case ModeChangedMsg:
		m.setStatus("Repeat: " + msg.RepeatMode.String())
		return m, WatchEvents(m.sub)

	case PlaybackErrorMsg:
		m.handlePlaybackError(msg)
		return m, WatchEvents(m.sub)

	case EngineClosedMsg:
		return m, nil

	case ReconcileDueMsg:
		return m, tea.Batch(ReconcileCmd(m.stats, statsTimeout), ReconcileAfterCmd(m.reconcile))

	case ReconciledMsg:
		if msg.Err != nil {
			m.log.WithError(msg.Err).Warn("reconcile listening stats")
			return m, nil
		}
		if msg.Delivered > 0 {
			m.log.WithField("delivered", msg.Delivered).Info("reconciled listening stats")
			if m.showStats {
				return m, LoadStatsCmd(m.stats)
			}
		}
		return m, nil

	case StatsLoadedMsg:
		if msg.Err != nil {
			m.setError(errmsg.Format(errmsg.OpStatsTotals, msg.Err))
		}
		m.totals = &msg
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch action := m.keys.Resolve(msg.String()); action {
	case keymap.ActionQuit:
		return m, tea.Quit
	case keymap.ActionHelp:
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
	case keymap.ActionStats:
		if m.stats == nil {
			m.setStatus("Listening stats are not available")
			return m, nil
		}
		m.showStats = !m.showStats
		if m.showStats {
			return m, LoadStatsCmd(m.stats)
		}
	case keymap.ActionSearch:
		m.searching = true
		m.search.SetValue(m.query)
		m.search.CursorEnd()
		return m, m.search.Focus()
	case keymap.ActionClearSearch:
		switch {
		case m.showHelp || m.showStats:
			m.showHelp = false
			m.help.ShowAll = false
			m.showStats = false
		case m.query != "":
			m.query = ""
			m.loadList()
			m.followTrack(m.engine.CurrentTrack())
		}
	default:
		if m.handlePlaybackAction(action) {
			return m, nil
		}
		m.handleBrowserAction(action)
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.searchKeys.Resolve(msg.String()) {
	case keymap.ActionQuit:
		return m, tea.Quit
	case keymap.ActionSearchAccept:
		m.searching = false
		m.search.Blur()
		return m, nil
	case keymap.ActionSearchCancel:
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		if m.query != "" {
			m.query = ""
			m.loadList()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if q := m.search.Value(); q != m.query {
		m.query = q
		m.loadList()
	}
	return m, cmd
}

// handlePlaybackAction runs a playback-context action and reports whether
// action was one.
func (m *Model) handlePlaybackAction(action keymap.Action) bool {
	switch action {
	case keymap.ActionPlayPause:
		if m.engine.CurrentTrack() == nil {
			m.playFrom(m.cursor.Pos())
			return true
		}
		if err := m.engine.Toggle(); err != nil {
			m.setError(errmsg.Format(errmsg.OpPlaybackResume, err))
		}
	case keymap.ActionNextTrack:
		if err := m.engine.Next(); err != nil {
			m.setError(errmsg.Format(errmsg.OpPlaybackNext, err))
		}
	case keymap.ActionPrevTrack:
		if err := m.engine.Previous(); err != nil {
			m.setError(errmsg.Format(errmsg.OpPlaybackPrev, err))
		}
	case keymap.ActionSeekForward:
		m.seek(seekStep)
	case keymap.ActionSeekBack:
		m.seek(-seekStep)
	case keymap.ActionCycleRepeat:
		m.engine.CycleRepeatMode()
	case keymap.ActionVolumeUp:
		m.changeVolume(volumeStep)
	case keymap.ActionVolumeDown:
		m.changeVolume(-volumeStep)
	default:
		return false
	}
	return true
}

func (m *Model) handleBrowserAction(action keymap.Action) {
	n, h := len(m.list), m.listHeight()
	switch action {
	case keymap.ActionMoveUp:
		m.cursor.Move(-1, n, h)
	case keymap.ActionMoveDown:
		m.cursor.Move(1, n, h)
	case keymap.ActionJumpStart:
		m.cursor.Jump(0, n, h)
	case keymap.ActionJumpEnd:
		m.cursor.Jump(n-1, n, h)
	case keymap.ActionPageUp:
		m.cursor.HalfPage(-1, n, h)
	case keymap.ActionPageDown:
		m.cursor.HalfPage(1, n, h)
	case keymap.ActionNextGenre:
		m.switchGenre(1)
	case keymap.ActionPrevGenre:
		m.switchGenre(-1)
	case keymap.ActionSelect:
		m.playFrom(m.cursor.Pos())
	}
}

// playFrom replaces the playlist with the shown list and starts at i.
func (m *Model) playFrom(i int) {
	if i < 0 || i >= len(m.list) {
		return
	}
	m.engine.SetPlaylist(m.list, i)
	if err := m.engine.PlayIndex(i); err != nil {
		m.setError(errmsg.FormatWith(errmsg.OpPlaybackStart, m.list[i].Title, err))
		return
	}
	m.setStatus("")
}

func (m *Model) seek(delta time.Duration) {
	if m.engine.CurrentTrack() == nil {
		return
	}
	pos := max(m.engine.Position()+delta, 0)
	if err := m.engine.SeekTo(pos); err != nil {
		m.setError(errmsg.Format(errmsg.OpPlaybackSeek, err))
	}
}

func (m *Model) changeVolume(delta float64) {
	level := math.Round(min(max(m.engine.Volume()+delta, 0), 1)*100) / 100
	m.engine.SetVolume(level)
	if m.volumes != nil {
		if err := m.volumes.SaveVolume(level); err != nil {
			m.setError(errmsg.Format(errmsg.OpVolumeSave, err))
			return
		}
	}
	m.setStatus(fmt.Sprintf("Volume %d%%", int(level*100+0.5)))
}

func (m *Model) switchGenre(step int) {
	if len(m.genres) == 0 {
		return
	}
	if m.query != "" {
		m.query = ""
	} else {
		m.genre = (m.genre + step + len(m.genres)) % len(m.genres)
	}
	m.loadList()
}

func (m *Model) handlePlaybackError(msg PlaybackErrorMsg) {
	var title string
	if msg.Track != nil {
		title = msg.Track.Title
	}
	if !msg.Final {
		m.setStatus(fmt.Sprintf("Retrying %s…", title))
		return
	}
	op := errmsg.OpTrackPlay
	if msg.Operation == "load" {
		op = errmsg.OpTrackLoad
	}
	m.setError(errmsg.FormatWith(op, title, msg.Err))
}
