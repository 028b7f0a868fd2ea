package playback

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/llehouerou/aura/internal/fade"
	"github.com/llehouerou/aura/internal/player"
	"github.com/llehouerou/aura/internal/playlist"
	"github.com/llehouerou/aura/internal/sched"
	"github.com/llehouerou/aura/internal/source"
	"github.com/llehouerou/aura/internal/state"
)

// SetPlaylist replaces the playlist and moves the cursor to start. It does
// not start playback.
func (e *Engine) SetPlaylist(tracks []playlist.Track, start int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.queue.SetPlaylist(tracks, start)
	q := QueueChange{Tracks: e.queue.Tracks(), Index: e.queue.CurrentIndex()}
	e.broadcast(func(sub *Subscription) { sub.sendQueue(q) })
	e.saveLocked()
}

// Play loads track and starts it once ready, superseding any load in
// flight. If track is in the playlist the cursor moves to it.
func (e *Engine) Play(track playlist.Track) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	e.resume = resumePoint{}
	return e.playLocked(track)
}

// PlayIndex moves the cursor to i and plays the track there.
func (e *Engine) PlayIndex(i int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	t := e.queue.JumpTo(i)
	if t == nil {
		return fmt.Errorf("%w: %d", ErrNoTrack, i)
	}
	e.resume = resumePoint{}
	return e.playLocked(*t)
}

// Pause pauses a playing track. It is a no-op in any other state.
func (e *Engine) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	e.pauseLocked()
	return nil
}

// Resume continues a paused track. When nothing is loaded, or the last load
// failed, the current track is played again from the start (or from the
// restored position).
func (e *Engine) Resume() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	return e.resumeLocked()
}

// Toggle pauses when playing and resumes otherwise.
func (e *Engine) Toggle() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	if e.state == StatePlaying {
		e.pauseLocked()
		return nil
	}
	return e.resumeLocked()
}

// Next reports the current track if it was listened to long enough, then
// plays the following track, wrapping to the first. With an empty playlist
// it pauses.
func (e *Engine) Next() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	e.resume = resumePoint{}
	return e.nextLocked()
}

// Previous restarts the current track when it has played past the restart
// threshold, otherwise plays the preceding track, wrapping to the last.
func (e *Engine) Previous() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	e.resume = resumePoint{}

	if e.player.State().Loaded() && e.player.Position() > e.cfg.RestartThreshold {
		if err := e.seekLocked(0); err != nil {
			return err
		}
		running := e.acc.Running()
		e.acc.Reset()
		if running {
			e.acc.Start()
		}
		return nil
	}

	t := e.queue.Previous()
	if t == nil {
		e.pauseLocked()
		return nil
	}
	return e.playLocked(*t)
}

// Seek moves to fraction of the track duration, clamped to [0,1].
// Listening time is kept.
func (e *Engine) Seek(fraction float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	if !e.player.State().Loaded() {
		return player.ErrNotLoaded
	}
	fraction = min(max(fraction, 0), 1)
	return e.seekLocked(time.Duration(fraction * float64(e.player.Duration())))
}

// SeekTo moves to an absolute position, clamped to the track.
func (e *Engine) SeekTo(pos time.Duration) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	if !e.player.State().Loaded() {
		return player.ErrNotLoaded
	}
	return e.seekLocked(min(max(pos, 0), e.player.Duration()))
}

// SetRepeatMode sets the repeat mode.
func (e *Engine) SetRepeatMode(mode RepeatMode) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.setRepeatModeLocked(mode)
}

// CycleRepeatMode switches between RepeatOff and RepeatOne and returns the
// new mode.
func (e *Engine) CycleRepeatMode() RepeatMode {
	e.mu.Lock()
	defer e.mu.Unlock()
	next := RepeatOne
	if e.repeatMode == RepeatOne {
		next = RepeatOff
	}
	e.setRepeatModeLocked(next)
	return next
}

// SetVolume sets the listening volume in [0,1]. A running fade keeps its
// course; later fade-ins ramp up to the new level.
func (e *Engine) SetVolume(level float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.fade.SetTarget(level)
	if !e.fade.Active() {
		e.player.SetVolume(e.fade.Target())
	}
	e.saveLocked()
}

// Restore brings back a saved session without starting playback. The saved
// track becomes current in the Paused state; Resume loads it and seeks to
// the saved position.
func (e *Engine) Restore(snap state.PlaybackSnapshot) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}

	if len(snap.Playlist) > 0 {
		e.queue.SetPlaylist(snap.Playlist, snap.Index)
		q := QueueChange{Tracks: e.queue.Tracks(), Index: e.queue.CurrentIndex()}
		e.broadcast(func(sub *Subscription) { sub.sendQueue(q) })
	}
	e.repeatMode = ParseRepeatMode(snap.RepeatMode)
	if snap.Volume != nil {
		e.fade.SetTarget(*snap.Volume)
		e.player.SetVolume(e.fade.Target())
	}

	track := snap.Track
	if track == nil {
		track = e.queue.Current()
	}
	if track == nil || !track.Playable() {
		return
	}
	if i := e.queue.IndexOf(track.Key()); i >= 0 {
		e.queue.JumpTo(i)
	}

	t := *track
	e.current = &t
	e.index = e.queue.CurrentIndex()
	e.resume = resumePoint{key: t.Key(), at: max(snap.Position(), 0)}
	e.broadcast(func(sub *Subscription) {
		sub.sendTrack(TrackChange{Current: &t, PreviousIndex: -1, Index: e.index})
	})
	e.setStateLocked(StatePaused)
	e.cfg.Session.SetMetadata(MetadataFor(t, 0))
	e.cfg.Session.SetPlaybackState(StatusPaused)
	e.saveLocked()

	e.log.WithFields(logrus.Fields{
		"track":    t.Key(),
		"position": e.resume.at,
	}).Info("playback restored")
}

func (e *Engine) playLocked(track playlist.Track) error {
	if !track.Playable() {
		e.log.WithField("track", track.Key()).Warn("refusing to play track without link")
		return ErrInvalidTrack
	}
	if i := e.queue.IndexOf(track.Key()); i >= 0 && i != e.queue.CurrentIndex() {
		e.queue.JumpTo(i)
	}
	e.retries.Reset()
	e.skip = false
	e.loadLocked(track)
	return nil
}

// loadLocked supersedes whatever is loading or playing and loads track as a
// new listening session.
func (e *Engine) loadLocked(track playlist.Track) {
	e.acc.Reset()
	e.reloadLocked(track)
}

// reloadLocked loads track again, keeping the time already listened to it.
func (e *Engine) reloadLocked(track playlist.Track) {
	e.gen++
	gen := e.gen
	e.timer = sched.Stop(e.timer)
	e.fade.Cancel()
	e.cfg.KeepAlive.Stop()
	e.lastErr = nil

	prev, prevIndex := e.current, e.index
	t := track
	e.current = &t
	e.index = -1
	if cur := e.queue.Current(); cur != nil && cur.Key() == t.Key() {
		e.index = e.queue.CurrentIndex()
	}
	e.src = source.Resolve(t.Link)

	if prev == nil || prev.Key() != t.Key() {
		change := TrackChange{Previous: prev, Current: &t, PreviousIndex: prevIndex, Index: e.index}
		e.broadcast(func(sub *Subscription) { sub.sendTrack(change) })
	}
	e.setStateLocked(StateLoading)

	e.log.WithFields(logrus.Fields{
		"track": t.Key(),
		"src":   e.src,
	}).Debug("loading track")
	e.player.Load(e.src, func(err error) { e.loaded(gen, err) })
}

func (e *Engine) pauseLocked() {
	if e.state != StatePlaying {
		return
	}
	e.player.Pause()
	e.fade.Cancel()
	e.acc.Stop()
	e.setStateLocked(StatePaused)
	e.cfg.KeepAlive.Stop()
	e.cfg.Session.SetPlaybackState(StatusPaused)
	e.saveLocked()
}

func (e *Engine) resumeLocked() error {
	switch e.state {
	case StatePlaying, StateLoading:
		return nil
	case StateEnded:
		return e.restartLocked()
	}

	track := e.current
	if track == nil {
		track = e.queue.Current()
	}
	if track == nil {
		return ErrNoTrack
	}
	if e.current == nil || e.lastErr != nil || e.state != StatePaused || !e.player.State().Loaded() {
		return e.playLocked(*track)
	}

	if err := e.player.Play(); err != nil {
		return fmt.Errorf("resume: %w", err)
	}
	e.acc.Start()
	e.fade.Cancel()
	if e.player.Position() < e.cfg.ResumeFadeWindow {
		e.fade.FadeIn(e.cfg.FadeIn, nil)
	} else {
		e.player.SetVolume(e.fade.Target())
	}
	e.cfg.KeepAlive.Start()
	e.setStateLocked(StatePlaying)
	e.cfg.Session.SetPlaybackState(StatusPlaying)
	e.saveLocked()
	return nil
}

func (e *Engine) nextLocked() error {
	e.finalizeLocked()
	t := e.queue.Next()
	if t == nil {
		e.idleLocked()
		return nil
	}
	return e.playLocked(*t)
}

// idleLocked handles running out of tracks: a playing track pauses, a
// failed one leaves the engine paused with its error.
func (e *Engine) idleLocked() {
	switch e.state {
	case StatePlaying:
		e.pauseLocked()
	case StateEnded, StateError:
		e.timer = sched.Stop(e.timer)
		e.fade.Cancel()
		e.acc.Stop()
		e.cfg.KeepAlive.Stop()
		e.cfg.Session.SetPlaybackState(StatusPaused)
		if e.state == StateError {
			e.setStateLocked(StatePaused)
		}
		e.saveLocked()
	}
}

// restartLocked plays the current track again from the start.
func (e *Engine) restartLocked() error {
	e.finalizeLocked()
	e.fade.Cancel()
	if err := e.player.Seek(0); err != nil {
		return fmt.Errorf("restart: %w", err)
	}
	e.fade.FadeIn(e.cfg.FadeIn, nil)
	if err := e.player.Play(); err != nil {
		e.fade.Cancel()
		return fmt.Errorf("restart: %w", err)
	}
	e.acc.Start()
	e.cfg.KeepAlive.Start()
	e.setStateLocked(StatePlaying)
	e.cfg.Session.SetPlaybackState(StatusPlaying)
	e.cfg.Session.SetPositionState(e.player.Duration(), 0)
	e.broadcast(func(sub *Subscription) { sub.sendPosition(0) })
	e.saveLocked()
	return nil
}

func (e *Engine) seekLocked(pos time.Duration) error {
	if err := e.player.Seek(pos); err != nil {
		return fmt.Errorf("seek: %w", err)
	}
	dur := e.player.Duration()
	if e.fade.Direction() == fade.Out && dur-pos > e.cfg.FadeOutWindow {
		e.fade.Cancel()
		e.player.SetVolume(e.fade.Target())
	}
	e.cfg.Session.SetPositionState(dur, pos)
	e.broadcast(func(sub *Subscription) { sub.sendPosition(pos) })
	e.saveLocked()
	return nil
}

func (e *Engine) setRepeatModeLocked(mode RepeatMode) {
	if e.repeatMode == mode {
		return
	}
	e.repeatMode = mode
	e.broadcast(func(sub *Subscription) { sub.sendMode(ModeChange{RepeatMode: mode}) })
	e.saveLocked()
}

// finalizeLocked closes the listening session of the current track and
// reports it when eligible.
func (e *Engine) finalizeLocked() {
	e.acc.Stop()
	if e.current != nil && e.acc.IsEligible(e.cfg.Eligibility) {
		seconds := e.acc.TotalSeconds()
		e.log.WithFields(logrus.Fields{
			"track":   e.current.Key(),
			"seconds": seconds,
		}).Debug("reporting listen")
		e.cfg.Stats.ReportAsync(*e.current, seconds)
	}
	e.acc.Reset()
}

func (e *Engine) saveLocked() {
	if e.closed {
		return
	}
	vol := e.fade.Target()
	snap := state.PlaybackSnapshot{
		IsPlaying:  e.state == StatePlaying,
		Playlist:   e.queue.Tracks(),
		Index:      e.queue.CurrentIndex(),
		RepeatMode: e.repeatMode.String(),
		Volume:     &vol,
		SavedAt:    e.sched.Now(),
	}
	if e.current != nil {
		t := *e.current
		snap.Track = &t
		pos := e.player.Position()
		if e.resume.key == t.Key() && !e.player.State().Loaded() {
			pos = e.resume.at
		}
		snap.PositionSeconds = pos.Seconds()
	}
	e.cfg.Store.SavePlayback(snap)
}
