package playback

import (
	"github.com/sirupsen/logrus"

	"github.com/llehouerou/aura/internal/fade"
	"github.com/llehouerou/aura/internal/player"
	"github.com/llehouerou/aura/internal/sched"
)

// HandleEvent feeds a resource event into the state machine. Events for a
// source other than the active one are dropped.
func (e *Engine) HandleEvent(ev player.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.current == nil || ev.Src != e.src {
		return
	}

	switch ev.Type {
	case player.EventTimeUpdate:
		if e.state == StatePlaying {
			e.onTimeUpdateLocked(ev)
		}
	case player.EventEnded:
		if e.state == StatePlaying {
			e.onEndedLocked()
		}
	case player.EventError:
		e.onErrorLocked(ev)
	}
}

func (e *Engine) onTimeUpdateLocked(ev player.Event) {
	e.acc.IsEligible(e.cfg.Eligibility)

	dur := ev.Duration
	if dur <= 0 {
		dur = e.player.Duration()
	}
	remaining := dur - ev.Position
	if dur > 0 && remaining <= e.cfg.FadeOutWindow && e.fade.Direction() != fade.Out {
		// A fade-in still running this close to the end gives way.
		if e.fade.Direction() == fade.In {
			e.fade.Cancel()
		}
		if e.player.Volume() > 0 {
			gen := e.gen
			e.fade.FadeOut(e.cfg.FadeOut, func() { e.fadedOut(gen) })
			e.log.WithField("remaining", remaining).Debug("fading out")
		}
	}
	e.saveLocked()
}

func (e *Engine) fadedOut(gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.gen || e.closed || e.state != StatePlaying {
		return
	}
	if e.repeatMode == RepeatOne {
		if err := e.restartLocked(); err != nil {
			e.log.WithError(err).Warn("restart after fade-out")
		}
	}
}

func (e *Engine) onEndedLocked() {
	e.setStateLocked(StateEnded)
	e.finalizeLocked()

	if e.repeatMode == RepeatOne {
		if err := e.restartLocked(); err != nil {
			e.log.WithError(err).Warn("restart after end")
		}
		return
	}
	if err := e.nextLocked(); err != nil {
		e.log.WithError(err).Warn("advance after end")
	}
}

func (e *Engine) onErrorLocked(ev player.Event) {
	log := e.log.WithFields(logrus.Fields{
		"track": e.current.Key(),
		"code":  ev.Code,
	})
	if ev.Code.Benign() {
		log.Debug("ignoring benign media error")
		return
	}
	if !e.state.Started() {
		return
	}

	err := ev.Err
	if err == nil {
		err = &player.Error{Code: ev.Code}
	}
	pos := e.player.Position()
	e.fade.Cancel()
	e.acc.Stop()
	e.lastErr = err
	e.setStateLocked(StateError)

	gen := e.gen
	e.timer = sched.Stop(e.timer)
	if delay, ok := e.retries.Next(); ok {
		e.skip = true
		e.resume = resumePoint{key: e.current.Key(), at: pos}
		log.WithError(err).WithField("attempt", e.retries.Attempts()).Warn("playback error, retrying track")
		e.publishErrorLocked("playback", err, false)
		e.timer = e.sched.AfterFunc(delay, func() { e.retryLoad(gen) })
		return
	}
	log.WithError(err).Warn("playback error, skipping track")
	e.publishErrorLocked("playback", err, true)
	e.timer = e.sched.AfterFunc(e.retries.Policy().Fallback, func() { e.skipAfterFailure(gen) })
}

// loaded is the ready callback of the load started in generation gen.
func (e *Engine) loaded(gen uint64, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.gen || e.closed {
		return
	}
	if err == nil {
		err = e.startLocked()
	}
	if err != nil {
		e.loadFailedLocked(err)
	}
}

func (e *Engine) startLocked() error {
	t := *e.current
	if e.resume.key == t.Key() && e.resume.at > 0 {
		if err := e.player.Seek(e.resume.at); err != nil {
			e.log.WithError(err).Debug("seek to restored position")
		}
	}

	e.fade.Cancel()
	e.fade.FadeIn(e.cfg.FadeIn, nil)
	if err := e.player.Play(); err != nil {
		e.fade.Cancel()
		return err
	}
	e.resume = resumePoint{}
	e.retries.Reset()
	e.acc.Start()

	dur := e.player.Duration()
	e.cfg.Session.SetMetadata(MetadataFor(t, dur))
	e.cfg.Session.SetPlaybackState(StatusPlaying)
	e.cfg.KeepAlive.Start()
	e.setStateLocked(StatePlaying)
	e.saveLocked()

	e.log.WithFields(logrus.Fields{
		"track":    t.Key(),
		"duration": dur,
	}).Info("playing")
	return nil
}

func (e *Engine) loadFailedLocked(err error) {
	log := e.log.WithError(err).WithFields(logrus.Fields{
		"track": e.current.Key(),
		"code":  player.CodeOf(err),
	})

	gen := e.gen
	if delay, ok := e.retries.Next(); ok {
		log.WithField("attempt", e.retries.Attempts()).Warn("load failed, retrying")
		e.publishErrorLocked("load", err, false)
		e.timer = e.sched.AfterFunc(delay, func() { e.retryLoad(gen) })
		return
	}

	e.fade.Cancel()
	e.acc.Stop()
	e.cfg.KeepAlive.Stop()
	e.lastErr = err
	e.publishErrorLocked("load", err, true)

	if e.skip {
		log.Warn("retry failed, skipping track")
		e.setStateLocked(StateError)
		e.timer = e.sched.AfterFunc(e.retries.Policy().Fallback, func() { e.skipAfterFailure(gen) })
		return
	}

	log.Error("load failed")
	e.cfg.Session.SetPlaybackState(StatusPaused)
	e.setStateLocked(StatePaused)
	e.saveLocked()
}

// retryLoad reloads the current track if nothing superseded it meanwhile.
func (e *Engine) retryLoad(gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.gen || e.closed || e.current == nil {
		return
	}
	e.timer = nil
	e.reloadLocked(*e.current)
}

func (e *Engine) skipAfterFailure(gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.gen || e.closed {
		return
	}
	e.timer = nil
	if err := e.nextLocked(); err != nil {
		e.log.WithError(err).Warn("skip after failure")
	}
}

func (e *Engine) publishErrorLocked(op string, err error, final bool) {
	ev := ErrorEvent{Operation: op, Err: err, Final: final}
	if e.current != nil {
		t := *e.current
		ev.Track = &t
	}
	e.broadcast(func(sub *Subscription) { sub.sendError(ev) })
}
