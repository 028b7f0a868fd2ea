package stats

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/sirupsen/logrus"

	"github.com/llehouerou/aura/internal/playlist"
)

// Config tunes a Reporter. Zero values get defaults.
type Config struct {
	MinReportable time.Duration
	Timeout       time.Duration
	Clock         clock.Clock
	Logger        logrus.FieldLogger
}

// Reporter turns finished listening sessions into stats writes.
type Reporter struct {
	recorder Recorder
	identity Identity
	buffer   *Buffer
	floor    time.Duration
	timeout  time.Duration
	clock    clock.Clock
	log      logrus.FieldLogger

	wg          sync.WaitGroup
	reconcileMu sync.Mutex
}

// NewReporter creates a reporter. recorder may be nil, in which case every
// listen goes straight to the buffer.
func NewReporter(recorder Recorder, identity Identity, buffer *Buffer, cfg Config) *Reporter {
	r := &Reporter{
		recorder: recorder,
		identity: identity,
		buffer:   buffer,
		floor:    cfg.MinReportable,
		timeout:  cfg.Timeout,
		clock:    cfg.Clock,
		log:      cfg.Logger,
	}
	if r.floor <= 0 {
		r.floor = DefaultMinReportable
	}
	if r.timeout <= 0 {
		r.timeout = DefaultTimeout
	}
	if r.clock == nil {
		r.clock = clock.New()
	}
	if r.log == nil {
		r.log = logrus.StandardLogger()
	}
	r.log = r.log.WithField("component", "stats")
	return r
}

// ReportListening records seconds of listening for track. A remote failure
// is buffered locally and not returned; only a failure of both writes is,
// as ErrPersistence.
func (r *Reporter) ReportListening(ctx context.Context, track playlist.Track, seconds float64) error {
	if seconds < r.floor.Seconds() {
		return ErrBelowFloor
	}
	user, ok := r.currentUser()
	if !ok {
		return ErrNoUser
	}

	l := NewListen(track, seconds, r.clock.Now())
	log := r.log.WithFields(logrus.Fields{
		"track":   l.TrackID,
		"minutes": l.Minutes,
	})

	remoteErr := r.record(ctx, user, l)
	if remoteErr == nil {
		if err := r.buffer.Count(l); err != nil {
			log.WithError(err).Warn("update local totals")
		}
		log.Debug("listen recorded")
		return nil
	}

	log.WithError(remoteErr).Info("remote stats unavailable, buffering listen")
	if err := r.buffer.Add(user, l); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, errors.Join(remoteErr, err))
	}
	return nil
}

// ReportAsync reports in the background. Errors are logged.
func (r *Reporter) ReportAsync(track playlist.Track, seconds float64) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		err := r.ReportListening(context.Background(), track, seconds)
		switch {
		case err == nil:
		case errors.Is(err, ErrBelowFloor), errors.Is(err, ErrNoUser):
			r.log.WithError(err).WithField("track", track.Key()).Debug("listen not reported")
		default:
			r.log.WithError(err).WithField("track", track.Key()).Error("report listen")
		}
	}()
}

// Wait blocks until background reports finish.
func (r *Reporter) Wait() {
	r.wg.Wait()
}

// Reconcile replays buffered listens to the recorder and returns how many
// were delivered. Listens that fail again stay buffered.
func (r *Reporter) Reconcile(ctx context.Context) (int, error) {
	if r.recorder == nil {
		return 0, nil
	}
	r.reconcileMu.Lock()
	defer r.reconcileMu.Unlock()

	pending, err := r.buffer.Pending()
	if err != nil {
		return 0, err
	}
	if len(pending) == 0 {
		return 0, nil
	}

	delivered := make([]bool, len(pending))
	count := 0
	for i, p := range pending {
		if ctx.Err() != nil {
			break
		}
		if err := r.record(ctx, p.User, p.Listen); err != nil {
			r.log.WithError(err).WithField("track", p.Listen.TrackID).Debug("replay listen")
			continue
		}
		delivered[i] = true
		count++
	}
	if count == 0 {
		return 0, nil
	}

	err = r.buffer.Drain(func(i int) bool {
		return i < len(delivered) && delivered[i]
	})
	if err != nil {
		return count, err
	}
	r.log.WithField("count", count).Info("reconciled buffered listens")
	return count, nil
}

// Totals returns the local listening totals.
func (r *Reporter) Totals() (Totals, error) {
	return r.buffer.Totals()
}

// PendingCount returns how many listens wait for reconciliation.
func (r *Reporter) PendingCount() int {
	pending, err := r.buffer.Pending()
	if err != nil {
		return 0
	}
	return len(pending)
}

func (r *Reporter) currentUser() (string, bool) {
	if r.identity == nil {
		return "", false
	}
	user, ok := r.identity.CurrentUser()
	return user, ok && user != ""
}

// record calls the recorder, giving up after the timeout even if the
// recorder ignores its context.
func (r *Reporter) record(ctx context.Context, user string, l Listen) error {
	if r.recorder == nil {
		return errors.New("no remote recorder configured")
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- r.recorder.RecordListen(ctx, user, l)
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("record listen: %w", ctx.Err())
	}
}
