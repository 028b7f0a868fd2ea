package notify

import (
	"html"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/llehouerou/aura/internal/playback"
)

// TrackTimeout is how long a track notification stays on screen.
const TrackTimeout = 5 * time.Second

// TrackNotifier pops a desktop notification whenever a new track starts.
// Each notification replaces the previous one. Notifications are sent from
// a background goroutine; only the latest pending track is shown.
type TrackNotifier struct {
	n   Notifier
	log logrus.FieldLogger

	mu      sync.Mutex
	trackID string
	closed  bool

	pending chan playback.Metadata
	done    chan struct{}
	wg      sync.WaitGroup
}

// NewTrackNotifier starts a notifier sending through n.
func NewTrackNotifier(n Notifier, log logrus.FieldLogger) *TrackNotifier {
	if log == nil {
		log = logrus.StandardLogger()
	}
	t := &TrackNotifier{
		n:       n,
		log:     log.WithField("component", "notify"),
		pending: make(chan playback.Metadata, 1),
		done:    make(chan struct{}),
	}
	t.wg.Add(1)
	go t.run()
	return t
}

// SetMetadata queues a notification if md describes a different track.
func (t *TrackNotifier) SetMetadata(md playback.Metadata) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed || md.TrackID == "" || md.TrackID == t.trackID {
		return
	}
	t.trackID = md.TrackID

	select {
	case <-t.pending:
	default:
	}
	t.pending <- md
}

func (t *TrackNotifier) SetPlaybackState(playback.Status)              {}
func (t *TrackNotifier) SetPositionState(time.Duration, time.Duration) {}

// Close stops the sender and dismisses the last notification.
func (t *TrackNotifier) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	t.mu.Unlock()

	close(t.done)
	t.wg.Wait()
	return nil
}

func (t *TrackNotifier) run() {
	defer t.wg.Done()
	var id uint32
	for {
		select {
		case <-t.done:
			if id != 0 {
				if err := t.n.Close(id); err != nil {
					t.log.WithError(err).Debug("closing notification")
				}
			}
			return
		case md := <-t.pending:
			next, err := t.n.Notify(trackNotification(md, id))
			if err != nil {
				t.log.WithError(err).WithField("track", md.TrackID).Warn("sending notification")
				continue
			}
			id = next
		}
	}
}

func trackNotification(md playback.Metadata, replaces uint32) Notification {
	title := md.Title
	if title == "" {
		title = "Now playing"
	}
	var parts []string
	for _, s := range []string{md.Artist, md.Album} {
		if s != "" {
			parts = append(parts, html.EscapeString(s))
		}
	}
	return Notification{
		Summary:   title,
		Body:      strings.Join(parts, " · "),
		Icon:      iconFor(md.ArtURL),
		Expire:    TrackTimeout,
		Replaces:  replaces,
		Urgency:   UrgencyLow,
		Transient: true,
	}
}

// iconFor keeps local artwork only; notification servers do not fetch
// remote images.
func iconFor(art string) string {
	if strings.HasPrefix(art, "/") || strings.HasPrefix(art, "file://") {
		return art
	}
	return "audio-x-generic"
}

var _ playback.MediaSession = (*TrackNotifier)(nil)
