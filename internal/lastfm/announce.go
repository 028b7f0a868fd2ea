package lastfm

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/llehouerou/aura/internal/playback"
	"github.com/llehouerou/aura/internal/playlist"
)

// Announcer sends Last.fm "now playing" updates as tracks start. It plugs
// into the engine as a media session and posts from its own goroutine.
type Announcer struct {
	client *Client
	log    logrus.FieldLogger

	mu      sync.Mutex
	trackID string
	closed  bool
	pending chan playback.Metadata
	wg      sync.WaitGroup
}

// NewAnnouncer starts an announcer for client.
func NewAnnouncer(client *Client, log logrus.FieldLogger) *Announcer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	a := &Announcer{
		client:  client,
		log:     log.WithField("component", "lastfm"),
		pending: make(chan playback.Metadata, 1),
	}
	a.wg.Add(1)
	go a.run()
	return a
}

func (a *Announcer) SetMetadata(md playback.Metadata) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed || md.TrackID == "" || md.TrackID == a.trackID {
		return
	}
	a.trackID = md.TrackID
	select {
	case <-a.pending:
	default:
	}
	a.pending <- md
}

func (a *Announcer) SetPlaybackState(playback.Status)              {}
func (a *Announcer) SetPositionState(time.Duration, time.Duration) {}

// Close waits for an in-flight update and stops the announcer.
func (a *Announcer) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	close(a.pending)
	a.mu.Unlock()
	a.wg.Wait()
	return nil
}

func (a *Announcer) run() {
	defer a.wg.Done()
	for md := range a.pending {
		if !a.client.IsAuthenticated() || md.Artist == "" || md.Title == "" {
			continue
		}
		track := playlist.Track{Title: md.Title, Artist: md.Artist, Album: md.Album}
		if err := a.client.NowPlaying(track, md.Length); err != nil {
			a.log.WithError(err).WithField("track", md.TrackID).Warn("now playing update failed")
		}
	}
}

var _ playback.MediaSession = (*Announcer)(nil)
