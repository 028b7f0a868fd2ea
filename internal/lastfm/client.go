package lastfm

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/shkh/lastfm-go/lastfm"

	"github.com/llehouerou/aura/internal/playlist"
	"github.com/llehouerou/aura/internal/state"
	"github.com/llehouerou/aura/internal/stats"
)

// ErrNotAuthenticated is returned when an operation requires authentication.
var ErrNotAuthenticated = errors.New("not authenticated")

// API is the subset of the Last.fm web API the client talks to.
type API interface {
	SetSession(key string)
	GetToken() (string, error)
	Login(token string) (sessionKey, username string, err error)
	Scrobble(p lastfm.P) error
	UpdateNowPlaying(p lastfm.P) error
}

// SessionStore persists the linked session.
type SessionStore interface {
	GetLastfmSession() (*state.LastfmSession, error)
	SaveLastfmSession(username, sessionKey string) error
	DeleteLastfmSession() error
}

// Client wraps the Last.fm API for scrobbling operations.
// It records listens for the stats reporter and names the current user.
type Client struct {
	api    API
	apiKey string

	mu      sync.RWMutex
	session Session
}

var (
	_ stats.Recorder = (*Client)(nil)
	_ stats.Identity = (*Client)(nil)
)

// New creates a new Last.fm client with the given API credentials.
func New(apiKey, apiSecret string) *Client {
	return NewWithAPI(apiKey, &remote{api: lastfm.New(apiKey, apiSecret)})
}

// NewWithAPI creates a client over an arbitrary API implementation.
func NewWithAPI(apiKey string, api API) *Client {
	return &Client{api: api, apiKey: apiKey}
}

// SetSession sets the authenticated session.
func (c *Client) SetSession(s Session) {
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()
	c.api.SetSession(s.SessionKey)
}

// Session returns the current session.
func (c *Client) Session() Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

// IsAuthenticated returns true if a session key is set.
func (c *Client) IsAuthenticated() bool {
	return c.Session().SessionKey != ""
}

// Restore loads a previously linked session from store.
// It reports whether a session was found.
func (c *Client) Restore(store SessionStore) (bool, error) {
	s, err := store.GetLastfmSession()
	if err != nil {
		return false, fmt.Errorf("load session: %w", err)
	}
	if s == nil || s.SessionKey == "" {
		return false, nil
	}
	c.SetSession(Session{Username: s.Username, SessionKey: s.SessionKey})
	return true, nil
}

// Unlink forgets the session locally and in store.
func (c *Client) Unlink(store SessionStore) error {
	c.SetSession(Session{})
	return store.DeleteLastfmSession()
}

// CurrentUser returns the linked username.
func (c *Client) CurrentUser() (string, bool) {
	s := c.Session()
	if s.SessionKey == "" || s.Username == "" {
		return "", false
	}
	return s.Username, true
}

// GetToken requests an authentication token from Last.fm.
func (c *Client) GetToken() (string, error) {
	token, err := c.api.GetToken()
	if err != nil {
		return "", fmt.Errorf("get token: %w", err)
	}
	return token, nil
}

// GetAuthURL returns the URL for user authorization. With a token it is the
// desktop flow; with a callback Last.fm redirects there with a fresh token.
func (c *Client) GetAuthURL(token, callback string) string {
	q := url.Values{"api_key": {c.apiKey}}
	if token != "" {
		q.Set("token", token)
	}
	if callback != "" {
		q.Set("cb", callback)
	}
	return "https://www.last.fm/api/auth/?" + q.Encode()
}

// GetSession exchanges an authorized token for a session and makes it current.
func (c *Client) GetSession(token string) (Session, error) {
	key, username, err := c.api.Login(token)
	if err != nil {
		return Session{}, fmt.Errorf("get session: %w", err)
	}
	if username == "" {
		username = "unknown"
	}
	s := Session{Username: username, SessionKey: key}
	c.SetSession(s)
	return s, nil
}

// UpdateNowPlaying sends a "now playing" notification to Last.fm.
func (c *Client) UpdateNowPlaying(track ScrobbleTrack) error {
	if !c.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	if err := c.api.UpdateNowPlaying(trackParams(track, false)); err != nil {
		return fmt.Errorf("update now playing: %w", err)
	}
	return nil
}

// Scrobble submits a track play to Last.fm.
func (c *Client) Scrobble(track ScrobbleTrack) error {
	if !c.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	if err := c.api.Scrobble(trackParams(track, true)); err != nil {
		return fmt.Errorf("scrobble: %w", err)
	}
	return nil
}

// RecordListen scrobbles l for user. The listen's start time is derived
// from when it was reported and how long it lasted.
func (c *Client) RecordListen(ctx context.Context, user string, l stats.Listen) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if u, ok := c.CurrentUser(); !ok || u != user {
		return ErrNotAuthenticated
	}
	started := l.PlayedAt.Add(-time.Duration(l.Seconds * float64(time.Second)))
	return c.Scrobble(ScrobbleTrack{
		Artist:    l.Artist,
		Track:     l.Title,
		Album:     l.Album,
		Timestamp: started,
	})
}

// NowPlaying announces track; failures are returned to the caller.
func (c *Client) NowPlaying(track playlist.Track, d time.Duration) error {
	return c.UpdateNowPlaying(ScrobbleTrack{
		Artist:   track.Artist,
		Track:    track.Title,
		Album:    track.Album,
		Duration: d,
	})
}

func trackParams(track ScrobbleTrack, withTimestamp bool) lastfm.P {
	params := lastfm.P{
		"artist": track.Artist,
		"track":  track.Track,
	}
	if withTimestamp {
		params["timestamp"] = track.Timestamp.Unix()
	}
	if track.Album != "" {
		params["album"] = track.Album
	}
	if track.Duration > 0 {
		params["duration"] = int(track.Duration.Seconds())
	}
	return params
}

// remote adapts the lastfm-go client to API.
type remote struct {
	api *lastfm.Api
}

func (r *remote) SetSession(key string) { r.api.SetSession(key) }

func (r *remote) GetToken() (string, error) { return r.api.GetToken() }

func (r *remote) Login(token string) (string, string, error) {
	if err := r.api.LoginWithToken(token); err != nil {
		return "", "", err
	}
	key := r.api.GetSessionKey()
	info, err := r.api.User.GetInfo(nil)
	if err != nil {
		// Session is valid even when user.getInfo is unavailable.
		return key, "", nil //nolint:nilerr // username is optional
	}
	return key, info.Name, nil
}

func (r *remote) Scrobble(p lastfm.P) error {
	_, err := r.api.Track.Scrobble(p)
	return err
}

func (r *remote) UpdateNowPlaying(p lastfm.P) error {
	_, err := r.api.Track.UpdateNowPlaying(p)
	return err
}
