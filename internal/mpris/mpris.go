//go:build linux

package mpris

import (
	"fmt"
	"hash/fnv"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"

	"github.com/llehouerou/aura/internal/playback"
)

// Adapter exposes a Session and a Controller over MPRIS on D-Bus.
type Adapter struct {
	server *server.Server
}

// New starts serving MPRIS under the given bus name suffix.
func New(name string, ctrl Controller, session *Session) (*Adapter, error) {
	a := &Adapter{
		server: server.NewServer(name, &rootAdapter{}, &playerAdapter{ctrl: ctrl, session: session}),
	}

	go func() {
		_ = a.server.Listen()
	}()

	return a, nil
}

// Close stops the adapter and releases D-Bus resources.
func (a *Adapter) Close() error {
	return a.server.Stop()
}

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct{}

func (r *rootAdapter) Raise() error {
	return nil // Not supported
}

func (r *rootAdapter) Quit() error {
	return nil // Not supported - app manages its own lifecycle
}

func (r *rootAdapter) CanQuit() (bool, error) {
	return false, nil
}

func (r *rootAdapter) CanRaise() (bool, error) {
	return false, nil
}

func (r *rootAdapter) HasTrackList() (bool, error) {
	return false, nil
}

func (r *rootAdapter) Identity() (string, error) {
	return "Aura", nil
}

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{"https", "http"}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{"audio/mpeg", "audio/flac", "audio/ogg", "audio/wav"}, nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter and the loop
// status extension. Reads come from the session cache, commands go to the
// controller.
type playerAdapter struct {
	ctrl    Controller
	session *Session
}

func (p *playerAdapter) Next() error      { return p.ctrl.Next() }
func (p *playerAdapter) Previous() error  { return p.ctrl.Previous() }
func (p *playerAdapter) Pause() error     { return p.ctrl.Pause() }
func (p *playerAdapter) PlayPause() error { return p.ctrl.Toggle() }
func (p *playerAdapter) Stop() error      { return p.ctrl.Pause() }
func (p *playerAdapter) Play() error      { return p.ctrl.Resume() }

func (p *playerAdapter) Seek(offset types.Microseconds) error {
	pos := p.session.Position() + time.Duration(offset)*time.Microsecond
	return p.ctrl.SeekTo(max(pos, 0))
}

func (p *playerAdapter) SetPosition(_ string, position types.Microseconds) error {
	return p.ctrl.SeekTo(time.Duration(position) * time.Microsecond)
}

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(_ string) error {
	return nil // Not supported
}

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	return playbackStatus(p.session.Status()), nil
}

func (p *playerAdapter) Rate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) SetRate(_ float64) error {
	return nil // Not supported
}

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	return metadata(p.session.Metadata()), nil
}

func (p *playerAdapter) Volume() (float64, error) {
	return p.ctrl.Volume(), nil
}

func (p *playerAdapter) SetVolume(v float64) error {
	p.ctrl.SetVolume(v)
	return nil
}

func (p *playerAdapter) Position() (int64, error) {
	return p.session.Position().Microseconds(), nil
}

func (p *playerAdapter) MinimumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) MaximumRate() (float64, error) {
	return 1.0, nil
}

// The playlist wraps, so next and previous are always available once
// something is loaded.
func (p *playerAdapter) CanGoNext() (bool, error) {
	return p.session.Metadata().TrackID != "", nil
}

func (p *playerAdapter) CanGoPrevious() (bool, error) {
	return p.session.Metadata().TrackID != "", nil
}

func (p *playerAdapter) CanPlay() (bool, error) {
	return p.session.Metadata().TrackID != "", nil
}

func (p *playerAdapter) CanPause() (bool, error) {
	return true, nil
}

func (p *playerAdapter) CanSeek() (bool, error) {
	return true, nil
}

func (p *playerAdapter) CanControl() (bool, error) {
	return true, nil
}

// LoopStatus implements OrgMprisMediaPlayer2PlayerAdapterLoopStatus.
func (p *playerAdapter) LoopStatus() (types.LoopStatus, error) {
	return loopStatus(p.ctrl.RepeatMode()), nil
}

// SetLoopStatus implements OrgMprisMediaPlayer2PlayerAdapterLoopStatus.
func (p *playerAdapter) SetLoopStatus(status types.LoopStatus) error {
	p.ctrl.SetRepeatMode(repeatMode(status))
	return nil
}

func playbackStatus(s playback.Status) types.PlaybackStatus {
	switch s {
	case playback.StatusPlaying:
		return types.PlaybackStatusPlaying
	case playback.StatusPaused:
		return types.PlaybackStatusPaused
	default:
		return types.PlaybackStatusStopped
	}
}

// loopStatus maps the repeat mode. The playlist always wraps, so RepeatOff
// is reported as a looping playlist.
func loopStatus(m playback.RepeatMode) types.LoopStatus {
	if m == playback.RepeatOne {
		return types.LoopStatusTrack
	}
	return types.LoopStatusPlaylist
}

func repeatMode(s types.LoopStatus) playback.RepeatMode {
	if s == types.LoopStatusTrack {
		return playback.RepeatOne
	}
	return playback.RepeatOff
}

func metadata(md playback.Metadata) types.Metadata {
	if md.TrackID == "" {
		return types.Metadata{}
	}
	meta := types.Metadata{
		TrackId: dbus.ObjectPath(formatTrackID(md.TrackID)),
		Length:  types.Microseconds(md.Length.Microseconds()),
		Title:   md.Title,
		Album:   md.Album,
		ArtUrl:  md.ArtURL,
	}
	if md.Artist != "" {
		meta.Artist = []string{md.Artist}
	}
	return meta
}

func formatTrackID(id string) string {
	h := fnv.New64a()
	h.Write([]byte(id))
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%x", h.Sum64())
}
