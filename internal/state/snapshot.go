package state

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/llehouerou/aura/internal/playlist"
	"github.com/llehouerou/aura/internal/sched"
)

// PlaybackKey is the kv key holding the last playback snapshot.
const PlaybackKey = "playback.snapshot"

// PlaybackSnapshot is what is needed to resume listening after a restart.
// Fields are optional so older and newer snapshots decode into each other.
type PlaybackSnapshot struct {
	Track           *playlist.Track  `json:"track,omitempty"`
	IsPlaying       bool             `json:"is_playing"`
	PositionSeconds float64          `json:"position_seconds"`
	Playlist        []playlist.Track `json:"playlist,omitempty"`
	Index           int              `json:"index"`
	RepeatMode      string           `json:"repeat_mode,omitempty"`
	Volume          *float64         `json:"volume,omitempty"`
	SavedAt         time.Time        `json:"saved_at,omitzero"`
}

// Position returns the saved position as a duration.
func (s PlaybackSnapshot) Position() time.Duration {
	return time.Duration(s.PositionSeconds * float64(time.Second))
}

// SavePlayback schedules a debounced write of snap. Rapid successive saves
// collapse into the last one.
func (m *Manager) SavePlayback(snap PlaybackSnapshot) {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	m.pending = &snap
	m.saveTimer = sched.Stop(m.saveTimer)
	m.saveTimer = m.sched.AfterFunc(m.debounce, func() {
		_ = m.FlushPlayback()
	})
}

// FlushPlayback writes a pending snapshot immediately.
func (m *Manager) FlushPlayback() error {
	m.saveMu.Lock()
	m.saveTimer = sched.Stop(m.saveTimer)
	pending := m.pending
	m.pending = nil
	m.saveMu.Unlock()

	if pending == nil {
		return nil
	}
	return m.writePlayback(*pending)
}

func (m *Manager) writePlayback(snap PlaybackSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode playback snapshot: %w", err)
	}
	return m.Set(PlaybackKey, data)
}

// LoadPlayback returns the stored snapshot, or nil if none was saved.
func (m *Manager) LoadPlayback() (*PlaybackSnapshot, error) {
	return decodePlayback(m.Get(PlaybackKey))
}

// ClearPlayback drops both the pending and the stored snapshot.
func (m *Manager) ClearPlayback() error {
	m.saveMu.Lock()
	m.saveTimer = sched.Stop(m.saveTimer)
	m.pending = nil
	m.saveMu.Unlock()
	return m.Delete(PlaybackKey)
}

func decodePlayback(data []byte, ok bool, err error) (*PlaybackSnapshot, error) {
	if err != nil {
		return nil, err
	}
	if !ok || len(data) == 0 {
		return nil, nil //nolint:nilnil // nil snapshot means nothing saved yet
	}
	var snap PlaybackSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode playback snapshot: %w", err)
	}
	return &snap, nil
}
