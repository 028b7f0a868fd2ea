package state

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/aura/internal/playlist"
	"github.com/llehouerou/aura/internal/sched"
	"github.com/llehouerou/aura/internal/stats"
)

// setupTestManager opens an in-memory database driven by a manual scheduler.
func setupTestManager(t *testing.T) (*Manager, *sched.Manual) {
	t.Helper()
	s := sched.NewManual(time.Unix(0, 0))
	m, err := Open(Options{Path: ":memory:", Scheduler: s})
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m, s
}

func TestKV_GetMissing(t *testing.T) {
	m, _ := setupTestManager(t)

	v, ok, err := m.Get("missing")

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, v)
}

func TestKV_SetGetOverwrite(t *testing.T) {
	m, _ := setupTestManager(t)

	require.NoError(t, m.Set("k", []byte("one")))
	require.NoError(t, m.Set("k", []byte("two")))

	v, ok, err := m.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "two", string(v))
}

func TestKV_EmptyValueIsPresent(t *testing.T) {
	m, _ := setupTestManager(t)

	require.NoError(t, m.Set("k", nil))

	_, ok, err := m.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestKV_Delete(t *testing.T) {
	m, _ := setupTestManager(t)
	require.NoError(t, m.Set("k", []byte("v")))

	require.NoError(t, m.Delete("k"))
	require.NoError(t, m.Delete("k"))

	_, ok, err := m.Get("k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestKV_Update(t *testing.T) {
	m, _ := setupTestManager(t)

	for range 3 {
		err := m.Update("counter", func(old []byte, ok bool) ([]byte, error) {
			return append(old, 'x'), nil
		})
		require.NoError(t, err)
	}

	v, _, err := m.Get("counter")
	require.NoError(t, err)
	assert.Equal(t, "xxx", string(v))
}

func TestKV_UpdateErrorRollsBack(t *testing.T) {
	m, _ := setupTestManager(t)
	require.NoError(t, m.Set("k", []byte("keep")))

	err := m.Update("k", func([]byte, bool) ([]byte, error) {
		return nil, assert.AnError
	})

	require.ErrorIs(t, err, assert.AnError)
	v, _, _ := m.Get("k")
	assert.Equal(t, "keep", string(v))
}

func testSnapshot() PlaybackSnapshot {
	tracks := []playlist.Track{
		{ID: "rock-A", Title: "A", Genre: "rock", Link: "https://x.test/a.mp3"},
		{ID: "rock-B", Title: "B", Genre: "rock", Link: "https://x.test/b.mp3"},
	}
	return PlaybackSnapshot{
		Track:           &tracks[1],
		IsPlaying:       true,
		PositionSeconds: 42.5,
		Playlist:        tracks,
		Index:           1,
		RepeatMode:      "one",
	}
}

func TestLoadPlayback_Empty(t *testing.T) {
	m, _ := setupTestManager(t)

	snap, err := m.LoadPlayback()

	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestSavePlayback_Debounced(t *testing.T) {
	m, s := setupTestManager(t)

	m.SavePlayback(PlaybackSnapshot{Index: 0})
	s.Advance(300 * time.Millisecond)
	m.SavePlayback(testSnapshot())
	s.Advance(300 * time.Millisecond)

	snap, err := m.LoadPlayback()
	require.NoError(t, err)
	assert.Nil(t, snap, "nothing written before the debounce elapses")

	s.Advance(200 * time.Millisecond)

	snap, err = m.LoadPlayback()
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, 1, snap.Index)
	assert.Equal(t, "rock-B", snap.Track.ID)
	assert.Equal(t, 42500*time.Millisecond, snap.Position())
	assert.Len(t, snap.Playlist, 2)
	assert.Equal(t, 0, s.Pending())
}

func TestFlushPlayback(t *testing.T) {
	m, s := setupTestManager(t)

	m.SavePlayback(testSnapshot())
	require.NoError(t, m.FlushPlayback())

	snap, err := m.LoadPlayback()
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.True(t, snap.IsPlaying)
	assert.Equal(t, 0, s.Pending(), "flush cancels the debounce timer")
	assert.NoError(t, m.FlushPlayback(), "nothing pending")
}

func TestClose_FlushesPending(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aura.db")
	s := sched.NewManual(time.Unix(0, 0))
	m, err := Open(Options{Path: path, Scheduler: s})
	require.NoError(t, err)

	m.SavePlayback(testSnapshot())
	require.NoError(t, m.Close())

	m, err = Open(Options{Path: path, Scheduler: s})
	require.NoError(t, err)
	defer m.Close()

	snap, err := m.LoadPlayback()
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, "one", snap.RepeatMode)
}

func TestClearPlayback(t *testing.T) {
	m, s := setupTestManager(t)
	m.SavePlayback(testSnapshot())
	require.NoError(t, m.FlushPlayback())
	m.SavePlayback(testSnapshot())

	require.NoError(t, m.ClearPlayback())
	s.Advance(time.Second)

	snap, err := m.LoadPlayback()
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestLoadPlayback_ForwardCompatible(t *testing.T) {
	m, _ := setupTestManager(t)
	raw := map[string]any{
		"track":            map[string]any{"ID": "x", "Title": "X", "Link": "https://x.test/x.mp3"},
		"position_seconds": 12,
		"index":            0,
		"future_field":     []int{1, 2, 3},
	}
	data, err := json.Marshal(raw)
	require.NoError(t, err)
	require.NoError(t, m.Set(PlaybackKey, data))

	snap, err := m.LoadPlayback()

	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, "x", snap.Track.ID)
	assert.Equal(t, 12*time.Second, snap.Position())
	assert.Empty(t, snap.RepeatMode)
}

func TestLoadPlayback_Corrupt(t *testing.T) {
	m, _ := setupTestManager(t)
	require.NoError(t, m.Set(PlaybackKey, []byte("{oops")))

	_, err := m.LoadPlayback()

	assert.Error(t, err)
}

func TestVolume(t *testing.T) {
	m, _ := setupTestManager(t)

	v, err := m.GetVolume()
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)

	require.NoError(t, m.SaveVolume(0.35))
	v, err = m.GetVolume()
	require.NoError(t, err)
	assert.Equal(t, 0.35, v)

	require.NoError(t, m.Set(VolumeKey, []byte("7")))
	v, _ = m.GetVolume()
	assert.Equal(t, 1.0, v, "clamped")
}

func TestLastfmSession(t *testing.T) {
	m, _ := setupTestManager(t)

	sess, err := m.GetLastfmSession()
	require.NoError(t, err)
	assert.Nil(t, sess)

	require.NoError(t, m.SaveLastfmSession("alice", "key1"))
	require.NoError(t, m.SaveLastfmSession("alice", "key2"))

	sess, err = m.GetLastfmSession()
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, "alice", sess.Username)
	assert.Equal(t, "key2", sess.SessionKey)

	assert.False(t, sess.LinkedAt.IsZero())

	require.NoError(t, m.DeleteLastfmSession())
	sess, err = m.GetLastfmSession()
	require.NoError(t, err)
	assert.Nil(t, sess)

	require.NoError(t, m.Set(LastfmKey, []byte("{")))
	_, err = m.GetLastfmSession()
	require.Error(t, err)

	require.NoError(t, m.Set(LastfmKey, []byte(`{"username":"alice"}`)))
	sess, err = m.GetLastfmSession()
	require.NoError(t, err)
	assert.Nil(t, sess, "a session without key counts as unlinked")
}

func TestManager_BacksStatsBuffer(t *testing.T) {
	m, _ := setupTestManager(t)
	b := stats.NewBuffer(m)

	require.NoError(t, b.Add("alice", stats.Listen{TrackID: "a", Minutes: 1.5}))
	require.NoError(t, b.Count(stats.Listen{TrackID: "b", Minutes: 2}))

	totals, err := b.Totals()
	require.NoError(t, err)
	assert.Equal(t, 2, totals.SongsPlayed)
	assert.Equal(t, 3.5, totals.MinutesListened)
	pending, err := b.Pending()
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestMock_StoresSnapshotsImmediately(t *testing.T) {
	m := NewMock()
	m.SavePlayback(PlaybackSnapshot{Index: 1})
	m.SavePlayback(PlaybackSnapshot{Index: 2})

	snap, err := m.LoadPlayback()
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Index)
	assert.Len(t, m.Snapshots(), 2)
}
