// internal/state/mock.go
package state

import (
	"sync"
	"time"
)

// MemoryKV is an in-memory key-value store with the same semantics as the
// Manager's kv table.
type MemoryKV struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemoryKV creates an empty store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

func (s *MemoryKV) Get(key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (s *MemoryKV) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte{}, value...)
	return nil
}

func (s *MemoryKV) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *MemoryKV) Update(key string, fn func(old []byte, ok bool) ([]byte, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.data[key]
	value, err := fn(old, ok)
	if err != nil {
		return err
	}
	s.data[key] = append([]byte{}, value...)
	return nil
}

// Mock is a test double for Manager. Snapshots are stored without debounce.
type Mock struct {
	*MemoryKV
	mu        sync.Mutex
	snapshots []PlaybackSnapshot
	closed    bool
}

// NewMock creates a new mock state manager for testing.
func NewMock() *Mock {
	return &Mock{MemoryKV: NewMemoryKV()}
}

func (m *Mock) SavePlayback(snap PlaybackSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots = append(m.snapshots, snap)
}

func (m *Mock) FlushPlayback() error {
	return nil
}

func (m *Mock) LoadPlayback() (*PlaybackSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.snapshots) == 0 {
		return nil, nil //nolint:nilnil // nil snapshot means nothing saved yet
	}
	snap := m.snapshots[len(m.snapshots)-1]
	return &snap, nil
}

func (m *Mock) ClearPlayback() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots = nil
	return nil
}

func (m *Mock) GetVolume() (float64, error) {
	return decodeVolume(m.Get(VolumeKey))
}

func (m *Mock) SaveVolume(level float64) error {
	return m.Set(VolumeKey, []byte(formatVolume(level)))
}

func (m *Mock) GetLastfmSession() (*LastfmSession, error) {
	return decodeLastfm(m.Get(LastfmKey))
}

func (m *Mock) SaveLastfmSession(username, sessionKey string) error {
	data, err := encodeLastfm(username, sessionKey, time.Now())
	if err != nil {
		return err
	}
	return m.Set(LastfmKey, data)
}

func (m *Mock) DeleteLastfmSession() error {
	return m.Delete(LastfmKey)
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Snapshots returns every snapshot saved so far.
func (m *Mock) Snapshots() []PlaybackSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]PlaybackSnapshot(nil), m.snapshots...)
}

// Closed reports whether Close was called.
func (m *Mock) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
