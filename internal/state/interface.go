// internal/state/interface.go
package state

// Interface defines the state manager contract for dependency injection and testing.
type Interface interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Delete(key string) error
	Update(key string, fn func(old []byte, ok bool) ([]byte, error)) error
	SavePlayback(snap PlaybackSnapshot)
	FlushPlayback() error
	LoadPlayback() (*PlaybackSnapshot, error)
	ClearPlayback() error
	GetVolume() (float64, error)
	SaveVolume(level float64) error
	GetLastfmSession() (*LastfmSession, error)
	SaveLastfmSession(username, sessionKey string) error
	DeleteLastfmSession() error
	Close() error
}

// Verify Manager implements Interface at compile time.
var _ Interface = (*Manager)(nil)
