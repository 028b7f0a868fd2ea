package state

import (
	"encoding/json"
	"fmt"
	"time"
)

// LastfmKey is the kv key holding the linked Last.fm account.
const LastfmKey = "lastfm.session"

// LastfmSession is a linked Last.fm account.
type LastfmSession struct {
	Username   string    `json:"username"`
	SessionKey string    `json:"session_key"`
	LinkedAt   time.Time `json:"linked_at"`
}

// GetLastfmSession returns the linked account, or nil when none is linked.
func (m *Manager) GetLastfmSession() (*LastfmSession, error) {
	return decodeLastfm(m.Get(LastfmKey))
}

// SaveLastfmSession links username with its session key, replacing any
// previous account.
func (m *Manager) SaveLastfmSession(username, sessionKey string) error {
	data, err := encodeLastfm(username, sessionKey, m.sched.Now())
	if err != nil {
		return err
	}
	return m.Set(LastfmKey, data)
}

// DeleteLastfmSession unlinks the account.
func (m *Manager) DeleteLastfmSession() error {
	return m.Delete(LastfmKey)
}

func encodeLastfm(username, sessionKey string, at time.Time) ([]byte, error) {
	data, err := json.Marshal(LastfmSession{
		Username:   username,
		SessionKey: sessionKey,
		LinkedAt:   at.UTC().Truncate(time.Second),
	})
	if err != nil {
		return nil, fmt.Errorf("encode lastfm session: %w", err)
	}
	return data, nil
}

func decodeLastfm(data []byte, ok bool, err error) (*LastfmSession, error) {
	if err != nil || !ok {
		return nil, err
	}
	var s LastfmSession
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode lastfm session: %w", err)
	}
	if s.SessionKey == "" {
		return nil, nil //nolint:nilnil // an empty key is the same as unlinked
	}
	return &s, nil
}
