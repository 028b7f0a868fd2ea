package state

import (
	"strconv"
)

// VolumeKey is the kv key holding the output volume.
const VolumeKey = "player.volume"

// GetVolume returns the saved volume level, or 1.0 if none was saved.
func (m *Manager) GetVolume() (float64, error) {
	return decodeVolume(m.Get(VolumeKey))
}

// SaveVolume persists the volume level.
func (m *Manager) SaveVolume(level float64) error {
	return m.Set(VolumeKey, []byte(formatVolume(level)))
}

func decodeVolume(data []byte, ok bool, err error) (float64, error) {
	if err != nil {
		return 0, err
	}
	if !ok {
		return 1.0, nil
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return 1.0, nil //nolint:nilerr // unreadable value falls back to full volume
	}
	return min(max(v, 0), 1), nil
}

func formatVolume(level float64) string {
	return strconv.FormatFloat(level, 'f', -1, 64)
}
