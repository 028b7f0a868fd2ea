package stats

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// BufferKey is the store key holding buffered stats.
const BufferKey = "stats.buffer"

// Store is a durable byte store.
type Store interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
}

// Updater is implemented by stores that can read-modify-write a key
// atomically. Buffer uses it when available.
type Updater interface {
	Update(key string, fn func(old []byte, ok bool) ([]byte, error)) error
}

// Totals are the locally known listening totals.
type Totals struct {
	SongsPlayed     int       `json:"songs_played"`
	MinutesListened float64   `json:"minutes_listened"`
	LastPlayed      time.Time `json:"last_played,omitzero"`
}

// PendingListen is a listen the remote recorder has not accepted yet.
type PendingListen struct {
	User   string `json:"user"`
	Listen Listen `json:"listen"`
}

type bufferData struct {
	Totals  Totals          `json:"totals"`
	Pending []PendingListen `json:"pending,omitempty"`
}

// Buffer keeps totals and undelivered listens in a Store, using a JSON
// read-modify-write of a single key.
type Buffer struct {
	mu    sync.Mutex
	store Store
}

// NewBuffer creates a buffer over store.
func NewBuffer(store Store) *Buffer {
	return &Buffer{store: store}
}

// Count adds a delivered listen to the totals.
func (b *Buffer) Count(l Listen) error {
	return b.update(func(d *bufferData) {
		d.Totals.add(l)
	})
}

// Add adds a listen to the totals and queues it for reconciliation.
func (b *Buffer) Add(user string, l Listen) error {
	return b.update(func(d *bufferData) {
		d.Totals.add(l)
		d.Pending = append(d.Pending, PendingListen{User: user, Listen: l})
	})
}

// Totals returns the stored totals.
func (b *Buffer) Totals() (Totals, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	d, err := b.load()
	return d.Totals, err
}

// Pending returns the queued listens, oldest first.
func (b *Buffer) Pending() ([]PendingListen, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	d, err := b.load()
	return d.Pending, err
}

// Drain removes delivered listens from the queue. delivered reports, for
// each queued listen in order, whether it reached the recorder. Listens
// queued after the snapshot passed to delivered are kept.
func (b *Buffer) Drain(delivered func(i int) bool) error {
	return b.update(func(d *bufferData) {
		kept := d.Pending[:0]
		for i, p := range d.Pending {
			if !delivered(i) {
				kept = append(kept, p)
			}
		}
		d.Pending = kept
	})
}

func (b *Buffer) update(fn func(*bufferData)) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if u, ok := b.store.(Updater); ok {
		err := u.Update(BufferKey, func(old []byte, ok bool) ([]byte, error) {
			d, err := decodeBuffer(old, ok)
			if err != nil {
				return nil, err
			}
			fn(&d)
			return encodeBuffer(d)
		})
		if err != nil {
			return fmt.Errorf("update stats buffer: %w", err)
		}
		return nil
	}

	d, err := b.load()
	if err != nil {
		return err
	}
	fn(&d)
	data, err := encodeBuffer(d)
	if err != nil {
		return err
	}
	if err := b.store.Set(BufferKey, data); err != nil {
		return fmt.Errorf("write stats buffer: %w", err)
	}
	return nil
}

func (b *Buffer) load() (bufferData, error) {
	raw, ok, err := b.store.Get(BufferKey)
	if err != nil {
		return bufferData{}, fmt.Errorf("read stats buffer: %w", err)
	}
	return decodeBuffer(raw, ok)
}

func decodeBuffer(raw []byte, ok bool) (bufferData, error) {
	var d bufferData
	if !ok || len(raw) == 0 {
		return d, nil
	}
	if err := json.Unmarshal(raw, &d); err != nil {
		return bufferData{}, fmt.Errorf("decode stats buffer: %w", err)
	}
	return d, nil
}

func encodeBuffer(d bufferData) ([]byte, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encode stats buffer: %w", err)
	}
	return data, nil
}

func (t *Totals) add(l Listen) {
	t.SongsPlayed++
	t.MinutesListened += l.Minutes
	if l.PlayedAt.After(t.LastPlayed) {
		t.LastPlayed = l.PlayedAt
	}
}
