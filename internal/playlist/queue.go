package playlist

// Queue wraps a Playlist with a cursor. The cursor wraps around both ends,
// so Next on the last track returns the first one.
type Queue struct {
	playlist     *Playlist
	currentIndex int // -1 when the queue is empty
}

// NewQueue creates a new empty queue.
func NewQueue() *Queue {
	return &Queue{
		playlist:     NewPlaylist(),
		currentIndex: -1,
	}
}

// SetPlaylist replaces the queue contents and moves the cursor to start.
// Out-of-range start indices are clamped to 0. It returns the track under
// the cursor, or nil for an empty list.
func (q *Queue) SetPlaylist(tracks []Track, start int) *Track {
	q.playlist = NewPlaylist(tracks...)
	if q.playlist.Len() == 0 {
		q.currentIndex = -1
		return nil
	}
	if start < 0 || start >= q.playlist.Len() {
		start = 0
	}
	q.currentIndex = start
	return q.Current()
}

// Current returns the track under the cursor, or nil if none.
func (q *Queue) Current() *Track {
	return q.playlist.Track(q.currentIndex)
}

// CurrentIndex returns the cursor position (-1 if empty).
func (q *Queue) CurrentIndex() int {
	return q.currentIndex
}

// Next advances the cursor, wrapping to the first track after the last.
// Returns nil on an empty queue.
func (q *Queue) Next() *Track {
	n := q.playlist.Len()
	if n == 0 {
		return nil
	}
	q.currentIndex = (q.currentIndex + 1) % n
	return q.Current()
}

// Previous moves the cursor back, wrapping to the last track before the
// first. Returns nil on an empty queue.
func (q *Queue) Previous() *Track {
	n := q.playlist.Len()
	if n == 0 {
		return nil
	}
	q.currentIndex = (q.currentIndex - 1 + n) % n
	return q.Current()
}

// JumpTo sets the cursor to index.
// Returns the track at that position, or nil if invalid.
func (q *Queue) JumpTo(index int) *Track {
	if index < 0 || index >= q.playlist.Len() {
		return nil
	}
	q.currentIndex = index
	return q.Current()
}

// Clear removes all tracks.
func (q *Queue) Clear() {
	q.playlist.Clear()
	q.currentIndex = -1
}

// Tracks returns a copy of the queued tracks.
func (q *Queue) Tracks() []Track {
	return q.playlist.Tracks()
}

// Len returns the number of tracks in the queue.
func (q *Queue) Len() int {
	return q.playlist.Len()
}

// IsEmpty returns true if the queue has no tracks.
func (q *Queue) IsEmpty() bool {
	return q.playlist.Len() == 0
}

// IndexOf returns the position of the track with the given key, or -1.
func (q *Queue) IndexOf(key string) int {
	return q.playlist.IndexOf(key)
}
