// Package playlist holds tracks and the ordered queue the player walks
// through.
package playlist

import "strings"

// Track is one playable song. Tracks are values and are never mutated once
// loaded from a catalog.
type Track struct {
	ID        string // stable identifier, derived as <genre>-<title> when absent
	Title     string
	Artist    string
	Album     string // optional
	Genre     string
	Link      string // share or direct link to the audio file
	Thumbnail string // optional artwork URL
}

// NewID derives the identifier used for tracks that do not carry one.
func NewID(genre, title string) string {
	return genre + "-" + title
}

// Key returns the track identifier, deriving it from genre and title when
// ID is empty.
func (t Track) Key() string {
	if t.ID != "" {
		return t.ID
	}
	return NewID(t.Genre, t.Title)
}

// Playable reports whether the track has a link to load.
func (t Track) Playable() bool {
	return strings.TrimSpace(t.Link) != ""
}

// DisplayName returns "Artist - Title", or just the title when the artist
// is unknown.
func (t Track) DisplayName() string {
	if t.Artist == "" {
		return t.Title
	}
	return t.Artist + " - " + t.Title
}

// Playlist holds an ordered collection of tracks.
type Playlist struct {
	tracks []Track
}

// NewPlaylist creates a playlist holding a copy of tracks.
func NewPlaylist(tracks ...Track) *Playlist {
	p := &Playlist{tracks: make([]Track, 0, len(tracks))}
	p.Add(tracks...)
	return p
}

// Add appends tracks to the playlist.
func (p *Playlist) Add(tracks ...Track) {
	p.tracks = append(p.tracks, tracks...)
}

// Clear removes all tracks from the playlist.
func (p *Playlist) Clear() {
	p.tracks = p.tracks[:0]
}

// Tracks returns a copy of all tracks.
func (p *Playlist) Tracks() []Track {
	result := make([]Track, len(p.tracks))
	copy(result, p.tracks)
	return result
}

// Track returns the track at the given index, or nil if out of bounds.
func (p *Playlist) Track(index int) *Track {
	if index < 0 || index >= len(p.tracks) {
		return nil
	}
	return &p.tracks[index]
}

// IndexOf returns the position of the first track with the given key, or -1.
func (p *Playlist) IndexOf(key string) int {
	for i := range p.tracks {
		if p.tracks[i].Key() == key {
			return i
		}
	}
	return -1
}

// Len returns the number of tracks.
func (p *Playlist) Len() int {
	return len(p.tracks)
}
