package catalog

import (
	"strings"

	"github.com/llehouerou/aura/internal/playlist"
)

// Search returns the tracks whose title or artist contains query, or one
// of whose keywords does. Matching is case-insensitive; an empty query
// matches nothing.
func (c *Catalog) Search(query string) []playlist.Track {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	var out []playlist.Track
	for _, s := range c.all {
		if s.matches(q) {
			out = append(out, s.Track)
		}
	}
	return out
}

func (s Song) matches(q string) bool {
	if strings.Contains(strings.ToLower(s.Title), q) || strings.Contains(strings.ToLower(s.Artist), q) {
		return true
	}
	for _, kw := range s.Keywords {
		if strings.Contains(kw, q) {
			return true
		}
	}
	return false
}
