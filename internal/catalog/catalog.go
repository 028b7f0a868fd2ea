// Package catalog loads the song catalog: one JSON array of songs per
// genre, the genre taken from the file name.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/llehouerou/aura/internal/playlist"
)

// ErrEmpty is returned by Load when no source yielded any song.
var ErrEmpty = errors.New("catalog is empty")

// Song is a catalog entry.
type Song struct {
	playlist.Track
	Keywords  []string
	PlayCount int
}

type rawSong struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Artist    string          `json:"artist"`
	Album     string          `json:"album"`
	Link      string          `json:"link"`
	Thumbnail string          `json:"thumbnail"`
	Keywords  json.RawMessage `json:"keywords"`
	PlayCount int             `json:"playCount"`
}

// Catalog holds the songs of every loaded genre.
type Catalog struct {
	genres map[string][]Song
	order  []string
	all    []Song
}

// Loader reads catalog sources. Sources are JSON files, directories of
// JSON files or http(s) URLs.
type Loader struct {
	Client *http.Client
	Logger logrus.FieldLogger
}

// Load reads every source. A source that fails is logged and skipped;
// ErrEmpty is returned only when nothing could be loaded.
func (l Loader) Load(ctx context.Context, sources []string) (*Catalog, error) {
	log := l.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	log = log.WithField("component", "catalog")

	c := New()
	for _, src := range l.expand(sources, log) {
		songs, err := l.loadSource(ctx, src)
		if err != nil {
			log.WithError(err).WithField("source", src).Warn("failed to load catalog")
			continue
		}
		c.Add(GenreOf(src), songs)
	}
	if len(c.all) == 0 {
		return c, ErrEmpty
	}
	log.WithFields(logrus.Fields{
		"genres": len(c.order),
		"songs":  len(c.all),
	}).Info("catalog loaded")
	return c, nil
}

func (l Loader) expand(sources []string, log logrus.FieldLogger) []string {
	var out []string
	for _, src := range sources {
		if isURL(src) {
			out = append(out, src)
			continue
		}
		info, err := os.Stat(src)
		if err != nil || !info.IsDir() {
			out = append(out, src)
			continue
		}
		matches, err := filepath.Glob(filepath.Join(src, "*.json"))
		if err != nil {
			log.WithError(err).WithField("source", src).Warn("failed to list catalog directory")
			continue
		}
		sort.Strings(matches)
		out = append(out, matches...)
	}
	return out
}

func (l Loader) loadSource(ctx context.Context, src string) ([]Song, error) {
	if !isURL(src) {
		f, err := os.Open(src)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return Decode(f, GenreOf(src))
	}

	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch catalog: %s", resp.Status)
	}
	return Decode(resp.Body, GenreOf(src))
}

// Decode parses a JSON array of songs belonging to genre.
func Decode(r io.Reader, genre string) ([]Song, error) {
	var raw []rawSong
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	songs := make([]Song, 0, len(raw))
	for _, s := range raw {
		t := playlist.Track{
			ID:        s.ID,
			Title:     s.Title,
			Artist:    s.Artist,
			Album:     s.Album,
			Genre:     genre,
			Link:      s.Link,
			Thumbnail: s.Thumbnail,
		}
		if t.ID == "" {
			t.ID = playlist.NewID(genre, s.Title)
		}
		songs = append(songs, Song{
			Track:     t,
			Keywords:  keywords(s.Keywords, s.Title, s.Artist),
			PlayCount: s.PlayCount,
		})
	}
	return songs, nil
}

// GenreOf derives the genre from a catalog file name or URL.
func GenreOf(src string) string {
	name := path.Base(filepath.ToSlash(src))
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	return strings.ToLower(strings.TrimSuffix(name, ".json"))
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{genres: make(map[string][]Song)}
}

// Add appends songs to genre, registering the genre on first use.
func (c *Catalog) Add(genre string, songs []Song) {
	genre = strings.ToLower(genre)
	if _, ok := c.genres[genre]; !ok {
		c.order = append(c.order, genre)
	}
	c.genres[genre] = append(c.genres[genre], songs...)
	c.all = append(c.all, songs...)
}

// Genres returns genre names in load order.
func (c *Catalog) Genres() []string {
	return append([]string(nil), c.order...)
}

// Genre returns the tracks of one genre in file order.
func (c *Catalog) Genre(name string) []playlist.Track {
	return tracks(c.genres[strings.ToLower(name)])
}

// All returns every track in load order.
func (c *Catalog) All() []playlist.Track {
	return tracks(c.all)
}

// Len returns the number of songs.
func (c *Catalog) Len() int {
	return len(c.all)
}

func tracks(songs []Song) []playlist.Track {
	out := make([]playlist.Track, len(songs))
	for i, s := range songs {
		out[i] = s.Track
	}
	return out
}
