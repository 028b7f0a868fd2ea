package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jazzJSON = `[
	{"title": "Blue in Green", "artist": "Miles Davis & Bill Evans", "link": "https://example.com/blue.mp3", "keywords": "modal; cool, 1959", "playCount": 4},
	{"title": "So What", "artist": "Miles Davis", "link": "https://example.com/sowhat.mp3", "thumbnail": "https://img/so.jpg", "keywords": ["Modal", "trumpet,classic", 7]},
	{"id": "custom", "title": "Naima", "artist": "Coltrane"}
]`

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestDecode(t *testing.T) {
	songs, err := Decode(strings.NewReader(jazzJSON), "jazz")
	require.NoError(t, err)
	require.Len(t, songs, 3)

	blue := songs[0]
	assert.Equal(t, "jazz-Blue in Green", blue.ID)
	assert.Equal(t, "jazz", blue.Genre)
	assert.Equal(t, "https://example.com/blue.mp3", blue.Link)
	assert.Equal(t, 4, blue.PlayCount)
	assert.Equal(t, []string{"modal", "cool", "1959", "blue", "in", "green", "miles", "davis", "bill", "evans"}, blue.Keywords)

	sowhat := songs[1]
	assert.Equal(t, "https://img/so.jpg", sowhat.Thumbnail)
	assert.Equal(t, []string{"modal", "trumpet", "classic", "so", "what", "miles", "davis"}, sowhat.Keywords)

	assert.Equal(t, "custom", songs[2].ID, "explicit id is kept")
	assert.Equal(t, []string{"naima", "coltrane"}, songs[2].Keywords)
}

func TestDecode_Invalid(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"title": "not an array"}`), "x")
	assert.Error(t, err)
}

func TestGenreOf(t *testing.T) {
	tests := map[string]string{
		"/srv/jsons/Hindi.json":                        "hindi",
		"50s.json":                                     "50s",
		"https://cdn.example.com/jsons/remix.json?v=2": "remix",
	}
	for src, want := range tests {
		if got := GenreOf(src); got != want {
			t.Errorf("GenreOf(%q) = %q, want %q", src, got, want)
		}
	}
}

func TestLoader_LoadDirectoryAndFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "jazz.json", jazzJSON)
	writeFile(t, dir, "bhojpuri.json", `[{"title": "Lagelu", "artist": "Pawan"}]`)
	writeFile(t, dir, "notes.txt", "ignored")
	extra := writeFile(t, t.TempDir(), "remix.json", `[{"title": "Mix", "artist": "DJ"}]`)

	c, err := Loader{}.Load(context.Background(), []string{dir, extra})
	require.NoError(t, err)

	assert.Equal(t, []string{"bhojpuri", "jazz", "remix"}, c.Genres())
	assert.Equal(t, 5, c.Len())
	assert.Len(t, c.Genre("JAZZ"), 3)
	assert.Equal(t, "Lagelu", c.All()[0].Title)
	assert.Empty(t, c.Genre("unknown"))
}

func TestLoader_SkipsBrokenSources(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "jazz.json", jazzJSON)
	bad := writeFile(t, dir, "broken.json", "[{")
	logger, hook := test.NewNullLogger()

	c, err := Loader{Logger: logger}.Load(context.Background(), []string{bad, filepath.Join(dir, "missing.json"), good})
	require.NoError(t, err)
	assert.Equal(t, []string{"jazz"}, c.Genres())

	warnings := 0
	for _, e := range hook.AllEntries() {
		if e.Message == "failed to load catalog" {
			warnings++
		}
	}
	assert.Equal(t, 2, warnings)
}

func TestLoader_Empty(t *testing.T) {
	c, err := Loader{}.Load(context.Background(), nil)
	require.ErrorIs(t, err, ErrEmpty)
	assert.Equal(t, 0, c.Len())
}

func TestLoader_HTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/jsons/punjabi.json":
			_ = json.NewEncoder(w).Encode([]map[string]string{{"title": "Lover", "artist": "Diljit"}})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c, err := Loader{Client: srv.Client()}.Load(context.Background(), []string{
		srv.URL + "/jsons/punjabi.json",
		srv.URL + "/jsons/missing.json",
	})
	require.NoError(t, err)
	require.Equal(t, 1, c.Len())
	assert.Equal(t, "punjabi-Lover", c.All()[0].ID)
}

func TestSearch(t *testing.T) {
	songs, err := Decode(strings.NewReader(jazzJSON), "jazz")
	require.NoError(t, err)
	c := New()
	c.Add("Jazz", songs)
	assert.Equal(t, []string{"jazz"}, c.Genres())

	titles := func(q string) []string {
		var out []string
		for _, tr := range c.Search(q) {
			out = append(out, tr.Title)
		}
		return out
	}

	assert.Equal(t, []string{"Blue in Green", "So What"}, titles("MILES"))
	assert.Equal(t, []string{"So What"}, titles("trump"), "keyword match")
	assert.Equal(t, []string{"Blue in Green"}, titles("1959"))
	assert.Equal(t, []string{"Naima"}, titles("  naima "))
	assert.Nil(t, titles(""))
	assert.Nil(t, titles("polka"))
}
