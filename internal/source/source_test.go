package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "share link with dl=0",
			in:   "https://www.dropbox.com/s/abc123/song.mp3?dl=0",
			want: "https://dl.dropboxusercontent.com/s/abc123/song.mp3?raw=1",
		},
		{
			name: "share link without query",
			in:   "https://www.dropbox.com/s/abc123/song.mp3",
			want: "https://dl.dropboxusercontent.com/s/abc123/song.mp3?raw=1",
		},
		{
			name: "share link keeps other params",
			in:   "https://www.dropbox.com/scl/fi/xyz/song.mp3?rlkey=k1&dl=0",
			want: "https://dl.dropboxusercontent.com/scl/fi/xyz/song.mp3?raw=1&rlkey=k1",
		},
		{
			name: "bare domain",
			in:   "https://dropbox.com/s/abc/song.mp3",
			want: "https://dl.dropboxusercontent.com/s/abc/song.mp3?raw=1",
		},
		{
			name: "already direct",
			in:   "https://dl.dropboxusercontent.com/s/abc/song.mp3?raw=1",
			want: "https://dl.dropboxusercontent.com/s/abc/song.mp3?raw=1",
		},
		{
			name: "direct host missing flag",
			in:   "https://dl.dropboxusercontent.com/s/abc/song.mp3",
			want: "https://dl.dropboxusercontent.com/s/abc/song.mp3?raw=1",
		},
		{
			name: "unknown host",
			in:   "https://cdn.example.com/song.mp3?dl=0",
			want: "https://cdn.example.com/song.mp3?dl=0",
		},
		{
			name: "unknown host mentioning dropbox in path",
			in:   "https://example.com/mirror/dropbox.com/song.mp3",
			want: "https://example.com/mirror/dropbox.com/song.mp3",
		},
		{
			name: "unparseable falls back to replace",
			in:   "https://www.dropbox.com/s/a b/%zz.mp3",
			want: "https://dl.dropboxusercontent.com/s/a b/%zz.mp3?raw=1",
		},
		{
			name: "schemeless falls back to replace",
			in:   "www.dropbox.com/s/abc/song.mp3?dl=0",
			want: "dl.dropboxusercontent.com/s/abc/song.mp3?dl=0&raw=1",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.in))
		})
	}
}

func TestResolve_Idempotent(t *testing.T) {
	inputs := []string{
		"https://www.dropbox.com/s/abc123/song.mp3?dl=0",
		"https://www.dropbox.com/scl/fi/xyz/song.mp3?rlkey=k1&dl=1",
		"https://dropbox.com/s/abc/song.mp3",
		"https://dl.dropboxusercontent.com/s/abc/song.mp3",
		"https://www.dropbox.com/s/a b/%zz.mp3",
		"www.dropbox.com/s/abc/song.mp3",
		"https://cdn.example.com/song.mp3",
		"not a url at all",
	}

	for _, in := range inputs {
		once := Resolve(in)
		assert.Equal(t, once, Resolve(once), "input %q", in)
	}
}

func TestIsDirect(t *testing.T) {
	assert.True(t, IsDirect("https://dl.dropboxusercontent.com/s/a/song.mp3?raw=1"))
	assert.False(t, IsDirect("https://dl.dropboxusercontent.com/s/a/song.mp3"))
	assert.False(t, IsDirect("https://www.dropbox.com/s/a/song.mp3?raw=1"))
	assert.False(t, IsDirect("%zz"))
}
