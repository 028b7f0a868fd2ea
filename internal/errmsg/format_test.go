//nolint:goconst // test cases intentionally repeat strings for readability
package errmsg

import (
	"errors"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpCatalogLoad,
			err:      nil,
			expected: "",
		},
		{
			name:     "formats error with operation",
			op:       OpCatalogLoad,
			err:      errors.New("catalog is empty"),
			expected: "Failed to load catalog: catalog is empty",
		},
		{
			name:     "playback operation",
			op:       OpPlaybackStart,
			err:      errors.New("no audio device"),
			expected: "Failed to start playback: no audio device",
		},
		{
			name:     "stats operation",
			op:       OpStatsTotals,
			err:      errors.New("database is locked"),
			expected: "Failed to read listening totals: database is locked",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.op, tt.err)
			if result != tt.expected {
				t.Errorf("Format(%q, %v) = %q, want %q", tt.op, tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatWith(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		context  string
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpTrackLoad,
			context:  "Blue in Green",
			err:      nil,
			expected: "",
		},
		{
			name:     "formats error with context",
			op:       OpTrackLoad,
			context:  "Blue in Green",
			err:      errors.New("http 404"),
			expected: "Failed to load track 'Blue in Green': http 404",
		},
		{
			name:     "empty context falls back to Format",
			op:       OpTrackLoad,
			context:  "",
			err:      errors.New("http 404"),
			expected: "Failed to load track: http 404",
		},
		{
			name:     "catalog load with path context",
			op:       OpCatalogLoad,
			context:  "/srv/jsons",
			err:      errors.New("permission denied"),
			expected: "Failed to load catalog '/srv/jsons': permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatWith(tt.op, tt.context, tt.err)
			if result != tt.expected {
				t.Errorf("FormatWith(%q, %q, %v) = %q, want %q", tt.op, tt.context, tt.err, result, tt.expected)
			}
		})
	}
}

func TestOpConstants(t *testing.T) {
	ops := []Op{
		OpCatalogLoad,
		OpPlaybackStart, OpPlaybackResume, OpPlaybackSeek, OpPlaybackNext,
		OpPlaybackPrev, OpPlaybackRestore, OpTrackLoad, OpTrackPlay,
		OpVolumeLoad, OpVolumeSave,
		OpStatsTotals,
		OpLastfmAuth, OpLastfmUnlink,
		OpMediaSession, OpKeepAlive,
		OpConfigLoad, OpStateOpen, OpInitialize,
	}

	testErr := errors.New("test error")

	for _, op := range ops {
		t.Run(string(op), func(t *testing.T) {
			if op == "" {
				t.Error("Op constant should not be empty")
			}

			expected := "Failed to " + string(op) + ": test error"
			if result := Format(op, testErr); result != expected {
				t.Errorf("Format = %q, want %q", result, expected)
			}
		})
	}
}
