// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Catalog operations
	OpCatalogLoad Op = "load catalog"

	// Playback operations
	OpPlaybackStart   Op = "start playback"
	OpPlaybackResume  Op = "resume playback"
	OpPlaybackSeek    Op = "seek"
	OpPlaybackNext    Op = "skip to next track"
	OpPlaybackPrev    Op = "go to previous track"
	OpPlaybackRestore Op = "restore playback"
	OpTrackLoad       Op = "load track"
	OpTrackPlay       Op = "play track"

	// Volume
	OpVolumeLoad Op = "load volume"
	OpVolumeSave Op = "save volume"

	// Listening stats
	OpStatsTotals Op = "read listening totals"

	// Last.fm
	OpLastfmAuth   Op = "link Last.fm account"
	OpLastfmUnlink Op = "unlink Last.fm account"

	// Media session and background playback
	OpMediaSession Op = "start media session"
	OpKeepAlive    Op = "start background keep-alive"

	// Initialization
	OpConfigLoad Op = "load configuration"
	OpStateOpen  Op = "open state database"
	OpInitialize Op = "initialize application"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
