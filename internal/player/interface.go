// internal/player/interface.go
package player

import "time"

// Interface is the audio resource the playback engine drives. It mirrors a
// network media element: a source is loaded asynchronously, then played,
// paused and seeked, while progress and failures arrive as Events.
type Interface interface {
	// Load replaces the current source. ready is called exactly once from
	// another goroutine when the source can play or has failed, unless a
	// later Load or Stop supersedes it, in which case it is never called.
	Load(src string, ready func(error))
	Play() error
	Pause()
	Stop()
	Seek(pos time.Duration) error
	State() State
	Source() string
	Position() time.Duration
	Duration() time.Duration
	Volume() float64
	SetVolume(level float64)
	// ResumeIfSuspended restarts the output device if the platform
	// suspended it while playback is active.
	ResumeIfSuspended() error
	OnEvent(fn func(Event))
}

// Verify Player implements Interface at compile time.
var _ Interface = (*Player)(nil)
