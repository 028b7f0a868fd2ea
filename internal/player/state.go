// internal/player/state.go
package player

// State is the audio resource's own view of playback.
//
//	┌──────────┐  load   ┌──────────┐  ready  ┌──────────┐
//	│ Stopped  │────────▶│ Loading  │────────▶│  Paused  │
//	└──────────┘         └──────────┘         └──────────┘
//	     ▲                    │ fail            ▲     │ play
//	     └────────────────────┘           pause │     ▼
//	                                          ┌──────────┐  end  ┌──────────┐
//	                                          │ Playing  │──────▶│  Ended   │
//	                                          └──────────┘       └──────────┘
//
// Stop returns to Stopped from any state. A new Load from any state enters
// Loading. Play from Ended restarts output at the current position.
type State int

const (
	Stopped State = iota
	Loading
	Paused
	Playing
	Ended
)

// String returns the state name for debugging.
func (s State) String() string {
	switch s {
	case Stopped:
		return "Stopped"
	case Loading:
		return "Loading"
	case Paused:
		return "Paused"
	case Playing:
		return "Playing"
	case Ended:
		return "Ended"
	default:
		return "Unknown"
	}
}

// Loaded returns true if a source is ready to play.
func (s State) Loaded() bool {
	return s == Paused || s == Playing || s == Ended
}

// CanPause returns true if the state allows pausing.
func (s State) CanPause() bool {
	return s == Playing
}

// CanPlay returns true if Play would start output.
func (s State) CanPlay() bool {
	return s == Paused || s == Ended
}
