package playback

import "strings"

// State is a step of the engine's state machine.
//
//	Empty -> Loading -> Playing <-> Paused
//	                       |  \
//	                     Ended  Error -> Loading (retry) or next track
type State int

const (
	StateEmpty State = iota
	StateLoading
	StatePlaying
	StatePaused
	StateEnded
	StateError
)

var stateNames = [...]string{
	StateEmpty:   "Empty",
	StateLoading: "Loading",
	StatePlaying: "Playing",
	StatePaused:  "Paused",
	StateEnded:   "Ended",
	StateError:   "Error",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "Unknown"
	}
	return stateNames[s]
}

// Started reports whether the output holds a started track, so a media
// error can interrupt it.
func (s State) Started() bool {
	return s == StatePlaying || s == StatePaused
}

// RepeatMode selects what happens when a track finishes. The playlist always
// wraps; RepeatOne restarts the finished track instead of advancing.
type RepeatMode int

const (
	RepeatOff RepeatMode = iota
	RepeatOne
)

func (m RepeatMode) String() string {
	switch m {
	case RepeatOff:
		return "Off"
	case RepeatOne:
		return "One"
	}
	return "Unknown"
}

// ParseRepeatMode is the inverse of String, case-insensitive. Anything else
// is RepeatOff.
func ParseRepeatMode(s string) RepeatMode {
	if strings.EqualFold(s, RepeatOne.String()) {
		return RepeatOne
	}
	return RepeatOff
}
