package player

import (
	"errors"
	"fmt"
	"time"
)

// EventType identifies what the audio resource is reporting.
type EventType int

const (
	// EventTimeUpdate is emitted periodically while playing.
	EventTimeUpdate EventType = iota
	// EventEnded is emitted when the source played to its end.
	EventEnded
	// EventError is emitted when playback fails after the source loaded.
	EventError
)

func (t EventType) String() string {
	switch t {
	case EventTimeUpdate:
		return "timeupdate"
	case EventEnded:
		return "ended"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// ErrorCode classifies resource failures, following media element codes.
type ErrorCode int

const (
	CodeNone ErrorCode = iota
	CodeAborted
	CodeNetwork
	CodeDecode
	CodeSrcNotSupported
	// CodeEmptySource is reported when the source is cleared during a
	// transition. It does not indicate a failure.
	CodeEmptySource
)

func (c ErrorCode) String() string {
	switch c {
	case CodeNone:
		return "none"
	case CodeAborted:
		return "aborted"
	case CodeNetwork:
		return "network"
	case CodeDecode:
		return "decode"
	case CodeSrcNotSupported:
		return "src_not_supported"
	case CodeEmptySource:
		return "empty_source"
	default:
		return "unknown"
	}
}

// Benign reports whether the code can be ignored.
func (c ErrorCode) Benign() bool {
	return c == CodeNone || c == CodeEmptySource
}

// Event is a notification from the audio resource. Src is the source the
// event belongs to, so consumers can drop events from a replaced source.
type Event struct {
	Type     EventType
	Src      string
	Code     ErrorCode
	Err      error
	Position time.Duration
	Duration time.Duration
}

// Sentinel errors.
var (
	ErrNotLoaded   = errors.New("no source loaded")
	ErrEmptySource = errors.New("empty source")
)

// Error is a failure with a media error code.
type Error struct {
	Code ErrorCode
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Code.String()
	}
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// CodeOf extracts the error code from err. Errors without one are treated
// as network failures.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return CodeNone
	}
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Code
	}
	return CodeNetwork
}
