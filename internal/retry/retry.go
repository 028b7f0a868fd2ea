// Package retry describes how failed track loads and mid-playback errors are
// retried before the player gives up or skips ahead.
package retry

import "time"

// Default policy values.
const (
	DefaultMaxAttempts = 1
	DefaultDelay       = 300 * time.Millisecond
	DefaultFallback    = time.Second
)

// Policy is shared by the load-failure and mid-playback error paths.
type Policy struct {
	// MaxAttempts is the number of retries after the first failure.
	MaxAttempts int
	// Delay is the wait before each retry of the same track.
	Delay time.Duration
	// Fallback is the wait before skipping to the next track once retries
	// are exhausted on a mid-playback error.
	Fallback time.Duration
}

// DefaultPolicy returns one retry after 300ms and a 1s skip fallback.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: DefaultMaxAttempts,
		Delay:       DefaultDelay,
		Fallback:    DefaultFallback,
	}
}

// Normalize replaces negative values with zero.
func (p Policy) Normalize() Policy {
	if p.MaxAttempts < 0 {
		p.MaxAttempts = 0
	}
	if p.Delay < 0 {
		p.Delay = 0
	}
	if p.Fallback < 0 {
		p.Fallback = 0
	}
	return p
}

// Tracker counts retries for one track under a Policy.
type Tracker struct {
	policy   Policy
	attempts int
}

// NewTracker creates a tracker for p.
func NewTracker(p Policy) *Tracker {
	return &Tracker{policy: p.Normalize()}
}

// Policy returns the policy the tracker enforces.
func (t *Tracker) Policy() Policy {
	return t.policy
}

// Next records a failure. It returns the delay before retrying and true when
// a retry is still allowed, or false once attempts are exhausted.
func (t *Tracker) Next() (time.Duration, bool) {
	if t.attempts >= t.policy.MaxAttempts {
		return 0, false
	}
	t.attempts++
	return t.policy.Delay, true
}

// Attempts returns how many retries have been granted.
func (t *Tracker) Attempts() int {
	return t.attempts
}

// Exhausted reports whether no retry remains.
func (t *Tracker) Exhausted() bool {
	return t.attempts >= t.policy.MaxAttempts
}

// Reset clears the retry count, typically when a new track starts or the
// current one begins playing.
func (t *Tracker) Reset() {
	t.attempts = 0
}
