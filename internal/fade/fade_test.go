package fade

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/aura/internal/sched"
)

// recorder is an Output that keeps every volume it was set to.
type recorder struct {
	mu      sync.Mutex
	volume  float64
	history []float64
}

func (r *recorder) Volume() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.volume
}

func (r *recorder) SetVolume(level float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.volume = level
	r.history = append(r.history, level)
}

func (r *recorder) samples() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]float64(nil), r.history...)
}

func newTestController(initial float64) (*Controller, *recorder, *sched.Manual) {
	out := &recorder{volume: initial}
	s := sched.NewManual(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	return New(out, s, DefaultTick), out, s
}

func TestEaseInOutCubic(t *testing.T) {
	assert.InDelta(t, 0.0, EaseInOutCubic(0), 1e-9)
	assert.InDelta(t, 0.5, EaseInOutCubic(0.5), 1e-9)
	assert.InDelta(t, 1.0, EaseInOutCubic(1), 1e-9)
	assert.InDelta(t, 4*0.25*0.25*0.25, EaseInOutCubic(0.25), 1e-9)
	// Symmetric around the midpoint.
	assert.InDelta(t, 1-EaseInOutCubic(0.2), EaseInOutCubic(0.8), 1e-9)
}

func TestFadeIn_MonotonicAndClamped(t *testing.T) {
	c, out, s := newTestController(0.7)

	require.True(t, c.FadeIn(2*time.Second, nil))
	s.Advance(3 * time.Second)

	samples := out.samples()
	require.Greater(t, len(samples), 100)
	assert.Equal(t, 0.0, samples[0], "fade-in starts silent")
	for i, v := range samples {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
		if i > 0 {
			assert.GreaterOrEqual(t, v, samples[i-1], "sample %d decreased", i)
		}
	}
	assert.Equal(t, 1.0, out.Volume())
	assert.False(t, c.Active())
}

func TestFadeOut_MonotonicAndClamped(t *testing.T) {
	c, out, s := newTestController(0.8)

	done := 0
	require.True(t, c.FadeOut(time.Second, func() { done++ }))
	assert.Equal(t, Out, c.Direction())
	s.Advance(2 * time.Second)

	samples := out.samples()
	require.NotEmpty(t, samples)
	for i, v := range samples {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 0.8)
		if i > 0 {
			assert.LessOrEqual(t, v, samples[i-1], "sample %d increased", i)
		}
	}
	assert.Equal(t, 0.0, out.Volume())
	assert.Equal(t, 1, done)
	assert.Equal(t, None, c.Direction())
}

func TestFadeOut_ClampsOutOfRangeStart(t *testing.T) {
	c, out, s := newTestController(1.7)

	c.FadeOut(500*time.Millisecond, nil)
	s.Advance(time.Second)

	for _, v := range out.samples() {
		assert.LessOrEqual(t, v, 1.0)
		assert.GreaterOrEqual(t, v, 0.0)
	}
}

func TestFadeIn_UsesTarget(t *testing.T) {
	c, out, s := newTestController(0)
	c.SetTarget(0.4)

	c.FadeIn(time.Second, nil)
	s.Advance(2 * time.Second)

	assert.InDelta(t, 0.4, out.Volume(), 1e-9)
	for _, v := range out.samples() {
		assert.LessOrEqual(t, v, 0.4+1e-9)
	}
}

func TestSetTarget_Clamps(t *testing.T) {
	c, _, _ := newTestController(0)
	c.SetTarget(3)
	assert.Equal(t, 1.0, c.Target())
	c.SetTarget(-1)
	assert.Equal(t, 0.0, c.Target())
}

func TestFade_SecondRequestIsNoOp(t *testing.T) {
	c, _, s := newTestController(1)

	require.True(t, c.FadeOut(time.Second, nil))
	assert.False(t, c.FadeIn(time.Second, nil))
	assert.False(t, c.FadeOut(time.Second, nil))
	assert.Equal(t, Out, c.Direction())

	s.Advance(2 * time.Second)
	assert.True(t, c.FadeIn(time.Second, nil), "idle again after completion")
}

func TestCancel_StopsWithoutCallback(t *testing.T) {
	c, out, s := newTestController(1)

	called := false
	c.FadeOut(time.Second, func() { called = true })
	s.Advance(400 * time.Millisecond)
	c.Cancel()
	n := len(out.samples())
	volume := out.Volume()

	s.Advance(2 * time.Second)

	assert.False(t, called)
	assert.False(t, c.Active())
	assert.Len(t, out.samples(), n, "no ticks after cancel")
	assert.Equal(t, volume, out.Volume())
	assert.Equal(t, 0, s.Pending())
}

func TestCancel_ThenNewFade(t *testing.T) {
	c, out, s := newTestController(1)

	c.FadeOut(time.Second, nil)
	s.Advance(200 * time.Millisecond)
	c.Cancel()
	require.True(t, c.FadeIn(time.Second, nil))
	s.Advance(2 * time.Second)

	assert.Equal(t, 1.0, out.Volume())
}

func TestFade_ZeroDurationCompletesOnFirstTick(t *testing.T) {
	c, out, s := newTestController(1)

	done := false
	c.FadeOut(0, func() { done = true })
	s.Advance(DefaultTick)

	assert.True(t, done)
	assert.Equal(t, 0.0, out.Volume())
}

func TestFade_CallbackMayStartNextFade(t *testing.T) {
	c, out, s := newTestController(1)

	c.FadeOut(100*time.Millisecond, func() {
		c.FadeIn(100*time.Millisecond, nil)
	})
	s.Advance(time.Second)

	assert.Equal(t, 1.0, out.Volume())
	assert.False(t, c.Active())
}
