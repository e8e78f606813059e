package response

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegionAllows(t *testing.T) {
	r := Region{Centre: Point{960, 540}, Radius: 46}
	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"centre", Point{960, 540}, true},
		{"on edge", Point{1006, 540}, true},
		{"inside diagonal", Point{990, 570}, true},
		{"just outside", Point{1006.5, 540}, false},
		{"corner of square bounds", Point{1000, 580}, false},
		{"blink", Point{BlinkSentinel, BlinkSentinel}, true},
		{"half blink", Point{BlinkSentinel, 12}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Allows(tt.p))
		})
	}
}

func TestWait_TimesOutOnCadence(t *testing.T) {
	w, _, gaze, clock := newTestWaiter()

	out, err := w.Wait(context.Background(), Wait{Duration: 750 * time.Millisecond})
	require.NoError(t, err)

	assert.Equal(t, TimedOut, out.State)
	assert.Equal(t, 750*time.Millisecond, out.Elapsed)
	assert.Equal(t, 750*time.Millisecond, clock.Since(epoch))
	// Ticks run while elapsed < 735 ms: at 0, 15, ..., 720.
	assert.Equal(t, 49, out.Ticks)
	assert.Equal(t, 49, gaze.samples)
	assert.Zero(t, out.Breaks)
}

func TestWait_ShorterThanOneTick(t *testing.T) {
	w, _, gaze, _ := newTestWaiter()

	out, err := w.Wait(context.Background(), Wait{Duration: 10 * time.Millisecond})
	require.NoError(t, err)
	assert.Equal(t, TimedOut, out.State)
	assert.Equal(t, 10*time.Millisecond, out.Elapsed)
	assert.Zero(t, gaze.samples)
}

func TestWait_Responded(t *testing.T) {
	w, kb, _, _ := newTestWaiter()
	kb.press("x", 100*time.Millisecond) // not in the key list
	kb.press("m", 300*time.Millisecond)

	out, err := w.Wait(context.Background(), Wait{Duration: 2 * time.Second, Keys: []string{"m", "z"}, StopOnBreak: true})
	require.NoError(t, err)

	assert.Equal(t, Responded, out.State)
	assert.Equal(t, []string{"m"}, Names(out.Keys))
	assert.Equal(t, 300*time.Millisecond, out.Elapsed)
}

func TestWait_FixationBrokenNextTick(t *testing.T) {
	w, _, gaze, _ := newTestWaiter()
	gaze.at = func(elapsed time.Duration) Point {
		if elapsed >= 200*time.Millisecond {
			return Point{1200, 540}
		}
		return Point{970, 545}
	}

	out, err := w.Wait(context.Background(), Wait{Duration: 2 * time.Second, Keys: []string{"m", "z"}, StopOnBreak: true})
	require.NoError(t, err)

	assert.Equal(t, FixationBroken, out.State)
	// First tick at or after 200 ms is 210 ms.
	assert.Equal(t, 210*time.Millisecond, out.Elapsed)
	assert.Equal(t, 1, out.Breaks)
}

func TestWait_InsideNeverBreaks(t *testing.T) {
	w, _, gaze, _ := newTestWaiter()
	i := 0
	gaze.at = func(time.Duration) Point {
		i++
		// Alternate around the centre, staying inside the radius, with blinks.
		switch i % 3 {
		case 0:
			return Point{960 + 45, 540}
		case 1:
			return Point{960, 540 - 30}
		}
		return Point{BlinkSentinel, BlinkSentinel}
	}

	out, err := w.Wait(context.Background(), Wait{Duration: time.Second, Keys: []string{"m"}, StopOnBreak: true})
	require.NoError(t, err)
	assert.Equal(t, TimedOut, out.State)
	assert.Zero(t, out.Breaks)
}

func TestWait_CountsBreaksWithoutStopping(t *testing.T) {
	w, _, gaze, _ := newTestWaiter()
	gaze.at = func(elapsed time.Duration) Point {
		if elapsed >= 90*time.Millisecond && elapsed < 150*time.Millisecond {
			return Point{0, 0}
		}
		return Point{960, 540}
	}

	out, err := w.Wait(context.Background(), Wait{Duration: 300 * time.Millisecond})
	require.NoError(t, err)
	assert.Equal(t, TimedOut, out.State)
	// Ticks at 90, 105, 120, 135.
	assert.Equal(t, 4, out.Breaks)
}

func TestWait_KeysFirstThenGaze(t *testing.T) {
	w, kb, gaze, _ := newTestWaiter()
	gaze.at = func(time.Duration) Point { return Point{0, 0} }
	kb.press("z", 0)

	out, err := w.Wait(context.Background(), Wait{Duration: time.Second, Keys: []string{"m", "z"}, StopOnBreak: true})
	require.NoError(t, err)
	assert.Equal(t, Responded, out.State)
	assert.Zero(t, gaze.samples)
}

func TestWait_Quit(t *testing.T) {
	w, kb, _, _ := newTestWaiter()
	kb.press("q", 45*time.Millisecond)

	_, err := w.Wait(context.Background(), Wait{Duration: time.Second})
	assert.ErrorIs(t, err, ErrQuit)
}

func TestWait_GazeError(t *testing.T) {
	w, _, gaze, _ := newTestWaiter()
	gaze.err = errors.New("link lost")

	_, err := w.Wait(context.Background(), Wait{Duration: time.Second})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "link lost")
}

func TestWait_NoGaze(t *testing.T) {
	w, _, _, _ := newTestWaiter()
	w.Gaze = nil

	out, err := w.Wait(context.Background(), Wait{Duration: 100 * time.Millisecond, StopOnBreak: true})
	require.NoError(t, err)
	assert.Equal(t, TimedOut, out.State)
}

func TestWait_ContextCancelled(t *testing.T) {
	w, _, _, _ := newTestWaiter()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := w.Wait(ctx, Wait{Duration: time.Second})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "fixation_broken", FixationBroken.String())
	assert.Equal(t, "timed_out", TimedOut.String())
	assert.Equal(t, "state(9)", State(9).String())
}
