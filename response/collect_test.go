package response

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annavanharmelen/Microsaccade-bias-experiment/design"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		expected, given design.Direction
		correct         bool
		feedback        string
	}{
		{design.Clockwise, design.Clockwise, true, FeedbackCorrect},
		{design.Anticlockwise, design.Anticlockwise, true, FeedbackCorrect},
		{design.Clockwise, design.Anticlockwise, false, FeedbackIncorrect},
		{design.Anticlockwise, "", false, FeedbackMissed},
	}
	for _, tt := range tests {
		correct, feedback := Evaluate(tt.expected, tt.given)
		assert.Equal(t, tt.correct, correct)
		assert.Equal(t, tt.feedback, feedback)
	}
}

func newTestResponder() (*Responder, *scriptedKeyboard, *scriptedGaze) {
	w, kb, gaze, _ := newTestWaiter()
	return &Responder{
		Waiter:           w,
		Window:           2 * time.Second,
		ClockwiseKey:     "m",
		AnticlockwiseKey: "z",
	}, kb, gaze
}

func TestCollect_Correct(t *testing.T) {
	r, kb, _ := newTestResponder()
	kb.press("m", 450*time.Millisecond)

	var frames []design.Frame
	resp, err := r.Collect(context.Background(), design.Clockwise, func(f design.Frame) { frames = append(frames, f) })
	require.NoError(t, err)

	assert.Equal(t, "m", resp.KeyPressed)
	assert.Equal(t, design.Clockwise, resp.Given)
	assert.Equal(t, 450.0, resp.ResponseTimeMS)
	assert.True(t, resp.CorrectKey)
	assert.False(t, resp.Missed)
	assert.False(t, resp.PrematurePressed)
	assert.Equal(t, FeedbackCorrect, resp.Feedback)
	assert.Equal(t, []design.Frame{design.ResponseRight}, frames)
}

func TestCollect_IncorrectAnticlockwise(t *testing.T) {
	r, kb, _ := newTestResponder()
	kb.press("z", 600*time.Millisecond)

	var frames []design.Frame
	resp, err := r.Collect(context.Background(), design.Clockwise, func(f design.Frame) { frames = append(frames, f) })
	require.NoError(t, err)

	assert.Equal(t, "z", resp.KeyPressed)
	assert.False(t, resp.CorrectKey)
	assert.Equal(t, FeedbackIncorrect, resp.Feedback)
	assert.Equal(t, []design.Frame{design.ResponseLeft}, frames)
}

func TestCollect_Missed(t *testing.T) {
	r, _, _ := newTestResponder()

	var frames []design.Frame
	resp, err := r.Collect(context.Background(), design.Anticlockwise, func(f design.Frame) { frames = append(frames, f) })
	require.NoError(t, err)

	assert.True(t, resp.Missed)
	assert.Empty(t, resp.KeyPressed)
	assert.False(t, resp.CorrectKey)
	assert.Equal(t, FeedbackMissed, resp.Feedback)
	assert.Equal(t, 2000.0, resp.ResponseTimeMS)
	assert.Equal(t, []design.Frame{design.ResponseMissed}, frames)
}

func TestCollect_Premature(t *testing.T) {
	r, kb, _ := newTestResponder()
	kb.press("m", -120*time.Millisecond)
	kb.press("z", 500*time.Millisecond)

	resp, err := r.Collect(context.Background(), design.Anticlockwise, nil)
	require.NoError(t, err)

	assert.True(t, resp.PrematurePressed)
	assert.Equal(t, "m", resp.PrematureKey)
	assert.Equal(t, -120.0, resp.PrematureTimingMS)
	// The early press is cleared and does not count as the answer.
	assert.Equal(t, "z", resp.KeyPressed)
	assert.True(t, resp.CorrectKey)
}

func TestCollect_FixationBroken(t *testing.T) {
	r, _, gaze := newTestResponder()
	gaze.at = func(elapsed time.Duration) Point {
		if elapsed > 100*time.Millisecond {
			return Point{100, 100}
		}
		return Point{960, 540}
	}

	var frames []design.Frame
	resp, err := r.Collect(context.Background(), design.Clockwise, func(f design.Frame) { frames = append(frames, f) })
	require.NoError(t, err)

	assert.True(t, resp.FixationBroken)
	assert.True(t, resp.Missed)
	assert.False(t, resp.CorrectKey)
	assert.Equal(t, FeedbackBroken, resp.Feedback)
	assert.Equal(t, 105.0, resp.ResponseTimeMS)
	assert.Equal(t, []design.Frame{design.FixationBreak}, frames)
}

func TestCollect_QuitBeforeWaiting(t *testing.T) {
	r, kb, gaze := newTestResponder()
	kb.press("q", 0)

	_, err := r.Collect(context.Background(), design.Clockwise, nil)
	assert.ErrorIs(t, err, ErrQuit)
	assert.Zero(t, gaze.samples)
}

func TestCollect_QuitDuringWait(t *testing.T) {
	r, kb, _ := newTestResponder()
	kb.press("q", 800*time.Millisecond)

	_, err := r.Collect(context.Background(), design.Clockwise, nil)
	assert.ErrorIs(t, err, ErrQuit)
}
