package design

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCharacteristics(t *testing.T) {
	g := NewGenerator(2, 500, 800, NewRand(42))

	for _, tr := range []Trial{
		{Left, Clockwise, 500, Valid},
		{Right, Anticlockwise, 3200, Invalid},
		{Left, Anticlockwise, 1100, Invalid},
		{Right, Clockwise, 2000, Valid},
	} {
		for i := 0; i < 50; i++ {
			c := g.Characteristics(tr)

			assert.Equal(t, tr.DurationMS, c.StaticDurationMS)
			assert.GreaterOrEqual(t, c.ITIMS, 500)
			assert.LessOrEqual(t, c.ITIMS, 800)
			assert.NotEqual(t, c.StimuliColours[0], c.StimuliColours[1])

			for _, o := range []float64{c.LeftOrientation, c.RightOrientation} {
				abs := o
				if abs < 0 {
					abs = -abs
				}
				assert.GreaterOrEqual(t, abs, 5.0)
				assert.LessOrEqual(t, abs, 85.0)
			}

			turn := 2.0
			if tr.Direction == Anticlockwise {
				turn = -2.0
			}
			if tr.Location == Left {
				assert.Equal(t, c.LeftOrientation+turn, c.LeftOrientation2)
				assert.Equal(t, c.RightOrientation, c.RightOrientation2)
				assert.Equal(t, c.StimuliColours[0], c.TargetColour)
			} else {
				assert.Equal(t, c.RightOrientation+turn, c.RightOrientation2)
				assert.Equal(t, c.LeftOrientation, c.LeftOrientation2)
				assert.Equal(t, c.StimuliColours[1], c.TargetColour)
			}
			assert.Equal(t, c.TargetPostOrientation-c.TargetPreOrientation, turn)

			if tr.Validity == Valid {
				assert.Equal(t, c.TargetColour, c.CaptureColour)
			} else {
				assert.NotEqual(t, c.TargetColour, c.CaptureColour)
			}
		}
	}
}

func TestPracticeStimulus(t *testing.T) {
	g := NewGenerator(2, 500, 800, NewRand(9))
	seen := map[Direction]bool{}
	for i := 0; i < 100; i++ {
		p := g.PracticeStimulus()
		seen[p.Direction] = true
		if p.Direction == Clockwise {
			assert.Greater(t, p.NewOrientation, p.Orientation)
		} else {
			assert.Less(t, p.NewOrientation, p.Orientation)
		}
		assert.GreaterOrEqual(t, p.ShowMS, 500)
		assert.LessOrEqual(t, p.ShowMS, 1500)
	}
	assert.True(t, seen[Clockwise] && seen[Anticlockwise])
}

func TestPracticeTrial_Mix(t *testing.T) {
	g := NewGenerator(2, 500, 800, NewRand(13))
	valid := 0
	const n = 2000
	for i := 0; i < n; i++ {
		tr := g.PracticeTrial(Clockwise)
		assert.Contains(t, Durations, tr.DurationMS)
		if tr.Validity == Valid {
			valid++
		}
	}
	assert.InDelta(t, 0.8, float64(valid)/n, 0.05)
}
