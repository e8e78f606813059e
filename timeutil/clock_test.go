package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMockClock_SleepAdvances(t *testing.T) {
	start := time.Date(2023, 5, 1, 9, 0, 0, 0, time.UTC)
	c := NewMockClock(start)

	c.Sleep(15 * time.Millisecond)
	c.Sleep(0)
	c.Sleep(-time.Second)
	c.Advance(5 * time.Millisecond)

	assert.Equal(t, 20*time.Millisecond, c.Since(start))
	assert.Equal(t, []time.Duration{15 * time.Millisecond}, c.Sleeps())
}

func TestRealClock(t *testing.T) {
	var c Clock = RealClock{}
	before := c.Now()
	c.Sleep(time.Millisecond)
	c.Sleep(-time.Millisecond)
	assert.GreaterOrEqual(t, c.Since(before), time.Millisecond)
}
