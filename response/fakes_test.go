package response

import (
	"context"
	"errors"
	"time"

	"github.com/annavanharmelen/Microsaccade-bias-experiment/timeutil"
)

var epoch = time.Date(2023, 10, 2, 10, 0, 0, 0, time.UTC)

// scriptedKeyboard releases presses once the mock clock reaches their time.
type scriptedKeyboard struct {
	clock   *timeutil.MockClock
	pending []KeyPress
}

func (k *scriptedKeyboard) press(name string, after time.Duration) {
	k.pending = append(k.pending, KeyPress{Name: name, At: k.clock.Now().Add(after)})
}

func (k *scriptedKeyboard) GetKeys(keyList ...string) []KeyPress {
	now := k.clock.Now()
	var got, keep []KeyPress
	for _, p := range k.pending {
		if !p.At.After(now) && (len(keyList) == 0 || contains(keyList, p.Name)) {
			got = append(got, p)
		} else {
			keep = append(keep, p)
		}
	}
	k.pending = keep
	return got
}

func (k *scriptedKeyboard) ClearEvents() {
	now := k.clock.Now()
	var keep []KeyPress
	for _, p := range k.pending {
		if p.At.After(now) {
			keep = append(keep, p)
		}
	}
	k.pending = keep
}

func (k *scriptedKeyboard) WaitKeys(ctx context.Context, keyList ...string) ([]string, error) {
	return nil, errors.New("not scripted")
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// scriptedGaze returns the sample for the current mock time.
type scriptedGaze struct {
	clock   *timeutil.MockClock
	at      func(elapsed time.Duration) Point
	samples int
	err     error
}

func (g *scriptedGaze) Sample() (Point, error) {
	g.samples++
	if g.err != nil {
		return Point{}, g.err
	}
	return g.at(g.clock.Since(epoch)), nil
}

func centreGaze(time.Duration) Point { return Point{960, 540} }

func newTestWaiter() (*Waiter, *scriptedKeyboard, *scriptedGaze, *timeutil.MockClock) {
	clock := timeutil.NewMockClock(epoch)
	kb := &scriptedKeyboard{clock: clock}
	gaze := &scriptedGaze{clock: clock, at: centreGaze}
	w := &Waiter{
		Keyboard: kb,
		Gaze:     gaze,
		Region:   Region{Centre: Point{960, 540}, Radius: 46},
		Clock:    clock,
		Interval: 15 * time.Millisecond,
		QuitKey:  "q",
	}
	return w, kb, gaze, clock
}
