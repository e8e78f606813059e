package response

import (
	"context"
	"fmt"
	"time"

	"github.com/annavanharmelen/Microsaccade-bias-experiment/timeutil"
)

// State is the state of one wait.
type State int

const (
	Waiting State = iota
	Responded
	FixationBroken
	TimedOut
)

func (s State) String() string {
	switch s {
	case Waiting:
		return "waiting"
	case Responded:
		return "responded"
	case FixationBroken:
		return "fixation_broken"
	case TimedOut:
		return "timed_out"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Wait describes one wait: how long, which keys end it, and whether leaving
// the fixation region ends it or is only counted.
type Wait struct {
	Start       time.Time // zero means now
	Duration    time.Duration
	Keys        []string
	StopOnBreak bool
}

// Outcome is the result of a wait.
type Outcome struct {
	State   State
	Keys    []KeyPress
	Elapsed time.Duration
	Breaks  int // samples outside the region
	Ticks   int
}

// Waiter runs the fixed-cadence poll loop.
type Waiter struct {
	Keyboard Keyboard
	Gaze     GazeSampler // nil disables gaze checks
	Region   Region
	Clock    timeutil.Clock
	Interval time.Duration
	QuitKey  string
}

// Wait polls keys and gaze every Interval until a key in w.Keys is pressed,
// gaze leaves the region (if w.StopOnBreak), or w.Duration has elapsed since
// w.Start. The quit key aborts with ErrQuit.
func (wt *Waiter) Wait(ctx context.Context, w Wait) (Outcome, error) {
	start := w.Start
	if start.IsZero() {
		start = wt.Clock.Now()
	}
	keyList := append([]string{wt.QuitKey}, w.Keys...)
	out := Outcome{State: Waiting}

	for wt.Clock.Since(start) < w.Duration-wt.Interval {
		if err := ctx.Err(); err != nil {
			out.Elapsed = wt.Clock.Since(start)
			return out, err
		}
		tickStart := wt.Clock.Now()
		out.Ticks++

		pressed := wt.Keyboard.GetKeys(keyList...)
		if Contains(pressed, wt.QuitKey) {
			out.Elapsed = wt.Clock.Since(start)
			return out, ErrQuit
		}
		if len(w.Keys) > 0 && len(pressed) > 0 {
			out.State = Responded
			out.Keys = pressed
			out.Elapsed = wt.Clock.Since(start)
			return out, nil
		}

		if wt.Gaze != nil {
			sample, err := wt.Gaze.Sample()
			if err != nil {
				out.Elapsed = wt.Clock.Since(start)
				return out, fmt.Errorf("gaze sample: %w", err)
			}
			if !wt.Region.Allows(sample) {
				out.Breaks++
				if w.StopOnBreak {
					out.State = FixationBroken
					out.Elapsed = wt.Clock.Since(start)
					return out, nil
				}
			}
		}

		wt.Clock.Sleep(wt.Interval - wt.Clock.Since(tickStart))
	}

	// The last stretch is shorter than one tick; sleep it out.
	wt.Clock.Sleep(w.Duration - wt.Clock.Since(start))
	out.State = TimedOut
	out.Elapsed = wt.Clock.Since(start)
	return out, nil
}
