package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"
	"time"

	"github.com/annavanharmelen/Microsaccade-bias-experiment/design"
	"github.com/annavanharmelen/Microsaccade-bias-experiment/eyetracker"
	"github.com/annavanharmelen/Microsaccade-bias-experiment/response"
	"github.com/annavanharmelen/Microsaccade-bias-experiment/results"
	"github.com/annavanharmelen/Microsaccade-bias-experiment/settings"
	"github.com/annavanharmelen/Microsaccade-bias-experiment/timeutil"
	"github.com/annavanharmelen/Microsaccade-bias-experiment/trigger"
)

var epoch = time.Date(2023, 10, 2, 10, 0, 0, 0, time.UTC)

// fakeDisplay records every call as a short string.
type fakeDisplay struct {
	ops     []string
	flipErr error
}

func (d *fakeDisplay) DrawFixation() { d.ops = append(d.ops, "fixation") }

func (d *fakeDisplay) DrawStimuli(left, right float64, colours [2]design.Colour, cue *design.Colour) {
	d.ops = append(d.ops, fmt.Sprintf("stimuli %g %g cue=%t", left, right, cue != nil))
}

func (d *fakeDisplay) DrawGrating(orientation float64, colour design.Colour) {
	d.ops = append(d.ops, "grating")
}

func (d *fakeDisplay) DrawText(text string, offsetDeg float64) {
	d.ops = append(d.ops, "text "+text)
}

func (d *fakeDisplay) Flip() error {
	d.ops = append(d.ops, "flip")
	return d.flipErr
}

func (d *fakeDisplay) texts() []string {
	var out []string
	for _, op := range d.ops {
		if len(op) > 5 && op[:5] == "text " {
			out = append(out, op[5:])
		}
	}
	return out
}

// fakeKeyboard answers response polls with a fixed key, presses quit at
// scheduled mock times and answers prompts from a script. Keys in buffered
// were pressed earlier and win over the script until ClearEvents.
type fakeKeyboard struct {
	clock    *timeutil.MockClock
	respond  string
	quitAt   []time.Time
	answers  []string
	buffered []string
	prompts  [][]string
}

func (k *fakeKeyboard) GetKeys(keyList ...string) []response.KeyPress {
	now := k.clock.Now()
	if len(k.quitAt) > 0 && !now.Before(k.quitAt[0]) && slices.Contains(keyList, "q") {
		k.quitAt = k.quitAt[1:]
		return []response.KeyPress{{Name: "q", At: now}}
	}
	if k.respond != "" && slices.Contains(keyList, k.respond) {
		return []response.KeyPress{{Name: k.respond, At: now}}
	}
	return nil
}

func (k *fakeKeyboard) ClearEvents() { k.buffered = nil }

func (k *fakeKeyboard) WaitKeys(ctx context.Context, keyList ...string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for i, b := range k.buffered {
		if slices.Contains(keyList, b) {
			k.buffered = slices.Delete(k.buffered, i, i+1)
			return []string{b}, nil
		}
	}
	k.prompts = append(k.prompts, keyList)
	if len(k.answers) == 0 {
		return nil, errors.New("no scripted answer")
	}
	a := k.answers[0]
	k.answers = k.answers[1:]
	if !slices.Contains(keyList, a) {
		return nil, fmt.Errorf("scripted %q while waiting for %v", a, keyList)
	}
	return []string{a}, nil
}

// fakeSink keeps what it was asked to save.
type fakeSink struct {
	calls   int
	log     *results.Log
	markers *trigger.Log
	outcome Outcome
	err     error
}

func (s *fakeSink) Save(log *results.Log, markers *trigger.Log, outcome Outcome) error {
	s.calls++
	s.log, s.markers, s.outcome = log, markers, outcome
	return s.err
}

type fixture struct {
	session *Session
	display *fakeDisplay
	kb      *fakeKeyboard
	tracker *eyetracker.Dummy
	clock   *timeutil.MockClock
}

func newFixture(t *testing.T, s *settings.Settings) *fixture {
	t.Helper()
	if s == nil {
		s = settings.Default()
	}
	clock := timeutil.NewMockClock(epoch)
	disp := &fakeDisplay{}
	kb := &fakeKeyboard{clock: clock, respond: "m"}
	tracker := eyetracker.NewDummy(960, 540)
	if err := tracker.Start(); err != nil {
		t.Fatal(err)
	}

	sess := New(s, disp, kb, tracker, clock, design.NewGenerator(2, 500, 800, design.NewRand(7)))
	sess.Markers = trigger.NewMarkers(tracker, nil, clock)
	return &fixture{session: sess, display: disp, kb: kb, tracker: tracker, clock: clock}
}

func testTrial() (design.Trial, design.Characteristics) {
	t := design.Trial{Location: design.Right, Direction: design.Clockwise, DurationMS: 800, Validity: design.Valid}
	c := design.Characteristics{
		StaticDurationMS:      800,
		ITIMS:                 650,
		ChangeDirection:       design.Clockwise,
		StimuliColours:        [2]design.Colour{design.Palette[0], design.Palette[1]},
		CaptureColour:         design.Palette[1],
		Condition:             design.Valid,
		LeftOrientation:       -30,
		RightOrientation:      45,
		LeftOrientation2:      -30,
		RightOrientation2:     47,
		TargetBar:             design.Right,
		TargetColour:          design.Palette[1],
		TargetPreOrientation:  45,
		TargetPostOrientation: 47,
	}
	return t, c
}
