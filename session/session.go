package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/annavanharmelen/Microsaccade-bias-experiment/design"
	"github.com/annavanharmelen/Microsaccade-bias-experiment/eyetracker"
	"github.com/annavanharmelen/Microsaccade-bias-experiment/monitoring"
	"github.com/annavanharmelen/Microsaccade-bias-experiment/response"
	"github.com/annavanharmelen/Microsaccade-bias-experiment/settings"
	"github.com/annavanharmelen/Microsaccade-bias-experiment/stimuli"
	"github.com/annavanharmelen/Microsaccade-bias-experiment/timeutil"
	"github.com/annavanharmelen/Microsaccade-bias-experiment/trigger"
)

// rig is the response machinery of one phase. Practice runs without gaze
// checks and without markers.
type rig struct {
	waiter    *response.Waiter
	responder *response.Responder
	mark      bool
}

// Session holds everything a run needs. Settings is shared and read-only.
type Session struct {
	Settings  *settings.Settings
	Display   Display
	Keyboard  response.Keyboard
	Tracker   eyetracker.Tracker // nil when running without a tracker
	Markers   *trigger.Markers   // nil disables markers
	Sounder   Sounder            // nil disables tones
	Clock     timeutil.Clock
	Generator *design.Generator
	Testing   bool

	experiment rig
	practice   rig
}

// New wires a session. tracker may be nil.
func New(s *settings.Settings, d Display, kb response.Keyboard, tracker eyetracker.Tracker, clock timeutil.Clock, gen *design.Generator) *Session {
	layout := stimuli.NewLayout(s)
	centre := layout.Centre()

	var gaze response.GazeSampler
	if tracker != nil {
		gaze = tracker
	}

	newRig := func(gaze response.GazeSampler, mark bool) rig {
		w := &response.Waiter{
			Keyboard: kb,
			Gaze:     gaze,
			Region: response.Region{
				Centre: response.Point{X: centre.X, Y: centre.Y},
				Radius: layout.Pix(s.GetFixationRadiusDeg()),
			},
			Clock:    clock,
			Interval: s.GetSampleInterval(),
			QuitKey:  s.GetQuitKey(),
		}
		return rig{
			waiter: w,
			responder: &response.Responder{
				Waiter:           w,
				Window:           s.GetResponseWindow(),
				ClockwiseKey:     s.GetClockwiseKey(),
				AnticlockwiseKey: s.GetAnticlockwiseKey(),
			},
			mark: mark,
		}
	}

	return &Session{
		Settings:   s,
		Display:    d,
		Keyboard:   kb,
		Tracker:    tracker,
		Clock:      clock,
		Generator:  gen,
		experiment: newRig(gaze, true),
		practice:   newRig(nil, false),
	}
}

// keyLabel is how a key is named on instruction screens.
func keyLabel(key string) string {
	return strings.ToUpper(key)
}

// showText presents text alone on screen.
func (s *Session) showText(text string) error {
	s.Display.DrawText(text, 0)
	return s.Display.Flip()
}

// prompt shows text and blocks until one of keys is pressed. Presses made
// before the text appeared do not count. The quit key always ends the prompt
// with ErrQuit.
func (s *Session) prompt(ctx context.Context, text string, keys ...string) (string, error) {
	if err := s.showText(text); err != nil {
		return "", err
	}
	s.Keyboard.ClearEvents()
	quit := s.Settings.GetQuitKey()
	got, err := s.Keyboard.WaitKeys(ctx, append(keys[:len(keys):len(keys)], quit)...)
	if err != nil {
		return "", err
	}
	for _, k := range got {
		if k == quit {
			return "", response.ErrQuit
		}
	}
	if len(got) == 0 {
		return "", fmt.Errorf("no key returned while waiting for %v", keys)
	}
	return got[0], nil
}

// mark sends a trial event marker. Device failures are logged, not fatal.
func (s *Session) mark(r rig, f design.Frame, t design.Trial) {
	if !r.mark || s.Markers == nil {
		return
	}
	if err := s.Markers.Send(f, t.Validity, t.Location, t.Direction); err != nil {
		monitoring.Logf("marker %s: %v", f, err)
	}
}

// isQuit reports whether err is the participant asking to stop.
func isQuit(err error) bool {
	return errors.Is(err, response.ErrQuit)
}
