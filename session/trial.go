package session

import (
	"context"
	"time"

	"github.com/annavanharmelen/Microsaccade-bias-experiment/design"
	"github.com/annavanharmelen/Microsaccade-bias-experiment/response"
	"github.com/annavanharmelen/Microsaccade-bias-experiment/stimuli"
)

// TrialResult is what one trial produced.
type TrialResult struct {
	Characteristics design.Characteristics
	ConditionCode   string
	Response        response.Response
	FixationBreaks  int
}

// showFor keeps the current screen up for d while polling the quit key and
// counting gaze samples outside fixation.
func (s *Session) showFor(ctx context.Context, r rig, d time.Duration) (int, error) {
	out, err := r.waiter.Wait(ctx, response.Wait{Duration: d})
	return out.Breaks, err
}

// RunTrial shows one trial and collects the rotation judgement.
func (s *Session) RunTrial(ctx context.Context, t design.Trial, c design.Characteristics) (TrialResult, error) {
	return s.runTrial(ctx, s.experiment, t, c)
}

func (s *Session) runTrial(ctx context.Context, r rig, t design.Trial, c design.Characteristics) (TrialResult, error) {
	res := TrialResult{Characteristics: c}
	code, err := design.TriggerCode(design.StimuliOnset, t.Validity, t.Location, t.Direction)
	if err != nil {
		return res, err
	}
	res.ConditionCode = code

	if err := response.CheckQuit(s.Keyboard, s.Settings.GetQuitKey()); err != nil {
		return res, err
	}

	screens := []struct {
		draw     func()
		duration time.Duration
		frame    design.Frame
	}{
		{
			draw:     s.Display.DrawFixation,
			duration: time.Duration(c.ITIMS) * time.Millisecond,
		},
		{
			draw: func() {
				s.Display.DrawStimuli(c.LeftOrientation, c.RightOrientation, c.StimuliColours, nil)
			},
			duration: s.Settings.GetStimuliDuration(),
			frame:    design.StimuliOnset,
		},
		{
			draw: func() {
				s.Display.DrawStimuli(c.LeftOrientation, c.RightOrientation, c.StimuliColours, &c.CaptureColour)
			},
			duration: time.Duration(c.StaticDurationMS) * time.Millisecond,
			frame:    design.CueOnset,
		},
	}
	for _, sc := range screens {
		sc.draw()
		if err := s.Display.Flip(); err != nil {
			return res, err
		}
		if sc.frame != design.NoFrame {
			s.mark(r, sc.frame, t)
		}
		breaks, err := s.showFor(ctx, r, sc.duration)
		res.FixationBreaks += breaks
		if err != nil {
			return res, err
		}
	}

	s.Display.DrawStimuli(c.LeftOrientation2, c.RightOrientation2, c.StimuliColours, &c.CaptureColour)
	if err := s.Display.Flip(); err != nil {
		return res, err
	}
	s.mark(r, design.OrientationChange, t)

	resp, err := r.responder.Collect(ctx, t.Direction, func(f design.Frame) { s.mark(r, f, t) })
	if err != nil {
		return res, err
	}
	res.Response = resp

	return res, s.feedback(resp, s.Settings.GetFeedbackDuration())
}

// feedback shows the feedback text above fixation, and "!" below it after a
// premature press.
func (s *Session) feedback(resp response.Response, d time.Duration) error {
	s.Display.DrawFixation()
	s.Display.DrawText(resp.Feedback, stimuli.FeedbackTextDeg)
	if resp.PrematurePressed {
		s.Display.DrawText("!", -stimuli.FeedbackTextDeg)
	}
	if err := s.Display.Flip(); err != nil {
		return err
	}
	if s.Sounder != nil && (resp.Missed || resp.FixationBroken) {
		s.Sounder.Play(resp.Feedback)
	}
	s.Clock.Sleep(d)
	return nil
}
