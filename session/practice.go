package session

import (
	"context"
	"fmt"
	"time"

	"github.com/annavanharmelen/Microsaccade-bias-experiment/results"
)

// practiceFeedback is how long feedback stays up in the rotation phase.
const practiceFeedback = 500 * time.Millisecond

// PracticeSummary reports how far the participant got.
type PracticeSummary struct {
	Rotations      int // single-grating items answered
	Trials         int // full trials answered
	PercentCorrect int // over full trials
}

// phaseStep runs one item of a practice phase. It returns done once the
// participant asks to stop.
type phaseStep func(ctx context.Context) (done bool, err error)

// runPhase repeats step until it reports done.
func runPhase(ctx context.Context, step phaseStep) (int, error) {
	n := 0
	for {
		done, err := step(ctx)
		if err != nil || done {
			return n, err
		}
		n++
	}
}

// stopOnQuit turns a quit into the end of a phase.
func stopOnQuit(err error) (bool, error) {
	if isQuit(err) {
		return true, nil
	}
	return false, err
}

// Practice runs the two practice phases. Each phase repeats until the quit
// key is pressed.
func (s *Session) Practice(ctx context.Context) (PracticeSummary, error) {
	var sum PracticeSummary
	cont, quit := s.Settings.GetContinueKey(), s.Settings.GetQuitKey()

	if _, err := s.prompt(ctx, fmt.Sprintf(
		"Welcome to the practice trials. You will practice each part until you press %s."+
			"\n\nPress %s to start the practice session.",
		keyLabel(quit), keyLabel(cont)), cont); err != nil {
		return sum, err
	}

	n, err := runPhase(ctx, s.practiceRotation)
	sum.Rotations = n
	if err != nil {
		return sum, err
	}
	s.Keyboard.ClearEvents()

	if err := s.showText(fmt.Sprintf(
		"You decided to stop practicing how to respond to the stimulus. "+
			"Press %s to start practicing full trials."+
			"\n\nRemember to press %s to stop practising these trials once you feel comfortable starting the real experiment.",
		keyLabel(cont), keyLabel(quit))); err != nil {
		return sum, err
	}
	if _, err := s.Keyboard.WaitKeys(ctx, cont); err != nil {
		return sum, err
	}

	var correct []bool
	n, err = runPhase(ctx, func(ctx context.Context) (bool, error) {
		t := s.Generator.PracticeTrial(s.Generator.RandomDirection())
		res, err := s.runTrial(ctx, s.practice, t, s.Generator.Characteristics(t))
		if err != nil {
			return stopOnQuit(err)
		}
		correct = append(correct, res.Response.CorrectKey)
		return false, nil
	})
	sum.Trials = n
	if err != nil {
		return sum, err
	}
	s.Keyboard.ClearEvents()
	sum.PercentCorrect = results.Score(correct)

	if err := s.showText(fmt.Sprintf(
		"You decided to stop practicing. "+
			"\nDuring this practice, you answered correctly %d%% of the time."+
			"\n\nPress %s to start the experiment.",
		sum.PercentCorrect, keyLabel(cont))); err != nil {
		return sum, err
	}
	if _, err := s.Keyboard.WaitKeys(ctx, cont); err != nil {
		return sum, err
	}
	s.Keyboard.ClearEvents()
	return sum, nil
}

// practiceRotation shows a single central grating, rotates it and asks for
// the direction.
func (s *Session) practiceRotation(ctx context.Context) (bool, error) {
	p := s.Generator.PracticeStimulus()
	r := s.practice

	s.Display.DrawGrating(p.Orientation, p.Colour)
	s.Display.DrawFixation()
	if err := s.Display.Flip(); err != nil {
		return false, err
	}
	if _, err := s.showFor(ctx, r, time.Duration(p.ShowMS)*time.Millisecond); err != nil {
		return stopOnQuit(err)
	}

	s.Display.DrawGrating(p.NewOrientation, p.Colour)
	s.Display.DrawFixation()
	if err := s.Display.Flip(); err != nil {
		return false, err
	}
	resp, err := r.responder.Collect(ctx, p.Direction, nil)
	if err != nil {
		return stopOnQuit(err)
	}
	return false, s.feedback(resp, practiceFeedback)
}
