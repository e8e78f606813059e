package response

import (
	"context"
	"math"
	"time"

	"github.com/annavanharmelen/Microsaccade-bias-experiment/design"
)

// Feedback texts shown after a response.
const (
	FeedbackCorrect   = "correct"
	FeedbackIncorrect = "incorrect"
	FeedbackMissed    = "missed"
	FeedbackBroken    = "broke fixation"
)

// Response is the scored outcome of one response window.
type Response struct {
	ResponseTimeMS    float64
	KeyPressed        string
	Given             design.Direction
	PrematurePressed  bool
	PrematureKey      string
	PrematureTimingMS float64
	Missed            bool
	FixationBroken    bool
	CorrectKey        bool
	Feedback          string
}

// Evaluate scores given against expected. An empty given is a miss.
func Evaluate(expected, given design.Direction) (correct bool, feedback string) {
	correct = given != "" && given == expected
	switch {
	case given == "":
		feedback = FeedbackMissed
	case correct:
		feedback = FeedbackCorrect
	default:
		feedback = FeedbackIncorrect
	}
	return correct, feedback
}

// Responder collects rotation judgements.
type Responder struct {
	Waiter           *Waiter
	Window           time.Duration
	ClockwiseKey     string
	AnticlockwiseKey string
}

func roundMS(d time.Duration) float64 {
	return math.Round(float64(d.Microseconds())/10) / 100
}

// Collect waits for a rotation judgement and scores it against expected.
// mark, if not nil, is called with the response event as soon as it is known.
func (r *Responder) Collect(ctx context.Context, expected design.Direction, mark func(design.Frame)) (Response, error) {
	wt := r.Waiter
	if err := CheckQuit(wt.Keyboard, wt.QuitKey); err != nil {
		return Response{}, err
	}

	start := wt.Clock.Now()
	premature := wt.Keyboard.GetKeys()
	wt.Keyboard.ClearEvents()

	out, err := wt.Wait(ctx, Wait{
		Start:       start,
		Duration:    r.Window,
		Keys:        []string{r.ClockwiseKey, r.AnticlockwiseKey},
		StopOnBreak: true,
	})
	if err != nil {
		return Response{}, err
	}

	resp := Response{ResponseTimeMS: roundMS(wt.Clock.Since(start))}
	if len(premature) > 0 {
		resp.PrematurePressed = true
		resp.PrematureKey = premature[0].Name
		resp.PrematureTimingMS = roundMS(premature[0].At.Sub(start))
	}

	frame := design.ResponseMissed
	switch out.State {
	case Responded:
		// The clockwise key wins when both arrive in the same tick.
		if Contains(out.Keys, r.ClockwiseKey) {
			resp.KeyPressed, resp.Given, frame = r.ClockwiseKey, design.Clockwise, design.ResponseRight
		} else {
			resp.KeyPressed, resp.Given, frame = r.AnticlockwiseKey, design.Anticlockwise, design.ResponseLeft
		}
	case FixationBroken:
		resp.FixationBroken = true
		resp.Missed = true
		frame = design.FixationBreak
	default:
		resp.Missed = true
	}
	if mark != nil {
		mark(frame)
	}

	resp.CorrectKey, resp.Feedback = Evaluate(expected, resp.Given)
	if resp.FixationBroken {
		resp.Feedback = FeedbackBroken
	}

	wt.Keyboard.ClearEvents()
	return resp, nil
}
