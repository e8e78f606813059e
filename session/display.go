// Package session runs the experiment: practice, the trial screen sequence,
// the block loop with its breaks, and the finish screens. It drives a
// Display and a Keyboard and never touches a concrete backend.
package session

import (
	"github.com/annavanharmelen/Microsaccade-bias-experiment/design"
	"github.com/annavanharmelen/Microsaccade-bias-experiment/results"
	"github.com/annavanharmelen/Microsaccade-bias-experiment/trigger"
)

// Display draws into a back buffer that Flip presents. Flip also clears the
// back buffer.
type Display interface {
	// DrawFixation draws the fixation dot and cross at screen centre.
	DrawFixation()
	// DrawStimuli draws both gratings with fixation. A non-nil cue colours
	// the capture ring around fixation.
	DrawStimuli(left, right float64, colours [2]design.Colour, cue *design.Colour)
	// DrawGrating draws a single grating at screen centre.
	DrawGrating(orientation float64, colour design.Colour)
	// DrawText draws centred text raised offsetDeg above fixation.
	DrawText(text string, offsetDeg float64)
	Flip() error
}

// Sounder plays an auditory cue for a feedback text. Backends without audio
// leave it nil.
type Sounder interface {
	Play(feedback string)
}

// Sink persists what a session produced. It is called exactly once, after
// the tracker has been stopped, whatever the outcome.
type Sink interface {
	Save(log *results.Log, markers *trigger.Log, outcome Outcome) error
}
