package design

import (
	"math/rand/v2"
)

// Colour is an 8-bit RGB triplet.
type Colour struct {
	R, G, B uint8
}

// Palette holds the grating colours; each trial draws two distinct ones.
var Palette = []Colour{
	{R: 19, G: 146, B: 206},
	{R: 217, G: 103, B: 241},
	{R: 101, G: 148, B: 14},
	{R: 238, G: 104, B: 60},
}

// Practice parameters.
const (
	PracticeTurn       = 5.0
	PracticeValidShare = 80
)

// Characteristics are the concrete stimulus parameters of one trial.
type Characteristics struct {
	StaticDurationMS      int
	ITIMS                 int
	ChangeDirection       Direction
	StimuliColours        [2]Colour
	CaptureColour         Colour
	Condition             Validity
	LeftOrientation       float64
	RightOrientation      float64
	LeftOrientation2      float64
	RightOrientation2     float64
	TargetBar             Location
	TargetColour          Colour
	TargetPreOrientation  float64
	TargetPostOrientation float64
}

// Generator derives trial characteristics from scheduled trials.
type Generator struct {
	Turn   float64 // degrees the target rotates
	ITIMin int     // ms, inclusive
	ITIMax int     // ms, inclusive
	rng    *rand.Rand
}

// NewGenerator returns a Generator drawing from rng.
func NewGenerator(turn float64, itiMin, itiMax int, rng *rand.Rand) *Generator {
	return &Generator{Turn: turn, ITIMin: itiMin, ITIMax: itiMax, rng: rng}
}

// randomOrientation returns an orientation of 5 to 85 degrees either side of
// vertical.
func randomOrientation(rng *rand.Rand) float64 {
	o := float64(5 + rng.IntN(81))
	if rng.IntN(2) == 0 {
		return -o
	}
	return o
}

// Characteristics builds the stimulus parameters for t.
func (g *Generator) Characteristics(t Trial) Characteristics {
	perm := g.rng.Perm(len(Palette))
	colours := [2]Colour{Palette[perm[0]], Palette[perm[1]]}

	left, right := randomOrientation(g.rng), randomOrientation(g.rng)
	left2, right2 := left, right

	change := g.Turn
	if t.Direction == Anticlockwise {
		change = -g.Turn
	}

	c := Characteristics{
		StaticDurationMS: t.DurationMS,
		ITIMS:            g.ITIMin + g.rng.IntN(g.ITIMax-g.ITIMin+1),
		ChangeDirection:  t.Direction,
		StimuliColours:   colours,
		Condition:        t.Validity,
		TargetBar:        t.Location,
	}

	var distractor Colour
	if t.Location == Left {
		c.TargetColour, distractor = colours[0], colours[1]
		left2 += change
		c.TargetPreOrientation, c.TargetPostOrientation = left, left2
	} else {
		distractor, c.TargetColour = colours[0], colours[1]
		right2 += change
		c.TargetPreOrientation, c.TargetPostOrientation = right, right2
	}

	c.CaptureColour = c.TargetColour
	if t.Validity == Invalid {
		c.CaptureColour = distractor
	}

	c.LeftOrientation, c.RightOrientation = left, right
	c.LeftOrientation2, c.RightOrientation2 = left2, right2
	return c
}

// PracticeTrial draws a random trial with the practice validity mix.
func (g *Generator) PracticeTrial(dir Direction) Trial {
	v := Invalid
	if g.rng.IntN(100) < PracticeValidShare {
		v = Valid
	}
	loc := Left
	if g.rng.IntN(2) == 1 {
		loc = Right
	}
	return Trial{
		Location:   loc,
		Direction:  dir,
		DurationMS: Durations[g.rng.IntN(len(Durations))],
		Validity:   v,
	}
}

// PracticeStimulus is a single central grating that rotates once.
type PracticeStimulus struct {
	Orientation    float64
	NewOrientation float64
	Direction      Direction
	Colour         Colour
	ShowMS         int
}

// PracticeStimulus draws the next single-grating practice item.
func (g *Generator) PracticeStimulus() PracticeStimulus {
	o := randomOrientation(g.rng)
	p := PracticeStimulus{
		Orientation:    o,
		NewOrientation: o + PracticeTurn,
		Direction:      Clockwise,
		Colour:         Palette[g.rng.IntN(len(Palette))],
		ShowMS:         500 + g.rng.IntN(1001),
	}
	if g.rng.IntN(2) == 0 {
		p.NewOrientation = o - PracticeTurn
		p.Direction = Anticlockwise
	}
	return p
}

// RandomDirection picks a rotation direction uniformly.
func (g *Generator) RandomDirection() Direction {
	if g.rng.IntN(2) == 0 {
		return Anticlockwise
	}
	return Clockwise
}
