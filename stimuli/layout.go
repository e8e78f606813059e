// Package stimuli computes where things go on screen. Coordinates are pixels
// with the origin at the top-left corner and y growing downwards, as both
// display backends expect.
package stimuli

import (
	"fmt"
	"math"
	"strings"

	"github.com/annavanharmelen/Microsaccade-bias-experiment/design"
	"github.com/annavanharmelen/Microsaccade-bias-experiment/settings"
)

// Sizes in degrees of visual angle.
const (
	FixationDotDeg   = 0.1
	FixationCrossDeg = 0.22 // arm length
	FixationLineDeg  = 0.06
	CaptureCueDeg    = 0.7 // diameter
	FeedbackTextDeg  = 0.3 // offset from fixation
	GratingCycles    = 4
)

type Point struct {
	X, Y float64
}

type Segment struct {
	A, B Point
}

// Layout converts the stimulus geometry of one monitor to pixels.
type Layout struct {
	Monitor      settings.Monitor
	Eccentricity float64 // px
	GaborRadius  float64 // px
}

// NewLayout derives the layout from s.
func NewLayout(s *settings.Settings) Layout {
	m := s.GetMonitor()
	return Layout{
		Monitor:      m,
		Eccentricity: float64(m.Deg2Pix(s.GetEccentricityDeg())),
		GaborRadius:  float64(m.Deg2Pix(s.GetGaborSizeDeg())) / 2,
	}
}

// Centre is the fixation point.
func (l Layout) Centre() Point {
	x, y := l.Monitor.Centre()
	return Point{x, y}
}

// Position returns the centre of a grating shown at loc.
func (l Layout) Position(loc design.Location) (Point, error) {
	c := l.Centre()
	switch loc {
	case design.Left:
		return Point{c.X - l.Eccentricity, c.Y}, nil
	case design.Right:
		return Point{c.X + l.Eccentricity, c.Y}, nil
	case design.Middle:
		return c, nil
	}
	return Point{}, fmt.Errorf("expected 'left', 'right' or 'middle', got %q", loc)
}

// Pix converts degrees to pixels.
func (l Layout) Pix(deg float64) float64 {
	return float64(l.Monitor.Deg2Pix(deg))
}

// TextY returns the baseline height for text raised offsetDeg above centre.
func (l Layout) TextY(offsetDeg float64) float64 {
	return l.Centre().Y - l.Pix(offsetDeg)
}

// GratingSegments approximates a grating of the given orientation (degrees,
// clockwise from vertical) with its bright stripes, clipped to a disc.
func GratingSegments(centre Point, radius, orientation float64, cycles int) []Segment {
	if radius <= 0 || cycles <= 0 {
		return nil
	}
	theta := orientation * math.Pi / 180
	// Stripe direction is vertical rotated clockwise; normal is across stripes.
	dir := Point{math.Sin(theta), -math.Cos(theta)}
	normal := Point{math.Cos(theta), math.Sin(theta)}

	spacing := 2 * radius / float64(cycles)
	var segs []Segment
	for k := -cycles / 2; k <= cycles/2; k++ {
		d := float64(k) * spacing
		if math.Abs(d) >= radius {
			continue
		}
		half := math.Sqrt(radius*radius - d*d)
		mid := Point{centre.X + normal.X*d, centre.Y + normal.Y*d}
		segs = append(segs, Segment{
			A: Point{mid.X - dir.X*half, mid.Y - dir.Y*half},
			B: Point{mid.X + dir.X*half, mid.Y + dir.Y*half},
		})
	}
	return segs
}

// DiscRows covers a filled disc with one horizontal segment per pixel row.
func DiscRows(centre Point, radius float64) []Segment {
	if radius <= 0 {
		return nil
	}
	r := int(math.Ceil(radius))
	segs := make([]Segment, 0, 2*r+1)
	for dy := -r; dy <= r; dy++ {
		y := float64(dy)
		if math.Abs(y) > radius {
			continue
		}
		half := math.Sqrt(radius*radius - y*y)
		segs = append(segs, Segment{
			A: Point{centre.X - half, centre.Y + y},
			B: Point{centre.X + half, centre.Y + y},
		})
	}
	return segs
}

// Wrap splits text on newlines and wraps each paragraph at width runes.
// Words longer than width get a line of their own.
func Wrap(text string, width int) []string {
	if width < 1 {
		width = 1
	}
	var out []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			if len([]rune(line))+1+len([]rune(w)) > width {
				out = append(out, line)
				line = w
				continue
			}
			line += " " + w
		}
		out = append(out, line)
	}
	return out
}
