package response

import "math"

// BlinkSentinel is the coordinate value a tracker reports while the pupil is
// lost, e.g. during a blink.
const BlinkSentinel = -32768

// Point is a gaze sample in screen pixels.
type Point struct {
	X, Y float64
}

// IsBlink reports whether p carries the missing-data sentinel.
func (p Point) IsBlink() bool {
	return p.X == BlinkSentinel || p.Y == BlinkSentinel
}

// GazeSampler delivers the current gaze position. Sample may block until
// the next sample is available.
type GazeSampler interface {
	Sample() (Point, error)
}

// Region is the circular area gaze has to stay in.
type Region struct {
	Centre Point
	Radius float64
}

// Allows reports whether p keeps fixation. Blinks are allowed.
func (r Region) Allows(p Point) bool {
	if p.IsBlink() {
		return true
	}
	return math.Hypot(p.X-r.Centre.X, p.Y-r.Centre.Y) <= r.Radius
}
