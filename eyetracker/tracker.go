// Package eyetracker defines what the experiment needs from an eye tracker
// and provides a stand-in for sessions run without one.
package eyetracker

import (
	"errors"
	"sync"

	"github.com/annavanharmelen/Microsaccade-bias-experiment/response"
)

// Tracker is an eye tracker connection.
type Tracker interface {
	response.GazeSampler
	Start() error
	Calibrate() error
	Stop() error
	SendMessage(msg string) error
}

var ErrNotRecording = errors.New("tracker is not recording")

// Dummy is a Tracker that always reports gaze from a fixed source, by default
// the screen centre. It keeps every message it is sent.
type Dummy struct {
	mu           sync.Mutex
	Gaze         func() response.Point
	recording    bool
	calibrations int
	messages     []string
}

// NewDummy returns a Dummy reporting gaze at (x, y).
func NewDummy(x, y float64) *Dummy {
	p := response.Point{X: x, Y: y}
	return &Dummy{Gaze: func() response.Point { return p }}
}

func (d *Dummy) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.recording = true
	return nil
}

func (d *Dummy) Calibrate() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calibrations++
	d.recording = false
	return nil
}

func (d *Dummy) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.recording = false
	return nil
}

// Sample returns the current gaze. It fails when recording has not been
// started, like a real tracker.
func (d *Dummy) Sample() (response.Point, error) {
	d.mu.Lock()
	recording := d.recording
	d.mu.Unlock()
	if !recording {
		return response.Point{}, ErrNotRecording
	}
	return d.Gaze(), nil
}

func (d *Dummy) SendMessage(msg string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.messages = append(d.messages, msg)
	return nil
}

// Messages returns the messages sent so far.
func (d *Dummy) Messages() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.messages...)
}

// Calibrations returns how often Calibrate was called.
func (d *Dummy) Calibrations() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calibrations
}

// Recording reports whether the tracker is recording.
func (d *Dummy) Recording() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.recording
}
