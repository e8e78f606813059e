package engine

import (
	"context"
	"strings"

	"github.com/Zyko0/go-sdl3/sdl"

	"github.com/annavanharmelen/Microsaccade-bias-experiment/response"
	"github.com/annavanharmelen/Microsaccade-bias-experiment/timeutil"
)

// Input reads the SDL event queue. Keys are buffered until asked for and
// the last mouse position stands in for gaze. SDL events may only be pumped
// from the main thread, so Input is not safe for concurrent use.
type Input struct {
	presses []response.KeyPress
	mouse   response.Point
	clock   timeutil.Clock
	quitKey string
}

// NewInput starts with the mouse at (x, y). Closing the window counts as a
// press of quitKey.
func NewInput(clock timeutil.Clock, quitKey string, x, y float64) *Input {
	return &Input{
		mouse:   response.Point{X: x, Y: y},
		clock:   clock,
		quitKey: quitKey,
	}
}

// keyName turns an SDL key name ("Space", "M", "Return") into the lowercase
// form settings use.
func keyName(sdlName string) string {
	return strings.ToLower(sdlName)
}

func (in *Input) press(name string) {
	if name == "" {
		return
	}
	in.presses = append(in.presses, response.KeyPress{Name: name, At: in.clock.Now()})
}

// pump drains the SDL event queue.
func (in *Input) pump() {
	for {
		var ev sdl.Event
		if !sdl.PollEvent(&ev) {
			return
		}
		switch ev.Type {
		case sdl.EVENT_QUIT:
			in.press(in.quitKey)
		case sdl.EVENT_KEY_DOWN:
			in.press(keyName(ev.KeyboardEvent().Key.KeyName()))
		case sdl.EVENT_MOUSE_MOTION:
			me := ev.MouseMotionEvent()
			in.mouse = response.Point{X: float64(me.X), Y: float64(me.Y)}
		}
	}
}

// take removes and returns the buffered presses named in keyList, or all of
// them when keyList is empty.
func (in *Input) take(keyList []string) []response.KeyPress {
	var got, keep []response.KeyPress
	for _, p := range in.presses {
		if len(keyList) == 0 || contains(keyList, p.Name) {
			got = append(got, p)
		} else {
			keep = append(keep, p)
		}
	}
	in.presses = keep
	return got
}

func (in *Input) GetKeys(keyList ...string) []response.KeyPress {
	in.pump()
	return in.take(keyList)
}

func (in *Input) ClearEvents() {
	in.pump()
	in.presses = nil
}

func (in *Input) WaitKeys(ctx context.Context, keyList ...string) ([]string, error) {
	for {
		if got := in.GetKeys(keyList...); len(got) > 0 {
			return response.Names(got), nil
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sdl.Delay(5)
	}
}

// Gaze returns the mouse position in window pixels as of the last pump.
func (in *Input) Gaze() response.Point {
	return in.mouse
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
