package console

import (
	"context"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/annavanharmelen/Microsaccade-bias-experiment/response"
	"github.com/annavanharmelen/Microsaccade-bias-experiment/settings"
	"github.com/annavanharmelen/Microsaccade-bias-experiment/timeutil"
)

// Input buffers key presses and the last mouse position. Events arrive on
// the polling goroutine; the experiment reads them from its own.
type Input struct {
	mu      sync.Mutex
	presses []response.KeyPress
	gaze    response.Point
	notify  chan struct{}

	clock     timeutil.Clock
	monitor   settings.Monitor
	size      func() (int, int)
	interrupt func()
}

// NewInput maps mouse cells of a cols×rows terminal (as reported by size)
// onto monitor pixels. interrupt, if not nil, is called on Ctrl-C.
func NewInput(clock timeutil.Clock, monitor settings.Monitor, size func() (int, int), interrupt func()) *Input {
	x, y := monitor.Centre()
	return &Input{
		gaze:      response.Point{X: x, Y: y},
		notify:    make(chan struct{}, 1),
		clock:     clock,
		monitor:   monitor,
		size:      size,
		interrupt: interrupt,
	}
}

// keyName names a key event the way settings name keys.
func keyName(ev *tcell.EventKey) string {
	switch ev.Key() {
	case tcell.KeyRune:
		if ev.Rune() == ' ' {
			return "space"
		}
		return strings.ToLower(string(ev.Rune()))
	case tcell.KeyEnter:
		return "return"
	case tcell.KeyEscape:
		return "escape"
	case tcell.KeyLeft:
		return "left"
	case tcell.KeyRight:
		return "right"
	}
	return ""
}

// HandleEvent records one terminal event.
func (in *Input) HandleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyCtrlC {
			if in.interrupt != nil {
				in.interrupt()
			}
			return
		}
		name := keyName(ev)
		if name == "" {
			return
		}
		in.mu.Lock()
		in.presses = append(in.presses, response.KeyPress{Name: name, At: in.clock.Now()})
		in.mu.Unlock()
		select {
		case in.notify <- struct{}{}:
		default:
		}

	case *tcell.EventMouse:
		x, y := ev.Position()
		cols, rows := in.size()
		if cols <= 0 || rows <= 0 {
			return
		}
		in.mu.Lock()
		in.gaze = response.Point{
			X: (float64(x) + 0.5) * float64(in.monitor.Width) / float64(cols),
			Y: (float64(y) + 0.5) * float64(in.monitor.Height) / float64(rows),
		}
		in.mu.Unlock()
	}
}

// Gaze returns the pointer position in monitor pixels.
func (in *Input) Gaze() response.Point {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.gaze
}

func (in *Input) GetKeys(keyList ...string) []response.KeyPress {
	in.mu.Lock()
	defer in.mu.Unlock()

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

func (in *Input) ClearEvents() {
	in.mu.Lock()
	in.presses = nil
	in.mu.Unlock()
}

func (in *Input) WaitKeys(ctx context.Context, keyList ...string) ([]string, error) {
	for {
		if got := in.GetKeys(keyList...); len(got) > 0 {
			return response.Names(got), nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-in.notify:
		}
	}
}

// Listen feeds events from screen until it is finalized.
func (in *Input) Listen(screen tcell.Screen) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		in.HandleEvent(ev)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
