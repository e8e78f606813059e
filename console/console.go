package console

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/annavanharmelen/Microsaccade-bias-experiment/eyetracker"
	"github.com/annavanharmelen/Microsaccade-bias-experiment/settings"
	"github.com/annavanharmelen/Microsaccade-bias-experiment/timeutil"
)

// Console bundles a terminal screen with its display, input and mouse gaze.
type Console struct {
	Screen  tcell.Screen
	Display *Display
	Input   *Input
	Tracker *eyetracker.Dummy
}

// New wires a console on an initialised screen. Call Start to begin reading
// events.
func New(screen tcell.Screen, s *settings.Settings, clock timeutil.Clock, interrupt func()) *Console {
	in := NewInput(clock, s.GetMonitor(), screen.Size, interrupt)
	tracker := eyetracker.NewDummy(0, 0)
	tracker.Gaze = in.Gaze
	return &Console{
		Screen:  screen,
		Display: NewDisplay(screen, s),
		Input:   in,
		Tracker: tracker,
	}
}

// Open takes over the terminal.
func Open(s *settings.Settings, clock timeutil.Clock, interrupt func()) (*Console, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("opening terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("initialising terminal: %w", err)
	}
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.HideCursor()
	screen.Clear()
	return New(screen, s, clock, interrupt), nil
}

// Start reads terminal events in the background until Close.
func (c *Console) Start() {
	go c.Input.Listen(c.Screen)
}

// Close gives the terminal back.
func (c *Console) Close() {
	c.Screen.Fini()
}
