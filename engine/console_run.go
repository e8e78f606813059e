package engine

import (
	"context"
	"time"

	"github.com/annavanharmelen/Microsaccade-bias-experiment/console"
	"github.com/annavanharmelen/Microsaccade-bias-experiment/timeutil"
)

// RunConsole registers a session and runs it in the terminal, with the mouse
// standing in for gaze. Ctrl-C ends the run early and still saves.
func RunConsole(ctx context.Context, cfg *Config) error {
	exp, err := Prepare(ctx, cfg, time.Now())
	if err != nil {
		return err
	}
	defer exp.Close()

	dlp := openDLP(cfg.DLPDevice)
	if dlp != nil {
		defer dlp.Close()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	clock := timeutil.RealClock{}
	c, err := console.Open(exp.Settings, clock, cancel)
	if err != nil {
		return err
	}
	c.Start()

	res, err := RunExperiment(ctx, cfg, exp, exp.Settings, Backend{
		Display:  c.Display,
		Keyboard: c.Input,
		Tracker:  c.Tracker,
		DLP:      dlp,
		Clock:    clock,
	})
	c.Close()

	printOutcome(exp, res, err)
	return err
}
