package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/annavanharmelen/Microsaccade-bias-experiment/eyetracker"
	"github.com/annavanharmelen/Microsaccade-bias-experiment/monitoring"
	"github.com/annavanharmelen/Microsaccade-bias-experiment/response"
	"github.com/annavanharmelen/Microsaccade-bias-experiment/results"
	"github.com/annavanharmelen/Microsaccade-bias-experiment/session"
	"github.com/annavanharmelen/Microsaccade-bias-experiment/settings"
	"github.com/annavanharmelen/Microsaccade-bias-experiment/timeutil"
	"github.com/annavanharmelen/Microsaccade-bias-experiment/trigger"
)

// Backend is what a display technology brings to a run.
type Backend struct {
	Display  session.Display
	Keyboard response.Keyboard
	Tracker  *eyetracker.Dummy
	DLP      *trigger.DLPIO8G // may be nil
	Sounder  session.Sounder  // may be nil
	Clock    timeutil.Clock
}

func openDLP(device string) *trigger.DLPIO8G {
	if device == "" {
		return nil
	}
	dlp, err := trigger.OpenDLP(device, 9600)
	if err != nil {
		fmt.Printf("Failed to initialize DLP device: %v\n", err)
		return nil
	}
	return dlp
}

// RunExperiment calibrates the tracker, runs practice unless skipped, then
// the blocks of exp. Leaving during practice still registers the session
// with no trials.
func RunExperiment(ctx context.Context, cfg *Config, exp *Experiment, s *settings.Settings, b Backend) (session.Result, error) {
	sess := session.New(s, b.Display, b.Keyboard, b.Tracker, b.Clock, exp.Generator)
	sess.Markers = trigger.NewMarkers(b.Tracker, b.DLP, b.Clock)
	sess.Sounder = b.Sounder
	sess.Testing = exp.Testing
	sink := exp.Sink(ctx)

	if err := b.Tracker.Calibrate(); err != nil {
		return session.Result{}, fmt.Errorf("calibrating tracker: %w", err)
	}
	if err := b.Tracker.Start(); err != nil {
		return session.Result{}, fmt.Errorf("starting tracker: %w", err)
	}

	if !cfg.SkipPractice {
		sum, err := sess.Practice(ctx)
		if err != nil {
			if err := b.Tracker.Stop(); err != nil {
				monitoring.Logf("stopping tracker: %v", err)
			}
			res := session.Result{Outcome: session.Quit, Log: &results.Log{}}
			if !errors.Is(err, response.ErrQuit) {
				res.Outcome, res.Err = session.Aborted, err
			}
			return res, sink.Save(res.Log, sess.Markers.Log, res.Outcome)
		}
		fmt.Printf("Practice: %d rotations, %d trials, %d%% correct\n", sum.Rotations, sum.Trials, sum.PercentCorrect)
	}

	return sess.Run(ctx, exp.Blocks, sink)
}

func printOutcome(exp *Experiment, res session.Result, err error) {
	if err != nil {
		fmt.Printf("\nFailed to save results: %v\n", err)
		return
	}
	if res.Err != nil {
		fmt.Printf("\nSession ended early: %v\n", res.Err)
	}
	if res.Log != nil {
		for _, b := range results.Summarize(res.Log.Records) {
			fmt.Printf("Block %d: %.0f%% correct, mean RT %.0f ms\n", b.Block, b.PercentCorrect, b.MeanRTMS)
		}
	}
	fmt.Printf("\nResults saved to %s\n", exp.Files.CSV)
}
