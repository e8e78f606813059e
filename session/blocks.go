package session

import (
	"context"
	"fmt"

	"github.com/annavanharmelen/Microsaccade-bias-experiment/design"
	"github.com/annavanharmelen/Microsaccade-bias-experiment/monitoring"
	"github.com/annavanharmelen/Microsaccade-bias-experiment/results"
	"github.com/annavanharmelen/Microsaccade-bias-experiment/trigger"
)

// Outcome is how a run ended.
type Outcome int

const (
	Completed Outcome = iota
	Quit              // quit key
	Aborted           // any other error
)

func (o Outcome) String() string {
	switch o {
	case Completed:
		return "completed"
	case Quit:
		return "quit"
	case Aborted:
		return "aborted"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Result summarises a run.
type Result struct {
	Outcome Outcome
	Log     *results.Log
	Err     error // what ended an aborted run
}

// Run shows blocks in order with breaks in between. Whatever happens, the
// tracker is stopped and sink receives the data collected so far before the
// finish screen is shown. Only a failure to save is returned as an error.
func (s *Session) Run(ctx context.Context, blocks []design.Block, sink Sink) (Result, error) {
	res := Result{Log: &results.Log{}}

	err := s.runBlocks(ctx, blocks, res.Log)
	switch {
	case err == nil:
		res.Outcome = Completed
	case isQuit(err):
		res.Outcome = Quit
	default:
		res.Outcome, res.Err = Aborted, err
		monitoring.Logf("session ended early: %v", err)
	}

	if s.Tracker != nil {
		if err := s.Tracker.Stop(); err != nil {
			monitoring.Logf("stopping tracker: %v", err)
		}
	}

	var markers *trigger.Log
	if s.Markers != nil {
		markers = s.Markers.Log
	}
	if sink != nil {
		if err := sink.Save(res.Log, markers, res.Outcome); err != nil {
			return res, fmt.Errorf("saving session data: %w", err)
		}
	}

	if ctx.Err() != nil {
		return res, nil
	}
	if err := s.finish(ctx, res.Outcome, len(blocks)); err != nil && !isQuit(err) {
		monitoring.Logf("finish screen: %v", err)
	}
	return res, nil
}

func (s *Session) runBlocks(ctx context.Context, blocks []design.Block, log *results.Log) error {
	start := s.Clock.Now()
	nBlocks := len(blocks)
	trialNumber := 0

	for i, block := range blocks {
		blockNumber := i + 1
		if s.Testing && len(block) > s.Settings.GetTestingTrials() {
			block = block[:s.Settings.GetTestingTrials()]
		}

		correct := make([]bool, 0, len(block))
		for _, t := range block {
			trialNumber++
			trialStart := s.Clock.Since(start)

			c := s.Generator.Characteristics(t)
			tr, err := s.RunTrial(ctx, t, c)
			if err != nil {
				return err
			}

			log.Append(results.Record{
				TrialNumber:     trialNumber,
				Block:           blockNumber,
				Start:           trialStart,
				End:             s.Clock.Since(start),
				Characteristics: tr.Characteristics,
				ConditionCode:   tr.ConditionCode,
				Response:        tr.Response,
				FixationBreaks:  tr.FixationBreaks,
			})
			correct = append(correct, tr.Response.CorrectKey)
		}

		score := results.Score(correct)
		fmt.Printf("Block %d/%d done, %d%% correct\n", blockNumber, nBlocks, score)

		switch {
		case blockNumber == nBlocks/2:
			if err := s.longBreak(ctx, nBlocks, score); err != nil {
				return err
			}
		case blockNumber < nBlocks:
			if err := s.blockBreak(ctx, blockNumber, nBlocks, score); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Session) blockBreak(ctx context.Context, current, nBlocks, score int) error {
	left := nBlocks - current
	only, plural := "", "s"
	if left == 1 {
		only, plural = "only ", ""
	}
	return s.breakScreen(ctx, fmt.Sprintf(
		"You scored %d%% correct on the previous block. "+
			"\n\nYou just finished block %d, you %shave %d block%s left. "+
			"Take a break if you want to, but try not to move your head during this break."+
			"\n\nPress %s when you're ready to continue.",
		score, current, only, left, plural, keyLabel(s.Settings.GetContinueKey())))
}

func (s *Session) longBreak(ctx context.Context, nBlocks, score int) error {
	return s.breakScreen(ctx, fmt.Sprintf(
		"You scored %d%% correct on the previous block. "+
			"\n\nYou're halfway through! You have %d blocks left. "+
			"Now is the time to take a longer break. Maybe get up, stretch, walk around."+
			"\n\nPress %s whenever you're ready to continue again.",
		score, nBlocks-nBlocks/2, keyLabel(s.Settings.GetContinueKey())))
}

// breakScreen shows text until the continue key is pressed. With a tracker
// attached, the calibrate key recalibrates and shows the break again.
func (s *Session) breakScreen(ctx context.Context, text string) error {
	keys := []string{s.Settings.GetContinueKey()}
	if s.Tracker != nil {
		keys = append(keys, s.Settings.GetCalibrateKey())
	}

	for {
		key, err := s.prompt(ctx, text, keys...)
		if err != nil {
			return err
		}
		if key != s.Settings.GetCalibrateKey() || s.Tracker == nil {
			break
		}
		if err := s.Tracker.Calibrate(); err != nil {
			return fmt.Errorf("calibrating: %w", err)
		}
		if err := s.Tracker.Start(); err != nil {
			return fmt.Errorf("restarting recording: %w", err)
		}
	}
	s.Keyboard.ClearEvents()
	return nil
}

func (s *Session) finish(ctx context.Context, outcome Outcome, nBlocks int) error {
	cont := s.Settings.GetContinueKey()
	text := fmt.Sprintf("You've exited the experiment. Press %s to close this window.", keyLabel(cont))
	if outcome == Completed {
		text = fmt.Sprintf(
			"Congratulations! You successfully finished all %d blocks! "+
				"You're completely done now. Press %s to exit the experiment.",
			nBlocks, keyLabel(cont))
	}
	_, err := s.prompt(ctx, text, cont)
	return err
}
