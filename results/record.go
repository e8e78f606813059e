// Package results holds the per-trial records of a session and writes them
// out as CSV, XLSX and an HTML summary.
package results

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/annavanharmelen/Microsaccade-bias-experiment/design"
	"github.com/annavanharmelen/Microsaccade-bias-experiment/response"
)

// Record is one row of trial data.
type Record struct {
	TrialNumber     int
	Block           int
	Start           time.Duration // since the first trial of the session
	End             time.Duration
	Characteristics design.Characteristics
	ConditionCode   string
	Response        response.Response
	FixationBreaks  int // samples outside the fixation region before the response window
}

// Columns is the header of the trial table.
var Columns = []string{
	"trial_number", "block", "start_time", "end_time",
	"static_duration", "ITI", "change_direction",
	"stimuli_colours", "capture_colour", "trial_condition",
	"left_orientation", "right_orientation", "left_orientation_2", "right_orientation_2",
	"target_bar", "target_colour", "target_pre_orientation", "target_post_orientation",
	"condition_code",
	"response_time_in_ms", "key_pressed",
	"premature_pressed", "premature_key", "premature_timing",
	"missed", "fixation_broken", "correct_key", "feedback",
	"fixation_breaks",
}

// FormatElapsed renders d as H:MM:SS.ffffff.
func FormatElapsed(d time.Duration) string {
	us := d.Microseconds()
	h := us / 3_600_000_000
	us -= h * 3_600_000_000
	m := us / 60_000_000
	us -= m * 60_000_000
	s := us / 1_000_000
	us -= s * 1_000_000
	if us == 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d:%02d.%06d", h, m, s, us)
}

// HexColour renders c as #rrggbb.
func HexColour(c design.Colour) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// values returns the typed cells of r, in Columns order. Cells that do not
// apply are nil.
func (r Record) values() []interface{} {
	c := r.Characteristics
	resp := r.Response

	var prematureKey, prematureTiming interface{}
	if resp.PrematurePressed {
		prematureKey, prematureTiming = resp.PrematureKey, resp.PrematureTimingMS
	}
	var key interface{}
	if resp.KeyPressed != "" {
		key = resp.KeyPressed
	}

	return []interface{}{
		r.TrialNumber, r.Block, FormatElapsed(r.Start), FormatElapsed(r.End),
		c.StaticDurationMS, c.ITIMS, string(c.ChangeDirection),
		HexColour(c.StimuliColours[0]) + " " + HexColour(c.StimuliColours[1]),
		HexColour(c.CaptureColour), string(c.Condition),
		c.LeftOrientation, c.RightOrientation, c.LeftOrientation2, c.RightOrientation2,
		string(c.TargetBar), HexColour(c.TargetColour), c.TargetPreOrientation, c.TargetPostOrientation,
		r.ConditionCode,
		resp.ResponseTimeMS, key,
		resp.PrematurePressed, prematureKey, prematureTiming,
		resp.Missed, resp.FixationBroken, resp.CorrectKey, resp.Feedback,
		r.FixationBreaks,
	}
}

func formatCell(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	}
	return fmt.Sprint(v)
}

// Row returns r as CSV cells.
func (r Record) Row() []string {
	vals := r.values()
	row := make([]string, len(vals))
	for i, v := range vals {
		row[i] = formatCell(v)
	}
	return row
}

// Log collects the records of a session in trial order.
type Log struct {
	Records []Record
}

func (l *Log) Append(r Record) {
	l.Records = append(l.Records, r)
}

func (l *Log) Len() int {
	return len(l.Records)
}

// SaveCSV writes the header and one row per trial.
func (l *Log) SaveCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(Columns); err != nil {
		return err
	}
	for _, r := range l.Records {
		if err := w.Write(r.Row()); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}
