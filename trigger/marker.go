package trigger

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/annavanharmelen/Microsaccade-bias-experiment/design"
	"github.com/annavanharmelen/Microsaccade-bias-experiment/timeutil"
)

// MessageSender receives text markers, e.g. an eye tracker.
type MessageSender interface {
	SendMessage(msg string) error
}

// Entry is one marker that was sent.
type Entry struct {
	ElapsedMS float64
	Frame     design.Frame
	Code      string
}

// Log keeps the markers of a session.
type Log struct {
	Entries []Entry
}

func (l *Log) Add(elapsed time.Duration, f design.Frame, code string) {
	l.Entries = append(l.Entries, Entry{
		ElapsedMS: float64(elapsed.Microseconds()) / 1000,
		Frame:     f,
		Code:      code,
	})
}

// Save writes the log as CSV.
func (l *Log) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Write([]string{"elapsed_ms", "event", "code"})
	for _, e := range l.Entries {
		w.Write([]string{
			strconv.FormatFloat(e.ElapsedMS, 'f', 3, 64),
			e.Frame.String(),
			e.Code,
		})
	}
	w.Flush()
	return w.Error()
}

// PulseWidth is how long a DLP line stays high for one marker.
const PulseWidth = 5 * time.Millisecond

// Markers sends each trial event to the tracker as a "trig<code>" message
// and, if a DLP is attached, as a pulse on the line numbered by the frame.
type Markers struct {
	Tracker MessageSender // may be nil
	DLP     *DLPIO8G      // may be nil
	Clock   timeutil.Clock
	Start   time.Time
	Log     *Log
}

// NewMarkers returns Markers timed from clock.Now().
func NewMarkers(tracker MessageSender, dlp *DLPIO8G, clock timeutil.Clock) *Markers {
	return &Markers{
		Tracker: tracker,
		DLP:     dlp,
		Clock:   clock,
		Start:   clock.Now(),
		Log:     &Log{},
	}
}

// Send marks frame f of the trial described by v, loc and dir.
func (m *Markers) Send(f design.Frame, v design.Validity, loc design.Location, dir design.Direction) error {
	code, err := design.TriggerCode(f, v, loc, dir)
	if err != nil {
		return err
	}
	m.Log.Add(m.Clock.Since(m.Start), f, code)

	var errs []error
	if m.Tracker != nil {
		if err := m.Tracker.SendMessage(design.TriggerMessage(code)); err != nil {
			errs = append(errs, fmt.Errorf("tracker: %w", err))
		}
	}
	if m.DLP != nil {
		if err := m.DLP.Pulse(strconv.Itoa(int(f)), PulseWidth); err != nil {
			errs = append(errs, fmt.Errorf("dlp: %w", err))
		}
	}
	return errors.Join(errs...)
}
