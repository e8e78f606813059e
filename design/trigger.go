package design

import (
	"fmt"
	"strconv"
)

// Frame identifies a trial event that is marked in the eye-tracking record.
type Frame int

const (
	NoFrame Frame = iota
	StimuliOnset
	CueOnset
	OrientationChange
	ResponseLeft
	ResponseRight
	ResponseMissed
	FixationBreak
)

var frameNames = map[Frame]string{
	StimuliOnset:      "stimuli_onset",
	CueOnset:          "cue_onset",
	OrientationChange: "orientation_change",
	ResponseLeft:      "response_left",
	ResponseRight:     "response_right",
	ResponseMissed:    "response_missed",
	FixationBreak:     "fixation_break",
}

func (f Frame) String() string {
	if name, ok := frameNames[f]; ok {
		return name
	}
	return fmt.Sprintf("frame(%d)", int(f))
}

// ConditionMarker encodes validity, rotation and target side in one digit:
// 1 or 2 for invalid or valid, +2 for anticlockwise, +4 for a right target.
func ConditionMarker(v Validity, loc Location, dir Direction) int {
	m := 1
	if v == Valid {
		m = 2
	}
	if dir == Anticlockwise {
		m += 2
	}
	if loc == Right {
		m += 4
	}
	return m
}

// TriggerCode returns the two-digit code for frame f of a trial.
func TriggerCode(f Frame, v Validity, loc Location, dir Direction) (string, error) {
	if f <= NoFrame || f > FixationBreak {
		return "", fmt.Errorf("no trigger for %v", f)
	}
	if _, err := ParseValidity(string(v)); err != nil {
		return "", err
	}
	return strconv.Itoa(int(f)) + strconv.Itoa(ConditionMarker(v, loc, dir)), nil
}

// TriggerMessage is the tracker message carrying a trigger code.
func TriggerMessage(code string) string {
	return "trig" + code
}
