// Package response waits for manual responses while monitoring fixation,
// and scores them.
package response

import (
	"context"
	"errors"
	"time"
)

// ErrQuit is returned when the participant or experimenter presses the quit
// key. It unwinds the current trial or practice loop.
var ErrQuit = errors.New("quit key pressed")

// KeyPress is one key event with the time it was registered.
type KeyPress struct {
	Name string
	At   time.Time
}

// Keyboard is the input device.
type Keyboard interface {
	// GetKeys returns, without blocking, the presses since the last clear
	// whose names are in keyList (all presses if keyList is empty) and
	// removes them from the buffer.
	GetKeys(keyList ...string) []KeyPress

	// ClearEvents drops every buffered press.
	ClearEvents()

	// WaitKeys blocks until one of keyList is pressed and returns the
	// matching names.
	WaitKeys(ctx context.Context, keyList ...string) ([]string, error)
}

// Names returns the key names of presses, in order.
func Names(presses []KeyPress) []string {
	names := make([]string, len(presses))
	for i, p := range presses {
		names[i] = p.Name
	}
	return names
}

// Contains reports whether a press named key is in presses.
func Contains(presses []KeyPress, key string) bool {
	for _, p := range presses {
		if p.Name == key {
			return true
		}
	}
	return false
}

// CheckQuit returns ErrQuit if the quit key is waiting in kb.
func CheckQuit(kb Keyboard, quitKey string) error {
	if len(kb.GetKeys(quitKey)) > 0 {
		return ErrQuit
	}
	return nil
}
