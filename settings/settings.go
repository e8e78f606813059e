// Package settings holds the experiment constants. A Settings value is loaded
// once at start-up and handed by pointer to every component; nothing mutates
// it afterwards.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Settings is the JSON schema of an experiment settings file. Every field is
// optional; the Get* methods supply the defaults of the lab set-up.
type Settings struct {
	// Schedule
	NBlocks        *int `json:"n_blocks,omitempty"`
	TrialsPerBlock *int `json:"trials_per_block,omitempty"`
	Predictability *int `json:"predictability,omitempty"` // % valid trials

	// Timing, as duration strings like "750ms"
	SampleInterval   *string `json:"sample_interval,omitempty"`
	ResponseWindow   *string `json:"response_window,omitempty"`
	StimuliDuration  *string `json:"stimuli_duration,omitempty"`
	FeedbackDuration *string `json:"feedback_duration,omitempty"`
	ITIMinMS         *int    `json:"iti_min_ms,omitempty"`
	ITIMaxMS         *int    `json:"iti_max_ms,omitempty"`
	TestingTrials    *int    `json:"testing_trials,omitempty"`

	// Stimuli, in degrees of visual angle
	OrientationTurn   *float64 `json:"orientation_turn,omitempty"`
	FixationRadiusDeg *float64 `json:"fixation_radius_deg,omitempty"`
	EccentricityDeg   *float64 `json:"eccentricity_deg,omitempty"`
	GaborSizeDeg      *float64 `json:"gabor_size_deg,omitempty"`

	// Keys
	ClockwiseKey     *string `json:"clockwise_key,omitempty"`
	AnticlockwiseKey *string `json:"anticlockwise_key,omitempty"`
	QuitKey          *string `json:"quit_key,omitempty"`
	ContinueKey      *string `json:"continue_key,omitempty"`
	CalibrateKey     *string `json:"calibrate_key,omitempty"`

	Monitor *Monitor `json:"monitor,omitempty"`
}

func ptrInt(v int) *int             { return &v }
func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }

// Default returns settings with every field unset, i.e. all defaults.
func Default() *Settings {
	return &Settings{}
}

// Load reads a settings file. Omitted fields keep their defaults.
func Load(path string) (*Settings, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("settings file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat settings file: %w", err)
	}
	const maxFileSize = 1 << 20
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("settings file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	s := Default()
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse settings JSON: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return s, nil
}

// Validate checks the fields that are set.
func (s *Settings) Validate() error {
	if s.NBlocks != nil && *s.NBlocks <= 0 {
		return fmt.Errorf("n_blocks must be positive, got %d", *s.NBlocks)
	}
	if s.TrialsPerBlock != nil && *s.TrialsPerBlock <= 0 {
		return fmt.Errorf("trials_per_block must be positive, got %d", *s.TrialsPerBlock)
	}
	if s.Predictability != nil && (*s.Predictability < 0 || *s.Predictability > 100) {
		return fmt.Errorf("predictability must be between 0 and 100, got %d", *s.Predictability)
	}

	durations := map[string]*string{
		"sample_interval":   s.SampleInterval,
		"response_window":   s.ResponseWindow,
		"stimuli_duration":  s.StimuliDuration,
		"feedback_duration": s.FeedbackDuration,
	}
	for name, v := range durations {
		if v == nil || *v == "" {
			continue
		}
		d, err := time.ParseDuration(*v)
		if err != nil {
			return fmt.Errorf("invalid %s '%s': %w", name, *v, err)
		}
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", name, *v)
		}
	}

	if s.GetITIMinMS() < 0 || s.GetITIMaxMS() < s.GetITIMinMS() {
		return fmt.Errorf("iti range [%d, %d] is invalid", s.GetITIMinMS(), s.GetITIMaxMS())
	}
	if s.FixationRadiusDeg != nil && *s.FixationRadiusDeg <= 0 {
		return fmt.Errorf("fixation_radius_deg must be positive, got %f", *s.FixationRadiusDeg)
	}
	if s.Monitor != nil {
		if err := s.Monitor.Validate(); err != nil {
			return fmt.Errorf("monitor: %w", err)
		}
	}
	return nil
}

func durationOr(v *string, def time.Duration) time.Duration {
	if v == nil || *v == "" {
		return def
	}
	d, err := time.ParseDuration(*v)
	if err != nil {
		return def
	}
	return d
}

func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

func floatOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

func stringOr(v *string, def string) string {
	if v == nil || *v == "" {
		return def
	}
	return *v
}

func (s *Settings) GetNBlocks() int        { return intOr(s.NBlocks, 20) }
func (s *Settings) GetTrialsPerBlock() int { return intOr(s.TrialsPerBlock, 40) }
func (s *Settings) GetPredictability() int { return intOr(s.Predictability, 80) }
func (s *Settings) GetITIMinMS() int       { return intOr(s.ITIMinMS, 500) }
func (s *Settings) GetITIMaxMS() int       { return intOr(s.ITIMaxMS, 800) }

// GetTestingTrials is the number of trials per block run in testing mode.
func (s *Settings) GetTestingTrials() int { return intOr(s.TestingTrials, 10) }

// GetSampleInterval is the cadence of the gaze sampling loop.
func (s *Settings) GetSampleInterval() time.Duration {
	return durationOr(s.SampleInterval, 15*time.Millisecond)
}

func (s *Settings) GetResponseWindow() time.Duration {
	return durationOr(s.ResponseWindow, 2000*time.Millisecond)
}

func (s *Settings) GetStimuliDuration() time.Duration {
	return durationOr(s.StimuliDuration, 750*time.Millisecond)
}

func (s *Settings) GetFeedbackDuration() time.Duration {
	return durationOr(s.FeedbackDuration, 250*time.Millisecond)
}

func (s *Settings) GetOrientationTurn() float64   { return floatOr(s.OrientationTurn, 2) }
func (s *Settings) GetFixationRadiusDeg() float64 { return floatOr(s.FixationRadiusDeg, 1) }
func (s *Settings) GetEccentricityDeg() float64   { return floatOr(s.EccentricityDeg, 6) }
func (s *Settings) GetGaborSizeDeg() float64      { return floatOr(s.GaborSizeDeg, 4) }

func (s *Settings) GetClockwiseKey() string     { return stringOr(s.ClockwiseKey, "m") }
func (s *Settings) GetAnticlockwiseKey() string { return stringOr(s.AnticlockwiseKey, "z") }
func (s *Settings) GetQuitKey() string          { return stringOr(s.QuitKey, "q") }
func (s *Settings) GetContinueKey() string      { return stringOr(s.ContinueKey, "space") }
func (s *Settings) GetCalibrateKey() string     { return stringOr(s.CalibrateKey, "c") }

// GetMonitor returns the configured monitor or the lab monitor.
func (s *Settings) GetMonitor() Monitor {
	if s.Monitor == nil {
		return LabMonitor()
	}
	return *s.Monitor
}

// WithMonitor returns a copy of s using m.
func (s *Settings) WithMonitor(m Monitor) *Settings {
	c := *s
	c.Monitor = &m
	return &c
}
