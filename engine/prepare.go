package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/annavanharmelen/Microsaccade-bias-experiment/design"
	"github.com/annavanharmelen/Microsaccade-bias-experiment/monitoring"
	"github.com/annavanharmelen/Microsaccade-bias-experiment/results"
	"github.com/annavanharmelen/Microsaccade-bias-experiment/session"
	"github.com/annavanharmelen/Microsaccade-bias-experiment/settings"
	"github.com/annavanharmelen/Microsaccade-bias-experiment/store"
	"github.com/annavanharmelen/Microsaccade-bias-experiment/trigger"
)

// ParticipantsFile is the participants table exported next to the data.
const ParticipantsFile = "participantinfo.csv"

// Experiment is the part of a run that does not depend on a backend: the
// settings, the block plan, the registered session and where its data goes.
type Experiment struct {
	Settings  *settings.Settings
	Blocks    []design.Block
	Generator *design.Generator
	Seed      uint64
	Store     *store.Store
	Session   store.Session
	Files     results.Files
	Dir       string
	Testing   bool
}

// LoadSettings reads cfg.SettingsFile, or returns the defaults when none is
// given.
func LoadSettings(cfg *Config) (*settings.Settings, error) {
	if cfg.SettingsFile == "" {
		return settings.Default(), nil
	}
	return settings.Load(cfg.SettingsFile)
}

// Prepare registers a new session and plans its blocks. The caller owns the
// returned Experiment and must Close it.
func Prepare(ctx context.Context, cfg *Config, now time.Time) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s, err := LoadSettings(cfg)
	if err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(now.UnixNano())
	}
	rng := design.NewRand(seed)

	var blocks []design.Block
	if cfg.ScheduleFile != "" {
		blocks, err = design.LoadSchedule(cfg.ScheduleFile)
		if err == nil {
			err = design.CheckSchedule(blocks, s.GetPredictability())
		}
	} else {
		blocks, err = design.Plan(s.GetNBlocks(), s.GetTrialsPerBlock(), s.GetPredictability(), rng)
	}
	if err != nil {
		return nil, fmt.Errorf("planning blocks: %w", err)
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, err
	}
	dbFile := cfg.DBFile
	if dbFile == "" {
		dbFile = filepath.Join(cfg.OutputDir, "participants.db")
	}
	if err := os.MkdirAll(filepath.Dir(dbFile), 0o755); err != nil {
		return nil, err
	}
	st, err := store.Open(dbFile)
	if err != nil {
		return nil, err
	}

	sess, err := st.RegisterSession(ctx, cfg.Participant, cfg.Age, now)
	if err != nil {
		st.Close()
		return nil, err
	}

	// Session numbers count per participant, so each participant gets a
	// directory of their own.
	dir := filepath.Join(cfg.OutputDir, fmt.Sprintf("participant_%d", cfg.Participant))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		st.Close()
		return nil, err
	}
	files := results.SessionFiles(dir, sess.Number, cfg.Testing)
	if err := design.SaveSchedule(files.Schedule, blocks); err != nil {
		monitoring.Logf("saving schedule: %v", err)
	}

	monitoring.Logf("participant %d session %d (%s), %d blocks, seed %d",
		sess.Participant, sess.Number, sess.ID, len(blocks), seed)

	return &Experiment{
		Settings:  s,
		Blocks:    blocks,
		Generator: design.NewGenerator(s.GetOrientationTurn(), s.GetITIMinMS(), s.GetITIMaxMS(), rng),
		Seed:      seed,
		Store:     st,
		Session:   sess,
		Files:     files,
		Dir:       dir,
		Testing:   cfg.Testing,
	}, nil
}

func (e *Experiment) Close() error {
	return e.Store.Close()
}

// Title heads the session report.
func (e *Experiment) Title() string {
	title := fmt.Sprintf("Participant %d, session %d", e.Session.Participant, e.Session.Number)
	if e.Testing {
		title += " (test)"
	}
	return title
}

// Sink returns where the session runner saves to. Saving outlives ctx being
// cancelled so a Ctrl-C still leaves the data on disk.
func (e *Experiment) Sink(ctx context.Context) session.Sink {
	return &sink{ctx: context.WithoutCancel(ctx), exp: e}
}

type sink struct {
	ctx context.Context
	exp *Experiment
}

func (k *sink) Save(log *results.Log, markers *trigger.Log, outcome session.Outcome) error {
	e := k.exp
	var errs []error

	if err := log.Save(e.Files, e.Title()); err != nil {
		errs = append(errs, err)
	}
	if markers != nil {
		if err := markers.Save(e.Files.Markers); err != nil {
			errs = append(errs, fmt.Errorf("saving %s: %w", e.Files.Markers, err))
		}
	}
	if err := e.Store.SaveTrials(k.ctx, e.Session.ID, log.Records); err != nil {
		errs = append(errs, fmt.Errorf("mirroring trials: %w", err))
	}
	if err := e.Store.SetTrialsCompleted(k.ctx, e.Session.ID, log.Len()); err != nil {
		errs = append(errs, fmt.Errorf("recording trials completed: %w", err))
	}
	if err := e.ExportParticipants(k.ctx); err != nil {
		errs = append(errs, err)
	}

	monitoring.Logf("session %d %s with %d trials", e.Session.Number, outcome, log.Len())
	return errors.Join(errs...)
}

// ExportParticipants rewrites the participants table of the output
// directory.
func (e *Experiment) ExportParticipants(ctx context.Context) error {
	path := filepath.Join(filepath.Dir(e.Dir), ParticipantsFile)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := e.Store.ExportParticipantsCSV(ctx, f); err != nil {
		return fmt.Errorf("exporting %s: %w", path, err)
	}
	return nil
}

// WriteSchedule plans blocks from the settings and seed of cfg and saves them
// to path without registering a session. It returns the seed used.
func WriteSchedule(cfg *Config, path string, now time.Time) (uint64, error) {
	s, err := LoadSettings(cfg)
	if err != nil {
		return 0, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(now.UnixNano())
	}
	blocks, err := design.Plan(s.GetNBlocks(), s.GetTrialsPerBlock(), s.GetPredictability(), design.NewRand(seed))
	if err != nil {
		return 0, fmt.Errorf("planning blocks: %w", err)
	}
	return seed, design.SaveSchedule(path, blocks)
}
