// Package store keeps the participant registry and a mirror of every trial in
// a local SQLite database.
package store

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/annavanharmelen/Microsaccade-bias-experiment/results"
)

var ErrUnknownSession = errors.New("unknown session")

// Store is an open experiment database.
type Store struct {
	db *sql.DB
}

// Session is one registered run of a participant.
type Session struct {
	ID              string
	Participant     int
	Number          int
	Age             int
	TrialsCompleted int
	StartedAt       time.Time
}

// Open opens or creates the database at path and brings its schema up to date.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// A single connection keeps pragmas and transactions on one handle.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}

	s := &Store{db: db}
	if err := s.MigrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// RegisterSession records a new session for participant. Its number is one
// higher than the participant's last session, starting at 1.
func (s *Store) RegisterSession(ctx context.Context, participant, age int, now time.Time) (Session, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Session{}, err
	}
	defer tx.Rollback()

	var last sql.NullInt64
	err = tx.QueryRowContext(ctx,
		`SELECT MAX(session_number) FROM participants WHERE participant_number = ?`,
		participant,
	).Scan(&last)
	if err != nil {
		return Session{}, fmt.Errorf("reading last session: %w", err)
	}

	sess := Session{
		ID:          uuid.NewString(),
		Participant: participant,
		Number:      int(last.Int64) + 1,
		Age:         age,
		StartedAt:   now.UTC(),
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO participants (session_id, participant_number, session_number, age, started_at)
		 VALUES (?, ?, ?, ?, ?)`,
		sess.ID, sess.Participant, sess.Number, sess.Age, sess.StartedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Session{}, fmt.Errorf("registering session: %w", err)
	}
	return sess, tx.Commit()
}

// SetTrialsCompleted stores how many trials session id finished.
func (s *Store) SetTrialsCompleted(ctx context.Context, id string, n int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE participants SET trials_completed = ? WHERE session_id = ?`, n, id)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("%w: %s", ErrUnknownSession, id)
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// SaveTrials mirrors records of session id, replacing rows with the same
// trial number.
func (s *Store) SaveTrials(ctx context.Context, id string, records []results.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO trials (
			session_id, trial_number, block, target_location, change_direction, validity,
			static_duration_ms, condition_code, response_time_ms, key_pressed,
			correct, missed, fixation_broken, feedback
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range records {
		c, resp := r.Characteristics, r.Response
		var key sql.NullString
		if resp.KeyPressed != "" {
			key = sql.NullString{String: resp.KeyPressed, Valid: true}
		}
		var rt sql.NullFloat64
		if !resp.Missed {
			rt = sql.NullFloat64{Float64: resp.ResponseTimeMS, Valid: true}
		}
		_, err := stmt.ExecContext(ctx,
			id, r.TrialNumber, r.Block, string(c.TargetBar), string(c.ChangeDirection), string(c.Condition),
			c.StaticDurationMS, r.ConditionCode, rt, key,
			boolInt(resp.CorrectKey), boolInt(resp.Missed), boolInt(resp.FixationBroken), resp.Feedback,
		)
		if err != nil {
			return fmt.Errorf("saving trial %d: %w", r.TrialNumber, err)
		}
	}
	return tx.Commit()
}

// TrialCount returns the number of mirrored trials of session id.
func (s *Store) TrialCount(ctx context.Context, id string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM trials WHERE session_id = ?`, id).Scan(&n)
	return n, err
}

const sessionColumns = `session_id, participant_number, session_number, age, trials_completed, started_at`

func scanSessions(rows *sql.Rows) ([]Session, error) {
	defer rows.Close()
	var out []Session
	for rows.Next() {
		var (
			sess    Session
			started string
		)
		if err := rows.Scan(&sess.ID, &sess.Participant, &sess.Number, &sess.Age, &sess.TrialsCompleted, &started); err != nil {
			return nil, err
		}
		t, err := time.Parse(time.RFC3339Nano, started)
		if err != nil {
			return nil, fmt.Errorf("session %s: bad start time %q: %w", sess.ID, started, err)
		}
		sess.StartedAt = t
		out = append(out, sess)
	}
	return out, rows.Err()
}

// Sessions returns the sessions of participant in order.
func (s *Store) Sessions(ctx context.Context, participant int) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+sessionColumns+` FROM participants
		 WHERE participant_number = ? ORDER BY session_number`, participant)
	if err != nil {
		return nil, err
	}
	return scanSessions(rows)
}

// AllSessions returns every registered session.
func (s *Store) AllSessions(ctx context.Context) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+sessionColumns+` FROM participants ORDER BY participant_number, session_number`)
	if err != nil {
		return nil, err
	}
	return scanSessions(rows)
}

// ExportParticipantsCSV writes the registry as a participants table.
func (s *Store) ExportParticipantsCSV(ctx context.Context, w io.Writer) error {
	sessions, err := s.AllSessions(ctx)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	cw.Write([]string{"participant_number", "session_number", "age", "trials_completed", "timestamp", "session_id"})
	for _, sess := range sessions {
		cw.Write([]string{
			strconv.Itoa(sess.Participant),
			strconv.Itoa(sess.Number),
			strconv.Itoa(sess.Age),
			strconv.Itoa(sess.TrialsCompleted),
			sess.StartedAt.Format(time.RFC3339),
			sess.ID,
		})
	}
	cw.Flush()
	return cw.Error()
}
