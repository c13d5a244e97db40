// Package store persists finished pipeline runs and roadmaps in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/spigell/career-pilot/internal/pipeline"
)

const defaultListLimit = 50

// createdLayout keeps every timestamp the same width so text order is time order.
const createdLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Record summarises one stored run.
type Record struct {
	RunID        string    `json:"run_id"`
	CandidateID  string    `json:"candidate_id"`
	SelectedRole string    `json:"selected_role"`
	ATSTotal     int       `json:"ats_total"`
	Errors       int       `json:"errors"`
	CreatedAt    time.Time `json:"created_at"`
}

// Store wraps the SQLite database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (or creates) the database at path and applies the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("store: database path is required")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, fmt.Errorf("store: mkdir %s: %w", filepath.Dir(path), err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db, now: time.Now}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: init schema: %w", err)
	}
	return s, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id        TEXT PRIMARY KEY,
			candidate_id  TEXT NOT NULL,
			selected_role TEXT NOT NULL DEFAULT '',
			ats_total     INTEGER NOT NULL DEFAULT 0,
			error_count   INTEGER NOT NULL DEFAULT 0,
			payload       TEXT NOT NULL,
			created_at    TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS runs_candidate ON runs (candidate_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS roadmap_days (
			candidate_id TEXT NOT NULL,
			day          TEXT NOT NULL,
			completed    INTEGER NOT NULL DEFAULT 0,
			payload      TEXT NOT NULL,
			PRIMARY KEY (candidate_id, day)
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Save stores the final state of a run. Saving the same run id again replaces it.
func (s *Store) Save(ctx context.Context, state pipeline.State) error {
	if strings.TrimSpace(state.Input.RunID) == "" {
		return errors.New("store: run id is required")
	}

	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("store: encode state: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (run_id, candidate_id, selected_role, ats_total, error_count, payload, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(run_id) DO UPDATE SET
			candidate_id = excluded.candidate_id,
			selected_role = excluded.selected_role,
			ats_total = excluded.ats_total,
			error_count = excluded.error_count,
			payload = excluded.payload`,
		state.Input.RunID,
		state.Input.CandidateID,
		state.Recommendation.SelectedRole,
		state.Score.Total,
		len(state.Errors),
		string(payload),
		s.now().UTC().Format(createdLayout),
	)
	if err != nil {
		return fmt.Errorf("store: save run %s: %w", state.Input.RunID, err)
	}
	return nil
}

// Get loads the state saved for runID.
func (s *Store) Get(ctx context.Context, runID string) (pipeline.State, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM runs WHERE run_id = ?`, runID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return pipeline.State{}, fmt.Errorf("run %s: %w", runID, ErrNotFound)
	}
	if err != nil {
		return pipeline.State{}, fmt.Errorf("store: get run %s: %w", runID, err)
	}

	var state pipeline.State
	if err := json.Unmarshal([]byte(payload), &state); err != nil {
		return pipeline.State{}, fmt.Errorf("store: decode run %s: %w", runID, err)
	}
	return state, nil
}

// ListByCandidate returns the newest runs of a candidate first.
func (s *Store) ListByCandidate(ctx context.Context, candidateID string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, candidate_id, selected_role, ats_total, error_count, created_at
		 FROM runs WHERE candidate_id = ? ORDER BY created_at DESC, run_id LIMIT ?`,
		candidateID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("store: list runs: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		var (
			r       Record
			created string
		)
		if err := rows.Scan(&r.RunID, &r.CandidateID, &r.SelectedRole, &r.ATSTotal, &r.Errors, &created); err != nil {
			return nil, fmt.Errorf("store: scan run: %w", err)
		}
		if r.CreatedAt, err = time.Parse(createdLayout, created); err != nil {
			return nil, fmt.Errorf("store: parse created_at %q: %w", created, err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list runs: %w", err)
	}
	return records, nil
}
