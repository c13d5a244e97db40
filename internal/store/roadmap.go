package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spigell/career-pilot/internal/roadmap"
)

// SaveRoadmap replaces the stored plan of a candidate.
func (s *Store) SaveRoadmap(ctx context.Context, candidateID string, days []roadmap.Day) error {
	if candidateID == "" {
		return errors.New("store: candidate id is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM roadmap_days WHERE candidate_id = ?`, candidateID); err != nil {
		return fmt.Errorf("store: clear roadmap: %w", err)
	}
	for _, day := range days {
		if err := upsertDay(ctx, tx, candidateID, day); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit roadmap: %w", err)
	}
	return nil
}

// Roadmap returns the stored plan of a candidate ordered by date.
func (s *Store) Roadmap(ctx context.Context, candidateID string) ([]roadmap.Day, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM roadmap_days WHERE candidate_id = ? ORDER BY day`, candidateID)
	if err != nil {
		return nil, fmt.Errorf("store: load roadmap: %w", err)
	}
	defer rows.Close()

	days := []roadmap.Day{}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("store: scan roadmap day: %w", err)
		}
		var day roadmap.Day
		if err := json.Unmarshal([]byte(payload), &day); err != nil {
			return nil, fmt.Errorf("store: decode roadmap day: %w", err)
		}
		days = append(days, day)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: load roadmap: %w", err)
	}
	return days, nil
}

// UpdateProgress records progress for the plan day at date and returns the updated day.
func (s *Store) UpdateProgress(ctx context.Context, candidateID string, date time.Time, progress roadmap.Progress) (roadmap.Day, error) {
	days, err := s.Roadmap(ctx, candidateID)
	if err != nil {
		return roadmap.Day{}, err
	}

	day, err := roadmap.RecordProgress(days, date, progress)
	if errors.Is(err, roadmap.ErrDayNotFound) {
		return roadmap.Day{}, fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	if err != nil {
		return roadmap.Day{}, err
	}

	if err := upsertDay(ctx, s.db, candidateID, day); err != nil {
		return roadmap.Day{}, err
	}
	return day, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsertDay(ctx context.Context, db execer, candidateID string, day roadmap.Day) error {
	payload, err := json.Marshal(day)
	if err != nil {
		return fmt.Errorf("store: encode roadmap day: %w", err)
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO roadmap_days (candidate_id, day, completed, payload) VALUES (?, ?, ?, ?)
		 ON CONFLICT(candidate_id, day) DO UPDATE SET completed = excluded.completed, payload = excluded.payload`,
		candidateID, day.DateString(), day.Completed, string(payload),
	)
	if err != nil {
		return fmt.Errorf("store: save roadmap day %s: %w", day.DateString(), err)
	}
	return nil
}
