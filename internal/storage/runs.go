package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vovakirdan/tileroll/internal/core"
)

// RunEntry is a stored run.
type RunEntry struct {
	ID           string
	Profile      string
	Mode         string
	Score        int
	TimerExpired bool
	Cause        string
	Duration     time.Duration
	CreatedAt    time.Time
}

// RunStats aggregates a profile's history.
type RunStats struct {
	Games int
	Best  int
	Total int
}

// SaveRun records a finished run for profile. A zero ID gets a fresh one.
func (s *Store) SaveRun(profile string, r core.RunResult) error {
	id := r.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	expired := 0
	if r.TimerExpired {
		expired = 1
	}
	_, err := s.db.Exec(
		`INSERT INTO runs (id, profile, mode, score, timer_expired, cause, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id.String(), profile, r.Mode, r.Score, expired, r.Cause, r.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save run: %w", err)
	}
	return nil
}

// TopRuns retrieves the best runs for a profile, optionally filtered by mode.
// Results are ordered by score descending.
func (s *Store) TopRuns(profile, mode string, limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, profile, mode, score, timer_expired, cause, duration_ms, created_at
		 FROM runs
		 WHERE profile = ? AND (? = '' OR mode = ?)
		 ORDER BY score DESC, created_at ASC
		 LIMIT ?`,
		profile, mode, mode, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var entries []RunEntry
	for rows.Next() {
		var e RunEntry
		var expired int
		var durationMS int64
		var createdAt any
		if err := rows.Scan(&e.ID, &e.Profile, &e.Mode, &e.Score, &expired, &e.Cause, &durationMS, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.TimerExpired = expired != 0
		e.Duration = time.Duration(durationMS) * time.Millisecond
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// RunStats returns aggregate statistics for a profile.
func (s *Store) RunStats(profile string) (RunStats, error) {
	var stats RunStats
	var best, total sql.NullInt64
	err := s.db.QueryRow(
		"SELECT COUNT(*), MAX(score), SUM(score) FROM runs WHERE profile = ?",
		profile,
	).Scan(&stats.Games, &best, &total)
	if err != nil {
		return stats, fmt.Errorf("storage: cannot query run stats: %w", err)
	}
	stats.Best = int(best.Int64)
	stats.Total = int(total.Int64)
	return stats, nil
}

// ClearRuns deletes the run history for a profile.
func (s *Store) ClearRuns(profile string) error {
	_, err := s.db.Exec("DELETE FROM runs WHERE profile = ?", profile)
	if err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}
