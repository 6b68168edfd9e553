package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// LeaderboardEntry is one player's best submitted score.
type LeaderboardEntry struct {
	Player    string
	Score     int
	UpdatedAt time.Time
}

// Submit records score for player, keeping the larger of the stored and
// submitted values. It returns the stored best.
func (s *Store) Submit(player string, score int) (int, error) {
	_, err := s.db.Exec(
		`INSERT INTO leaderboard (player, score, updated_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(player) DO UPDATE SET
		   score = MAX(leaderboard.score, excluded.score),
		   updated_at = CASE WHEN excluded.score > leaderboard.score
		                     THEN CURRENT_TIMESTAMP ELSE leaderboard.updated_at END`,
		player, score,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot submit score: %w", err)
	}
	best, _, err := s.Best(player)
	return best, err
}

// Best returns a player's stored score and whether the player has one.
func (s *Store) Best(player string) (int, bool, error) {
	var score int
	err := s.db.QueryRow("SELECT score FROM leaderboard WHERE player = ?", player).Scan(&score)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("storage: cannot query best score: %w", err)
	}
	return score, true, nil
}

// Rank returns a player's 1-based position; ties share a rank.
func (s *Store) Rank(player string) (int, bool, error) {
	best, ok, err := s.Best(player)
	if err != nil || !ok {
		return 0, false, err
	}
	var above int
	err = s.db.QueryRow("SELECT COUNT(*) FROM leaderboard WHERE score > ?", best).Scan(&above)
	if err != nil {
		return 0, false, fmt.Errorf("storage: cannot query rank: %w", err)
	}
	return above + 1, true, nil
}

// Top returns the best leaderboard entries.
func (s *Store) Top(limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(
		`SELECT player, score, updated_at FROM leaderboard
		 ORDER BY score DESC, updated_at ASC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []LeaderboardEntry
	for rows.Next() {
		var e LeaderboardEntry
		var updatedAt any
		if err := rows.Scan(&e.Player, &e.Score, &updatedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.UpdatedAt = parseTime(updatedAt)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}
