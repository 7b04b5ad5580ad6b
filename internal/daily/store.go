package daily

import (
	"context"
	"database/sql"
	"fmt"
)

// DefaultLeaderboardLimit caps leaderboard queries without an explicit limit.
const DefaultLeaderboardLimit = 20

// Result is one player's finished daily game.
type Result struct {
	UserID      string `json:"userId"`
	Date        string `json:"date"`
	TargetIndex int    `json:"targetIndex"`
	Guesses     int    `json:"guesses"`
	Won         bool   `json:"won"`
	BestPercent int    `json:"bestPercent"`
	ElapsedMs   int    `json:"elapsedMs"`
}

// LBRow is a leaderboard entry.
type LBRow struct {
	UserID      string `json:"userId"`
	Guesses     int    `json:"guesses"`
	Won         bool   `json:"won"`
	BestPercent int    `json:"bestPercent"`
	ElapsedMs   int    `json:"elapsedMs"`
}

// Store persists daily results in the daily_results table.
type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// AlreadyPlayed reports whether userID has a result for date.
func (s *Store) AlreadyPlayed(ctx context.Context, userID, date string) (bool, error) {
	var cnt int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM daily_results WHERE user_id=? AND date=?`,
		userID, date,
	).Scan(&cnt); err != nil {
		return false, fmt.Errorf("daily: already played: %w", err)
	}
	return cnt > 0, nil
}

// InsertResult records r. A second result for the same user and date is ignored.
func (s *Store) InsertResult(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO daily_results
			(user_id, date, target_index, guesses, won, best_percent, elapsed_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.UserID, r.Date, r.TargetIndex, r.Guesses, r.Won, r.BestPercent, r.ElapsedMs,
	)
	if err != nil {
		return fmt.Errorf("daily: insert result: %w", err)
	}
	return nil
}

// Leaderboard returns the best results for date: winners first, then fewer
// guesses, then faster, then earlier.
func (s *Store) Leaderboard(ctx context.Context, date string, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, guesses, won, best_percent, elapsed_ms
		FROM daily_results
		WHERE date=?
		ORDER BY won DESC, guesses ASC, elapsed_ms ASC, created_at ASC
		LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("daily: leaderboard: %w", err)
	}
	defer rows.Close()

	out := make([]LBRow, 0, limit)
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.UserID, &r.Guesses, &r.Won, &r.BestPercent, &r.ElapsedMs); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
