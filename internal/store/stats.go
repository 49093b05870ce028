package store

import (
	"context"
	"fmt"
	"os"
)

// Stats holds database statistics.
type Stats struct {
	DBPath        string      `json:"db_path"`
	DBSizeBytes   int64       `json:"db_size_bytes"`
	TotalMemories int         `json:"total_memories"`
	Authors       int         `json:"authors"`
	Moods         []MoodStats `json:"moods"`
}

// MoodStats holds per-mood counts.
type MoodStats struct {
	Mood  string `json:"mood"`
	Count int    `json:"count"`
}

// Stats returns database statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath}

	// DB file size
	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM memories`).Scan(&st.TotalMemories); err != nil {
		return nil, fmt.Errorf("count memories: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT author) FROM memories WHERE author <> ''`).Scan(&st.Authors); err != nil {
		return nil, fmt.Errorf("count authors: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT mood, COUNT(*) as cnt
		FROM memories
		GROUP BY mood ORDER BY cnt DESC, mood`)
	if err != nil {
		return nil, fmt.Errorf("count moods: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ms MoodStats
		if err := rows.Scan(&ms.Mood, &ms.Count); err != nil {
			return nil, fmt.Errorf("scan mood count: %w", err)
		}
		st.Moods = append(st.Moods, ms)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return st, nil
}
