package store

import (
	"context"

	"github.com/rcliao/arsip-kita/internal/model"
)

// ExportAll returns all memories, oldest first.
func (s *SQLiteStore) ExportAll(ctx context.Context) ([]model.Memory, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, content, author, created_at, mood, color, rotation
		 FROM memories ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var memories []model.Memory
	for rows.Next() {
		m, err := scanMemory(rows)
		if err != nil {
			return nil, err
		}
		memories = append(memories, m)
	}
	return memories, rows.Err()
}

// ImportResult reports the outcome of an Import.
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// Import upserts memories from an export. Records that fail validation are skipped.
func (s *SQLiteStore) Import(ctx context.Context, memories []model.Memory) (*ImportResult, error) {
	res := &ImportResult{}
	for _, m := range memories {
		if err := m.Validate(); err != nil {
			res.Skipped++
			res.Errors = append(res.Errors, m.ID+": "+err.Error())
			continue
		}
		if err := s.Put(ctx, m); err != nil {
			return res, err
		}
		res.Imported++
	}
	return res, nil
}
