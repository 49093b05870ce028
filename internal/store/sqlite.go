package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/rcliao/arsip-kita/internal/model"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{db: db}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS memories (
		id          TEXT PRIMARY KEY,
		content     TEXT NOT NULL,
		author      TEXT NOT NULL DEFAULT '',
		created_at  INTEGER NOT NULL,
		mood        TEXT NOT NULL,
		color       TEXT NOT NULL,
		rotation    REAL NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_memories_created ON memories(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_memories_mood ON memories(mood);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) List(ctx context.Context) ([]model.Memory, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, content, author, created_at, mood, color, rotation
		 FROM memories ORDER BY created_at DESC, id DESC`)
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

func (s *SQLiteStore) Put(ctx context.Context, m model.Memory) error {
	if err := m.Validate(); err != nil {
		return fmt.Errorf("invalid memory: %w", err)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO memories (id, content, author, created_at, mood, color, rotation)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   content = excluded.content,
		   author = excluded.author,
		   created_at = excluded.created_at,
		   mood = excluded.mood,
		   color = excluded.color,
		   rotation = excluded.rotation`,
		m.ID, m.Content, m.Author, m.CreatedAt, string(m.Mood), m.Color, m.Rotation)
	if err != nil {
		return fmt.Errorf("insert memory: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM memories WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete memory: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanMemory(row scanner) (model.Memory, error) {
	var m model.Memory
	var mood string

	err := row.Scan(&m.ID, &m.Content, &m.Author, &m.CreatedAt, &mood, &m.Color, &m.Rotation)
	if err != nil {
		return m, err
	}
	m.Mood = model.Mood(mood)
	return m, nil
}
