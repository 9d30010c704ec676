package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore is the embedded ProvenanceStore backend (the teacher's "Lite
// Mode" fallback). The caller chooses it; this package does not read
// DATABASE_URL.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at path and migrates
// its schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite: %w", err)
	}
	s := &SQLiteStore{db: db}
	if err := s.migrate(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			stable_id TEXT NOT NULL,
			request_json TEXT NOT NULL,
			result_json TEXT NOT NULL,
			success INTEGER NOT NULL,
			recorded_at DATETIME NOT NULL
		)`)
	return err
}

func (s *SQLiteStore) Save(ctx context.Context, run *Run) error {
	if run.ID == "" {
		return fmt.Errorf("store: run.ID required")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, stable_id, request_json, result_json, success, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING`,
		run.ID, run.StableID, run.RequestJSON, run.ResultJSON, run.Success, run.RecordedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("store: insert run: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, stable_id, request_json, result_json, success, recorded_at
		FROM runs WHERE id = ?`, id)
	return scanRun(row.Scan)
}

func (s *SQLiteStore) List(ctx context.Context, stableID string, limit int) ([]*Run, error) {
	query := `SELECT id, stable_id, request_json, result_json, success, recorded_at FROM runs`
	args := []any{}
	if stableID != "" {
		query += ` WHERE stable_id = ?`
		args = append(args, stableID)
	}
	query += ` ORDER BY recorded_at DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*Run
	for rows.Next() {
		r, err := scanRun(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func scanRun(scan func(dest ...any) error) (*Run, error) {
	var (
		r         Run
		success   int
		recordedAt string
	)
	if err := scan(&r.ID, &r.StableID, &r.RequestJSON, &r.ResultJSON, &success, &recordedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	r.Success = success != 0
	if t, err := time.Parse(time.RFC3339Nano, recordedAt); err == nil {
		r.RecordedAt = t
	}
	return &r, nil
}
