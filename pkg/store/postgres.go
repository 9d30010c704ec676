package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// PostgresStore is the durable SQL-based ProvenanceStore backend over a
// *sql.DB the caller has opened; this package does not read DATABASE_URL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore wraps an already-opened *sql.DB and migrates its schema.
func NewPostgresStore(db *sql.DB) (*PostgresStore, error) {
	s := &PostgresStore{db: db}
	if err := s.migrate(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			stable_id TEXT NOT NULL,
			request_json TEXT NOT NULL,
			result_json TEXT NOT NULL,
			success BOOLEAN NOT NULL,
			recorded_at TIMESTAMPTZ NOT NULL
		)`)
	return err
}

func (s *PostgresStore) Save(ctx context.Context, run *Run) error {
	if run.ID == "" {
		return fmt.Errorf("store: run.ID required")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, stable_id, request_json, result_json, success, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING`,
		run.ID, run.StableID, run.RequestJSON, run.ResultJSON, run.Success, run.RecordedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("store: insert run: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, stable_id, request_json, result_json, success, recorded_at
		FROM runs WHERE id = $1`, id)
	var r Run
	err := row.Scan(&r.ID, &r.StableID, &r.RequestJSON, &r.ResultJSON, &r.Success, &r.RecordedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}

func (s *PostgresStore) List(ctx context.Context, stableID string, limit int) ([]*Run, error) {
	query := `SELECT id, stable_id, request_json, result_json, success, recorded_at FROM runs`
	args := []any{}
	if stableID != "" {
		query += ` WHERE stable_id = $1`
		args = append(args, stableID)
	}
	query += ` ORDER BY recorded_at DESC`
	if limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d`, len(args)+1)
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.StableID, &r.RequestJSON, &r.ResultJSON, &r.Success, &r.RecordedAt); err != nil {
			return nil, err
		}
		out = append(out, &r)
	}
	return out, rows.Err()
}
