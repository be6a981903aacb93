// Package store keeps a history of check runs in a SQLite database.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id     TEXT    NOT NULL,
	program    TEXT    NOT NULL,
	pass       TEXT    NOT NULL,
	code       TEXT    NOT NULL,
	message    TEXT    NOT NULL,
	checked_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS runs_run_id ON runs(run_id);
`

// Run is one pass outcome for one program.
type Run struct {
	RunID     string
	Program   string
	Pass      string
	Code      string // "ok" or a diagnostic code
	Message   string
	CheckedAt time.Time
}

type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One writer at a time.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Record appends runs in one transaction.
func (s *Store) Record(ctx context.Context, runs ...Run) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO runs (run_id, program, pass, code, message, checked_at) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range runs {
		if _, err := stmt.ExecContext(ctx, r.RunID, r.Program, r.Pass, r.Code, r.Message, r.CheckedAt.UnixNano()); err != nil {
			return fmt.Errorf("record %s/%s: %w", r.Program, r.Pass, err)
		}
	}
	return tx.Commit()
}

// Runs returns the most recent runs first, at most limit rows (all rows if limit <= 0).
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT run_id, program, pass, code, message, checked_at FROM runs ORDER BY id DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		var nanos int64
		if err := rows.Scan(&r.RunID, &r.Program, &r.Pass, &r.Code, &r.Message, &nanos); err != nil {
			return nil, err
		}
		r.CheckedAt = time.Unix(0, nanos)
		out = append(out, r)
	}
	return out, rows.Err()
}
