package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ccdc-opensource/githook/internal/domain"
)

// Store persists hook run history using SQLite.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// NewStore creates a new SQLite store at the given path.
// Use ":memory:" for an in-memory database (useful for testing).
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Store{db: db, now: time.Now}

	if err := s.createSchema(); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return s, nil
}

func (s *Store) createSchema() error {
	schema := `
	-- One row per hook invocation
	CREATE TABLE IF NOT EXISTS runs (
		run_id INTEGER PRIMARY KEY AUTOINCREMENT,
		hook TEXT NOT NULL,
		timestamp INTEGER NOT NULL,
		blocked INTEGER NOT NULL DEFAULT 0,
		files_fixed INTEGER NOT NULL DEFAULT 0
	);

	-- Individual rule failures for a run
	CREATE TABLE IF NOT EXISTS violations (
		violation_id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL,
		check_name TEXT NOT NULL,
		file TEXT NOT NULL,
		line INTEGER NOT NULL DEFAULT 0,
		message TEXT NOT NULL,
		FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_violations_run ON violations(run_id);
	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveRun stores one completed hook invocation and its violations.
func (s *Store) SaveRun(ctx context.Context, report domain.RunReport) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	blocked := 0
	if report.Blocked() {
		blocked = 1
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO runs (hook, timestamp, blocked, files_fixed) VALUES (?, ?, ?, ?)`,
		report.HookKind, s.now().Unix(), blocked, len(report.FilesFixed),
	)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get run id: %w", err)
	}

	for _, v := range report.Violations {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO violations (run_id, check_name, file, line, message) VALUES (?, ?, ?, ?, ?)`,
			runID, v.Check, v.File, v.Line, v.Message,
		)
		if err != nil {
			return fmt.Errorf("failed to save violation: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, hook, timestamp, blocked, files_fixed FROM runs ORDER BY timestamp DESC, run_id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var rec RunRecord
		var ts int64
		var blocked int
		if err := rows.Scan(&rec.ID, &rec.Hook, &ts, &blocked, &rec.FilesFixed); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		rec.Timestamp = time.Unix(ts, 0).UTC()
		rec.Blocked = blocked != 0
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Violations returns the violations recorded for a run.
func (s *Store) Violations(ctx context.Context, runID int64) ([]domain.Violation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT check_name, file, line, message FROM violations WHERE run_id = ? ORDER BY violation_id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query violations: %w", err)
	}
	defer rows.Close()

	var violations []domain.Violation
	for rows.Next() {
		var v domain.Violation
		if err := rows.Scan(&v.Check, &v.File, &v.Line, &v.Message); err != nil {
			return nil, fmt.Errorf("failed to scan violation: %w", err)
		}
		violations = append(violations, v)
	}
	return violations, rows.Err()
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// RunRecord is one persisted hook invocation.
type RunRecord struct {
	ID         int64
	Hook       string
	Timestamp  time.Time
	Blocked    bool
	FilesFixed int
}
