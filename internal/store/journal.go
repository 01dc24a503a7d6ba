package store

import (
	"context"
	"database/sql"
	"fmt"
)

// TableRuns is the execution journal.
const TableRuns = "runs"

// Run outcomes.
const (
	RunRunning   = ""
	RunOK        = "ok"
	RunFailed    = "failed"
	RunAbandoned = "abandoned" // process ended before the run finished
)

// Run is one journaled action execution.
type Run struct {
	ID         string `json:"id"`
	Key        string `json:"key"`
	StartedAt  int64  `json:"started_at"`
	FinishedAt int64  `json:"finished_at,omitempty"`
	Outcome    string `json:"outcome"`
	FailedPage int    `json:"failed_page,omitempty"`
	Error      string `json:"error,omitempty"`
}

// WriteRunStart records that an execution began.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - a duplicate id is ignored.
func (s *Store) WriteRunStart(ctx context.Context, id, key string, startedAt int64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, action_key, started_at)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, id, key, startedAt)
	if err != nil {
		return fmt.Errorf("write run start: %w", err)
	}
	return nil
}

// WriteRunEnd records how an execution finished. A run finishes once; later
// writes for the same id are silently ignored.
func (s *Store) WriteRunEnd(ctx context.Context, run Run) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE runs
		SET finished_at = ?, outcome = ?, failed_page = ?, error = ?
		WHERE id = ? AND finished_at = 0
	`, run.FinishedAt, run.Outcome, run.FailedPage, run.Error, run.ID)
	if err != nil {
		return fmt.Errorf("write run end: %w", err)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	return s.readRuns(ctx, "recent runs", `
		SELECT id, action_key, started_at, finished_at, outcome, failed_page, error
		FROM runs
		ORDER BY started_at DESC, id DESC
		LIMIT ?
	`, limit)
}

// IncompleteRuns returns runs that started but never finished, oldest first.
// Used at startup to find executions a previous process did not complete.
func (s *Store) IncompleteRuns(ctx context.Context) ([]Run, error) {
	return s.readRuns(ctx, "incomplete runs", `
		SELECT id, action_key, started_at, finished_at, outcome, failed_page, error
		FROM runs
		WHERE finished_at = 0
		ORDER BY started_at ASC, id ASC
	`)
}

// AbandonIncompleteRuns closes every unfinished run as abandoned at `at`.
// Returns how many runs were closed.
func (s *Store) AbandonIncompleteRuns(ctx context.Context, at int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE runs SET finished_at = ?, outcome = ?
		WHERE finished_at = 0
	`, at, RunAbandoned)
	if err != nil {
		return 0, fmt.Errorf("abandon incomplete runs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("abandon incomplete runs: rows affected: %w", err)
	}
	return n, nil
}

// PruneRuns deletes finished runs that started before `before`.
func (s *Store) PruneRuns(ctx context.Context, before int64) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM runs WHERE finished_at != 0 AND started_at < ?", before)
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune runs: rows affected: %w", err)
	}
	return n, nil
}

func (s *Store) readRuns(ctx context.Context, what, query string, args ...any) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", what, err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", what, err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", what, err)
	}
	return runs, nil
}

func scanRun(rows *sql.Rows) (Run, error) {
	var r Run
	err := rows.Scan(&r.ID, &r.Key, &r.StartedAt, &r.FinishedAt, &r.Outcome, &r.FailedPage, &r.Error)
	return r, err
}
