package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// execer is the subset of *sql.DB and *sql.Tx used for writes.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// scanner is the subset of *sql.Row and *sql.Rows used for reads.
type scanner interface {
	Scan(dest ...any) error
}

const runColumns = `id, scenario, status, started_at, duration_ns, failed_step, initial_session, session_digest, report`

// ListOptions filters ListRuns.
type ListOptions struct {
	// Scenario restricts results to one scenario name. Empty means all.
	Scenario string

	// Status restricts results to "success" or "failure". Empty means all.
	Status string

	// Limit caps the number of rows. Zero or negative means no limit.
	Limit int
}

// ListRuns returns recorded runs, newest first.
// Ties on start time are broken by ID so results are deterministic.
//
// Returns an empty slice (not nil) if no records match.
func (s *Store) ListRuns(ctx context.Context, opts ListOptions) ([]RunRecord, error) {
	var (
		where []string
		args  []any
	)
	if opts.Scenario != "" {
		where = append(where, "scenario = ?")
		args = append(args, opts.Scenario)
	}
	if opts.Status != "" {
		where = append(where, "status = ?")
		args = append(args, opts.Status)
	}

	query := "SELECT " + runColumns + " FROM runs"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY started_at DESC, id COLLATE BINARY DESC"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []RunRecord{}
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return runs, nil
}

// ReadRun retrieves a single run by ID.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadRun(ctx context.Context, id string) (RunRecord, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+runColumns+" FROM runs WHERE id = ?", id)
	return scanRun(row)
}

// CountRuns returns the number of recorded runs per status.
func (s *Store) CountRuns(ctx context.Context) (passed, failed int, err error) {
	err = s.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN status = 'success' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'failure' THEN 1 ELSE 0 END), 0)
		FROM runs
	`).Scan(&passed, &failed)
	if err != nil {
		return 0, 0, fmt.Errorf("count runs: %w", err)
	}
	return passed, failed, nil
}

func scanRun(row scanner) (RunRecord, error) {
	var (
		rec        RunRecord
		startedAt  int64
		durationNs int64
		initial    string
		doc        string
	)
	err := row.Scan(
		&rec.ID,
		&rec.Scenario,
		&rec.Status,
		&startedAt,
		&durationNs,
		&rec.FailedStep,
		&initial,
		&rec.SessionDigest,
		&doc,
	)
	if err == sql.ErrNoRows {
		return RunRecord{}, err
	}
	if err != nil {
		return RunRecord{}, fmt.Errorf("scan run: %w", err)
	}

	rec.StartedAt = time.Unix(0, startedAt).UTC()
	rec.Duration = time.Duration(durationNs)
	rec.InitialSession = json.RawMessage(initial)
	rec.Report = json.RawMessage(doc)
	return rec, nil
}
