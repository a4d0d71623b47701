package store

import (
	"context"
	"fmt"
)

// WriteRun inserts a run record into the store.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - duplicate IDs are silently ignored.
// Other constraint violations (e.g., an unknown status) still return errors.
func (s *Store) WriteRun(ctx context.Context, rec RunRecord) error {
	if err := insertRun(ctx, s.db, rec); err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	return nil
}

// WriteRuns inserts many run records in one transaction.
// Either all records are written or none are.
func (s *Store) WriteRuns(ctx context.Context, recs []RunRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write runs: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	for _, rec := range recs {
		if err := insertRun(ctx, tx, rec); err != nil {
			return fmt.Errorf("write runs: %s: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write runs: commit: %w", err)
	}
	return nil
}

func insertRun(ctx context.Context, db execer, rec RunRecord) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO runs
		(id, scenario, status, started_at, duration_ns, failed_step, initial_session, session_digest, report)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		rec.ID,
		rec.Scenario,
		rec.Status,
		rec.StartedAt.UTC().UnixNano(),
		int64(rec.Duration),
		rec.FailedStep,
		string(rec.InitialSession),
		rec.SessionDigest,
		string(rec.Report),
	)
	return err
}
