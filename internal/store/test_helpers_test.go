package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roach88/brine/internal/report"
	"github.com/roach88/brine/internal/runner"
	"github.com/roach88/brine/internal/session"
	"github.com/roach88/brine/internal/testutil"
)

// createTestStore creates a new store in a temp directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRecord builds a record for scenario that started offset after
// testutil.Epoch. Failed runs fail on step "check".
func createTestRecord(t *testing.T, id, scenario string, offset time.Duration, passed bool) RunRecord {
	t.Helper()

	var r report.Report = report.Success{Session: session.New().Set("user", "alice")}
	if !passed {
		r = report.Failure{
			FailedStep:   report.FailedStep{Title: "check", Message: "boom"},
			SuccessSteps: []string{"setup"},
		}
	}

	rec, err := NewRunRecord(runner.Result{
		ID:       id,
		Scenario: scenario,
		Initial:  session.New().Set("user", "alice"),
		Report:   r,
		Started:  testutil.Epoch.Add(offset),
		Duration: 25 * time.Millisecond,
	})
	require.NoError(t, err)
	return rec
}
