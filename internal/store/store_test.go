package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err, "database file was not created")
}

func TestOpen_OpensExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s1, err := Open(path)
	require.NoError(t, err)
	s1.Close()

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	var count int
	require.NoError(t, s2.db.QueryRow("SELECT COUNT(*) FROM runs").Scan(&count))
	assert.Equal(t, 0, count)
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		s, err := Open(path)
		require.NoError(t, err, "iteration %d", i)
		s.Close()
	}
}

func TestOpen_InvalidPath(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing", "dir", "test.db"))

	assert.Error(t, err)
}

func TestOpen_ConnectionSettings(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"synchronous", "1"},
		{"busy_timeout", "5000"},
		{"foreign_keys", "1"},
	}

	for _, tt := range tests {
		t.Run(tt.pragma, func(t *testing.T) {
			got, err := s.pragma(ctx, tt.pragma)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOpen_AppliesAllMigrations(t *testing.T) {
	s := createTestStore(t)

	version, err := s.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, migrations[len(migrations)-1].version, version)

	var name string
	err = s.DB().QueryRow(`
		SELECT name FROM sqlite_master WHERE type = 'index' AND name = 'idx_runs_started'
	`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "idx_runs_started", name)
}

func TestOpen_UpgradesOlderHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.db")

	// A history written before the start-time index existed.
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = db.Exec(schemaSQL)
	require.NoError(t, err)
	_, err = db.Exec("PRAGMA user_version = 1")
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO runs (id, scenario, status, started_at, duration_ns, initial_session, session_digest, report)
		VALUES ('old-1', 'greet', 'success', 0, 0, '{}', 'd', '{"status":"success","trace":[]}')`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	version, err := s.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, version)

	rec, err := s.ReadRun(context.Background(), "old-1")
	require.NoError(t, err, "existing runs survive the upgrade")
	assert.Equal(t, "greet", rec.Scenario)
}

func TestClose_NilDB(t *testing.T) {
	s := &Store{}

	assert.NoError(t, s.Close())
}
