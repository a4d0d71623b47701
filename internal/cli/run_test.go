package cli

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/brine/internal/store"
	"github.com/roach88/brine/internal/testutil"
)

func newRunOptions(format string) (*RunOptions, *testutil.FakeClock) {
	clock := testutil.NewFakeClock()
	return &RunOptions{
		RootOptions: &RootOptions{Format: format, Config: defaultConfig()},
		Workers:     1,
		Clock:       clock,
		IDs:         testutil.NewFixedGenerator(),
	}, clock
}

func TestRun_AllPass(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "greet.yaml", greetScenario)

	opts, _ := newRunOptions("text")
	cmd, out, _ := testCommand()

	err := runScenarios(opts, []string{dir}, cmd)
	require.NoError(t, err)

	assert.Equal(t, "✓ greet\n"+
		"    ✓ assert user == alice\n"+
		"\n"+
		"Run Summary: 1 passed, 0 failed, 1 total\n"+
		"✓ All scenarios passed\n", out.String())
}

func TestRun_MixedText(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "a_greet.yaml", greetScenario)
	writeScenario(t, dir, "b_login.yaml", loginScenario)

	opts, _ := newRunOptions("text")
	cmd, out, _ := testCommand()

	err := runScenarios(opts, []string{dir}, cmd)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	newGoldie(t).Assert(t, "run_mixed", out.Bytes())
}

func TestRun_JSON(t *testing.T) {
	dir := t.TempDir()
	greet := writeScenario(t, dir, "a_greet.yaml", greetScenario)
	login := writeScenario(t, dir, "b_login.yaml", loginScenario)

	opts, _ := newRunOptions("json")
	cmd, out, _ := testCommand()

	err := runScenarios(opts, []string{dir}, cmd)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Scenarios []struct {
				ID       string          `json:"id"`
				Scenario string          `json:"scenario"`
				File     string          `json:"file"`
				Passed   bool            `json:"passed"`
				Report   json.RawMessage `json:"report"`
			} `json:"scenarios"`
			Passed int `json:"passed"`
			Failed int `json:"failed"`
			Total  int `json:"total"`
		} `json:"data"`
		Error *CLIError `json:"error"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))

	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E_RUN_FAILED", resp.Error.Code)
	assert.Equal(t, 1, resp.Data.Passed)
	assert.Equal(t, 1, resp.Data.Failed)
	assert.Equal(t, 2, resp.Data.Total)

	require.Len(t, resp.Data.Scenarios, 2)
	first, second := resp.Data.Scenarios[0], resp.Data.Scenarios[1]
	// IDs are taken as runs start, which need not follow job order.
	assert.ElementsMatch(t, []string{"run-1", "run-2"}, []string{first.ID, second.ID})
	assert.Equal(t, "greet", first.Scenario)
	assert.Equal(t, greet, first.File)
	assert.True(t, first.Passed)
	assert.Equal(t, login, second.File)
	assert.False(t, second.Passed)

	var doc struct {
		Status     string `json:"status"`
		FailedStep struct {
			Title string `json:"title"`
		} `json:"failed_step"`
		NotExecuted []string `json:"not_executed_steps"`
	}
	require.NoError(t, json.Unmarshal(second.Report, &doc))
	assert.Equal(t, "failure", doc.Status)
	assert.Equal(t, "assert status == paid", doc.FailedStep.Title)
	assert.Equal(t, []string{"dump"}, doc.NotExecuted)
}

func TestRun_JSONAllPass(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "greet.yaml", greetScenario)

	opts, _ := newRunOptions("json")
	cmd, out, _ := testCommand()

	require.NoError(t, runScenarios(opts, []string{dir}, cmd))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Nil(t, resp.Error)
}

func TestRun_EventuallyUsesClock(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "poll.yaml", pollScenario)

	opts, clock := newRunOptions("text")
	cmd, out, _ := testCommand()

	err := runScenarios(opts, []string{dir}, cmd)
	require.Error(t, err)

	// Three waits of 10ms bring the region to its 30ms budget.
	assert.Equal(t, []time.Duration{10 * time.Millisecond, 10 * time.Millisecond, 10 * time.Millisecond}, clock.Waits())
	assert.Contains(t, out.String(), "✗ poll\n")
	assert.Contains(t, out.String(), "    ✓ set status\n")
	assert.Contains(t, out.String(), "    ✗ assert status == paid\n")
}

func TestRun_Filter(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "a_greet.yaml", greetScenario)
	writeScenario(t, dir, "b_login.yaml", loginScenario)

	opts, _ := newRunOptions("text")
	opts.Filter = "gr*"
	cmd, out, _ := testCommand()

	require.NoError(t, runScenarios(opts, []string{dir}, cmd))
	assert.Contains(t, out.String(), "✓ greet\n")
	assert.NotContains(t, out.String(), "login")
}

func TestRun_InvalidFilter(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "greet.yaml", greetScenario)

	opts, _ := newRunOptions("text")
	opts.Filter = "[" // unterminated character class
	cmd, _, _ := testCommand()

	err := runScenarios(opts, []string{dir}, cmd)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRun_NoScenarios(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"text", "No scenarios found.\n"},
		{"json", `"scenarios": []`},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			opts, _ := newRunOptions(tt.format)
			cmd, out, _ := testCommand()

			require.NoError(t, runScenarios(opts, []string{t.TempDir()}, cmd))
			assert.Contains(t, out.String(), tt.want)
		})
	}
}

func TestRun_MissingPath(t *testing.T) {
	opts, _ := newRunOptions("text")
	cmd, _, _ := testCommand()

	err := runScenarios(opts, []string{filepath.Join(t.TempDir(), "missing.yaml")}, cmd)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRun_InvalidScenario(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "bad.yaml", "name: bad\nsteps: []\n")

	opts, _ := newRunOptions("text")
	cmd, _, _ := testCommand()

	err := runScenarios(opts, []string{dir}, cmd)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRun_RecordsRuns(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "a_greet.yaml", greetScenario)
	writeScenario(t, dir, "b_login.yaml", loginScenario)
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	opts, _ := newRunOptions("text")
	opts.Database = dbPath
	cmd, _, _ := testCommand()

	err := runScenarios(opts, []string{dir}, cmd)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	greetRuns, err := st.ListRuns(ctx, store.ListOptions{Scenario: "greet"})
	require.NoError(t, err)
	require.Len(t, greetRuns, 1)
	greet, err := st.ReadRun(ctx, greetRuns[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "greet", greet.Scenario)
	assert.True(t, greet.Passed())
	assert.True(t, testutil.Epoch.Equal(greet.StartedAt))
	assert.JSONEq(t, `{"user":"alice"}`, string(greet.InitialSession))

	loginRuns, err := st.ListRuns(ctx, store.ListOptions{Scenario: "login"})
	require.NoError(t, err)
	require.Len(t, loginRuns, 1)
	login := loginRuns[0]
	assert.Equal(t, store.StatusFailure, login.Status)
	assert.Equal(t, "assert status == paid", login.FailedStep)

	passed, failed, err := st.CountRuns(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, passed)
	assert.Equal(t, 1, failed)
}

func TestRunCommand_ThroughRoot(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, "greet.yaml", greetScenario)

	out, err := executeRoot(t, "run", path, "--workers", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ All scenarios passed")
}

func TestRunCommand_RequiresPath(t *testing.T) {
	_, err := executeRoot(t, "run")
	require.Error(t, err)
}
