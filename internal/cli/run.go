package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/brine/internal/engine"
	"github.com/roach88/brine/internal/report"
	"github.com/roach88/brine/internal/runner"
	"github.com/roach88/brine/internal/store"
	"github.com/roach88/brine/internal/suite"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Workers  int
	Database string
	Filter   string // scenario name filter (glob pattern)

	// Clock and IDs override the pool's time source and run ID generator
	// (for testing). If nil, the system clock and UUIDv7 IDs are used.
	Clock engine.Clock
	IDs   runner.IDGenerator
}

// ScenarioOutput is one scenario in the JSON output of run.
type ScenarioOutput struct {
	ID       string        `json:"id"`
	Scenario string        `json:"scenario"`
	File     string        `json:"file"`
	Passed   bool          `json:"passed"`
	Duration time.Duration `json:"duration_ns"`
	Report   report.Report `json:"report"`
}

// RunResult is the JSON output of run.
type RunResult struct {
	Scenarios []ScenarioOutput `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <path>...",
		Short: "Run scenario files",
		Long: `Run scenario files concurrently and report each outcome.

Paths may be .yaml, .yml or .cue files, or directories searched recursively.
With --db every run is recorded in a SQLite run history.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, unreadable files, etc.)

Examples:
  brine run ./scenarios
  brine run ./scenarios --filter "checkout-*" --workers 8
  brine run ./scenarios/login.yaml --db ./brine.db --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(opts, args, cmd)
		},
	}

	cmd.Flags().IntVarP(&opts.Workers, "workers", "w", rootOpts.Config.Workers, "concurrent scenario runs (env BRINE_WORKERS)")
	cmd.Flags().StringVar(&opts.Database, "db", rootOpts.Config.DB, "record runs in this SQLite database (env BRINE_DB)")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "run only scenarios whose name matches this glob pattern")

	return cmd
}

// loadedScenario is a compiled scenario file ready to run.
type loadedScenario struct {
	file string
	job  runner.Job
}

func runScenarios(opts *RunOptions, paths []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	logger := opts.logger(cmd.ErrOrStderr())

	loaded, err := loadScenarios(paths, opts.Filter)
	if err != nil {
		return err
	}
	formatter.VerboseLog("Loaded %d scenario(s)", len(loaded))

	if len(loaded) == 0 {
		if opts.Format == "json" {
			return formatter.JSON(CLIResponse{Status: "ok", Data: RunResult{Scenarios: []ScenarioOutput{}}})
		}
		fmt.Fprintln(cmd.OutOrStdout(), "No scenarios found.")
		return nil
	}

	// Setup signal handling for graceful shutdown
	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	clock := opts.Clock
	if clock == nil {
		clock = engine.SystemClock{}
	}
	ids := opts.IDs
	if ids == nil {
		ids = runner.UUIDv7Generator{}
	}

	eng := engine.New(engine.WithClock(clock), engine.WithLogger(logger))
	pool := runner.New(eng,
		runner.WithWorkers(opts.Workers),
		runner.WithClock(clock),
		runner.WithIDGenerator(ids),
		runner.WithLogger(logger),
	)

	jobs := make([]runner.Job, len(loaded))
	for i, l := range loaded {
		jobs[i] = l.job
	}

	logger.Debug("running scenarios", "count", len(jobs), "workers", pool.Workers())
	results, err := pool.RunAll(ctx, jobs)
	if err != nil {
		return WrapExitError(ExitCommandError, "run interrupted", err)
	}

	if opts.Database != "" {
		if err := recordRuns(ctx, opts.Database, results); err != nil {
			return err
		}
		formatter.VerboseLog("Recorded %d run(s) in %s", len(results), opts.Database)
	}

	out := RunResult{
		Scenarios: make([]ScenarioOutput, len(results)),
		Total:     len(results),
	}
	for i, res := range results {
		passed := res.Report.Passed()
		if passed {
			out.Passed++
		} else {
			out.Failed++
		}
		out.Scenarios[i] = ScenarioOutput{
			ID:       res.ID,
			Scenario: res.Scenario,
			File:     loaded[i].file,
			Passed:   passed,
			Duration: res.Duration,
			Report:   res.Report,
		}
	}

	if opts.Format == "json" {
		return outputRunJSON(formatter, out)
	}
	return outputRunText(cmd, opts, out)
}

// loadScenarios discovers, loads and compiles scenario files, keeping those
// whose name matches filter.
func loadScenarios(paths []string, filter string) ([]loadedScenario, error) {
	files, err := suite.Discover(paths)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to find scenarios", err)
	}

	var loaded []loadedScenario
	for _, file := range files {
		def, err := suite.LoadFile(file)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to load scenario", err)
		}

		if filter != "" {
			matched, err := filepath.Match(filter, def.Name)
			if err != nil {
				return nil, WrapExitError(ExitCommandError, "invalid filter pattern", err)
			}
			if !matched {
				continue
			}
		}

		sc, initial, err := suite.Compile(def)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, fmt.Sprintf("failed to compile %s", file), err)
		}
		loaded = append(loaded, loadedScenario{
			file: file,
			job:  runner.Job{Scenario: sc, Session: initial},
		})
	}
	return loaded, nil
}

// recordRuns writes all results to the run history in one transaction.
func recordRuns(ctx context.Context, path string, results []runner.Result) error {
	st, err := store.Open(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	recs := make([]store.RunRecord, 0, len(results))
	for _, res := range results {
		rec, err := store.NewRunRecord(res)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to encode run", err)
		}
		recs = append(recs, rec)
	}

	// Runs that finished must be recorded even if ctx was interrupted.
	if err := st.WriteRuns(context.WithoutCancel(ctx), recs); err != nil {
		return WrapExitError(ExitCommandError, "failed to record runs", err)
	}
	return nil
}

// outputRunJSON outputs the run result as JSON.
func outputRunJSON(formatter *OutputFormatter, result RunResult) error {
	response := CLIResponse{Status: "ok", Data: result}
	if result.Failed > 0 {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    "E_RUN_FAILED",
			Message: fmt.Sprintf("%d scenario(s) failed", result.Failed),
		}
	}

	if err := formatter.JSON(response); err != nil {
		return err
	}

	if result.Failed > 0 {
		// Scenario failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}
	return nil
}

// outputRunText outputs every report followed by a summary.
func outputRunText(cmd *cobra.Command, opts *RunOptions, result RunResult) error {
	w := cmd.OutOrStdout()

	for _, s := range result.Scenarios {
		if err := RenderReport(w, s.Scenario, s.Report, opts.Verbose); err != nil {
			return err
		}
	}
	RenderSummary(w, result.Passed, result.Failed)

	if result.Failed > 0 {
		// Scenario failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}
	return nil
}
