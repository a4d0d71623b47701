package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/brine/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Scenario string
	Status   string
	Limit    int
	ID       string // show one run in full
}

// HistoryResult is the JSON output of history.
type HistoryResult struct {
	Runs   []store.RunRecord `json:"runs"`
	Passed int               `json:"passed"`
	Failed int               `json:"failed"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs",
		Long: `List runs recorded with "brine run --db", newest first.

Examples:
  brine history --db ./brine.db
  brine history --db ./brine.db --scenario checkout --status failure --limit 5
  brine history --db ./brine.db --id 0190c8a4-...`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", rootOpts.Config.DB, "path to SQLite database (env BRINE_DB)")
	cmd.Flags().StringVar(&opts.Scenario, "scenario", "", "only runs of this scenario")
	cmd.Flags().StringVar(&opts.Status, "status", "", "only runs with this status (success|failure)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum number of runs (0 for all)")
	cmd.Flags().StringVar(&opts.ID, "id", "", "show the full report of one run")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	if opts.Database == "" {
		return NewExitError(ExitCommandError, "--db is required (or set BRINE_DB)")
	}
	if opts.Status != "" && opts.Status != store.StatusSuccess && opts.Status != store.StatusFailure {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid status %q: must be success or failure", opts.Status))
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if opts.ID != "" {
		return showRun(ctx, st, opts, formatter, cmd)
	}

	runs, err := st.ListRuns(ctx, store.ListOptions{
		Scenario: opts.Scenario,
		Status:   opts.Status,
		Limit:    opts.Limit,
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}
	passed, failed, err := st.CountRuns(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to count runs", err)
	}

	if opts.Format == "json" {
		return formatter.JSON(CLIResponse{
			Status: "ok",
			Data:   HistoryResult{Runs: runs, Passed: passed, Failed: failed},
		})
	}

	w := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSCENARIO\tSTATUS\tSTARTED\tDURATION\tFAILED STEP")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID,
			r.Scenario,
			r.Status,
			r.StartedAt.Format(time.RFC3339),
			r.Duration,
			r.FailedStep,
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\n%d passed, %d failed recorded\n", passed, failed)
	return nil
}

// showRun prints one recorded run with its full report.
func showRun(ctx context.Context, st *store.Store, opts *HistoryOptions, formatter *OutputFormatter, cmd *cobra.Command) error {
	rec, err := st.ReadRun(ctx, opts.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return NewExitError(ExitCommandError, fmt.Sprintf("run %q not found", opts.ID))
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}

	if opts.Format == "json" {
		return formatter.JSON(CLIResponse{Status: "ok", Data: rec})
	}

	doc, err := rec.Document()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to decode report", err)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Run %s at %s (%s)\n", rec.ID, rec.StartedAt.Format(time.RFC3339), rec.Duration)
	fmt.Fprintf(w, "Initial session: %s\n", rec.InitialSession)
	RenderDocument(w, rec.Scenario, doc, opts.Verbose)
	return nil
}
