package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	// Config supplies environment defaults for command flags.
	Config Config
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the brine CLI with defaults
// taken from the process environment.
func NewRootCommand() (*cobra.Command, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	return NewRootCommandWithConfig(cfg), nil
}

// NewRootCommandWithConfig creates the root command with explicit defaults.
func NewRootCommandWithConfig(cfg Config) *cobra.Command {
	opts := &RootOptions{Config: cfg}

	cmd := &cobra.Command{
		Use:   "brine",
		Short: "brine - scenario runner",
		Long: `Run behavior scenarios written in YAML or CUE.

A scenario is an ordered list of steps sharing a session. brine runs each
scenario until its first failing step and reports what passed, what failed
and what never ran.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", cfg.Verbose, "verbose output (env BRINE_VERBOSE)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", cfg.Format, "output format (json|text) (env BRINE_FORMAT)")

	// Add subcommands
	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// logger returns the diagnostic logger for a command writing to w.
func (o *RootOptions) logger(w io.Writer) *slog.Logger {
	return newLogger(w, o.Format, o.Verbose)
}

// formatter returns the output formatter for a command.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
	}
}
