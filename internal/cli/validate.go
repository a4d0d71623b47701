package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/brine/internal/step"
	"github.com/roach88/brine/internal/suite"
)

// FileValidation is the validation outcome of one scenario file.
type FileValidation struct {
	File     string `json:"file"`
	Scenario string `json:"scenario,omitempty"`
	Steps    int    `json:"steps,omitempty"`
	Valid    bool   `json:"valid"`
	Code     string `json:"code,omitempty"`
	Error    string `json:"error,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid bool             `json:"valid"`
	Files []FileValidation `json:"files"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <path>...",
		Short: "Validate scenario files without running them",
		Long: `Load and validate scenario files without running any step.

Checks syntax, unknown fields, that every step entry has exactly one action,
required keys and eventually durations. Every file is checked; all problems
are reported.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	files, err := suite.Discover(paths)
	if err != nil {
		var loadErr *suite.LoadError
		if errors.As(err, &loadErr) {
			_ = formatter.Error(loadErr.Code, loadErr.Error(), nil)
		}
		return WrapExitError(ExitCommandError, "failed to find scenarios", err)
	}

	result := ValidationResult{Valid: true, Files: make([]FileValidation, 0, len(files))}
	for _, file := range files {
		formatter.VerboseLog("Validating %s", file)
		fv := validateFile(file)
		if !fv.Valid {
			result.Valid = false
		}
		result.Files = append(result.Files, fv)
	}

	if opts.Format == "json" {
		resp := CLIResponse{Status: "ok", Data: result}
		if !result.Valid {
			resp.Status = "error"
			resp.Error = &CLIError{Code: "E_VALIDATION_FAILED", Message: "one or more scenario files are invalid"}
		}
		if err := formatter.JSON(resp); err != nil {
			return err
		}
	} else {
		w := cmd.OutOrStdout()
		for _, fv := range result.Files {
			if fv.Valid {
				fmt.Fprintf(w, "✓ %s (%s, %d steps)\n", fv.File, fv.Scenario, fv.Steps)
			} else {
				fmt.Fprintf(w, "✗ %s\n", fv.File)
				fmt.Fprintf(w, "  [%s] %s\n", fv.Code, fv.Error)
			}
		}
	}

	if !result.Valid {
		return NewExitError(ExitFailure, "validation failed")
	}
	return nil
}

// validateFile loads, validates and compiles one file.
func validateFile(file string) FileValidation {
	fv := FileValidation{File: file}

	def, err := suite.LoadFile(file)
	if err != nil {
		fv.Code = suite.ErrCodeParse
		fv.Error = err.Error()
		var loadErr *suite.LoadError
		if errors.As(err, &loadErr) {
			fv.Code = loadErr.Code
			fv.Error = loadErr.Message
		}
		return fv
	}

	sc, _, err := suite.Compile(def)
	if err != nil {
		fv.Code = suite.ErrCodeInvalid
		fv.Error = err.Error()
		return fv
	}

	fv.Valid = true
	fv.Scenario = sc.Name
	fv.Steps = countSteps(sc.Steps)
	return fv
}

// countSteps counts runnable and debug steps, expanding attach groups.
func countSteps(steps []step.Step) int {
	n := 0
	for _, s := range steps {
		switch st := s.(type) {
		case step.Attach:
			n += countSteps(st.Steps)
		case step.Runnable, step.Debug:
			n++
		}
	}
	return n
}
