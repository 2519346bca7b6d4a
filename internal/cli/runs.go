package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arvindvenkat01/macmahon-prime-detectors/internal/store"
)

// RunsOptions holds flags for the runs command group.
type RunsOptions struct {
	*RootOptions
	Store string
}

// NewRunsCommand creates the runs command group (list, show).
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect stored verification runs",
	}

	cmd.PersistentFlags().StringVar(&opts.Store, "store", "runs.db", "SQLite database holding run logs")

	cmd.AddCommand(newRunsListCommand(opts))
	cmd.AddCommand(newRunsShowCommand(opts))

	return cmd
}

func newRunsListCommand(opts *RunsOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List stored runs, newest first",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRunsList(opts, cmd)
		},
	}
}

func newRunsShowCommand(opts *RunsOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show <run-id>",
		Short:         "Re-render the report of a stored run",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRunsShow(opts, args[0], cmd)
		},
	}
}

func runRunsList(opts *RunsOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	db, err := store.Open(opts.Store)
	if err != nil {
		return commandError(formatter, ErrCodeStore, err.Error(), nil)
	}
	defer db.Close()

	runs, err := db.ListRuns(cmd.Context())
	if err != nil {
		return commandError(formatter, ErrCodeStore, err.Error(), nil)
	}

	if formatter.Format == "json" {
		return formatter.Success(runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(formatter.Writer, "No stored runs.")
		return nil
	}
	for _, r := range runs {
		status := "PASS"
		switch {
		case r.Mismatches > 0:
			status = "FAIL"
		case r.Interrupted:
			status = "PARTIAL"
		case !r.Finalized:
			status = "UNFINISHED"
		}
		fmt.Fprintf(formatter.Writer, "%s  %s  %d..%d  checked=%d mismatches=%d  [%s]  %s\n",
			r.ID, r.Detector, r.Min, r.Max, r.Total, r.Mismatches, status, r.CreatedAt)
	}
	return nil
}

func runRunsShow(opts *RunsOptions, runID string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	db, err := store.Open(opts.Store)
	if err != nil {
		return commandError(formatter, ErrCodeStore, err.Error(), nil)
	}
	defer db.Close()

	report, err := db.GetRun(cmd.Context(), runID)
	if err != nil {
		if errors.Is(err, store.ErrRunNotFound) {
			return commandError(formatter, ErrCodeRunNotFound, err.Error(), nil)
		}
		return commandError(formatter, ErrCodeStore, err.Error(), nil)
	}

	if formatter.Format == "json" {
		return formatter.Success(report)
	}
	report.Render(formatter.Writer, opts.Verbose)
	return nil
}
