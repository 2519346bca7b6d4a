package cli

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/arvindvenkat01/macmahon-prime-detectors/internal/compiler"
	"github.com/arvindvenkat01/macmahon-prime-detectors/internal/config"
	"github.com/arvindvenkat01/macmahon-prime-detectors/internal/detector"
	"github.com/arvindvenkat01/macmahon-prime-detectors/internal/store"
	"github.com/arvindvenkat01/macmahon-prime-detectors/internal/verify"
)

// VerifyOptions holds flags for the verify command.
type VerifyOptions struct {
	*RootOptions
	Min          int64
	Max          int64
	Detector     string
	DetectorSpec string
	MinN         int64
	Workers      int
	Store        string
	Config       string
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &VerifyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a detector against true primality over a range",
		Long: `Scan a range of integers, evaluate the chosen detector at each n,
and check that the detector value is zero exactly when n is prime.

Counterexamples are findings, not errors: they are listed in the report and
the command exits with code 1. The scan can be interrupted (Ctrl-C) between
iterations; the report then covers the prefix checked so far, and anything
already written to --store stays persisted.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(opts, cmd)
		},
	}

	cmd.Flags().Int64Var(&opts.Min, "min", config.DefaultMin, "first n to check")
	cmd.Flags().Int64Var(&opts.Max, "max", config.DefaultMax, "last n to check")
	cmd.Flags().StringVarP(&opts.Detector, "detector", "d", config.DefaultDetector,
		fmt.Sprintf("built-in detector to verify %v", detector.Names()))
	cmd.Flags().StringVar(&opts.DetectorSpec, "detector-spec", "", "CUE detector spec to verify instead of a built-in")
	cmd.Flags().Int64Var(&opts.MinN, "min-n", 0, "raise the detector's validity floor")
	cmd.Flags().IntVarP(&opts.Workers, "workers", "w", 1, "parallel scan workers")
	cmd.Flags().StringVar(&opts.Store, "store", "", "SQLite database to persist the run to")
	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "YAML run profile (flags override)")

	return cmd
}

func runVerify(opts *VerifyOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	if opts.Config != "" {
		cfg, err := config.Load(opts.Config)
		if err != nil {
			return commandError(formatter, ErrCodeConfig, err.Error(), nil)
		}
		applyConfig(opts, cfg, cmd)
	}

	var det detector.Detector
	var err error
	if opts.DetectorSpec != "" {
		det, err = compiler.CompileFile(opts.DetectorSpec)
		if err != nil {
			return commandError(formatter, ErrCodeCompileFailed, err.Error(), nil)
		}
	} else {
		var ok bool
		det, ok = detector.Lookup(opts.Detector)
		if !ok {
			return commandError(formatter, ErrCodeUnknownDetector,
				fmt.Sprintf("unknown detector %q: available %v", opts.Detector, detector.Names()), nil)
		}
	}
	if opts.MinN > opts.Min {
		opts.Min = opts.MinN
	}

	verifyOpts := verify.Options{
		Min:      opts.Min,
		Max:      opts.Max,
		Detector: det,
		Workers:  opts.Workers,
	}

	var db *store.Store
	var runID string
	if opts.Store != "" {
		db, err = store.Open(opts.Store)
		if err != nil {
			return commandError(formatter, ErrCodeStore, err.Error(), nil)
		}
		defer db.Close()

		runID = uuid.NewString()
		if err := db.BeginRun(cmd.Context(), runID, det.Name(), opts.Min, opts.Max); err != nil {
			return commandError(formatter, ErrCodeStore, err.Error(), nil)
		}
		verifyOpts.Sink = &store.RunSink{Store: db, RunID: runID}
	}

	formatter.VerboseLog("Verifying detector %q on %d..%d (workers=%d)",
		det.Name(), opts.Min, opts.Max, opts.Workers)

	report, err := verify.Verify(cmd.Context(), verifyOpts)
	if err != nil {
		if verify.IsOptionsError(err) {
			return commandError(formatter, ErrCodeInvalidRange, err.Error(), nil)
		}
		return commandError(formatter, ErrCodeGeneric, err.Error(), nil)
	}
	report.RunID = runID

	if db != nil {
		// Fresh context: the scan's context may already be cancelled when the
		// run was interrupted, and the summary must still be stamped.
		if err := db.FinalizeRun(context.Background(), runID, report); err != nil {
			return commandError(formatter, ErrCodeStore, err.Error(), nil)
		}
	}

	if formatter.Format == "json" {
		if err := formatter.Success(report); err != nil {
			return err
		}
	} else {
		report.Render(formatter.Writer, opts.Verbose)
	}

	if !report.Passed() {
		return NewExitError(ExitFailure, fmt.Sprintf("%d counterexample(s) found", len(report.Mismatches)))
	}
	return nil
}

// applyConfig merges a run profile under explicitly set flags: any flag the
// user typed wins over the profile value.
func applyConfig(opts *VerifyOptions, cfg *config.Config, cmd *cobra.Command) {
	flags := cmd.Flags()
	if !flags.Changed("min") {
		opts.Min = cfg.Range.Min
	}
	if !flags.Changed("max") {
		opts.Max = cfg.Range.Max
	}
	if !flags.Changed("detector") && cfg.Detector != "" {
		opts.Detector = cfg.Detector
	}
	if !flags.Changed("detector-spec") && cfg.DetectorSpec != "" {
		opts.DetectorSpec = cfg.DetectorSpec
		opts.Detector = ""
	}
	if !flags.Changed("min-n") && cfg.MinN != 0 {
		opts.MinN = cfg.MinN
	}
	if !flags.Changed("workers") && cfg.Workers != 0 {
		opts.Workers = cfg.Workers
	}
	if !flags.Changed("store") && cfg.Store != "" {
		opts.Store = cfg.Store
	}
}
