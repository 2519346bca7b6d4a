package cli

import (
	"encoding/json"
	"fmt"
	"math/big"
	"os"

	"github.com/spf13/cobra"

	"github.com/arvindvenkat01/macmahon-prime-detectors/internal/compiler"
	"github.com/arvindvenkat01/macmahon-prime-detectors/internal/detector"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string // output file path
}

// CompiledDetector is the canonical JSON form of a compiled detector spec.
type CompiledDetector struct {
	Name  string         `json:"name"`
	MinN  int64          `json:"min_n"`
	Terms []CompiledTerm `json:"terms"`
}

// CompiledTerm is one statistic term of a compiled detector.
type CompiledTerm struct {
	Stat   int                 `json:"stat"`
	Coeffs map[string]*big.Int `json:"coeffs"` // power of n -> coefficient
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <spec.cue>",
		Short: "Compile a CUE detector spec to canonical JSON",
		Long: `Compile a CUE detector spec - a named table of integer coefficients
over the partition statistics - validate it, and print (or write) its
canonical JSON form. The compiled spec can be verified directly with
"verify --detector-spec".`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runCompile(opts *CompileOptions, specPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	formatter.VerboseLog("Compiling detector spec %s", specPath)

	poly, err := compiler.CompileFile(specPath)
	if err != nil {
		var details interface{}
		if ce, ok := err.(*compiler.CompileError); ok && ce.Pos.IsValid() {
			details = fmt.Sprintf("%s:%d:%d", ce.Pos.Filename(), ce.Pos.Line(), ce.Pos.Column())
		}
		return commandError(formatter, ErrCodeCompileFailed, err.Error(), details)
	}

	compiled := canonicalize(poly)

	if opts.Output != "" {
		data, err := json.MarshalIndent(compiled, "", "  ")
		if err != nil {
			return commandError(formatter, ErrCodeGeneric, fmt.Sprintf("marshaling detector: %v", err), nil)
		}
		if err := os.WriteFile(opts.Output, data, 0644); err != nil {
			return commandError(formatter, ErrCodeGeneric, fmt.Sprintf("writing output file: %v", err), nil)
		}
	}

	if formatter.Format == "json" {
		return formatter.Success(compiled)
	}

	fmt.Fprintf(formatter.Writer, "✓ Compiled detector %q: %d term(s), valid for n >= %d\n",
		compiled.Name, len(compiled.Terms), compiled.MinN)
	for _, term := range compiled.Terms {
		fmt.Fprintf(formatter.Writer, "  M_%d: %d coefficient(s)\n", term.Stat, len(term.Coeffs))
	}
	if opts.Output != "" {
		fmt.Fprintf(formatter.Writer, "Wrote canonical form to %s\n", opts.Output)
	}
	return nil
}

// canonicalize converts a compiled polynomial into its JSON form.
func canonicalize(poly *detector.Polynomial) CompiledDetector {
	compiled := CompiledDetector{
		Name: poly.Name(),
		MinN: poly.MinN(),
	}
	for _, term := range poly.Terms() {
		coeffs := make(map[string]*big.Int, len(term.Coeffs))
		for pow, c := range term.Coeffs {
			coeffs[fmt.Sprintf("%d", pow)] = c
		}
		compiled.Terms = append(compiled.Terms, CompiledTerm{Stat: term.Stat, Coeffs: coeffs})
	}
	return compiled
}
