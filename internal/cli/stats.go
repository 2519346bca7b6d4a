package cli

import (
	"fmt"
	"math/big"

	"github.com/spf13/cobra"

	"github.com/arvindvenkat01/macmahon-prime-detectors/internal/partition"
)

// StatsOptions holds flags for the stats command.
type StatsOptions struct {
	*RootOptions
	Min    int64
	Max    int64
	MaxK   int
	Counts bool
}

// StatsRow is one line of the statistics table.
type StatsRow struct {
	N     int64      `json:"n"`
	Stats []*big.Int `json:"stats"` // index k-1 holds the order-k statistic
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StatsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print the partition statistics M_k(n) for a range",
		Long: `Tabulate the MacMahonesque statistics M_1(n)..M_k(n) - or, with
--counts, the plain number of partitions with exactly k distinct part
sizes - for every n in the range.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(opts, cmd)
		},
	}

	cmd.Flags().Int64Var(&opts.Min, "min", 0, "first n to tabulate")
	cmd.Flags().Int64Var(&opts.Max, "max", 50, "last n to tabulate")
	cmd.Flags().IntVarP(&opts.MaxK, "max-k", "k", partition.DefaultMaxK, "highest statistic order")
	cmd.Flags().BoolVar(&opts.Counts, "counts", false, "tabulate unweighted partition counts instead")

	return cmd
}

func runStats(opts *StatsOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if opts.Min < 0 || opts.Min > opts.Max {
		return commandError(formatter, ErrCodeInvalidRange,
			fmt.Sprintf("invalid range %d..%d", opts.Min, opts.Max), nil)
	}
	if opts.MaxK < 1 {
		return commandError(formatter, ErrCodeInvalidRange,
			fmt.Sprintf("max-k must be positive, got %d", opts.MaxK), nil)
	}

	eng := partition.NewEngine(opts.MaxK)
	rows := make([]StatsRow, 0, opts.Max-opts.Min+1)
	for n := opts.Min; n <= opts.Max; n++ {
		row := StatsRow{N: n, Stats: make([]*big.Int, opts.MaxK)}
		for k := 1; k <= opts.MaxK; k++ {
			var (
				v   *big.Int
				err error
			)
			if opts.Counts {
				v, err = eng.Count(n, k)
			} else {
				v, err = eng.Weighted(n, k)
			}
			if err != nil {
				return commandError(formatter, ErrCodeGeneric, err.Error(), nil)
			}
			row.Stats[k-1] = v
		}
		rows = append(rows, row)
	}

	if formatter.Format == "json" {
		return formatter.Success(rows)
	}

	label := "M"
	if opts.Counts {
		label = "C"
	}
	fmt.Fprintf(formatter.Writer, "%6s", "n")
	for k := 1; k <= opts.MaxK; k++ {
		fmt.Fprintf(formatter.Writer, " | %14s", fmt.Sprintf("%s_%d(n)", label, k))
	}
	fmt.Fprintln(formatter.Writer)
	for _, row := range rows {
		fmt.Fprintf(formatter.Writer, "%6d", row.N)
		for _, v := range row.Stats {
			fmt.Fprintf(formatter.Writer, " | %14d", v)
		}
		fmt.Fprintln(formatter.Writer)
	}
	return nil
}
