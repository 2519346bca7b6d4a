// Command macmahon verifies MacMahonesque prime detectors.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/arvindvenkat01/macmahon-prime-detectors/internal/cli"
)

func main() {
	// Ctrl-C cancels the scan between iterations; the verify command then
	// reports the prefix checked so far instead of dying mid-run.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := cli.NewRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		os.Exit(cli.GetExitCode(err))
	}
}
