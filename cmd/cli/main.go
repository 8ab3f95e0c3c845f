package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"bess-screening/internal/logging"

	"github.com/spf13/cobra"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		logLevel  string
		logFormat string
	)
	root := &cobra.Command{
		Use:   "cli",
		Short: "Screen BSPs for BESS export curtailment risk",
		Long: `Estimates, per Bulk Supply Point and candidate battery size, the probability
that the battery's export on top of a resampled historical daily peak exceeds
the BSP's allowed limit, and classifies each pair into a reinforcement tier.

examples:
  cli screen --config examples/config.yaml
  cli estimate --peaks data/peaks.csv --bsp "Iron Acton" --allowed 180 --export 40
  cli headroom --peaks data/peaks.csv --thresholds data/thresholds.csv
  cli catalog --limit 5
  cli sites --file data/gsp_bsp_map.csv --dno NGED`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Init(logLevel, logFormat, os.Stderr)
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "console", "Log format (console, json)")

	root.AddCommand(
		screenCmd(),
		estimateCmd(),
		headroomCmd(),
		catalogCmd(),
		sitesCmd(),
	)
	return root
}
