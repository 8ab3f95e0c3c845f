package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"bess-screening/internal/data"
	"bess-screening/internal/logging"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	if err := newUpdateCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newUpdateCmd() *cobra.Command {
	var (
		url        string
		outputPath string
		timeout    time.Duration
	)
	cmd := &cobra.Command{
		Use:          "update-catalog",
		Short:        "Refresh the local snapshot of the headroom datapackage catalog",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logging.Init("info", "console", os.Stderr)
			if outputPath == "" {
				outputPath = data.DefaultSnapshotPath()
			}

			prev, err := data.LoadCatalogSnapshot(outputPath)
			if err != nil {
				log.Info().Str("file", outputPath).Msg("no previous snapshot, starting fresh")
			} else {
				log.Info().Str("file", outputPath).Int("resources", len(prev.Resources)).Msg("loaded previous snapshot")
			}

			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			dp, err := data.NewDatapackageClient(url, nil).Fetch(ctx)
			if err != nil {
				return fmt.Errorf("fetching catalog: %w", err)
			}

			next := &data.CatalogSnapshot{
				URL:       url,
				Name:      dp.Name,
				UpdatedAt: time.Now().UTC().Format(time.RFC3339),
				Resources: dp.Resources,
			}
			diff := data.DiffResources(prev, next)
			for _, n := range diff.Added {
				fmt.Fprintf(cmd.OutOrStdout(), "  + %s\n", n)
			}
			for _, n := range diff.Removed {
				fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", n)
			}

			if err := data.SaveCatalogSnapshot(next, outputPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %d resources to %s (%d added, %d removed)\n",
				len(next.Resources), outputPath, len(diff.Added), len(diff.Removed))
			return nil
		},
	}
	cmd.Flags().StringVar(&url, "url", data.DefaultDatapackageURL, "datapackage.json URL")
	cmd.Flags().StringVar(&outputPath, "output", "", "Snapshot path (default: $CATALOG_SNAPSHOT or ./data/catalog.json)")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")
	return cmd
}
