package main

import (
	"context"
	"fmt"
	"time"

	"bess-screening/internal/data"

	"github.com/spf13/cobra"
)

func catalogCmd() *cobra.Command {
	var (
		url     string
		limit   int
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List resources in the network opportunity headroom datapackage",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			dp, err := data.NewDatapackageClient(url, nil).Fetch(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			title := dp.Title
			if title == "" {
				title = dp.Name
			}
			fmt.Fprintf(out, "%s (%d resources)\n", title, len(dp.Resources))
			resources := dp.Resources
			if limit > 0 && limit < len(resources) {
				resources = resources[:limit]
			}
			for _, r := range resources {
				fmt.Fprintf(out, "  %-40s %s\n", r.Name, r.Path)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&url, "url", data.DefaultDatapackageURL, "datapackage.json URL")
	cmd.Flags().IntVar(&limit, "limit", 5, "Show the first N resources (0 = all)")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")
	return cmd
}
