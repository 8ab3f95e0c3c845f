package main

import (
	"fmt"

	"bess-screening/internal/analysis"

	"github.com/spf13/cobra"
)

func headroomCmd() *cobra.Command {
	var (
		peaksPath      string
		thresholdsPath string
		limit          int
	)
	cmd := &cobra.Command{
		Use:   "headroom",
		Short: "Rank BSPs by headroom at their P95 daily peak",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := loadScreeningData(peaksPath, thresholdsPath)
			if err != nil {
				return err
			}

			ranked := analysis.RankByHeadroom(in.usable(), in.thresholds)
			if limit > 0 && limit < len(ranked) {
				ranked = ranked[:limit]
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-4s %-24s %-6s %-10s %-10s %-10s %-12s %-10s\n", "rank", "bsp", "days", "p50", "p95", "allowed", "headroom95", "firm")
			for i, h := range ranked {
				fmt.Fprintf(out, "%-4d %-24s %-6d %-10.2f %-10.2f %-10.2f %-12.2f %-10.2f\n",
					i+1,
					h.BSP,
					h.Count,
					h.P50MVA,
					h.P95MVA,
					h.AllowedMVA,
					h.HeadroomP95MVA,
					h.FirmExportMVA,
				)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&peaksPath, "peaks", "", "Daily peaks CSV (BSP_Name, Date, Peak_MVA)")
	cmd.Flags().StringVar(&thresholdsPath, "thresholds", "", "Thresholds CSV (BSP_Name, Allowed_MVA)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Show only the top N BSPs (0 = all)")
	_ = cmd.MarkFlagRequired("peaks")
	_ = cmd.MarkFlagRequired("thresholds")
	return cmd
}
