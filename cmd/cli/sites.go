package main

import (
	"fmt"

	"bess-screening/internal/data"

	"github.com/spf13/cobra"
)

func sitesCmd() *cobra.Command {
	var (
		path   string
		filter data.SiteFilter
	)
	cmd := &cobra.Command{
		Use:   "sites",
		Short: "List GSP/BSP site metadata, optionally filtered",
		RunE: func(cmd *cobra.Command, args []string) error {
			sites, err := data.LoadSitesCSV(path)
			if err != nil {
				return err
			}
			matched := data.FilterSites(sites, filter)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-28s %-4s %-8s %-9s %-10s %-16s %-8s\n", "name", "kind", "dno", "lat", "lon", "fault level", "kA")
			for _, s := range matched {
				fmt.Fprintf(out, "%-28s %-4s %-8s %-9.4f %-10.4f %-16s %-8.2f\n",
					s.Name, s.Kind, s.DNO, s.Latitude, s.Longitude, s.FaultLevelStatus, s.FaultLevelHeadroomA)
			}
			fmt.Fprintf(out, "%d of %d sites\n", len(matched), len(sites))
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "file", "", "GSP/BSP site CSV")
	cmd.Flags().StringVar(&filter.Kind, "kind", "", "Only GSP or BSP sites")
	cmd.Flags().StringVar(&filter.DNO, "dno", "", "Only sites of this DNO")
	cmd.Flags().StringVar(&filter.FaultLevelStatus, "status", "", "Only sites with this fault level status")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
