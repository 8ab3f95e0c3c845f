package main

import (
	"fmt"
	"math/rand/v2"

	"bess-screening/internal/curtailment"
	"bess-screening/internal/data"
	"bess-screening/internal/model"

	"github.com/spf13/cobra"
)

func estimateCmd() *cobra.Command {
	var (
		peaksPath      string
		thresholdsPath string
		bsp            string
		allowed        float64
		sizeMW         float64
		exportMVA      float64
		energyMWh      float64
		simDays        int
		trials         int
		seed           uint64
	)
	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate overload probability for one BSP and one candidate size",
		RunE: func(cmd *cobra.Command, args []string) error {
			records, badPeaks, err := data.LoadPeaksCSV(peaksPath)
			if err != nil {
				return err
			}
			if err := data.RejectedBSPs(badPeaks)[bsp]; err != nil {
				return fmt.Errorf("%s: BSP %q: %w", peaksPath, bsp, err)
			}
			peaks := data.GroupByBSP(records)[bsp]
			if len(peaks) == 0 {
				return fmt.Errorf("%w: no peaks for BSP %q in %s", model.ErrInsufficientData, bsp, peaksPath)
			}

			if !cmd.Flags().Changed("allowed") {
				if thresholdsPath == "" {
					return fmt.Errorf("one of --allowed or --thresholds is required")
				}
				thresholds, badLimits, err := data.LoadThresholdsCSV(thresholdsPath)
				if err != nil {
					return err
				}
				if err := data.RejectedBSPs(badLimits)[bsp]; err != nil {
					return fmt.Errorf("%s: BSP %q: %w", thresholdsPath, bsp, err)
				}
				v, ok := thresholds[bsp]
				if !ok {
					return fmt.Errorf("%w: no allowed limit for BSP %q in %s", model.ErrInsufficientData, bsp, thresholdsPath)
				}
				allowed = v
			}

			asset, err := model.NewCandidateAsset(sizeMW, exportMVA, energyMWh)
			if err != nil {
				return err
			}
			var rng *rand.Rand
			if cmd.Flags().Changed("seed") {
				rng = curtailment.NewRand(seed)
			}
			params := model.SimulationParameters{SimDays: simDays, Trials: trials}
			res, err := curtailment.Evaluate(bsp, peaks, allowed, *asset, params, curtailment.DefaultPolicy(), rng)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "BSP=%s size=%gMW export=%gMVA allowed=%gMVA days=%d\n", bsp, asset.SizeMW, asset.ExportMVAWithMargin, allowed, len(peaks))
			fmt.Fprintf(out, "P(overload)=%.4f ±%.4f (%d draws)\n", res.Probability, res.StdErr, res.Draws)
			fmt.Fprintf(out, "Curtailment=%.2f%% MWh/yr=%.1f export factor=%.4f\n", res.CurtailmentPct, res.CurtailedMWhPerYear, res.EffectiveExportFactor)
			fmt.Fprintf(out, "Tier=%s cost=£%g-%gk RAG=%s\n", res.Tier, res.CostLowK, res.CostHighK, res.Risk)
			return nil
		},
	}
	cmd.Flags().StringVar(&peaksPath, "peaks", "", "Daily peaks CSV (BSP_Name, Date, Peak_MVA)")
	cmd.Flags().StringVar(&thresholdsPath, "thresholds", "", "Thresholds CSV, used when --allowed is not set")
	cmd.Flags().StringVar(&bsp, "bsp", "", "BSP name")
	cmd.Flags().Float64Var(&allowed, "allowed", 0, "Allowed limit (MVA)")
	cmd.Flags().Float64Var(&sizeMW, "size", 0, "Candidate size (MW)")
	cmd.Flags().Float64Var(&exportMVA, "export", 0, "Export with margin (MVA)")
	cmd.Flags().Float64Var(&energyMWh, "energy", 0, "Full-utilisation energy per day (MWh)")
	cmd.Flags().IntVar(&simDays, "sim-days", 365, "Simulated days per trial")
	cmd.Flags().IntVar(&trials, "trials", 1000, "Number of trials")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Seed for a reproducible estimate")
	_ = cmd.MarkFlagRequired("peaks")
	_ = cmd.MarkFlagRequired("bsp")
	_ = cmd.MarkFlagRequired("export")
	return cmd
}
