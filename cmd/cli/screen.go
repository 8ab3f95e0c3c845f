package main

import (
	"fmt"
	"io"
	"os"

	"bess-screening/internal/config"
	"bess-screening/internal/logging"
	"bess-screening/internal/screening"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func screenCmd() *cobra.Command {
	var (
		cfgPath        string
		peaksPath      string
		thresholdsPath string
		outPath        string
		exceptionsPath string
		seed           uint64
		workers        int
	)
	cmd := &cobra.Command{
		Use:   "screen",
		Short: "Run the Monte Carlo screen for every BSP and candidate size",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			// The config's logging section applies unless set on the command line.
			if !cmd.Flags().Changed("log-level") && !cmd.Flags().Changed("log-format") {
				logging.Init(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)
			}

			if peaksPath == "" {
				peaksPath = cfg.Inputs.Peaks
			}
			if thresholdsPath == "" {
				thresholdsPath = cfg.Inputs.Thresholds
			}
			if outPath == "" {
				outPath = cfg.Output.Results
			}
			if exceptionsPath == "" {
				exceptionsPath = cfg.Output.Exceptions
			}
			if peaksPath == "" || thresholdsPath == "" {
				return fmt.Errorf("peaks and thresholds inputs are required (flags or inputs section of %s)", cfgPath)
			}
			if cmd.Flags().Changed("seed") {
				cfg.Simulation.Seed = &seed
			}
			if cmd.Flags().Changed("workers") {
				cfg.Workers = workers
			}

			in, err := loadScreeningData(peaksPath, thresholdsPath)
			if err != nil {
				return err
			}

			report, err := screening.New(cfg.Workers).Run(cmd.Context(), screening.Inputs{
				Peaks:      in.peaks,
				Thresholds: in.thresholds,
				Candidates: cfg.CandidateAssets(),
				Params:     cfg.SimulationParams(),
				Policy:     cfg.ReinforcementPolicy(),
				Seed:       cfg.Simulation.Seed,
				Rejected:   in.rejected,
			})
			if err != nil {
				return err
			}

			summaryOut := cmd.OutOrStdout()
			if outPath == "" {
				// Results go to stdout; keep the summary out of the CSV.
				if err := screening.WriteResultsCSV(cmd.OutOrStdout(), report.Rows); err != nil {
					return err
				}
				summaryOut = cmd.ErrOrStderr()
			} else {
				if err := screening.SaveCSV(outPath, func(w io.Writer) error {
					return screening.WriteResultsCSV(w, report.Rows)
				}); err != nil {
					return err
				}
				fmt.Fprintf(summaryOut, "Wrote %d rows to %s\n", len(report.Rows), outPath)
			}
			if exceptionsPath != "" {
				if err := screening.SaveCSV(exceptionsPath, func(w io.Writer) error {
					return screening.WriteExceptionsCSV(w, report)
				}); err != nil {
					return err
				}
				fmt.Fprintf(summaryOut, "Wrote %d exceptions to %s\n", len(report.Skipped)+len(report.Failed), exceptionsPath)
			}

			printSummary(summaryOut, report)
			return nil
		},
	}
	cmd.Flags().StringVar(&cfgPath, "config", "", "Path to YAML config")
	cmd.Flags().StringVar(&peaksPath, "peaks", "", "Daily peaks CSV (BSP_Name, Date, Peak_MVA); overrides inputs.peaks")
	cmd.Flags().StringVar(&thresholdsPath, "thresholds", "", "Thresholds CSV (BSP_Name, Allowed_MVA); overrides inputs.thresholds")
	cmd.Flags().StringVar(&outPath, "out", "", "Results CSV path (default: output.results, else stdout)")
	cmd.Flags().StringVar(&exceptionsPath, "exceptions-out", "", "Skipped/failed BSP CSV path (default: output.exceptions)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Base seed for reproducible runs")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent estimations (0 = GOMAXPROCS)")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}

func printSummary(w io.Writer, r *screening.Report) {
	s := r.Summary()
	fmt.Fprintf(w, "Pairs=%d RED=%d AMBER=%d GREEN=%d skipped=%d failed=%d draws/pair=%d\n",
		s.Pairs, s.Red, s.Amber, s.Green, s.Skipped, s.Failed, r.Params.TotalDraws())
	for _, sk := range r.Skipped {
		fmt.Fprintf(w, "  skipped %-24s %s\n", sk.BSP, sk.Reason)
	}
	for _, f := range r.Failed {
		fmt.Fprintf(w, "  failed  %-24s size=%gMW %v\n", f.BSP, f.SizeMW, f.Err)
	}
	if s.Failed > 0 {
		log.Warn().Int("failed", s.Failed).Msg("some pairs could not be estimated")
	}
}
