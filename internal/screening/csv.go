package screening

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"bess-screening/internal/model"
)

// ResultsHeader matches the Results sheet of the screening workbook, with
// the Monte Carlo standard error appended.
var ResultsHeader = []string{
	"BSP_Name",
	"Size_MW",
	"Curtailment_%",
	"Curtailment_MWh_per_yr",
	"Effective_Export_Factor",
	"Reinforcement_Tier",
	"Reinforcement_Cost_low_£k",
	"Reinforcement_Cost_high_£k",
	"Overall_RAG",
	"Std_Err",
}

func WriteResultsCSV(w io.Writer, rows []model.EstimationResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ResultsHeader); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.BSP,
			fmtFloat(r.SizeMW),
			fmtFloat(r.CurtailmentPct),
			fmtFloat(r.CurtailedMWhPerYear),
			fmtFloat(r.EffectiveExportFactor),
			string(r.Tier),
			fmtFloat(r.CostLowK),
			fmtFloat(r.CostHighK),
			string(r.Risk),
			fmtFloat(r.StdErr),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteExceptionsCSV lists skipped BSPs and failed pairs. Size_MW is blank
// for whole-BSP skips.
func WriteExceptionsCSV(w io.Writer, r *Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"BSP_Name", "Size_MW", "Status", "Detail"}); err != nil {
		return err
	}
	for _, s := range r.Skipped {
		if err := cw.Write([]string{s.BSP, "", "skipped", string(s.Reason)}); err != nil {
			return err
		}
	}
	for _, f := range r.Failed {
		if err := cw.Write([]string{f.BSP, fmtFloat(f.SizeMW), "failed", f.Err.Error()}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveCSV creates path (and its directory) and writes into it with fn.
func SaveCSV(path string, fn func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
