package screening

import (
	"bess-screening/internal/model"
)

// SkipReason says why a BSP produced no rows. Keep these values stable; they
// are written to CSV.
type SkipReason string

const (
	ReasonNoPeakData     SkipReason = "no_peak_data"
	ReasonNoAllowedLimit SkipReason = "no_allowed_limit"
)

// Skip is a BSP that was not estimated for lack of data.
type Skip struct {
	BSP    string
	Reason SkipReason
}

// Failure is a single BSP/size pair whose inputs failed validation.
type Failure struct {
	BSP    string
	SizeMW float64
	Err    error
}

// Report is the flat output of a screening run.
// Rows are ordered by BSP name, then by candidate order.
type Report struct {
	Params  model.SimulationParameters
	Rows    []model.EstimationResult
	Skipped []Skip
	Failed  []Failure
	// Candidates is the number of candidate sizes each BSP was screened for.
	Candidates int
}

// Summary counts rows by RAG flag.
type Summary struct {
	Pairs   int
	Red     int
	Amber   int
	Green   int
	Skipped int
	Failed  int
}

func (r *Report) Summary() Summary {
	s := Summary{Pairs: len(r.Rows), Skipped: len(r.Skipped), Failed: len(r.Failed)}
	for _, row := range r.Rows {
		switch row.Risk {
		case model.RiskRed:
			s.Red++
		case model.RiskAmber:
			s.Amber++
		case model.RiskGreen:
			s.Green++
		}
	}
	return s
}
