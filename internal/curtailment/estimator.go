// Package curtailment estimates how often a battery's export would push a
// BSP over its allowed limit, and classifies the result into a
// reinforcement tier.
package curtailment

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"bess-screening/internal/model"
)

// NewRand returns a generator whose output is fully determined by seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func freshRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// Estimate returns the fraction of simulated days on which
// peak + exportMVAWithMargin > allowedMVA.
//
// params.Trials*params.SimDays historical days are drawn uniformly with
// replacement; every draw is an independent day and the result is the
// overload rate over all draws, not a per-trial aggregate.
//
// A negative exportMVAWithMargin is rejected with ErrInvalidParameters.
// An empty series returns 0 with no error; callers should treat that as
// "no data" rather than "no risk". rng may be nil, in which case a randomly
// seeded generator is used. A given rng must not be shared between
// goroutines.
func Estimate(peaks model.DailyPeakSeries, allowedMVA, exportMVAWithMargin float64, params model.SimulationParameters, rng *rand.Rand) (float64, error) {
	if err := params.Validate(); err != nil {
		return 0, err
	}
	if params.Trials > math.MaxInt/params.SimDays {
		return 0, fmt.Errorf("%w: trials*sim_days overflows", model.ErrInvalidParameters)
	}
	n := params.TotalDraws()
	if n <= 0 {
		return 0, fmt.Errorf("%w: zero total draws", model.ErrInvalidParameters)
	}
	if !isFinite(allowedMVA) {
		return 0, &model.NonFiniteError{Field: "allowed_mva", Value: allowedMVA}
	}
	if !isFinite(exportMVAWithMargin) {
		return 0, &model.NonFiniteError{Field: "export_mva_with_margin", Value: exportMVAWithMargin}
	}
	if exportMVAWithMargin < 0 {
		return 0, fmt.Errorf("%w: export_mva_with_margin must be >= 0, got %g", model.ErrInvalidParameters, exportMVAWithMargin)
	}
	for i, v := range peaks {
		if !isFinite(v) {
			return 0, &model.NonFiniteError{Field: fmt.Sprintf("peak_mva[%d]", i), Value: v}
		}
	}
	if len(peaks) == 0 {
		return 0, nil
	}
	if rng == nil {
		rng = freshRand()
	}

	overloads := 0
	for i := 0; i < n; i++ {
		if peaks[rng.IntN(len(peaks))]+exportMVAWithMargin > allowedMVA {
			overloads++
		}
	}
	return float64(overloads) / float64(n), nil
}

// StdErr is the binomial standard error sqrt(p(1-p)/n) of an estimate
// made from n draws.
func StdErr(p float64, n int) float64 {
	if n <= 0 {
		return 0
	}
	return math.Sqrt(p * (1 - p) / float64(n))
}

// Evaluate runs Estimate for one BSP/candidate pair and derives the
// reporting fields and classification.
func Evaluate(bsp string, peaks model.DailyPeakSeries, allowedMVA float64, asset model.CandidateAsset, params model.SimulationParameters, policy Policy, rng *rand.Rand) (model.EstimationResult, error) {
	prob, err := Estimate(peaks, allowedMVA, asset.ExportMVAWithMargin, params, rng)
	if err != nil {
		var nf *model.NonFiniteError
		if errors.As(err, &nf) {
			nf.BSP = bsp
		}
		return model.EstimationResult{}, err
	}
	pct := prob * 100
	cls := policy.Classify(pct)
	return model.EstimationResult{
		BSP:                   bsp,
		SizeMW:                asset.SizeMW,
		Probability:           prob,
		CurtailmentPct:        pct,
		EffectiveExportFactor: 1 - prob,
		CurtailedMWhPerYear:   prob * asset.EnergyFullMWh * 365,
		Tier:                  cls.Tier,
		CostLowK:              cls.CostLowK,
		CostHighK:             cls.CostHighK,
		Risk:                  cls.Risk,
		StdErr:                StdErr(prob, params.TotalDraws()),
		Draws:                 params.TotalDraws(),
	}, nil
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
