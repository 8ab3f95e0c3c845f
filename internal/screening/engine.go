package screening

import (
	"context"
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"runtime"
	"sort"

	"bess-screening/internal/curtailment"
	"bess-screening/internal/model"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Inputs is everything one screening run needs. Maps are read-only for the
// duration of Run.
type Inputs struct {
	Peaks      map[string]model.DailyPeakSeries
	Thresholds map[string]float64 // allowed MVA per BSP; absent = undefined
	Candidates []model.CandidateAsset
	Params     model.SimulationParameters
	Policy     curtailment.Policy
	// Seed makes the run reproducible. Each pair derives its own generator
	// from Seed, the BSP name and the candidate size, so results do not depend
	// on worker scheduling. Nil means unseeded.
	Seed *uint64
	// Rejected lists BSPs whose input rows could not be parsed. They are not
	// estimated; each of their pairs is reported in Report.Failed with the
	// ingestion error.
	Rejected map[string]error
}

type Engine struct {
	workers int
}

// New returns an engine running at most workers estimations at once.
// workers <= 0 means GOMAXPROCS.
func New(workers int) *Engine {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Engine{workers: workers}
}

type unit struct {
	bsp      string
	cand     int
	asset    model.CandidateAsset
	rejected error
}

type outcome struct {
	row     model.EstimationResult
	failure *Failure
}

// Run estimates every (BSP, candidate) pair with data. BSPs without peaks or
// without an allowed limit are reported in Report.Skipped; pairs whose inputs
// fail validation are reported in Report.Failed and do not stop the run.
// Invalid simulation parameters or policy reject the whole run up front.
// Cancellation is observed between pairs.
func (e *Engine) Run(ctx context.Context, in Inputs) (*Report, error) {
	if err := in.Params.Validate(); err != nil {
		return nil, err
	}
	if err := in.Policy.Validate(); err != nil {
		return nil, err
	}

	report := &Report{Params: in.Params, Candidates: len(in.Candidates)}
	var units []unit
	for _, bsp := range bspNames(in) {
		_, ok := in.Thresholds[bsp]
		switch {
		case in.Rejected[bsp] != nil:
			for i, a := range in.Candidates {
				units = append(units, unit{bsp: bsp, cand: i, asset: a, rejected: in.Rejected[bsp]})
			}
			continue
		case len(in.Peaks[bsp]) == 0:
			report.Skipped = append(report.Skipped, Skip{BSP: bsp, Reason: ReasonNoPeakData})
			continue
		case !ok:
			report.Skipped = append(report.Skipped, Skip{BSP: bsp, Reason: ReasonNoAllowedLimit})
			continue
		}
		for i, a := range in.Candidates {
			units = append(units, unit{bsp: bsp, cand: i, asset: a})
		}
	}
	for _, s := range report.Skipped {
		log.Info().Str("bsp", s.BSP).Str("reason", string(s.Reason)).Msg("skipping bsp")
	}

	outcomes := make([]outcome, len(units))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i := range units {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = e.evaluate(units[i], in)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("screening cancelled: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("screening cancelled: %w", err)
	}

	for _, o := range outcomes {
		if o.failure != nil {
			report.Failed = append(report.Failed, *o.failure)
			continue
		}
		report.Rows = append(report.Rows, o.row)
	}

	log.Info().
		Int("rows", len(report.Rows)).
		Int("skipped", len(report.Skipped)).
		Int("failed", len(report.Failed)).
		Int("draws_per_pair", in.Params.TotalDraws()).
		Msg("screening complete")
	return report, nil
}

func (e *Engine) evaluate(u unit, in Inputs) outcome {
	fail := func(err error) outcome {
		log.Warn().Err(err).Str("bsp", u.bsp).Float64("size_mw", u.asset.SizeMW).Msg("pair failed validation")
		return outcome{failure: &Failure{BSP: u.bsp, SizeMW: u.asset.SizeMW, Err: err}}
	}
	if u.rejected != nil {
		return fail(u.rejected)
	}
	// Non-finite exports are left to the estimator so the error names the BSP.
	if isFinite(u.asset.ExportMVAWithMargin) {
		if err := u.asset.Validate(); err != nil {
			return fail(fmt.Errorf("candidate %d: %w", u.cand, err))
		}
	}

	var rng *rand.Rand
	if in.Seed != nil {
		rng = curtailment.NewRand(pairSeed(*in.Seed, u.bsp, u.asset))
	}
	res, err := curtailment.Evaluate(u.bsp, in.Peaks[u.bsp], in.Thresholds[u.bsp], u.asset, in.Params, in.Policy, rng)
	if err != nil {
		return fail(err)
	}
	log.Debug().
		Str("bsp", u.bsp).
		Float64("size_mw", res.SizeMW).
		Float64("probability", res.Probability).
		Str("risk", string(res.Risk)).
		Msg("pair estimated")
	return outcome{row: res}
}

// bspNames is the sorted union of BSPs that have peaks, thresholds or
// rejected rows.
func bspNames(in Inputs) []string {
	set := make(map[string]struct{}, len(in.Peaks)+len(in.Thresholds)+len(in.Rejected))
	for k := range in.Peaks {
		set[k] = struct{}{}
	}
	for k := range in.Thresholds {
		set[k] = struct{}{}
	}
	for k := range in.Rejected {
		set[k] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func pairSeed(base uint64, bsp string, a model.CandidateAsset) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(bsp))
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], math.Float64bits(a.SizeMW))
	binary.LittleEndian.PutUint64(buf[8:], math.Float64bits(a.ExportMVAWithMargin))
	_, _ = h.Write(buf[:])
	return base ^ h.Sum64()
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
