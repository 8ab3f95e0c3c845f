package curtailment

import (
	"errors"
	"math"
	"testing"

	"bess-screening/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var defaultParams = model.SimulationParameters{SimDays: 365, Trials: 20}

func TestEstimateScenarios(t *testing.T) {
	tests := []struct {
		name      string
		peaks     model.DailyPeakSeries
		allowed   float64
		export    float64
		want      float64
		tolerance float64
	}{
		{
			name:    "always overloads",
			peaks:   model.DailyPeakSeries{100, 100, 100, 100},
			allowed: 150,
			export:  60,
			want:    1.0,
		},
		{
			name:    "never overloads",
			peaks:   model.DailyPeakSeries{100, 100, 100, 100},
			allowed: 200,
			export:  60,
			want:    0.0,
		},
		{
			name:    "equality is not an overload",
			peaks:   model.DailyPeakSeries{100, 100},
			allowed: 160,
			export:  60,
			want:    0.0,
		},
		{
			name:      "half of days overload",
			peaks:     model.DailyPeakSeries{50, 150},
			allowed:   180,
			export:    40,
			want:      0.5,
			tolerance: 0.03, // ~6 standard errors at 7300 draws
		},
		{
			name:    "empty series",
			peaks:   model.DailyPeakSeries{},
			allowed: 10,
			export:  1000,
			want:    0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Estimate(tt.peaks, tt.allowed, tt.export, defaultParams, NewRand(42))
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, tt.tolerance)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 1.0)
		})
	}
}

func TestEstimateSingleDraw(t *testing.T) {
	p, err := Estimate(model.DailyPeakSeries{5}, 10, 6, model.SimulationParameters{SimDays: 1, Trials: 1}, NewRand(1))
	require.NoError(t, err)
	assert.Equal(t, 1.0, p)
}

func TestEstimateReproducible(t *testing.T) {
	peaks := model.DailyPeakSeries{12.5, 40, 33.1, 27, 51.9, 18.2, 44.4}
	a, err := Estimate(peaks, 60, 15, defaultParams, NewRand(7))
	require.NoError(t, err)
	b, err := Estimate(peaks, 60, 15, defaultParams, NewRand(7))
	require.NoError(t, err)
	assert.Equal(t, math.Float64bits(a), math.Float64bits(b))
}

func TestEstimateNilRandStaysInRange(t *testing.T) {
	p, err := Estimate(model.DailyPeakSeries{50, 150}, 180, 40, defaultParams, nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, p, 0.05)
}

func TestEstimateMonotoneInExport(t *testing.T) {
	peaks := model.DailyPeakSeries{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}
	prev := -1.0
	for export := 0.0; export <= 120; export += 7.5 {
		// Same seed means the same indices are drawn, so the comparison is pathwise.
		p, err := Estimate(peaks, 120, export, defaultParams, NewRand(99))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, p, prev, "export=%v", export)
		prev = p
	}
	assert.Equal(t, 1.0, prev)
}

func TestEstimateMonotoneInAllowed(t *testing.T) {
	peaks := model.DailyPeakSeries{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}
	prev := 2.0
	for allowed := 0.0; allowed <= 200; allowed += 10 {
		p, err := Estimate(peaks, allowed, 30, defaultParams, NewRand(99))
		require.NoError(t, err)
		assert.LessOrEqual(t, p, prev, "allowed=%v", allowed)
		prev = p
	}
	assert.Equal(t, 0.0, prev)
}

func TestEstimateDegenerateBounds(t *testing.T) {
	peaks := model.DailyPeakSeries{3, 17, 8, 22, 11}
	p, err := Estimate(peaks, 50, 50-peaks.Min()+0.001, model.SimulationParameters{SimDays: 1, Trials: 1}, NewRand(3))
	require.NoError(t, err)
	assert.Equal(t, 1.0, p)

	p, err = Estimate(peaks, 50, 50-peaks.Max(), defaultParams, NewRand(3))
	require.NoError(t, err)
	assert.Equal(t, 0.0, p)
}

func TestEstimateInvalidParameters(t *testing.T) {
	for _, params := range []model.SimulationParameters{
		{SimDays: 0, Trials: 10},
		{SimDays: 10, Trials: 0},
		{SimDays: -1, Trials: -1},
		{SimDays: math.MaxInt, Trials: 2},
	} {
		_, err := Estimate(model.DailyPeakSeries{1}, 1, 1, params, NewRand(1))
		assert.ErrorIs(t, err, model.ErrInvalidParameters, "%+v", params)
	}

	// Parameters are checked before the empty-series shortcut.
	_, err := Estimate(nil, 1, 1, model.SimulationParameters{}, nil)
	assert.ErrorIs(t, err, model.ErrInvalidParameters)
}

func TestEstimateRejectsNegativeExport(t *testing.T) {
	_, err := Estimate(model.DailyPeakSeries{100}, 150, -60, defaultParams, NewRand(1))
	assert.ErrorIs(t, err, model.ErrInvalidParameters)

	// Zero export is allowed and compares the raw peak against the limit.
	p, err := Estimate(model.DailyPeakSeries{100}, 150, 0, defaultParams, NewRand(1))
	require.NoError(t, err)
	assert.Equal(t, 0.0, p)
}

func TestEstimateNonFinite(t *testing.T) {
	tests := []struct {
		name    string
		peaks   model.DailyPeakSeries
		allowed float64
		export  float64
		field   string
	}{
		{"nan peak", model.DailyPeakSeries{1, math.NaN()}, 10, 1, "peak_mva[1]"},
		{"inf allowed", model.DailyPeakSeries{1}, math.Inf(1), 1, "allowed_mva"},
		{"nan export", model.DailyPeakSeries{1}, 10, math.NaN(), "export_mva_with_margin"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Estimate(tt.peaks, tt.allowed, tt.export, defaultParams, NewRand(1))
			require.ErrorIs(t, err, model.ErrNonFiniteInput)
			var nf *model.NonFiniteError
			require.True(t, errors.As(err, &nf))
			assert.Equal(t, tt.field, nf.Field)
		})
	}
}

func TestStdErr(t *testing.T) {
	assert.InDelta(t, 0.005, StdErr(0.5, 10000), 1e-12)
	assert.Equal(t, 0.0, StdErr(1, 100))
	assert.Equal(t, 0.0, StdErr(0.5, 0))
}

func TestEvaluate(t *testing.T) {
	asset := model.CandidateAsset{SizeMW: 20, ExportMVAWithMargin: 60, EnergyFullMWh: 40}
	res, err := Evaluate("ALPHA", model.DailyPeakSeries{100, 100}, 150, asset, defaultParams, DefaultPolicy(), NewRand(5))
	require.NoError(t, err)

	assert.Equal(t, "ALPHA", res.BSP)
	assert.Equal(t, 20.0, res.SizeMW)
	assert.Equal(t, 1.0, res.Probability)
	assert.Equal(t, 100.0, res.CurtailmentPct)
	assert.Equal(t, 0.0, res.EffectiveExportFactor)
	assert.InDelta(t, 40*365, res.CurtailedMWhPerYear, 1e-9)
	assert.Equal(t, model.TierHVMedium, res.Tier)
	assert.Equal(t, model.RiskRed, res.Risk)
	assert.Equal(t, 600.0, res.CostLowK)
	assert.Equal(t, 2000.0, res.CostHighK)
	assert.Equal(t, defaultParams.TotalDraws(), res.Draws)
}

func TestEvaluateTagsBSPOnNonFinite(t *testing.T) {
	asset := model.CandidateAsset{SizeMW: 5, ExportMVAWithMargin: 6}
	_, err := Evaluate("BRAVO", model.DailyPeakSeries{math.Inf(-1)}, 150, asset, defaultParams, DefaultPolicy(), nil)
	var nf *model.NonFiniteError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "BRAVO", nf.BSP)
	assert.Contains(t, err.Error(), "BRAVO")
}
