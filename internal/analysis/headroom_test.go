package analysis

import (
	"testing"

	"bess-screening/internal/curtailment"
	"bess-screening/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeHeadroom(t *testing.T) {
	peaks := model.DailyPeakSeries{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}
	h := ComputeHeadroom("ALPHA", peaks, 20)

	assert.Equal(t, 10, h.Count)
	assert.Equal(t, 1.0, h.MinMVA)
	assert.Equal(t, 10.0, h.MaxMVA)
	assert.InDelta(t, 5.5, h.MeanMVA, 1e-12)
	assert.InDelta(t, 3.02765, h.StdDevMVA, 1e-4)
	assert.Equal(t, 1.0, h.P05MVA)
	assert.Equal(t, 5.0, h.P50MVA)
	assert.Equal(t, 10.0, h.P95MVA)
	assert.Equal(t, 10.0, h.HeadroomP95MVA)
	assert.Equal(t, 10.0, h.FirmExportMVA)

	// input must not be reordered
	assert.Equal(t, 10.0, peaks[0])
}

func TestComputeHeadroomEdgeCases(t *testing.T) {
	h := ComputeHeadroom("EMPTY", nil, 50)
	assert.Equal(t, Headroom{BSP: "EMPTY", AllowedMVA: 50}, h)

	h = ComputeHeadroom("ONE", model.DailyPeakSeries{30}, 50)
	assert.Equal(t, 0.0, h.StdDevMVA)
	assert.Equal(t, 20.0, h.FirmExportMVA)
}

func TestExceedanceFraction(t *testing.T) {
	assert.Equal(t, 0.5, ExceedanceFraction(model.DailyPeakSeries{50, 150}, 180, 40))
	assert.Equal(t, 1.0, ExceedanceFraction(model.DailyPeakSeries{100, 100}, 150, 60))
	assert.Equal(t, 0.0, ExceedanceFraction(model.DailyPeakSeries{100, 100}, 160, 60))
	assert.Equal(t, 0.0, ExceedanceFraction(nil, 0, 100))
}

func TestMonteCarloConvergesToExceedance(t *testing.T) {
	peaks := model.DailyPeakSeries{31, 47, 52, 58, 60, 61, 66, 70, 72, 79, 85, 90}
	want := ExceedanceFraction(peaks, 100, 35)
	params := model.SimulationParameters{SimDays: 365, Trials: 100}
	got, err := curtailment.Estimate(peaks, 100, 35, params, curtailment.NewRand(11))
	require.NoError(t, err)
	se := curtailment.StdErr(want, params.TotalDraws())
	assert.InDelta(t, want, got, 6*se)
}

func TestRankByHeadroom(t *testing.T) {
	peaks := map[string]model.DailyPeakSeries{
		"ALPHA":   {100, 120},
		"BRAVO":   {10, 20},
		"CHARLIE": {5},
		"DELTA":   {},
	}
	thresholds := map[string]float64{"ALPHA": 150, "BRAVO": 40, "DELTA": 10}
	ranked := RankByHeadroom(peaks, thresholds)
	require.Len(t, ranked, 2)
	assert.Equal(t, "ALPHA", ranked[0].BSP)
	assert.Equal(t, 30.0, ranked[0].HeadroomP95MVA)
	assert.Equal(t, "BRAVO", ranked[1].BSP)
}
