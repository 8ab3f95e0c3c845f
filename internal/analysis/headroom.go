package analysis

import (
	"math"
	"sort"

	"bess-screening/internal/model"

	"gonum.org/v1/gonum/stat"
)

// Headroom summarises a BSP's historical peaks against its allowed limit.
type Headroom struct {
	BSP   string
	Count int

	MinMVA    float64
	MaxMVA    float64
	MeanMVA   float64
	StdDevMVA float64
	P05MVA    float64
	P50MVA    float64
	P95MVA    float64

	AllowedMVA float64
	// HeadroomP95MVA is allowed minus the 95th percentile peak.
	HeadroomP95MVA float64
	// FirmExportMVA is the largest export that never overloads on any
	// historical day (allowed minus the maximum peak).
	FirmExportMVA float64
}

func ComputeHeadroom(bsp string, peaks model.DailyPeakSeries, allowedMVA float64) Headroom {
	h := Headroom{BSP: bsp, AllowedMVA: allowedMVA, Count: len(peaks)}
	if len(peaks) == 0 {
		return h
	}
	sorted := make([]float64, len(peaks))
	copy(sorted, peaks)
	sort.Float64s(sorted)

	h.MinMVA = sorted[0]
	h.MaxMVA = sorted[len(sorted)-1]
	h.MeanMVA = stat.Mean(sorted, nil)
	if len(sorted) > 1 {
		h.StdDevMVA = stat.StdDev(sorted, nil)
	}
	h.P05MVA = stat.Quantile(0.05, stat.Empirical, sorted, nil)
	h.P50MVA = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	h.P95MVA = stat.Quantile(0.95, stat.Empirical, sorted, nil)
	h.HeadroomP95MVA = allowedMVA - h.P95MVA
	h.FirmExportMVA = allowedMVA - h.MaxMVA
	return h
}

// ExceedanceFraction is the exact share of historical days on which
// peak + exportMVA > allowedMVA: the value the Monte Carlo estimate
// converges to.
func ExceedanceFraction(peaks model.DailyPeakSeries, allowedMVA, exportMVA float64) float64 {
	if len(peaks) == 0 {
		return 0
	}
	n := 0
	for _, p := range peaks {
		if p+exportMVA > allowedMVA {
			n++
		}
	}
	return float64(n) / float64(len(peaks))
}

// RankByHeadroom summarises every BSP that has both peaks and a finite
// limit, most headroom first.
func RankByHeadroom(peaks map[string]model.DailyPeakSeries, thresholds map[string]float64) []Headroom {
	out := make([]Headroom, 0, len(peaks))
	for bsp, series := range peaks {
		allowed, ok := thresholds[bsp]
		if !ok || len(series) == 0 || math.IsNaN(allowed) || math.IsInf(allowed, 0) {
			continue
		}
		out = append(out, ComputeHeadroom(bsp, series, allowed))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].HeadroomP95MVA != out[j].HeadroomP95MVA {
			return out[i].HeadroomP95MVA > out[j].HeadroomP95MVA
		}
		return out[i].BSP < out[j].BSP
	})
	return out
}
