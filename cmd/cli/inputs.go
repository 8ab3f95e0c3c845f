package main

import (
	"bess-screening/internal/data"
	"bess-screening/internal/model"

	"github.com/rs/zerolog/log"
)

// screeningData is the parsed peaks and thresholds files plus the BSPs
// that had unparsable rows in either.
type screeningData struct {
	peaks      map[string]model.DailyPeakSeries
	thresholds map[string]float64
	rejected   map[string]error
}

func loadScreeningData(peaksPath, thresholdsPath string) (*screeningData, error) {
	records, badPeaks, err := data.LoadPeaksCSV(peaksPath)
	if err != nil {
		return nil, err
	}
	thresholds, badLimits, err := data.LoadThresholdsCSV(thresholdsPath)
	if err != nil {
		return nil, err
	}
	for _, e := range badPeaks {
		log.Warn().Str("file", peaksPath).Str("bsp", e.BSP).Int("line", e.Line).Err(e.Err).Msg("rejected peak row")
	}
	for _, e := range badLimits {
		log.Warn().Str("file", thresholdsPath).Str("bsp", e.BSP).Int("line", e.Line).Err(e.Err).Msg("rejected threshold row")
	}
	return &screeningData{
		peaks:      data.GroupByBSP(records),
		thresholds: thresholds,
		rejected:   data.RejectedBSPs(badPeaks, badLimits),
	}, nil
}

// usable drops rejected BSPs from the peaks map.
func (d *screeningData) usable() map[string]model.DailyPeakSeries {
	out := make(map[string]model.DailyPeakSeries, len(d.peaks))
	for bsp, series := range d.peaks {
		if d.rejected[bsp] == nil {
			out[bsp] = series
		}
	}
	return out
}
