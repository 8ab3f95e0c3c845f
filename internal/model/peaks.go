package model

import "time"

// PeakRecord is one row of historical daily peak demand for a BSP.
type PeakRecord struct {
	BSP  string
	Date time.Time
	// Raw date text as it appeared in the source; kept when it could not be parsed.
	DateText string
	PeakMVA  float64
}

// DailyPeakSeries is the set of observed daily peak apparent-power values (MVA)
// for one BSP. Order is irrelevant to the estimator, which only reads it.
type DailyPeakSeries []float64

// Min returns the smallest peak, or 0 for an empty series.
func (s DailyPeakSeries) Min() float64 {
	if len(s) == 0 {
		return 0
	}
	m := s[0]
	for _, v := range s[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// Max returns the largest peak, or 0 for an empty series.
func (s DailyPeakSeries) Max() float64 {
	if len(s) == 0 {
		return 0
	}
	m := s[0]
	for _, v := range s[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// ThresholdContext is the allowed import/export limit for one BSP.
type ThresholdContext struct {
	BSP        string
	AllowedMVA float64
}
