package data

import (
	"fmt"
	"io"
	"os"
	"time"

	"bess-screening/internal/model"
)

var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// ReadPeaksCSV reads BSP_Name, Date, Peak_MVA rows. Rows with a blank BSP
// name or blank peak are dropped. A peak that is present but not a number
// is returned as a RowError and the rest of the file is still read; only a
// missing column or unreadable CSV fails the whole file.
func ReadPeaksCSV(r io.Reader) ([]model.PeakRecord, []RowError, error) {
	t, err := readTable(r)
	if err != nil {
		return nil, nil, err
	}
	bspCol, err := t.mustCol("BSP_Name", "bsp")
	if err != nil {
		return nil, nil, err
	}
	peakCol, err := t.mustCol("Peak_MVA", "peak")
	if err != nil {
		return nil, nil, err
	}
	dateCol, hasDate := t.col("Date")

	out := make([]model.PeakRecord, 0, len(t.rows))
	var bad []RowError
	for i, rec := range t.rows {
		bsp := cell(rec, bspCol)
		if bsp == "" {
			continue
		}
		peak, ok, err := parseFloat(cell(rec, peakCol))
		if err != nil {
			bad = append(bad, RowError{BSP: bsp, Line: t.lines[i], Column: "Peak_MVA", Err: err})
			continue
		}
		if !ok {
			continue
		}
		pr := model.PeakRecord{BSP: bsp, PeakMVA: peak}
		if hasDate {
			pr.DateText = cell(rec, dateCol)
			pr.Date = parseDate(pr.DateText)
		}
		out = append(out, pr)
	}
	return out, bad, nil
}

func LoadPeaksCSV(path string) ([]model.PeakRecord, []RowError, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	recs, bad, err := ReadPeaksCSV(f)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return recs, bad, nil
}

// GroupByBSP splits records into per-BSP peak series, preserving file order.
func GroupByBSP(records []model.PeakRecord) map[string]model.DailyPeakSeries {
	out := map[string]model.DailyPeakSeries{}
	for _, r := range records {
		out[r.BSP] = append(out[r.BSP], r.PeakMVA)
	}
	return out
}

func parseDate(s string) time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
