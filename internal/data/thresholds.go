package data

import (
	"fmt"
	"io"
	"os"

	"bess-screening/internal/model"
)

// ReadThresholdsCSV reads BSP_Name, Allowed_MVA rows into a map. A blank
// limit leaves the BSP undefined, which the screening run reports as skipped.
// A limit that is not a number is returned as a RowError and left out of the
// map.
func ReadThresholdsCSV(r io.Reader) (map[string]float64, []RowError, error) {
	t, err := readTable(r)
	if err != nil {
		return nil, nil, err
	}
	bspCol, err := t.mustCol("BSP_Name", "bsp")
	if err != nil {
		return nil, nil, err
	}
	limCol, err := t.mustCol("Allowed_MVA", "allowed")
	if err != nil {
		return nil, nil, err
	}
	out := map[string]float64{}
	var bad []RowError
	for i, rec := range t.rows {
		bsp := cell(rec, bspCol)
		if bsp == "" {
			continue
		}
		v, ok, err := parseFloat(cell(rec, limCol))
		if err != nil {
			bad = append(bad, RowError{BSP: bsp, Line: t.lines[i], Column: "Allowed_MVA", Err: err})
			continue
		}
		if ok {
			out[bsp] = v
		}
	}
	return out, bad, nil
}

func LoadThresholdsCSV(path string) (map[string]float64, []RowError, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	m, bad, err := ReadThresholdsCSV(f)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, bad, nil
}

// ReadCandidatesCSV reads Size_MW, Export_MVA_with_margin and an optional
// Energy_full_MWh column. Rows missing size or export are skipped;
// defaultEnergyMWh fills a missing energy value.
func ReadCandidatesCSV(r io.Reader, defaultEnergyMWh float64) ([]model.CandidateAsset, error) {
	t, err := readTable(r)
	if err != nil {
		return nil, err
	}
	sizeCol, err := t.mustCol("Size_MW", "size")
	if err != nil {
		return nil, err
	}
	expCol, err := t.mustCol("Export_MVA_with_margin", "export")
	if err != nil {
		return nil, err
	}
	energyCol, hasEnergy := t.col("Energy_full_MWh", "energy")

	var out []model.CandidateAsset
	for i, rec := range t.rows {
		size, okSize, err := parseFloat(cell(rec, sizeCol))
		if err != nil {
			return nil, fmt.Errorf("line %d: Size_MW: %w", t.lines[i], err)
		}
		exp, okExp, err := parseFloat(cell(rec, expCol))
		if err != nil {
			return nil, fmt.Errorf("line %d: Export_MVA_with_margin: %w", t.lines[i], err)
		}
		if !okSize || !okExp {
			continue
		}
		a := model.CandidateAsset{SizeMW: size, ExportMVAWithMargin: exp, EnergyFullMWh: defaultEnergyMWh}
		if hasEnergy {
			e, ok, err := parseFloat(cell(rec, energyCol))
			if err != nil {
				return nil, fmt.Errorf("line %d: Energy_full_MWh: %w", t.lines[i], err)
			}
			if ok {
				a.EnergyFullMWh = e
			}
		}
		out = append(out, a)
	}
	return out, nil
}

func LoadCandidatesCSV(path string, defaultEnergyMWh float64) ([]model.CandidateAsset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	c, err := ReadCandidatesCSV(f, defaultEnergyMWh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}
