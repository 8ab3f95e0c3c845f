package data

import (
	"fmt"
	"sort"
)

// Site is a GSP or BSP node with its location and fault-level metadata.
type Site struct {
	Name                string  `json:"name"`
	Kind                string  `json:"kind"` // "GSP" or "BSP"
	DNO                 string  `json:"dno"`
	Latitude            float64 `json:"latitude"`
	Longitude           float64 `json:"longitude"`
	VoltageKV           float64 `json:"voltage_kv,omitempty"`
	FaultLevelStatus    string  `json:"fault_level_status,omitempty"` // "No Restriction", "Restricted", "Zero Headroom"
	FaultLevelHeadroomA float64 `json:"fault_level_headroom_ka,omitempty"`
}

// SiteFilter keeps sites matching every non-empty field.
type SiteFilter struct {
	Kind             string
	DNO              string
	FaultLevelStatus string
}

// LoadSitesCSV reads a GSP or BSP site list. The name column may be
// GSP_Name, BSP_Name or Name; the kind follows from which one is present.
func LoadSitesCSV(path string) ([]Site, error) {
	t, err := readTableFile(path)
	if err != nil {
		return nil, err
	}
	kind := "BSP"
	nameCol, ok := t.col("BSP_Name")
	if !ok {
		if nameCol, ok = t.col("GSP_Name"); ok {
			kind = "GSP"
		} else if nameCol, err = t.mustCol("Name"); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	latCol, err := t.mustCol("Latitude", "lat")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	lonCol, err := t.mustCol("Longitude", "lon")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	dnoCol, _ := t.col("DNO")
	voltCol, hasVolt := t.col("Voltage_kV")
	statusCol, hasStatus := t.col("Fault_Level_Status")
	headCol, hasHead := t.col("Fault_Level_Headroom_kA")

	out := make([]Site, 0, len(t.rows))
	for i, rec := range t.rows {
		name := cell(rec, nameCol)
		if name == "" {
			continue
		}
		s := Site{Name: name, Kind: kind, DNO: cell(rec, dnoCol)}
		num := func(col int, dst *float64, field string) error {
			v, _, err := parseFloat(cell(rec, col))
			if err != nil {
				return fmt.Errorf("%s: line %d: %s: %w", path, t.lines[i], field, err)
			}
			*dst = v
			return nil
		}
		if err := num(latCol, &s.Latitude, "Latitude"); err != nil {
			return nil, err
		}
		if err := num(lonCol, &s.Longitude, "Longitude"); err != nil {
			return nil, err
		}
		if hasVolt {
			if err := num(voltCol, &s.VoltageKV, "Voltage_kV"); err != nil {
				return nil, err
			}
		}
		if hasStatus {
			s.FaultLevelStatus = cell(rec, statusCol)
		}
		if hasHead {
			if err := num(headCol, &s.FaultLevelHeadroomA, "Fault_Level_Headroom_kA"); err != nil {
				return nil, err
			}
		}
		out = append(out, s)
	}
	return out, nil
}

func FilterSites(sites []Site, f SiteFilter) []Site {
	var out []Site
	for _, s := range sites {
		if f.Kind != "" && s.Kind != f.Kind {
			continue
		}
		if f.DNO != "" && s.DNO != f.DNO {
			continue
		}
		if f.FaultLevelStatus != "" && s.FaultLevelStatus != f.FaultLevelStatus {
			continue
		}
		out = append(out, s)
	}
	return out
}

// DNOs returns the distinct DNO names, sorted.
func DNOs(sites []Site) []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range sites {
		if s.DNO != "" && !seen[s.DNO] {
			seen[s.DNO] = true
			out = append(out, s.DNO)
		}
	}
	sort.Strings(out)
	return out
}
