package model

import (
	"errors"
	"math"
)

// CandidateAsset is a battery size under evaluation.
// Units:
// - SizeMW: MW nameplate, carried through for reporting only
// - ExportMVAWithMargin: MVA export including the connection safety margin
// - EnergyFullMWh: MWh delivered per day at full utilisation
type CandidateAsset struct {
	SizeMW              float64
	ExportMVAWithMargin float64
	EnergyFullMWh       float64
}

func NewCandidateAsset(sizeMW, exportMVAWithMargin, energyFullMWh float64) (*CandidateAsset, error) {
	a := &CandidateAsset{
		SizeMW:              sizeMW,
		ExportMVAWithMargin: exportMVAWithMargin,
		EnergyFullMWh:       energyFullMWh,
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a CandidateAsset) Validate() error {
	if math.IsNaN(a.SizeMW) || math.IsInf(a.SizeMW, 0) {
		return errors.New("SizeMW must be finite")
	}
	if math.IsNaN(a.ExportMVAWithMargin) || math.IsInf(a.ExportMVAWithMargin, 0) {
		return errors.New("ExportMVAWithMargin must be finite")
	}
	if a.ExportMVAWithMargin < 0 {
		return errors.New("ExportMVAWithMargin must be >= 0")
	}
	if math.IsNaN(a.EnergyFullMWh) || math.IsInf(a.EnergyFullMWh, 0) || a.EnergyFullMWh < 0 {
		return errors.New("EnergyFullMWh must be finite and >= 0")
	}
	return nil
}
