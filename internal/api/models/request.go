package models

import "bess-screening/internal/curtailment"

// ScreeningRequest is the body of POST /api/v1/screening.
type ScreeningRequest struct {
	// Peaks maps BSP name to its historical daily peaks (MVA).
	Peaks map[string][]float64 `json:"peaks" binding:"required"`
	// Thresholds maps BSP name to its allowed limit (MVA). A null value
	// marks the limit as undefined; that BSP is reported as skipped.
	Thresholds map[string]*float64 `json:"thresholds" binding:"required"`
	Candidates []CandidateAsset    `json:"candidates" binding:"required,min=1,dive"`
	Simulation SimulationConfig    `json:"simulation"`
	// Policy overrides the default reinforcement policy.
	Policy  *curtailment.Policy `json:"policy,omitempty"`
	Options ScreeningOptions    `json:"options,omitempty"`

	// EnergyFullMWh applies to candidates without their own energy and
	// overrides the server's configured default.
	EnergyFullMWh float64 `json:"energy_full_mwh,omitempty"`
}

// SimulationConfig defines Monte Carlo sample sizes
type SimulationConfig struct {
	SimDays int     `json:"sim_days"`
	Trials  int     `json:"trials"`
	Seed    *uint64 `json:"seed,omitempty"`
}

// CandidateAsset defines one candidate battery size
type CandidateAsset struct {
	SizeMW              float64 `json:"size_mw"`
	ExportMVAWithMargin float64 `json:"export_mva_with_margin"`
	EnergyFullMWh       float64 `json:"energy_full_mwh,omitempty"`
}

// ScreeningOptions contains optional screening parameters
type ScreeningOptions struct {
	IncludeRows bool `json:"include_rows,omitempty"` // default: false
}

// EstimateRequest is the body of POST /api/v1/estimate.
type EstimateRequest struct {
	BSP        string           `json:"bsp_name"`
	Peaks      []float64        `json:"peaks" binding:"required"`
	AllowedMVA float64          `json:"allowed_mva"`
	Candidate  CandidateAsset   `json:"candidate"`
	Simulation SimulationConfig `json:"simulation"`

	// EnergyFullMWh is used when the candidate carries no energy.
	EnergyFullMWh float64 `json:"energy_full_mwh,omitempty"`
}

// HeadroomRequest is the body of POST /api/v1/headroom.
type HeadroomRequest struct {
	Peaks      map[string][]float64 `json:"peaks" binding:"required"`
	Thresholds map[string]*float64  `json:"thresholds" binding:"required"`
	Limit      int                  `json:"limit,omitempty"` // default: all
}
