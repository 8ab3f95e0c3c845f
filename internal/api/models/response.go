package models

import "bess-screening/internal/curtailment"

// ScreeningResponse represents the response from a screening run
type ScreeningResponse struct {
	ID      string           `json:"id"`
	Status  string           `json:"status"`
	Summary ScreeningSummary `json:"summary"`
	Rows    []ResultRow      `json:"rows,omitempty"`
	Skipped []SkipRow        `json:"skipped"`
	Failed  []FailureRow     `json:"failed"`
}

// ScreeningSummary counts result rows by RAG flag
type ScreeningSummary struct {
	Pairs        int `json:"pairs"`
	Red          int `json:"red"`
	Amber        int `json:"amber"`
	Green        int `json:"green"`
	Skipped      int `json:"skipped"`
	Failed       int `json:"failed"`
	DrawsPerPair int `json:"draws_per_pair"`
}

// ResultRow is one BSP/size pairing
type ResultRow struct {
	BSP                   string  `json:"bsp_name"`
	SizeMW                float64 `json:"size_mw"`
	Probability           float64 `json:"probability"`
	CurtailmentPct        float64 `json:"curtailment_pct"`
	CurtailedMWhPerYear   float64 `json:"curtailment_mwh_per_yr"`
	EffectiveExportFactor float64 `json:"effective_export_factor"`
	Tier                  string  `json:"reinforcement_tier"`
	CostLowK              float64 `json:"reinforcement_cost_low_k"`
	CostHighK             float64 `json:"reinforcement_cost_high_k"`
	Risk                  string  `json:"overall_rag"`
	StdErr                float64 `json:"std_err"`
	Draws                 int     `json:"draws"`
}

// SkipRow names a BSP that had insufficient data
type SkipRow struct {
	BSP    string `json:"bsp_name"`
	Reason string `json:"reason"`
}

// FailureRow names a BSP/size pair whose inputs were invalid
type FailureRow struct {
	BSP     string  `json:"bsp_name"`
	SizeMW  float64 `json:"size_mw"`
	Message string  `json:"message"`
}

// HeadroomResponse lists BSPs by headroom
type HeadroomResponse struct {
	BSPs []HeadroomRow `json:"bsps"`
}

// HeadroomRow is one BSP's peak statistics
type HeadroomRow struct {
	Rank           int     `json:"rank"`
	BSP            string  `json:"bsp_name"`
	Count          int     `json:"count"`
	MinMVA         float64 `json:"min_mva"`
	MaxMVA         float64 `json:"max_mva"`
	MeanMVA        float64 `json:"mean_mva"`
	StdDevMVA      float64 `json:"std_dev_mva"`
	P05MVA         float64 `json:"p05_mva"`
	P50MVA         float64 `json:"p50_mva"`
	P95MVA         float64 `json:"p95_mva"`
	AllowedMVA     float64 `json:"allowed_mva"`
	HeadroomP95MVA float64 `json:"headroom_p95_mva"`
	FirmExportMVA  float64 `json:"firm_export_mva"`
}

// PolicyResponse describes the reinforcement policy in force
type PolicyResponse struct {
	Policy curtailment.Policy `json:"policy"`
}

// CandidateSetInfo represents a candidate-size preset file
type CandidateSetInfo struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Description   string           `json:"description,omitempty"`
	File          string           `json:"file"`
	EnergyFullMWh float64          `json:"energy_full_mwh,omitempty"`
	Candidates    []CandidateAsset `json:"candidates"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
