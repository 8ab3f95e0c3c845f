package model

// Tier is the reinforcement tier implied by a curtailment level.
// Keep these values stable; they are intended for CSV output.
type Tier string

const (
	TierHVMedium  Tier = "HV_medium"
	TierLVHVSmall Tier = "LV_HV_small"
	TierNone      Tier = "None"
)

// Risk is the overall RAG flag for a BSP/size pairing.
type Risk string

const (
	RiskRed   Risk = "RED"
	RiskAmber Risk = "AMBER"
	RiskGreen Risk = "GREEN"
)

// EstimationResult is one row of the screening report.
type EstimationResult struct {
	BSP    string
	SizeMW float64

	// Probability is the fraction of simulated days that overloaded, in [0,1].
	Probability           float64
	CurtailmentPct        float64
	EffectiveExportFactor float64
	CurtailedMWhPerYear   float64

	Tier      Tier
	CostLowK  float64 // £k
	CostHighK float64 // £k
	Risk      Risk

	// StdErr is the Monte Carlo standard error of Probability.
	StdErr float64
	Draws  int
}
