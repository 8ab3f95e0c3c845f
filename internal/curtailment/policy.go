package curtailment

import (
	"fmt"
	"math"

	"bess-screening/internal/model"
)

// Classification is the tier, cost band and RAG flag for a curtailment level.
type Classification struct {
	Tier      model.Tier `json:"tier" yaml:"tier"`
	CostLowK  float64    `json:"cost_low_k" yaml:"cost_low_k"`
	CostHighK float64    `json:"cost_high_k" yaml:"cost_high_k"`
	Risk      model.Risk `json:"risk" yaml:"risk"`
}

// Band applies when curtailment percent is strictly greater than Above.
type Band struct {
	Above          float64 `json:"above" yaml:"above"`
	Classification `yaml:",inline"`
}

// Policy maps curtailment percent to a Classification. The band with the
// highest Above that the percent exceeds wins; Fallback applies otherwise.
type Policy struct {
	Bands    []Band         `json:"bands" yaml:"bands"`
	Fallback Classification `json:"fallback" yaml:"fallback"`
}

// DefaultPolicy is the NGED-style reinforcement policy:
//
//	> 10%  HV_medium    £600k-£2000k  RED
//	>  2%  LV_HV_small  £200k-£800k   AMBER
//	else   None         £0k-£200k     GREEN
func DefaultPolicy() Policy {
	return Policy{
		Bands: []Band{
			{Above: 10, Classification: Classification{Tier: model.TierHVMedium, CostLowK: 600, CostHighK: 2000, Risk: model.RiskRed}},
			{Above: 2, Classification: Classification{Tier: model.TierLVHVSmall, CostLowK: 200, CostHighK: 800, Risk: model.RiskAmber}},
		},
		Fallback: Classification{Tier: model.TierNone, CostLowK: 0, CostHighK: 200, Risk: model.RiskGreen},
	}
}

// Classify is pure and safe for concurrent use.
func (p Policy) Classify(curtailmentPct float64) Classification {
	best := -1
	for i, b := range p.Bands {
		if curtailmentPct > b.Above && (best < 0 || b.Above > p.Bands[best].Above) {
			best = i
		}
	}
	if best < 0 {
		return p.Fallback
	}
	return p.Bands[best].Classification
}

func (p Policy) Validate() error {
	seen := make(map[float64]bool, len(p.Bands))
	for i, b := range p.Bands {
		if math.IsNaN(b.Above) || math.IsInf(b.Above, 0) {
			return fmt.Errorf("%w: policy band %d threshold must be finite", model.ErrInvalidParameters, i)
		}
		if seen[b.Above] {
			return fmt.Errorf("%w: policy band threshold %v is duplicated", model.ErrInvalidParameters, b.Above)
		}
		seen[b.Above] = true
		if err := b.Classification.validate(); err != nil {
			return fmt.Errorf("%w: policy band %d: %v", model.ErrInvalidParameters, i, err)
		}
	}
	if err := p.Fallback.validate(); err != nil {
		return fmt.Errorf("%w: policy fallback: %v", model.ErrInvalidParameters, err)
	}
	return nil
}

func (c Classification) validate() error {
	if c.Tier == "" {
		return fmt.Errorf("tier is required")
	}
	if c.Risk == "" {
		return fmt.Errorf("risk is required")
	}
	if c.CostLowK < 0 || c.CostHighK < c.CostLowK {
		return fmt.Errorf("cost band must satisfy 0<=low<=high (got %v..%v)", c.CostLowK, c.CostHighK)
	}
	return nil
}
