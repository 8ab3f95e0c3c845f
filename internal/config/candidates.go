package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CandidateSet is a named preset of candidate sizes, stored as its own YAML
// file (e.g. examples/candidates/*.yaml).
type CandidateSet struct {
	Name          string            `yaml:"name"`
	Description   string            `yaml:"description"`
	EnergyFullMWh float64           `yaml:"energy_full_mwh"`
	Candidates    []CandidateConfig `yaml:"candidates"`
}

func LoadCandidateSet(path string) (*CandidateSet, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s CandidateSet
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &s, nil
}
