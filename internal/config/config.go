package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"bess-screening/internal/curtailment"
	"bess-screening/internal/data"
	"bess-screening/internal/model"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	// EnergyFullMWh is the nominal full-utilisation energy applied to any
	// candidate that does not set its own.
	EnergyFullMWh float64 `yaml:"energy_full_mwh"`
	// Workers bounds concurrent estimations; 0 = GOMAXPROCS.
	Workers int `yaml:"workers"`
	// Policy overrides the default reinforcement policy when set.
	Policy *curtailment.Policy `yaml:"policy"`

	// Optional: load candidates from a CSV sizes table or a YAML candidate set.
	// Entries in Candidates are appended after the file's entries.
	CandidatesFile string            `yaml:"candidates_file"`
	Candidates     []CandidateConfig `yaml:"candidates"`

	Inputs  InputsConfig  `yaml:"inputs"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

type SimulationConfig struct {
	SimDays int `yaml:"sim_days"`
	Trials  int `yaml:"trials"`
	// Seed makes runs reproducible when set.
	Seed *uint64 `yaml:"seed"`
}

type CandidateConfig struct {
	SizeMW              float64 `yaml:"size_mw"`
	ExportMVAWithMargin float64 `yaml:"export_mva_with_margin"`
	EnergyFullMWh       float64 `yaml:"energy_full_mwh"`
}

type InputsConfig struct {
	Peaks      string `yaml:"peaks"`
	Thresholds string `yaml:"thresholds"`
	Sites      string `yaml:"sites"`
}

type OutputConfig struct {
	Results    string `yaml:"results"`
	Exceptions string `yaml:"exceptions"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads config, applies defaults and merges the candidates
// file, but does not validate.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	c.applyDefaults()

	dir := filepath.Dir(path)
	c.Inputs.Peaks = resolve(dir, c.Inputs.Peaks)
	c.Inputs.Thresholds = resolve(dir, c.Inputs.Thresholds)
	c.Inputs.Sites = resolve(dir, c.Inputs.Sites)

	if c.CandidatesFile != "" {
		cands, err := loadCandidatesFile(resolve(dir, c.CandidatesFile), c.EnergyFullMWh)
		if err != nil {
			return nil, err
		}
		c.Candidates = append(cands, c.Candidates...)
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
}

// resolve prefers interpreting relative paths as relative to the config
// file directory, falling back to the path as given (relative to cwd).
func resolve(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	cand := filepath.Join(dir, p)
	if _, err := os.Stat(cand); err == nil {
		return cand
	}
	return p
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if err := c.SimulationParams().Validate(); err != nil {
		return fmt.Errorf("simulation: %w", err)
	}
	if c.EnergyFullMWh < 0 {
		return errors.New("energy_full_mwh must be >= 0")
	}
	if c.Workers < 0 {
		return errors.New("workers must be >= 0")
	}
	if err := c.ReinforcementPolicy().Validate(); err != nil {
		return fmt.Errorf("policy: %w", err)
	}
	for i, a := range c.CandidateAssets() {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("candidates[%d]: %w", i, err)
		}
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	switch strings.ToLower(c.Logging.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be one of: console, json")
	}
	return nil
}

func (c *Config) SimulationParams() model.SimulationParameters {
	return model.SimulationParameters{SimDays: c.Simulation.SimDays, Trials: c.Simulation.Trials}
}

func (c *Config) ReinforcementPolicy() curtailment.Policy {
	if c.Policy == nil {
		return curtailment.DefaultPolicy()
	}
	return *c.Policy
}

// CandidateAssets converts candidate entries, filling EnergyFullMWh from the
// top-level default where unset.
func (c *Config) CandidateAssets() []model.CandidateAsset {
	out := make([]model.CandidateAsset, 0, len(c.Candidates))
	for _, cc := range c.Candidates {
		out = append(out, cc.ToModel(c.EnergyFullMWh))
	}
	return out
}

func (cc CandidateConfig) ToModel(defaultEnergyMWh float64) model.CandidateAsset {
	e := cc.EnergyFullMWh
	if e == 0 {
		e = defaultEnergyMWh
	}
	return model.CandidateAsset{SizeMW: cc.SizeMW, ExportMVAWithMargin: cc.ExportMVAWithMargin, EnergyFullMWh: e}
}

func loadCandidatesFile(path string, defaultEnergyMWh float64) ([]CandidateConfig, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		assets, err := data.LoadCandidatesCSV(path, defaultEnergyMWh)
		if err != nil {
			return nil, err
		}
		out := make([]CandidateConfig, len(assets))
		for i, a := range assets {
			out[i] = CandidateConfig{SizeMW: a.SizeMW, ExportMVAWithMargin: a.ExportMVAWithMargin, EnergyFullMWh: a.EnergyFullMWh}
		}
		return out, nil
	default:
		set, err := LoadCandidateSet(path)
		if err != nil {
			return nil, err
		}
		if set.EnergyFullMWh != 0 {
			for i := range set.Candidates {
				if set.Candidates[i].EnergyFullMWh == 0 {
					set.Candidates[i].EnergyFullMWh = set.EnergyFullMWh
				}
			}
		}
		return set.Candidates, nil
	}
}
