package model

import "fmt"

// SimulationParameters controls how many day-draws the estimator makes.
// Loaded once at startup and passed by value thereafter.
type SimulationParameters struct {
	SimDays int
	Trials  int
}

func (p SimulationParameters) Validate() error {
	if p.SimDays <= 0 {
		return fmt.Errorf("%w: sim_days must be > 0 (got %d)", ErrInvalidParameters, p.SimDays)
	}
	if p.Trials <= 0 {
		return fmt.Errorf("%w: trials must be > 0 (got %d)", ErrInvalidParameters, p.Trials)
	}
	return nil
}

// TotalDraws is the number of simulated days across all trials.
func (p SimulationParameters) TotalDraws() int {
	return p.SimDays * p.Trials
}
