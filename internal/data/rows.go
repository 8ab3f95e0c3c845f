package data

import (
	"fmt"

	"bess-screening/internal/model"
)

// RowError is one input row that could not be parsed. Loaders collect these
// instead of failing so that one bad cell only affects its own BSP.
type RowError struct {
	BSP    string
	Line   int
	Column string
	Err    error
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %s: %v", e.Line, e.Column, e.Err)
}

func (e RowError) Unwrap() []error { return []error{model.ErrMalformedRecord, e.Err} }

// RejectedBSPs maps each BSP with at least one bad row to its first row
// error, noting how many more rows were bad.
func RejectedBSPs(groups ...[]RowError) map[string]error {
	first := map[string]RowError{}
	counts := map[string]int{}
	for _, g := range groups {
		for _, e := range g {
			if counts[e.BSP] == 0 {
				first[e.BSP] = e
			}
			counts[e.BSP]++
		}
	}
	out := make(map[string]error, len(first))
	for bsp, e := range first {
		if n := counts[bsp]; n > 1 {
			out[bsp] = fmt.Errorf("%w (and %d more bad rows)", e, n-1)
			continue
		}
		out[bsp] = e
	}
	return out
}
