package model

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientData marks a BSP that has no peak records or no allowed limit.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrInvalidParameters marks bad simulation or policy configuration.
	ErrInvalidParameters = errors.New("invalid parameters")
	// ErrNonFiniteInput marks a NaN or infinite value in an estimator input.
	ErrNonFiniteInput = errors.New("non-finite input")
	// ErrMalformedRecord marks an input row whose value could not be parsed.
	ErrMalformedRecord = errors.New("malformed record")
)

// NonFiniteError identifies which input of which BSP was NaN or infinite.
type NonFiniteError struct {
	BSP   string
	Field string
	Value float64
}

func (e *NonFiniteError) Error() string {
	if e.BSP == "" {
		return fmt.Sprintf("%s: %s=%v", ErrNonFiniteInput, e.Field, e.Value)
	}
	return fmt.Sprintf("%s: bsp %q %s=%v", ErrNonFiniteInput, e.BSP, e.Field, e.Value)
}

func (e *NonFiniteError) Unwrap() error { return ErrNonFiniteInput }
