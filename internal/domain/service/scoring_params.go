package service

import (
	"errors"
	"fmt"
	"math"
)

// Default scoring parameters.
const (
	DefaultZThreshold       = 3.0
	DefaultSteepness        = 1.2
	DefaultMidpoint         = 1.5
	DefaultClassifierWeight = 0.45
)

// ScoringParams tunes the anomaly threshold, the logistic curve and the
// weight given to the classifier when blending.
type ScoringParams struct {
	ZThreshold       float64
	Steepness        float64
	Midpoint         float64
	ClassifierWeight float64
}

// DefaultScoringParams returns the calibrated production parameters.
func DefaultScoringParams() ScoringParams {
	return ScoringParams{
		ZThreshold:       DefaultZThreshold,
		Steepness:        DefaultSteepness,
		Midpoint:         DefaultMidpoint,
		ClassifierWeight: DefaultClassifierWeight,
	}
}

// Validate checks that every parameter is finite and in range.
func (p ScoringParams) Validate() error {
	var errs []error
	for name, v := range map[string]float64{
		"z threshold":       p.ZThreshold,
		"steepness":         p.Steepness,
		"midpoint":          p.Midpoint,
		"classifier weight": p.ClassifierWeight,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			errs = append(errs, fmt.Errorf("%s must be finite", name))
		}
	}
	if p.ZThreshold <= 0 {
		errs = append(errs, fmt.Errorf("z threshold must be positive, got %v", p.ZThreshold))
	}
	if p.Steepness <= 0 {
		errs = append(errs, fmt.Errorf("steepness must be positive, got %v", p.Steepness))
	}
	if p.ClassifierWeight < 0 || p.ClassifierWeight > 1 {
		errs = append(errs, fmt.Errorf("classifier weight must be within [0, 1], got %v", p.ClassifierWeight))
	}
	return errors.Join(errs...)
}
