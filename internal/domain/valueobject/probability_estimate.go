package valueobject

import (
	"fmt"
	"math"
)

// ProbabilityEstimate is the outcome of asking a classifier for the probability
// that the asset belongs to the failing class. It is either Available with a
// probability in [0, 1] or Unavailable with a reason.
type ProbabilityEstimate struct {
	reason      string
	probability float64
	available   bool
}

// Available creates an estimate carrying probability p.
func Available(p float64) (ProbabilityEstimate, error) {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return ProbabilityEstimate{}, fmt.Errorf("probability must be within [0, 1], got %v", p)
	}
	return ProbabilityEstimate{probability: p, available: true}, nil
}

// Unavailable creates an estimate signalling that no classifier signal exists.
func Unavailable(reason string) ProbabilityEstimate {
	return ProbabilityEstimate{reason: reason}
}

// IsAvailable reports whether the estimate carries a probability.
func (e ProbabilityEstimate) IsAvailable() bool {
	return e.available
}

// Probability returns the estimated probability and whether it is available.
func (e ProbabilityEstimate) Probability() (float64, bool) {
	return e.probability, e.available
}

// Reason explains why the estimate is unavailable. Empty for available estimates.
func (e ProbabilityEstimate) Reason() string {
	return e.reason
}

// String returns a human readable representation.
func (e ProbabilityEstimate) String() string {
	if e.available {
		return fmt.Sprintf("available(%.4f)", e.probability)
	}
	return fmt.Sprintf("unavailable(%s)", e.reason)
}
