package model

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidStatistics is returned when learned statistics violate their invariants.
var ErrInvalidStatistics = errors.New("invalid feature statistics")

// FeatureStatistics is the learned baseline of a single sensor feature.
type FeatureStatistics struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

// NewFeatureStatistics validates learned statistics. A standard deviation of
// zero is replaced by 1.0 so that z-scores stay defined.
func NewFeatureStatistics(mean, std, min, max float64) (FeatureStatistics, error) {
	for name, v := range map[string]float64{"mean": mean, "std": std, "min": min, "max": max} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return FeatureStatistics{}, fmt.Errorf("%w: %s is not finite", ErrInvalidStatistics, name)
		}
	}
	if std < 0 {
		return FeatureStatistics{}, fmt.Errorf("%w: std %v is negative", ErrInvalidStatistics, std)
	}
	if min > max {
		return FeatureStatistics{}, fmt.Errorf("%w: min %v exceeds max %v", ErrInvalidStatistics, min, max)
	}

	// Means computed offline can land an ulp outside [min, max].
	tol := 1e-9 * math.Max(1, math.Max(math.Abs(min), math.Abs(max)))
	if mean < min-tol || mean > max+tol {
		return FeatureStatistics{}, fmt.Errorf("%w: mean %v outside [%v, %v]", ErrInvalidStatistics, mean, min, max)
	}

	if std == 0 {
		std = 1.0
	}

	return FeatureStatistics{Mean: mean, Std: std, Min: min, Max: max}, nil
}

// InRange reports whether v lies within [Min, Max].
func (s FeatureStatistics) InRange(v float64) bool {
	return v >= s.Min && v <= s.Max
}

// Clamp constrains v to [Min, Max].
func (s FeatureStatistics) Clamp(v float64) float64 {
	return math.Max(s.Min, math.Min(v, s.Max))
}

// ZScore returns the signed number of standard deviations v lies from the mean.
func (s FeatureStatistics) ZScore(v float64) float64 {
	return (v - s.Mean) / s.Std
}
