package model_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/varshiniml7/predictive-maintenance/internal/domain/model"
)

func TestNewFeatureStatistics_Valid(t *testing.T) {
	s, err := model.NewFeatureStatistics(5, 2, 0, 10)
	require.NoError(t, err)

	assert.Equal(t, 5.0, s.Mean)
	assert.Equal(t, 2.0, s.Std)
	assert.Equal(t, 0.0, s.Min)
	assert.Equal(t, 10.0, s.Max)
}

func TestNewFeatureStatistics_ZeroStdBecomesOne(t *testing.T) {
	s, err := model.NewFeatureStatistics(3, 0, 3, 3)
	require.NoError(t, err)
	assert.Equal(t, 1.0, s.Std)
}

func TestNewFeatureStatistics_MeanWithinTolerance(t *testing.T) {
	_, err := model.NewFeatureStatistics(10+1e-12, 1, 0, 10)
	assert.NoError(t, err)
}

func TestNewFeatureStatistics_Invalid(t *testing.T) {
	tests := []struct {
		name string
		mean float64
		std  float64
		min  float64
		max  float64
	}{
		{name: "negative std", mean: 1, std: -1, min: 0, max: 2},
		{name: "min above max", mean: 1, std: 1, min: 3, max: 2},
		{name: "mean below min", mean: -1, std: 1, min: 0, max: 2},
		{name: "mean above max", mean: 5, std: 1, min: 0, max: 2},
		{name: "NaN mean", mean: math.NaN(), std: 1, min: 0, max: 2},
		{name: "infinite max", mean: 1, std: 1, min: 0, max: math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := model.NewFeatureStatistics(tt.mean, tt.std, tt.min, tt.max)
			require.Error(t, err)
			assert.ErrorIs(t, err, model.ErrInvalidStatistics)
		})
	}
}

func TestFeatureStatistics_ClampAndRange(t *testing.T) {
	s := model.FeatureStatistics{Mean: 5, Std: 2, Min: 0, Max: 10}

	tests := []struct {
		name    string
		value   float64
		clamped float64
		inRange bool
	}{
		{name: "inside", value: 4, clamped: 4, inRange: true},
		{name: "at min", value: 0, clamped: 0, inRange: true},
		{name: "at max", value: 10, clamped: 10, inRange: true},
		{name: "below", value: -3, clamped: 0, inRange: false},
		{name: "above", value: 25, clamped: 10, inRange: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.clamped, s.Clamp(tt.value))
			assert.Equal(t, tt.inRange, s.InRange(tt.value))
		})
	}
}

func TestFeatureStatistics_ZScore(t *testing.T) {
	s := model.FeatureStatistics{Mean: 5, Std: 2, Min: 0, Max: 10}

	assert.InDelta(t, 0.0, s.ZScore(5), 1e-12)
	assert.InDelta(t, 2.5, s.ZScore(10), 1e-12)
	assert.InDelta(t, -2.5, s.ZScore(0), 1e-12)
}
