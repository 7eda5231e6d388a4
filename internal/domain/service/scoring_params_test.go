package service_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/varshiniml7/predictive-maintenance/internal/domain/service"
)

func TestScoringParams_Defaults(t *testing.T) {
	p := service.DefaultScoringParams()

	assert.Equal(t, 3.0, p.ZThreshold)
	assert.Equal(t, 1.2, p.Steepness)
	assert.Equal(t, 1.5, p.Midpoint)
	assert.Equal(t, 0.45, p.ClassifierWeight)
	assert.NoError(t, p.Validate())
}

func TestScoringParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *service.ScoringParams)
		wantErr string
	}{
		{name: "zero threshold", mutate: func(p *service.ScoringParams) { p.ZThreshold = 0 }, wantErr: "z threshold must be positive"},
		{name: "negative steepness", mutate: func(p *service.ScoringParams) { p.Steepness = -1 }, wantErr: "steepness must be positive"},
		{name: "weight above one", mutate: func(p *service.ScoringParams) { p.ClassifierWeight = 1.5 }, wantErr: "classifier weight must be within"},
		{name: "NaN midpoint", mutate: func(p *service.ScoringParams) { p.Midpoint = math.NaN() }, wantErr: "midpoint must be finite"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := service.DefaultScoringParams()
			tt.mutate(&p)
			err := p.Validate()
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestNewRiskScorer_RejectsInvalidParams(t *testing.T) {
	p := service.DefaultScoringParams()
	p.ClassifierWeight = -0.1

	_, err := service.NewRiskScorer(p)
	assert.ErrorContains(t, err, "invalid scoring parameters")
}
