package service

import (
	"context"
	"fmt"
	"math"

	"github.com/varshiniml7/predictive-maintenance/internal/domain/model"
	"github.com/varshiniml7/predictive-maintenance/internal/domain/valueobject"
)

// RiskScorer converts a sensor record into a failure-risk assessment by
// comparing it against the learned baseline and optionally blending in a
// classifier estimate.
type RiskScorer struct {
	params ScoringParams
}

// NewRiskScorer creates a RiskScorer with validated parameters.
func NewRiskScorer(params ScoringParams) (*RiskScorer, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scoring parameters: %w", err)
	}
	return &RiskScorer{params: params}, nil
}

// Params returns the scoring parameters in use.
func (s *RiskScorer) Params() ScoringParams {
	return s.params
}

// ValidateAndClamp constrains every feature to its learned range. The second
// return lists, in canonical order, the features whose raw value fell outside it.
func (s *RiskScorer) ValidateAndClamp(raw model.RawRecord, baseline *model.BaselineTable) (model.ClampedRecord, []string, error) {
	features := baseline.Features()
	clamped := make(model.ClampedRecord, len(features))
	outOfRange := make([]string, 0)

	for _, name := range features {
		v, ok := raw[name]
		if !ok {
			return nil, nil, fmt.Errorf("%w: %s", model.ErrFeatureMissing, name)
		}
		stats, _ := baseline.Stats(name)
		if !stats.InRange(v) {
			outOfRange = append(outOfRange, name)
		}
		clamped[name] = stats.Clamp(v)
	}

	return clamped, outOfRange, nil
}

// ComputeZScores measures how far each clamped value lies from its mean.
func (s *RiskScorer) ComputeZScores(clamped model.ClampedRecord, baseline *model.BaselineTable) model.ZScoreVector {
	z := make(model.ZScoreVector, baseline.Len())
	for _, name := range baseline.Features() {
		stats, _ := baseline.Stats(name)
		z[name] = stats.ZScore(clamped[name])
	}
	return z
}

// Classify flags the record Abnormal when any feature deviates by strictly
// more than the threshold.
func (s *RiskScorer) Classify(z model.ZScoreVector) valueobject.Status {
	return valueobject.StatusFromDeviation(z.MaxAbs(), s.params.ZThreshold)
}

// BaselineRisk maps the largest deviation onto (0, 1) with a logistic curve.
func (s *RiskScorer) BaselineRisk(maxAbsZ float64) float64 {
	return 1.0 / (1.0 + math.Exp(-s.params.Steepness*(maxAbsZ-s.params.Midpoint)))
}

// BlendProbability combines the baseline risk with an available classifier
// estimate and clamps the result to [0, 1].
func (s *RiskScorer) BlendProbability(maxAbsZ float64, estimate valueobject.ProbabilityEstimate) float64 {
	base := s.BaselineRisk(maxAbsZ)
	combined := base
	if p, ok := estimate.Probability(); ok {
		w := s.params.ClassifierWeight
		combined = w*p + (1-w)*base
	}
	return math.Max(0, math.Min(1, combined))
}

// Score runs the full pipeline for one record. A nil adapter scores from
// statistics only.
func (s *RiskScorer) Score(
	ctx context.Context,
	raw model.RawRecord,
	baseline *model.BaselineTable,
	adapter *ClassifierAdapter,
) (*model.RiskAssessment, error) {
	clamped, outOfRange, err := s.ValidateAndClamp(raw, baseline)
	if err != nil {
		return nil, fmt.Errorf("clamping record: %w", err)
	}

	z := s.ComputeZScores(clamped, baseline)
	maxAbsZ := z.MaxAbs()
	status := s.Classify(z)

	estimate, err := adapter.Estimate(ctx, clamped)
	if err != nil {
		return nil, fmt.Errorf("estimating failure probability: %w", err)
	}

	assessment, err := model.NewRiskAssessment(
		raw, z, outOfRange, status, estimate, s.BlendProbability(maxAbsZ, estimate),
	)
	if err != nil {
		return nil, fmt.Errorf("building assessment: %w", err)
	}
	return assessment, nil
}
