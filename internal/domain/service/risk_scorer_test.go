package service_test

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/varshiniml7/predictive-maintenance/internal/domain/event"
	"github.com/varshiniml7/predictive-maintenance/internal/domain/model"
	"github.com/varshiniml7/predictive-maintenance/internal/domain/service"
	"github.com/varshiniml7/predictive-maintenance/internal/domain/valueobject"
)

func newScorer(t *testing.T) *service.RiskScorer {
	t.Helper()
	s, err := service.NewRiskScorer(service.DefaultScoringParams())
	require.NoError(t, err)
	return s
}

func TestRiskScorer_AllMeansIsNormal(t *testing.T) {
	scorer := newScorer(t)
	table := newTestTable(t)

	a, err := scorer.Score(context.Background(), meanRecord(), table, nil)
	require.NoError(t, err)

	assert.True(t, a.Status().Equal(valueobject.StatusNormal))
	assert.InDelta(t, 0.0, a.MaxAbsZ(), 1e-9)
	// sigmoid(-1.2 * 1.5)
	assert.InDelta(t, 0.14185, a.Probability(), 1e-4)
	assert.Less(t, a.Probability(), 0.5)
	assert.Empty(t, a.OutOfRange())
	assert.Empty(t, a.Events())
}

func TestRiskScorer_SingleFeatureDeviationIsAbnormal(t *testing.T) {
	scorer := newScorer(t)
	table := newTestTable(t)

	raw := meanRecord()
	raw["Oil_temperature"] = 89.0

	a, err := scorer.Score(context.Background(), raw, table, nil)
	require.NoError(t, err)

	// (89 - 62.64) / 6.52
	assert.InDelta(t, 4.0429, a.MaxAbsZ(), 1e-3)
	assert.True(t, a.Status().IsAbnormal())
	assert.Empty(t, a.OutOfRange())
	assert.Greater(t, a.Probability(), 0.9)

	require.Len(t, a.Events(), 1)
	assert.Equal(t, event.EventTypeAbnormalRiskDetected, a.Events()[0].EventType())
}

func TestRiskScorer_ClampsBeforeZScores(t *testing.T) {
	scorer := newScorer(t)
	table := newTestTable(t)

	raw := meanRecord()
	raw["TP3"] = 500

	a, err := scorer.Score(context.Background(), raw, table, nil)
	require.NoError(t, err)

	// Clamped to max 10.30: (10.30 - 8.98) / 0.64
	assert.InDelta(t, 2.0625, a.ZScores()["TP3"], 1e-9)
	assert.True(t, a.Status().Equal(valueobject.StatusNormal))
	assert.Equal(t, []string{"TP3"}, a.OutOfRange())
	assert.Equal(t, 500.0, a.RawInputs()["TP3"])
}

func TestRiskScorer_ValidateAndClamp(t *testing.T) {
	scorer := newScorer(t)
	table := newTestTable(t)

	raw := meanRecord()
	raw["DV_pressure"] = -5
	raw["TP2"] = 11

	clamped, outOfRange, err := scorer.ValidateAndClamp(raw, table)
	require.NoError(t, err)

	assert.Equal(t, []string{"TP2", "DV_pressure"}, outOfRange)
	assert.Equal(t, 10.68, clamped["TP2"])
	assert.Equal(t, -0.03, clamped["DV_pressure"])
	assert.Equal(t, 8.98, clamped["TP3"])
}

func TestRiskScorer_BoundaryValuesAreInRange(t *testing.T) {
	scorer := newScorer(t)
	table := newTestTable(t)

	raw := meanRecord()
	raw["H1"] = 10.29

	_, outOfRange, err := scorer.ValidateAndClamp(raw, table)
	require.NoError(t, err)
	assert.Empty(t, outOfRange)
}

func TestRiskScorer_ValidateAndClampMissingFeature(t *testing.T) {
	scorer := newScorer(t)
	table := newTestTable(t)

	raw := meanRecord()
	delete(raw, "H1")

	_, _, err := scorer.ValidateAndClamp(raw, table)
	assert.ErrorIs(t, err, model.ErrFeatureMissing)
}

func TestRiskScorer_Classify(t *testing.T) {
	scorer := newScorer(t)

	tests := []struct {
		name     string
		z        model.ZScoreVector
		abnormal bool
	}{
		{name: "well inside", z: model.ZScoreVector{"a": 1, "b": -2}, abnormal: false},
		{name: "exactly at threshold", z: model.ZScoreVector{"a": 3.0}, abnormal: false},
		{name: "just above threshold", z: model.ZScoreVector{"a": 3.0001}, abnormal: true},
		{name: "negative deviation", z: model.ZScoreVector{"a": -3.5}, abnormal: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.abnormal, scorer.Classify(tt.z).IsAbnormal())
		})
	}
}

func TestRiskScorer_BaselineRisk(t *testing.T) {
	scorer := newScorer(t)

	assert.InDelta(t, 0.5, scorer.BaselineRisk(1.5), 1e-12)
	assert.InDelta(t, 1/(1+math.Exp(1.8)), scorer.BaselineRisk(0), 1e-12)
	assert.Greater(t, scorer.BaselineRisk(4), scorer.BaselineRisk(3))
}

func TestRiskScorer_BlendProbability(t *testing.T) {
	scorer := newScorer(t)
	base := scorer.BaselineRisk(0)

	available, err := valueobject.Available(0.8)
	require.NoError(t, err)
	zero, err := valueobject.Available(0)
	require.NoError(t, err)

	tests := []struct {
		name     string
		estimate valueobject.ProbabilityEstimate
		want     float64
	}{
		{name: "unavailable", estimate: valueobject.Unavailable("none"), want: base},
		{name: "available", estimate: available, want: 0.45*0.8 + 0.55*base},
		{name: "available zero", estimate: zero, want: 0.55 * base},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, scorer.BlendProbability(0, tt.estimate), 1e-12)
		})
	}
}

func TestRiskScorer_BlendStaysInUnitInterval(t *testing.T) {
	scorer := newScorer(t)
	one, err := valueobject.Available(1)
	require.NoError(t, err)

	for _, z := range []float64{0, 1, 3, 10, 100, 1e6} {
		p := scorer.BlendProbability(z, one)
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 1.0)
	}
}

func TestRiskScorer_ScoreWithClassifier(t *testing.T) {
	scorer := newScorer(t)
	table := newTestTable(t)
	clf := &mockProbaClassifier{classes: []int{0, 1}, probs: []float64{0.2, 0.8}}
	adapter := service.NewClassifierAdapter(clf, adapterConfig(), slog.Default())

	a, err := scorer.Score(context.Background(), meanRecord(), table, adapter)
	require.NoError(t, err)

	want := 0.45*0.8 + 0.55*scorer.BaselineRisk(0)
	assert.InDelta(t, want, a.Probability(), 1e-12)
	assert.True(t, a.ClassifierEstimate().IsAvailable())
}

func TestRiskScorer_ScoreClassifierSeesClampedValues(t *testing.T) {
	scorer := newScorer(t)
	table := newTestTable(t)
	clf := &mockProbaClassifier{classes: []int{0, 1}, probs: []float64{0.5, 0.5}}
	adapter := service.NewClassifierAdapter(clf, adapterConfig(), slog.Default())

	raw := meanRecord()
	raw["Oil_temperature"] = 150

	_, err := scorer.Score(context.Background(), raw, table, adapter)
	require.NoError(t, err)
	assert.Equal(t, 89.05, clf.lastSeen[3])
}

func TestRiskScorer_ScoreClassifierError(t *testing.T) {
	scorer := newScorer(t)
	table := newTestTable(t)
	clf := &mockProbaClassifier{classes: []int{0, 1}, err: fmt.Errorf("boom")}
	adapter := service.NewClassifierAdapter(clf, adapterConfig(), slog.Default())

	_, err := scorer.Score(context.Background(), meanRecord(), table, adapter)
	assert.ErrorContains(t, err, "estimating failure probability")
	assert.ErrorContains(t, err, "boom")
}

func TestRiskScorer_CustomParams(t *testing.T) {
	params := service.DefaultScoringParams()
	params.ZThreshold = 1.0
	scorer, err := service.NewRiskScorer(params)
	require.NoError(t, err)
	assert.Equal(t, params, scorer.Params())
	table := newTestTable(t)

	raw := meanRecord()
	raw["TP3"] = 10.0

	a, err := scorer.Score(context.Background(), raw, table, nil)
	require.NoError(t, err)
	assert.True(t, a.Status().IsAbnormal())
}
