package service_test

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/varshiniml7/predictive-maintenance/internal/domain/model"
	"github.com/varshiniml7/predictive-maintenance/internal/domain/port"
	"github.com/varshiniml7/predictive-maintenance/internal/domain/service"
)

func adapterConfig() service.AdapterConfig {
	return service.AdapterConfig{FeatureOrder: testFeatures, PositiveClass: 1}
}

func clampedMeans() model.ClampedRecord {
	return model.ClampedRecord(meanRecord())
}

func TestClassifierAdapter_Unavailable(t *testing.T) {
	tests := []struct {
		name       string
		classifier port.Classifier
		wantReason string
	}{
		{name: "no classifier", classifier: nil, wantReason: service.ReasonNoClassifier},
		{name: "label only", classifier: labelOnlyClassifier{}, wantReason: service.ReasonNoProbability},
		{
			name:       "positive class missing",
			classifier: &mockProbaClassifier{classes: []int{0, 2}},
			wantReason: "positive class 1 not in model classes [0 2]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter := service.NewClassifierAdapter(tt.classifier, adapterConfig(), slog.Default())

			assert.False(t, adapter.Active())
			assert.Equal(t, tt.wantReason, adapter.Describe())

			est, err := adapter.Estimate(context.Background(), clampedMeans())
			require.NoError(t, err)
			assert.False(t, est.IsAvailable())
			assert.Equal(t, tt.wantReason, est.Reason())
		})
	}
}

func TestClassifierAdapter_NilAdapter(t *testing.T) {
	var adapter *service.ClassifierAdapter

	est, err := adapter.Estimate(context.Background(), clampedMeans())
	require.NoError(t, err)
	assert.False(t, est.IsAvailable())
	assert.False(t, adapter.Active())
}

func TestClassifierAdapter_Available(t *testing.T) {
	clf := &mockProbaClassifier{classes: []int{0, 1}, probs: []float64{0.3, 0.7}}
	adapter := service.NewClassifierAdapter(clf, adapterConfig(), slog.Default())

	require.True(t, adapter.Active())
	assert.Equal(t, "mock", adapter.Describe())

	est, err := adapter.Estimate(context.Background(), clampedMeans())
	require.NoError(t, err)

	p, ok := est.Probability()
	require.True(t, ok)
	assert.Equal(t, 0.7, p)
	assert.Equal(t, []float64{1.37, 8.98, 7.57, 62.64, 0.056}, clf.lastSeen)
}

func TestClassifierAdapter_PositiveClassIndex(t *testing.T) {
	clf := &mockProbaClassifier{classes: []int{1, 0}, probs: []float64{0.9, 0.1}}
	adapter := service.NewClassifierAdapter(clf, adapterConfig(), slog.Default())

	est, err := adapter.Estimate(context.Background(), clampedMeans())
	require.NoError(t, err)

	p, _ := est.Probability()
	assert.Equal(t, 0.9, p)
}

func TestClassifierAdapter_Errors(t *testing.T) {
	tests := []struct {
		name    string
		clf     *mockProbaClassifier
		wantErr string
	}{
		{
			name:    "inference failure",
			clf:     &mockProbaClassifier{classes: []int{0, 1}, err: fmt.Errorf("endpoint down")},
			wantErr: "endpoint down",
		},
		{
			name:    "wrong vector length",
			clf:     &mockProbaClassifier{classes: []int{0, 1}, probs: []float64{1}},
			wantErr: "expected 2 probabilities, got 1",
		},
		{
			name:    "probability out of range",
			clf:     &mockProbaClassifier{classes: []int{0, 1}, probs: []float64{-0.5, 1.5}},
			wantErr: "probability must be within",
		},
		{
			name:    "NaN probability",
			clf:     &mockProbaClassifier{classes: []int{0, 1}, probs: []float64{0, math.NaN()}},
			wantErr: "probability must be within",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter := service.NewClassifierAdapter(tt.clf, adapterConfig(), slog.Default())

			_, err := adapter.Estimate(context.Background(), clampedMeans())
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestClassifierAdapter_MissingFeature(t *testing.T) {
	clf := &mockProbaClassifier{classes: []int{0, 1}, probs: []float64{0.5, 0.5}}
	adapter := service.NewClassifierAdapter(clf, adapterConfig(), slog.Default())

	_, err := adapter.Estimate(context.Background(), model.ClampedRecord{"TP2": 1})
	assert.ErrorIs(t, err, model.ErrFeatureMissing)
}

func TestClassifierAdapter_SerializesUnsafeClassifier(t *testing.T) {
	clf := &mockProbaClassifier{classes: []int{0, 1}, probs: []float64{0.5, 0.5}, delay: 5 * time.Millisecond}
	adapter := service.NewClassifierAdapter(clf, adapterConfig(), slog.Default())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := adapter.Estimate(context.Background(), clampedMeans())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.False(t, clf.overlap.Load(), "calls to an unsafe classifier must not overlap")
}
