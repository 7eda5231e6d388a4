package service_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/varshiniml7/predictive-maintenance/internal/domain/model"
)

var testFeatures = []string{"TP2", "TP3", "H1", "Oil_temperature", "DV_pressure"}

func newTestTable(t *testing.T) *model.BaselineTable {
	t.Helper()
	table, err := model.NewBaselineTable(testFeatures, map[string]model.FeatureStatistics{
		"TP2":             {Mean: 1.37, Std: 3.25, Min: -0.03, Max: 10.68},
		"TP3":             {Mean: 8.98, Std: 0.64, Min: 0.73, Max: 10.30},
		"H1":              {Mean: 7.57, Std: 3.33, Min: -0.04, Max: 10.29},
		"Oil_temperature": {Mean: 62.64, Std: 6.52, Min: 15.4, Max: 89.05},
		"DV_pressure":     {Mean: 0.056, Std: 0.38, Min: -0.03, Max: 9.84},
	})
	require.NoError(t, err)
	return table
}

func meanRecord() model.RawRecord {
	return model.RawRecord{
		"TP2":             1.37,
		"TP3":             8.98,
		"H1":              7.57,
		"Oil_temperature": 62.64,
		"DV_pressure":     0.056,
	}
}

// labelOnlyClassifier predicts labels but exposes no probabilities.
type labelOnlyClassifier struct{}

func (labelOnlyClassifier) Name() string { return "label-only" }

type mockProbaClassifier struct {
	err      error
	lastSeen []float64
	classes  []int
	probs    []float64
	safe     bool
	delay    time.Duration
	inFlight atomic.Int32
	overlap  atomic.Bool
}

func (m *mockProbaClassifier) Name() string          { return "mock" }
func (m *mockProbaClassifier) Classes() []int        { return m.classes }
func (m *mockProbaClassifier) ConcurrencySafe() bool { return m.safe }

func (m *mockProbaClassifier) PredictProba(_ context.Context, features []float64) ([]float64, error) {
	if m.inFlight.Add(1) > 1 {
		m.overlap.Store(true)
	}
	defer m.inFlight.Add(-1)
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	if !m.safe {
		m.lastSeen = features
	}
	return m.probs, m.err
}
