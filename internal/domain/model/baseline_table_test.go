package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/varshiniml7/predictive-maintenance/internal/domain/model"
)

func TestNewBaselineTable_Valid(t *testing.T) {
	table := newTestTable(t)

	assert.Equal(t, 5, table.Len())
	assert.Equal(t, testFeatures, table.Features())

	s, ok := table.Stats("Oil_temperature")
	require.True(t, ok)
	assert.Equal(t, 62.64, s.Mean)

	_, ok = table.Stats("Motor_current")
	assert.False(t, ok)
}

func TestNewBaselineTable_MissingFeature(t *testing.T) {
	stats := testStats()
	delete(stats, "H1")

	_, err := model.NewBaselineTable(testFeatures, stats)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrFeatureMissing)
	assert.Contains(t, err.Error(), "H1")
}

func TestNewBaselineTable_NormalizesZeroStd(t *testing.T) {
	stats := testStats()
	stats["DV_pressure"] = model.FeatureStatistics{Mean: 0, Std: 0, Min: 0, Max: 0}

	table, err := model.NewBaselineTable(testFeatures, stats)
	require.NoError(t, err)

	s, _ := table.Stats("DV_pressure")
	assert.Equal(t, 1.0, s.Std)
}

func TestNewBaselineTable_IgnoresExtraFeatures(t *testing.T) {
	stats := testStats()
	stats["Motor_current"] = model.FeatureStatistics{Mean: 1, Std: 1, Min: 0, Max: 2}

	table, err := model.NewBaselineTable(testFeatures, stats)
	require.NoError(t, err)

	assert.Equal(t, 5, table.Len())
	assert.NotContains(t, table.Snapshot(), "Motor_current")
}

func TestNewBaselineTable_InvalidFeatureList(t *testing.T) {
	tests := []struct {
		name     string
		features []string
		wantErr  string
	}{
		{name: "empty", features: nil, wantErr: "at least one feature"},
		{name: "blank name", features: []string{"TP2", ""}, wantErr: "must not be empty"},
		{name: "duplicate", features: []string{"TP2", "TP2"}, wantErr: "duplicate feature"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := model.NewBaselineTable(tt.features, testStats())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestBaselineTable_AccessorsReturnCopies(t *testing.T) {
	table := newTestTable(t)

	features := table.Features()
	features[0] = "changed"
	assert.Equal(t, "TP2", table.Features()[0])

	snap := table.Snapshot()
	snap["TP2"] = model.FeatureStatistics{}
	s, _ := table.Stats("TP2")
	assert.Equal(t, 1.37, s.Mean)
}
