package model_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/varshiniml7/predictive-maintenance/internal/domain/model"
)

var testFeatures = []string{"TP2", "TP3", "H1", "Oil_temperature", "DV_pressure"}

func testStats() map[string]model.FeatureStatistics {
	return map[string]model.FeatureStatistics{
		"TP2":             {Mean: 1.37, Std: 3.25, Min: -0.03, Max: 10.68},
		"TP3":             {Mean: 8.98, Std: 0.64, Min: 0.73, Max: 10.30},
		"H1":              {Mean: 7.57, Std: 3.33, Min: -0.04, Max: 10.29},
		"Oil_temperature": {Mean: 62.64, Std: 6.52, Min: 15.4, Max: 89.05},
		"DV_pressure":     {Mean: 0.056, Std: 0.38, Min: -0.03, Max: 9.84},
	}
}

func newTestTable(t *testing.T) *model.BaselineTable {
	t.Helper()
	table, err := model.NewBaselineTable(testFeatures, testStats())
	require.NoError(t, err)
	return table
}
