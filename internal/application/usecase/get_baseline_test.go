package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/varshiniml7/predictive-maintenance/internal/application/dto"
	"github.com/varshiniml7/predictive-maintenance/internal/application/usecase"
)

func TestGetBaseline_Execute(t *testing.T) {
	uc := usecase.NewGetBaseline(newTestTable(t))

	resp := uc.Execute(context.Background())

	require.Len(t, resp, 5)
	assert.Equal(t, dto.StatisticsDTO{Mean: 1.37, Std: 3.25, Min: -0.03, Max: 10.68}, resp["TP2"])
	// Zero std is normalized at load.
	assert.Equal(t, 1.0, resp["DV_pressure"].Std)
}
