package usecase

import (
	"context"

	"github.com/varshiniml7/predictive-maintenance/internal/application/dto"
	"github.com/varshiniml7/predictive-maintenance/internal/domain/model"
)

// GetBaseline is the use case for reading the loaded baseline statistics.
type GetBaseline struct {
	baseline *model.BaselineTable
}

// NewGetBaseline creates a new GetBaseline use case.
func NewGetBaseline(baseline *model.BaselineTable) *GetBaseline {
	return &GetBaseline{baseline: baseline}
}

// Execute returns the baseline exactly as it was loaded.
func (uc *GetBaseline) Execute(_ context.Context) dto.BaselineResponse {
	return dto.FromBaseline(uc.baseline)
}
