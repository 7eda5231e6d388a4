package model_test

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/varshiniml7/predictive-maintenance/internal/domain/event"
	"github.com/varshiniml7/predictive-maintenance/internal/domain/model"
	"github.com/varshiniml7/predictive-maintenance/internal/domain/valueobject"
)

func TestNewRiskAssessment_Normal(t *testing.T) {
	raw := model.RawRecord{"TP2": 1.37}
	z := model.ZScoreVector{"TP2": 0}

	a, err := model.NewRiskAssessment(raw, z, nil, valueobject.StatusNormal,
		valueobject.Unavailable("no classifier configured"), 0.142)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, a.ID())
	assert.False(t, a.AssessedAt().IsZero())
	assert.True(t, a.Status().Equal(valueobject.StatusNormal))
	assert.Equal(t, 0.142, a.Probability())
	assert.Equal(t, 0.0, a.MaxAbsZ())
	assert.NotNil(t, a.OutOfRange())
	assert.Empty(t, a.OutOfRange())
	assert.False(t, a.ClassifierEstimate().IsAvailable())
	assert.Empty(t, a.Events())
}

func TestNewRiskAssessment_AbnormalRecordsEvent(t *testing.T) {
	raw := model.RawRecord{"Oil_temperature": 120}
	z := model.ZScoreVector{"Oil_temperature": 4.05, "TP2": -0.2}

	a, err := model.NewRiskAssessment(raw, z, []string{"Oil_temperature"},
		valueobject.StatusAbnormal, valueobject.Unavailable("none"), 0.96)
	require.NoError(t, err)

	require.Len(t, a.Events(), 1)
	evt := a.Events()[0]
	assert.Equal(t, event.EventTypeAbnormalRiskDetected, evt.EventType())
	assert.Equal(t, event.AggregateTypeRiskAssessment, evt.AggregateType())
	assert.Equal(t, a.ID(), evt.AggregateID())

	var payload map[string]any
	require.NoError(t, json.Unmarshal(evt.Payload(), &payload))
	assert.Equal(t, 4.05, payload["max_abs_z"])
	assert.Equal(t, 0.96, payload["prob_within_2months"])
	assert.Equal(t, []any{"Oil_temperature"}, payload["out_of_range"])
}

func TestNewRiskAssessment_KeepsRawInputsIsolated(t *testing.T) {
	raw := model.RawRecord{"TP2": 50}

	a, err := model.NewRiskAssessment(raw, model.ZScoreVector{}, nil,
		valueobject.StatusNormal, valueobject.Unavailable("none"), 0.1)
	require.NoError(t, err)

	raw["TP2"] = 0
	assert.Equal(t, 50.0, a.RawInputs()["TP2"])
}

func TestNewRiskAssessment_Validation(t *testing.T) {
	tests := []struct {
		name        string
		status      valueobject.Status
		probability float64
		wantErr     string
	}{
		{name: "missing status", status: valueobject.Status{}, probability: 0.5, wantErr: "status is required"},
		{name: "negative probability", status: valueobject.StatusNormal, probability: -0.1, wantErr: "probability must be within"},
		{name: "probability above one", status: valueobject.StatusNormal, probability: 1.01, wantErr: "probability must be within"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := model.NewRiskAssessment(model.RawRecord{}, model.ZScoreVector{}, nil,
				tt.status, valueobject.Unavailable("none"), tt.probability)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
