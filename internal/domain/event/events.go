package event

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/varshiniml7/predictive-maintenance/pkg/events"
)

const (
	// EventTypeAbnormalRiskDetected is emitted when an assessment classifies the asset as Abnormal.
	EventTypeAbnormalRiskDetected = "maintenance.risk.abnormal_detected"

	// AggregateTypeRiskAssessment names the aggregate producing risk events.
	AggregateTypeRiskAssessment = "RiskAssessment"
)

// AbnormalRiskDetected is published when a sensor record deviates from its
// baseline by more than the configured z-score threshold, so that maintenance
// crews can be alerted.
type AbnormalRiskDetected struct {
	events.BaseEvent `json:"-"`

	DetectedAt        time.Time          `json:"detected_at"`
	ZScores           map[string]float64 `json:"z_scores"`
	OutOfRange        []string           `json:"out_of_range"`
	MaxAbsZ           float64            `json:"max_abs_z"`
	ProbWithin2Months float64            `json:"prob_within_2months"`
	AssessmentID      uuid.UUID          `json:"assessment_id"`
}

// NewAbnormalRiskDetected builds the event and serializes its payload.
func NewAbnormalRiskDetected(
	assessmentID uuid.UUID,
	zScores map[string]float64,
	outOfRange []string,
	maxAbsZ float64,
	probability float64,
	detectedAt time.Time,
) AbnormalRiskDetected {
	e := AbnormalRiskDetected{
		AssessmentID:      assessmentID,
		ZScores:           zScores,
		OutOfRange:        outOfRange,
		MaxAbsZ:           maxAbsZ,
		ProbWithin2Months: probability,
		DetectedAt:        detectedAt,
	}
	payload, _ := json.Marshal(e)
	e.BaseEvent = events.NewBaseEvent(EventTypeAbnormalRiskDetected, assessmentID, AggregateTypeRiskAssessment, payload)
	return e
}
