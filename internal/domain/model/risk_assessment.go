package model

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/varshiniml7/predictive-maintenance/internal/domain/event"
	"github.com/varshiniml7/predictive-maintenance/internal/domain/valueobject"
	"github.com/varshiniml7/predictive-maintenance/pkg/events"
)

// RiskAssessment is the aggregate produced by scoring one sensor record.
type RiskAssessment struct {
	events.EventCollector

	assessedAt  time.Time
	status      valueobject.Status
	estimate    valueobject.ProbabilityEstimate
	rawInputs   RawRecord
	zScores     ZScoreVector
	outOfRange  []string
	probability float64
	maxAbsZ     float64
	id          uuid.UUID
}

// NewRiskAssessment records the outcome of the scoring pipeline. An Abnormal
// status records an AbnormalRiskDetected event.
func NewRiskAssessment(
	rawInputs RawRecord,
	zScores ZScoreVector,
	outOfRange []string,
	status valueobject.Status,
	estimate valueobject.ProbabilityEstimate,
	probability float64,
) (*RiskAssessment, error) {
	if status.IsZero() {
		return nil, fmt.Errorf("status is required")
	}
	if math.IsNaN(probability) || probability < 0 || probability > 1 {
		return nil, fmt.Errorf("probability must be within [0, 1], got %v", probability)
	}
	if outOfRange == nil {
		outOfRange = make([]string, 0)
	}

	a := &RiskAssessment{
		id:          uuid.New(),
		assessedAt:  time.Now().UTC(),
		status:      status,
		estimate:    estimate,
		rawInputs:   rawInputs.Clone(),
		zScores:     zScores,
		outOfRange:  outOfRange,
		probability: probability,
		maxAbsZ:     zScores.MaxAbs(),
	}

	if status.IsAbnormal() {
		a.Record(event.NewAbnormalRiskDetected(
			a.id, a.zScores, a.outOfRange, a.maxAbsZ, a.probability, a.assessedAt,
		))
	}

	return a, nil
}

// --- Accessors ---

func (a *RiskAssessment) ID() uuid.UUID                                       { return a.id }
func (a *RiskAssessment) AssessedAt() time.Time                               { return a.assessedAt }
func (a *RiskAssessment) Status() valueobject.Status                          { return a.status }
func (a *RiskAssessment) ClassifierEstimate() valueobject.ProbabilityEstimate { return a.estimate }
func (a *RiskAssessment) RawInputs() RawRecord                                { return a.rawInputs.Clone() }
func (a *RiskAssessment) ZScores() ZScoreVector                               { return a.zScores }
func (a *RiskAssessment) OutOfRange() []string                                { return a.outOfRange }
func (a *RiskAssessment) Probability() float64                                { return a.probability }
func (a *RiskAssessment) MaxAbsZ() float64                                    { return a.maxAbsZ }
