package dto

import (
	"github.com/google/uuid"

	"github.com/varshiniml7/predictive-maintenance/internal/domain/model"
	"github.com/varshiniml7/predictive-maintenance/internal/domain/valueobject"
)

// Outcome tells the presentation layer which response shape to produce.
type Outcome int

const (
	// OutcomeOK means the record was scored.
	OutcomeOK Outcome = iota
	// OutcomeValidationFailed means the payload was rejected before scoring.
	OutcomeValidationFailed
)

// String returns a short label for logs and metrics.
func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeValidationFailed:
		return "validation_failed"
	default:
		return "unknown"
	}
}

// Warning prefixes used on validation failures.
const (
	WarningMissing = "Missing:"
	WarningInvalid = "Invalid:"
	// WarningInvalidBody is reported when the request body is not a JSON object.
	WarningInvalidBody = WarningInvalid + "body"
)

// FailureProbability is reported for records that could not be scored.
const FailureProbability = 1.0

// AssessRequest is the input DTO for the AssessRecord use case. Payload is the
// decoded JSON object; nil means the body was not an object.
type AssessRequest struct {
	Payload map[string]any
}

// PredictionResponse is the body returned for both scored and rejected records.
type PredictionResponse struct {
	RawInputs         any      `json:"raw_inputs"`
	Status            string   `json:"status"`
	Warnings          []string `json:"warnings"`
	ProbWithin2Months float64  `json:"prob_within_2months"`
}

// FailureResponse is the minimal body returned on internal errors.
type FailureResponse struct {
	Status string `json:"status"`
}

// InternalFailure returns the body used for internal errors.
func InternalFailure() FailureResponse {
	return FailureResponse{Status: valueobject.StatusAbnormal.String()}
}

// AssessResult is the output DTO of the AssessRecord use case.
type AssessResult struct {
	ZScores        map[string]float64
	Response       PredictionResponse
	Classifier     string
	Outcome        Outcome
	MaxAbsZ        float64
	AssessmentID   uuid.UUID
	ClassifierUsed bool
}

// ValidationFailure builds the result for a rejected payload. The payload is
// echoed back untouched.
func ValidationFailure(warnings []string, payload map[string]any) AssessResult {
	var echo any
	if payload != nil {
		echo = payload
	}
	return AssessResult{
		Outcome: OutcomeValidationFailed,
		Response: PredictionResponse{
			Status:            valueobject.StatusAbnormal.String(),
			Warnings:          warnings,
			ProbWithin2Months: FailureProbability,
			RawInputs:         echo,
		},
	}
}

// WarningsFromIssues lists missing features first, then invalid ones.
func WarningsFromIssues(issues model.RecordIssues) []string {
	warnings := make([]string, 0, len(issues.Missing)+len(issues.Invalid))
	for _, f := range issues.Missing {
		warnings = append(warnings, WarningMissing+f)
	}
	for _, f := range issues.Invalid {
		warnings = append(warnings, WarningInvalid+f)
	}
	return warnings
}

// FromAssessment maps a scored assessment to the result DTO. Warnings carry the
// names of features whose raw value was outside the learned range.
func FromAssessment(a *model.RiskAssessment, classifier string) AssessResult {
	warnings := make([]string, len(a.OutOfRange()))
	copy(warnings, a.OutOfRange())

	return AssessResult{
		Outcome: OutcomeOK,
		Response: PredictionResponse{
			Status:            a.Status().String(),
			Warnings:          warnings,
			ProbWithin2Months: a.Probability(),
			RawInputs:         map[string]float64(a.RawInputs()),
		},
		AssessmentID:   a.ID(),
		ZScores:        a.ZScores(),
		MaxAbsZ:        a.MaxAbsZ(),
		ClassifierUsed: a.ClassifierEstimate().IsAvailable(),
		Classifier:     classifier,
	}
}
