package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/varshiniml7/predictive-maintenance/internal/application/dto"
	"github.com/varshiniml7/predictive-maintenance/internal/domain/model"
	"github.com/varshiniml7/predictive-maintenance/internal/domain/port"
	"github.com/varshiniml7/predictive-maintenance/internal/domain/service"
	"github.com/varshiniml7/predictive-maintenance/pkg/observability"
)

// ErrInternal marks failures that are not the caller's fault. Its text is the
// only detail presentation layers expose.
var ErrInternal = errors.New("internal error")

var tracer = otel.Tracer("github.com/varshiniml7/predictive-maintenance/internal/application/usecase")

// AssessRecord is the use case for scoring a single sensor record.
type AssessRecord struct {
	scorer    *service.RiskScorer
	baseline  *model.BaselineTable
	adapter   *service.ClassifierAdapter
	publisher port.EventPublisher
	metrics   port.AssessmentMetrics
	logger    *slog.Logger
}

// NewAssessRecord creates a new AssessRecord use case. The publisher and
// metrics may be nil.
func NewAssessRecord(
	scorer *service.RiskScorer,
	baseline *model.BaselineTable,
	adapter *service.ClassifierAdapter,
	publisher port.EventPublisher,
	metrics port.AssessmentMetrics,
	logger *slog.Logger,
) *AssessRecord {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AssessRecord{
		scorer:    scorer,
		baseline:  baseline,
		adapter:   adapter,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}
}

// Execute validates the payload, scores it and publishes an event for
// abnormal assessments. Rejected payloads are reported through the result's
// Outcome; the returned error is always wrapped around ErrInternal.
func (uc *AssessRecord) Execute(ctx context.Context, req dto.AssessRequest) (dto.AssessResult, error) {
	ctx, span := tracer.Start(ctx, "AssessRecord")
	defer span.End()

	start := time.Now()

	// 1. Validate the payload against the configured features.
	if req.Payload == nil {
		uc.metrics.ValidationFailed()
		span.SetAttributes(attribute.String("outcome", dto.OutcomeValidationFailed.String()))
		return dto.ValidationFailure([]string{dto.WarningInvalidBody}, nil), nil
	}
	raw, issues := model.ParseRawRecord(req.Payload, uc.baseline.Features())
	if !issues.Empty() {
		warnings := dto.WarningsFromIssues(issues)
		uc.metrics.ValidationFailed()
		uc.logger.InfoContext(ctx, "record rejected", "warnings", warnings)
		span.SetAttributes(attribute.String("outcome", dto.OutcomeValidationFailed.String()))
		return dto.ValidationFailure(warnings, req.Payload), nil
	}

	// 2. Score under a guard that turns panics into internal errors.
	assessment, err := uc.score(ctx, raw)
	if err != nil {
		uc.metrics.InternalError()
		uc.logger.ErrorContext(ctx, "assessment failed", "error", err, observability.TraceAttr(ctx))
		span.RecordError(err)
		span.SetStatus(codes.Error, "assessment failed")
		return dto.AssessResult{}, fmt.Errorf("%w: %w", ErrInternal, err)
	}

	uc.metrics.AssessmentCompleted(assessment, time.Since(start))
	span.SetAttributes(
		attribute.String("assessment.id", assessment.ID().String()),
		attribute.String("assessment.status", assessment.Status().String()),
		attribute.Float64("assessment.probability", assessment.Probability()),
	)

	// 3. Publish domain events; failures never change the response.
	uc.publish(ctx, assessment)

	return dto.FromAssessment(assessment, uc.adapter.Describe()), nil
}

func (uc *AssessRecord) score(ctx context.Context, raw model.RawRecord) (assessment *model.RiskAssessment, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during scoring: %v", r)
		}
	}()
	return uc.scorer.Score(ctx, raw, uc.baseline, uc.adapter)
}

func (uc *AssessRecord) publish(ctx context.Context, assessment *model.RiskAssessment) {
	evts := assessment.ClearEvents()
	if len(evts) == 0 || uc.publisher == nil {
		return
	}
	if err := uc.publisher.Publish(ctx, evts...); err != nil {
		uc.metrics.EventPublishFailed()
		uc.logger.WarnContext(ctx, "failed to publish assessment events",
			"assessment_id", assessment.ID().String(),
			"error", err,
			observability.TraceAttr(ctx),
		)
	}
}

type noopMetrics struct{}

func (noopMetrics) AssessmentCompleted(*model.RiskAssessment, time.Duration) {}
func (noopMetrics) ValidationFailed()                                        {}
func (noopMetrics) InternalError()                                           {}
func (noopMetrics) EventPublishFailed()                                      {}
