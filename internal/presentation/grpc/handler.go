package grpc

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/varshiniml7/predictive-maintenance/internal/application/dto"
	"github.com/varshiniml7/predictive-maintenance/internal/application/usecase"
)

// Compile-time assertion that RiskServiceHandler implements RiskServiceServer.
var _ RiskServiceServer = (*RiskServiceHandler)(nil)

// RiskServiceHandler implements the gRPC RiskServiceServer interface.
type RiskServiceHandler struct {
	UnimplementedRiskServiceServer
	assessRecord *usecase.AssessRecord
	getBaseline  *usecase.GetBaseline
	logger       *slog.Logger
}

// NewRiskServiceHandler creates a new gRPC handler.
func NewRiskServiceHandler(
	assessRecord *usecase.AssessRecord,
	getBaseline *usecase.GetBaseline,
	logger *slog.Logger,
) *RiskServiceHandler {
	return &RiskServiceHandler{
		assessRecord: assessRecord,
		getBaseline:  getBaseline,
		logger:       logger,
	}
}

// Assess scores one sensor record.
func (h *RiskServiceHandler) Assess(ctx context.Context, req *AssessRequest) (*AssessResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	result, err := h.assessRecord.Execute(ctx, dto.AssessRequest{Payload: req.Features})
	if err != nil {
		if !errors.Is(err, usecase.ErrInternal) {
			h.logger.ErrorContext(ctx, "unexpected assessment error", slog.String("error", err.Error()))
		}
		return nil, status.Error(codes.Internal, "internal error")
	}

	if result.Outcome == dto.OutcomeValidationFailed {
		return nil, status.Errorf(codes.InvalidArgument, "invalid record: %s", strings.Join(result.Response.Warnings, ", "))
	}

	raw, _ := result.Response.RawInputs.(map[string]float64)
	return &AssessResponse{
		AssessmentID:      result.AssessmentID.String(),
		Status:            result.Response.Status,
		Warnings:          result.Response.Warnings,
		ProbWithin2Months: result.Response.ProbWithin2Months,
		RawInputs:         raw,
		ZScores:           result.ZScores,
		MaxAbsZ:           result.MaxAbsZ,
		ClassifierUsed:    result.ClassifierUsed,
		Classifier:        result.Classifier,
	}, nil
}

// GetBaseline returns the loaded baseline statistics.
func (h *RiskServiceHandler) GetBaseline(ctx context.Context, _ *GetBaselineRequest) (*GetBaselineResponse, error) {
	baseline := h.getBaseline.Execute(ctx)

	out := make(map[string]StatisticsMsg, len(baseline))
	for name, s := range baseline {
		out[name] = StatisticsMsg{Mean: s.Mean, Std: s.Std, Min: s.Min, Max: s.Max}
	}
	return &GetBaselineResponse{Features: out}, nil
}
