package rest

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"

	"github.com/varshiniml7/predictive-maintenance/internal/application/dto"
	"github.com/varshiniml7/predictive-maintenance/internal/application/usecase"
)

const maxBodyBytes = 1 << 20

var tracer = otel.Tracer("github.com/varshiniml7/predictive-maintenance/internal/presentation/rest")

// PredictionHandler serves the scoring and baseline endpoints.
type PredictionHandler struct {
	assessRecord *usecase.AssessRecord
	getBaseline  *usecase.GetBaseline
	logger       *slog.Logger
}

// NewPredictionHandler creates a new prediction handler.
func NewPredictionHandler(assessRecord *usecase.AssessRecord, getBaseline *usecase.GetBaseline, logger *slog.Logger) *PredictionHandler {
	return &PredictionHandler{
		assessRecord: assessRecord,
		getBaseline:  getBaseline,
		logger:       logger,
	}
}

// Predict scores one sensor record. Rejected payloads get a 400 carrying the
// warnings; internal failures get a 500 with only the status.
func (h *PredictionHandler) Predict(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "POST /predict")
	defer span.End()

	result, err := h.assessRecord.Execute(ctx, dto.AssessRequest{Payload: decodeObject(r)})
	if err != nil {
		if !errors.Is(err, usecase.ErrInternal) {
			h.logger.ErrorContext(ctx, "unexpected prediction error", "error", err)
		}
		writeJSON(w, http.StatusInternalServerError, dto.InternalFailure())
		return
	}

	if result.Outcome == dto.OutcomeValidationFailed {
		writeJSON(w, http.StatusBadRequest, result.Response)
		return
	}

	h.logger.DebugContext(ctx, "record scored",
		"assessment_id", result.AssessmentID.String(),
		"status", result.Response.Status,
		"max_abs_z", result.MaxAbsZ,
		"classifier", result.Classifier,
	)
	writeJSON(w, http.StatusOK, result.Response)
}

// Stats returns the baseline statistics exactly as loaded.
func (h *PredictionHandler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.getBaseline.Execute(r.Context()))
}

// decodeObject reads the body as a JSON object. Anything else yields nil.
// Numbers are kept as json.Number so that echoed inputs are not reformatted.
func decodeObject(r *http.Request) map[string]any {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		return nil
	}
	if dec.More() {
		return nil
	}
	return payload
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
