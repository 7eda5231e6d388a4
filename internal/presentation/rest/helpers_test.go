package rest_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/varshiniml7/predictive-maintenance/internal/application/usecase"
	"github.com/varshiniml7/predictive-maintenance/internal/domain/model"
	"github.com/varshiniml7/predictive-maintenance/internal/domain/port"
	"github.com/varshiniml7/predictive-maintenance/internal/domain/service"
	"github.com/varshiniml7/predictive-maintenance/internal/presentation/rest"
	"github.com/varshiniml7/predictive-maintenance/pkg/testutil"
)

type failingClassifier struct{}

func (failingClassifier) Name() string   { return "failing" }
func (failingClassifier) Classes() []int { return []int{0, 1} }
func (failingClassifier) PredictProba(context.Context, []float64) ([]float64, error) {
	return nil, errors.New("inference backend unavailable")
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestTable(t *testing.T) *model.BaselineTable {
	t.Helper()
	table, err := model.NewBaselineTable(testutil.ReferenceFeatures, map[string]model.FeatureStatistics{
		"TP2":             {Mean: 1.37, Std: 3.25, Min: -0.03, Max: 10.68},
		"TP3":             {Mean: 8.98, Std: 0.64, Min: 0.73, Max: 10.30},
		"H1":              {Mean: 7.57, Std: 3.33, Min: -0.04, Max: 10.29},
		"Oil_temperature": {Mean: 62.64, Std: 6.52, Min: 15.4, Max: 89.05},
		"DV_pressure":     {Mean: 0.056, Std: 0.38, Min: -0.03, Max: 9.84},
	})
	require.NoError(t, err)
	return table
}

func newTestRouter(t *testing.T, clf port.Classifier) http.Handler {
	t.Helper()
	logger := testLogger()
	table := newTestTable(t)

	scorer, err := service.NewRiskScorer(service.DefaultScoringParams())
	require.NoError(t, err)

	adapter := service.NewClassifierAdapter(clf, service.AdapterConfig{
		FeatureOrder:  table.Features(),
		PositiveClass: 1,
	}, logger)

	return rest.NewRouter(rest.RouterConfig{
		Prediction: rest.NewPredictionHandler(
			usecase.NewAssessRecord(scorer, table, adapter, nil, nil, logger),
			usecase.NewGetBaseline(table),
			logger,
		),
		Health:         rest.NewHealthHandler(table, adapter, logger),
		Logger:         logger,
		AllowedOrigins: []string{"*"},
		Metrics: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("# metrics\n"))
		}),
	})
}
