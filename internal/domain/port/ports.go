package port

import (
	"context"
	"time"

	"github.com/varshiniml7/predictive-maintenance/internal/domain/model"
	"github.com/varshiniml7/predictive-maintenance/pkg/events"
)

// StatisticsEntry is the learned baseline of one feature as stored by a source.
// Fields are pointers so that loaders can tell absent fields from zero values.
type StatisticsEntry struct {
	Mean *float64 `json:"mean"`
	Std  *float64 `json:"std"`
	Min  *float64 `json:"min"`
	Max  *float64 `json:"max"`
}

// StatisticsDocument maps feature names to their stored statistics.
type StatisticsDocument map[string]StatisticsEntry

// BaselineSource defines the port for reading learned feature statistics.
type BaselineSource interface {
	// Name identifies the source in logs and errors.
	Name() string

	// Fetch reads the full statistics document.
	Fetch(ctx context.Context) (StatisticsDocument, error)
}

// Classifier is any pretrained model the service may consult.
type Classifier interface {
	Name() string
}

// ProbabilityClassifier is a classifier that exposes per-class probabilities.
type ProbabilityClassifier interface {
	Classifier

	// Classes returns the class labels in the order PredictProba reports them.
	Classes() []int

	// PredictProba returns one probability per class for a single feature vector.
	PredictProba(ctx context.Context, features []float64) ([]float64, error)
}

// ConcurrencySafe is implemented by classifiers that may be called from
// several goroutines at once.
type ConcurrencySafe interface {
	ConcurrencySafe() bool
}

// EventPublisher defines the port for publishing domain events.
type EventPublisher interface {
	// Publish sends one or more domain events to the messaging infrastructure.
	Publish(ctx context.Context, evts ...events.DomainEvent) error
}

// AssessmentMetrics records the outcome of every scoring request.
type AssessmentMetrics interface {
	AssessmentCompleted(assessment *model.RiskAssessment, elapsed time.Duration)
	ValidationFailed()
	InternalError()
	EventPublishFailed()
}
