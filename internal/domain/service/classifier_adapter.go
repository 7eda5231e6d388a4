package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/varshiniml7/predictive-maintenance/internal/domain/model"
	"github.com/varshiniml7/predictive-maintenance/internal/domain/port"
	"github.com/varshiniml7/predictive-maintenance/internal/domain/valueobject"
)

// Reasons reported by an inactive adapter.
const (
	ReasonNoClassifier  = "no classifier configured"
	ReasonNoProbability = "classifier has no probability output"
)

// AdapterConfig controls how feature vectors are presented to the classifier.
type AdapterConfig struct {
	FeatureOrder  []string
	PositiveClass int
}

// ClassifierAdapter turns an optional pretrained classifier into a
// ProbabilityEstimate for the positive class. Capability is resolved once at
// construction.
type ClassifierAdapter struct {
	proba        port.ProbabilityClassifier
	mu           *sync.Mutex
	name         string
	reason       string
	featureOrder []string
	positiveIdx  int
	numClasses   int
}

// NewClassifierAdapter inspects the classifier and logs whether it will
// contribute to scoring. A nil classifier yields an inactive adapter.
func NewClassifierAdapter(clf port.Classifier, cfg AdapterConfig, logger *slog.Logger) *ClassifierAdapter {
	if logger == nil {
		logger = slog.Default()
	}

	a := &ClassifierAdapter{
		featureOrder: slices.Clone(cfg.FeatureOrder),
		positiveIdx:  -1,
	}

	switch {
	case clf == nil:
		a.reason = ReasonNoClassifier
	default:
		a.name = clf.Name()
		proba, ok := clf.(port.ProbabilityClassifier)
		if !ok {
			a.reason = ReasonNoProbability
			break
		}
		classes := proba.Classes()
		idx := slices.Index(classes, cfg.PositiveClass)
		if idx < 0 {
			a.reason = fmt.Sprintf("positive class %d not in model classes %v", cfg.PositiveClass, classes)
			break
		}
		a.proba = proba
		a.positiveIdx = idx
		a.numClasses = len(classes)
		if safe, ok := clf.(port.ConcurrencySafe); !ok || !safe.ConcurrencySafe() {
			a.mu = &sync.Mutex{}
		}
	}

	if a.Active() {
		logger.Info("classifier active",
			"classifier", a.name,
			"positive_class", cfg.PositiveClass,
			"serialized", a.mu != nil,
		)
	} else {
		logger.Warn("classifier unavailable, scoring from statistics only",
			"classifier", a.name,
			"reason", a.reason,
		)
	}

	return a
}

// Active reports whether the adapter produces probabilities.
func (a *ClassifierAdapter) Active() bool {
	return a != nil && a.proba != nil
}

// Describe returns the classifier name when active, otherwise the reason it is not.
func (a *ClassifierAdapter) Describe() string {
	if a == nil {
		return ReasonNoClassifier
	}
	if a.Active() {
		return a.name
	}
	return a.reason
}

// Estimate asks the classifier for the positive-class probability of the
// clamped record. Inactive adapters return an Unavailable estimate; inference
// failures are returned as errors.
func (a *ClassifierAdapter) Estimate(ctx context.Context, clamped model.ClampedRecord) (valueobject.ProbabilityEstimate, error) {
	if !a.Active() {
		return valueobject.Unavailable(a.Describe()), nil
	}

	vector, err := clamped.Vector(a.featureOrder)
	if err != nil {
		return valueobject.ProbabilityEstimate{}, fmt.Errorf("building feature vector: %w", err)
	}

	if a.mu != nil {
		a.mu.Lock()
		defer a.mu.Unlock()
	}

	probs, err := a.proba.PredictProba(ctx, vector)
	if err != nil {
		return valueobject.ProbabilityEstimate{}, fmt.Errorf("classifier %s: %w", a.name, err)
	}
	if len(probs) != a.numClasses {
		return valueobject.ProbabilityEstimate{}, fmt.Errorf("classifier %s: expected %d probabilities, got %d", a.name, a.numClasses, len(probs))
	}

	estimate, err := valueobject.Available(probs[a.positiveIdx])
	if err != nil {
		return valueobject.ProbabilityEstimate{}, fmt.Errorf("classifier %s: %w", a.name, err)
	}
	return estimate, nil
}
