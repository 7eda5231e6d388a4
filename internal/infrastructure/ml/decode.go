package ml

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/varshiniml7/predictive-maintenance/internal/domain/port"
)

// Model kinds understood by Decode.
const (
	KindRandomForest = "random_forest"
	KindHardVoting   = "hard_voting"
)

// modelDocument is the JSON export format of a trained model.
type modelDocument struct {
	Kind         string          `json:"kind"`
	Classes      []int           `json:"classes"`
	FeatureNames []string        `json:"feature_names"`
	Trees        []treeDocument  `json:"trees"`
	Estimators   []modelDocument `json:"estimators"`
	NFeatures    int             `json:"n_features"`
}

// Decode parses an exported model. When the model names its features they
// must match featureOrder exactly; a declared feature count must match its
// length.
func Decode(name string, data []byte, featureOrder []string) (port.Classifier, error) {
	var doc modelDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding model %s: %w", name, err)
	}

	if err := checkFeatures(doc, featureOrder); err != nil {
		return nil, fmt.Errorf("model %s %w", name, err)
	}
	for i, est := range doc.Estimators {
		if err := checkFeatures(est, featureOrder); err != nil {
			return nil, fmt.Errorf("model %s estimator %d %w", name, i, err)
		}
	}
	if len(doc.FeatureNames) == 0 {
		doc.FeatureNames = featureOrder
	}

	switch doc.Kind {
	case "", KindRandomForest:
		m, err := newTreeEnsemble(name, doc)
		if err != nil {
			return nil, fmt.Errorf("model %s: %w", name, err)
		}
		return m, nil
	case KindHardVoting:
		m, err := newHardVotingEnsemble(name, doc)
		if err != nil {
			return nil, fmt.Errorf("model %s: %w", name, err)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("model %s: unsupported kind %q", name, doc.Kind)
	}
}

func checkFeatures(doc modelDocument, featureOrder []string) error {
	if len(doc.FeatureNames) > 0 && !slices.Equal(doc.FeatureNames, featureOrder) {
		return fmt.Errorf("was trained on features %v, configured %v", doc.FeatureNames, featureOrder)
	}
	if doc.NFeatures != 0 && doc.NFeatures != len(featureOrder) {
		return fmt.Errorf("was trained on %d features, configured %d", doc.NFeatures, len(featureOrder))
	}
	return nil
}
