package ml

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

// HardVotingEnsemble predicts the majority label of its members. It has no
// probability output, so the scorer runs from statistics alone when it is
// the configured model.
type HardVotingEnsemble struct {
	name    string
	classes []int
	members []*TreeEnsemble
}

func newHardVotingEnsemble(name string, doc modelDocument) (*HardVotingEnsemble, error) {
	if len(doc.Estimators) == 0 {
		return nil, errors.New("voting ensemble has no estimators")
	}
	v := &HardVotingEnsemble{name: name}
	for i, est := range doc.Estimators {
		if est.FeatureNames == nil {
			est.FeatureNames = doc.FeatureNames
		}
		m, err := newTreeEnsemble(fmt.Sprintf("%s[%d]", name, i), est)
		if err != nil {
			return nil, fmt.Errorf("estimator %d: %w", i, err)
		}
		if v.classes == nil {
			v.classes = m.Classes()
		} else if !slices.Equal(v.classes, m.classes) {
			return nil, fmt.Errorf("estimator %d: classes %v differ from %v", i, m.classes, v.classes)
		}
		v.members = append(v.members, m)
	}
	return v, nil
}

func (v *HardVotingEnsemble) Name() string          { return v.name }
func (v *HardVotingEnsemble) ConcurrencySafe() bool { return true }

// Predict returns the label most members agree on. Ties go to the label
// listed first in the model classes.
func (v *HardVotingEnsemble) Predict(ctx context.Context, features []float64) (int, error) {
	votes := make(map[int]int, len(v.classes))
	for _, m := range v.members {
		label, err := m.Predict(ctx, features)
		if err != nil {
			return 0, err
		}
		votes[label]++
	}
	best := v.classes[0]
	for _, c := range v.classes[1:] {
		if votes[c] > votes[best] {
			best = c
		}
	}
	return best, nil
}
