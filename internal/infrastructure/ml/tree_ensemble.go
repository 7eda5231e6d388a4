package ml

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

// leafMarker is the child index used by exported trees for leaf nodes.
const leafMarker = -1

// treeDocument is one exported decision tree in parallel-array form.
type treeDocument struct {
	Feature   []int       `json:"feature"`
	Threshold []float64   `json:"threshold"`
	Left      []int       `json:"left"`
	Right     []int       `json:"right"`
	Value     [][]float64 `json:"value"`
}

type tree struct {
	feature   []int
	threshold []float64
	left      []int
	right     []int
	// dist holds the normalized class distribution of each node.
	dist [][]float64
}

func newTree(doc treeDocument, numClasses, numFeatures int) (*tree, error) {
	n := len(doc.Feature)
	if n == 0 {
		return nil, errors.New("tree has no nodes")
	}
	if len(doc.Threshold) != n || len(doc.Left) != n || len(doc.Right) != n || len(doc.Value) != n {
		return nil, errors.New("node arrays have different lengths")
	}

	t := &tree{
		feature:   doc.Feature,
		threshold: doc.Threshold,
		left:      doc.Left,
		right:     doc.Right,
		dist:      make([][]float64, n),
	}

	for i := 0; i < n; i++ {
		if len(doc.Value[i]) != numClasses {
			return nil, fmt.Errorf("node %d: expected %d class values, got %d", i, numClasses, len(doc.Value[i]))
		}
		if t.isLeaf(i) {
			if t.right[i] != leafMarker {
				return nil, fmt.Errorf("node %d: leaf with a right child", i)
			}
			dist, err := normalize(doc.Value[i])
			if err != nil {
				return nil, fmt.Errorf("node %d: %w", i, err)
			}
			t.dist[i] = dist
			continue
		}
		// Children must point forward so that traversal terminates.
		if t.left[i] <= i || t.left[i] >= n || t.right[i] <= i || t.right[i] >= n {
			return nil, fmt.Errorf("node %d: child index out of range", i)
		}
		if t.feature[i] < 0 || t.feature[i] >= numFeatures {
			return nil, fmt.Errorf("node %d: feature index %d out of range", i, t.feature[i])
		}
	}
	return t, nil
}

func (t *tree) isLeaf(i int) bool {
	return t.left[i] == leafMarker
}

func (t *tree) predict(x []float64) []float64 {
	i := 0
	for !t.isLeaf(i) {
		if x[t.feature[i]] <= t.threshold[i] {
			i = t.left[i]
		} else {
			i = t.right[i]
		}
	}
	return t.dist[i]
}

func normalize(values []float64) ([]float64, error) {
	total := 0.0
	for _, v := range values {
		if v < 0 {
			return nil, errors.New("negative class weight")
		}
		total += v
	}
	if total == 0 {
		return nil, errors.New("leaf has no samples")
	}
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v / total
	}
	return out, nil
}

// TreeEnsemble is a random forest exported from a training pipeline. It
// averages the normalized leaf distributions of its trees. Instances are
// immutable and safe for concurrent use.
type TreeEnsemble struct {
	name         string
	classes      []int
	featureNames []string
	trees        []*tree
	nFeatures    int
}

func newTreeEnsemble(name string, doc modelDocument) (*TreeEnsemble, error) {
	if len(doc.Classes) == 0 {
		return nil, errors.New("model has no classes")
	}
	if len(doc.Trees) == 0 {
		return nil, errors.New("model has no trees")
	}
	numFeatures := doc.NFeatures
	if numFeatures == 0 {
		numFeatures = len(doc.FeatureNames)
	}
	if numFeatures == 0 {
		return nil, errors.New("model declares no features")
	}
	if len(doc.FeatureNames) > 0 && len(doc.FeatureNames) != numFeatures {
		return nil, fmt.Errorf("model declares %d features but names %d", numFeatures, len(doc.FeatureNames))
	}

	e := &TreeEnsemble{
		name:         name,
		classes:      slices.Clone(doc.Classes),
		featureNames: slices.Clone(doc.FeatureNames),
		trees:        make([]*tree, 0, len(doc.Trees)),
		nFeatures:    numFeatures,
	}
	if len(e.featureNames) == 0 {
		e.featureNames = nil
	}
	for i, td := range doc.Trees {
		t, err := newTree(td, len(doc.Classes), numFeatures)
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		e.trees = append(e.trees, t)
	}
	return e, nil
}

func (e *TreeEnsemble) Name() string           { return e.name }
func (e *TreeEnsemble) Classes() []int         { return slices.Clone(e.classes) }
func (e *TreeEnsemble) FeatureNames() []string { return slices.Clone(e.featureNames) }
func (e *TreeEnsemble) ConcurrencySafe() bool  { return true }

// PredictProba returns the averaged class distribution for one sample.
func (e *TreeEnsemble) PredictProba(_ context.Context, features []float64) ([]float64, error) {
	if len(features) != e.nFeatures {
		return nil, fmt.Errorf("expected %d features, got %d", e.nFeatures, len(features))
	}
	out := make([]float64, len(e.classes))
	for _, t := range e.trees {
		for i, p := range t.predict(features) {
			out[i] += p
		}
	}
	n := float64(len(e.trees))
	for i := range out {
		out[i] /= n
	}
	return out, nil
}

// Predict returns the class with the highest averaged probability.
func (e *TreeEnsemble) Predict(ctx context.Context, features []float64) (int, error) {
	proba, err := e.PredictProba(ctx, features)
	if err != nil {
		return 0, err
	}
	best := 0
	for i, p := range proba {
		if p > proba[best] {
			best = i
		}
	}
	return e.classes[best], nil
}
