package model

import (
	"errors"
	"fmt"
)

// ErrFeatureMissing is returned when a required feature is absent.
var ErrFeatureMissing = errors.New("required feature missing")

// BaselineTable maps every monitored feature to its learned statistics and
// fixes the canonical feature order. It is immutable after construction and
// safe for concurrent reads.
type BaselineTable struct {
	stats    map[string]FeatureStatistics
	features []string
}

// NewBaselineTable builds a table for the given canonical feature order. Every
// feature must have statistics; statistics for unlisted features are ignored.
func NewBaselineTable(features []string, stats map[string]FeatureStatistics) (*BaselineTable, error) {
	if len(features) == 0 {
		return nil, errors.New("at least one feature is required")
	}

	seen := make(map[string]struct{}, len(features))
	table := &BaselineTable{
		stats:    make(map[string]FeatureStatistics, len(features)),
		features: make([]string, 0, len(features)),
	}

	for _, name := range features {
		if name == "" {
			return nil, errors.New("feature name must not be empty")
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("duplicate feature %q", name)
		}
		seen[name] = struct{}{}

		s, ok := stats[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrFeatureMissing, name)
		}
		normalized, err := NewFeatureStatistics(s.Mean, s.Std, s.Min, s.Max)
		if err != nil {
			return nil, fmt.Errorf("feature %s: %w", name, err)
		}

		table.features = append(table.features, name)
		table.stats[name] = normalized
	}

	return table, nil
}

// Features returns the canonical feature order.
func (t *BaselineTable) Features() []string {
	out := make([]string, len(t.features))
	copy(out, t.features)
	return out
}

// Stats returns the statistics of a feature.
func (t *BaselineTable) Stats(feature string) (FeatureStatistics, bool) {
	s, ok := t.stats[feature]
	return s, ok
}

// Len returns the number of features.
func (t *BaselineTable) Len() int {
	return len(t.features)
}

// Snapshot returns a copy of all statistics keyed by feature name.
func (t *BaselineTable) Snapshot() map[string]FeatureStatistics {
	out := make(map[string]FeatureStatistics, len(t.stats))
	for k, v := range t.stats {
		out[k] = v
	}
	return out
}
