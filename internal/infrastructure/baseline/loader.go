package baseline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/varshiniml7/predictive-maintenance/internal/domain/model"
	"github.com/varshiniml7/predictive-maintenance/internal/domain/port"
)

// Load reads the statistics document from src and builds the baseline table
// for the configured features. Any problem is reported as a
// *ConfigurationError; no defaults are ever synthesized.
func Load(ctx context.Context, src port.BaselineSource, features []string, logger *slog.Logger) (*model.BaselineTable, error) {
	if src == nil {
		return nil, &ConfigurationError{Source: "none", Err: fmt.Errorf("no baseline source configured")}
	}
	if logger == nil {
		logger = slog.Default()
	}

	doc, err := src.Fetch(ctx)
	if err != nil {
		return nil, &ConfigurationError{Source: src.Name(), Err: err}
	}

	stats := make(map[string]model.FeatureStatistics, len(features))
	for _, name := range features {
		entry, ok := doc[name]
		if !ok {
			return nil, &ConfigurationError{Source: src.Name(), Err: fmt.Errorf("%w: %s", model.ErrFeatureMissing, name)}
		}
		s, err := toStatistics(entry)
		if err != nil {
			return nil, &ConfigurationError{Source: src.Name(), Err: fmt.Errorf("feature %s: %w", name, err)}
		}
		if s.Std == 0 {
			logger.Warn("zero standard deviation replaced with 1.0", "feature", name)
		}
		stats[name] = s
	}

	table, err := model.NewBaselineTable(features, stats)
	if err != nil {
		return nil, &ConfigurationError{Source: src.Name(), Err: err}
	}

	logger.Info("baseline loaded", "source", src.Name(), "features", table.Features())
	return table, nil
}

func toStatistics(e port.StatisticsEntry) (model.FeatureStatistics, error) {
	fields := []struct {
		v    *float64
		name string
	}{
		{e.Mean, "mean"}, {e.Std, "std"}, {e.Min, "min"}, {e.Max, "max"},
	}
	for _, f := range fields {
		if f.v == nil {
			return model.FeatureStatistics{}, fmt.Errorf("missing field %q", f.name)
		}
	}
	return model.FeatureStatistics{Mean: *e.Mean, Std: *e.Std, Min: *e.Min, Max: *e.Max}, nil
}
