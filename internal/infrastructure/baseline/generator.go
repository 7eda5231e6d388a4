package baseline

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/varshiniml7/predictive-maintenance/internal/domain/model"
)

// accumulator tracks running statistics with Welford's method.
type accumulator struct {
	count int
	mean  float64
	m2    float64
	min   float64
	max   float64
}

func (a *accumulator) add(v float64) {
	a.count++
	if a.count == 1 {
		a.min, a.max = v, v
	} else {
		a.min = math.Min(a.min, v)
		a.max = math.Max(a.max, v)
	}
	delta := v - a.mean
	a.mean += delta / float64(a.count)
	a.m2 += delta * (v - a.mean)
}

// std returns the sample standard deviation, or 1.0 when it is zero or
// undefined.
func (a *accumulator) std() float64 {
	if a.count < 2 {
		return 1.0
	}
	s := math.Sqrt(a.m2 / float64(a.count-1))
	if s == 0 {
		return 1.0
	}
	return s
}

// Generate computes per-feature mean, sample standard deviation, min and max
// from a CSV with a header row. Empty cells are skipped.
func Generate(r io.Reader, features []string) (map[string]model.FeatureStatistics, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}

	idx := make([]int, len(features))
	for i, name := range features {
		col, ok := columns[name]
		if !ok {
			return nil, fmt.Errorf("%w: column %s", model.ErrFeatureMissing, name)
		}
		idx[i] = col
	}

	acc := make([]accumulator, len(features))
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("reading csv line %d: %w", line, err)
		}
		for i, col := range idx {
			cell := strings.TrimSpace(record[col])
			if cell == "" {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d, column %s: %w", line, features[i], err)
			}
			if math.IsNaN(v) {
				continue
			}
			acc[i].add(v)
		}
	}

	stats := make(map[string]model.FeatureStatistics, len(features))
	for i, name := range features {
		if acc[i].count == 0 {
			return nil, fmt.Errorf("column %s has no values", name)
		}
		s, err := model.NewFeatureStatistics(acc[i].mean, acc[i].std(), acc[i].min, acc[i].max)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", name, err)
		}
		stats[name] = s
	}
	return stats, nil
}
