package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RawRecord maps feature names to the values supplied by a caller.
type RawRecord map[string]float64

// ClampedRecord holds values constrained to their baseline range.
type ClampedRecord map[string]float64

// ZScoreVector holds the signed deviation of every feature from its mean.
type ZScoreVector map[string]float64

// RecordIssues lists the reasons a payload cannot be scored.
type RecordIssues struct {
	Missing []string
	Invalid []string
}

// Empty reports whether the payload had no issues.
func (i RecordIssues) Empty() bool {
	return len(i.Missing) == 0 && len(i.Invalid) == 0
}

// ParseRawRecord extracts every required feature from a decoded JSON object.
// Values may be JSON numbers or numeric strings; anything else, including
// non-finite numbers, is reported as invalid. Issues are listed in feature order.
func ParseRawRecord(payload map[string]any, features []string) (RawRecord, RecordIssues) {
	var issues RecordIssues
	record := make(RawRecord, len(features))

	for _, name := range features {
		v, ok := payload[name]
		if !ok {
			issues.Missing = append(issues.Missing, name)
			continue
		}
		f, err := toFloat(v)
		if err != nil {
			issues.Invalid = append(issues.Invalid, name)
			continue
		}
		record[name] = f
	}

	if !issues.Empty() {
		return nil, issues
	}
	return record, issues
}

func toFloat(v any) (float64, error) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case int32:
		f = float64(x)
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return 0, err
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, err
		}
		f = parsed
	default:
		return 0, fmt.Errorf("unsupported value type %T", v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("value %v is not finite", f)
	}
	return f, nil
}

// Clone returns an independent copy of the record.
func (r RawRecord) Clone() RawRecord {
	out := make(RawRecord, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Vector lays the clamped values out in the given order.
func (c ClampedRecord) Vector(order []string) ([]float64, error) {
	out := make([]float64, len(order))
	for i, name := range order {
		v, ok := c[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrFeatureMissing, name)
		}
		out[i] = v
	}
	return out, nil
}

// MaxAbs returns the largest absolute z-score, or 0 for an empty vector.
func (z ZScoreVector) MaxAbs() float64 {
	maxAbs := 0.0
	for _, v := range z {
		if a := math.Abs(v); a > maxAbs {
			maxAbs = a
		}
	}
	return maxAbs
}
