package baseline

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/varshiniml7/predictive-maintenance/internal/domain/model"
	"github.com/varshiniml7/predictive-maintenance/internal/domain/port"
)

// ParseDocument decodes a stats document of the form
// {"feature": {"mean": .., "std": .., "min": .., "max": ..}}.
func ParseDocument(data []byte) (port.StatisticsDocument, error) {
	var doc port.StatisticsDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding stats document: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("stats document is empty")
	}
	return doc, nil
}

// EncodeDocument renders statistics as a 4-space indented JSON object with
// features in the given order.
func EncodeDocument(features []string, stats map[string]model.FeatureStatistics) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{\n")
	for i, name := range features {
		s, ok := stats[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", model.ErrFeatureMissing, name)
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		body, err := json.MarshalIndent(s, "    ", "    ")
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", name, err)
		}
		buf.WriteString("    ")
		buf.Write(key)
		buf.WriteString(": ")
		buf.Write(body)
		if i < len(features)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}
