package dto

import "github.com/varshiniml7/predictive-maintenance/internal/domain/model"

// StatisticsDTO is the wire form of one feature's learned statistics.
type StatisticsDTO struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

// BaselineResponse maps feature names to their statistics.
type BaselineResponse map[string]StatisticsDTO

// FromBaseline maps the loaded baseline table to the response DTO.
func FromBaseline(t *model.BaselineTable) BaselineResponse {
	out := make(BaselineResponse, t.Len())
	for name, s := range t.Snapshot() {
		out[name] = StatisticsDTO{Mean: s.Mean, Std: s.Std, Min: s.Min, Max: s.Max}
	}
	return out
}
