package testutil

// ReferenceFeatures is the canonical feature order used across tests.
var ReferenceFeatures = []string{"TP2", "TP3", "H1", "Oil_temperature", "DV_pressure"}

// ReferenceStatsJSON is a baseline statistics document for ReferenceFeatures.
const ReferenceStatsJSON = `{
    "TP2": {"mean": 1.37, "std": 3.25, "min": -0.03, "max": 10.68},
    "TP3": {"mean": 8.98, "std": 0.64, "min": 0.73, "max": 10.30},
    "H1": {"mean": 7.57, "std": 3.33, "min": -0.04, "max": 10.29},
    "Oil_temperature": {"mean": 62.64, "std": 6.52, "min": 15.4, "max": 89.05},
    "DV_pressure": {"mean": 0.056, "std": 0.38, "min": -0.03, "max": 9.84}
}`

// MeanRecord returns a request payload with every feature at its baseline mean.
func MeanRecord() map[string]any {
	return map[string]any{
		"TP2":             1.37,
		"TP3":             8.98,
		"H1":              7.57,
		"Oil_temperature": 62.64,
		"DV_pressure":     0.056,
	}
}

// TrainingCSV is a small sensor export with a timestamp column and one empty cell.
const TrainingCSV = `timestamp,TP2,TP3,H1,Oil_temperature,DV_pressure
2020-02-01 00:00:00,0.0,9.0,8.0,60.0,0.0
2020-02-01 00:00:10,2.0,9.0,8.0,62.0,0.0
2020-02-01 00:00:20,4.0,9.0,,64.0,0.0
`
