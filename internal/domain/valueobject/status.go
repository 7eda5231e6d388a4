package valueobject

// Status is an immutable value object representing the anomaly classification of an asset.
type Status struct {
	value string
}

var (
	StatusNormal   = Status{value: "Normal"}
	StatusAbnormal = Status{value: "Abnormal"}
)

// StatusFromDeviation returns Abnormal when the largest absolute z-score strictly
// exceeds the threshold, Normal otherwise.
func StatusFromDeviation(maxAbsZ, threshold float64) Status {
	if maxAbsZ > threshold {
		return StatusAbnormal
	}
	return StatusNormal
}

// String returns the string representation.
func (s Status) String() string {
	return s.value
}

// IsZero returns true if the Status has not been set.
func (s Status) IsZero() bool {
	return s.value == ""
}

// IsAbnormal returns true if the Status is Abnormal.
func (s Status) IsAbnormal() bool {
	return s.value == "Abnormal"
}

// Equal checks equality with another Status.
func (s Status) Equal(other Status) bool {
	return s.value == other.value
}
