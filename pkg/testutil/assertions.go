package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// AssertProbability checks that p lies in [0, 1] and is within delta of want.
func AssertProbability(t *testing.T, want, p, delta float64) {
	t.Helper()
	assert.GreaterOrEqual(t, p, 0.0)
	assert.LessOrEqual(t, p, 1.0)
	assert.InDelta(t, want, p, delta)
}
