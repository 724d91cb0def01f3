package tone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDBToNormalizedRangeAndMonotonic(t *testing.T) {
	dbs := []float64{-24, -12, -1, 0, 1, 12, 24}
	prev := -1.0
	for _, db := range dbs {
		n := DBToNormalized(db, 24)
		assert.GreaterOrEqual(t, n, 0.0)
		assert.LessOrEqual(t, n, 1.0)
		assert.Greater(t, n, prev)
		prev = n
	}
	assert.InDelta(t, 0.5, DBToNormalized(0, 24), 1e-9)
}

func TestDBToNormalizedClampsOutOfRange(t *testing.T) {
	assert.InDelta(t, 1.0, DBToNormalized(999, 24), 1e-9)
	assert.InDelta(t, 0.0, DBToNormalized(-999, 24), 1e-9)
}

func TestHzToNormalizedLogRangeAndMonotonic(t *testing.T) {
	hzs := []float64{20, 100, 800, 2000, 20000}
	prev := -1.0
	for _, hz := range hzs {
		n := HzToNormalizedLog(hz)
		assert.GreaterOrEqual(t, n, 0.0)
		assert.LessOrEqual(t, n, 1.0)
		assert.Greater(t, n, prev)
		prev = n
	}
	assert.InDelta(t, 0.0, HzToNormalizedLog(20), 1e-9)
	assert.InDelta(t, 1.0, HzToNormalizedLog(20000), 1e-9)
}

func TestHzToNormalizedLogClampsOutOfRange(t *testing.T) {
	assert.InDelta(t, 0.0, HzToNormalizedLog(5), 1e-9)
	assert.InDelta(t, 1.0, HzToNormalizedLog(50000), 1e-9)
}

func TestParseFrequency(t *testing.T) {
	cases := map[string]float64{
		"800Hz": 800,
		"2kHz":  2000,
		"2KHZ":  2000,
		" 1.5kHz ": 1500,
	}
	for label, expected := range cases {
		hz, ok := ParseFrequency(label)
		assert.True(t, ok, label)
		assert.InDelta(t, expected, hz, 1e-9, label)
	}

	_, ok := ParseFrequency("not a frequency")
	assert.False(t, ok)
}
