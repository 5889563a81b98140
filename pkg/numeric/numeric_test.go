package numeric

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound(t *testing.T) {
	assert.Equal(t, 12.5, Round(12.5, 2))
	assert.Equal(t, 3.33, Round(10.0/3.0, 2))
	assert.Equal(t, 9.6, Round(9.6000000001, 2))
	assert.Equal(t, 1235.0, Round(1234.56, 0))
}

func TestMeanAndStdDev(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.InDelta(t, 2.5, Mean([]float64{1, 2, 3, 4}), 1e-12)

	assert.Equal(t, 0.0, StdDev([]float64{5}))
	// sample std of 2,4,4,4,5,5,7,9 = 2.138...
	assert.InDelta(t, 2.13809, StdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 1e-5)
}

func TestPercentile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}

	assert.Equal(t, 0.0, Percentile(nil, 50))
	assert.Equal(t, 1.0, Percentile(sorted, 0))
	assert.Equal(t, 4.0, Percentile(sorted, 100))
	assert.InDelta(t, 2.5, Percentile(sorted, 50), 1e-12)
	assert.InDelta(t, 1.75, Percentile(sorted, 25), 1e-12)
	assert.InDelta(t, 3.25, Percentile(sorted, 75), 1e-12)
}

func TestMedianDoesNotReorder(t *testing.T) {
	values := []float64{9, 1, 5}
	assert.Equal(t, 5.0, Median(values))
	assert.Equal(t, []float64{9, 1, 5}, values)
	assert.Equal(t, 3.0, Median([]float64{4, 2}))
}

func TestSafeDiv(t *testing.T) {
	assert.Equal(t, 0.0, SafeDiv(10, 0))
	assert.Equal(t, 2.5, SafeDiv(10, 4))
}

func TestMeanPtr(t *testing.T) {
	assert.Nil(t, MeanPtr(nil))
	assert.Nil(t, MeanPtr([]*float64{nil, nil}))

	got := MeanPtr([]*float64{Ptr(4), nil, Ptr(6)})
	if assert.NotNil(t, got) {
		assert.Equal(t, 5.0, *got)
	}
}
