package numeric

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Round rounds v to the given number of decimals
func Round(v float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(v*pow) / pow
}

// Mean 평균 계산 (빈 슬라이스 → 0)
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// StdDev 표본 표준편차 (n-1), 값이 2개 미만이면 0
func StdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	return stat.StdDev(values, nil)
}

// Percentile 백분위수 계산 (정렬된 입력, 선형 보간)
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}

	idx := p / 100.0 * float64(len(sorted)-1)
	lower := int(math.Floor(idx))
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	// 선형 보간
	weight := idx - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Sorted returns a sorted copy of values
func Sorted(values []float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	sort.Float64s(out)
	return out
}

// Median returns the median of values without reordering the input
func Median(values []float64) float64 {
	return Percentile(Sorted(values), 50)
}

// SafeDiv returns num/den, or 0 when den is 0
func SafeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// Ptr returns a pointer to v
func Ptr(v float64) *float64 {
	return &v
}

// MeanPtr averages the non-nil values; nil when every value is nil
func MeanPtr(values []*float64) *float64 {
	present := make([]float64, 0, len(values))
	for _, v := range values {
		if v != nil && !math.IsNaN(*v) {
			present = append(present, *v)
		}
	}
	if len(present) == 0 {
		return nil
	}
	m := Mean(present)
	return &m
}
