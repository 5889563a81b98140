package analytics

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/wonny/dvf-invest/backend/internal/contracts"
	"github.com/wonny/dvf-invest/backend/pkg/numeric"
)

// =============================================================================
// Descriptive statistics
// =============================================================================

// Descriptive holds the summary statistics of one variable
type Descriptive struct {
	Count    int      `json:"count"`
	Mean     float64  `json:"mean"`
	Median   float64  `json:"median"`
	Std      float64  `json:"std"` // 표본 표준편차 (n-1)
	Min      float64  `json:"min"`
	Max      float64  `json:"max"`
	Q1       float64  `json:"q1"`
	Q3       float64  `json:"q3"`
	Skewness float64  `json:"skewness"` // 모집단 모멘트 기준
	Kurtosis float64  `json:"kurtosis"` // excess (정규분포 = 0)
	CV       *float64 `json:"cv,omitempty"`
}

// Describe computes the descriptive statistics of values.
// Returns nil for an empty input.
func Describe(values []float64) *Descriptive {
	if len(values) == 0 {
		return nil
	}

	sorted := numeric.Sorted(values)
	d := &Descriptive{
		Count:  len(values),
		Mean:   numeric.Mean(values),
		Median: numeric.Percentile(sorted, 50),
		Std:    numeric.StdDev(values),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Q1:     numeric.Percentile(sorted, 25),
		Q3:     numeric.Percentile(sorted, 75),
	}

	// 분산 0 → 왜도/첨도 0
	if m2 := stat.Moment(2, values, nil); m2 > 0 {
		d.Skewness = stat.Moment(3, values, nil) / math.Pow(m2, 1.5)
		d.Kurtosis = stat.Moment(4, values, nil)/(m2*m2) - 3
	}

	if d.Mean != 0 {
		d.CV = numeric.Ptr(d.Std / d.Mean * 100)
	}
	return d
}

// DescribeTransactions describes the main DVF variables.
// Keys are the DVF column names; rooms are included only when at least one row carries them.
func DescribeTransactions(txs []contracts.Transaction) map[string]*Descriptive {
	values := make([]float64, 0, len(txs))
	perArea := make([]float64, 0, len(txs))
	areas := make([]float64, 0, len(txs))
	rooms := make([]float64, 0, len(txs))

	for i := range txs {
		values = append(values, txs[i].SaleValue)
		perArea = append(perArea, txs[i].PricePerArea)
		areas = append(areas, txs[i].BuiltArea)
		if txs[i].Rooms != nil {
			rooms = append(rooms, float64(*txs[i].Rooms))
		}
	}

	out := make(map[string]*Descriptive, 4)
	if d := Describe(values); d != nil {
		out[contracts.ColSaleValue] = d
	}
	if d := Describe(perArea); d != nil {
		out[MetricPricePerArea] = d
	}
	if d := Describe(areas); d != nil {
		out[contracts.ColBuiltArea] = d
	}
	if d := Describe(rooms); d != nil {
		out[contracts.ColRooms] = d
	}
	return out
}

// =============================================================================
// Outlier detection
// =============================================================================

// Outlier detection methods
const (
	OutlierIQR    = "iqr"
	OutlierZScore = "zscore"
)

// ZScoreThreshold |z| above which a value is an outlier
const ZScoreThreshold = 3.0

// OutlierReport describes the outliers of one variable
type OutlierReport struct {
	Method     string  `json:"method"`
	Q1         float64 `json:"q1,omitempty"`
	Q3         float64 `json:"q3,omitempty"`
	IQR        float64 `json:"iqr,omitempty"`
	LowerBound float64 `json:"lower_bound,omitempty"`
	UpperBound float64 `json:"upper_bound,omitempty"`
	Threshold  float64 `json:"threshold,omitempty"`
	Count      int     `json:"outliers_count"`
	Percentage float64 `json:"outliers_percentage"`
	Indices    []int   `json:"outliers_indices"` // 입력 순서 기준 인덱스
}

// DetectOutliers flags outliers with the 1.5×IQR rule or |z| > 3
func DetectOutliers(values []float64, method string) (*OutlierReport, error) {
	report := &OutlierReport{Method: method, Indices: []int{}}

	switch method {
	case OutlierIQR:
		if len(values) == 0 {
			return report, nil
		}
		sorted := numeric.Sorted(values)
		report.Q1 = numeric.Percentile(sorted, 25)
		report.Q3 = numeric.Percentile(sorted, 75)
		report.IQR = report.Q3 - report.Q1
		report.LowerBound = report.Q1 - 1.5*report.IQR
		report.UpperBound = report.Q3 + 1.5*report.IQR
		for i, v := range values {
			if v < report.LowerBound || v > report.UpperBound {
				report.Indices = append(report.Indices, i)
			}
		}

	case OutlierZScore:
		report.Threshold = ZScoreThreshold
		if len(values) == 0 {
			return report, nil
		}
		mean := numeric.Mean(values)
		// z-score는 모집단 표준편차 기준 (ddof=0)
		std := math.Sqrt(stat.Moment(2, values, nil))
		if std == 0 {
			return report, nil
		}
		for i, v := range values {
			if math.Abs((v-mean)/std) > ZScoreThreshold {
				report.Indices = append(report.Indices, i)
			}
		}

	default:
		return nil, &contracts.ValidationError{Field: "method", Message: "must be iqr or zscore, got " + method}
	}

	report.Count = len(report.Indices)
	report.Percentage = float64(report.Count) / float64(len(values)) * 100
	return report, nil
}
