package contracts

// DataQualitySnapshot represents raw-row quality information observed at S0
// ⭐ SSOT: S0 원천 데이터 품질 정보 (정보용, 파이프라인을 막지 않음)
type DataQualitySnapshot struct {
	TotalRows    int                `json:"total_rows"`
	ValidRows    int                `json:"valid_rows"`              // 필수 컬럼이 모두 채워진 행
	Coverage     map[string]float64 `json:"coverage"`                // 컬럼별 커버리지 0.0 ~ 1.0
	QualityScore float64            `json:"quality_score"`           // 0.0 ~ 1.0
	Passed       bool               `json:"passed"`                  // 품질 기준 통과 여부
	Failed       []string           `json:"failed_checks,omitempty"` // 기준 미달 컬럼
}

// CoverageRate returns the average coverage rate across all columns
func (d *DataQualitySnapshot) CoverageRate() float64 {
	if len(d.Coverage) == 0 {
		return 0.0
	}

	total := 0.0
	for _, rate := range d.Coverage {
		total += rate
	}

	return total / float64(len(d.Coverage))
}
