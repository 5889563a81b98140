package quality

import (
	"context"
	"strings"

	"github.com/wonny/dvf-invest/backend/internal/contracts"
	"github.com/wonny/dvf-invest/backend/internal/s0_data"
	"github.com/wonny/dvf-invest/backend/pkg/logger"
	"github.com/wonny/dvf-invest/backend/pkg/numeric"
)

// CheckScore is the failed-check name of the overall quality score
const CheckScore = "quality_score"

// weight of one DVF column in the quality score
type weight struct {
	column string
	value  float64
}

// 가중치 (합계 = 1.0)
var weights = []weight{
	{contracts.ColSaleValue, 0.25},    // 가격 필수
	{contracts.ColBuiltArea, 0.25},    // 면적 필수
	{contracts.ColMutationDate, 0.20}, // 연도 필터
	{contracts.ColCommune, 0.10},
	{contracts.ColDepartment, 0.10},
	{contracts.ColPropertyType, 0.05},
	{contracts.ColRooms, 0.05}, // 선택 컬럼
}

// Config holds quality gate thresholds
type Config struct {
	MinValueCoverage float64 `yaml:"min_value_coverage"` // 0.90
	MinAreaCoverage  float64 `yaml:"min_area_coverage"`  // 0.50 (토지 거래는 면적 없음)
	MinDateCoverage  float64 `yaml:"min_date_coverage"`  // 0.95
	MinScore         float64 `yaml:"min_score"`          // 0.70
}

// DefaultConfig returns the standard DVF thresholds
func DefaultConfig() Config {
	return Config{
		MinValueCoverage: 0.90,
		MinAreaCoverage:  0.50,
		MinDateCoverage:  0.95,
		MinScore:         0.70,
	}
}

// QualityGate measures raw DVF row quality before cleaning
type QualityGate struct {
	config Config
	log    *logger.Logger
}

// NewQualityGate creates a new QualityGate instance
func NewQualityGate(config Config, log *logger.Logger) *QualityGate {
	if log == nil {
		log = logger.Nop()
	}
	return &QualityGate{
		config: config,
		log:    log.Component("s0_data.quality"),
	}
}

// Check computes column coverage and the weighted quality score.
// The result is informational; callers decide what to do with Passed.
// ⭐ SSOT: S0 원천 데이터 품질 검증
func (g *QualityGate) Check(ctx context.Context, raws []contracts.RawTransaction) (*contracts.DataQualitySnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snapshot := &contracts.DataQualitySnapshot{
		TotalRows: len(raws),
		Coverage:  make(map[string]float64, len(weights)),
	}

	// 1. 컬럼별 사용 가능 행 수
	counts := make(map[string]int, len(weights))
	for i := range raws {
		usable := usableColumns(&raws[i])
		for col, ok := range usable {
			if ok {
				counts[col]++
			}
		}
		if rowValid(usable) {
			snapshot.ValidRows++
		}
	}

	// 2. 커버리지 + 품질 점수
	score := 0.0
	for _, w := range weights {
		cov := numeric.SafeDiv(float64(counts[w.column]), float64(len(raws)))
		snapshot.Coverage[w.column] = numeric.Round(cov, 4)
		score += cov * w.value
	}
	snapshot.QualityScore = numeric.Round(score, 4)

	// 3. 기준 검사
	snapshot.Failed = g.failedChecks(snapshot)
	snapshot.Passed = len(snapshot.Failed) == 0

	entry := g.log.WithFields(map[string]interface{}{
		"total_rows":    snapshot.TotalRows,
		"valid_rows":    snapshot.ValidRows,
		"quality_score": snapshot.QualityScore,
	})
	if snapshot.Passed {
		entry.Info("Data quality check passed")
	} else {
		entry.WithField("failed_checks", snapshot.Failed).Warn("Data quality below thresholds")
	}

	return snapshot, nil
}

func (g *QualityGate) failedChecks(s *contracts.DataQualitySnapshot) []string {
	thresholds := []struct {
		check string
		value float64
		min   float64
	}{
		{contracts.ColSaleValue, s.Coverage[contracts.ColSaleValue], g.config.MinValueCoverage},
		{contracts.ColBuiltArea, s.Coverage[contracts.ColBuiltArea], g.config.MinAreaCoverage},
		{contracts.ColMutationDate, s.Coverage[contracts.ColMutationDate], g.config.MinDateCoverage},
		{CheckScore, s.QualityScore, g.config.MinScore},
	}

	var failed []string
	for _, th := range thresholds {
		if th.value < th.min {
			failed = append(failed, th.check)
		}
	}
	return failed
}

// usableColumns reports which columns of one raw row carry a usable value
func usableColumns(raw *contracts.RawTransaction) map[string]bool {
	_, dateOK := s0_data.ParseMutationDate(raw.MutationDate)
	return map[string]bool{
		contracts.ColCommune:      strings.TrimSpace(raw.Commune) != "",
		contracts.ColDepartment:   strings.TrimSpace(raw.DepartmentCode) != "",
		contracts.ColSaleValue:    raw.SaleValue != nil && *raw.SaleValue > 0,
		contracts.ColBuiltArea:    raw.BuiltArea != nil && *raw.BuiltArea > 0,
		contracts.ColMutationDate: dateOK,
		contracts.ColPropertyType: strings.TrimSpace(raw.PropertyType) != "",
		contracts.ColRooms:        raw.Rooms != nil,
	}
}

// rowValid checks every required column is usable
func rowValid(usable map[string]bool) bool {
	for _, col := range contracts.RequiredColumns {
		if !usable[col] {
			return false
		}
	}
	return true
}
