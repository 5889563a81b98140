package s1_rental

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/wonny/dvf-invest/backend/internal/contracts"
	"github.com/wonny/dvf-invest/backend/pkg/logger"
)

// EstimatorConfig holds the rent estimation parameters
type EstimatorConfig struct {
	PriceToRentYears float64 `yaml:"price_to_rent_years"` // 22년 임대료 ≈ 매입가
	NetYieldFactor   float64 `yaml:"net_yield_factor"`    // 0.75
	NullYieldPolicy  string  `yaml:"null_yield_policy"`   // zero | drop
}

// DefaultEstimatorConfig returns the standard parameters
func DefaultEstimatorConfig() EstimatorConfig {
	return EstimatorConfig{
		PriceToRentYears: 22,
		NetYieldFactor:   0.75,
		NullYieldPolicy:  contracts.NullYieldZero,
	}
}

// Estimator attaches a rent and a yield to every cleaned transaction
type Estimator struct {
	config EstimatorConfig
	log    *logger.Logger
}

// NewEstimator creates a new Estimator
func NewEstimator(config EstimatorConfig, log *logger.Logger) *Estimator {
	if log == nil {
		log = logger.Nop()
	}
	if config.NullYieldPolicy == "" {
		config.NullYieldPolicy = contracts.NullYieldZero
	}
	return &Estimator{
		config: config,
		log:    log.Component("s1_rental.estimator"),
	}
}

// Estimate derives rents and yields.
// Without references every record gets a simulated rent; with references the
// department rent per m² is used and unmatched departments get no yield.
// ⭐ SSOT: S1 정제 거래 → 수익률 레코드
func (e *Estimator) Estimate(ctx context.Context, txs []contracts.Transaction, refs []contracts.RentReference) ([]contracts.YieldRecord, *contracts.YieldReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if err := e.validate(); err != nil {
		return nil, nil, err
	}

	report := &contracts.YieldReport{
		Mode:            contracts.RentReferenced,
		NullYieldPolicy: e.config.NullYieldPolicy,
	}

	var rentByDept map[string]float64
	if len(refs) == 0 {
		// 임대료 테이블 없음 → 시뮬레이션 (복구 가능한 상황, 에러 아님)
		report.Mode = contracts.RentSimulated
		e.log.WithField("price_to_rent_years", e.config.PriceToRentYears).
			Warn("No rent references, using simulated rents")
	} else {
		rentByDept = make(map[string]float64, len(refs))
		for _, ref := range refs {
			rentByDept[NormalizeDepartment(ref.DepartmentCode)] = ref.MedianRentPerArea
		}
	}

	unmatched := make(map[string]struct{})
	records := make([]contracts.YieldRecord, 0, len(txs))

	for _, tx := range txs {
		rec := contracts.YieldRecord{Transaction: tx, RentSource: report.Mode}

		if report.Mode == contracts.RentSimulated {
			rent := tx.SaleValue / (e.config.PriceToRentYears * 12)
			rec.MonthlyRent = &rent
			if tx.BuiltArea > 0 {
				perArea := rent / tx.BuiltArea
				rec.RentPerArea = &perArea
			}
		} else {
			dept := NormalizeDepartment(tx.DepartmentCode)
			if perArea, ok := rentByDept[dept]; ok {
				p := perArea
				rec.RentPerArea = &p
				rec.MonthlyRent = EstimateMonthlyRent(tx.BuiltArea, perArea)
			} else {
				unmatched[dept] = struct{}{}
			}
		}

		if rec.MonthlyRent != nil {
			rec.GrossYield = EstimateRentalYield(tx.SaleValue, *rec.MonthlyRent)
		}
		if rec.GrossYield != nil {
			net := *rec.GrossYield * e.config.NetYieldFactor
			rec.NetYield = &net
			rec.YieldClass = ClassifyYield(*rec.GrossYield)
		}

		if !rec.HasYield() {
			report.NullYields++
			if e.config.NullYieldPolicy == contracts.NullYieldDrop {
				report.Dropped++
				continue
			}
		}
		records = append(records, rec)
	}

	report.Records = len(records)
	for dept := range unmatched {
		report.UnmatchedDepartments = append(report.UnmatchedDepartments, dept)
	}
	sort.Strings(report.UnmatchedDepartments)

	log := e.log.WithFields(map[string]interface{}{
		"mode":        report.Mode,
		"records":     report.Records,
		"null_yields": report.NullYields,
		"dropped":     report.Dropped,
		"policy":      report.NullYieldPolicy,
	})
	if len(report.UnmatchedDepartments) > 0 {
		log.WithField("unmatched_departments", report.UnmatchedDepartments).
			Warnf("Yield estimation completed with %d unmatched departments", len(report.UnmatchedDepartments))
	} else {
		log.Info("Yield estimation completed")
	}

	return records, report, nil
}

func (e *Estimator) validate() error {
	switch {
	case e.config.PriceToRentYears <= 0:
		return &contracts.ValidationError{Field: "price_to_rent_years", Message: "must be > 0"}
	case e.config.NullYieldPolicy != contracts.NullYieldZero && e.config.NullYieldPolicy != contracts.NullYieldDrop:
		return &contracts.ValidationError{Field: "null_yield_policy", Message: "must be zero or drop"}
	}
	return nil
}

// EstimateMonthlyRent returns area × rent per m², nil when either is not positive
func EstimateMonthlyRent(area, rentPerArea float64) *float64 {
	if area <= 0 || rentPerArea <= 0 {
		return nil
	}
	rent := area * rentPerArea
	return &rent
}

// EstimateRentalYield returns the gross yield in percent, nil when value or rent is not positive
func EstimateRentalYield(value, monthlyRent float64) *float64 {
	if value <= 0 || monthlyRent <= 0 {
		return nil
	}
	y := monthlyRent * 12 / value * 100
	return &y
}

// ClassifyYield maps a gross yield to its class
func ClassifyYield(gross float64) string {
	switch {
	case gross >= 8:
		return contracts.ClassExcellent
	case gross >= 6:
		return contracts.ClassVeryGood
	case gross >= 4:
		return contracts.ClassGood
	case gross >= 3:
		return contracts.ClassAverage
	default:
		return contracts.ClassWeak
	}
}

// NormalizeDepartment canonicalizes a department code: "1.0" → "01", "69" → "69", "2A" stays
func NormalizeDepartment(code string) string {
	code = strings.TrimSpace(code)
	code = strings.TrimSuffix(code, ".0")
	if _, err := strconv.Atoi(code); err == nil && len(code) < 2 {
		return "0" + code
	}
	return strings.ToUpper(code)
}
