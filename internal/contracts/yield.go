package contracts

// RentSource tells how the monthly rent of a record was derived
type RentSource string

const (
	RentReferenced RentSource = "referenced" // 외부 임대료 테이블 (département)
	RentSimulated  RentSource = "simulated"  // 가격/임대료 비율 (22년)
)

// Null-yield handling before scoring
const (
	NullYieldZero = "zero" // keep the record, yield component scores 0
	NullYieldDrop = "drop" // remove the record before scoring
)

// Shared classification labels (yield class and score classes)
const (
	ClassExcellent = "Excellent"
	ClassVeryGood  = "Très bon"
	ClassGood      = "Bon"
	ClassAverage   = "Moyen"
	ClassWeak      = "Faible"
)

// YieldRecord is a transaction with its estimated rent and yield
// ⭐ SSOT: S1 → S2 임대 수익률 레코드
type YieldRecord struct {
	Transaction

	RentSource  RentSource `json:"source_loyer"`
	MonthlyRent *float64   `json:"loyer_mensuel_estime"`
	RentPerArea *float64   `json:"loyer_m2_estime"`
	GrossYield  *float64   `json:"rendement_brut"`       // nil = 계산 불가
	NetYield    *float64   `json:"rendement_net_estime"` // gross * 0.75
	YieldClass  string     `json:"classe_rendement,omitempty"`
}

// HasYield reports whether a gross yield could be computed
func (r *YieldRecord) HasYield() bool {
	return r.GrossYield != nil
}

// YieldReport describes the estimation run
type YieldReport struct {
	Mode                 RentSource `json:"mode"`
	NullYieldPolicy      string     `json:"null_yield_policy"`
	Records              int        `json:"records"`
	NullYields           int        `json:"null_yields"`
	Dropped              int        `json:"dropped"`
	UnmatchedDepartments []string   `json:"unmatched_departments,omitempty"`
}
