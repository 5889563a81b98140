package strategyconfig

import (
	"fmt"
)

// ValidationError 검증 실패 (프로그램 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Warning 권장 위반 (경고만)
type Warning struct {
	Code    string
	Message string
}

// Validate checks all required constraints
// 실패 시 error 반환 (프로그램 중단)
func Validate(cfg *Config) error {
	// === Meta ===
	if cfg.Meta.ProfileID == "" {
		return ValidationError{"meta.profile_id", "required"}
	}

	// === Cleaning ===
	c := cfg.Cleaning
	if c.StartYear <= 0 || c.EndYear <= 0 {
		return ValidationError{"cleaning", "start_year and end_year must be > 0"}
	}
	if c.StartYear > c.EndYear {
		return ValidationError{"cleaning", "start_year must be <= end_year"}
	}
	if c.MinPricePerArea < 0 {
		return ValidationError{"cleaning.min_price_per_area", "must be >= 0"}
	}
	if c.MinPricePerArea >= c.MaxPricePerArea {
		return ValidationError{"cleaning", "min_price_per_area must be < max_price_per_area"}
	}

	// === Rental ===
	r := cfg.Rental
	if r.PriceToRentYears <= 0 {
		return ValidationError{"rental.price_to_rent_years", "must be > 0"}
	}
	if r.NetYieldFactor <= 0 || r.NetYieldFactor > 1 {
		return ValidationError{"rental.net_yield_factor", "must be in (0, 1]"}
	}
	if r.NullYieldPolicy != "zero" && r.NullYieldPolicy != "drop" {
		return ValidationError{"rental.null_yield_policy", "must be zero or drop"}
	}

	// === Zones ===
	if cfg.Zones.MinTransactions < 1 {
		return ValidationError{"zones.min_transactions", "must be >= 1"}
	}

	// === Criteria ===
	cr := cfg.Criteria
	if cr.BudgetMax < 0 {
		return ValidationError{"criteria.budget_max", "must be >= 0"}
	}
	if err := validateRange(cr.SurfaceMin, cr.SurfaceMax, "criteria.surface"); err != nil {
		return err
	}
	if cr.YieldMin < 0 {
		return ValidationError{"criteria.yield_min", "must be >= 0"}
	}

	// === Ranking ===
	if cfg.Ranking.TopN < 1 || cfg.Ranking.StrategyTopN < 1 {
		return ValidationError{"ranking", "top_n and strategy_top_n must be >= 1"}
	}

	// === Opportunities ===
	o := cfg.Opportunities
	if err := validateRange(o.MinSurface, o.MaxSurface, "opportunities.surface"); err != nil {
		return err
	}
	if o.MaxPricePerArea != nil && *o.MaxPricePerArea <= 0 {
		return ValidationError{"opportunities.max_price_per_area", "must be > 0 when set"}
	}
	if o.MinZoneTransactions < 1 {
		return ValidationError{"opportunities.min_zone_transactions", "must be >= 1"}
	}
	if o.Limit < 0 {
		return ValidationError{"opportunities.limit", "must be >= 0"}
	}

	// === Profile ===
	switch cfg.Profile.Default {
	case "debutant", "experimente", "equilibre":
	default:
		return ValidationError{"profile.default", "must be debutant, experimente or equilibre"}
	}
	if cfg.Profile.Limit < 1 {
		return ValidationError{"profile.limit", "must be >= 1"}
	}

	return nil
}

// Warn checks recommended constraints (non-fatal)
func Warn(cfg *Config) []Warning {
	var warnings []Warning

	// 최소 거래 수가 너무 낮으면 존 평균이 불안정
	if cfg.Zones.MinTransactions < 5 {
		warnings = append(warnings, Warning{
			Code:    "LOW_ZONE_SAMPLE",
			Message: "zones.min_transactions < 5: zone means rest on very few sales",
		})
	}

	if cfg.Criteria.BudgetMax == 0 {
		warnings = append(warnings, Warning{
			Code:    "ZERO_BUDGET",
			Message: "criteria.budget_max = 0: no zone can match",
		})
	}

	if cfg.Criteria.YieldMin > 10 {
		warnings = append(warnings, Warning{
			Code:    "UNREALISTIC_YIELD",
			Message: "criteria.yield_min > 10%: very few French zones reach this gross yield",
		})
	}

	if cfg.Cleaning.EndYear-cfg.Cleaning.StartYear > 10 {
		warnings = append(warnings, Warning{
			Code:    "WIDE_PERIOD",
			Message: "cleaning period > 10 years: price levels are not comparable",
		})
	}

	return warnings
}

// === Helper Functions ===

// validateRange는 [min, max] 범위가 유효한지 검증
func validateRange(min, max float64, field string) error {
	if min < 0 || max < 0 {
		return ValidationError{field, "bounds must be >= 0"}
	}
	if min > max {
		return ValidationError{field, fmt.Sprintf("min=%.1f must be <= max=%.1f", min, max)}
	}
	return nil
}
