package strategyconfig

import "time"

// Config is the full analysis profile of a DVF run
type Config struct {
	Meta          Meta          `yaml:"meta" json:"meta"`
	Cleaning      Cleaning      `yaml:"cleaning" json:"cleaning"`
	Rental        Rental        `yaml:"rental" json:"rental"`
	Zones         Zones         `yaml:"zones" json:"zones"`
	Criteria      Criteria      `yaml:"criteria" json:"criteria"`
	Ranking       Ranking       `yaml:"ranking" json:"ranking"`
	Opportunities Opportunities `yaml:"opportunities" json:"opportunities"`
	Profile       Profile       `yaml:"profile" json:"profile"`
}

// Meta 메타 정보
type Meta struct {
	ProfileID string `yaml:"profile_id" json:"profile_id"`
	Version   string `yaml:"version" json:"version"`
}

// Cleaning S0: 정제 기준
type Cleaning struct {
	StartYear       int     `yaml:"start_year" json:"start_year"`
	EndYear         int     `yaml:"end_year" json:"end_year"`
	MinPricePerArea float64 `yaml:"min_price_per_area" json:"min_price_per_area"`
	MaxPricePerArea float64 `yaml:"max_price_per_area" json:"max_price_per_area"`
}

// Rental S1: 임대료 추정
type Rental struct {
	PriceToRentYears float64 `yaml:"price_to_rent_years" json:"price_to_rent_years"` // 22년 임대료 = 매입가
	NetYieldFactor   float64 `yaml:"net_yield_factor" json:"net_yield_factor"`       // 순수익률 = 총수익률 * factor
	NullYieldPolicy  string  `yaml:"null_yield_policy" json:"null_yield_policy"`     // zero | drop
}

// Zones S3: 존 집계
type Zones struct {
	MinTransactions int `yaml:"min_transactions" json:"min_transactions"`
}

// Criteria S4: 투자자 조건
type Criteria struct {
	BudgetMax  float64 `yaml:"budget_max" json:"budget_max"`
	SurfaceMin float64 `yaml:"surface_min" json:"surface_min"`
	SurfaceMax float64 `yaml:"surface_max" json:"surface_max"`
	YieldMin   float64 `yaml:"yield_min" json:"yield_min"`
}

// Ranking S5: 추천 리스트 크기
type Ranking struct {
	TopN         int `yaml:"top_n" json:"top_n"`
	StrategyTopN int `yaml:"strategy_top_n" json:"strategy_top_n"`
}

// Opportunities row-level opportunity finder
type Opportunities struct {
	MinSurface          float64  `yaml:"min_surface" json:"min_surface"`
	MaxSurface          float64  `yaml:"max_surface" json:"max_surface"`
	MaxPricePerArea     *float64 `yaml:"max_price_per_area,omitempty" json:"max_price_per_area,omitempty"`
	MinZoneTransactions int      `yaml:"min_zone_transactions" json:"min_zone_transactions"`
	UseRentEstimates    bool     `yaml:"use_rent_estimates" json:"use_rent_estimates"`
	Limit               int      `yaml:"limit" json:"limit"`
}

// Profile per-transaction profile recommender
type Profile struct {
	Default string `yaml:"default" json:"default"` // debutant | experimente | equilibre
	Limit   int    `yaml:"limit" json:"limit"`
}

// Default returns the profile used when no YAML file is given
func Default() *Config {
	return &Config{
		Meta: Meta{ProfileID: "dvf_default", Version: "1"},
		Cleaning: Cleaning{
			StartYear:       2019,
			EndYear:         2023,
			MinPricePerArea: 100,
			MaxPricePerArea: 50000,
		},
		Rental: Rental{
			PriceToRentYears: 22,
			NetYieldFactor:   0.75,
			NullYieldPolicy:  "zero",
		},
		Zones: Zones{MinTransactions: 10},
		Criteria: Criteria{
			BudgetMax:  300000,
			SurfaceMin: 30,
			SurfaceMax: 120,
			YieldMin:   4.0,
		},
		Ranking: Ranking{TopN: 5, StrategyTopN: 3},
		Opportunities: Opportunities{
			MinSurface:          30,
			MaxSurface:          120,
			MinZoneTransactions: 10,
			Limit:               20,
		},
		Profile: Profile{Default: "equilibre", Limit: 10},
	}
}

// RunSnapshot records the profile used by a run (재현성용)
type RunSnapshot struct {
	ConfigHash string    `json:"config_hash"`
	ConfigYAML string    `json:"config_yaml,omitempty"`
	ProfileID  string    `json:"profile_id"`
	RunID      string    `json:"run_id"`
	CreatedAt  time.Time `json:"created_at"`
}
