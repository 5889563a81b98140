package s0_data

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/wonny/dvf-invest/backend/internal/contracts"
	"github.com/wonny/dvf-invest/backend/pkg/logger"
	"github.com/wonny/dvf-invest/backend/pkg/numeric"
)

// Removal reasons reported by the cleaner
const (
	ReasonYearRange    = "year_range"     // 날짜 파싱 실패 포함
	ReasonInvalidValue = "invalid_value"  // valeur_fonciere 누락 또는 <= 0
	ReasonInvalidArea  = "invalid_area"   // surface_reelle_bati 누락 또는 <= 0
	ReasonPricePerArea = "price_per_area" // prix_m2 범위 밖
)

// dateLayouts accepted for date_mutation, tried in order
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05-07", // Postgres timestamptz::TEXT
	time.RFC3339,
}

// CleanerConfig holds the cleaning bounds
type CleanerConfig struct {
	StartYear       int     `yaml:"start_year"`         // 2019
	EndYear         int     `yaml:"end_year"`           // 2023
	MinPricePerArea float64 `yaml:"min_price_per_area"` // 100 €/m²
	MaxPricePerArea float64 `yaml:"max_price_per_area"` // 50000 €/m²
}

// DefaultCleanerConfig returns the standard DVF cleaning bounds
func DefaultCleanerConfig() CleanerConfig {
	return CleanerConfig{
		StartYear:       2019,
		EndYear:         2023,
		MinPricePerArea: 100,
		MaxPricePerArea: 50000,
	}
}

// Cleaner filters raw DVF rows and derives the price per m²
type Cleaner struct {
	config CleanerConfig
	log    *logger.Logger
	report *contracts.CleaningReport
}

// NewCleaner creates a new Cleaner
func NewCleaner(config CleanerConfig, log *logger.Logger) *Cleaner {
	if log == nil {
		log = logger.Nop()
	}
	return &Cleaner{
		config: config,
		log:    log.Component("s0_data.cleaner"),
	}
}

// Clean returns the rows that pass every step, in input order.
// The input slice is never modified.
// ⭐ SSOT: S0 원천 → 정제 거래
func (c *Cleaner) Clean(ctx context.Context, raws []contracts.RawTransaction) ([]contracts.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	removed := map[string]int{
		ReasonYearRange:    0,
		ReasonInvalidValue: 0,
		ReasonInvalidArea:  0,
		ReasonPricePerArea: 0,
	}
	cleaned := make([]contracts.Transaction, 0, len(raws))

	for i := range raws {
		tx, reason := c.cleanRow(&raws[i])
		if reason != "" {
			removed[reason]++
			continue
		}
		cleaned = append(cleaned, tx)
	}

	report := &contracts.CleaningReport{
		OriginalRows:    len(raws),
		CleanedRows:     len(cleaned),
		RemovedRows:     len(raws) - len(cleaned),
		RemovedByReason: removed,
		StartYear:       c.config.StartYear,
		EndYear:         c.config.EndYear,
	}
	if report.OriginalRows > 0 {
		report.RemovalPercentage = numeric.Round(float64(report.RemovedRows)/float64(report.OriginalRows)*100, 2)
	}
	c.report = report

	c.log.WithFields(map[string]interface{}{
		"original_rows":      report.OriginalRows,
		"cleaned_rows":       report.CleanedRows,
		"removed_rows":       report.RemovedRows,
		"removal_percentage": report.RemovalPercentage,
		"removed_by_reason":  removed,
	}).Info("Cleaning completed")

	return cleaned, nil
}

// Report returns the report of the last Clean call
func (c *Cleaner) Report() (*contracts.CleaningReport, error) {
	if c.report == nil {
		return nil, contracts.ErrNotCleaned
	}
	r := *c.report
	return &r, nil
}

// cleanRow applies the steps in order; the first failing step names the reason
func (c *Cleaner) cleanRow(raw *contracts.RawTransaction) (contracts.Transaction, string) {
	// 1. 날짜 → 연도 범위
	date, ok := ParseMutationDate(raw.MutationDate)
	if !ok || date.Year() < c.config.StartYear || date.Year() > c.config.EndYear {
		return contracts.Transaction{}, ReasonYearRange
	}

	// 2. 가격/면적 유효성
	if !positive(raw.SaleValue) {
		return contracts.Transaction{}, ReasonInvalidValue
	}
	if !positive(raw.BuiltArea) {
		return contracts.Transaction{}, ReasonInvalidArea
	}

	// 3. prix_m2 산출
	value, area := *raw.SaleValue, *raw.BuiltArea
	pricePerArea := value / area

	// 4. prix_m2 범위
	if !(pricePerArea >= c.config.MinPricePerArea && pricePerArea <= c.config.MaxPricePerArea) {
		return contracts.Transaction{}, ReasonPricePerArea
	}

	tx := contracts.Transaction{
		Commune:        strings.TrimSpace(raw.Commune),
		DepartmentCode: strings.TrimSpace(raw.DepartmentCode),
		SaleValue:      value,
		BuiltArea:      area,
		MutationDate:   date,
		Year:           date.Year(),
		Month:          int(date.Month()),
		PropertyType:   strings.TrimSpace(raw.PropertyType),
		PricePerArea:   pricePerArea,
	}
	if raw.Rooms != nil {
		rooms := *raw.Rooms
		tx.Rooms = &rooms
	}
	return tx, ""
}

// positive rejects nil, NaN, ±Inf and values ≤ 0
func positive(v *float64) bool {
	return v != nil && *v > 0 && !math.IsInf(*v, 1)
}

// ParseMutationDate parses a DVF date_mutation value
func ParseMutationDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
