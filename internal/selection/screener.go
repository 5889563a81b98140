package selection

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/wonny/dvf-invest/backend/internal/contracts"
	"github.com/wonny/dvf-invest/backend/pkg/logger"
)

// Exclusion reasons counted by the filter
const (
	ExcludedBudget     = "budget"
	ExcludedSurfaceMin = "surface_min"
	ExcludedSurfaceMax = "surface_max"
	ExcludedYield      = "yield"
)

var validate = validator.New()

// DefaultCriteria returns the standard surface and yield bounds for a budget
func DefaultCriteria(budgetMax float64) contracts.Criteria {
	return contracts.Criteria{
		BudgetMax:  budgetMax,
		SurfaceMin: 30,
		SurfaceMax: 120,
		YieldMin:   4.0,
	}
}

// Filter implements S4: investor criteria on zones
// ⭐ SSOT: S4 존 필터링 로직은 여기서만
type Filter struct {
	logger *logger.Logger
}

// NewFilter creates a new filter
func NewFilter(log *logger.Logger) *Filter {
	if log == nil {
		log = logger.Nop()
	}
	return &Filter{logger: log.Component("selection.filter")}
}

// Filter keeps the zones that satisfy every criterion, preserving input order.
// A zone without yield skips the yield condition.
// Nothing left is reported through FilterResult.NoMatch, not as an error.
func (f *Filter) Filter(ctx context.Context, zones []contracts.Zone, criteria contracts.Criteria) (*contracts.FilterResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ValidateCriteria(criteria); err != nil {
		return nil, err
	}

	result := &contracts.FilterResult{
		Criteria: criteria,
		Zones:    make([]contracts.Zone, 0),
		Excluded: make(map[string]int),
	}

	for _, zone := range zones {
		if reason := checkConditions(&zone, criteria); reason != "" {
			result.Excluded[reason]++
			continue
		}
		result.Zones = append(result.Zones, zone)
	}

	if len(result.Zones) == 0 {
		result.NoMatch = &contracts.NoMatch{Message: contracts.NoMatchMessage}
	}

	f.logger.WithFields(map[string]interface{}{
		"total_input":  len(zones),
		"passed":       len(result.Zones),
		"filtered_out": len(zones) - len(result.Zones),
		"filters":      result.Excluded,
	}).Info("Filtering completed")

	return result, nil
}

// checkConditions returns the first failed criterion, or "" when the zone passes
func checkConditions(z *contracts.Zone, c contracts.Criteria) string {
	if z.MeanPrice > c.BudgetMax {
		return ExcludedBudget
	}
	if z.MeanBuiltArea < c.SurfaceMin {
		return ExcludedSurfaceMin
	}
	if z.MeanBuiltArea > c.SurfaceMax {
		return ExcludedSurfaceMax
	}
	// 수익률 없는 존 → 조건 생략
	if z.GrossYield != nil && *z.GrossYield < c.YieldMin {
		return ExcludedYield
	}
	return ""
}

// ValidateCriteria checks the investor criteria
func ValidateCriteria(c contracts.Criteria) error {
	return validateStruct(c)
}

// validateStruct runs the validator and converts the first failure to a ValidationError
func validateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &contracts.ValidationError{
			Field:   fe.Field(),
			Message: fmt.Sprintf("failed %s=%s (value %v)", fe.Tag(), fe.Param(), fe.Value()),
		}
	}
	return &contracts.ValidationError{Field: "criteria", Message: err.Error()}
}
