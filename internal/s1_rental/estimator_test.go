package s1_rental

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/dvf-invest/backend/internal/contracts"
	"github.com/wonny/dvf-invest/backend/pkg/logger"
)

func tx(dept string, value, area float64) contracts.Transaction {
	return contracts.Transaction{
		Commune:        "Commune " + dept,
		DepartmentCode: dept,
		SaleValue:      value,
		BuiltArea:      area,
		PricePerArea:   value / area,
	}
}

func TestEstimate_Simulated(t *testing.T) {
	e := NewEstimator(DefaultEstimatorConfig(), nil)
	txs := []contracts.Transaction{tx("69", 264000, 60)}

	records, report, err := e.Estimate(context.Background(), txs, nil)
	require.NoError(t, err)
	require.Len(t, records, 1)

	r := records[0]
	assert.Equal(t, contracts.RentSimulated, report.Mode)
	assert.Equal(t, contracts.RentSimulated, r.RentSource)
	require.NotNil(t, r.MonthlyRent)
	assert.InDelta(t, 1000.0, *r.MonthlyRent, 1e-9) // 264000 / 264
	assert.InDelta(t, 1000.0/60, *r.RentPerArea, 1e-9)

	// 22년 비율 → 총수익률 100/22
	require.NotNil(t, r.GrossYield)
	assert.InDelta(t, 100.0/22, *r.GrossYield, 1e-9)
	assert.InDelta(t, 100.0/22*0.75, *r.NetYield, 1e-9)
	assert.Equal(t, contracts.ClassGood, r.YieldClass)
	assert.Equal(t, 0, report.NullYields)
}

func TestEstimate_Referenced(t *testing.T) {
	var buf bytes.Buffer
	e := NewEstimator(DefaultEstimatorConfig(), logger.NewWithWriter(&buf, "info"))
	txs := []contracts.Transaction{
		tx("1", 100000, 50),
		tx("69", 200000, 50),
		tx("2A", 150000, 50),
		tx("13", 150000, 50),
	}
	refs := []contracts.RentReference{
		{DepartmentCode: "1.0", MedianRentPerArea: 12},
		{DepartmentCode: "69", MedianRentPerArea: 14},
		{DepartmentCode: "2A", MedianRentPerArea: 15},
	}

	records, report, err := e.Estimate(context.Background(), txs, refs)
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, contracts.RentReferenced, report.Mode)

	// 50 m² × 12 €/m² = 600 → 600*12/100000*100 = 7.2%
	require.NotNil(t, records[0].GrossYield)
	assert.InDelta(t, 600.0, *records[0].MonthlyRent, 1e-9)
	assert.InDelta(t, 7.2, *records[0].GrossYield, 1e-9)
	assert.Equal(t, contracts.ClassVeryGood, records[0].YieldClass)

	require.NotNil(t, records[2].GrossYield, "2A must match")

	// 13 → 매칭 실패 → nil
	assert.Nil(t, records[3].MonthlyRent)
	assert.Nil(t, records[3].GrossYield)
	assert.Nil(t, records[3].NetYield)
	assert.Empty(t, records[3].YieldClass)

	assert.Equal(t, 1, report.NullYields)
	assert.Equal(t, 0, report.Dropped)
	assert.Equal(t, []string{"13"}, report.UnmatchedDepartments)
	assert.Contains(t, buf.String(), "Yield estimation completed with 1 unmatched departments")
	assert.Contains(t, buf.String(), `"level":"warn"`)
}

func TestEstimate_DropPolicy(t *testing.T) {
	cfg := DefaultEstimatorConfig()
	cfg.NullYieldPolicy = contracts.NullYieldDrop
	e := NewEstimator(cfg, nil)

	txs := []contracts.Transaction{tx("69", 200000, 50), tx("13", 150000, 50)}
	refs := []contracts.RentReference{{DepartmentCode: "69", MedianRentPerArea: 14}}

	records, report, err := e.Estimate(context.Background(), txs, refs)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "69", records[0].DepartmentCode)
	assert.Equal(t, 1, report.Dropped)
	assert.Equal(t, 1, report.Records)
}

func TestEstimate_InvalidPolicy(t *testing.T) {
	cfg := DefaultEstimatorConfig()
	cfg.NullYieldPolicy = "mean"

	_, _, err := NewEstimator(cfg, nil).Estimate(context.Background(), nil, nil)
	assert.True(t, errors.Is(err, contracts.ErrValidation))
}

func TestEstimate_DoesNotMutateInput(t *testing.T) {
	txs := []contracts.Transaction{tx("69", 200000, 50)}
	records, _, err := NewEstimator(DefaultEstimatorConfig(), nil).Estimate(context.Background(), txs, nil)
	require.NoError(t, err)

	records[0].SaleValue = 1
	assert.Equal(t, 200000.0, txs[0].SaleValue)
}

func TestEstimateRentalYield(t *testing.T) {
	assert.Nil(t, EstimateRentalYield(0, 500))
	assert.Nil(t, EstimateRentalYield(-1, 500))
	assert.Nil(t, EstimateRentalYield(100000, 0))

	y := EstimateRentalYield(100000, 500)
	require.NotNil(t, y)
	assert.InDelta(t, 6.0, *y, 1e-9)
}

func TestEstimateMonthlyRent(t *testing.T) {
	assert.Nil(t, EstimateMonthlyRent(0, 10))
	assert.Nil(t, EstimateMonthlyRent(50, 0))
	assert.Equal(t, 500.0, *EstimateMonthlyRent(50, 10))
}

func TestClassifyYield(t *testing.T) {
	tests := []struct {
		gross float64
		want  string
	}{
		{9, contracts.ClassExcellent},
		{8, contracts.ClassExcellent},
		{7.99, contracts.ClassVeryGood},
		{6, contracts.ClassVeryGood},
		{4, contracts.ClassGood},
		{3, contracts.ClassAverage},
		{2.99, contracts.ClassWeak},
		{0, contracts.ClassWeak},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyYield(tt.gross), "gross=%v", tt.gross)
	}
}

func TestClassifyYield_Monotonic(t *testing.T) {
	rank := map[string]int{
		contracts.ClassWeak:      0,
		contracts.ClassAverage:   1,
		contracts.ClassGood:      2,
		contracts.ClassVeryGood:  3,
		contracts.ClassExcellent: 4,
	}

	prev := -1
	for y := 0.0; y <= 12; y += 0.05 {
		r := rank[ClassifyYield(y)]
		assert.GreaterOrEqual(t, r, prev, "class dropped at %.2f", y)
		prev = r
	}
}

func TestNormalizeDepartment(t *testing.T) {
	tests := map[string]string{
		"1":    "01",
		"1.0":  "01",
		"01":   "01",
		"69":   "69",
		"69.0": "69",
		"2A":   "2A",
		"2b":   "2B",
		"971":  "971",
		" 75 ": "75",
	}

	for in, want := range tests {
		assert.Equal(t, want, NormalizeDepartment(in), "input %q", in)
	}
}
