package s2_scoring

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/dvf-invest/backend/internal/contracts"
)

func record(commune, dept string, pricePerArea, area float64, gross *float64) contracts.YieldRecord {
	return contracts.YieldRecord{
		Transaction: contracts.Transaction{
			Commune:        commune,
			DepartmentCode: dept,
			SaleValue:      pricePerArea * area,
			BuiltArea:      area,
			PricePerArea:   pricePerArea,
		},
		GrossYield: gross,
	}
}

func TestBuildZoneStats_KeyedByCommuneAndDepartment(t *testing.T) {
	records := []contracts.YieldRecord{
		record("Saint-Denis", "93", 4000, 50, ptr(6)),
		record("Saint-Denis", "93", 2000, 50, nil),
		record("Saint-Denis", "974", 3000, 50, ptr(8)),
	}

	lookup := BuildZoneStats(records)
	require.Len(t, lookup, 2)

	s93, ok := lookup.Get(contracts.ZoneKey{Commune: "Saint-Denis", Department: "93"})
	require.True(t, ok)
	assert.Equal(t, 2, s93.Transactions)
	assert.Equal(t, 3000.0, s93.MeanPricePerArea)
	require.NotNil(t, s93.MeanGrossYield)
	assert.Equal(t, 6.0, *s93.MeanGrossYield, "nil yields are ignored")

	s974, _ := lookup.Get(contracts.ZoneKey{Commune: "Saint-Denis", Department: "974"})
	assert.Equal(t, 1, s974.Transactions)
}

func TestEngine_ScoreRecords(t *testing.T) {
	records := []contracts.YieldRecord{
		record("Lyon", "69", 3000, 65, ptr(9)),
		record("Lyon", "69", 5000, 65, ptr(5)),
	}

	scored, lookup, err := NewEngine(Zone10Scorer{}, nil).ScoreRecords(context.Background(), records)
	require.NoError(t, err)
	require.Len(t, scored, 2)
	assert.Len(t, lookup, 1)

	// 존 평균 4000 → 0.75 / 1.25
	assert.Equal(t, 4000.0, scored[0].ZoneMeanPricePerArea)
	assert.Equal(t, 2, scored[0].ZoneTransactions)
	assert.Equal(t, 10, scored[0].PriceScore)
	assert.Equal(t, 0, scored[1].PriceScore)
	assert.Equal(t, contracts.ScaleZone10, scored[0].Scale)

	// 원본 레코드는 그대로
	assert.Equal(t, "Lyon", records[0].Commune)
}

func TestEngine_MissingZone(t *testing.T) {
	records := []contracts.YieldRecord{record("Lyon", "69", 3000, 65, nil)}

	_, err := NewEngine(Zone10Scorer{}, nil).Score(context.Background(), records, contracts.ZoneStatsLookup{})
	assert.True(t, errors.Is(err, contracts.ErrValidation))
}

func TestEngine_RentEstimatesOnlyWhenEnabled(t *testing.T) {
	rec := record("Lyon", "69", 2000, 60, nil)
	rec.RentPerArea = ptr(15)
	records := []contracts.YieldRecord{rec}
	lookup := BuildZoneStats(records)

	off, err := NewEngine(Row5Scorer{}, nil).Score(context.Background(), records, lookup)
	require.NoError(t, err)
	assert.Nil(t, off[0].EstimatedYield)

	on, err := NewEngine(Row5Scorer{}, nil).WithRentEstimates(true).Score(context.Background(), records, lookup)
	require.NoError(t, err)
	require.NotNil(t, on[0].EstimatedYield)
	assert.InDelta(t, 9.0, *on[0].EstimatedYield, 1e-9)
}

func TestFindOpportunities(t *testing.T) {
	var records []contracts.YieldRecord
	// Nantes: 12건 (존 유지), 1건은 면적 필터에서 제외
	for i := 0; i < 12; i++ {
		price := 3000.0
		if i == 0 {
			price = 2000 // 저평가
		}
		records = append(records, record("Nantes", "44", price, 60, nil))
	}
	records = append(records, record("Nantes", "44", 1000, 200, nil))
	// Rennes: 5건 → 제외
	for i := 0; i < 5; i++ {
		records = append(records, record("Rennes", "35", 2500, 60, nil))
	}

	opps, err := FindOpportunities(context.Background(), records, DefaultOpportunityCriteria(), nil)
	require.NoError(t, err)
	require.Len(t, opps, 12)

	for _, o := range opps {
		assert.Equal(t, "Nantes", o.Commune)
		assert.Equal(t, contracts.ScaleRow5, o.Scale)
		assert.Equal(t, 12, o.ZoneTransactions)
	}
	assert.Equal(t, 2000.0, opps[0].PricePerArea, "cheapest sale ranks first")
	for i := 1; i < len(opps); i++ {
		assert.GreaterOrEqual(t, opps[i-1].GlobalScore, opps[i].GlobalScore)
	}
}

func TestFindOpportunities_MaxPriceAndLimit(t *testing.T) {
	var records []contracts.YieldRecord
	for i := 0; i < 10; i++ {
		records = append(records, record("Brest", "29", 2000, 60, nil))
	}
	records = append(records, record("Brest", "29", 9000, 60, nil))

	criteria := DefaultOpportunityCriteria()
	criteria.MaxPricePerArea = ptr(5000)
	criteria.Limit = 3

	opps, err := FindOpportunities(context.Background(), records, criteria, nil)
	require.NoError(t, err)
	assert.Len(t, opps, 3)
	for _, o := range opps {
		assert.LessOrEqual(t, o.PricePerArea, 5000.0)
		assert.Equal(t, 10, o.ZoneTransactions)
	}
}
