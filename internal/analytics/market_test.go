package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/dvf-invest/backend/internal/contracts"
)

func onDay(t contracts.Transaction, day time.Time) contracts.Transaction {
	t.MutationDate = day
	t.Year = day.Year()
	t.Month = int(day.Month())
	return t
}

func TestDetectMarketAnomalies_HighVolumeDays(t *testing.T) {
	base := time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC)
	t0 := tx("Lille", "59", "Appartement", 2022, 200000, 50)

	var txs []contracts.Transaction
	for i := 0; i < 20; i++ {
		txs = append(txs, onDay(t0, base.AddDate(0, 0, i)))
	}
	// 2022-03-10 carries 10 sales in total
	for i := 0; i < 9; i++ {
		txs = append(txs, onDay(t0, base.AddDate(0, 0, 9)))
	}

	out := DetectMarketAnomalies(txs)
	require.NotNil(t, out.Temporal)
	assert.InDelta(t, 1.45, out.Temporal.Threshold, 1e-9)
	assert.Equal(t, 1, out.Temporal.HighVolumeDays)
	require.Len(t, out.Temporal.Days, 1)
	assert.Equal(t, VolumeDay{Date: "2022-03-10", Transactions: 10}, out.Temporal.Days[0])
}

func TestDetectMarketAnomalies_PriceGaps(t *testing.T) {
	var txs []contracts.Transaction
	txs = append(txs, repeat(5, tx("Lille", "59", "Appartement", 2022, 750000, 50))...)     // 15000/m²
	txs = append(txs, repeat(5, tx("Roubaix", "59", "Appartement", 2022, 100000, 50))...)   // 2000/m²
	txs = append(txs, repeat(10, tx("Tourcoing", "59", "Appartement", 2022, 400000, 50))...) // 8000/m²
	txs = append(txs, repeat(3, tx("Seclin", "59", "Appartement", 2022, 1000000, 50))...)   // 20000/m², < 5 tx
	deptMean := 225000.0 / 23

	out := DetectMarketAnomalies(txs)

	require.Equal(t, 1, out.Premiums.Count)
	assert.Equal(t, "Lille", out.Premiums.Communes[0].Commune)
	assert.Equal(t, "59", out.Premiums.Communes[0].Department)
	assert.Equal(t, 15000.0, out.Premiums.Communes[0].PricePerArea)
	assert.InDelta(t, (15000/deptMean-1)*100, out.Premiums.Communes[0].GapPercent, 1e-9)

	require.Equal(t, 1, out.Discounts.Count)
	assert.Equal(t, "Roubaix", out.Discounts.Communes[0].Commune)
	assert.InDelta(t, (2000/deptMean-1)*100, out.Discounts.Communes[0].GapPercent, 1e-9)
}

func TestDetectMarketAnomalies_Ordering(t *testing.T) {
	var txs []contracts.Transaction
	// dept 75 mean = 10000/m² ; A +100%, B +60%, C -40%, D -70%
	txs = append(txs, repeat(5, tx("A", "75", "Appartement", 2022, 1000000, 50))...)
	txs = append(txs, repeat(5, tx("B", "75", "Appartement", 2022, 800000, 50))...)
	txs = append(txs, repeat(5, tx("C", "75", "Appartement", 2022, 300000, 50))...)
	txs = append(txs, repeat(5, tx("D", "75", "Appartement", 2022, 150000, 50))...)
	txs = append(txs, repeat(10, tx("E", "75", "Appartement", 2022, 375000, 50))...)

	out := DetectMarketAnomalies(txs)

	var premiums, discounts []string
	for _, g := range out.Premiums.Communes {
		premiums = append(premiums, g.Commune)
	}
	for _, g := range out.Discounts.Communes {
		discounts = append(discounts, g.Commune)
	}
	assert.Equal(t, []string{"A", "B"}, premiums)
	assert.Equal(t, []string{"D", "C"}, discounts)
}

func TestDetectMarketAnomalies_Empty(t *testing.T) {
	out := DetectMarketAnomalies(nil)
	assert.Nil(t, out.Temporal)
	assert.Equal(t, 0, out.Premiums.Count)
	assert.Empty(t, out.Premiums.Communes)
	assert.NotNil(t, out.Discounts.Communes)
}

func TestAnalyzeInvestmentMarket_Segments(t *testing.T) {
	txs := []contracts.Transaction{
		tx("Lille", "59", "Appartement", 2022, 60000, 20),
		tx("Lille", "59", "Appartement", 2022, 120000, 30),
		tx("Lille", "59", "Appartement", 2022, 160000, 40),
		tx("Lille", "59", "Maison", 2022, 600000, 200),
	}

	out := AnalyzeInvestmentMarket(txs)
	require.Len(t, out.Segments, 6)

	tests := []struct {
		segment string
		count   int
		perArea float64
		value   float64
		area    float64
	}{
		{"<30m²", 2, 3500, 90000, 25},
		{"30-50m²", 1, 4000, 160000, 40},
		{"50-70m²", 0, 0, 0, 0},
		{"70-100m²", 0, 0, 0, 0},
		{"100-150m²", 0, 0, 0, 0},
		{">150m²", 1, 3000, 600000, 200},
	}
	for i, tt := range tests {
		t.Run(tt.segment, func(t *testing.T) {
			seg := out.Segments[i]
			assert.Equal(t, tt.segment, seg.Segment)
			assert.Equal(t, tt.count, seg.Transactions)
			assert.InDelta(t, tt.perArea, seg.MeanPricePerArea, 1e-9)
			assert.InDelta(t, tt.value, seg.MeanValue, 1e-9)
			assert.InDelta(t, tt.area, seg.MeanBuiltArea, 1e-9)
		})
	}
}

func TestAnalyzeInvestmentMarket_Yields(t *testing.T) {
	const local = "Local industriel. commercial ou assimilé"
	var txs []contracts.Transaction
	txs = append(txs, repeat(3, tx("Lille", "59", "Appartement", 2022, 200000, 50))...)
	txs = append(txs, repeat(2, tx("Lille", "59", "Maison", 2022, 300000, 100))...)
	txs = append(txs, repeat(2, tx("Lille", "59", local, 2022, 100000, 100))...)
	txs = append(txs, tx("Lille", "59", "Dépendance", 2022, 10000, 10))

	out := AnalyzeInvestmentMarket(txs)
	require.Len(t, out.Yields, 3)

	tests := []struct {
		typ   string
		count int
		rate  float64
		rent  float64
	}{
		{"Appartement", 3, 0.009, 1800},
		{local, 2, 0.007, 700},
		{"Maison", 2, 0.008, 2400},
	}
	for i, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			y := out.Yields[i]
			assert.Equal(t, tt.typ, y.PropertyType)
			assert.Equal(t, tt.count, y.Transactions)
			assert.Equal(t, tt.rate, y.MonthlyRate)
			assert.InDelta(t, tt.rent, y.MonthlyRent, 1e-6)
			assert.InDelta(t, tt.rate*1200, y.GrossYield, 1e-9)
		})
	}

	other := AnalyzeInvestmentMarket([]contracts.Transaction{tx("Lille", "59", "Dépendance", 2022, 10000, 10)})
	require.Len(t, other.Yields, 1)
	assert.Equal(t, DefaultMonthlyRentRate, other.Yields[0].MonthlyRate)
}
