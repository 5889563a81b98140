package selection

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/dvf-invest/backend/internal/contracts"
)

func sale(commune string, value, area float64) contracts.Transaction {
	return contracts.Transaction{
		Commune:        commune,
		DepartmentCode: "69",
		SaleValue:      value,
		BuiltArea:      area,
		PricePerArea:   value / area,
		PropertyType:   "Appartement",
		Year:           2022,
	}
}

func profileSales() []contracts.Transaction {
	return []contracts.Transaction{
		sale("Lyon", 150000, 50), // 3000 €/m²
		sale("Lyon", 200000, 50), // 4000 €/m²
		sale("Lyon", 250000, 50), // 5000 €/m²
		sale("Bron", 120000, 60), // 2000 €/m²
	}
}

func request(profile contracts.InvestorProfile) contracts.ProfileRequest {
	return contracts.ProfileRequest{Profile: profile, BudgetMax: 300000, SurfaceMin: 30, SurfaceMax: 120}
}

func pricesOf(picks []contracts.ProfilePick) []float64 {
	out := make([]float64, len(picks))
	for i, p := range picks {
		out[i] = p.PricePerArea
	}
	return out
}

func TestRecommend_Beginner(t *testing.T) {
	rec, err := NewProfileRecommender(nil).Recommend(context.Background(), profileSales(), request(contracts.ProfileBeginner))
	require.NoError(t, err)

	assert.Equal(t, contracts.ProfileBeginner, rec.Profile)
	assert.Equal(t, ScoreSafety, rec.ScoreName)
	assert.Equal(t, 4, rec.AnalysedProperties)
	assert.Equal(t, []float64{2000, 3000, 4000, 5000}, pricesOf(rec.Recommendations))
	assert.Equal(t, Advice(contracts.ProfileBeginner), rec.Advice)
	assert.Empty(t, rec.Message)

	require.Len(t, rec.ZonesAnalysis, 2)
	lyon := rec.ZonesAnalysis[0]
	assert.Equal(t, "Lyon", lyon.Commune)
	assert.Equal(t, 3, lyon.Recommendations)
	assert.Equal(t, 200000.0, lyon.MedianPrice)
	assert.Equal(t, 4000.0, lyon.MedianPricePerArea)
	assert.Equal(t, 50.0, lyon.MedianArea)
}

func TestRecommend_Experienced(t *testing.T) {
	rec, err := NewProfileRecommender(nil).Recommend(context.Background(), profileSales(), request(contracts.ProfileExperienced))
	require.NoError(t, err)

	assert.Equal(t, ScoreOpportunity, rec.ScoreName)
	// 코뮌 중앙값 대비 저평가 매물이 우선
	assert.Equal(t, []float64{3000, 4000, 2000, 5000}, pricesOf(rec.Recommendations))
}

func TestRecommend_UnknownProfileFallsBackToBalanced(t *testing.T) {
	rec, err := NewProfileRecommender(nil).Recommend(context.Background(), profileSales(), request("agressif"))
	require.NoError(t, err)

	assert.Equal(t, contracts.ProfileBalanced, rec.Profile)
	assert.Equal(t, ScoreBalance, rec.ScoreName)
	assert.Len(t, rec.Advice, 5)
}

func TestRecommend_FiltersAndLimit(t *testing.T) {
	sales := append(profileSales(), sale("Lyon", 900000, 50), sale("Lyon", 100000, 20))
	req := request(contracts.ProfileBalanced)
	req.Limit = 2

	rec, err := NewProfileRecommender(nil).Recommend(context.Background(), sales, req)
	require.NoError(t, err)
	assert.Equal(t, 4, rec.AnalysedProperties, "over budget and too small sales are filtered")
	assert.Len(t, rec.Recommendations, 2)
	assert.Equal(t, [2]float64{30, 120}, rec.SurfaceRange)
}

func TestRecommend_NoMatch(t *testing.T) {
	req := request(contracts.ProfileBeginner)
	req.BudgetMax = 1000

	rec, err := NewProfileRecommender(nil).Recommend(context.Background(), profileSales(), req)
	require.NoError(t, err)
	assert.Equal(t, contracts.NoPropertyMessage, rec.Message)
	assert.Empty(t, rec.Recommendations)
}

func TestRecommend_InvalidRequest(t *testing.T) {
	req := request(contracts.ProfileBeginner)
	req.SurfaceMin = 200

	_, err := NewProfileRecommender(nil).Recommend(context.Background(), profileSales(), req)
	assert.True(t, errors.Is(err, contracts.ErrValidation))
}

func TestAdvice_ReturnsCopy(t *testing.T) {
	a := Advice(contracts.ProfileExperienced)
	a[0] = "changed"
	assert.NotEqual(t, "changed", Advice(contracts.ProfileExperienced)[0])
}
