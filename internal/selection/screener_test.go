package selection

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/dvf-invest/backend/internal/contracts"
)

func ptr(v float64) *float64 { return &v }

func zone(commune, dept string, global, price, area float64, gross *float64) contracts.Zone {
	return contracts.Zone{
		Commune:       commune,
		Department:    dept,
		GlobalScore:   global,
		MeanPrice:     price,
		MeanBuiltArea: area,
		Transactions:  20,
		GrossYield:    gross,
	}
}

func TestFilter(t *testing.T) {
	zones := []contracts.Zone{
		zone("Lyon", "69", 8.1, 350000, 60, ptr(6)),   // budget
		zone("Lille", "59", 7.5, 250000, 60, ptr(5)),  // ok
		zone("Brest", "29", 6.0, 150000, 25, ptr(7)),  // surface_min
		zone("Nancy", "54", 5.5, 180000, 130, ptr(7)), // surface_max
		zone("Reims", "51", 5.0, 160000, 70, ptr(3)),  // yield
		zone("Dijon", "21", 4.9, 200000, 70, nil),     // yield skipped
	}

	result, err := NewFilter(nil).Filter(context.Background(), zones, DefaultCriteria(300000))
	require.NoError(t, err)
	require.True(t, result.HasMatches())
	require.Len(t, result.Zones, 2)

	assert.Equal(t, "Lille", result.Zones[0].Commune)
	assert.Equal(t, "Dijon", result.Zones[1].Commune)
	assert.Equal(t, map[string]int{
		ExcludedBudget:     1,
		ExcludedSurfaceMin: 1,
		ExcludedSurfaceMax: 1,
		ExcludedYield:      1,
	}, result.Excluded)

	for _, z := range result.Zones {
		assert.LessOrEqual(t, z.MeanPrice, 300000.0)
		assert.GreaterOrEqual(t, z.MeanBuiltArea, 30.0)
		assert.LessOrEqual(t, z.MeanBuiltArea, 120.0)
		if z.GrossYield != nil {
			assert.GreaterOrEqual(t, *z.GrossYield, 4.0)
		}
	}
}

func TestFilter_BudgetExcludesRegardlessOfScore(t *testing.T) {
	zones := []contracts.Zone{zone("Paris", "75", 9.9, 300000.01, 60, ptr(9))}

	result, err := NewFilter(nil).Filter(context.Background(), zones, DefaultCriteria(300000))
	require.NoError(t, err)
	assert.Empty(t, result.Zones)
}

func TestFilter_NoMatch(t *testing.T) {
	zones := []contracts.Zone{zone("Paris", "75", 9, 900000, 60, ptr(5))}

	result, err := NewFilter(nil).Filter(context.Background(), zones, DefaultCriteria(100000))
	require.NoError(t, err, "empty result is not an error")
	assert.False(t, result.HasMatches())
	require.NotNil(t, result.NoMatch)
	assert.Equal(t, contracts.NoMatchMessage, result.NoMatch.Message)
}

func TestFilter_InvalidCriteria(t *testing.T) {
	tests := []struct {
		name     string
		criteria contracts.Criteria
	}{
		{"negative budget", contracts.Criteria{BudgetMax: -1, SurfaceMin: 30, SurfaceMax: 120}},
		{"inverted surface", contracts.Criteria{BudgetMax: 1, SurfaceMin: 120, SurfaceMax: 30}},
		{"negative yield", contracts.Criteria{BudgetMax: 1, SurfaceMin: 30, SurfaceMax: 120, YieldMin: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFilter(nil).Filter(context.Background(), nil, tt.criteria)
			require.Error(t, err)
			assert.True(t, errors.Is(err, contracts.ErrValidation))
		})
	}
}

func TestFilter_ZeroBudgetIsValid(t *testing.T) {
	result, err := NewFilter(nil).Filter(context.Background(), []contracts.Zone{zone("A", "01", 5, 1, 60, nil)}, DefaultCriteria(0))
	require.NoError(t, err)
	assert.False(t, result.HasMatches())
}
