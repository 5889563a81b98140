package selection

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/dvf-invest/backend/internal/contracts"
)

func filtered(budget float64, zones ...contracts.Zone) *contracts.FilterResult {
	return &contracts.FilterResult{Criteria: DefaultCriteria(budget), Zones: zones}
}

func communes(picks []contracts.ZonePick) []string {
	out := make([]string, len(picks))
	for i, p := range picks {
		out[i] = p.Commune
	}
	return out
}

func TestRank(t *testing.T) {
	a := zone("A", "69", 6.0, 100000, 60, ptr(5))
	a.PriceScore = 4
	b := zone("B", "69", 8.0, 200000, 60, nil)
	b.PriceScore = 9
	c := zone("C", "13", 7.0, 150000, 60, ptr(8))
	c.PriceScore = 6
	d := zone("D", "13", 5.0, 120000, 60, ptr(6))
	d.PriceScore = 9
	e := zone("E", "33", 4.0, 250000, 60, ptr(4.5))
	f := zone("F", "33", 3.0, 90000, 60, ptr(4.2))

	rec, err := NewRanker(DefaultRankerConfig(), nil).Rank(context.Background(), filtered(250000, a, b, c, d, e, f))
	require.NoError(t, err)
	require.True(t, rec.HasMatches())

	assert.Equal(t, []string{"B", "C", "A", "D", "E"}, communes(rec.Top5Global))
	assert.Equal(t, []string{"C", "D", "A"}, communes(rec.MaxYield), "nil yields excluded")
	assert.Equal(t, []string{"B", "D", "C"}, communes(rec.Attractive), "ties keep input order")
	assert.Equal(t, []string{"B", "C", "A"}, communes(rec.Balanced))

	best, ok := rec.Best()
	require.True(t, ok)
	assert.Equal(t, "B", best.Commune)

	// 69: (6+8)/2=7, 13: 6, 33: 3.5
	require.Len(t, rec.Departments, 3)
	assert.Equal(t, "69", rec.Departments[0].Department)
	assert.Equal(t, 7.0, rec.Departments[0].MeanGlobalScore)
	assert.Equal(t, 2, rec.Departments[0].AttractiveCommunes)
	require.NotNil(t, rec.Departments[0].MeanGrossYield)
	assert.Equal(t, 5.0, *rec.Departments[0].MeanGrossYield)
	assert.Equal(t, "13", rec.Departments[1].Department)
	assert.Equal(t, "33", rec.Departments[2].Department)

	p := rec.Portfolio
	require.NotNil(t, p)
	assert.Equal(t, 6, p.EligibleZones)
	assert.Equal(t, "36.0% - 100.0%", p.BudgetUtilisation)
	assert.InDelta(t, 5.5, p.MeanGlobalScore, 1e-9)
	require.NotNil(t, p.MeanGrossYield)
	assert.InDelta(t, (5+8+6+4.5+4.2)/5, *p.MeanGrossYield, 1e-9)
}

func TestRank_NoMatch(t *testing.T) {
	in := &contracts.FilterResult{
		Criteria: DefaultCriteria(1000),
		NoMatch:  &contracts.NoMatch{Message: contracts.NoMatchMessage},
	}

	rec, err := NewRanker(DefaultRankerConfig(), nil).Rank(context.Background(), in)
	require.NoError(t, err)
	assert.False(t, rec.HasMatches())
	assert.Equal(t, contracts.NoMatchMessage, rec.Message)
	assert.Empty(t, rec.Top5Global)
	assert.Nil(t, rec.Portfolio)
}

func TestRank_ZeroBudget(t *testing.T) {
	rec, err := NewRanker(DefaultRankerConfig(), nil).Rank(context.Background(), filtered(0, zone("A", "01", 5, 0, 60, nil)))
	require.NoError(t, err)
	assert.Equal(t, "0.0% - 0.0%", rec.Portfolio.BudgetUtilisation)
	assert.Nil(t, rec.Portfolio.MeanGrossYield)
	assert.Empty(t, rec.MaxYield)
}

func TestRank_StableTopList(t *testing.T) {
	zones := []contracts.Zone{
		zone("Z1", "01", 5, 1, 60, nil),
		zone("Z2", "01", 5, 1, 60, nil),
		zone("Z3", "01", 5, 1, 60, nil),
	}

	rec, err := NewRanker(RankerConfig{TopN: 2, StrategyTopN: 1}, nil).Rank(context.Background(), filtered(10, zones...))
	require.NoError(t, err)
	assert.Equal(t, []string{"Z1", "Z2"}, communes(rec.Top5Global))
	assert.Equal(t, []string{"Z1"}, communes(rec.Balanced))
}

func TestRank_NilInput(t *testing.T) {
	_, err := NewRanker(DefaultRankerConfig(), nil).Rank(context.Background(), nil)
	assert.Error(t, err)
}
