package contracts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationErrorIs(t *testing.T) {
	err := MissingColumn(ColSaleValue)

	assert.ErrorIs(t, err, ErrValidation)
	assert.EqualError(t, err, "valeur_fonciere: required column missing")
	assert.ErrorIs(t, ErrNotCleaned, ErrValidation)
}

func TestCleaningReport_IsConsistent(t *testing.T) {
	tests := []struct {
		name   string
		report CleaningReport
		want   bool
	}{
		{"consistent", CleaningReport{OriginalRows: 200, CleanedRows: 175, RemovedRows: 25}, true},
		{"empty", CleaningReport{}, true},
		{"inconsistent", CleaningReport{OriginalRows: 200, CleanedRows: 170, RemovedRows: 25}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.report.IsConsistent())
		})
	}
}

func TestZoneHelpers(t *testing.T) {
	z := Zone{Commune: "Lyon", Department: "69", Category: ZoneAttractive}

	assert.Equal(t, "Lyon (69)", z.Key().String())
	assert.True(t, z.IsAttractive())

	z.Category = ZoneCorrect
	assert.False(t, z.IsAttractive(), "Zone Correct must not be attractive")

	lookup := ZoneStatsLookup{z.Key(): {Key: z.Key(), Transactions: 12}}
	s, ok := lookup.Get(ZoneKey{Commune: "Lyon", Department: "69"})
	require.True(t, ok)
	assert.Equal(t, 12, s.Transactions)

	_, ok = lookup.Get(ZoneKey{Commune: "Lyon", Department: "01"})
	assert.False(t, ok, "same commune in another department must not match")
}

func TestRecommendationHelpers(t *testing.T) {
	empty := &Recommendation{Message: NoMatchMessage}
	assert.False(t, empty.HasMatches())
	_, ok := empty.Best()
	assert.False(t, ok)

	rec := &Recommendation{Top5Global: []ZonePick{{Commune: "Nantes", GlobalScore: 8.1}}}
	best, ok := rec.Best()
	require.True(t, ok)
	assert.True(t, rec.HasMatches())
	assert.Equal(t, "Nantes", best.Commune)

	fr := &FilterResult{NoMatch: &NoMatch{Message: NoMatchMessage}}
	assert.False(t, fr.HasMatches())
}
