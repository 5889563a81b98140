package s2_scoring

import (
	"github.com/wonny/dvf-invest/backend/internal/contracts"
	"github.com/wonny/dvf-invest/backend/pkg/numeric"
)

// BuildZoneStats is pass 1: mean price per m², count and mean yield per (commune, department)
func BuildZoneStats(records []contracts.YieldRecord) contracts.ZoneStatsLookup {
	type acc struct {
		prices []float64
		yields []*float64
	}

	groups := make(map[contracts.ZoneKey]*acc)
	for i := range records {
		key := records[i].Zone()
		g, ok := groups[key]
		if !ok {
			g = &acc{}
			groups[key] = g
		}
		g.prices = append(g.prices, records[i].PricePerArea)
		g.yields = append(g.yields, records[i].GrossYield)
	}

	lookup := make(contracts.ZoneStatsLookup, len(groups))
	for key, g := range groups {
		lookup[key] = contracts.ZoneStats{
			Key:              key,
			MeanPricePerArea: numeric.Mean(g.prices),
			Transactions:     len(g.prices),
			MeanGrossYield:   numeric.MeanPtr(g.yields),
		}
	}
	return lookup
}
