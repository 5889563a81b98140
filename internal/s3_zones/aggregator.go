package s3_zones

import (
	"context"
	"fmt"
	"sort"

	"github.com/wonny/dvf-invest/backend/internal/contracts"
	"github.com/wonny/dvf-invest/backend/pkg/logger"
	"github.com/wonny/dvf-invest/backend/pkg/numeric"
)

// AggregatorConfig holds the zone retention rule
type AggregatorConfig struct {
	MinTransactions int `yaml:"min_transactions"` // 기본 10
}

// DefaultAggregatorConfig returns the standard retention rule
func DefaultAggregatorConfig() AggregatorConfig {
	return AggregatorConfig{MinTransactions: 10}
}

// Aggregator groups zone10 scored records into zones.
// It keeps no state between calls.
type Aggregator struct {
	config AggregatorConfig
	log    *logger.Logger
}

// NewAggregator creates a new Aggregator
func NewAggregator(config AggregatorConfig, log *logger.Logger) *Aggregator {
	if log == nil {
		log = logger.Nop()
	}
	return &Aggregator{
		config: config,
		log:    log.Component("s3_zones.aggregator"),
	}
}

// zoneAcc collects the records of one zone
type zoneAcc struct {
	key        contracts.ZoneKey
	global     []float64
	price      []float64
	value      []float64
	area       []float64
	priceScore []float64
	liquidity  []float64
	size       []float64
	yieldScore []float64
	yields     []*float64
}

// Aggregate returns the retained zones sorted by mean global score.
// Equal scores keep the order in which the zones first appear.
// ⭐ SSOT: S3 점수 레코드 → 존
func (a *Aggregator) Aggregate(ctx context.Context, scored []contracts.ScoredRecord) ([]contracts.Zone, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	groups := make(map[contracts.ZoneKey]*zoneAcc)
	order := make([]contracts.ZoneKey, 0)

	for i := range scored {
		rec := &scored[i]
		if rec.Scale != contracts.ScaleZone10 {
			return nil, &contracts.ValidationError{
				Field:   "scale",
				Message: fmt.Sprintf("zone aggregation needs %s scores, got %q", contracts.ScaleZone10, rec.Scale),
			}
		}

		key := rec.Zone()
		g, ok := groups[key]
		if !ok {
			g = &zoneAcc{key: key}
			groups[key] = g
			order = append(order, key)
		}
		g.global = append(g.global, rec.GlobalScore)
		g.price = append(g.price, rec.PricePerArea)
		g.value = append(g.value, rec.SaleValue)
		g.area = append(g.area, rec.BuiltArea)
		g.priceScore = append(g.priceScore, float64(rec.PriceScore))
		g.liquidity = append(g.liquidity, float64(rec.LiquidityScore))
		g.size = append(g.size, float64(rec.SizeScore))
		g.yieldScore = append(g.yieldScore, float64(rec.YieldScore))
		g.yields = append(g.yields, rec.GrossYield)
	}

	zones := make([]contracts.Zone, 0, len(order))
	belowMin := 0
	for _, key := range order {
		g := groups[key]
		if len(g.global) < a.config.MinTransactions {
			belowMin++
			continue
		}
		zones = append(zones, g.zone())
	}

	sort.SliceStable(zones, func(i, j int) bool {
		return zones[i].GlobalScore > zones[j].GlobalScore
	})

	a.log.WithFields(map[string]interface{}{
		"input_records":    len(scored),
		"zones":            len(groups),
		"retained":         len(zones),
		"below_min":        belowMin,
		"min_transactions": a.config.MinTransactions,
	}).Info("Zone aggregation completed")

	return zones, nil
}

func (g *zoneAcc) zone() contracts.Zone {
	mean := func(v []float64) float64 { return numeric.Round(numeric.Mean(v), 2) }

	z := contracts.Zone{
		Commune:        g.key.Commune,
		Department:     g.key.Department,
		GlobalScore:    mean(g.global),
		PricePerArea:   mean(g.price),
		MeanPrice:      mean(g.value),
		Transactions:   len(g.global),
		MeanBuiltArea:  mean(g.area),
		PriceScore:     mean(g.priceScore),
		LiquidityScore: mean(g.liquidity),
		SizeScore:      mean(g.size),
		YieldScore:     mean(g.yieldScore),
	}

	if y := numeric.MeanPtr(g.yields); y != nil {
		rounded := numeric.Round(*y, 2)
		z.GrossYield = &rounded
		// rentabilite_prix = rendement × score_prix / 100
		idx := rounded * z.PriceScore / 100
		z.ProfitabilityIndex = &idx
	}

	z.Category = Categorize(z.GlobalScore)
	return z
}

// Categorize maps a 0~10 zone score to its category
func Categorize(score float64) string {
	switch {
	case score >= 7:
		return contracts.ZonePremium
	case score >= 5:
		return contracts.ZoneAttractive
	case score >= 3:
		return contracts.ZoneCorrect
	default:
		return contracts.ZoneAvoid
	}
}
