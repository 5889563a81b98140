package selection

import (
	"context"
	"fmt"
	"sort"

	"github.com/wonny/dvf-invest/backend/internal/contracts"
	"github.com/wonny/dvf-invest/backend/pkg/logger"
	"github.com/wonny/dvf-invest/backend/pkg/numeric"
)

// RankerConfig defines the list sizes
type RankerConfig struct {
	TopN         int `yaml:"top_n"`          // 기본 5
	StrategyTopN int `yaml:"strategy_top_n"` // 기본 3
}

// DefaultRankerConfig returns the default list sizes
func DefaultRankerConfig() RankerConfig {
	return RankerConfig{TopN: 5, StrategyTopN: 3}
}

// Ranker implements S5: ranked lists over the filtered zones
// ⭐ SSOT: S5 랭킹 로직은 여기서만
type Ranker struct {
	config RankerConfig
	logger *logger.Logger
}

// NewRanker creates a new ranker
func NewRanker(config RankerConfig, log *logger.Logger) *Ranker {
	if log == nil {
		log = logger.Nop()
	}
	if config.TopN <= 0 {
		config.TopN = 5
	}
	if config.StrategyTopN <= 0 {
		config.StrategyTopN = 3
	}
	return &Ranker{config: config, logger: log.Component("selection.ranker")}
}

// Rank builds the recommendation bundle.
// All sorts are stable: equal values keep the filter output order.
func (r *Ranker) Rank(ctx context.Context, filtered *contracts.FilterResult) (*contracts.Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if filtered == nil {
		return nil, &contracts.ValidationError{Field: "filter_result", Message: "required"}
	}

	if !filtered.HasMatches() {
		msg := contracts.NoMatchMessage
		if filtered.NoMatch != nil && filtered.NoMatch.Message != "" {
			msg = filtered.NoMatch.Message
		}
		r.logger.Info("Ranking skipped: no eligible zone")
		return &contracts.Recommendation{Message: msg}, nil
	}

	zones := filtered.Zones
	rec := &contracts.Recommendation{
		Top5Global:  r.topBy(zones, r.config.TopN, byGlobal),
		MaxYield:    r.topBy(withYield(zones), r.config.StrategyTopN, byYield),
		Attractive:  r.topBy(zones, r.config.StrategyTopN, byPriceScore),
		Balanced:    r.topBy(zones, r.config.StrategyTopN, byGlobal),
		Departments: analyzeDepartments(zones),
		Portfolio:   portfolioStats(zones, filtered.Criteria.BudgetMax),
	}

	best, _ := rec.Best()
	r.logger.WithFields(map[string]interface{}{
		"eligible_zones": len(zones),
		"departments":    len(rec.Departments),
		"top_score":      best.GlobalScore,
		"top_zone":       best.Commune,
	}).Info("Ranking completed")

	return rec, nil
}

type zoneLess func(a, b *contracts.Zone) bool

func byGlobal(a, b *contracts.Zone) bool     { return a.GlobalScore > b.GlobalScore }
func byPriceScore(a, b *contracts.Zone) bool { return a.PriceScore > b.PriceScore }
func byYield(a, b *contracts.Zone) bool      { return *a.GrossYield > *b.GrossYield }

// topBy stable-sorts a copy and keeps the first n
func (r *Ranker) topBy(zones []contracts.Zone, n int, less zoneLess) []contracts.ZonePick {
	sorted := make([]contracts.Zone, len(zones))
	copy(sorted, zones)
	sort.SliceStable(sorted, func(i, j int) bool {
		return less(&sorted[i], &sorted[j])
	})

	if len(sorted) > n {
		sorted = sorted[:n]
	}
	picks := make([]contracts.ZonePick, 0, len(sorted))
	for i := range sorted {
		picks = append(picks, toPick(&sorted[i]))
	}
	return picks
}

// withYield drops zones without yield (max-yield strategy)
func withYield(zones []contracts.Zone) []contracts.Zone {
	out := make([]contracts.Zone, 0, len(zones))
	for _, z := range zones {
		if z.GrossYield != nil {
			out = append(out, z)
		}
	}
	return out
}

func toPick(z *contracts.Zone) contracts.ZonePick {
	return contracts.ZonePick{
		Commune:      z.Commune,
		Department:   z.Department,
		GlobalScore:  z.GlobalScore,
		GrossYield:   z.GrossYield,
		MeanPrice:    z.MeanPrice,
		PricePerArea: z.PricePerArea,
		PriceScore:   z.PriceScore,
		Category:     z.Category,
	}
}

// analyzeDepartments groups the eligible zones by department
func analyzeDepartments(zones []contracts.Zone) []contracts.DepartmentStat {
	type acc struct {
		scores []float64
		yields []*float64
		prices []float64
	}

	groups := make(map[string]*acc)
	order := make([]string, 0)
	for _, z := range zones {
		g, ok := groups[z.Department]
		if !ok {
			g = &acc{}
			groups[z.Department] = g
			order = append(order, z.Department)
		}
		g.scores = append(g.scores, z.GlobalScore)
		g.yields = append(g.yields, z.GrossYield)
		g.prices = append(g.prices, z.MeanPrice)
	}

	stats := make([]contracts.DepartmentStat, 0, len(order))
	for _, dept := range order {
		g := groups[dept]
		stat := contracts.DepartmentStat{
			Department:         dept,
			MeanGlobalScore:    numeric.Round(numeric.Mean(g.scores), 2),
			MeanPrice:          numeric.Round(numeric.Mean(g.prices), 2),
			AttractiveCommunes: len(g.scores),
		}
		if y := numeric.MeanPtr(g.yields); y != nil {
			rounded := numeric.Round(*y, 2)
			stat.MeanGrossYield = &rounded
		}
		stats = append(stats, stat)
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].MeanGlobalScore > stats[j].MeanGlobalScore
	})
	return stats
}

// portfolioStats summarizes the eligible zones against the budget.
// A zero budget gives a 0.0% utilisation range.
func portfolioStats(zones []contracts.Zone, budgetMax float64) *contracts.PortfolioStats {
	prices := make([]float64, 0, len(zones))
	scores := make([]float64, 0, len(zones))
	yields := make([]*float64, 0, len(zones))
	for _, z := range zones {
		prices = append(prices, z.MeanPrice)
		scores = append(scores, z.GlobalScore)
		yields = append(yields, z.GrossYield)
	}

	sorted := numeric.Sorted(prices)
	minRatio, maxRatio := 0.0, 0.0
	if budgetMax > 0 && len(sorted) > 0 {
		minRatio = sorted[0] / budgetMax * 100
		maxRatio = sorted[len(sorted)-1] / budgetMax * 100
	}

	return &contracts.PortfolioStats{
		EligibleZones:     len(zones),
		MeanGrossYield:    numeric.MeanPtr(yields),
		MeanZonePrice:     numeric.Mean(prices),
		BudgetUtilisation: fmt.Sprintf("%.1f%% - %.1f%%", minRatio, maxRatio),
		MeanGlobalScore:   numeric.Mean(scores),
	}
}
