package s2_scoring

import (
	"context"
	"sort"

	"github.com/wonny/dvf-invest/backend/internal/contracts"
	"github.com/wonny/dvf-invest/backend/pkg/logger"
)

// OpportunityCriteria narrows the sales considered by the opportunity finder.
// Zero bounds are disabled.
type OpportunityCriteria struct {
	MinSurface          float64
	MaxSurface          float64
	MaxPricePerArea     *float64
	MinZoneTransactions int
	UseRentEstimates    bool
	Limit               int // 0 = 전체
}

// DefaultOpportunityCriteria returns the standard finder bounds
func DefaultOpportunityCriteria() OpportunityCriteria {
	return OpportunityCriteria{
		MinSurface:          30,
		MaxSurface:          120,
		MinZoneTransactions: 10,
	}
}

// FindOpportunities scores individual sales on the 1~5 scale.
// Zone statistics come from the filtered sales only; sales of zones below
// MinZoneTransactions are dropped. Output is sorted by global score (stable).
func FindOpportunities(ctx context.Context, records []contracts.YieldRecord, criteria OpportunityCriteria, log *logger.Logger) ([]contracts.ScoredRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Nop()
	}
	log = log.Component("s2_scoring.opportunities")

	// 1. 기본 필터
	candidates := make([]contracts.YieldRecord, 0, len(records))
	for _, rec := range records {
		if criteria.MinSurface > 0 && rec.BuiltArea < criteria.MinSurface {
			continue
		}
		if criteria.MaxSurface > 0 && rec.BuiltArea > criteria.MaxSurface {
			continue
		}
		if criteria.MaxPricePerArea != nil && rec.PricePerArea > *criteria.MaxPricePerArea {
			continue
		}
		candidates = append(candidates, rec)
	}

	// 2. 존 통계 (필터된 집합 기준) → 거래 수 부족 존 제외
	lookup := BuildZoneStats(candidates)
	eligible := make([]contracts.YieldRecord, 0, len(candidates))
	for i := range candidates {
		if stats, _ := lookup.Get(candidates[i].Zone()); stats.Transactions >= criteria.MinZoneTransactions {
			eligible = append(eligible, candidates[i])
		}
	}

	// 3. 1~5 점수화
	engine := NewEngine(Row5Scorer{}, log).WithRentEstimates(criteria.UseRentEstimates)
	scored, err := engine.Score(ctx, eligible, lookup)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].GlobalScore > scored[j].GlobalScore
	})
	if criteria.Limit > 0 && len(scored) > criteria.Limit {
		scored = scored[:criteria.Limit]
	}

	log.WithFields(map[string]interface{}{
		"input":         len(records),
		"candidates":    len(candidates),
		"opportunities": len(scored),
	}).Info("Opportunity search completed")

	return scored, nil
}
