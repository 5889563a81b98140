package brain

import (
	"github.com/wonny/dvf-invest/backend/internal/contracts"
	"github.com/wonny/dvf-invest/backend/internal/s0_data"
	"github.com/wonny/dvf-invest/backend/internal/s0_data/quality"
	"github.com/wonny/dvf-invest/backend/internal/s1_rental"
	"github.com/wonny/dvf-invest/backend/internal/s2_scoring"
	"github.com/wonny/dvf-invest/backend/internal/s3_zones"
	"github.com/wonny/dvf-invest/backend/internal/selection"
	"github.com/wonny/dvf-invest/backend/internal/strategyconfig"
	"github.com/wonny/dvf-invest/backend/internal/summary"
	"github.com/wonny/dvf-invest/backend/pkg/logger"
	"github.com/wonny/dvf-invest/backend/pkg/metrics"
)

// NewFromStrategy wires the standard stage implementations from an analysis profile
func NewFromStrategy(
	cfg *strategyconfig.Config,
	transactions contracts.TransactionSource,
	rents contracts.RentReferenceSource,
	recorder *metrics.Recorder,
	log *logger.Logger,
) *Orchestrator {
	cleaner := s0_data.NewCleaner(s0_data.CleanerConfig{
		StartYear:       cfg.Cleaning.StartYear,
		EndYear:         cfg.Cleaning.EndYear,
		MinPricePerArea: cfg.Cleaning.MinPricePerArea,
		MaxPricePerArea: cfg.Cleaning.MaxPricePerArea,
	}, log)

	estimator := s1_rental.NewEstimator(s1_rental.EstimatorConfig{
		PriceToRentYears: cfg.Rental.PriceToRentYears,
		NetYieldFactor:   cfg.Rental.NetYieldFactor,
		NullYieldPolicy:  cfg.Rental.NullYieldPolicy,
	}, log)

	aggregator := s3_zones.NewAggregator(s3_zones.AggregatorConfig{
		MinTransactions: cfg.Zones.MinTransactions,
	}, log)

	ranker := selection.NewRanker(selection.RankerConfig{
		TopN:         cfg.Ranking.TopN,
		StrategyTopN: cfg.Ranking.StrategyTopN,
	}, log)

	o := NewOrchestrator(
		transactions,
		rents,
		cleaner,
		estimator,
		s2_scoring.NewEngine(s2_scoring.Zone10Scorer{}, log),
		aggregator,
		selection.NewFilter(log),
		ranker,
		summary.NewBuilder(log),
		recorder,
		log,
	)
	return o.WithQualityGate(quality.NewQualityGate(quality.DefaultConfig(), log))
}

// NewRunConfig builds the run configuration of an analysis profile.
// yamlData is the raw profile file (nil when running on defaults).
func NewRunConfig(cfg *strategyconfig.Config, yamlData []byte, runID string, withOpportunities bool) (RunConfig, error) {
	snapshot, err := strategyconfig.NewRunSnapshot(cfg, yamlData, runID)
	if err != nil {
		return RunConfig{}, err
	}

	rc := RunConfig{
		RunID:    runID,
		Criteria: CriteriaFromStrategy(cfg),
		Snapshot: snapshot,
	}
	if withOpportunities {
		oc := OpportunityCriteriaFromStrategy(cfg)
		rc.Opportunities = &oc
	}
	return rc, nil
}

// CriteriaFromStrategy maps the profile criteria to the S4 criteria
func CriteriaFromStrategy(cfg *strategyconfig.Config) contracts.Criteria {
	return contracts.Criteria{
		BudgetMax:  cfg.Criteria.BudgetMax,
		SurfaceMin: cfg.Criteria.SurfaceMin,
		SurfaceMax: cfg.Criteria.SurfaceMax,
		YieldMin:   cfg.Criteria.YieldMin,
	}
}

// OpportunityCriteriaFromStrategy maps the profile to the opportunity finder bounds
func OpportunityCriteriaFromStrategy(cfg *strategyconfig.Config) s2_scoring.OpportunityCriteria {
	return s2_scoring.OpportunityCriteria{
		MinSurface:          cfg.Opportunities.MinSurface,
		MaxSurface:          cfg.Opportunities.MaxSurface,
		MaxPricePerArea:     cfg.Opportunities.MaxPricePerArea,
		MinZoneTransactions: cfg.Opportunities.MinZoneTransactions,
		UseRentEstimates:    cfg.Opportunities.UseRentEstimates,
		Limit:               cfg.Opportunities.Limit,
	}
}
