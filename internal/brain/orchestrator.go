package brain

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wonny/dvf-invest/backend/internal/contracts"
	"github.com/wonny/dvf-invest/backend/internal/s2_scoring"
	"github.com/wonny/dvf-invest/backend/internal/strategyconfig"
	"github.com/wonny/dvf-invest/backend/pkg/logger"
	"github.com/wonny/dvf-invest/backend/pkg/metrics"
)

// Stage names (CompletedStages, metrics labels)
const (
	StageS0 = "S0:Data"
	StageS1 = "S1:Rental"
	StageS2 = "S2:Scoring"
	StageS3 = "S3:Zones"
	StageS4 = "S4:Filter"
	StageS5 = "S5:Ranking"
	StageS6 = "S6:Summary"
)

// Orchestrator coordinates the entire 7-stage pipeline
// ⭐ SSOT: 파이프라인 조율은 여기서만
type Orchestrator struct {
	// Sources
	transactions contracts.TransactionSource
	rents        contracts.RentReferenceSource // nil → 시뮬레이션 임대료

	// Stage components
	quality    contracts.QualityChecker // nil → 품질 검사 생략
	cleaner    contracts.DataCleaner
	estimator  contracts.YieldEstimator
	scorer     contracts.ScoringEngine
	aggregator contracts.ZoneAggregator
	filter     contracts.RecommendationFilter
	ranker     contracts.RecommendationRanker
	summary    contracts.SummaryBuilder

	metrics *metrics.Recorder
	logger  *logger.Logger
}

// RunConfig holds configuration for a pipeline run
type RunConfig struct {
	RunID    string
	Criteria contracts.Criteria

	// Opportunities enables the row5 opportunity finder on the S1 output
	Opportunities *s2_scoring.OpportunityCriteria

	// Snapshot pins the analysis profile of the run (hash + YAML)
	Snapshot *strategyconfig.RunSnapshot
}

// RunResult holds the results of a complete pipeline run
type RunResult struct {
	RunID           string
	ProfileID       string
	ConfigHash      string
	Success         bool
	Error           error
	CompletedStages []string

	Transactions   []contracts.Transaction
	Quality        *contracts.DataQualitySnapshot
	Cleaning       *contracts.CleaningReport
	Yields         *contracts.YieldReport
	Scored         int
	Zones          []contracts.Zone
	Filtered       *contracts.FilterResult
	Recommendation *contracts.Recommendation
	Summary        *contracts.ExecutiveSummary
	Opportunities  []contracts.ScoredRecord

	Duration time.Duration
}

// NewOrchestrator creates a new orchestrator
func NewOrchestrator(
	transactions contracts.TransactionSource,
	rents contracts.RentReferenceSource,
	cleaner contracts.DataCleaner,
	estimator contracts.YieldEstimator,
	scorer contracts.ScoringEngine,
	aggregator contracts.ZoneAggregator,
	filter contracts.RecommendationFilter,
	ranker contracts.RecommendationRanker,
	summary contracts.SummaryBuilder,
	recorder *metrics.Recorder,
	log *logger.Logger,
) *Orchestrator {
	if log == nil {
		log = logger.Nop()
	}
	if recorder == nil {
		recorder = metrics.NewRecorder()
	}
	return &Orchestrator{
		transactions: transactions,
		rents:        rents,
		cleaner:      cleaner,
		estimator:    estimator,
		scorer:       scorer,
		aggregator:   aggregator,
		filter:       filter,
		ranker:       ranker,
		summary:      summary,
		metrics:      recorder,
		logger:       log.Component("brain.orchestrator"),
	}
}

// WithQualityGate enables the informational raw-row quality check in S0
func (o *Orchestrator) WithQualityGate(q contracts.QualityChecker) *Orchestrator {
	o.quality = q
	return o
}

// Metrics returns the run recorder
func (o *Orchestrator) Metrics() *metrics.Recorder {
	return o.metrics
}

// Run executes the complete 7-stage pipeline
// S0 → S1 → S2 → S3 → S4 → S5 → S6
func (o *Orchestrator) Run(ctx context.Context, config RunConfig) (*RunResult, error) {
	startTime := time.Now()

	result := &RunResult{
		RunID:           config.RunID,
		Success:         false,
		CompletedStages: make([]string, 0, 7),
	}
	if config.Snapshot != nil {
		result.ProfileID = config.Snapshot.ProfileID
		result.ConfigHash = config.Snapshot.ConfigHash
	}

	o.logger.WithFields(map[string]interface{}{
		"run_id":      config.RunID,
		"config_hash": result.ConfigHash,
		"budget_max":  config.Criteria.BudgetMax,
		"surface_min": config.Criteria.SurfaceMin,
		"surface_max": config.Criteria.SurfaceMax,
		"yield_min":   config.Criteria.YieldMin,
	}).Info("Starting pipeline run")

	fail := func(stage string, err error) (*RunResult, error) {
		result.Error = fmt.Errorf("%s failed: %w", stage, err)
		result.Duration = time.Since(startTime)
		o.logger.WithError(err).WithField("run_id", config.RunID).Error("Pipeline run failed")
		return result, result.Error
	}

	// S0: Load + Clean
	txs, cleaning, quality, err := o.runS0(ctx)
	if err != nil {
		return fail("S0", err)
	}
	result.Transactions = txs
	result.Quality = quality
	result.Cleaning = cleaning
	result.CompletedStages = append(result.CompletedStages, StageS0)

	// S1: Rental yields
	records, yields, err := o.runS1(ctx, txs)
	if err != nil {
		return fail("S1", err)
	}
	result.Yields = yields
	result.CompletedStages = append(result.CompletedStages, StageS1)

	// S2: Scoring (+ opportunity finder)
	scored, opportunities, err := o.runS2(ctx, config, records)
	if err != nil {
		return fail("S2", err)
	}
	result.Scored = len(scored)
	result.Opportunities = opportunities
	result.CompletedStages = append(result.CompletedStages, StageS2)

	// S3: Zone aggregation
	zones, err := o.runS3(ctx, scored)
	if err != nil {
		return fail("S3", err)
	}
	result.Zones = zones
	result.CompletedStages = append(result.CompletedStages, StageS3)

	// S4: Investor criteria
	filtered, err := o.runS4(ctx, zones, config.Criteria)
	if err != nil {
		return fail("S4", err)
	}
	result.Filtered = filtered
	result.CompletedStages = append(result.CompletedStages, StageS4)

	// S5: Ranking
	rec, err := o.runS5(ctx, filtered)
	if err != nil {
		return fail("S5", err)
	}
	result.Recommendation = rec
	result.CompletedStages = append(result.CompletedStages, StageS5)

	// S6: Executive summary
	summary, err := o.runS6(ctx, rec, zones)
	if err != nil {
		return fail("S6", err)
	}
	result.Summary = summary
	result.CompletedStages = append(result.CompletedStages, StageS6)

	// Mark success
	result.Success = true
	result.Duration = time.Since(startTime)

	o.logger.WithFields(map[string]interface{}{
		"run_id":      config.RunID,
		"duration":    result.Duration.Seconds(),
		"stages":      len(result.CompletedStages),
		"zones":       len(zones),
		"has_matches": rec.HasMatches(),
	}).Info("Pipeline run completed successfully")

	return result, nil
}

// runS0 executes S0: load + quality check + clean
func (o *Orchestrator) runS0(ctx context.Context) ([]contracts.Transaction, *contracts.CleaningReport, *contracts.DataQualitySnapshot, error) {
	o.logger.Info("Running S0: Data Loading & Cleaning")
	defer o.observe(StageS0, time.Now())

	if o.transactions == nil {
		return nil, nil, nil, &contracts.ValidationError{Field: "source", Message: "no transaction source configured"}
	}

	raws, err := o.transactions.LoadTransactions(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load transactions: %w", err)
	}
	o.metrics.RowsIngested(len(raws))

	// 품질 검사는 정보용: 미달이어도 계속 진행
	var quality *contracts.DataQualitySnapshot
	if o.quality != nil {
		quality, err = o.quality.Check(ctx, raws)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("quality check: %w", err)
		}
	}

	txs, err := o.cleaner.Clean(ctx, raws)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("clean: %w", err)
	}

	report, err := o.cleaner.Report()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("cleaning report: %w", err)
	}
	o.metrics.RowsRemoved(report.RemovedByReason)

	fields := map[string]interface{}{
		"original_rows": report.OriginalRows,
		"cleaned_rows":  report.CleanedRows,
		"removed_pct":   report.RemovalPercentage,
	}
	if quality != nil {
		fields["quality_score"] = quality.QualityScore
		fields["quality_passed"] = quality.Passed
	}
	o.logger.WithFields(fields).Info("S0 completed")

	return txs, report, quality, nil
}

// runS1 executes S1: rent and yield estimation
func (o *Orchestrator) runS1(ctx context.Context, txs []contracts.Transaction) ([]contracts.YieldRecord, *contracts.YieldReport, error) {
	o.logger.Info("Running S1: Rental Yield Estimation")
	defer o.observe(StageS1, time.Now())

	var refs []contracts.RentReference
	if o.rents != nil {
		loaded, err := o.rents.LoadRentReferences(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("load rent references: %w", err)
		}
		refs = loaded
	}

	records, report, err := o.estimator.Estimate(ctx, txs, refs)
	if err != nil {
		return nil, nil, fmt.Errorf("estimate yields: %w", err)
	}
	o.metrics.NullYields(report.NullYields)

	o.logger.WithFields(map[string]interface{}{
		"mode":        report.Mode,
		"records":     report.Records,
		"null_yields": report.NullYields,
		"dropped":     report.Dropped,
	}).Info("S1 completed")

	return records, report, nil
}

// runS2 executes S2: zone10 scoring, plus the row5 opportunity finder when enabled
func (o *Orchestrator) runS2(ctx context.Context, config RunConfig, records []contracts.YieldRecord) ([]contracts.ScoredRecord, []contracts.ScoredRecord, error) {
	o.logger.Info("Running S2: Scoring")
	defer o.observe(StageS2, time.Now())

	// pass 1: 존 통계, pass 2: 레코드 점수
	lookup := s2_scoring.BuildZoneStats(records)
	scored, err := o.scorer.Score(ctx, records, lookup)
	if err != nil {
		return nil, nil, fmt.Errorf("score records: %w", err)
	}

	var opportunities []contracts.ScoredRecord
	if config.Opportunities != nil {
		opportunities, err = s2_scoring.FindOpportunities(ctx, records, *config.Opportunities, o.logger)
		if err != nil {
			return nil, nil, fmt.Errorf("find opportunities: %w", err)
		}
	}

	o.logger.WithFields(map[string]interface{}{
		"scored":        len(scored),
		"zones":         len(lookup),
		"opportunities": len(opportunities),
	}).Info("S2 completed")

	return scored, opportunities, nil
}

// runS3 executes S3: zone aggregation
func (o *Orchestrator) runS3(ctx context.Context, scored []contracts.ScoredRecord) ([]contracts.Zone, error) {
	o.logger.Info("Running S3: Zone Aggregation")
	defer o.observe(StageS3, time.Now())

	zones, err := o.aggregator.Aggregate(ctx, scored)
	if err != nil {
		return nil, fmt.Errorf("aggregate zones: %w", err)
	}
	o.metrics.ZonesRetained(len(zones))

	o.logger.WithFields(map[string]interface{}{
		"input_records": len(scored),
		"zones":         len(zones),
	}).Info("S3 completed")

	return zones, nil
}

// runS4 executes S4: investor criteria
func (o *Orchestrator) runS4(ctx context.Context, zones []contracts.Zone, criteria contracts.Criteria) (*contracts.FilterResult, error) {
	o.logger.Info("Running S4: Investor Filter")
	defer o.observe(StageS4, time.Now())

	filtered, err := o.filter.Filter(ctx, zones, criteria)
	if err != nil {
		return nil, fmt.Errorf("filter zones: %w", err)
	}
	o.metrics.ZonesEligible(len(filtered.Zones))

	o.logger.WithFields(map[string]interface{}{
		"input_zones":    len(zones),
		"eligible_zones": len(filtered.Zones),
		"no_match":       !filtered.HasMatches(),
	}).Info("S4 completed")

	return filtered, nil
}

// runS5 executes S5: ranking
func (o *Orchestrator) runS5(ctx context.Context, filtered *contracts.FilterResult) (*contracts.Recommendation, error) {
	o.logger.Info("Running S5: Ranking")
	defer o.observe(StageS5, time.Now())

	rec, err := o.ranker.Rank(ctx, filtered)
	if err != nil {
		return nil, fmt.Errorf("rank zones: %w", err)
	}

	fields := map[string]interface{}{
		"top5": len(rec.Top5Global),
	}
	if best, ok := rec.Best(); ok {
		fields["top_zone"] = best.Commune
		fields["top_score"] = best.GlobalScore
	}
	o.logger.WithFields(fields).Info("S5 completed")

	return rec, nil
}

// runS6 executes S6: executive summary
func (o *Orchestrator) runS6(ctx context.Context, rec *contracts.Recommendation, zones []contracts.Zone) (*contracts.ExecutiveSummary, error) {
	o.logger.Info("Running S6: Executive Summary")
	defer o.observe(StageS6, time.Now())

	summary, err := o.summary.Build(ctx, rec, zones)
	if err != nil {
		return nil, fmt.Errorf("build summary: %w", err)
	}

	o.logger.WithFields(map[string]interface{}{
		"premium_zones": summary.Market.PremiumZones,
		"avoid_zones":   summary.Risks.AvoidZones,
	}).Info("S6 completed")

	return summary, nil
}

func (o *Orchestrator) observe(stage string, start time.Time) {
	o.metrics.ObserveStage(stage, time.Since(start))
}

// GenerateRunID generates a unique run ID
func GenerateRunID() string {
	return fmt.Sprintf("run_%s_%s", time.Now().Format("20060102_150405"), uuid.NewString()[:8])
}
