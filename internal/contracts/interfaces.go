package contracts

import "context"

// TransactionSource delivers raw DVF rows (CSV file, database table)
type TransactionSource interface {
	LoadTransactions(ctx context.Context) ([]RawTransaction, error)
}

// RentReferenceSource delivers department rent references.
// An empty result switches the estimator to simulated rents.
type RentReferenceSource interface {
	LoadRentReferences(ctx context.Context) ([]RentReference, error)
}

// QualityChecker measures raw row quality before cleaning (S0, informational)
type QualityChecker interface {
	Check(ctx context.Context, raws []RawTransaction) (*DataQualitySnapshot, error)
}

// DataCleaner filters raw rows and derives price per m² (S0)
// ⭐ SSOT: S0 데이터 정제 인터페이스
type DataCleaner interface {
	Clean(ctx context.Context, raws []RawTransaction) ([]Transaction, error)
	Report() (*CleaningReport, error)
}

// YieldEstimator attaches rents and yields (S1)
// ⭐ SSOT: S1 수익률 추정 인터페이스
type YieldEstimator interface {
	Estimate(ctx context.Context, txs []Transaction, refs []RentReference) ([]YieldRecord, *YieldReport, error)
}

// ScoringEngine scores records against their zone statistics (S2)
// ⭐ SSOT: S2 점수화 인터페이스
type ScoringEngine interface {
	Score(ctx context.Context, records []YieldRecord, zones ZoneStatsLookup) ([]ScoredRecord, error)
}

// ZoneAggregator groups scored records into zones (S3)
// ⭐ SSOT: S3 존 집계 인터페이스
type ZoneAggregator interface {
	Aggregate(ctx context.Context, scored []ScoredRecord) ([]Zone, error)
}

// RecommendationFilter applies the investor criteria (S4)
// ⭐ SSOT: S4 필터 인터페이스
type RecommendationFilter interface {
	Filter(ctx context.Context, zones []Zone, criteria Criteria) (*FilterResult, error)
}

// RecommendationRanker ranks the filtered zones (S5)
// ⭐ SSOT: S5 랭킹 인터페이스
type RecommendationRanker interface {
	Rank(ctx context.Context, filtered *FilterResult) (*Recommendation, error)
}

// SummaryBuilder builds the executive summary (S6)
// ⭐ SSOT: S6 요약 인터페이스
type SummaryBuilder interface {
	Build(ctx context.Context, rec *Recommendation, zones []Zone) (*ExecutiveSummary, error)
}
