package contracts

// ScoreScale tags which scoring function produced a score card.
// The two scales have different bands and weights and are never mixed.
type ScoreScale string

const (
	ScaleRow5   ScoreScale = "row5"   // 1~5, opportunity finder
	ScaleZone10 ScoreScale = "zone10" // 0~10, recommendation pipeline
)

// ScoreInput is everything a scorer needs for one record
type ScoreInput struct {
	PricePerArea         float64
	ZoneMeanPricePerArea float64
	ZoneTransactions     int
	BuiltArea            float64
	GrossYield           *float64 // zone10
	RentPerArea          *float64 // row5
}

// ScoreCard is the output of a scorer
type ScoreCard struct {
	Scale          ScoreScale `json:"echelle"`
	PriceRatio     float64    `json:"ratio_prix"`
	PriceScore     int        `json:"score_prix"`
	LiquidityScore int        `json:"score_liquidite"`
	SizeScore      int        `json:"score_surface"`
	YieldScore     int        `json:"score_rendement"`
	EstimatedYield *float64   `json:"rendement_brut_estime,omitempty"` // row5 only
	GlobalScore    float64    `json:"score_global"`
	Classification string     `json:"classification"`
}

// ScoredRecord is a yield record scored against its zone
// ⭐ SSOT: S2 → S3 점수화된 레코드
type ScoredRecord struct {
	YieldRecord
	ScoreCard

	ZoneMeanPricePerArea float64 `json:"prix_m2_moyen_commune"`
	ZoneTransactions     int     `json:"nb_transactions_commune"`
}
