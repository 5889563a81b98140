package contracts

// MarketOverview is the market-wide part of the executive summary
type MarketOverview struct {
	TotalZones       int     `json:"total_zones_analysees"`
	PremiumZones     int     `json:"zones_premium"`
	AttractiveZones  int     `json:"zones_attractives"`
	MeanMarketYield  float64 `json:"rendement_moyen_marche"`
	MeanPricePerArea float64 `json:"prix_m2_moyen_marche"`
}

// BestOpportunity is the top ranked zone
type BestOpportunity struct {
	Commune    string   `json:"commune"`
	Department string   `json:"departement"`
	Score      float64  `json:"score"`
	GrossYield *float64 `json:"rendement,omitempty"`
	MeanPrice  float64  `json:"prix_moyen"`
}

// Opportunities holds the best opportunity and its highlights
type Opportunities struct {
	Best       BestOpportunity `json:"meilleure_opportunite"`
	Highlights []string        `json:"points_forts"`
}

// RiskAnalysis counts risky zones
type RiskAnalysis struct {
	AvoidZones          int      `json:"zones_a_eviter"`
	LowLiquidityZones   int      `json:"zones_faible_liquidite"`
	LowYieldZones       int      `json:"zones_rendement_faible"`
	RiskRecommendations []string `json:"recommandations_risque"`
}

// StrategicAdvice holds the advice blocks per investor profile
type StrategicAdvice struct {
	Beginner     []string `json:"investisseur_debutant"`
	Experienced  []string `json:"investisseur_experimente"`
	MarketTrends []string `json:"tendances_marche"`
}

// InvestorChecklist is the fixed due-diligence checklist
type InvestorChecklist struct {
	BeforePurchase    []string `json:"avant_achat"`
	SelectionCriteria []string `json:"criteres_selection"`
	AfterPurchase     []string `json:"apres_achat"`
}

// ExecutiveSummary is the final output of the pipeline
// ⭐ SSOT: S6 경영 요약
type ExecutiveSummary struct {
	Market        MarketOverview    `json:"vue_ensemble_marche"`
	Opportunities *Opportunities    `json:"principales_opportunites,omitempty"`
	Risks         RiskAnalysis      `json:"analyse_risques"`
	Advice        StrategicAdvice   `json:"conseils_strategiques"`
	Checklist     InvestorChecklist `json:"checklist_investisseur"`
}
