package contracts

import "fmt"

// ZoneKey identifies a zone
type ZoneKey struct {
	Commune    string `json:"nom_commune"`
	Department string `json:"code_departement"`
}

func (k ZoneKey) String() string {
	return fmt.Sprintf("%s (%s)", k.Commune, k.Department)
}

// ZoneStats are the pass-1 aggregates a record is scored against
type ZoneStats struct {
	Key              ZoneKey  `json:"zone"`
	MeanPricePerArea float64  `json:"prix_m2_moyen_commune"`
	Transactions     int      `json:"nb_transactions_commune"`
	MeanGrossYield   *float64 `json:"rendement_moyen_commune,omitempty"`
}

// ZoneStatsLookup maps a zone key to its statistics
type ZoneStatsLookup map[ZoneKey]ZoneStats

// Get returns the statistics of a zone
func (l ZoneStatsLookup) Get(key ZoneKey) (ZoneStats, bool) {
	s, ok := l[key]
	return s, ok
}

// Zone categories (0~10 global score)
const (
	ZonePremium    = "Zone Premium"
	ZoneAttractive = "Zone Attractive"
	ZoneCorrect    = "Zone Correct"
	ZoneAvoid      = "Zone à Éviter"
)

// Zone is an aggregated (commune, department)
// ⭐ SSOT: S3 → S4 존 집계
type Zone struct {
	Commune            string   `json:"nom_commune"`
	Department         string   `json:"code_departement"`
	GlobalScore        float64  `json:"score_global"`
	PricePerArea       float64  `json:"prix_m2"`
	MeanPrice          float64  `json:"prix_moyen"`
	Transactions       int      `json:"nb_transactions"`
	MeanBuiltArea      float64  `json:"surface_reelle_bati"`
	PriceScore         float64  `json:"score_prix"`
	LiquidityScore     float64  `json:"score_liquidite"`
	SizeScore          float64  `json:"score_surface"`
	YieldScore         float64  `json:"score_rendement"`
	GrossYield         *float64 `json:"rendement_brut,omitempty"`
	ProfitabilityIndex *float64 `json:"rentabilite_prix,omitempty"`
	Category           string   `json:"categorie_zone"`
}

// Key returns the zone key
func (z *Zone) Key() ZoneKey {
	return ZoneKey{Commune: z.Commune, Department: z.Department}
}

// IsAttractive reports Premium or Attractive zones
func (z *Zone) IsAttractive() bool {
	return z.Category == ZonePremium || z.Category == ZoneAttractive
}
