package contracts

// NoMatchMessage is returned when no zone satisfies the investor criteria
const NoMatchMessage = "Aucune zone ne correspond à vos critères. Considérez ajuster votre budget ou vos exigences."

// Criteria are the investor constraints applied to zones
type Criteria struct {
	BudgetMax  float64 `json:"budget_max" yaml:"budget_max" validate:"gte=0"`
	SurfaceMin float64 `json:"surface_min" yaml:"surface_min" validate:"gte=0"`
	SurfaceMax float64 `json:"surface_max" yaml:"surface_max" validate:"gte=0,gtefield=SurfaceMin"`
	YieldMin   float64 `json:"rendement_min" yaml:"rendement_min" validate:"gte=0"`
}

// NoMatch is the explicit empty-result signal of the filter
type NoMatch struct {
	Message string `json:"message"`
}

// FilterResult is the output of the recommendation filter
// ⭐ SSOT: S4 → S5 필터 결과
type FilterResult struct {
	Criteria Criteria       `json:"criteria"`
	Zones    []Zone         `json:"zones"`
	Excluded map[string]int `json:"excluded"` // 제외 사유: 개수
	NoMatch  *NoMatch       `json:"no_match,omitempty"`
}

// HasMatches reports whether at least one zone passed
func (r *FilterResult) HasMatches() bool {
	return r.NoMatch == nil && len(r.Zones) > 0
}

// ZonePick is one zone in a ranked list
type ZonePick struct {
	Commune      string   `json:"nom_commune"`
	Department   string   `json:"code_departement"`
	GlobalScore  float64  `json:"score_global"`
	GrossYield   *float64 `json:"rendement_brut,omitempty"`
	MeanPrice    float64  `json:"prix_moyen"`
	PricePerArea float64  `json:"prix_m2,omitempty"`
	PriceScore   float64  `json:"score_prix,omitempty"`
	Category     string   `json:"categorie_zone,omitempty"`
}

// DepartmentStat aggregates the eligible zones of one department
type DepartmentStat struct {
	Department         string   `json:"code_departement"`
	MeanGlobalScore    float64  `json:"score_global"`
	MeanGrossYield     *float64 `json:"rendement_brut,omitempty"`
	MeanPrice          float64  `json:"prix_moyen"`
	AttractiveCommunes int      `json:"nb_communes_attractives"`
}

// PortfolioStats summarizes the eligible zones against the budget
type PortfolioStats struct {
	EligibleZones     int      `json:"nb_zones_eligibles"`
	MeanGrossYield    *float64 `json:"rendement_moyen_estime,omitempty"`
	MeanZonePrice     float64  `json:"prix_moyen_zone"`
	BudgetUtilisation string   `json:"budget_utilisation"`
	MeanGlobalScore   float64  `json:"score_global_moyen"`
}

// Recommendation is the ranked output for one set of criteria.
// When nothing matched only Message is set.
// ⭐ SSOT: S5 → S6 추천 결과
type Recommendation struct {
	Message     string           `json:"message,omitempty"`
	Top5Global  []ZonePick       `json:"top_5_global,omitempty"`
	MaxYield    []ZonePick       `json:"strategie_rendement_max,omitempty"`
	Attractive  []ZonePick       `json:"strategie_prix_attractif,omitempty"`
	Balanced    []ZonePick       `json:"strategie_equilibre,omitempty"`
	Departments []DepartmentStat `json:"analyse_departements,omitempty"`
	Portfolio   *PortfolioStats  `json:"statistiques_portefeuille,omitempty"`
}

// HasMatches reports whether the recommendation carries ranked zones
func (r *Recommendation) HasMatches() bool {
	return r.Message == "" && len(r.Top5Global) > 0
}

// Best returns the highest ranked zone
func (r *Recommendation) Best() (ZonePick, bool) {
	if len(r.Top5Global) == 0 {
		return ZonePick{}, false
	}
	return r.Top5Global[0], true
}
