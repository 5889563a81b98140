package contracts

// InvestorProfile selects the per-transaction scoring formula
type InvestorProfile string

const (
	ProfileBeginner    InvestorProfile = "debutant"    // 안전성 우선
	ProfileExperienced InvestorProfile = "experimente" // 저평가 기회 우선
	ProfileBalanced    InvestorProfile = "equilibre"
)

// NoPropertyMessage is returned when no transaction fits the profile request
const NoPropertyMessage = "Aucun bien ne correspond aux critères"

// ProfileRequest is the input of the profile recommender
type ProfileRequest struct {
	Profile    InvestorProfile `json:"profile"` // 알 수 없는 값 → equilibre
	BudgetMax  float64         `json:"budget" validate:"gte=0"`
	SurfaceMin float64         `json:"surface_min" validate:"gte=0"`
	SurfaceMax float64         `json:"surface_max" validate:"gte=0,gtefield=SurfaceMin"`
	Limit      int             `json:"limit" validate:"gte=0"`
}

// ProfilePick is one recommended transaction
type ProfilePick struct {
	Commune      string  `json:"nom_commune"`
	Department   string  `json:"code_departement"`
	SaleValue    float64 `json:"valeur_fonciere"`
	BuiltArea    float64 `json:"surface_reelle_bati"`
	PricePerArea float64 `json:"prix_m2"`
	PropertyType string  `json:"type_local"`
	Rooms        *int    `json:"nombre_pieces_principales,omitempty"`
	Year         int     `json:"annee"`
	Score        float64 `json:"score"`
}

// ProfileZone groups the recommended transactions of one commune
type ProfileZone struct {
	Commune            string  `json:"nom_commune"`
	Recommendations    int     `json:"nb_recommandations"`
	MedianPrice        float64 `json:"prix_median"`
	MedianPricePerArea float64 `json:"prix_m2_median"`
	MedianArea         float64 `json:"surface_mediane"`
}

// ProfileRecommendation is the output of the profile recommender
type ProfileRecommendation struct {
	Profile            InvestorProfile `json:"profile"`
	ScoreName          string          `json:"score_name,omitempty"`
	Budget             float64         `json:"budget"`
	SurfaceRange       [2]float64      `json:"surface_range"`
	AnalysedProperties int             `json:"nb_biens_analyses"`
	Recommendations    []ProfilePick   `json:"recommendations,omitempty"`
	ZonesAnalysis      []ProfileZone   `json:"zones_analysis,omitempty"`
	Advice             []string        `json:"conseils,omitempty"`
	Message            string          `json:"error,omitempty"`
}
