package contracts

import "time"

// DVF column names
const (
	ColCommune      = "nom_commune"
	ColDepartment   = "code_departement"
	ColSaleValue    = "valeur_fonciere"
	ColBuiltArea    = "surface_reelle_bati"
	ColMutationDate = "date_mutation"
	ColPropertyType = "type_local"
	ColRooms        = "nombre_pieces_principales"
)

// RequiredColumns must be present in every DVF input
var RequiredColumns = []string{
	ColCommune,
	ColDepartment,
	ColSaleValue,
	ColBuiltArea,
	ColMutationDate,
	ColPropertyType,
}

// RawTransaction is one DVF row as delivered by a source, before cleaning
// ⭐ SSOT: 소스 → S0 원천 거래 데이터
type RawTransaction struct {
	Commune        string   `json:"nom_commune"`
	DepartmentCode string   `json:"code_departement"`
	SaleValue      *float64 `json:"valeur_fonciere"`     // nil = 누락
	BuiltArea      *float64 `json:"surface_reelle_bati"` // nil = 누락
	MutationDate   string   `json:"date_mutation"`
	PropertyType   string   `json:"type_local"`
	Rooms          *int     `json:"nombre_pieces_principales,omitempty"`
}

// Transaction is a cleaned sale record; all downstream stages work on copies of it
// ⭐ SSOT: S0 → S1 정제된 거래
type Transaction struct {
	Commune        string    `json:"nom_commune"`
	DepartmentCode string    `json:"code_departement"`
	SaleValue      float64   `json:"valeur_fonciere"`
	BuiltArea      float64   `json:"surface_reelle_bati"`
	MutationDate   time.Time `json:"date_mutation"`
	Year           int       `json:"annee_mutation"`
	Month          int       `json:"mois_mutation"`
	PropertyType   string    `json:"type_local"`
	Rooms          *int      `json:"nombre_pieces_principales,omitempty"`
	PricePerArea   float64   `json:"prix_m2"`
}

// Zone returns the (commune, department) key of the transaction
func (t *Transaction) Zone() ZoneKey {
	return ZoneKey{Commune: t.Commune, Department: t.DepartmentCode}
}

// RentReference is the median rent of a department
type RentReference struct {
	DepartmentCode    string  `json:"code_departement"`
	MedianRent        float64 `json:"loyer_median"`
	MedianRentPerArea float64 `json:"loyer_m2_median"`
}

// CleaningReport summarizes what the cleaner removed
type CleaningReport struct {
	OriginalRows      int            `json:"original_rows"`
	CleanedRows       int            `json:"cleaned_rows"`
	RemovedRows       int            `json:"removed_rows"`
	RemovalPercentage float64        `json:"removal_percentage"`
	RemovedByReason   map[string]int `json:"removed_by_reason,omitempty"`
	StartYear         int            `json:"start_year"`
	EndYear           int            `json:"end_year"`
}

// IsConsistent checks cleaned + removed == original
func (r *CleaningReport) IsConsistent() bool {
	return r.CleanedRows+r.RemovedRows == r.OriginalRows
}
