package analytics

import (
	"sort"

	"github.com/wonny/dvf-invest/backend/internal/contracts"
	"github.com/wonny/dvf-invest/backend/pkg/numeric"
)

// Ranking metrics accepted by TopCommunes
const (
	MetricPricePerArea = "prix_m2"
	MetricSaleValue    = contracts.ColSaleValue
	MetricBuiltArea    = contracts.ColBuiltArea
)

// Minimum sample sizes
const (
	MinDepartmentTransactions = 10
	MinCommuneTransactions    = 5
)

// DepartmentPrices is the price profile of one department
type DepartmentPrices struct {
	Department         string  `json:"code_departement"`
	MeanPricePerArea   float64 `json:"prix_m2_mean"`
	MedianPricePerArea float64 `json:"prix_m2_median"`
	StdPricePerArea    float64 `json:"prix_m2_std"`
	Transactions       int     `json:"prix_m2_count"`
	MeanValue          float64 `json:"valeur_fonciere_mean"`
	MedianValue        float64 `json:"valeur_fonciere_median"`
	MeanBuiltArea      float64 `json:"surface_reelle_bati_mean"`
}

// CommunePrices is the price profile of one (commune, department)
type CommunePrices struct {
	Commune            string  `json:"nom_commune"`
	Department         string  `json:"code_departement"`
	MeanPricePerArea   float64 `json:"prix_m2_mean"`
	MedianPricePerArea float64 `json:"prix_m2_median"`
	Transactions       int     `json:"prix_m2_count"`
	MeanValue          float64 `json:"valeur_fonciere_mean"`
	MeanBuiltArea      float64 `json:"surface_reelle_bati_mean"`
}

// GeographicReport groups department and commune price profiles
type GeographicReport struct {
	Departments []DepartmentPrices `json:"departements"`
	Communes    []CommunePrices    `json:"communes"`
}

// GeographicPrices profiles prices by department (≥10 tx) and commune (≥5 tx),
// each sorted by mean price per m² descending
func GeographicPrices(txs []contracts.Transaction) *GeographicReport {
	report := &GeographicReport{
		Departments: []DepartmentPrices{},
		Communes:    []CommunePrices{},
	}

	for _, g := range groupBy(txs, func(t *contracts.Transaction) string { return t.DepartmentCode }) {
		if len(g.txs) < MinDepartmentTransactions {
			continue
		}
		perArea, values, areas := columns(g.txs)
		report.Departments = append(report.Departments, DepartmentPrices{
			Department:         g.txs[0].DepartmentCode,
			MeanPricePerArea:   numeric.Round(numeric.Mean(perArea), 2),
			MedianPricePerArea: numeric.Round(numeric.Median(perArea), 2),
			StdPricePerArea:    numeric.Round(numeric.StdDev(perArea), 2),
			Transactions:       len(g.txs),
			MeanValue:          numeric.Round(numeric.Mean(values), 2),
			MedianValue:        numeric.Round(numeric.Median(values), 2),
			MeanBuiltArea:      numeric.Round(numeric.Mean(areas), 2),
		})
	}

	for _, g := range groupBy(txs, zoneKey) {
		if len(g.txs) < MinCommuneTransactions {
			continue
		}
		perArea, values, areas := columns(g.txs)
		report.Communes = append(report.Communes, CommunePrices{
			Commune:            g.txs[0].Commune,
			Department:         g.txs[0].DepartmentCode,
			MeanPricePerArea:   numeric.Round(numeric.Mean(perArea), 2),
			MedianPricePerArea: numeric.Round(numeric.Median(perArea), 2),
			Transactions:       len(g.txs),
			MeanValue:          numeric.Round(numeric.Mean(values), 2),
			MeanBuiltArea:      numeric.Round(numeric.Mean(areas), 2),
		})
	}

	sort.SliceStable(report.Departments, func(i, j int) bool {
		return report.Departments[i].MeanPricePerArea > report.Departments[j].MeanPricePerArea
	})
	sort.SliceStable(report.Communes, func(i, j int) bool {
		return report.Communes[i].MeanPricePerArea > report.Communes[j].MeanPricePerArea
	})
	return report
}

// Spread is mean/median/std of one variable
type Spread struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Std    float64 `json:"std"`
}

// PropertyTypeStats is the profile of one type_local
type PropertyTypeStats struct {
	PropertyType string `json:"type_local"`
	Transactions int    `json:"count"`
	PricePerArea Spread `json:"prix_m2"`
	SaleValue    Spread `json:"valeur_fonciere"`
	BuiltArea    Spread `json:"surface_reelle_bati"`
}

// PropertyTypes profiles each property type, sorted by type name
func PropertyTypes(txs []contracts.Transaction) []PropertyTypeStats {
	out := []PropertyTypeStats{}
	for _, g := range groupBy(txs, func(t *contracts.Transaction) string { return t.PropertyType }) {
		perArea, values, areas := columns(g.txs)
		out = append(out, PropertyTypeStats{
			PropertyType: g.txs[0].PropertyType,
			Transactions: len(g.txs),
			PricePerArea: spread(perArea),
			SaleValue:    spread(values),
			BuiltArea:    spread(areas),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PropertyType < out[j].PropertyType })
	return out
}

// YearStats is the market of one mutation year
type YearStats struct {
	Year               int      `json:"annee_mutation"`
	MeanPricePerArea   float64  `json:"prix_m2_mean"`
	MedianPricePerArea float64  `json:"prix_m2_median"`
	Transactions       int      `json:"prix_m2_count"`
	MeanValue          float64  `json:"valeur_fonciere_mean"`
	TotalValue         float64  `json:"valeur_fonciere_sum"`
	MeanBuiltArea      float64  `json:"surface_reelle_bati_mean"`
	PriceGrowth        *float64 `json:"croissance_prix,omitempty"`   // 전년 대비 %, 첫 해 nil
	VolumeGrowth       *float64 `json:"croissance_volume,omitempty"` // 전년 대비 %, 첫 해 nil
}

// YearlyEvolution profiles each year in ascending order with growth versus the previous year
func YearlyEvolution(txs []contracts.Transaction) []YearStats {
	byYear := make(map[int][]contracts.Transaction)
	for i := range txs {
		byYear[txs[i].Year] = append(byYear[txs[i].Year], txs[i])
	}

	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)

	out := make([]YearStats, 0, len(years))
	for i, y := range years {
		group := byYear[y]
		perArea, values, areas := columns(group)

		var total float64
		for _, v := range values {
			total += v
		}

		ys := YearStats{
			Year:               y,
			MeanPricePerArea:   numeric.Round(numeric.Mean(perArea), 2),
			MedianPricePerArea: numeric.Round(numeric.Median(perArea), 2),
			Transactions:       len(group),
			MeanValue:          numeric.Round(numeric.Mean(values), 2),
			TotalValue:         numeric.Round(total, 2),
			MeanBuiltArea:      numeric.Round(numeric.Mean(areas), 2),
		}
		if i > 0 {
			prev := out[i-1]
			if prev.MeanPricePerArea != 0 {
				ys.PriceGrowth = numeric.Ptr((ys.MeanPricePerArea/prev.MeanPricePerArea - 1) * 100)
			}
			ys.VolumeGrowth = numeric.Ptr((float64(ys.Transactions)/float64(prev.Transactions) - 1) * 100)
		}
		out = append(out, ys)
	}
	return out
}

// CommuneMetric is one row of a commune ranking
type CommuneMetric struct {
	Commune      string  `json:"commune"`
	Department   string  `json:"code_departement"`
	Mean         float64 `json:"moyenne"`
	Transactions int     `json:"nb_transactions"`
}

// TopCommunes ranks communes with at least 5 transactions by the mean of metric
func TopCommunes(txs []contracts.Transaction, metric string, n int, ascending bool) ([]CommuneMetric, error) {
	if _, ok := metricValue(&contracts.Transaction{}, metric); !ok {
		return nil, &contracts.ValidationError{Field: "metric", Message: "unknown metric " + metric}
	}

	out := []CommuneMetric{}
	for _, g := range groupBy(txs, zoneKey) {
		if len(g.txs) < MinCommuneTransactions {
			continue
		}
		vals := make([]float64, 0, len(g.txs))
		for i := range g.txs {
			v, _ := metricValue(&g.txs[i], metric)
			vals = append(vals, v)
		}
		out = append(out, CommuneMetric{
			Commune:      g.txs[0].Commune,
			Department:   g.txs[0].DepartmentCode,
			Mean:         numeric.Mean(vals),
			Transactions: len(g.txs),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if ascending {
			return out[i].Mean < out[j].Mean
		}
		return out[i].Mean > out[j].Mean
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out, nil
}

// =============================================================================
// helpers
// =============================================================================

type group struct {
	key string
	txs []contracts.Transaction
}

// groupBy groups transactions by key, groups ordered by key
func groupBy(txs []contracts.Transaction, key func(*contracts.Transaction) string) []group {
	index := make(map[string]int)
	groups := []group{}
	for i := range txs {
		k := key(&txs[i])
		idx, ok := index[k]
		if !ok {
			idx = len(groups)
			index[k] = idx
			groups = append(groups, group{key: k})
		}
		groups[idx].txs = append(groups[idx].txs, txs[i])
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].key < groups[j].key })
	return groups
}

func zoneKey(t *contracts.Transaction) string {
	return t.Commune + "\x00" + t.DepartmentCode
}

func columns(txs []contracts.Transaction) (perArea, values, areas []float64) {
	perArea = make([]float64, len(txs))
	values = make([]float64, len(txs))
	areas = make([]float64, len(txs))
	for i := range txs {
		perArea[i] = txs[i].PricePerArea
		values[i] = txs[i].SaleValue
		areas[i] = txs[i].BuiltArea
	}
	return perArea, values, areas
}

func spread(values []float64) Spread {
	return Spread{
		Mean:   numeric.Round(numeric.Mean(values), 2),
		Median: numeric.Round(numeric.Median(values), 2),
		Std:    numeric.Round(numeric.StdDev(values), 2),
	}
}

func metricValue(t *contracts.Transaction, metric string) (float64, bool) {
	switch metric {
	case MetricPricePerArea:
		return t.PricePerArea, true
	case MetricSaleValue:
		return t.SaleValue, true
	case MetricBuiltArea:
		return t.BuiltArea, true
	default:
		return 0, false
	}
}
