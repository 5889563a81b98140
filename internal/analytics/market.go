package analytics

import (
	"math"
	"sort"

	"github.com/wonny/dvf-invest/backend/internal/contracts"
	"github.com/wonny/dvf-invest/backend/pkg/numeric"
)

// Anomaly thresholds
const (
	HighVolumePercentile = 95.0  // 일별 거래량 분위수
	PremiumGapPercent    = 50.0  // département 평균 대비 +50% 초과
	DiscountGapPercent   = -30.0 // département 평균 대비 -30% 미만
	AnomalyListSize      = 10
)

// VolumeDay is one mutation date and its transaction count
type VolumeDay struct {
	Date         string `json:"date"`
	Transactions int    `json:"volume"`
}

// TemporalAnomalies lists days whose volume exceeds the 95th percentile
type TemporalAnomalies struct {
	HighVolumeDays int         `json:"high_volume_days"`
	Threshold      float64     `json:"threshold"`
	Days           []VolumeDay `json:"days"`
}

// PriceGap is a commune priced far from its department mean
type PriceGap struct {
	Commune      string  `json:"nom_commune"`
	Department   string  `json:"code_departement"`
	GapPercent   float64 `json:"ecart_vs_dept"`
	PricePerArea float64 `json:"prix_m2_commune"`
}

// GapList is the count of gaps past a threshold and the strongest of them
type GapList struct {
	Count    int        `json:"count"`
	Communes []PriceGap `json:"communes"`
}

// MarketAnomalies groups temporal and geographic anomalies
type MarketAnomalies struct {
	Temporal  *TemporalAnomalies `json:"temporal_anomalies,omitempty"`
	Premiums  GapList            `json:"surprimes_importantes"`
	Discounts GapList            `json:"decotes_importantes"`
}

// DetectMarketAnomalies finds high-volume days and communes (≥5 tx) whose
// mean price per m² is more than 50% above or 30% below their department mean
func DetectMarketAnomalies(txs []contracts.Transaction) *MarketAnomalies {
	out := &MarketAnomalies{
		Premiums:  GapList{Communes: []PriceGap{}},
		Discounts: GapList{Communes: []PriceGap{}},
	}
	if len(txs) == 0 {
		return out
	}

	// 1. 일별 거래량
	days := groupBy(txs, func(t *contracts.Transaction) string { return t.MutationDate.Format("2006-01-02") })
	volumes := make([]float64, len(days))
	for i, d := range days {
		volumes[i] = float64(len(d.txs))
	}
	threshold := numeric.Percentile(numeric.Sorted(volumes), HighVolumePercentile)
	temporal := &TemporalAnomalies{Threshold: threshold, Days: []VolumeDay{}}
	for _, d := range days {
		if float64(len(d.txs)) > threshold {
			temporal.Days = append(temporal.Days, VolumeDay{Date: d.key, Transactions: len(d.txs)})
		}
	}
	temporal.HighVolumeDays = len(temporal.Days)
	out.Temporal = temporal

	// 2. 커뮌 vs département 평균 prix_m2
	deptMean := make(map[string]float64)
	for _, g := range groupBy(txs, func(t *contracts.Transaction) string { return t.DepartmentCode }) {
		perArea, _, _ := columns(g.txs)
		deptMean[g.key] = numeric.Mean(perArea)
	}

	var premiums, discounts []PriceGap
	for _, g := range groupBy(txs, zoneKey) {
		if len(g.txs) < MinCommuneTransactions {
			continue
		}
		perArea, _, _ := columns(g.txs)
		communeMean := numeric.Round(numeric.Mean(perArea), 2)
		dept := g.txs[0].DepartmentCode
		if deptMean[dept] == 0 {
			continue
		}
		gap := PriceGap{
			Commune:      g.txs[0].Commune,
			Department:   dept,
			GapPercent:   (communeMean/deptMean[dept] - 1) * 100,
			PricePerArea: communeMean,
		}
		switch {
		case gap.GapPercent > PremiumGapPercent:
			premiums = append(premiums, gap)
		case gap.GapPercent < DiscountGapPercent:
			discounts = append(discounts, gap)
		}
	}

	sort.SliceStable(premiums, func(i, j int) bool { return premiums[i].GapPercent > premiums[j].GapPercent })
	sort.SliceStable(discounts, func(i, j int) bool { return discounts[i].GapPercent < discounts[j].GapPercent })
	out.Premiums = gapList(premiums)
	out.Discounts = gapList(discounts)
	return out
}

func gapList(gaps []PriceGap) GapList {
	list := GapList{Count: len(gaps), Communes: []PriceGap{}}
	if len(gaps) > AnomalyListSize {
		gaps = gaps[:AnomalyListSize]
	}
	list.Communes = append(list.Communes, gaps...)
	return list
}

// surfaceSegment is a right-closed built-area bucket (lower, upper]
type surfaceSegment struct {
	label string
	upper float64
}

var surfaceSegments = []surfaceSegment{
	{"<30m²", 30},
	{"30-50m²", 50},
	{"50-70m²", 70},
	{"70-100m²", 100},
	{"100-150m²", 150},
	{">150m²", math.Inf(1)},
}

// Monthly gross rent rates by property type (part of the sale value)
var monthlyRentRates = map[string]float64{
	"Appartement": 0.009,
	"Maison":      0.008,
	"Local industriel. commercial ou assimilé": 0.007,
}

// DefaultMonthlyRentRate applies to types without a specific rate
const DefaultMonthlyRentRate = 0.008

// TypeYieldTypes is how many property types get a yield estimate
const TypeYieldTypes = 3

// SurfaceSegmentStats is the market of one built-area segment
type SurfaceSegmentStats struct {
	Segment          string  `json:"segment_surface"`
	MeanPricePerArea float64 `json:"prix_m2_mean"`
	Transactions     int     `json:"prix_m2_count"`
	MeanValue        float64 `json:"valeur_fonciere_mean"`
	MeanBuiltArea    float64 `json:"surface_reelle_bati_mean"`
}

// TypeYield is the rent-rate yield estimate of one property type
type TypeYield struct {
	PropertyType     string  `json:"type_bien"`
	MeanValue        float64 `json:"prix_achat_moyen"`
	MeanPricePerArea float64 `json:"prix_m2_moyen"`
	MeanBuiltArea    float64 `json:"surface_moyenne"`
	MonthlyRate      float64 `json:"taux_mensuel_estime"`
	MonthlyRent      float64 `json:"loyer_mensuel_estime"`
	GrossYield       float64 `json:"rendement_brut_estime"`
	Transactions     int     `json:"nb_transactions"`
}

// InvestmentAnalysis is the surface segmentation and per-type yield estimate
type InvestmentAnalysis struct {
	Segments []SurfaceSegmentStats `json:"surface_segments"`
	Yields   []TypeYield           `json:"yield_analysis"`
}

// AnalyzeInvestmentMarket segments transactions by built area and estimates
// gross yields for the three most traded property types
func AnalyzeInvestmentMarket(txs []contracts.Transaction) *InvestmentAnalysis {
	out := &InvestmentAnalysis{
		Segments: make([]SurfaceSegmentStats, 0, len(surfaceSegments)),
		Yields:   []TypeYield{},
	}

	// 1. 면적 구간 (빈 구간도 포함)
	buckets := make([][]contracts.Transaction, len(surfaceSegments))
	for i := range txs {
		if idx := segmentIndex(txs[i].BuiltArea); idx >= 0 {
			buckets[idx] = append(buckets[idx], txs[i])
		}
	}
	for i, seg := range surfaceSegments {
		perArea, values, areas := columns(buckets[i])
		out.Segments = append(out.Segments, SurfaceSegmentStats{
			Segment:          seg.label,
			MeanPricePerArea: numeric.Round(numeric.Mean(perArea), 2),
			Transactions:     len(buckets[i]),
			MeanValue:        numeric.Round(numeric.Mean(values), 2),
			MeanBuiltArea:    numeric.Round(numeric.Mean(areas), 2),
		})
	}

	// 2. 거래 많은 유형 top 3 (동률은 이름순)
	types := groupBy(txs, func(t *contracts.Transaction) string { return t.PropertyType })
	sort.SliceStable(types, func(i, j int) bool { return len(types[i].txs) > len(types[j].txs) })
	if len(types) > TypeYieldTypes {
		types = types[:TypeYieldTypes]
	}
	for _, g := range types {
		rate, ok := monthlyRentRates[g.key]
		if !ok {
			rate = DefaultMonthlyRentRate
		}
		perArea, values, areas := columns(g.txs)
		meanValue := numeric.Mean(values)
		out.Yields = append(out.Yields, TypeYield{
			PropertyType:     g.key,
			MeanValue:        meanValue,
			MeanPricePerArea: numeric.Mean(perArea),
			MeanBuiltArea:    numeric.Mean(areas),
			MonthlyRate:      rate,
			MonthlyRent:      meanValue * rate,
			GrossYield:       rate * 12 * 100,
			Transactions:     len(g.txs),
		})
	}
	return out
}

// segmentIndex returns the bucket of area, -1 for area ≤ 0
func segmentIndex(area float64) int {
	if area <= 0 {
		return -1
	}
	for i, seg := range surfaceSegments {
		if area <= seg.upper {
			return i
		}
	}
	return -1
}
