package selection

import (
	"context"
	"math"
	"sort"

	"github.com/wonny/dvf-invest/backend/internal/contracts"
	"github.com/wonny/dvf-invest/backend/pkg/logger"
	"github.com/wonny/dvf-invest/backend/pkg/numeric"
)

// Score column names per profile
const (
	ScoreSafety      = "score_securite"
	ScoreOpportunity = "score_opportunite"
	ScoreBalance     = "score_equilibre"
)

// profileAdvice 프로필별 고정 조언
var profileAdvice = map[contracts.InvestorProfile][]string{
	contracts.ProfileBeginner: {
		"🔒 Privilégiez les zones avec beaucoup de transactions (marché liquide)",
		"📈 Évitez les prix/m² trop éloignés de la médiane locale",
		"🏦 Considérez la facilité de revente dans ces zones actives",
		"📍 Concentrez-vous sur les départements que vous connaissez",
		"⏱️ Prenez le temps d'analyser plusieurs biens similaires",
	},
	contracts.ProfileExperienced: {
		"🎯 Recherchez les biens sous-évalués par rapport à leur commune",
		"📊 Analysez les tendances d'évolution des prix dans ces zones",
		"🔄 Considérez le potentiel de rénovation/amélioration",
		"💹 Évaluez les perspectives de développement local",
		"⚡ Agissez rapidement sur les bonnes opportunités",
	},
	contracts.ProfileBalanced: {
		"⚖️ Équilibrez sécurité (volume) et opportunité (prix)",
		"📈 Diversifiez géographiquement vos investissements",
		"🔍 Vérifiez la cohérence prix/surface/localisation",
		"📋 Constituez une liste de surveillance de plusieurs biens",
		"🎯 Définissez des critères clairs avant de visiter",
	},
}

// communeStats are the medians of one (commune, department) over the whole data set
type communeStats struct {
	medianPricePerArea float64
	transactions       int
}

// ProfileRecommender ranks individual sales for an investor profile
type ProfileRecommender struct {
	logger *logger.Logger
}

// NewProfileRecommender creates a new profile recommender
func NewProfileRecommender(log *logger.Logger) *ProfileRecommender {
	if log == nil {
		log = logger.Nop()
	}
	return &ProfileRecommender{logger: log.Component("selection.profile")}
}

// candidate is a filtered sale with its commune statistics
type candidate struct {
	tx    *contracts.Transaction
	stats communeStats
	score float64
}

// Recommend filters the sales by budget and surface, scores them with the
// profile formula and returns the best ones. Commune statistics use every sale.
// An unknown or empty profile falls back to equilibre.
func (p *ProfileRecommender) Recommend(ctx context.Context, txs []contracts.Transaction, req contracts.ProfileRequest) (*contracts.ProfileRecommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	profile := normalizeProfile(req.Profile)
	limit := req.Limit
	if limit <= 0 {
		limit = 10
	}

	stats := buildCommuneStats(txs)

	candidates := make([]candidate, 0)
	for i := range txs {
		tx := &txs[i]
		if tx.SaleValue > req.BudgetMax || tx.BuiltArea < req.SurfaceMin || tx.BuiltArea > req.SurfaceMax {
			continue
		}
		candidates = append(candidates, candidate{tx: tx, stats: stats[tx.Zone()]})
	}

	result := &contracts.ProfileRecommendation{
		Profile:            profile,
		Budget:             req.BudgetMax,
		SurfaceRange:       [2]float64{req.SurfaceMin, req.SurfaceMax},
		AnalysedProperties: len(candidates),
	}
	if len(candidates) == 0 {
		result.Message = contracts.NoPropertyMessage
		p.logger.WithField("profile", profile).Info("No property matches the profile request")
		return result, nil
	}

	result.ScoreName = scoreProfile(profile, candidates)

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	result.Recommendations = make([]contracts.ProfilePick, 0, len(candidates))
	for _, c := range candidates {
		result.Recommendations = append(result.Recommendations, contracts.ProfilePick{
			Commune:      c.tx.Commune,
			Department:   c.tx.DepartmentCode,
			SaleValue:    c.tx.SaleValue,
			BuiltArea:    c.tx.BuiltArea,
			PricePerArea: c.tx.PricePerArea,
			PropertyType: c.tx.PropertyType,
			Rooms:        c.tx.Rooms,
			Year:         c.tx.Year,
			Score:        c.score,
		})
	}
	result.ZonesAnalysis = analyzeProfileZones(result.Recommendations)
	result.Advice = Advice(profile)

	p.logger.WithFields(map[string]interface{}{
		"profile":         profile,
		"analysed":        result.AnalysedProperties,
		"recommendations": len(result.Recommendations),
	}).Info("Profile recommendation completed")

	return result, nil
}

// Advice returns the fixed advice list of a profile
func Advice(profile contracts.InvestorProfile) []string {
	advice := profileAdvice[normalizeProfile(profile)]
	out := make([]string, len(advice))
	copy(out, advice)
	return out
}

func normalizeProfile(profile contracts.InvestorProfile) contracts.InvestorProfile {
	switch profile {
	case contracts.ProfileBeginner, contracts.ProfileExperienced:
		return profile
	default:
		return contracts.ProfileBalanced
	}
}

// scoreProfile fills candidate scores and returns the score name
func scoreProfile(profile contracts.InvestorProfile, candidates []candidate) string {
	prices := make([]float64, len(candidates))
	values := make([]float64, len(candidates))
	for i, c := range candidates {
		prices[i] = c.tx.PricePerArea
		values[i] = c.tx.SaleValue
	}
	medianPrice := numeric.Median(prices)
	medianValue := numeric.Median(values)

	switch profile {
	case contracts.ProfileBeginner:
		// 안전성: 낮은 prix/m² + 낮은 가격 + 거래량
		for i := range candidates {
			c := &candidates[i]
			c.score = (1-numeric.SafeDiv(c.tx.PricePerArea, medianPrice))*40 +
				(1-numeric.SafeDiv(c.tx.SaleValue, medianValue))*30 +
				volumeBonus(c.stats.transactions)*15
		}
		return ScoreSafety

	case contracts.ProfileExperienced:
		// 기회: 코뮌 중앙값 대비 저평가
		for i := range candidates {
			c := &candidates[i]
			c.score = priceGap(c)*50 +
				numeric.SafeDiv(1000, c.tx.PricePerArea)*20 +
				volumeBonus(c.stats.transactions)*15
		}
		return ScoreOpportunity

	default:
		for i := range candidates {
			c := &candidates[i]
			c.score = (1-numeric.SafeDiv(c.tx.PricePerArea, medianPrice))*25 +
				priceGap(c)*25 +
				volumeBonus(c.stats.transactions)*20 +
				(c.tx.BuiltArea/100)*10
		}
		return ScoreBalance
	}
}

// priceGap = (commune median − prix_m2) / commune median, 0 when undefined
func priceGap(c *candidate) float64 {
	if c.stats.medianPricePerArea == 0 {
		return 0
	}
	gap := (c.stats.medianPricePerArea - c.tx.PricePerArea) / c.stats.medianPricePerArea
	if math.IsNaN(gap) || math.IsInf(gap, 0) {
		return 0
	}
	return gap
}

func volumeBonus(n int) float64 {
	return math.Log(float64(n) + 1)
}

// buildCommuneStats computes median prix_m2 and count per (commune, department)
func buildCommuneStats(txs []contracts.Transaction) map[contracts.ZoneKey]communeStats {
	prices := make(map[contracts.ZoneKey][]float64)
	for i := range txs {
		key := txs[i].Zone()
		prices[key] = append(prices[key], txs[i].PricePerArea)
	}

	stats := make(map[contracts.ZoneKey]communeStats, len(prices))
	for key, p := range prices {
		stats[key] = communeStats{
			medianPricePerArea: numeric.Round(numeric.Median(p), 2),
			transactions:       len(p),
		}
	}
	return stats
}

// analyzeProfileZones groups the picks by commune, most represented first
func analyzeProfileZones(picks []contracts.ProfilePick) []contracts.ProfileZone {
	type acc struct {
		values, prices, areas []float64
	}

	groups := make(map[string]*acc)
	for _, p := range picks {
		g, ok := groups[p.Commune]
		if !ok {
			g = &acc{}
			groups[p.Commune] = g
		}
		g.values = append(g.values, p.SaleValue)
		g.prices = append(g.prices, p.PricePerArea)
		g.areas = append(g.areas, p.BuiltArea)
	}

	communes := make([]string, 0, len(groups))
	for c := range groups {
		communes = append(communes, c)
	}
	sort.Strings(communes)

	zones := make([]contracts.ProfileZone, 0, len(communes))
	for _, c := range communes {
		g := groups[c]
		zones = append(zones, contracts.ProfileZone{
			Commune:            c,
			Recommendations:    len(g.values),
			MedianPrice:        math.Round(numeric.Median(g.values)),
			MedianPricePerArea: math.Round(numeric.Median(g.prices)),
			MedianArea:         math.Round(numeric.Median(g.areas)),
		})
	}

	sort.SliceStable(zones, func(i, j int) bool {
		return zones[i].Recommendations > zones[j].Recommendations
	})
	return zones
}
