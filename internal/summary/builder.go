package summary

import (
	"context"
	"fmt"

	"github.com/wonny/dvf-invest/backend/internal/contracts"
	"github.com/wonny/dvf-invest/backend/pkg/logger"
	"github.com/wonny/dvf-invest/backend/pkg/numeric"
)

// Risk thresholds
const (
	LowLiquidityTransactions = 10 // 연간 거래 < 10 → 유동성 낮음
	LowYieldPercent          = 3.0
)

// 고정 문구
var (
	riskRecommendations = []string{
		"Privilégier les zones avec plus de 10 transactions annuelles",
		"Éviter les zones avec rendement < 3%",
		"Diversifier géographiquement les investissements",
	}
	beginnerAdvice = []string{
		"Commencer par les zones 'Premium' ou 'Attractives'",
		"Privilégier un rendement de 4-6% pour commencer",
		"Choisir des biens de 50-80m² pour faciliter la location",
	}
	experiencedAdvice = []string{
		"Explorer les zones émergentes avec potentiel",
		"Considérer des rendements de 6%+ pour plus de plus-value",
		"Diversifier sur plusieurs départements",
	}
	beforePurchase = []string{
		"✓ Vérifier l'état du marché locatif local",
		"✓ Estimer les frais de rénovation nécessaires",
		"✓ Calculer la rentabilité nette (charges comprises)",
		"✓ Vérifier les projets d'aménagement du territoire",
		"✓ Analyser la démographie et l'emploi local",
	}
	selectionCriteria = []string{
		"✓ Score d'investissement > 5/10",
		"✓ Rendement brut > 4%",
		"✓ Zone avec > 10 transactions/an",
		"✓ Prix en dessous de la moyenne locale",
		"✓ Surface adaptée au marché locatif (30-120m²)",
	}
	afterPurchase = []string{
		"✓ Optimiser la fiscalité (régime micro-BIC ou réel)",
		"✓ Souscrire les assurances appropriées",
		"✓ Mettre en place une gestion locative efficace",
		"✓ Surveiller l'évolution du marché local",
		"✓ Planifier les travaux de maintenance",
	}
)

// Builder implements S6: executive summary
// ⭐ SSOT: S6 요약 생성은 여기서만
type Builder struct {
	logger *logger.Logger
}

// NewBuilder creates a new summary builder
func NewBuilder(log *logger.Logger) *Builder {
	if log == nil {
		log = logger.Nop()
	}
	return &Builder{logger: log.Component("summary.builder")}
}

// Build aggregates the recommendation and the zone table.
// Only counts and means are computed here; an empty zone table gives zero means.
func (b *Builder) Build(ctx context.Context, rec *contracts.Recommendation, zones []contracts.Zone) (*contracts.ExecutiveSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, &contracts.ValidationError{Field: "recommendation", Message: "required"}
	}

	market := marketOverview(zones)
	summary := &contracts.ExecutiveSummary{
		Market: market,
		Risks:  riskAnalysis(zones),
		Advice: contracts.StrategicAdvice{
			Beginner:    clone(beginnerAdvice),
			Experienced: clone(experiencedAdvice),
			MarketTrends: []string{
				fmt.Sprintf("Rendement moyen du marché: %.1f%%", market.MeanMarketYield),
				fmt.Sprintf("%d zones premium identifiées", market.PremiumZones),
				"Opportunités principalement en périphérie des grandes métropoles",
			},
		},
		Checklist: contracts.InvestorChecklist{
			BeforePurchase:    clone(beforePurchase),
			SelectionCriteria: clone(selectionCriteria),
			AfterPurchase:     clone(afterPurchase),
		},
	}

	if best, ok := rec.Best(); ok && rec.HasMatches() {
		summary.Opportunities = opportunities(best)
	}

	b.logger.WithFields(map[string]interface{}{
		"total_zones":     market.TotalZones,
		"premium_zones":   market.PremiumZones,
		"avoid_zones":     summary.Risks.AvoidZones,
		"has_opportunity": summary.Opportunities != nil,
	}).Info("Executive summary completed")

	return summary, nil
}

func marketOverview(zones []contracts.Zone) contracts.MarketOverview {
	overview := contracts.MarketOverview{TotalZones: len(zones)}

	yields := make([]*float64, 0, len(zones))
	prices := make([]float64, 0, len(zones))
	for _, z := range zones {
		switch z.Category {
		case contracts.ZonePremium:
			overview.PremiumZones++
		case contracts.ZoneAttractive:
			overview.AttractiveZones++
		}
		yields = append(yields, z.GrossYield)
		prices = append(prices, z.PricePerArea)
	}

	if y := numeric.MeanPtr(yields); y != nil {
		overview.MeanMarketYield = *y
	}
	overview.MeanPricePerArea = numeric.Mean(prices)
	return overview
}

func riskAnalysis(zones []contracts.Zone) contracts.RiskAnalysis {
	risks := contracts.RiskAnalysis{RiskRecommendations: clone(riskRecommendations)}
	for _, z := range zones {
		if z.Category == contracts.ZoneAvoid {
			risks.AvoidZones++
		}
		if z.Transactions < LowLiquidityTransactions {
			risks.LowLiquidityZones++
		}
		if z.GrossYield != nil && *z.GrossYield < LowYieldPercent {
			risks.LowYieldZones++
		}
	}
	return risks
}

func opportunities(best contracts.ZonePick) *contracts.Opportunities {
	yieldLine := "Rendement estimé: non disponible"
	if best.GrossYield != nil {
		yieldLine = fmt.Sprintf("Rendement estimé: %.1f%%", *best.GrossYield)
	}

	return &contracts.Opportunities{
		Best: contracts.BestOpportunity{
			Commune:    best.Commune,
			Department: best.Department,
			Score:      best.GlobalScore,
			GrossYield: best.GrossYield,
			MeanPrice:  best.MeanPrice,
		},
		Highlights: []string{
			fmt.Sprintf("Score d'investissement: %.1f/10", best.GlobalScore),
			yieldLine,
			fmt.Sprintf("Catégorie: %s", best.Category),
		},
	}
}

func clone(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
