package analytics

import (
	"context"

	"github.com/wonny/dvf-invest/backend/internal/contracts"
	"github.com/wonny/dvf-invest/backend/pkg/logger"
)

// Report bundles the market analytics of a cleaned dataset
type Report struct {
	Descriptive   map[string]*Descriptive   `json:"statistiques_descriptives"`
	Outliers      map[string]*OutlierReport `json:"outliers"`
	Geographic    *GeographicReport         `json:"analyse_geographique"`
	PropertyTypes []PropertyTypeStats       `json:"analyse_types_biens"`
	Yearly        []YearStats               `json:"evolution_annuelle"`
	TopExpensive  []CommuneMetric           `json:"communes_plus_cheres"`
	TopAffordable []CommuneMetric           `json:"communes_plus_abordables"`
	Anomalies     *MarketAnomalies          `json:"anomalies_marche"`
	Investment    *InvestmentAnalysis       `json:"analyse_investissement"`
}

// Analyzer runs the full market analytics
type Analyzer struct {
	method string
	topN   int
	logger *logger.Logger
}

// NewAnalyzer creates an analyzer; an empty method defaults to iqr, topN ≤ 0 to 10
func NewAnalyzer(method string, topN int, log *logger.Logger) *Analyzer {
	if log == nil {
		log = logger.Nop()
	}
	if method == "" {
		method = OutlierIQR
	}
	if topN <= 0 {
		topN = 10
	}
	return &Analyzer{method: method, topN: topN, logger: log.Component("analytics.analyzer")}
}

// Analyze computes every analytic over txs
func (a *Analyzer) Analyze(ctx context.Context, txs []contracts.Transaction) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := &Report{
		Descriptive:   DescribeTransactions(txs),
		Outliers:      make(map[string]*OutlierReport, 3),
		Geographic:    GeographicPrices(txs),
		PropertyTypes: PropertyTypes(txs),
		Yearly:        YearlyEvolution(txs),
		Anomalies:     DetectMarketAnomalies(txs),
		Investment:    AnalyzeInvestmentMarket(txs),
	}

	perArea, values, areas := columns(txs)
	for name, vals := range map[string][]float64{
		MetricPricePerArea: perArea,
		MetricSaleValue:    values,
		MetricBuiltArea:    areas,
	} {
		out, err := DetectOutliers(vals, a.method)
		if err != nil {
			return nil, err
		}
		report.Outliers[name] = out
	}

	var err error
	if report.TopExpensive, err = TopCommunes(txs, MetricPricePerArea, a.topN, false); err != nil {
		return nil, err
	}
	if report.TopAffordable, err = TopCommunes(txs, MetricPricePerArea, a.topN, true); err != nil {
		return nil, err
	}

	a.logger.WithFields(map[string]interface{}{
		"transactions":   len(txs),
		"departments":    len(report.Geographic.Departments),
		"communes":       len(report.Geographic.Communes),
		"property_types": len(report.PropertyTypes),
		"years":          len(report.Yearly),
		"outlier_method": a.method,
		"premium_zones":  report.Anomalies.Premiums.Count,
		"discount_zones": report.Anomalies.Discounts.Count,
	}).Info("Market analytics completed")

	return report, nil
}
