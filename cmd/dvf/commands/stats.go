package commands

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/dvf-invest/backend/internal/analytics"
	"github.com/wonny/dvf-invest/backend/internal/export"
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "시장 통계 분석",
	Long: `정제된 거래의 기술 통계, 이상치, 지역/유형/연도별 분석을 출력합니다.

Example:
  go run ./cmd/dvf stats
  go run ./cmd/dvf stats --method zscore --top 5
  go run ./cmd/dvf stats --json`,
	RunE: runStats,
}

var (
	statsMethod string
	statsTop    int
	statsJSON   bool
)

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().StringVar(&statsMethod, "method", analytics.OutlierIQR, "outlier method (iqr|zscore)")
	statsCmd.Flags().IntVar(&statsTop, "top", 10, "communes per ranking")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "write the analytics report as JSON")
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	PrintRunHeader(RunMetadata{
		Title:   "DVF Invest - Statistiques du marché",
		Profile: rt.strategy.Meta.ProfileID,
		Source:  rt.cfg.Data.Source,
	})

	txs, cleaning, err := rt.loadCleaned(ctx)
	if err != nil {
		return err
	}

	report, err := analytics.NewAnalyzer(statsMethod, statsTop, rt.log).Analyze(ctx, txs)
	if err != nil {
		return fmt.Errorf("analytics: %w", err)
	}

	PrintSection("Statistiques descriptives")
	names := make([]string, 0, len(report.Descriptive))
	for name := range report.Descriptive {
		names = append(names, name)
	}
	sort.Strings(names)

	widths := []int{26, 7, 12, 12, 12, 9, 9}
	PrintTableHeader([]string{"Variable", "N", "Moyenne", "Médiane", "Écart-type", "Skew", "Kurt"}, widths)
	for _, name := range names {
		d := report.Descriptive[name]
		PrintTableRow([]string{
			name,
			fmt.Sprintf("%d", d.Count),
			fmt.Sprintf("%.2f", d.Mean),
			fmt.Sprintf("%.2f", d.Median),
			fmt.Sprintf("%.2f", d.Std),
			fmt.Sprintf("%.2f", d.Skewness),
			fmt.Sprintf("%.2f", d.Kurtosis),
		}, widths)
	}

	PrintSection("Outliers (" + statsMethod + ")")
	for _, name := range []string{analytics.MetricPricePerArea, analytics.MetricSaleValue, analytics.MetricBuiltArea} {
		if o := report.Outliers[name]; o != nil {
			PrintKeyValue(name, fmt.Sprintf("%d (%.2f%%)", o.Count, o.Percentage), 20)
		}
	}

	PrintSection("Évolution annuelle")
	for _, y := range report.Yearly {
		growth := "-"
		if y.PriceGrowth != nil {
			growth = fmt.Sprintf("%+.2f%%", *y.PriceGrowth)
		}
		fmt.Printf("   %d  %6d ventes  %10.2f €/m²  %s\n", y.Year, y.Transactions, y.MeanPricePerArea, growth)
	}

	PrintSection("Communes les plus chères")
	for _, c := range report.TopExpensive {
		fmt.Printf("   %-24s (%s) %10.2f €/m²  %d ventes\n", truncate(c.Commune, 24), c.Department, c.Mean, c.Transactions)
	}
	PrintSection("Communes les plus abordables")
	for _, c := range report.TopAffordable {
		fmt.Printf("   %-24s (%s) %10.2f €/m²  %d ventes\n", truncate(c.Commune, 24), c.Department, c.Mean, c.Transactions)
	}

	if a := report.Anomalies; a != nil {
		PrintSection("Anomalies de marché")
		if a.Temporal != nil {
			PrintKeyValue("Jours à fort volume", fmt.Sprintf("%d (seuil %.1f)", a.Temporal.HighVolumeDays, a.Temporal.Threshold), 24)
		}
		PrintKeyValue("Surprimes > 50%", fmt.Sprintf("%d", a.Premiums.Count), 24)
		for _, g := range a.Premiums.Communes {
			fmt.Printf("   %-24s (%s) %+8.1f%%  %10.2f €/m²\n", truncate(g.Commune, 24), g.Department, g.GapPercent, g.PricePerArea)
		}
		PrintKeyValue("Décotes < -30%", fmt.Sprintf("%d", a.Discounts.Count), 24)
		for _, g := range a.Discounts.Communes {
			fmt.Printf("   %-24s (%s) %+8.1f%%  %10.2f €/m²\n", truncate(g.Commune, 24), g.Department, g.GapPercent, g.PricePerArea)
		}
	}

	if inv := report.Investment; inv != nil {
		PrintSection("Segments de surface")
		for _, s := range inv.Segments {
			fmt.Printf("   %-10s %6d ventes  %10.2f €/m²  %12.2f €\n", s.Segment, s.Transactions, s.MeanPricePerArea, s.MeanValue)
		}
		PrintSection("Rendement brut estimé")
		for _, y := range inv.Yields {
			fmt.Printf("   %-24s %12.0f €  loyer %8.0f €/mois  %5.1f%%\n", truncate(y.PropertyType, 24), y.MeanValue, y.MonthlyRent, y.GrossYield)
		}
	}

	if !statsJSON {
		return nil
	}

	path, err := export.NewWriter(rt.cfg.Data.OutputDir, rt.log).WriteJSON(ctx, &export.Report{
		RunID:       "stats_" + time.Now().Format("20060102_150405"),
		ProfileID:   rt.strategy.Meta.ProfileID,
		GeneratedAt: time.Now(),
		Cleaning:    cleaning,
		Analytics:   report,
	})
	if err != nil {
		return err
	}
	fmt.Println()
	PrintSuccess("Report written: " + path)
	return nil
}
