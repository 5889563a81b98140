package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/dvf-invest/backend/internal/brain"
	"github.com/wonny/dvf-invest/backend/internal/export"
	"github.com/wonny/dvf-invest/backend/internal/strategyconfig"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "전체 파이프라인 실행 (S0 → S6)",
	Long: `DVF 거래로 존을 점수화하고 투자자 조건에 맞는 존을 추천합니다.

S0 → S1 → S2 → S3 → S4 → S5 → S6

각 단계:
- S0: Data Loading & Cleaning
- S1: Rental Yield Estimation
- S2: Scoring (0~10)
- S3: Zone Aggregation
- S4: Investor Filter
- S5: Ranking
- S6: Executive Summary

Flags override the analysis profile.

Example:
  go run ./cmd/dvf analyze
  go run ./cmd/dvf analyze --budget 250000 --yield-min 5
  go run ./cmd/dvf analyze --profile config/analysis/dvf_default.yaml --no-export`,
	RunE: runAnalyze,
}

var (
	analyzeBudget        float64
	analyzeSurfaceMin    float64
	analyzeSurfaceMax    float64
	analyzeYieldMin      float64
	analyzeOpportunities bool
	analyzeNoExport      bool
)

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().Float64Var(&analyzeBudget, "budget", 0, "maximum budget in € (default: profile criteria.budget_max)")
	analyzeCmd.Flags().Float64Var(&analyzeSurfaceMin, "surface-min", 0, "minimum built area in m²")
	analyzeCmd.Flags().Float64Var(&analyzeSurfaceMax, "surface-max", 0, "maximum built area in m²")
	analyzeCmd.Flags().Float64Var(&analyzeYieldMin, "yield-min", 0, "minimum gross yield in %")
	analyzeCmd.Flags().BoolVar(&analyzeOpportunities, "opportunities", true, "run the opportunity finder (1~5 scale)")
	analyzeCmd.Flags().BoolVar(&analyzeNoExport, "no-export", false, "skip JSON/XLSX reports")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	applyCriteriaFlags(cmd, rt.strategy)
	if err := strategyconfig.Validate(rt.strategy); err != nil {
		return fmt.Errorf("invalid criteria: %w", err)
	}

	runID := brain.GenerateRunID()
	runConfig, err := brain.NewRunConfig(rt.strategy, rt.strategyYAML, runID, analyzeOpportunities)
	if err != nil {
		return fmt.Errorf("run config: %w", err)
	}

	PrintRunHeader(RunMetadata{
		Title:   "DVF Invest - Zone Analysis",
		RunID:   runID,
		Profile: rt.strategy.Meta.ProfileID,
		Source:  rt.cfg.Data.Source,
	})

	orchestrator := brain.NewFromStrategy(rt.strategy, rt.transactions, rt.rents, rt.recorder, rt.log)
	result, err := orchestrator.Run(ctx, runConfig)
	defer rt.writeMetrics()
	if err != nil {
		return fmt.Errorf("pipeline run failed: %w", err)
	}

	printRunResult(result)

	if analyzeNoExport {
		return nil
	}

	writer := export.NewWriter(rt.cfg.Data.OutputDir, rt.log)
	paths, err := writer.WriteAll(ctx, &export.Report{
		RunID:          result.RunID,
		ProfileID:      result.ProfileID,
		ConfigHash:     result.ConfigHash,
		GeneratedAt:    time.Now(),
		Quality:        result.Quality,
		Cleaning:       result.Cleaning,
		Yields:         result.Yields,
		Zones:          result.Zones,
		Recommendation: result.Recommendation,
		Summary:        result.Summary,
		Opportunities:  result.Opportunities,
	})
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	fmt.Println()
	for _, p := range paths {
		PrintSuccess("Report written: " + p)
	}
	return nil
}

// applyCriteriaFlags overrides the profile criteria with the flags that were set
func applyCriteriaFlags(cmd *cobra.Command, cfg *strategyconfig.Config) {
	if cmd.Flags().Changed("budget") {
		cfg.Criteria.BudgetMax = analyzeBudget
	}
	if cmd.Flags().Changed("surface-min") {
		cfg.Criteria.SurfaceMin = analyzeSurfaceMin
	}
	if cmd.Flags().Changed("surface-max") {
		cfg.Criteria.SurfaceMax = analyzeSurfaceMax
	}
	if cmd.Flags().Changed("yield-min") {
		cfg.Criteria.YieldMin = analyzeYieldMin
	}
}

func printRunResult(result *brain.RunResult) {
	fmt.Println("\n✅ Pipeline Run Completed")
	fmt.Println()

	fmt.Printf("Run ID: %s\n", result.RunID)
	fmt.Printf("Config hash: %s\n", result.ConfigHash)
	fmt.Printf("Duration: %.2fs\n", result.Duration.Seconds())
	fmt.Println()

	fmt.Println("Completed Stages:")
	for _, stage := range result.CompletedStages {
		fmt.Printf("  ✅ %s\n", stage)
	}

	if q := result.Quality; q != nil {
		PrintSection("Qualité des données")
		PrintKeyValue("Score qualité", fmt.Sprintf("%.2f", q.QualityScore), 18)
		PrintKeyValue("Lignes complètes", fmt.Sprintf("%d / %d", q.ValidRows, q.TotalRows), 18)
		if !q.Passed {
			PrintWarning(fmt.Sprintf("Contrôles en échec: %v", q.Failed))
		}
	}

	if c := result.Cleaning; c != nil {
		PrintSection("Nettoyage")
		PrintKeyValue("Lignes initiales", fmt.Sprintf("%d", c.OriginalRows), 18)
		PrintKeyValue("Lignes retenues", fmt.Sprintf("%d", c.CleanedRows), 18)
		PrintKeyValue("Supprimées", fmt.Sprintf("%d (%.2f%%)", c.RemovedRows, c.RemovalPercentage), 18)
	}
	if y := result.Yields; y != nil {
		PrintKeyValue("Mode loyers", string(y.Mode), 18)
		PrintKeyValue("Sans rendement", fmt.Sprintf("%d", y.NullYields), 18)
	}

	PrintSection(fmt.Sprintf("Zones retenues: %d", len(result.Zones)))

	rec := result.Recommendation
	if rec == nil || !rec.HasMatches() {
		if rec != nil {
			PrintWarning(rec.Message)
		}
		return
	}

	PrintSection("Top 5")
	widths := []int{24, 5, 8, 10, 14, 16}
	PrintTableHeader([]string{"Commune", "Dept", "Score", "Rendement", "Prix moyen", "Catégorie"}, widths)
	for _, p := range rec.Top5Global {
		PrintTableRow([]string{
			p.Commune,
			p.Department,
			fmt.Sprintf("%.2f", p.GlobalScore),
			formatPercent(p.GrossYield),
			formatEuro(p.MeanPrice),
			p.Category,
		}, widths)
	}

	if ps := rec.Portfolio; ps != nil {
		PrintSection("Portefeuille")
		PrintKeyValue("Zones éligibles", fmt.Sprintf("%d", ps.EligibleZones), 18)
		PrintKeyValue("Rendement moyen", formatPercent(ps.MeanGrossYield), 18)
		PrintKeyValue("Prix moyen", formatEuro(ps.MeanZonePrice), 18)
		PrintKeyValue("Budget", ps.BudgetUtilisation, 18)
	}

	if s := result.Summary; s != nil && s.Opportunities != nil {
		PrintSection("Meilleure opportunité")
		PrintList(s.Opportunities.Highlights)
	}

	if len(result.Opportunities) > 0 {
		PrintSection(fmt.Sprintf("Opportunités (1~5): %d", len(result.Opportunities)))
	}
}
