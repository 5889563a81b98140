package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/dvf-invest/backend/internal/contracts"
	"github.com/wonny/dvf-invest/backend/internal/selection"
)

// recommendCmd represents the recommend command
var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "투자자 프로필별 매물 추천",
	Long: `투자자 프로필에 맞는 개별 거래를 추천합니다.

Profiles:
  debutant     score_securite (시세 대비 할인 + 거래량)
  experimente  score_opportunite (할인 폭 + 면적)
  equilibre    score_equilibre (기본값)

Example:
  go run ./cmd/dvf recommend --profile-type debutant --budget 200000
  go run ./cmd/dvf recommend --surface-min 40 --surface-max 90 --limit 5`,
	RunE: runRecommend,
}

var (
	recProfile    string
	recBudget     float64
	recSurfaceMin float64
	recSurfaceMax float64
	recLimit      int
)

func init() {
	rootCmd.AddCommand(recommendCmd)

	recommendCmd.Flags().StringVar(&recProfile, "profile-type", "", "debutant|experimente|equilibre (default: profile.default)")
	recommendCmd.Flags().Float64Var(&recBudget, "budget", 0, "maximum price in € (default: criteria.budget_max)")
	recommendCmd.Flags().Float64Var(&recSurfaceMin, "surface-min", 0, "minimum built area (default: criteria.surface_min)")
	recommendCmd.Flags().Float64Var(&recSurfaceMax, "surface-max", 0, "maximum built area (default: criteria.surface_max)")
	recommendCmd.Flags().IntVar(&recLimit, "limit", 0, "number of recommendations (default: profile.limit)")
}

func runRecommend(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	req := contracts.ProfileRequest{
		Profile:    contracts.InvestorProfile(rt.strategy.Profile.Default),
		BudgetMax:  rt.strategy.Criteria.BudgetMax,
		SurfaceMin: rt.strategy.Criteria.SurfaceMin,
		SurfaceMax: rt.strategy.Criteria.SurfaceMax,
		Limit:      rt.strategy.Profile.Limit,
	}
	flags := cmd.Flags()
	if flags.Changed("profile-type") {
		req.Profile = contracts.InvestorProfile(recProfile)
	}
	if flags.Changed("budget") {
		req.BudgetMax = recBudget
	}
	if flags.Changed("surface-min") {
		req.SurfaceMin = recSurfaceMin
	}
	if flags.Changed("surface-max") {
		req.SurfaceMax = recSurfaceMax
	}
	if flags.Changed("limit") {
		req.Limit = recLimit
	}

	PrintRunHeader(RunMetadata{
		Title:   "DVF Invest - Recommandations " + string(req.Profile),
		Profile: rt.strategy.Meta.ProfileID,
		Source:  rt.cfg.Data.Source,
	})

	txs, _, err := rt.loadCleaned(ctx)
	if err != nil {
		return err
	}

	rec, err := selection.NewProfileRecommender(rt.log).Recommend(ctx, txs, req)
	if err != nil {
		return fmt.Errorf("recommend: %w", err)
	}

	if rec.Message != "" {
		PrintWarning(rec.Message)
		return nil
	}

	PrintKeyValue("Profil", string(rec.Profile), 14)
	PrintKeyValue("Budget", formatEuro(rec.Budget), 14)
	PrintKeyValue("Surface", fmt.Sprintf("%.0f - %.0f m²", rec.SurfaceRange[0], rec.SurfaceRange[1]), 14)
	PrintKeyValue("Biens analysés", fmt.Sprintf("%d", rec.AnalysedProperties), 14)

	PrintSection("Biens recommandés")
	widths := []int{22, 5, 12, 6, 8, 6, 8}
	PrintTableHeader([]string{"Commune", "Dept", "Prix", "m²", "€/m²", "Année", "Score"}, widths)
	for _, p := range rec.Recommendations {
		PrintTableRow([]string{
			p.Commune,
			p.Department,
			formatEuro(p.SaleValue),
			fmt.Sprintf("%.0f", p.BuiltArea),
			fmt.Sprintf("%.0f", p.PricePerArea),
			fmt.Sprintf("%d", p.Year),
			fmt.Sprintf("%.3f", p.Score),
		}, widths)
	}

	PrintSection("Zones")
	for _, z := range rec.ZonesAnalysis {
		fmt.Printf("   %-22s %2d biens, prix médian %s, %s/m²\n",
			truncate(z.Commune, 22), z.Recommendations, formatEuro(z.MedianPrice), formatEuro(z.MedianPricePerArea))
	}

	PrintSection("Conseils")
	PrintList(rec.Advice)
	return nil
}
