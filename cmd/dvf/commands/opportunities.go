package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/dvf-invest/backend/internal/brain"
	"github.com/wonny/dvf-invest/backend/internal/contracts"
	"github.com/wonny/dvf-invest/backend/internal/s1_rental"
	"github.com/wonny/dvf-invest/backend/internal/s2_scoring"
)

// opportunitiesCmd represents the opportunities command
var opportunitiesCmd = &cobra.Command{
	Use:   "opportunities",
	Short: "개별 거래 기회 탐색 (1~5 점수)",
	Long: `정제된 거래를 존 평균 대비 가격, 유동성, 면적, 수익률로 점수화합니다.

Example:
  go run ./cmd/dvf opportunities
  go run ./cmd/dvf opportunities --limit 10 --max-price-m2 4000
  go run ./cmd/dvf opportunities --use-rent --rent data/loyers.csv`,
	RunE: runOpportunities,
}

var (
	oppLimit      int
	oppMinSurface float64
	oppMaxSurface float64
	oppMaxPrice   float64
	oppMinZoneTx  int
	oppUseRent    bool
)

func init() {
	rootCmd.AddCommand(opportunitiesCmd)

	opportunitiesCmd.Flags().IntVar(&oppLimit, "limit", 0, "number of opportunities (default: profile opportunities.limit)")
	opportunitiesCmd.Flags().Float64Var(&oppMinSurface, "min-surface", 0, "minimum built area in m²")
	opportunitiesCmd.Flags().Float64Var(&oppMaxSurface, "max-surface", 0, "maximum built area in m²")
	opportunitiesCmd.Flags().Float64Var(&oppMaxPrice, "max-price-m2", 0, "maximum price per m²")
	opportunitiesCmd.Flags().IntVar(&oppMinZoneTx, "min-zone-tx", 0, "minimum transactions per zone")
	opportunitiesCmd.Flags().BoolVar(&oppUseRent, "use-rent", false, "score yields from rent estimates")
}

func runOpportunities(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	criteria := brain.OpportunityCriteriaFromStrategy(rt.strategy)
	flags := cmd.Flags()
	if flags.Changed("limit") {
		criteria.Limit = oppLimit
	}
	if flags.Changed("min-surface") {
		criteria.MinSurface = oppMinSurface
	}
	if flags.Changed("max-surface") {
		criteria.MaxSurface = oppMaxSurface
	}
	if flags.Changed("max-price-m2") {
		criteria.MaxPricePerArea = &oppMaxPrice
	}
	if flags.Changed("min-zone-tx") {
		criteria.MinZoneTransactions = oppMinZoneTx
	}
	if flags.Changed("use-rent") {
		criteria.UseRentEstimates = oppUseRent
	}

	PrintRunHeader(RunMetadata{
		Title:   "DVF Invest - Opportunités",
		Profile: rt.strategy.Meta.ProfileID,
		Source:  rt.cfg.Data.Source,
	})

	records, err := rt.loadYields(ctx)
	if err != nil {
		return err
	}

	found, err := s2_scoring.FindOpportunities(ctx, records, criteria, rt.log)
	if err != nil {
		return fmt.Errorf("find opportunities: %w", err)
	}

	if len(found) == 0 {
		PrintWarning("Aucune opportunité trouvée avec ces critères")
		return nil
	}

	widths := []int{22, 5, 12, 8, 10, 10, 7, 12}
	PrintTableHeader([]string{"Commune", "Dept", "Prix", "m²", "€/m²", "Rdt est.", "Score", "Classe"}, widths)
	for _, r := range found {
		PrintTableRow([]string{
			r.Commune,
			r.DepartmentCode,
			formatEuro(r.SaleValue),
			fmt.Sprintf("%.0f", r.BuiltArea),
			fmt.Sprintf("%.0f", r.PricePerArea),
			formatPercent(r.EstimatedYield),
			fmt.Sprintf("%.2f", r.GlobalScore),
			r.Classification,
		}, widths)
	}
	fmt.Println()
	PrintSuccess(fmt.Sprintf("%d opportunités", len(found)))
	return nil
}

// loadYields runs S0 and S1
func (rt *runtime) loadYields(ctx context.Context) ([]contracts.YieldRecord, error) {
	txs, _, err := rt.loadCleaned(ctx)
	if err != nil {
		return nil, err
	}

	var refs []contracts.RentReference
	if rt.rents != nil {
		if refs, err = rt.rents.LoadRentReferences(ctx); err != nil {
			return nil, fmt.Errorf("load rent references: %w", err)
		}
	}

	estimator := s1_rental.NewEstimator(s1_rental.EstimatorConfig{
		PriceToRentYears: rt.strategy.Rental.PriceToRentYears,
		NetYieldFactor:   rt.strategy.Rental.NetYieldFactor,
		NullYieldPolicy:  rt.strategy.Rental.NullYieldPolicy,
	}, rt.log)

	records, _, err := estimator.Estimate(ctx, txs, refs)
	if err != nil {
		return nil, fmt.Errorf("estimate yields: %w", err)
	}
	return records, nil
}
