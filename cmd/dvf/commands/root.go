package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	profileFile string
	inputPath   string
	rentPath    string
	sourceFlag  string
	outputDir   string
	verbose     bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dvf",
	Short: "DVF Invest - 부동산 투자 존 분석",
	Long: `DVF Invest Unified CLI

DVF (Demandes de Valeurs Foncières) 거래 데이터로 투자 존을 점수화하고 추천합니다.
7단계 파이프라인: 정제 → 임대 수익률 → 점수 → 존 집계 → 필터 → 랭킹 → 요약.

Usage:
  go run ./cmd/dvf [command]

Examples:
  go run ./cmd/dvf analyze --input data/dvf.csv --budget 250000
  go run ./cmd/dvf opportunities --limit 10
  go run ./cmd/dvf recommend --profile-type debutant
  go run ./cmd/dvf stats --method zscore
  go run ./cmd/dvf data-check --input data/dvf.csv
  go run ./cmd/dvf config validate config/analysis/dvf_default.yaml`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags (환경 변수보다 우선)
	rootCmd.PersistentFlags().StringVar(&profileFile, "profile", "", "analysis profile YAML (default: DVF_PROFILE_PATH or built-in defaults)")
	rootCmd.PersistentFlags().StringVar(&inputPath, "input", "", "DVF CSV file (default: DVF_INPUT_PATH)")
	rootCmd.PersistentFlags().StringVar(&rentPath, "rent", "", "rent reference CSV (default: DVF_RENT_PATH, empty = simulated rents)")
	rootCmd.PersistentFlags().StringVar(&sourceFlag, "source", "", "data source csv|postgres (default: DVF_SOURCE)")
	rootCmd.PersistentFlags().StringVar(&outputDir, "output", "", "report directory (default: DVF_OUTPUT_DIR)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logs)")
}
