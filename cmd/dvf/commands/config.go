package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/wonny/dvf-invest/backend/internal/strategyconfig"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "분석 프로필 (YAML) 관리",
	Long: `분석 프로필을 검증하고 해시를 계산합니다.

Example:
  go run ./cmd/dvf config validate config/analysis/dvf_default.yaml
  go run ./cmd/dvf config show
  go run ./cmd/dvf config hash config/analysis/dvf_default.yaml`,
}

var (
	configValidateCmd = &cobra.Command{
		Use:   "validate <file>",
		Short: "프로필 검증 (unknown field 포함)",
		Args:  cobra.ExactArgs(1),
		RunE:  runConfigValidate,
	}

	configShowCmd = &cobra.Command{
		Use:   "show [file]",
		Short: "적용될 프로필 출력 (파일 없으면 기본값)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runConfigShow,
	}

	configHashCmd = &cobra.Command{
		Use:   "hash [file]",
		Short: "프로필 SHA-256 해시",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runConfigHash,
	}
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configValidateCmd, configShowCmd, configHashCmd)
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, _, err := strategyconfig.Load(args[0])
	if err != nil {
		return err
	}

	PrintSuccess(fmt.Sprintf("%s is valid (profile %s v%s)", args[0], cfg.Meta.ProfileID, cfg.Meta.Version))
	for _, w := range strategyconfig.Warn(cfg) {
		fmt.Printf("⚠️  [%s] %s\n", w.Code, w.Message)
	}
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadProfileArg(args)
	if err != nil {
		return err
	}

	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	fmt.Print(string(out))
	return nil
}

func runConfigHash(cmd *cobra.Command, args []string) error {
	cfg, err := loadProfileArg(args)
	if err != nil {
		return err
	}

	hash, err := strategyconfig.Hash(cfg)
	if err != nil {
		return err
	}
	fmt.Println(hash)
	return nil
}

func loadProfileArg(args []string) (*strategyconfig.Config, error) {
	path := profileFile
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		return strategyconfig.Default(), nil
	}
	cfg, _, err := strategyconfig.Load(path)
	return cfg, err
}
