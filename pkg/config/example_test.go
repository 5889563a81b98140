package config_test

import (
	"fmt"

	"github.com/wonny/dvf-invest/backend/pkg/config"
)

// Example demonstrates how to use the config package
func Example() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		return
	}

	fmt.Printf("Environment: %s\n", cfg.Env)
	fmt.Printf("DVF source: %s (%s)\n", cfg.Data.Source, cfg.Data.InputPath)
	fmt.Printf("Reports: %s\n", cfg.Data.OutputDir)
}
