package main

import (
	"os"

	"github.com/wonny/dvf-invest/backend/cmd/dvf/commands"
)

// main is the entry point for the DVF CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/dvf [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
