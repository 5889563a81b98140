package strategyconfig

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	path := "../../config/analysis/dvf_default.yaml"

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Skip("config file not found")
	}

	cfg, yamlData, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Meta.ProfileID != "dvf_default" {
		t.Errorf("expected profile_id=dvf_default, got %s", cfg.Meta.ProfileID)
	}
	if cfg.Rental.PriceToRentYears != 22 {
		t.Errorf("expected price_to_rent_years=22, got %v", cfg.Rental.PriceToRentYears)
	}

	hash, err := Hash(cfg)
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if len(hash) != 64 {
		t.Errorf("expected 64 char hash, got %d", len(hash))
	}

	// 동일 설정 → 동일 해시
	hash2, _ := Hash(cfg)
	if hash != hash2 {
		t.Error("hash not deterministic")
	}

	// 파일 내용이 기본값과 동일
	defHash, _ := Hash(Default())
	if hash != defHash {
		t.Error("default yaml drifted from Default()")
	}

	t.Logf("yaml size: %d bytes", len(yamlData))
}

func TestDefaultIsValid(t *testing.T) {
	if err := Validate(Default()); err != nil {
		t.Fatalf("Default() should be valid: %v", err)
	}
	if w := Warn(Default()); len(w) != 0 {
		t.Errorf("Default() should not warn, got %v", w)
	}
}

func TestParsePartialKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte("criteria:\n  budget_max: 150000\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Criteria.BudgetMax != 150000 {
		t.Errorf("expected budget_max=150000, got %v", cfg.Criteria.BudgetMax)
	}
	if cfg.Criteria.SurfaceMax != 120 {
		t.Errorf("expected default surface_max=120, got %v", cfg.Criteria.SurfaceMax)
	}
	if cfg.Zones.MinTransactions != 10 {
		t.Errorf("expected default min_transactions=10, got %d", cfg.Zones.MinTransactions)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typo.yaml")
	if err := os.WriteFile(path, []byte("zones:\n  min_transaction: 10\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := Load(path); err == nil {
		t.Error("expected error for unknown field min_transaction")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	negative := -1.0

	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"empty profile id", func(c *Config) { c.Meta.ProfileID = "" }, "meta.profile_id"},
		{"inverted years", func(c *Config) { c.Cleaning.StartYear = 2024 }, "cleaning"},
		{"inverted price bounds", func(c *Config) { c.Cleaning.MinPricePerArea = 60000 }, "cleaning"},
		{"zero rent years", func(c *Config) { c.Rental.PriceToRentYears = 0 }, "rental.price_to_rent_years"},
		{"net factor above one", func(c *Config) { c.Rental.NetYieldFactor = 1.5 }, "rental.net_yield_factor"},
		{"unknown null policy", func(c *Config) { c.Rental.NullYieldPolicy = "mean" }, "rental.null_yield_policy"},
		{"zero min transactions", func(c *Config) { c.Zones.MinTransactions = 0 }, "zones.min_transactions"},
		{"negative budget", func(c *Config) { c.Criteria.BudgetMax = -5 }, "criteria.budget_max"},
		{"inverted surface", func(c *Config) { c.Criteria.SurfaceMin = 200 }, "criteria.surface"},
		{"zero top n", func(c *Config) { c.Ranking.TopN = 0 }, "ranking"},
		{"negative max price", func(c *Config) { c.Opportunities.MaxPricePerArea = &negative }, "opportunities.max_price_per_area"},
		{"unknown profile", func(c *Config) { c.Profile.Default = "agressif" }, "profile.default"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := Validate(cfg)
			var ve ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Field != tt.field {
				t.Errorf("expected field %s, got %s", tt.field, ve.Field)
			}
		})
	}
}

func TestWarn(t *testing.T) {
	cfg := Default()
	cfg.Zones.MinTransactions = 3
	cfg.Criteria.BudgetMax = 0

	warnings := Warn(cfg)
	codes := map[string]bool{}
	for _, w := range warnings {
		codes[w.Code] = true
	}

	if !codes["LOW_ZONE_SAMPLE"] {
		t.Error("expected LOW_ZONE_SAMPLE warning")
	}
	if !codes["ZERO_BUDGET"] {
		t.Error("expected ZERO_BUDGET warning")
	}
}

func TestNewRunSnapshot(t *testing.T) {
	cfg := Default()
	snap, err := NewRunSnapshot(cfg, []byte("meta: {}"), "run_1")
	if err != nil {
		t.Fatalf("NewRunSnapshot failed: %v", err)
	}
	if snap.ProfileID != "dvf_default" || snap.RunID != "run_1" {
		t.Errorf("unexpected snapshot %+v", snap)
	}
	if len(snap.ConfigHash) != 64 {
		t.Errorf("expected 64 char hash, got %d", len(snap.ConfigHash))
	}
}
