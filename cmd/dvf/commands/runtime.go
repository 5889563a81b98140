package commands

import (
	"context"
	"fmt"

	"github.com/wonny/dvf-invest/backend/internal/contracts"
	"github.com/wonny/dvf-invest/backend/internal/s0_data"
	"github.com/wonny/dvf-invest/backend/internal/s0_data/loader"
	"github.com/wonny/dvf-invest/backend/internal/strategyconfig"
	"github.com/wonny/dvf-invest/backend/pkg/config"
	"github.com/wonny/dvf-invest/backend/pkg/database"
	"github.com/wonny/dvf-invest/backend/pkg/logger"
	"github.com/wonny/dvf-invest/backend/pkg/metrics"
)

// runtime is everything a command needs to run a stage
type runtime struct {
	cfg          *config.Config
	strategy     *strategyconfig.Config
	strategyYAML []byte
	log          *logger.Logger
	recorder     *metrics.Recorder

	transactions contracts.TransactionSource
	rents        contracts.RentReferenceSource // nil → 시뮬레이션

	db *database.DB
}

// newRuntime loads env config, the analysis profile and the data sources.
// Flags override environment values.
func newRuntime(ctx context.Context) (*runtime, error) {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	applyFlagOverrides(cfg)

	// 2. Initialize logger
	log := logger.New(cfg)

	rt := &runtime{
		cfg:      cfg,
		log:      log,
		recorder: metrics.NewRecorder(),
	}

	// 3. Analysis profile
	if cfg.Data.ProfilePath != "" {
		strategy, data, err := strategyconfig.Load(cfg.Data.ProfilePath)
		if err != nil {
			return nil, err
		}
		rt.strategy, rt.strategyYAML = strategy, data
	} else {
		rt.strategy = strategyconfig.Default()
	}
	for _, w := range strategyconfig.Warn(rt.strategy) {
		log.WithField("code", w.Code).Warn(w.Message)
	}

	// 4. Data sources
	switch cfg.Data.Source {
	case config.SourcePostgres:
		db, err := database.New(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		rt.db = db
		pg := loader.NewPostgresSource(db.Pool, log)
		rt.transactions = pg
		rt.rents = pg
	case config.SourceCSV:
		rt.transactions = loader.NewCSVSource(cfg.Data.InputPath, log)
		if cfg.Data.RentPath != "" {
			rt.rents = loader.NewRentCSVSource(cfg.Data.RentPath, log)
		}
	default:
		return nil, fmt.Errorf("invalid data source: %s (must be csv or postgres)", cfg.Data.Source)
	}

	return rt, nil
}

func applyFlagOverrides(cfg *config.Config) {
	if profileFile != "" {
		cfg.Data.ProfilePath = profileFile
	}
	if inputPath != "" {
		cfg.Data.InputPath = inputPath
	}
	if rentPath != "" {
		cfg.Data.RentPath = rentPath
	}
	if sourceFlag != "" {
		cfg.Data.Source = sourceFlag
	}
	if outputDir != "" {
		cfg.Data.OutputDir = outputDir
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
}

// Close releases the database pool
func (rt *runtime) Close() {
	if rt.db != nil {
		rt.db.Close()
	}
}

// loadCleaned runs S0 only (load + clean)
func (rt *runtime) loadCleaned(ctx context.Context) ([]contracts.Transaction, *contracts.CleaningReport, error) {
	raws, err := rt.transactions.LoadTransactions(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load transactions: %w", err)
	}

	cleaner := s0_data.NewCleaner(s0_data.CleanerConfig{
		StartYear:       rt.strategy.Cleaning.StartYear,
		EndYear:         rt.strategy.Cleaning.EndYear,
		MinPricePerArea: rt.strategy.Cleaning.MinPricePerArea,
		MaxPricePerArea: rt.strategy.Cleaning.MaxPricePerArea,
	}, rt.log)

	txs, err := cleaner.Clean(ctx, raws)
	if err != nil {
		return nil, nil, fmt.Errorf("clean: %w", err)
	}
	report, err := cleaner.Report()
	if err != nil {
		return nil, nil, err
	}
	return txs, report, nil
}

// writeMetrics writes the textfile when METRICS_ENABLED is set
func (rt *runtime) writeMetrics() {
	if !rt.cfg.MetricsEnabled {
		return
	}
	if err := rt.recorder.WriteTextfile(rt.cfg.MetricsFile); err != nil {
		rt.log.WithError(err).Warn("Failed to write metrics textfile")
		return
	}
	rt.log.WithField("path", rt.cfg.MetricsFile).Info("Metrics textfile written")
}
