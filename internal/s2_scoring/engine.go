package s2_scoring

import (
	"context"
	"fmt"

	"github.com/wonny/dvf-invest/backend/internal/contracts"
	"github.com/wonny/dvf-invest/backend/pkg/logger"
)

// Engine scores yield records against their zone statistics
type Engine struct {
	scorer           Scorer
	useRentEstimates bool
	log              *logger.Logger
}

// NewEngine creates a new Engine around a scorer
func NewEngine(scorer Scorer, log *logger.Logger) *Engine {
	if log == nil {
		log = logger.Nop()
	}
	return &Engine{
		scorer: scorer,
		log:    log.Component("s2_scoring.engine"),
	}
}

// WithRentEstimates feeds the record rent per m² to the scorer (row5 yield score)
func (e *Engine) WithRentEstimates(enabled bool) *Engine {
	e.useRentEstimates = enabled
	return e
}

// Scale returns the scale of the underlying scorer
func (e *Engine) Scale() contracts.ScoreScale {
	return e.scorer.Scale()
}

// Score is pass 2: every record is scored against its own zone from the lookup.
// A record whose zone is absent from the lookup is a validation error.
// ⭐ SSOT: S2 레코드 점수화
func (e *Engine) Score(ctx context.Context, records []contracts.YieldRecord, zones contracts.ZoneStatsLookup) ([]contracts.ScoredRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scored := make([]contracts.ScoredRecord, 0, len(records))
	classes := make(map[string]int)

	for i := range records {
		rec := records[i]
		stats, ok := zones.Get(rec.Zone())
		if !ok {
			return nil, &contracts.ValidationError{
				Field:   "zone_stats",
				Message: fmt.Sprintf("no statistics for zone %s", rec.Zone()),
			}
		}

		card := e.scorer.Score(e.input(&rec, stats))
		classes[card.Classification]++

		scored = append(scored, contracts.ScoredRecord{
			YieldRecord:          rec,
			ScoreCard:            card,
			ZoneMeanPricePerArea: stats.MeanPricePerArea,
			ZoneTransactions:     stats.Transactions,
		})
	}

	e.log.WithFields(map[string]interface{}{
		"scale":   e.scorer.Scale(),
		"records": len(scored),
		"zones":   len(zones),
		"classes": classes,
	}).Info("Scoring completed")

	return scored, nil
}

// ScoreRecords runs both passes on the same record set
func (e *Engine) ScoreRecords(ctx context.Context, records []contracts.YieldRecord) ([]contracts.ScoredRecord, contracts.ZoneStatsLookup, error) {
	lookup := BuildZoneStats(records)
	scored, err := e.Score(ctx, records, lookup)
	if err != nil {
		return nil, nil, err
	}
	return scored, lookup, nil
}

func (e *Engine) input(rec *contracts.YieldRecord, stats contracts.ZoneStats) contracts.ScoreInput {
	in := contracts.ScoreInput{
		PricePerArea:         rec.PricePerArea,
		ZoneMeanPricePerArea: stats.MeanPricePerArea,
		ZoneTransactions:     stats.Transactions,
		BuiltArea:            rec.BuiltArea,
		GrossYield:           rec.GrossYield,
	}
	if e.useRentEstimates {
		in.RentPerArea = rec.RentPerArea
	}
	return in
}
