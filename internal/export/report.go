package export

import (
	"time"

	"github.com/wonny/dvf-invest/backend/internal/analytics"
	"github.com/wonny/dvf-invest/backend/internal/contracts"
)

// Report is everything a run writes to disk
type Report struct {
	RunID          string                         `json:"run_id"`
	ProfileID      string                         `json:"profile_id"`
	ConfigHash     string                         `json:"config_hash"`
	GeneratedAt    time.Time                      `json:"generated_at"`
	Quality        *contracts.DataQualitySnapshot `json:"qualite_donnees,omitempty"`
	Cleaning       *contracts.CleaningReport      `json:"nettoyage,omitempty"`
	Yields         *contracts.YieldReport         `json:"rendements,omitempty"`
	Zones          []contracts.Zone               `json:"zones"`
	Recommendation *contracts.Recommendation      `json:"recommandations,omitempty"`
	Summary        *contracts.ExecutiveSummary    `json:"resume_executif,omitempty"`
	Opportunities  []contracts.ScoredRecord       `json:"opportunites,omitempty"`
	Analytics      *analytics.Report              `json:"analyses,omitempty"`
}
