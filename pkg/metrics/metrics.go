package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder collects run metrics of the DVF pipeline.
// A batch run has no scrape endpoint, so metrics are written as a
// node_exporter textfile at the end of the run.
// ⭐ SSOT: 파이프라인 메트릭 정의는 여기서만
type Recorder struct {
	registry *prometheus.Registry

	rowsIngested  prometheus.Counter
	rowsRemoved   *prometheus.CounterVec
	nullYields    prometheus.Counter
	zonesRetained prometheus.Gauge
	zonesEligible prometheus.Gauge
	stageDuration *prometheus.HistogramVec
}

// NewRecorder creates a recorder backed by its own registry
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		rowsIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dvf",
			Name:      "rows_ingested_total",
			Help:      "Raw DVF rows handed to the cleaner.",
		}),
		rowsRemoved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dvf",
			Name:      "rows_removed_total",
			Help:      "Rows removed during cleaning, by reason.",
		}, []string{"reason"}),
		nullYields: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dvf",
			Name:      "null_yields_total",
			Help:      "Records without a computable gross yield.",
		}),
		zonesRetained: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "dvf",
			Name:      "zones_retained",
			Help:      "Zones meeting the minimum transaction count.",
		}),
		zonesEligible: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "dvf",
			Name:      "zones_eligible",
			Help:      "Zones matching the investor criteria.",
		}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "dvf",
			Name:      "stage_duration_seconds",
			Help:      "Duration of each pipeline stage.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"stage"}),
	}

	r.registry.MustRegister(
		r.rowsIngested,
		r.rowsRemoved,
		r.nullYields,
		r.zonesRetained,
		r.zonesEligible,
		r.stageDuration,
	)

	return r
}

// RowsIngested adds n raw rows
func (r *Recorder) RowsIngested(n int) {
	r.rowsIngested.Add(float64(n))
}

// RowsRemoved adds removed rows per cleaning reason
func (r *Recorder) RowsRemoved(byReason map[string]int) {
	for reason, n := range byReason {
		r.rowsRemoved.WithLabelValues(reason).Add(float64(n))
	}
}

// NullYields adds n records without yield
func (r *Recorder) NullYields(n int) {
	r.nullYields.Add(float64(n))
}

// ZonesRetained sets the retained zone count
func (r *Recorder) ZonesRetained(n int) {
	r.zonesRetained.Set(float64(n))
}

// ZonesEligible sets the eligible zone count
func (r *Recorder) ZonesEligible(n int) {
	r.zonesEligible.Set(float64(n))
}

// ObserveStage records the duration of a stage
func (r *Recorder) ObserveStage(stage string, d time.Duration) {
	r.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// Gatherer exposes the registry (tests, custom exporters)
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes all metrics in the Prometheus text format
func (r *Recorder) WriteTextfile(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create metrics dir: %w", err)
		}
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
