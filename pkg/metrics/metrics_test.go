package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findMetric(t *testing.T, r *Recorder, name string) float64 {
	t.Helper()
	families, err := r.Gatherer().Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		total := 0.0
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				total += m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				total += m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				total += float64(m.GetHistogram().GetSampleCount())
			}
		}
		return total
	}
	t.Fatalf("metric %s not found", name)
	return 0
}

func TestRecorder(t *testing.T) {
	r := NewRecorder()

	r.RowsIngested(200)
	r.RowsRemoved(map[string]int{"year_range": 20, "invalid_value": 5})
	r.NullYields(3)
	r.ZonesRetained(12)
	r.ZonesEligible(4)
	r.ObserveStage("S0:Clean", 15*time.Millisecond)
	r.ObserveStage("S1:Yield", 5*time.Millisecond)

	assert.Equal(t, 200.0, findMetric(t, r, "dvf_rows_ingested_total"))
	assert.Equal(t, 25.0, findMetric(t, r, "dvf_rows_removed_total"))
	assert.Equal(t, 3.0, findMetric(t, r, "dvf_null_yields_total"))
	assert.Equal(t, 12.0, findMetric(t, r, "dvf_zones_retained"))
	assert.Equal(t, 4.0, findMetric(t, r, "dvf_zones_eligible"))
	assert.Equal(t, 2.0, findMetric(t, r, "dvf_stage_duration_seconds"))
}

func TestWriteTextfile(t *testing.T) {
	r := NewRecorder()
	r.RowsIngested(10)

	path := filepath.Join(t.TempDir(), "nested", "dvf.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "dvf_rows_ingested_total 10"))
}
