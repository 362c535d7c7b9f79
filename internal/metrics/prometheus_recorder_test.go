package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStageDuration("init", 150*time.Millisecond)
	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.IncStageResult("init", ResultSuccess)
	pr.IncBuildOutcome(BuildOutcomeSuccess)
	pr.SetDocuments("posts", 7)
	pr.AddGeneratedPages("hierarchical_indexes", 3)
	pr.AddGeneratedPages("hierarchical_indexes", 0)

	mfs, err := reg.Gather()
	require.NoError(t, err)

	values := map[string]float64{}
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetGauge() != nil:
				values[mf.GetName()] = m.GetGauge().GetValue()
			case m.GetCounter() != nil:
				values[mf.GetName()] += m.GetCounter().GetValue()
			}
		}
	}
	assert.InDelta(t, 7, values["sitegraph_documents"], 0)
	assert.InDelta(t, 3, values["sitegraph_generated_pages_total"], 0)
	assert.InDelta(t, 1, values["sitegraph_stage_results_total"], 0)
	assert.InDelta(t, 1, values["sitegraph_build_outcomes_total"], 0)
}

func TestPrometheusRecorder_NilSafe(t *testing.T) {
	var pr *PrometheusRecorder
	assert.NotPanics(t, func() {
		pr.ObserveStageDuration("init", time.Second)
		pr.IncBuildOutcome(BuildOutcomeFailed)
		pr.SetDocuments("posts", 1)
	})
}

func TestPrometheusRecorder_WriteTextfile(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.IncBuildOutcome(BuildOutcomeSuccess)

	path := filepath.Join(t.TempDir(), "sitegraph.prom")
	require.NoError(t, pr.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `sitegraph_build_outcomes_total{outcome="success"} 1`)
}

func TestTestRecorderCounts(t *testing.T) {
	r := newTestRecorder()
	r.ObserveStageDuration("init", time.Millisecond)
	r.IncStageResult("init", ResultFatal)
	r.IncBuildOutcome(BuildOutcomeFailed)
	assert.Equal(t, 1, r.stageDurations["init"])
	assert.Equal(t, 1, r.stageResults["init"][ResultFatal])
	assert.Equal(t, 1, r.buildOutcomes[BuildOutcomeFailed])
}
