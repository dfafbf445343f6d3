package api

import (
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/platform-carbon-estimator/internal/carbon"
	"github.com/rshade/platform-carbon-estimator/internal/config"
)

func findFamily(t *testing.T, families []*dto.MetricFamily, name string) *dto.MetricFamily {
	t.Helper()
	for _, f := range families {
		if f.GetName() == name {
			return f
		}
	}
	require.Failf(t, "metric family not found", "name=%s", name)
	return nil
}

func labelValue(m *dto.Metric, name string) string {
	for _, l := range m.GetLabel() {
		if l.GetName() == name {
			return l.GetValue()
		}
	}
	return ""
}

func TestMetrics_RecordAnalyses(t *testing.T) {
	reg := prometheus.NewRegistry()
	cfg := config.Default()
	analyzer, err := carbon.NewAnalyzer(nil)
	require.NoError(t, err)
	h := NewServer(cfg, NewService(analyzer, cfg.Projection, zerolog.Nop()), reg, zerolog.Nop()).Router()

	doRequest(t, h, http.MethodPost, "/api/v1/analyze", analyzeBody)
	doRequest(t, h, http.MethodPost, "/api/v1/analyze", analyzeBody)
	doRequest(t, h, http.MethodPost, "/api/v1/analyze", `{"connections":[]}`)

	families, err := reg.Gather()
	require.NoError(t, err)

	outcomes := map[string]float64{}
	for _, m := range findFamily(t, families, "carbon_analyses_total").GetMetric() {
		outcomes[labelValue(m, "outcome")] = m.GetCounter().GetValue()
	}
	assert.Equal(t, map[string]float64{"success": 2, "rejected": 1}, outcomes)

	footprint := findFamily(t, families, "carbon_selected_footprint_kg").GetMetric()
	require.Len(t, footprint, 1)
	assert.Equal(t, uint64(2), footprint[0].GetHistogram().GetSampleCount())
	assert.Greater(t, footprint[0].GetHistogram().GetSampleSum(), 0.0)

	statuses := map[string]uint64{}
	for _, m := range findFamily(t, families, "carbon_http_request_duration_seconds").GetMetric() {
		assert.Equal(t, "/api/v1/analyze", labelValue(m, "route"))
		assert.Equal(t, http.MethodPost, labelValue(m, "method"))
		statuses[labelValue(m, "status")] += m.GetHistogram().GetSampleCount()
	}
	assert.Equal(t, map[string]uint64{"200": 2, "400": 1}, statuses)
}
