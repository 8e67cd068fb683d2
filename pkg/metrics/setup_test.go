package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMetrics() *Metrics {
	return NewMetrics(Config{
		Address:     ":0",
		ServiceName: "embedding-server-test",
	})
}

func gatherFamily(t *testing.T, m *Metrics, name string) *dto.MetricFamily {
	t.Helper()

	families, err := m.Registry.Gather()
	require.NoError(t, err)

	for _, family := range families {
		if family.GetName() == name {
			return family
		}
	}
	return nil
}

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, DefaultMetricsAddress, cfg.Address)
	assert.Equal(t, "embedding-server", cfg.ServiceName)
	assert.True(t, cfg.EnableDefaultCollectors)
}

func TestNewConfig_DisableDefaultCollectors(t *testing.T) {
	t.Setenv("METRICS_ENABLE_DEFAULT_COLLECTORS", "false")
	t.Setenv("METRICS_ADDRESS", ":9191")

	cfg := NewConfig()

	assert.False(t, cfg.EnableDefaultCollectors)
	assert.Equal(t, ":9191", cfg.Address)
}

func TestRecordRequest_CountsByRouteAndStatus(t *testing.T) {
	m := newTestMetrics()

	m.RecordRequest("/predict", "200", 5*time.Millisecond)
	m.RecordRequest("/predict", "200", 7*time.Millisecond)
	m.RecordRequest("/predict", "400", time.Millisecond)

	family := gatherFamily(t, m, "requests_total")
	require.NotNil(t, family)

	byStatus := map[string]float64{}
	for _, metric := range family.GetMetric() {
		for _, label := range metric.GetLabel() {
			if label.GetName() == "status" {
				byStatus[label.GetValue()] += metric.GetCounter().GetValue()
			}
		}
	}

	assert.Equal(t, 2.0, byStatus["200"])
	assert.Equal(t, 1.0, byStatus["400"])
}

func TestRecordError_CountsByKind(t *testing.T) {
	m := newTestMetrics()

	m.RecordError("/predict", "validation_error")
	m.RecordError("/predict", "validation_error")
	m.RecordError("/predict/batch", "timeout_error")

	family := gatherFamily(t, m, "errors_total")
	require.NotNil(t, family)

	byKind := map[string]float64{}
	for _, metric := range family.GetMetric() {
		for _, label := range metric.GetLabel() {
			if label.GetName() == "kind" {
				byKind[label.GetValue()] += metric.GetCounter().GetValue()
			}
		}
	}

	assert.Equal(t, 2.0, byKind["validation_error"])
	assert.Equal(t, 1.0, byKind["timeout_error"])
}

func TestInflightGauge_TracksActiveInference(t *testing.T) {
	m := newTestMetrics()

	m.InflightInc()
	m.InflightInc()
	m.InflightDec()

	family := gatherFamily(t, m, "inference_inflight")
	require.NotNil(t, family)
	require.Len(t, family.GetMetric(), 1)

	assert.Equal(t, 1.0, family.GetMetric()[0].GetGauge().GetValue())
}

func TestMetricsEndpoint_ServesExposition(t *testing.T) {
	m := newTestMetrics()
	m.ObserveBatchSize(8)
	m.RecordRequest("/predict/batch", "200", 12*time.Millisecond)

	handler := promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "requests_total")
	assert.Contains(t, body, "inference_batch_size")
	assert.Contains(t, body, `service="embedding-server-test"`)
}
