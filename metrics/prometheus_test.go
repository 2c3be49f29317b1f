package metrics

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveSimulation(t *testing.T) {
	m := NewMetrics()
	m.ObserveSimulation("single", "GBM", nil, 0.01, 500)
	m.ObserveSimulation("single", "GBM", errors.New("boom"), 0.01, 500)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SimulationRunsTotal.WithLabelValues("single", "GBM", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SimulationRunsTotal.WithLabelValues("single", "GBM", "error")))
	assert.Equal(t, 500.0, testutil.ToFloat64(m.SimulationPathsGenerated.WithLabelValues("GBM")))
}

func TestObserveSimulationNilReceiver(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() { m.ObserveSimulation("single", "GBM", nil, 0, 1) })
}

func TestHandlerExposesBuildInfo(t *testing.T) {
	m := NewMetrics()
	m.RegisterBuildInfo("montecarlo", "v1")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `build_info{service="montecarlo",version="v1"} 1`)
}
