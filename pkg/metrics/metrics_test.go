package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterVecValue(t *testing.T, vec *prometheus.CounterVec, labels map[string]string) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, vec.With(labels).Write(&m))
	return m.GetCounter().GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, g.Write(&m))
	return m.GetGauge().GetValue()
}

func TestInitMetrics_Idempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		InitMetrics()
		InitMetrics()
	})
}

func TestCounterVec(t *testing.T) {
	labels := map[string]string{"namespace": "books", "result": "hit"}
	before := counterVecValue(t, CacheRequestsTotal, labels)

	IncCounterVec(CacheRequestsTotal, labels)
	IncCounterVec(CacheRequestsTotal, labels)
	IncCounterVec(CacheRequestsTotal, map[string]string{"namespace": "books", "result": "miss"})

	assert.Equal(t, before+2, counterVecValue(t, CacheRequestsTotal, labels))
}

func TestGauge(t *testing.T) {
	before := gaugeValue(t, HTTPRequestsInProgress)
	IncGauge(HTTPRequestsInProgress)
	IncGauge(HTTPRequestsInProgress)
	DecGauge(HTTPRequestsInProgress)
	assert.Equal(t, before+1, gaugeValue(t, HTTPRequestsInProgress))
	DecGauge(HTTPRequestsInProgress)
}

func TestHistogramVec(t *testing.T) {
	labels := map[string]string{"operation": "checkout"}
	ObserveHistogramVec(BorrowTxDuration, labels, 0.02)
	ObserveHistogramVec(BorrowTxDuration, labels, 0.2)

	var m dto.Metric
	h, ok := BorrowTxDuration.With(labels).(prometheus.Metric)
	require.True(t, ok)
	require.NoError(t, h.Write(&m))
	assert.GreaterOrEqual(t, m.GetHistogram().GetSampleCount(), uint64(2))
}

func TestResult(t *testing.T) {
	rejection := errors.New("Book is not available")
	isRejection := func(err error) bool { return errors.Is(err, rejection) }

	assert.Equal(t, "success", Result(nil, isRejection))
	assert.Equal(t, "rejected", Result(rejection, isRejection))
	assert.Equal(t, "error", Result(errors.New("db down"), isRejection))
}

func TestHandler_ExposesRegisteredMetrics(t *testing.T) {
	InitMetrics()
	IncCounterVec(CheckoutsTotal, map[string]string{"result": "success"})

	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `library_checkouts_total{result="success"}`)
}
