package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveSale(t *testing.T) {
	m := New()

	m.ObserveSale("Pix", "table", 20)
	m.ObserveSale("Pix", "table", 10.5)
	m.ObserveSale("Cash", "direct", 5)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SalesSettled.WithLabelValues("Pix", "table")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SalesSettled.WithLabelValues("Cash", "direct")))
	assert.Equal(t, 35.5, testutil.ToFloat64(m.Revenue))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveSale("Pix", "table", 1)
		m.ObservePartialSettlement()
		m.ObserveStoreFailure("append sale")
	})
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.ObservePartialSettlement()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "pdv_partial_settlements_total 1")
}
