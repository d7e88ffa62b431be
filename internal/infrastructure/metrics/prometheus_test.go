package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRecorder() *Recorder {
	return NewRecorder(Config{Namespace: "pos"})
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "pos", config.Namespace)
	assert.Equal(t, prometheus.DefBuckets, config.HistogramBuckets)
	assert.True(t, config.RuntimeCollectors)
}

func TestRecorder_CartEvents(t *testing.T) {
	r := newTestRecorder()

	r.ItemAdded(3)
	r.ItemAdded(2)
	r.ItemAdded(0)
	r.GuardRejected("INSUFFICIENT_STOCK")
	r.GuardRejected("INSUFFICIENT_STOCK")
	r.GuardRejected("OUT_OF_STOCK")

	assert.Equal(t, float64(5), testutil.ToFloat64(r.itemsAdded))
	assert.Equal(t, float64(2), testutil.ToFloat64(r.guardRejections.WithLabelValues("INSUFFICIENT_STOCK")))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.guardRejections.WithLabelValues("OUT_OF_STOCK")))
}

func TestRecorder_SaleSubmitted(t *testing.T) {
	r := newTestRecorder()

	r.SaleSubmitted("succeeded", 120*time.Millisecond)
	r.SaleSubmitted("failed", 40*time.Millisecond)
	r.SaleSubmitted("succeeded", 80*time.Millisecond)

	assert.Equal(t, float64(2), testutil.ToFloat64(r.salesSubmitted.WithLabelValues("succeeded")))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.salesSubmitted.WithLabelValues("failed")))
	assert.Equal(t, 2, testutil.CollectAndCount(r.submitDuration))
}

func TestRecorder_CatalogLoaded(t *testing.T) {
	r := newTestRecorder()

	r.CatalogLoaded(42, nil)
	r.CatalogLoaded(0, errors.New("connection refused"))

	assert.Equal(t, float64(1), testutil.ToFloat64(r.catalogLoads.WithLabelValues("ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.catalogLoads.WithLabelValues("error")))
	// A failed load keeps the previous snapshot, so the gauge stays put.
	assert.Equal(t, float64(42), testutil.ToFloat64(r.catalogProducts))
}

func TestRecorder_SessionsActive(t *testing.T) {
	r := newTestRecorder()

	r.SessionsActive(4)
	r.SessionsActive(1)

	assert.Equal(t, float64(1), testutil.ToFloat64(r.sessionsActive))
}

func TestRecorder_ObserveUpstream(t *testing.T) {
	r := newTestRecorder()

	r.ObserveUpstream(http.MethodGet, "/products/", 200, 10*time.Millisecond)
	r.ObserveUpstream(http.MethodGet, "/products/", 0, time.Second)
	r.ObserveUpstream(http.MethodPost, "/sales/", 400, 30*time.Millisecond)

	assert.Equal(t, float64(1), testutil.ToFloat64(r.upstreamRequests.WithLabelValues("GET", "/products/", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.upstreamRequests.WithLabelValues("GET", "/products/", "error")))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.upstreamRequests.WithLabelValues("POST", "/sales/", "400")))
}

func TestRecorder_GinMiddleware(t *testing.T) {
	r := newTestRecorder()

	router := gin.New()
	router.Use(r.GinMiddleware())
	router.GET("/api/v1/pos/sales/:id/receipt", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for _, path := range []string{"/api/v1/pos/sales/1/receipt", "/api/v1/pos/sales/2/receipt", "/nowhere"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, float64(2), testutil.ToFloat64(r.httpRequests.WithLabelValues("GET", "/api/v1/pos/sales/:id/receipt", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.httpRequests.WithLabelValues("GET", "unmatched", "404")))
}

func TestRecorder_Handler(t *testing.T) {
	r := NewRecorder(DefaultConfig())
	r.SaleSubmitted("succeeded", 50*time.Millisecond)
	r.SessionsActive(2)

	server := httptest.NewServer(r.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `pos_sales_submitted_total{outcome="succeeded"} 1`)
	assert.Contains(t, string(body), "pos_sessions_active 2")
	assert.Contains(t, string(body), "go_goroutines")
}
