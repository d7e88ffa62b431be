// Package metrics exposes point-of-sale activity to Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Hillarymukuka/ancestrabusiness/internal/application/pos"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config holds configuration for the recorder.
type Config struct {
	// Namespace is the prefix for all metrics.
	// Default: "pos"
	Namespace string

	// HistogramBuckets are the buckets for latency histograms.
	// Default: prometheus.DefBuckets
	HistogramBuckets []float64

	// RuntimeCollectors registers the Go and process collectors.
	RuntimeCollectors bool
}

// DefaultConfig returns default configuration.
func DefaultConfig() Config {
	return Config{
		Namespace:         "pos",
		HistogramBuckets:  prometheus.DefBuckets,
		RuntimeCollectors: true,
	}
}

// Recorder implements pos.Recorder and the API client's request observer on
// a private Prometheus registry.
//
// Thread Safety: Safe for concurrent use by multiple goroutines.
type Recorder struct {
	registry *prometheus.Registry

	itemsAdded       prometheus.Counter
	guardRejections  *prometheus.CounterVec
	salesSubmitted   *prometheus.CounterVec
	submitDuration   *prometheus.HistogramVec
	catalogLoads     *prometheus.CounterVec
	catalogProducts  prometheus.Gauge
	sessionsActive   prometheus.Gauge
	upstreamRequests *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
}

var _ pos.Recorder = (*Recorder)(nil)

// NewRecorder creates a recorder with its own registry.
func NewRecorder(config Config) *Recorder {
	if config.Namespace == "" {
		config.Namespace = "pos"
	}
	if len(config.HistogramBuckets) == 0 {
		config.HistogramBuckets = prometheus.DefBuckets
	}

	r := &Recorder{registry: prometheus.NewRegistry()}
	r.initMetrics(config)

	if config.RuntimeCollectors {
		r.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return r
}

func (r *Recorder) initMetrics(config Config) {
	ns := config.Namespace

	r.itemsAdded = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: ns,
		Name:      "cart_items_added_total",
		Help:      "Units added to carts through the stock guard.",
	})
	r.guardRejections = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns,
		Name:      "stock_guard_rejections_total",
		Help:      "Cart changes refused by the stock guard, by reason code.",
	}, []string{"reason"})
	r.salesSubmitted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns,
		Name:      "sales_submitted_total",
		Help:      "Sale submissions by outcome.",
	}, []string{"outcome"})
	r.submitDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: ns,
		Name:      "sale_submit_duration_seconds",
		Help:      "Latency of the create-sale call to the business API.",
		Buckets:   config.HistogramBuckets,
	}, []string{"outcome"})
	r.catalogLoads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns,
		Name:      "catalog_loads_total",
		Help:      "Catalog snapshot loads by result.",
	}, []string{"result"})
	r.catalogProducts = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: ns,
		Name:      "catalog_products",
		Help:      "Products in the most recently loaded snapshot.",
	})
	r.sessionsActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: ns,
		Name:      "sessions_active",
		Help:      "Terminal sessions currently held in memory.",
	})
	r.upstreamRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns,
		Name:      "upstream_requests_total",
		Help:      "Requests made to the business API.",
	}, []string{"method", "route", "status"})
	r.upstreamDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: ns,
		Name:      "upstream_request_duration_seconds",
		Help:      "Latency of requests to the business API.",
		Buckets:   config.HistogramBuckets,
	}, []string{"method", "route"})
	r.httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns,
		Name:      "http_requests_total",
		Help:      "Requests served by the console API.",
	}, []string{"method", "route", "status"})
	r.httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: ns,
		Name:      "http_request_duration_seconds",
		Help:      "Latency of console API requests.",
		Buckets:   config.HistogramBuckets,
	}, []string{"method", "route"})

	r.registry.MustRegister(
		r.itemsAdded,
		r.guardRejections,
		r.salesSubmitted,
		r.submitDuration,
		r.catalogLoads,
		r.catalogProducts,
		r.sessionsActive,
		r.upstreamRequests,
		r.upstreamDuration,
		r.httpRequests,
		r.httpDuration,
	)
}

// ItemAdded counts units accepted into a cart.
func (r *Recorder) ItemAdded(qty int) {
	if qty > 0 {
		r.itemsAdded.Add(float64(qty))
	}
}

// GuardRejected counts a refusal by reason code.
func (r *Recorder) GuardRejected(reason string) {
	r.guardRejections.WithLabelValues(reason).Inc()
}

// SaleSubmitted records the outcome and latency of one submission.
func (r *Recorder) SaleSubmitted(outcome string, duration time.Duration) {
	r.salesSubmitted.WithLabelValues(outcome).Inc()
	r.submitDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// CatalogLoaded records a snapshot load. The product gauge only moves on success.
func (r *Recorder) CatalogLoaded(products int, err error) {
	if err != nil {
		r.catalogLoads.WithLabelValues("error").Inc()
		return
	}
	r.catalogLoads.WithLabelValues("ok").Inc()
	r.catalogProducts.Set(float64(products))
}

// SessionsActive sets the live session count.
func (r *Recorder) SessionsActive(n int) {
	r.sessionsActive.Set(float64(n))
}

// ObserveUpstream records one round trip to the business API.
// A status of 0 means the request never got a response.
func (r *Recorder) ObserveUpstream(method, route string, status int, duration time.Duration) {
	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	r.upstreamRequests.WithLabelValues(method, route, code).Inc()
	r.upstreamDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// GinMiddleware records console API traffic by route template.
func (r *Recorder) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		r.httpRequests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		r.httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{
		Registry:          r.registry,
		EnableOpenMetrics: true,
	})
}

// Registry returns the Prometheus registry (for testing).
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}
