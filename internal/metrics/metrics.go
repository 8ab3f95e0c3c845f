// Package metrics exposes Prometheus collectors for the API server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"bess-screening/internal/model"
	"bess-screening/internal/screening"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so tests and multiple servers in one
// process do not collide on the global one.
type Metrics struct {
	Registry *prometheus.Registry

	requests  *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	pairs     *prometheus.CounterVec
	estimates *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bess_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bess_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		pairs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bess_screening_pairs_total",
			Help: "BSP/size pairs screened, by outcome (RED, AMBER, GREEN, skipped, failed).",
		}, []string{"outcome"}),
		estimates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bess_estimates_total",
			Help: "Single BSP/size estimates served, by RAG rating.",
		}, []string{"risk"}),
	}
	m.Registry.MustRegister(
		m.requests,
		m.latency,
		m.pairs,
		m.estimates,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Middleware records request counts and latency per route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.latency.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

// ObserveReport counts a finished screening run's outcomes. A skipped BSP
// counts once for every candidate size it was not screened for.
func (m *Metrics) ObserveReport(r *screening.Report) {
	for _, row := range r.Rows {
		m.pairs.WithLabelValues(string(row.Risk)).Inc()
	}
	m.pairs.WithLabelValues("skipped").Add(float64(len(r.Skipped) * r.Candidates))
	m.pairs.WithLabelValues("failed").Add(float64(len(r.Failed)))
}

// ObserveEstimate counts one single-pair estimate by its rating.
func (m *Metrics) ObserveEstimate(risk model.Risk) {
	m.estimates.WithLabelValues(string(risk)).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// PairCount returns the current value of the pairs counter for outcome.
func (m *Metrics) PairCount(outcome string) float64 {
	c, err := m.pairs.GetMetricWithLabelValues(outcome)
	if err != nil {
		return 0
	}
	return counterValue(c)
}

// EstimateCount returns how many single estimates were rated risk.
func (m *Metrics) EstimateCount(risk model.Risk) float64 {
	c, err := m.estimates.GetMetricWithLabelValues(string(risk))
	if err != nil {
		return 0
	}
	return counterValue(c)
}
