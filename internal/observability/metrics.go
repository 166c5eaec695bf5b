package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gin-gonic/gin"
)

// Metrics bundles the prometheus collectors the backend exposes. A nil
// *Metrics is valid everywhere and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	upserts     *prometheus.CounterVec
	importRuns  *prometheus.CounterVec
	rowsRead    *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "snowy_api_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "snowy_api_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		upserts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "snowy_import_upserts_total",
			Help: "Upsert engine calls by entity and outcome (insert/update/skip/error).",
		}, []string{"entity", "outcome"}),
		importRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "snowy_import_runs_total",
			Help: "Plot import runs by outcome.",
		}, []string{"outcome"}),
		rowsRead: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "snowy_rowsource_rows_total",
			Help: "Rows read from row sources by source and outcome.",
		}, []string{"source", "outcome"}),
	}
	reg.MustRegister(m.apiRequests, m.apiLatency, m.upserts, m.importRuns, m.rowsRead)
	return m
}

func (m *Metrics) ObserveAPI(method, route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiLatency.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) IncUpsert(entity, outcome string) {
	if m == nil {
		return
	}
	m.upserts.WithLabelValues(entity, outcome).Inc()
}

func (m *Metrics) IncImportRun(outcome string) {
	if m == nil {
		return
	}
	m.importRuns.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncRowRead(source, outcome string) {
	if m == nil {
		return
	}
	m.rowsRead.WithLabelValues(source, outcome).Inc()
}

// Handler exposes the registry for the /metrics route.
func (m *Metrics) Handler() gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Status(404) }
	}
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
