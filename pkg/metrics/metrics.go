package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	HTTPRequestsTotal *prometheus.CounterVec

	GenerationRequestsTotal *prometheus.CounterVec
	QuotaDenialsTotal       *prometheus.CounterVec
	DispatchDuration        *prometheus.HistogramVec
	SettlementsTotal        *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewMetrics creates and registers all collectors on registry.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reelcraft_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		GenerationRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reelcraft_generation_requests_total",
				Help: "Generation requests by final outcome",
			},
			[]string{"outcome"},
		),
		QuotaDenialsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reelcraft_quota_denials_total",
				Help: "Requests refused before dispatch",
			},
			[]string{"reason"},
		),
		DispatchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "reelcraft_dispatch_duration_seconds",
				Help:    "Time spent waiting for the Render Backend",
				Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 60},
			},
			[]string{"result"},
		),
		SettlementsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reelcraft_settlements_total",
				Help: "Settlement attempts by result (settled, waived, conflict)",
			},
			[]string{"result"},
		),
		registry: registry,
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.GenerationRequestsTotal,
		m.QuotaDenialsTotal,
		m.DispatchDuration,
		m.SettlementsTotal,
	)
	return m
}

// NewNopMetrics registers on a throwaway registry.
func NewNopMetrics() *Metrics {
	return NewMetrics(prometheus.NewRegistry())
}

func (m *Metrics) ObserveDispatch(result string, started time.Time) {
	m.DispatchDuration.WithLabelValues(result).Observe(time.Since(started).Seconds())
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware counts requests by matched route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
