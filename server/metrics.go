package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sambeau/unitconv/pkg/units"
)

// Metrics holds Prometheus metrics for the conversion service. It is a
// units.Observer so fail-soft outcomes are counted where they happen.
type Metrics struct {
	registry *prometheus.Registry

	conversionsTotal *prometheus.CounterVec
	strictErrors     *prometheus.CounterVec
	reloadsTotal     *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
}

// NewMetrics creates and registers the service metrics on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		conversionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "unitconv",
				Name:      "conversions_total",
				Help:      "Fail-soft conversions by outcome",
			},
			[]string{"outcome"},
		),
		strictErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "unitconv",
				Name:      "strict_errors_total",
				Help:      "Rejected strict conversions by error code",
			},
			[]string{"code"},
		),
		reloadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "unitconv",
				Name:      "config_reloads_total",
				Help:      "Configuration reloads by result",
			},
			[]string{"result"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "unitconv",
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
	}

	m.registry.MustRegister(
		m.conversionsTotal,
		m.strictErrors,
		m.reloadsTotal,
		m.requestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveConversion implements units.Observer.
func (m *Metrics) ObserveConversion(_ units.Request, outcome units.Outcome) {
	m.conversionsTotal.WithLabelValues(string(outcome)).Inc()
}

func (m *Metrics) observeStrictError(code string) {
	m.strictErrors.WithLabelValues(code).Inc()
}

func (m *Metrics) observeReload(err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.reloadsTotal.WithLabelValues(result).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// instrument records request latency labelled by the matched route pattern.
func (m *Metrics) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rc := &responseCapture{ResponseWriter: w}
		next.ServeHTTP(rc, r)

		status := rc.status
		if status == 0 {
			status = http.StatusOK
		}
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		m.requestDuration.WithLabelValues(r.Method, route, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
	})
}
