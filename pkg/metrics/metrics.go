// Package metrics holds the showroom's Prometheus collectors and exposes them
// on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "showroom"

// DefaultBuckets are latency buckets in seconds.
var DefaultBuckets = []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}

// Metrics is the set of collectors shared by the HTTP layer and the engines.
// Each instance owns its own registry, so tests can build as many as they
// like.
type Metrics struct {
	Registry *prometheus.Registry

	Requests    *prometheus.CounterVec
	Duration    *prometheus.HistogramVec
	InFlight    prometheus.Gauge
	RateLimited prometheus.Counter

	Searches     prometheus.Counter
	SearchHits   prometheus.Histogram
	Comparisons  prometheus.Counter
	Quotes       *prometheus.CounterVec
	Activity     *prometheus.CounterVec
	BreakerState prometheus.Gauge
	CatalogSize  prometheus.Gauge
}

// New registers every collector, plus the Go runtime and process
// collectors, on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := factory{reg}
	m := &Metrics{
		Registry: reg,
		Requests: f.counterVec("http_requests_total", "HTTP requests by route, method and status.",
			"route", "method", "status"),
		Duration: f.histogramVec("http_request_duration_seconds", "HTTP request latency by route.",
			DefaultBuckets, "route", "method"),
		InFlight:    f.gauge("http_requests_in_flight", "HTTP requests being served."),
		RateLimited: f.counter("http_rate_limited_total", "Requests rejected by the rate limiter."),
		Searches:    f.counter("catalog_searches_total", "Catalog searches served."),
		SearchHits: f.histogram("catalog_search_matches", "Vehicles matched per search.",
			prometheus.LinearBuckets(0, 2, 10)),
		Comparisons: f.counter("comparisons_total", "Comparison tables built."),
		Quotes:      f.counterVec("quotes_total", "Quotes priced, by kind.", "kind"),
		Activity: f.counterVec("activity_events_total", "Activity events, by kind and publish result.",
			"kind", "result"),
		BreakerState: f.gauge("activity_breaker_state", "Publisher circuit breaker state (0 closed, 1 open, 2 half-open)."),
		CatalogSize:  f.gauge("catalog_vehicles", "Vehicles in the loaded catalog."),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(route, method string, status int, elapsed time.Duration) {
	m.Requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.Duration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

type factory struct{ reg prometheus.Registerer }

func (f factory) counter(name, help string) prometheus.Counter {
	c := prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: name, Help: help})
	f.reg.MustRegister(c)
	return c
}

func (f factory) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	c := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: name, Help: help}, labels)
	f.reg.MustRegister(c)
	return c
}

func (f factory) gauge(name, help string) prometheus.Gauge {
	g := prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: name, Help: help})
	f.reg.MustRegister(g)
	return g
}

func (f factory) histogram(name, help string, buckets []float64) prometheus.Histogram {
	h := prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: name, Help: help, Buckets: buckets})
	f.reg.MustRegister(h)
	return h
}

func (f factory) histogramVec(name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
	h := prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: namespace, Name: name, Help: help, Buckets: buckets}, labels)
	f.reg.MustRegister(h)
	return h
}
