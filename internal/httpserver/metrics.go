package httpserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bergle"

// metrics holds the server's Prometheus collectors and their registry.
type metrics struct {
	registry *prometheus.Registry

	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	gamesStarted  *prometheus.CounterVec
	guesses       *prometheus.CounterVec
	revealStreams prometheus.Gauge
	mapRenders    prometheus.Counter
}

func newMetrics(reg *prometheus.Registry) *metrics {
	m := &metrics{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		gamesStarted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "games_started_total",
				Help:      "Games started, by mode",
			},
			[]string{"mode"},
		),
		guesses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "guesses_total",
				Help:      "Guesses submitted, by outcome",
			},
			[]string{"outcome"},
		),
		revealStreams: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "reveal_streams",
				Help:      "Open reveal event streams",
			},
		),
		mapRenders: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "map_renders_total",
				Help:      "Map SVG documents rendered",
			},
		),
	}
	reg.MustRegister(m.httpRequests, m.httpDuration, m.gamesStarted, m.guesses, m.revealStreams, m.mapRenders)
	return m
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *metrics) observeRequest(method, route string, status int, took time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(took.Seconds())
}
