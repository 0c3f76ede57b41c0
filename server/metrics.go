package server

import (
	"time"

	"github.com/indigo-web/reqhead/status"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the Prometheus collectors the server reports to. A nil *Metrics is valid and
// reports nothing.
type Metrics struct {
	Requests    *prometheus.CounterVec
	Malformed   *prometheus.CounterVec
	Duration    *prometheus.HistogramVec
	HeadSize    prometheus.Histogram
	Connections prometheus.Gauge
}

// NewMetrics creates the collectors and registers them at reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reqhead_requests_total",
				Help: "Total number of served requests",
			},
			[]string{"method", "code"},
		),
		Malformed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reqhead_malformed_requests_total",
				Help: "Total number of rejected request heads, by the reason",
			},
			[]string{"reason"},
		),
		Duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "reqhead_handler_duration_seconds",
				Help:    "Time spent in the handler",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		HeadSize: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "reqhead_head_size_bytes",
				Help:    "Size of parsed request heads",
				Buckets: []float64{64, 256, 1024, 4096, 16384},
			},
		),
		Connections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "reqhead_open_connections",
				Help: "Current number of open connections",
			},
		),
	}
}

func (m *Metrics) served(method string, code status.Code, headSize int, took time.Duration) {
	if m == nil {
		return
	}

	m.Requests.WithLabelValues(method, status.StringCode(code)).Inc()
	m.Duration.WithLabelValues(method).Observe(took.Seconds())
	m.HeadSize.Observe(float64(headSize))
}

func (m *Metrics) malformed(err error) {
	if m == nil {
		return
	}

	m.Malformed.WithLabelValues(err.Error()).Inc()
}

func (m *Metrics) opened() {
	if m != nil {
		m.Connections.Inc()
	}
}

func (m *Metrics) closed() {
	if m != nil {
		m.Connections.Dec()
	}
}
