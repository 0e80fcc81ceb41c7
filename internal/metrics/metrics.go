// Package metrics exposes Prometheus counters for the predictor and the AI gateway.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every collector the service registers. A nil *Metrics is a
// valid no-op recorder.
type Metrics struct {
	registry *prometheus.Registry

	predictorOps    *prometheus.CounterVec
	gatewayRequests *prometheus.CounterVec
	gatewayDuration *prometheus.HistogramVec
	sessions        prometheus.Gauge
}

// New creates the collectors and registers them on registry.
func New(registry *prometheus.Registry) (*Metrics, error) {
	if registry == nil {
		return nil, errors.New("metrics: registry is required")
	}
	m := &Metrics{registry: registry}

	m.predictorOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zyren_predictor_operations_total",
			Help: "Predictor operations by kind and result",
		},
		[]string{"op", "result"}, // result: ok, invalid, rejected
	)
	m.gatewayRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zyren_gateway_requests_total",
			Help: "AI gateway calls by kind and status",
		},
		[]string{"kind", "status"}, // kind: chat, stream, image
	)
	m.gatewayDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "zyren_gateway_request_duration_seconds",
			Help: "Time spent waiting on the AI gateway",
			// 100ms to ~100s
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
		[]string{"kind"},
	)
	m.sessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "zyren_sessions_active",
		Help: "Sessions currently held in memory",
	})

	for _, c := range []prometheus.Collector{m.predictorOps, m.gatewayRequests, m.gatewayDuration, m.sessions} {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// PredictorOp counts one predictor operation.
func (m *Metrics) PredictorOp(op, result string) {
	if m == nil {
		return
	}
	m.predictorOps.WithLabelValues(op, result).Inc()
}

// GatewayCall records one gateway round trip.
func (m *Metrics) GatewayCall(kind, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.gatewayRequests.WithLabelValues(kind, status).Inc()
	m.gatewayDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

// SetSessions reports the number of live sessions.
func (m *Metrics) SetSessions(n int) {
	if m == nil {
		return
	}
	m.sessions.Set(float64(n))
}
