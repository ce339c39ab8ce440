// Package observability exposes Prometheus metrics for the server.
package observability

import (
	"context"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/tripsplit/internal/models"
)

// Metrics collects the Prometheus metrics of the server.
type Metrics struct {
	registry         *prometheus.Registry
	handler          http.Handler
	rpcTotal         *prometheus.CounterVec
	rpcDuration      *prometheus.HistogramVec
	settlements      *prometheus.CounterVec
	transfers        prometheus.Histogram
	recomputeSeconds prometheus.Histogram
	recomputeErrors  prometheus.Counter
}

// NewMetrics initializes the registry with process, Go runtime and tripsplit metrics.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		rpcTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tripsplit_rpc_requests_total",
			Help: "Connect RPCs by procedure and code.",
		}, []string{"procedure", "code"}),
		rpcDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tripsplit_rpc_duration_seconds",
			Help:    "Connect RPC latency by procedure.",
			Buckets: prometheus.DefBuckets,
		}, []string{"procedure"}),
		settlements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tripsplit_settlements_total",
			Help: "Settlements computed by algorithm.",
		}, []string{"algorithm"}),
		transfers: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tripsplit_settlement_transfers",
			Help:    "Number of transfers per computed settlement.",
			Buckets: prometheus.LinearBuckets(0, 2, 10),
		}),
		recomputeSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tripsplit_balance_recompute_duration_seconds",
			Help:    "Time to rebuild and save the balances of one trip.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
		recomputeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tripsplit_balance_recompute_errors_total",
			Help: "Balance recomputations that failed.",
		}),
	}
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.rpcTotal, m.rpcDuration, m.settlements, m.transfers, m.recomputeSeconds, m.recomputeErrors,
	)
	m.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return m
}

// Handler returns the http.Handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Interceptor records the count and latency of every unary RPC.
func (m *Metrics) Interceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if m == nil {
				return next(ctx, req)
			}
			start := time.Now()
			resp, err := next(ctx, req)

			procedure := req.Spec().Procedure
			code := "ok"
			if err != nil {
				code = connect.CodeOf(err).String()
			}
			m.rpcTotal.WithLabelValues(procedure, code).Inc()
			m.rpcDuration.WithLabelValues(procedure).Observe(time.Since(start).Seconds())
			return resp, err
		}
	}
}

// ObserveSettlement records one computed settlement.
func (m *Metrics) ObserveSettlement(result models.SettlementResult) {
	if m == nil {
		return
	}
	m.settlements.WithLabelValues(string(result.Algorithm)).Inc()
	m.transfers.Observe(float64(len(result.Settlements)))
}

// ObserveRecompute records one balance recomputation.
func (m *Metrics) ObserveRecompute(d time.Duration, _ int, err error) {
	if m == nil {
		return
	}
	m.recomputeSeconds.Observe(d.Seconds())
	if err != nil {
		m.recomputeErrors.Inc()
	}
}
