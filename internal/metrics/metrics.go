// Package metrics exposes prometheus metrics for backend calls and workflow outcomes.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmcdole/reverig/internal/domain"
)

const namespace = "reverig"

// Metrics holds the collectors on a private registry
type Metrics struct {
	registry *prometheus.Registry

	callsTotal   *prometheus.CounterVec
	callLatency  *prometheus.HistogramVec
	pollsTotal   *prometheus.CounterVec
	outcomeTotal *prometheus.CounterVec
}

// New creates and registers the collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		// Backend call metrics
		callsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "backend",
				Name:      "calls_total",
				Help:      "Total number of backend calls by method and result",
			},
			[]string{"method", "result"},
		),
		callLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "backend",
				Name:      "call_latency_seconds",
				Help:      "Latency of backend calls in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
			},
			[]string{"method"},
		),

		// Workflow metrics
		pollsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "workflow",
				Name:      "status_polls_total",
				Help:      "Total number of applied status polls by reported status",
			},
			[]string{"status"},
		),
		outcomeTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "workflow",
				Name:      "operations_total",
				Help:      "Total number of finished operations by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
	}

	m.registry.MustRegister(m.callsTotal, m.callLatency, m.pollsTotal, m.outcomeTotal)
	return m
}

// Registry returns the registry holding the collectors
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveCall records one backend call. Its signature matches bridge.CallHook.
func (m *Metrics) ObserveCall(method string, elapsed time.Duration, err error) {
	result := "success"
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		result = "timeout"
	case errors.Is(err, domain.ErrBackendUnavailable):
		result = "unavailable"
	case err != nil:
		result = "error"
	}
	m.callsTotal.WithLabelValues(method, result).Inc()
	m.callLatency.WithLabelValues(method).Observe(elapsed.Seconds())
}

// OnEvent implements domain.WorkflowObserver
func (m *Metrics) OnEvent(e domain.WorkflowEvent) {
	if e.State.Status != "" {
		m.pollsTotal.WithLabelValues(string(e.State.Status)).Inc()
	}
	if e.Terminal() {
		m.outcomeTotal.WithLabelValues(string(e.Operation), string(domain.OutcomeOf(e))).Inc()
	}
}

// Handler serves the registry in the prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done
func (m *Metrics) Serve(ctx context.Context, addr string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving metrics", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
