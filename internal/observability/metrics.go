package observability

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects the bot's application metrics.
type Metrics struct {
	// EventsProcessed counts inbound events by kind.
	// Labels: kind (command|text|callback)
	EventsProcessed *prometheus.CounterVec

	// RepliesSent counts outbound replies.
	RepliesSent prometheus.Counter

	// StoreErrors counts persistence failures by component.
	// Labels: component (notes|sessions)
	StoreErrors *prometheus.CounterVec

	// FlowOutcomes counts conversation flow terminations.
	// Labels: flow (add|edit), outcome (completed|failed)
	FlowOutcomes *prometheus.CounterVec

	// HandleDuration measures end-to-end event handling latency in seconds.
	// Buckets: 1ms to ~4s
	HandleDuration prometheus.Histogram

	registry *prometheus.Registry
}

// NewMetrics creates the metric set on its own registry, so tests can
// construct independent instances without collisions.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		EventsProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "notabot_events_processed_total",
			Help: "Inbound events processed, by kind.",
		}, []string{"kind"}),

		RepliesSent: factory.NewCounter(prometheus.CounterOpts{
			Name: "notabot_replies_sent_total",
			Help: "Outbound replies sent.",
		}),

		StoreErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "notabot_store_errors_total",
			Help: "Persistence failures, by store component.",
		}, []string{"component"}),

		FlowOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "notabot_flow_outcomes_total",
			Help: "Conversation flow terminations, by flow and outcome.",
		}, []string{"flow", "outcome"}),

		HandleDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "notabot_handle_duration_seconds",
			Help:    "End-to-end event handling latency.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		}),

		registry: registry,
	}
}

// Handler returns an HTTP handler exposing the metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("metrics server listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
