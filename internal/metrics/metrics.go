// Package metrics exposes Prometheus counters for agent runs.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

const namespace = "browser_agent"

type Recorder struct {
	registry *prometheus.Registry

	steps         prometheus.Counter
	commands      *prometheus.CounterVec
	commandErrors *prometheus.CounterVec
	parseErrors   prometheus.Counter
	elements      prometheus.Gauge
	modelLatency  prometheus.Histogram
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		steps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "steps_total",
			Help:      "Agent steps started.",
		}),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Commands executed, by verb.",
		}, []string{"verb"}),
		commandErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "command_errors_total",
			Help:      "Commands that failed to execute, by verb.",
		}, []string{"verb"}),
		parseErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "command_parse_errors_total",
			Help:      "Model replies that were not a valid command.",
		}),
		elements: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "indexed_elements",
			Help:      "Elements indexed on the current page.",
		}),
		modelLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "model_request_duration_seconds",
			Help:      "Latency of language model requests.",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 8),
		}),
	}

	r.registry.MustRegister(
		r.steps,
		r.commands,
		r.commandErrors,
		r.parseErrors,
		r.elements,
		r.modelLatency,
		collectors.NewGoCollector(),
	)
	return r
}

func (r *Recorder) StepStarted() {
	r.steps.Inc()
}

func (r *Recorder) CommandExecuted(verb string) {
	r.commands.WithLabelValues(verb).Inc()
}

func (r *Recorder) CommandFailed(verb string) {
	r.commandErrors.WithLabelValues(verb).Inc()
}

func (r *Recorder) ParseFailed() {
	r.parseErrors.Inc()
}

func (r *Recorder) ElementsIndexed(n int) {
	r.elements.Set(float64(n))
}

func (r *Recorder) ObserveModelLatency(d time.Duration) {
	r.modelLatency.Observe(d.Seconds())
}

func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done.
func (r *Recorder) Serve(ctx context.Context, addr string, log zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("serving metrics")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("metrics server stopped")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
}
