// Package metrics exposes animation pipeline statistics to Prometheus.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Faultbox/skelanim/internal/engine/animation"
	"github.com/Faultbox/skelanim/internal/logger"
)

// Metrics holds the collectors for one registry.
type Metrics struct {
	registry *prometheus.Registry

	TransitionsStarted   *prometheus.CounterVec
	TransitionsCompleted *prometheus.CounterVec
	TransitionsAborted   *prometheus.CounterVec
	LayersPerFrame       prometheus.Histogram
	EvaluateSeconds      prometheus.Histogram
	Frames               *prometheus.CounterVec
}

// New creates the collectors and registers them on reg. A nil reg gets a
// fresh registry.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		registry: reg,
		TransitionsStarted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skelanim_transitions_started_total",
				Help: "Total number of graph transitions started",
			},
			[]string{"from", "to"},
		),
		TransitionsCompleted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skelanim_transitions_completed_total",
				Help: "Total number of graph transitions completed",
			},
			[]string{"from", "to"},
		),
		TransitionsAborted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skelanim_transitions_aborted_total",
				Help: "Total number of graph transitions replaced by a retarget",
			},
			[]string{"from", "to"},
		),
		LayersPerFrame: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "skelanim_layers_per_frame",
				Help:    "Pose layers blended per character frame",
				Buckets: []float64{0, 1, 2, 3, 4, 6, 8, 12},
			},
		),
		EvaluateSeconds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "skelanim_evaluate_seconds",
				Help:    "Time spent updating and evaluating one character",
				Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
			},
		),
		Frames: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skelanim_frames_total",
				Help: "Total number of character frames evaluated",
			},
			[]string{"character"},
		),
	}
	reg.MustRegister(m.TransitionsStarted, m.TransitionsCompleted, m.TransitionsAborted, m.LayersPerFrame, m.EvaluateSeconds, m.Frames)
	return m
}

// Registry returns the registry the collectors live in.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveFrame records one character update.
func (m *Metrics) ObserveFrame(character string, layers int, elapsed time.Duration) {
	m.Frames.WithLabelValues(character).Inc()
	m.LayersPerFrame.Observe(float64(layers))
	m.EvaluateSeconds.Observe(elapsed.Seconds())
}

// GraphHooks returns transition hooks that count transitions. next, when
// non-nil, is called after counting.
func (m *Metrics) GraphHooks(next animation.GraphHooks) animation.GraphHooks {
	return animation.GraphHooks{
		OnTransitionStart: func(from, to animation.State) {
			m.TransitionsStarted.WithLabelValues(string(from), string(to)).Inc()
			if next.OnTransitionStart != nil {
				next.OnTransitionStart(from, to)
			}
		},
		OnTransitionEnd: func(from, to animation.State) {
			m.TransitionsCompleted.WithLabelValues(string(from), string(to)).Inc()
			if next.OnTransitionEnd != nil {
				next.OnTransitionEnd(from, to)
			}
		},
		OnTransitionAbort: func(from, to animation.State) {
			m.TransitionsAborted.WithLabelValues(string(from), string(to)).Inc()
			if next.OnTransitionAbort != nil {
				next.OnTransitionAbort(from, to)
			}
		},
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Named("metrics").Info("serving metrics", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
