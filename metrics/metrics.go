/*
DESCRIPTION
  metrics.go provides Prometheus metrics describing a running traffic
  monitoring session.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package metrics exports the state of a traffic monitoring session as
// Prometheus metrics.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ausocean/traffic/traffic"
	"github.com/ausocean/utils/logging"
)

const namespace = "traffic"

// Metrics holds the collectors of a session.
type Metrics struct {
	registry   *prometheus.Registry
	frames     prometheus.Counter
	detections *prometheus.CounterVec
	violations prometheus.Counter
	signal     prometheus.Gauge
	density    prometheus.Gauge
	interval   prometheus.Histogram
}

// New creates a new Metrics instance with its own registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_processed_total",
			Help:      "Total frames processed.",
		}),
		detections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "detections_total",
			Help:      "Total detections by category.",
		}, []string{"category"}),
		violations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "violations_total",
			Help:      "Total detections made while the signal was red.",
		}),
		signal: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "signal_red",
			Help:      "1 while the simulated signal is red, 0 while green.",
		}),
		density: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "density",
			Help:      "Density level: 0 low, 1 medium, 2 high.",
		}),
		interval: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_interval_seconds",
			Help:      "Time between processed frames, including decoding.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
	}

	m.registry.MustRegister(m.frames, m.detections, m.violations, m.signal, m.density, m.interval)

	// Make both categories visible before the first detection.
	m.detections.WithLabelValues(traffic.Vehicle.String())
	m.detections.WithLabelValues(traffic.Bus.String())
	return m
}

// Observe records the result of a frame processed d after the previous one.
func (m *Metrics) Observe(r *traffic.Result, d time.Duration) {
	m.frames.Inc()
	m.detections.WithLabelValues(traffic.Vehicle.String()).Add(float64(r.Detected.Vehicles))
	m.detections.WithLabelValues(traffic.Bus.String()).Add(float64(r.Detected.Buses))
	m.violations.Add(float64(r.Detected.Violations))
	m.signal.Set(float64(r.Signal))
	m.density.Set(float64(r.Density))
	m.interval.Observe(d.Seconds())
}

// Handler returns the Prometheus HTTP handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve serves the metrics at /metrics on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string, log logging.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		if err != nil {
			log.Warning("could not shut down metrics server", "error", err.Error())
		}
	}()

	log.Info("serving metrics", "address", addr)
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
