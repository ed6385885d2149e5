package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/arraybench"
)

const namespace = "arraybench"

// PrometheusCollector implements arraybench.MetricsCollector on a private
// registry so several runs in one process do not collide.
type PrometheusCollector struct {
	registry *prometheus.Registry

	phaseSeconds *prometheus.HistogramVec
	phaseBytes   *prometheus.CounterVec
	failures     *prometheus.CounterVec
	runs         prometheus.Counter
	runSeconds   prometheus.Gauge
}

var _ arraybench.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheusCollector creates a collector and registers its metrics.
func NewPrometheusCollector() *PrometheusCollector {
	c := &PrometheusCollector{
		registry: prometheus.NewRegistry(),
		phaseSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "phase_duration_seconds",
			Help:      "Duration of codec write and read phases",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"codec", "phase", "status"}),
		phaseBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "phase_bytes_total",
			Help:      "Bytes moved by codec phases",
		}, []string{"codec", "phase"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "failures_total",
			Help:      "Codec failures by phase",
		}, []string{"codec", "phase"}),
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Completed benchmark runs",
		}),
		runSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_duration_seconds",
			Help:      "Wall time of the last completed run",
		}),
	}

	c.registry.MustRegister(c.phaseSeconds, c.phaseBytes, c.failures, c.runs, c.runSeconds)
	return c
}

// Registry returns the registry holding the collector's metrics.
func (c *PrometheusCollector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordPhase implements arraybench.MetricsCollector.
func (c *PrometheusCollector) RecordPhase(codec string, phase arraybench.Phase, elapsed time.Duration, bytes int64, err error) {
	status := "ok"
	if err != nil {
		status = "error"
		c.failures.WithLabelValues(codec, string(phase)).Inc()
	}
	if phase == arraybench.PhaseValidate {
		return
	}
	c.phaseSeconds.WithLabelValues(codec, string(phase), status).Observe(elapsed.Seconds())
	c.phaseBytes.WithLabelValues(codec, string(phase)).Add(float64(bytes))
}

// RecordRun implements arraybench.MetricsCollector.
func (c *PrometheusCollector) RecordRun(elapsed time.Duration, _ int) {
	c.runs.Inc()
	c.runSeconds.Set(elapsed.Seconds())
}

// WriteTextfile writes all metrics in the node exporter textfile format.
func (c *PrometheusCollector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}
