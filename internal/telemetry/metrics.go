// Package telemetry records generation metrics and writes them in the
// Prometheus text format, for node-exporter style textfile collection on
// build machines.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const Namespace = "bindgen"

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	registry *prometheus.Registry

	modules  *prometheus.CounterVec
	failures *prometheus.CounterVec
	duration *prometheus.GaugeVec
	skipped  prometheus.Counter
	lastRun  prometheus.Gauge
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		modules: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "modules_generated_total",
			Help:      "Number of modules generated, by stage.",
		}, []string{"stage"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "stage_failures_total",
			Help:      "Number of failed generation stages.",
		}, []string{"stage"}),
		duration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of the last run of each stage.",
		}, []string{"stage"}),
		skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "schema_generation_skipped_total",
			Help:      "Number of runs that reused prebuilt schema output.",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time of the last generation run.",
		}),
	}
	m.registry.MustRegister(m.modules, m.failures, m.duration, m.skipped, m.lastRun)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) RunStarted(t time.Time) {
	if m == nil {
		return
	}
	m.lastRun.Set(float64(t.Unix()))
}

func (m *Metrics) ModulesGenerated(stage string, n int) {
	if m == nil {
		return
	}
	m.modules.WithLabelValues(stage).Add(float64(n))
}

func (m *Metrics) StageFailed(stage string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(stage).Inc()
}

func (m *Metrics) StageDuration(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(stage).Set(d.Seconds())
}

func (m *Metrics) SchemaSkipped() {
	if m == nil {
		return
	}
	m.skipped.Inc()
}

// WriteTextfile atomically writes all metrics to path.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
