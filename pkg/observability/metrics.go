package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics implements [LicenseHooks] and [LinkerHooks] by recording events into
// a Prometheus registry. A CLI run is short-lived, so the registry is written
// once at exit with [Metrics.WriteTextfile] for a node_exporter textfile
// collector rather than served over HTTP.
type Metrics struct {
	registry *prometheus.Registry

	skipped       *prometheus.CounterVec
	included      *prometheus.GaugeVec
	buildDuration *prometheus.HistogramVec
	indexLoads    *prometheus.CounterVec
	indexEntries  prometheus.Gauge
	fallbacks     *prometheus.CounterVec
}

// NewMetrics creates a collector with its own registry.
func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "packages_skipped_total",
			Help:      "Packages left out of an artifact, by reason.",
		}, []string{"artifact", "reason"}),
		included: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "packages_included",
			Help:      "Packages covered by the last built artifact.",
		}, []string{"artifact"}),
		buildDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "artifact_build_duration_seconds",
			Help:      "Time spent building an artifact.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"artifact"}),
		indexLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "index_loads_total",
			Help:      "Install-state index loads, by result.",
		}, []string{"result"}),
		indexEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "index_entries",
			Help:      "Entries in the last loaded install-state index.",
		}),
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "index_fallbacks_total",
			Help:      "Exact-key index misses, by whether the fallback scan matched.",
		}, []string{"matched"}),
	}
	m.registry.MustRegister(m.skipped, m.included, m.buildDuration, m.indexLoads, m.indexEntries, m.fallbacks)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// WriteTextfile writes all metrics to path in the Prometheus text format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

func (m *Metrics) OnPackageSkipped(_ context.Context, artifact, _ string, reason SkipReason) {
	m.skipped.WithLabelValues(artifact, string(reason)).Inc()
}

func (m *Metrics) OnArtifactBuilt(_ context.Context, artifact string, included, _ int, duration time.Duration) {
	m.included.WithLabelValues(artifact).Set(float64(included))
	m.buildDuration.WithLabelValues(artifact).Observe(duration.Seconds())
}

func (m *Metrics) OnIndexLoad(_ context.Context, _ string, entries int, _ time.Duration, err error) {
	if err != nil {
		m.indexLoads.WithLabelValues("error").Inc()
		return
	}
	m.indexLoads.WithLabelValues("ok").Inc()
	m.indexEntries.Set(float64(entries))
}

func (m *Metrics) OnIndexFallback(_ context.Context, _ string, _ []string, chosen string) {
	matched := "true"
	if chosen == "" {
		matched = "false"
	}
	m.fallbacks.WithLabelValues(matched).Inc()
}

var (
	_ LicenseHooks = (*Metrics)(nil)
	_ LinkerHooks  = (*Metrics)(nil)
)
