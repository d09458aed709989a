package telemetry

import (
	"context"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/vango-dev/lattice/pkg/layout"
	"github.com/vango-dev/lattice/pkg/reactive"
)

// MetricsConfig configures the Prometheus collectors.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "lattice").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for batch and pass durations.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus collectors.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "lattice",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// sizeBuckets covers node counts from a single binding to large scenes.
var sizeBuckets = prometheus.ExponentialBuckets(1, 4, 8)

// Metrics records propagation batches and layout passes as Prometheus
// metrics. It implements both reactive.Observer and layout.Observer.
//
// Collectors are registered when the Metrics is created, so creating two
// with the same registry and namespace panics.
type Metrics struct {
	batchesTotal   *prometheus.CounterVec
	batchNodes     prometheus.Histogram
	recomputations prometheus.Counter
	notifications  prometheus.Counter
	batchDuration  prometheus.Histogram
	passesTotal    prometheus.Counter
	passNodes      prometheus.Histogram
	measurements   prometheus.Counter
	cacheHits      prometheus.Counter
	fallbacks      prometheus.Counter
	passDuration   prometheus.Histogram
}

var (
	_ reactive.Observer = (*Metrics)(nil)
	_ layout.Observer   = (*Metrics)(nil)
)

// NewMetrics creates and registers the collectors.
//
// Example:
//
//	reg := prometheus.NewRegistry()
//	m := telemetry.NewMetrics(telemetry.WithRegistry(reg))
//	rt := reactive.NewRuntime(reactive.WithObserver(m))
//	engine := layout.NewEngine(layout.WithObserver(m))
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	counter := func(name, help string) prometheus.Counter {
		return factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
		})
	}
	histogram := func(name, help string, buckets []float64) prometheus.Histogram {
		return factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
			Buckets:     buckets,
		})
	}

	return &Metrics{
		batchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "propagation_batches_total",
			Help:        "Total number of signal propagation batches",
			ConstLabels: config.ConstLabels,
		}, []string{"panicked"}),
		batchNodes:     histogram("propagation_batch_nodes", "Downstream closure size per batch", sizeBuckets),
		recomputations: counter("recomputations_total", "Total number of derived signal evaluations"),
		notifications:  counter("notifications_total", "Total number of watcher invocations"),
		batchDuration:  histogram("propagation_duration_seconds", "Propagation batch duration in seconds", config.Buckets),
		passesTotal:    counter("layout_passes_total", "Total number of layout passes"),
		passNodes:      histogram("layout_pass_nodes", "Placed nodes per layout pass", sizeBuckets),
		measurements:   counter("layout_measurements_total", "Total number of node measurements"),
		cacheHits:      counter("layout_cache_hits_total", "Total number of measurements served from the pass cache"),
		fallbacks:      counter("layout_fallbacks_total", "Total number of policy fallbacks under unbounded proposals"),
		passDuration:   histogram("layout_pass_duration_seconds", "Layout pass duration in seconds", config.Buckets),
	}
}

// ObservePropagation implements reactive.Observer.
func (m *Metrics) ObservePropagation(stats reactive.PropagationStats) {
	m.batchesTotal.WithLabelValues(strconv.FormatBool(stats.Panicked)).Inc()
	m.batchNodes.Observe(float64(stats.Nodes))
	m.recomputations.Add(float64(stats.Recomputed))
	m.notifications.Add(float64(stats.Notified))
	m.batchDuration.Observe(stats.Duration.Seconds())
}

// ObservePass implements layout.Observer.
func (m *Metrics) ObservePass(_ context.Context, stats layout.PassStats) {
	m.passesTotal.Inc()
	m.passNodes.Observe(float64(stats.Nodes))
	m.measurements.Add(float64(stats.Measures))
	m.cacheHits.Add(float64(stats.CacheHits))
	m.fallbacks.Add(float64(stats.Fallbacks))
	m.passDuration.Observe(stats.Duration.Seconds())
}
