package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/recon/internal/errors"
	"github.com/vango-dev/recon/pkg/host"
	"github.com/vango-dev/recon/pkg/reconcile"
)

// MetricsConfig configures the Prometheus metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "recon").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for operation duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics.
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
		Namespace: "recon",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics records reconciler activity. It implements reconcile.Observer.
type Metrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	errors     *prometheus.CounterVec
	mutations  *prometheus.CounterVec
}

var _ reconcile.Observer = (*Metrics)(nil)

// NewMetrics registers the reconciler metrics. Registering twice against
// the same registry panics, as promauto does.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "operations_total",
			Help:        "Total number of reconciler operations",
			ConstLabels: config.ConstLabels,
		}, []string{"op", "status"}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "operation_duration_seconds",
			Help:        "Reconciler operation duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"op"}),

		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "operation_errors_total",
			Help:        "Total number of failed reconciler operations",
			ConstLabels: config.ConstLabels,
		}, []string{"op", "code"}),

		mutations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "host_mutations_total",
			Help:        "Total number of host tree mutations",
			ConstLabels: config.ConstLabels,
		}, []string{"op"}),
	}
}

// Begin implements reconcile.Observer.
func (m *Metrics) Begin(op reconcile.Operation, _ string) func(error) {
	start := time.Now()
	return func(err error) {
		m.duration.WithLabelValues(string(op)).Observe(time.Since(start).Seconds())
		status := "success"
		if err != nil {
			status = "error"
			m.errors.WithLabelValues(string(op), errorCode(err)).Inc()
		}
		m.operations.WithLabelValues(string(op), status).Inc()
	}
}

// RecordMutation counts one host mutation. It can be subscribed to a
// memhost journal directly.
func (m *Metrics) RecordMutation(mu host.Mutation) {
	m.mutations.WithLabelValues(mu.Op.String()).Inc()
}

// errorCode keeps the label set bounded: coded errors report their code,
// everything else (lifecycle callback errors) is "callback".
func errorCode(err error) string {
	if code := errors.CodeOf(err); code != "" {
		return code
	}
	return "callback"
}
