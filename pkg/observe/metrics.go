package observe

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/vango-dev/vform/pkg/form"
)

// MetricsConfig configures the Prometheus observer.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "vform").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for durations.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus observer.
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

// WithBuckets sets the duration histogram buckets.
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
		Namespace: "vform",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Submit outcomes recorded in the "outcome" label of submits_total.
const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
)

// Metrics records form lifecycle events as Prometheus metrics. It
// implements form.Observer; one Metrics can serve many controllers.
type Metrics struct {
	fields           *prometheus.GaugeVec
	validations      *prometheus.CounterVec
	validationErrors *prometheus.HistogramVec
	validationTime   *prometheus.HistogramVec
	submits          *prometheus.CounterVec
	submitTime       *prometheus.HistogramVec
}

var _ form.Observer = (*Metrics)(nil)

// NewMetrics creates and registers the form metrics. Registering twice
// against the same registry panics, as with promauto.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		fields: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "fields_registered",
			Help:        "Number of fields registered with a form",
			ConstLabels: config.ConstLabels,
		}, []string{"form"}),

		validations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "validations_total",
			Help:        "Total number of validation passes",
			ConstLabels: config.ConstLabels,
		}, []string{"form"}),

		validationErrors: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "validation_errors",
			Help:        "Number of field errors produced by a validation pass",
			ConstLabels: config.ConstLabels,
			Buckets:     []float64{0, 1, 2, 5, 10, 25},
		}, []string{"form"}),

		validationTime: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "validation_duration_seconds",
			Help:        "Validation pass duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"form"}),

		submits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "submits_total",
			Help:        "Submit attempts by outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"form", "outcome"}),

		submitTime: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "submit_duration_seconds",
			Help:        "OnSubmit run time in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"form"}),
	}
}

// FieldsChanged implements form.Observer.
func (m *Metrics) FieldsChanged(name string, count int) {
	m.fields.WithLabelValues(name).Set(float64(count))
}

// Validated implements form.Observer.
func (m *Metrics) Validated(name string, errorCount int, elapsed time.Duration) {
	m.validations.WithLabelValues(name).Inc()
	m.validationErrors.WithLabelValues(name).Observe(float64(errorCount))
	m.validationTime.WithLabelValues(name).Observe(elapsed.Seconds())
}

// SubmitSkipped implements form.Observer. The skip reason is used as the
// outcome label.
func (m *Metrics) SubmitSkipped(name string, reason string) {
	m.submits.WithLabelValues(name, reason).Inc()
}

// SubmitStarted implements form.Observer.
func (m *Metrics) SubmitStarted(string) {}

// SubmitSettled implements form.Observer.
func (m *Metrics) SubmitSettled(name string, err error, elapsed time.Duration) {
	outcome := OutcomeSucceeded
	if err != nil {
		outcome = OutcomeFailed
	}
	m.submits.WithLabelValues(name, outcome).Inc()
	m.submitTime.WithLabelValues(name).Observe(elapsed.Seconds())
}
