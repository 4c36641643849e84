package provisioning

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors for one run. Each run gets its own registry
// so the metrics file describes that run only.
type Metrics struct {
	Registry *prometheus.Registry

	phaseDuration *prometheus.HistogramVec
	resources     *prometheus.CounterVec
	rollbacks     *prometheus.CounterVec
}

// NewMetrics creates and registers the run's collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		phaseDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "cloudtemplate",
				Name:      "phase_duration_seconds",
				Help:      "Duration of provisioning phases in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.5, 2, 12), // 500ms to ~17min
			},
			[]string{"phase", "result"},
		),
		resources: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "cloudtemplate",
				Name:      "resources_total",
				Help:      "Resources handled by type and action",
			},
			[]string{"type", "action"},
		),
		rollbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "cloudtemplate",
				Name:      "rollbacks_total",
				Help:      "Rollbacks by result",
			},
			[]string{"result"},
		),
	}
	m.Registry.MustRegister(m.phaseDuration, m.resources, m.rollbacks)
	return m
}

// WriteToTextfile writes the registry in the Prometheus text format.
func (m *Metrics) WriteToTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}

func (m *Metrics) record(event Event) {
	switch event.Type {
	case EventPhaseCompleted:
		m.phaseDuration.WithLabelValues(event.Phase, "success").Observe(event.Duration.Seconds())
	case EventPhaseFailed:
		m.phaseDuration.WithLabelValues(event.Phase, "failed").Observe(event.Duration.Seconds())
	case EventResourceCreated:
		m.resources.WithLabelValues(event.Fields["type"], "created").Inc()
	case EventResourceExists:
		m.resources.WithLabelValues(event.Fields["type"], "existing").Inc()
	case EventResourceDeleted:
		m.resources.WithLabelValues(event.Fields["type"], "deleted").Inc()
	case EventResourceFailed:
		m.resources.WithLabelValues(event.Fields["type"], "failed").Inc()
	case EventRollbackCompleted:
		m.rollbacks.WithLabelValues(event.Fields["result"]).Inc()
	}
}

// MetricsObserver records metrics for every event and forwards it.
type MetricsObserver struct {
	Observer
	metrics *Metrics
}

// NewMetricsObserver wraps next.
func NewMetricsObserver(next Observer, metrics *Metrics) *MetricsObserver {
	return &MetricsObserver{Observer: next, metrics: metrics}
}

// Event implements Observer.
func (o *MetricsObserver) Event(event Event) {
	o.metrics.record(event)
	o.Observer.Event(event)
}

// WithFields implements Observer.
func (o *MetricsObserver) WithFields(fields map[string]string) Observer {
	return &MetricsObserver{Observer: o.Observer.WithFields(fields), metrics: o.metrics}
}
