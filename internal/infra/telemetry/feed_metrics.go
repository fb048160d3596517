package telemetry

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// FeedMetricsOptions configures the change feed metric collectors.
type FeedMetricsOptions struct {
	Registerer prometheus.Registerer
	Namespace  string
	Subsystem  string
}

// FeedMetrics exposes Prometheus counters for change feed outcomes.
type FeedMetrics struct {
	Delivered prometheus.Counter
	Failed    prometheus.Counter
	Skipped   *prometheus.CounterVec
}

// NewFeedMetrics constructs the feed outcome counters and registers them with
// the provided registerer.
func NewFeedMetrics(opts FeedMetricsOptions) (*FeedMetrics, error) {
	namespace := opts.Namespace
	if namespace == "" {
		namespace = "edu"
	}

	subsystem := opts.Subsystem
	if subsystem == "" {
		subsystem = "feed"
	}

	reg := opts.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	delivered := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "notifications_delivered_total",
		Help:      "Total number of change feed records that produced a delivered notification.",
	})

	if err := reg.Register(delivered); err != nil {
		if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := already.ExistingCollector.(prometheus.Counter); ok {
				delivered = existing
			} else {
				return nil, fmt.Errorf("existing delivered collector has unexpected type %T", already.ExistingCollector)
			}
		} else {
			return nil, fmt.Errorf("register delivered collector: %w", err)
		}
	}

	failed := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "notifications_failed_total",
		Help:      "Total number of change feed records whose notification delivery failed.",
	})

	if err := reg.Register(failed); err != nil {
		if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := already.ExistingCollector.(prometheus.Counter); ok {
				failed = existing
			} else {
				return nil, fmt.Errorf("existing failed collector has unexpected type %T", already.ExistingCollector)
			}
		} else {
			return nil, fmt.Errorf("register failed collector: %w", err)
		}
	}

	skipped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "records_skipped_total",
		Help:      "Total number of change feed records skipped, partitioned by reason.",
	}, []string{"reason"})

	if err := reg.Register(skipped); err != nil {
		if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := already.ExistingCollector.(*prometheus.CounterVec); ok {
				skipped = existing
			} else {
				return nil, fmt.Errorf("existing skipped collector has unexpected type %T", already.ExistingCollector)
			}
		} else {
			return nil, fmt.Errorf("register skipped collector: %w", err)
		}
	}

	return &FeedMetrics{
		Delivered: delivered,
		Failed:    failed,
		Skipped:   skipped,
	}, nil
}

func (m *FeedMetrics) ObserveDelivered() {
	if m == nil || m.Delivered == nil {
		return
	}
	m.Delivered.Inc()
}

func (m *FeedMetrics) ObserveFailed() {
	if m == nil || m.Failed == nil {
		return
	}
	m.Failed.Inc()
}

func (m *FeedMetrics) ObserveSkipped(reason string) {
	if m == nil || m.Skipped == nil {
		return
	}
	m.Skipped.WithLabelValues(reason).Inc()
}
