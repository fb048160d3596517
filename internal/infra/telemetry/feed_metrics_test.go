package telemetry

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestFeedMetricsObservations(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics, err := NewFeedMetrics(FeedMetricsOptions{Registerer: registry})
	if err != nil {
		t.Fatalf("failed to create feed metrics: %v", err)
	}

	metrics.ObserveDelivered()
	metrics.ObserveDelivered()
	metrics.ObserveFailed()
	metrics.ObserveSkipped("deleted")
	metrics.ObserveSkipped("duplicate")
	metrics.ObserveSkipped("duplicate")

	if got := testutil.ToFloat64(metrics.Delivered); got != 2 {
		t.Fatalf("expected delivered counter 2, got %f", got)
	}
	if got := testutil.ToFloat64(metrics.Failed); got != 1 {
		t.Fatalf("expected failed counter 1, got %f", got)
	}
	if got := testutil.ToFloat64(metrics.Skipped.WithLabelValues("duplicate")); got != 2 {
		t.Fatalf("expected duplicate skip counter 2, got %f", got)
	}
	if got := testutil.ToFloat64(metrics.Skipped.WithLabelValues("deleted")); got != 1 {
		t.Fatalf("expected deleted skip counter 1, got %f", got)
	}
}

func TestFeedMetricsReregistrationReturnsExisting(t *testing.T) {
	registry := prometheus.NewRegistry()

	first, err := NewFeedMetrics(FeedMetricsOptions{Registerer: registry})
	if err != nil {
		t.Fatalf("failed to create feed metrics: %v", err)
	}

	second, err := NewFeedMetrics(FeedMetricsOptions{Registerer: registry})
	if err != nil {
		t.Fatalf("expected reregistration to reuse collectors: %v", err)
	}

	first.ObserveDelivered()
	second.ObserveDelivered()

	if got := testutil.ToFloat64(second.Delivered); got != 2 {
		t.Fatalf("expected shared delivered counter 2, got %f", got)
	}
}

func TestFeedMetricsNilSafe(t *testing.T) {
	var metrics *FeedMetrics
	metrics.ObserveDelivered()
	metrics.ObserveFailed()
	metrics.ObserveSkipped("deleted")
}
