package port

import (
	"context"

	"github.com/skillstream/edu-notify/internal/core/domain"
)

// OutcomePublisher publishes notification outcome events to the message bus.
type OutcomePublisher interface {
	PublishNotificationDelivered(ctx context.Context, event domain.NotificationDeliveredEvent) error
	PublishNotificationFailed(ctx context.Context, event domain.NotificationFailedEvent) error
}

// FeedMetrics observes per-record outcomes of the change feed pipeline.
type FeedMetrics interface {
	ObserveDelivered()
	ObserveFailed()
	ObserveSkipped(reason string)
}
