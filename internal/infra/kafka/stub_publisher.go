package kafka

import (
	"context"

	"go.uber.org/zap"

	"github.com/skillstream/edu-notify/internal/core/domain"
	"github.com/skillstream/edu-notify/internal/core/port"
)

// StubPublisher logs outcome events instead of sending them to Kafka. Useful
// for development environments without brokers.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly outcome publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: logger}
}

// PublishNotificationDelivered logs edu.notification.delivered events.
func (p *StubPublisher) PublishNotificationDelivered(_ context.Context, event domain.NotificationDeliveredEvent) error {
	p.logger.Info("Stub event published",
		zap.String("event_type", "edu.notification.delivered"),
		zap.Int64("video_request_id", event.VideoRequestID),
		zap.Int64("user_id", event.UserID),
		zap.String("status", string(event.Status)),
		zap.Time("timestamp", event.DeliveredAt.UTC()),
	)
	return nil
}

// PublishNotificationFailed logs edu.notification.failed events.
func (p *StubPublisher) PublishNotificationFailed(_ context.Context, event domain.NotificationFailedEvent) error {
	p.logger.Info("Stub event published",
		zap.String("event_type", "edu.notification.failed"),
		zap.Int64("video_request_id", event.VideoRequestID),
		zap.Int64("user_id", event.UserID),
		zap.String("status", string(event.Status)),
		zap.String("reason", event.Reason),
		zap.Time("timestamp", event.FailedAt.UTC()),
	)
	return nil
}

var _ port.OutcomePublisher = (*StubPublisher)(nil)
