package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/skillstream/edu-notify/internal/core/domain"
	"github.com/skillstream/edu-notify/internal/core/port"
	"github.com/skillstream/edu-notify/internal/infra/config"
)

const schemaVersion = "1.0"

// OutcomePublisher implements port.OutcomePublisher using Kafka.
type OutcomePublisher struct {
	producer *Producer
	logger   *zap.Logger
	appCfg   config.AppSettings
}

// NewOutcomePublisher constructs a Kafka-backed outcome publisher.
func NewOutcomePublisher(producer *Producer, appCfg config.AppSettings, logger *zap.Logger) *OutcomePublisher {
	return &OutcomePublisher{producer: producer, appCfg: appCfg, logger: logger}
}

type envelopeMetadata map[string]string

type eventEnvelope struct {
	EventID   string           `json:"event_id"`
	EventType string           `json:"event_type"`
	UserID    int64            `json:"user_id,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
	Version   string           `json:"version"`
	Payload   any              `json:"payload"`
	Metadata  envelopeMetadata `json:"metadata,omitempty"`
}

func (p *OutcomePublisher) publish(ctx context.Context, eventID, eventType string, userID int64, ts time.Time, payload any) error {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	id := eventID
	if id == "" {
		id = uuid.NewString()
	}

	metadata := envelopeMetadata{
		"service":     p.appCfg.Name,
		"environment": p.appCfg.Env,
	}

	envelope := eventEnvelope{
		EventID:   id,
		EventType: eventType,
		UserID:    userID,
		Timestamp: ts.UTC(),
		Version:   schemaVersion,
		Payload:   payload,
		Metadata:  metadata,
	}

	bytes, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.producer.TopicName(eventType),
		Value: sarama.ByteEncoder(bytes),
	}

	select {
	case p.producer.Producer().Input() <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishNotificationDelivered publishes edu.notification.delivered events.
func (p *OutcomePublisher) PublishNotificationDelivered(ctx context.Context, event domain.NotificationDeliveredEvent) error {
	payload := struct {
		VideoRequestID int64     `json:"video_request_id"`
		UserID         int64     `json:"user_id"`
		Status         string    `json:"status"`
		Recipient      string    `json:"recipient"`
		DeliveredAt    time.Time `json:"delivered_at"`
	}{
		VideoRequestID: event.VideoRequestID,
		UserID:         event.UserID,
		Status:         string(event.Status),
		Recipient:      event.Recipient,
		DeliveredAt:    event.DeliveredAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "edu.notification.delivered", event.UserID, event.DeliveredAt, payload)
}

// PublishNotificationFailed publishes edu.notification.failed events.
func (p *OutcomePublisher) PublishNotificationFailed(ctx context.Context, event domain.NotificationFailedEvent) error {
	payload := struct {
		VideoRequestID int64     `json:"video_request_id"`
		UserID         int64     `json:"user_id"`
		Status         string    `json:"status"`
		Recipient      string    `json:"recipient"`
		FailedAt       time.Time `json:"failed_at"`
		Reason         string    `json:"reason"`
	}{
		VideoRequestID: event.VideoRequestID,
		UserID:         event.UserID,
		Status:         string(event.Status),
		Recipient:      event.Recipient,
		FailedAt:       event.FailedAt.UTC(),
		Reason:         event.Reason,
	}

	return p.publish(ctx, event.EventID, "edu.notification.failed", event.UserID, event.FailedAt, payload)
}

var _ port.OutcomePublisher = (*OutcomePublisher)(nil)
