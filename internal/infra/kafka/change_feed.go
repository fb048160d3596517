package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/skillstream/edu-notify/internal/core/domain"
	"github.com/skillstream/edu-notify/internal/infra/config"
)

// ChangeFeed receives decoded request-change batches.
type ChangeFeed interface {
	Consume(ctx context.Context, changes []domain.RequestChange)
}

// changeMessage is the wire shape of one row-level change on the feed topic.
type changeMessage struct {
	Operation string `json:"operation"`
	Request   struct {
		VideoRequestID     int64  `json:"videoRequestId"`
		UserID             int64  `json:"userId"`
		Topic              string `json:"topic"`
		SubTopic           string `json:"subTopic"`
		ShortTitle         string `json:"shortTitle"`
		RequestDescription string `json:"requestDescription"`
		RequestStatus      string `json:"requestStatus"`
		Response           string `json:"response"`
		VideoURLs          string `json:"videoUrls"`
	} `json:"request"`
}

// decodeChange unmarshals a feed message into a domain change record.
func decodeChange(value []byte) (domain.RequestChange, error) {
	var msg changeMessage
	if err := json.Unmarshal(value, &msg); err != nil {
		return domain.RequestChange{}, fmt.Errorf("decode request change: %w", err)
	}
	if msg.Request.VideoRequestID == 0 {
		return domain.RequestChange{}, errors.New("decode request change: missing videoRequestId")
	}

	return domain.RequestChange{
		Operation: domain.ChangeOperation(msg.Operation),
		Request: domain.VideoRequest{
			VideoRequestID:     msg.Request.VideoRequestID,
			UserID:             msg.Request.UserID,
			Topic:              msg.Request.Topic,
			SubTopic:           msg.Request.SubTopic,
			ShortTitle:         msg.Request.ShortTitle,
			RequestDescription: msg.Request.RequestDescription,
			RequestStatus:      domain.RequestStatus(msg.Request.RequestStatus),
			Response:           msg.Request.Response,
			VideoURLs:          msg.Request.VideoURLs,
		},
	}, nil
}

// ChangeFeedRunner consumes the change topic through a consumer group and
// hands bounded batches to the feed service.
type ChangeFeedRunner struct {
	group         sarama.ConsumerGroup
	topic         string
	feed          ChangeFeed
	batchSize     int
	flushInterval time.Duration
	logger        *zap.Logger
}

// NewChangeFeedRunner constructs the consumer group runner.
func NewChangeFeedRunner(cfg config.KafkaSettings, feed ChangeFeed, logger *zap.Logger) (*ChangeFeedRunner, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Version = sarama.V3_5_0_0
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetOldest
	saramaConfig.Consumer.Return.Errors = true

	group, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.GroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("create kafka consumer group: %w", err)
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 50
	}
	flushInterval := cfg.FlushInterval
	if flushInterval <= 0 {
		flushInterval = 2 * time.Second
	}

	return &ChangeFeedRunner{
		group:         group,
		topic:         cfg.ChangeTopic,
		feed:          feed,
		batchSize:     batchSize,
		flushInterval: flushInterval,
		logger:        logger,
	}, nil
}

// Run blocks consuming the change topic until the context is cancelled.
func (r *ChangeFeedRunner) Run(ctx context.Context) error {
	go func() {
		for err := range r.group.Errors() {
			r.logger.Error("kafka consumer group error", zap.Error(err))
		}
	}()

	handler := &feedHandler{
		feed:          r.feed,
		batchSize:     r.batchSize,
		flushInterval: r.flushInterval,
		logger:        r.logger,
	}

	for {
		// Consume returns on rebalance; loop to rejoin the group.
		if err := r.group.Consume(ctx, []string{r.topic}, handler); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return nil
			}
			return fmt.Errorf("consume change topic: %w", err)
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

// Close shuts down the consumer group.
func (r *ChangeFeedRunner) Close() error {
	if err := r.group.Close(); err != nil {
		return fmt.Errorf("close kafka consumer group: %w", err)
	}
	return nil
}

// feedHandler accumulates claim messages into bounded batches. A batch is
// flushed when it reaches batchSize or when flushInterval elapses with
// messages pending; offsets are marked after each flush.
type feedHandler struct {
	feed          ChangeFeed
	batchSize     int
	flushInterval time.Duration
	logger        *zap.Logger
}

func (h *feedHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *feedHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *feedHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	ctx := session.Context()

	batch := make([]*sarama.ConsumerMessage, 0, h.batchSize)

	ticker := time.NewTicker(h.flushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		h.deliver(ctx, batch)
		session.MarkMessage(batch[len(batch)-1], "")
		batch = batch[:0]
	}

	for {
		select {
		case msg, ok := <-claim.Messages():
			if !ok {
				flush()
				return nil
			}
			batch = append(batch, msg)
			if len(batch) >= h.batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-ctx.Done():
			flush()
			return nil
		}
	}
}

// deliver decodes the raw messages and forwards the batch. Malformed messages
// are logged and skipped so one bad payload never stalls the partition.
func (h *feedHandler) deliver(ctx context.Context, msgs []*sarama.ConsumerMessage) {
	changes := make([]domain.RequestChange, 0, len(msgs))
	for _, msg := range msgs {
		change, err := decodeChange(msg.Value)
		if err != nil {
			h.logger.Error("skip malformed change message",
				zap.Int64("offset", msg.Offset),
				zap.Int32("partition", msg.Partition),
				zap.Error(err),
			)
			continue
		}
		changes = append(changes, change)
	}

	if len(changes) == 0 {
		return
	}

	h.feed.Consume(ctx, changes)
}
