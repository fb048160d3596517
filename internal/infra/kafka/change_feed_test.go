package kafka

import (
	"context"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap/zaptest"

	"github.com/skillstream/edu-notify/internal/core/domain"
)

func TestDecodeChange(t *testing.T) {
	raw := []byte(`{
		"operation": "update",
		"request": {
			"videoRequestId": 10,
			"userId": 42,
			"topic": "Algebra",
			"subTopic": "Quadratics",
			"shortTitle": "Solving quadratics",
			"requestDescription": "Please cover the discriminant.",
			"requestStatus": "Completed",
			"response": "Recorded",
			"videoUrls": "https://videos.example/q1"
		}
	}`)

	change, err := decodeChange(raw)
	if err != nil {
		t.Fatalf("decodeChange returned error: %v", err)
	}

	if change.Operation != domain.ChangeUpdate {
		t.Errorf("expected update operation, got %q", change.Operation)
	}
	if change.Request.VideoRequestID != 10 || change.Request.UserID != 42 {
		t.Errorf("unexpected request identity: %+v", change.Request)
	}
	if change.Request.RequestStatus != domain.StatusCompleted {
		t.Errorf("expected Completed status, got %q", change.Request.RequestStatus)
	}
	if change.Request.Response != "Recorded" {
		t.Errorf("unexpected response: %q", change.Request.Response)
	}
}

func TestDecodeChange_Malformed(t *testing.T) {
	cases := map[string][]byte{
		"invalid json": []byte(`{"operation": "insert"`),
		"missing id":   []byte(`{"operation": "insert", "request": {"userId": 42}}`),
	}

	for name, raw := range cases {
		if _, err := decodeChange(raw); err == nil {
			t.Errorf("%s: expected decode error", name)
		}
	}
}

func consumerMessages(values ...string) []*sarama.ConsumerMessage {
	msgs := make([]*sarama.ConsumerMessage, 0, len(values))
	for i, v := range values {
		msgs = append(msgs, &sarama.ConsumerMessage{
			Value:     []byte(v),
			Offset:    int64(i),
			Partition: 0,
		})
	}
	return msgs
}

type feedStub struct {
	batches [][]domain.RequestChange
}

func (f *feedStub) Consume(_ context.Context, changes []domain.RequestChange) {
	batch := make([]domain.RequestChange, len(changes))
	copy(batch, changes)
	f.batches = append(f.batches, batch)
}

func TestFeedHandler_DeliverSkipsMalformedMessages(t *testing.T) {
	feed := &feedStub{}
	handler := &feedHandler{
		feed:          feed,
		batchSize:     10,
		flushInterval: time.Second,
		logger:        zaptest.NewLogger(t),
	}

	msgs := consumerMessages(
		`{"operation": "insert", "request": {"videoRequestId": 1, "userId": 42}}`,
		`not json`,
		`{"operation": "update", "request": {"videoRequestId": 2, "userId": 42}}`,
	)

	handler.deliver(context.Background(), msgs)

	if len(feed.batches) != 1 {
		t.Fatalf("expected one delivered batch, got %d", len(feed.batches))
	}
	if len(feed.batches[0]) != 2 {
		t.Fatalf("expected malformed message skipped, got %d changes", len(feed.batches[0]))
	}
	if feed.batches[0][0].Request.VideoRequestID != 1 || feed.batches[0][1].Request.VideoRequestID != 2 {
		t.Errorf("unexpected batch contents: %+v", feed.batches[0])
	}
}

func TestFeedHandler_DeliverDropsEmptyBatch(t *testing.T) {
	feed := &feedStub{}
	handler := &feedHandler{
		feed:          feed,
		batchSize:     10,
		flushInterval: time.Second,
		logger:        zaptest.NewLogger(t),
	}

	handler.deliver(context.Background(), consumerMessages(`broken`))

	if len(feed.batches) != 0 {
		t.Fatalf("expected no batch for all-malformed input, got %d", len(feed.batches))
	}
}
