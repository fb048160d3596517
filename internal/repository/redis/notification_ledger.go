package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	red "github.com/redis/go-redis/v9"

	"github.com/skillstream/edu-notify/internal/core/domain"
	"github.com/skillstream/edu-notify/internal/core/port"
)

const defaultLedgerPrefix = "edu:notified"

// NotificationLedger implements at-most-once bookkeeping for notifications
// keyed by (video request id, observed status), backed by Redis SET NX.
type NotificationLedger struct {
	client *red.Client
	prefix string
	ttl    time.Duration
}

// NewNotificationLedger constructs the ledger helper.
func NewNotificationLedger(client *red.Client, keyPrefix string, ttl time.Duration) *NotificationLedger {
	prefix := strings.TrimSpace(keyPrefix)
	if prefix == "" {
		prefix = defaultLedgerPrefix
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &NotificationLedger{client: client, prefix: prefix, ttl: ttl}
}

// MarkIfFirst records the (request, status) pair and reports whether it was
// unseen. A pair already present means the feed redelivered the record.
func (l *NotificationLedger) MarkIfFirst(ctx context.Context, videoRequestID int64, status domain.RequestStatus) (bool, error) {
	key := l.key(videoRequestID, status)

	first, err := l.client.SetNX(ctx, key, 1, l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("mark notification ledger: %w", err)
	}

	return first, nil
}

func (l *NotificationLedger) key(videoRequestID int64, status domain.RequestStatus) string {
	return fmt.Sprintf("%s:%d:%s", l.prefix, videoRequestID, status)
}

var _ port.NotificationLedger = (*NotificationLedger)(nil)
