package port

import (
	"context"

	"github.com/skillstream/edu-notify/internal/core/domain"
)

// NotificationLedger tracks which (request, status) pairs have already been
// notified, giving at-most-once delivery per observed status when enabled.
// Without a ledger the feed redelivers duplicates verbatim.
type NotificationLedger interface {
	// MarkIfFirst records the pair and reports whether this is its first
	// observation.
	MarkIfFirst(ctx context.Context, videoRequestID int64, status domain.RequestStatus) (bool, error)
}
