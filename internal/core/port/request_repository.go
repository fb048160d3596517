package port

import (
	"context"

	"github.com/skillstream/edu-notify/internal/core/domain"
)

// RequestRepository exposes read access to persisted video requests.
type RequestRepository interface {
	GetByID(ctx context.Context, videoRequestID int64) (*domain.VideoRequest, error)
}
