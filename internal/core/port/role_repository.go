package port

import (
	"context"

	"github.com/skillstream/edu-notify/internal/core/domain"
)

// RoleRepository handles read-only role lookups.
type RoleRepository interface {
	GetByName(ctx context.Context, name string) (*domain.Role, error)
}
