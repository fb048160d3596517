package port

import (
	"context"

	"github.com/skillstream/edu-notify/internal/core/domain"
)

// ProfileRepository exposes persistence behavior for user profiles.
type ProfileRepository interface {
	// FindByExternalID loads a profile by its AD object id, eagerly including
	// role assignments.
	FindByExternalID(ctx context.Context, adObjectID string) (*domain.UserProfile, error)
	FindByID(ctx context.Context, userID int64) (*domain.UserProfile, error)
	// Insert persists the profile together with its role assignments in a
	// single transaction and sets the store-assigned UserID on the argument.
	Insert(ctx context.Context, profile *domain.UserProfile) error
	// Update overwrites the descriptive fields only; role assignments are
	// never touched by the update path.
	Update(ctx context.Context, profile domain.UserProfile) error
	// ListRoleNames returns the role names currently assigned to the user,
	// resolved through the role join, ordered by name.
	ListRoleNames(ctx context.Context, userID int64) ([]string, error)
}
