package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/skillstream/edu-notify/internal/core/domain"
	"github.com/skillstream/edu-notify/internal/core/port"
	"github.com/skillstream/edu-notify/internal/repository"
)

var (
	// ErrMissingExternalID indicates the inbound payload carries no AD object id.
	ErrMissingExternalID = errors.New("external identity id is required")
	// ErrDefaultRoleMissing indicates the configured default role is not
	// provisioned in the store. A configuration fault, not a per-request fault.
	ErrDefaultRoleMissing = errors.New("default role is not provisioned")
)

// ProfileService reconciles inbound profile payloads against the store.
type ProfileService struct {
	profiles        port.ProfileRepository
	roles           port.RoleRepository
	defaultRoleName string
	defaultAppID    int64
	logger          *zap.Logger
}

// NewProfileService constructs a profile reconciliation service. The default
// role name and application scope are deliberately injected rather than
// hard-coded so they stay testable and overridable.
func NewProfileService(profiles port.ProfileRepository, roles port.RoleRepository, defaultRoleName string, defaultAppID int64, logger *zap.Logger) *ProfileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaultRoleName == "" {
		defaultRoleName = "Student"
	}
	if defaultAppID <= 0 {
		defaultAppID = 1
	}
	return &ProfileService{
		profiles:        profiles,
		roles:           roles,
		defaultRoleName: defaultRoleName,
		defaultAppID:    defaultAppID,
		logger:          logger,
	}
}

// Reconcile creates or updates the profile identified by the payload's AD
// object id and returns the canonical profile together with the role names
// re-read from the store. The re-read is authoritative: role names resolve
// through a join, so the response must reflect the store's final state rather
// than the in-memory object.
func (s *ProfileService) Reconcile(ctx context.Context, inbound domain.UserProfile) (domain.UserProfile, []string, error) {
	adObjectID := strings.TrimSpace(inbound.ADObjectID)
	if adObjectID == "" {
		return domain.UserProfile{}, nil, ErrMissingExternalID
	}

	existing, err := s.profiles.FindByExternalID(ctx, adObjectID)
	switch {
	case err == nil:
		existing.DisplayName = inbound.DisplayName
		existing.FirstName = inbound.FirstName
		existing.LastName = inbound.LastName
		existing.Email = inbound.Email

		if err := s.profiles.Update(ctx, *existing); err != nil {
			return domain.UserProfile{}, nil, fmt.Errorf("update profile: %w", err)
		}

		s.logger.Info("profile updated",
			zap.Int64("user_id", existing.UserID),
			zap.String("ad_obj_id", adObjectID),
		)

		return s.withRoleNames(ctx, *existing)

	case errors.Is(err, repository.ErrNotFound):
		role, err := s.roles.GetByName(ctx, s.defaultRoleName)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return domain.UserProfile{}, nil, fmt.Errorf("%w: %q", ErrDefaultRoleMissing, s.defaultRoleName)
			}
			return domain.UserProfile{}, nil, fmt.Errorf("resolve default role: %w", err)
		}

		profile := domain.UserProfile{
			ADObjectID:  adObjectID,
			DisplayName: inbound.DisplayName,
			FirstName:   inbound.FirstName,
			LastName:    inbound.LastName,
			Email:       inbound.Email,
			Roles: []domain.RoleAssignment{
				{RoleID: role.RoleID, AppID: s.defaultAppID},
			},
		}

		if err := s.profiles.Insert(ctx, &profile); err != nil {
			return domain.UserProfile{}, nil, fmt.Errorf("insert profile: %w", err)
		}

		s.logger.Info("profile created",
			zap.Int64("user_id", profile.UserID),
			zap.String("ad_obj_id", adObjectID),
			zap.String("default_role", s.defaultRoleName),
		)

		return s.withRoleNames(ctx, profile)

	default:
		return domain.UserProfile{}, nil, fmt.Errorf("lookup profile: %w", err)
	}
}

func (s *ProfileService) withRoleNames(ctx context.Context, profile domain.UserProfile) (domain.UserProfile, []string, error) {
	names, err := s.profiles.ListRoleNames(ctx, profile.UserID)
	if err != nil {
		return domain.UserProfile{}, nil, fmt.Errorf("list role names: %w", err)
	}
	if names == nil {
		names = []string{}
	}
	return profile, names, nil
}
