package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/skillstream/edu-notify/internal/core/domain"
	"github.com/skillstream/edu-notify/internal/repository"
)

// Mock repositories for profile reconciliation testing

type profileRepoMock struct {
	byExternalID map[string]domain.UserProfile
	byID         map[int64]domain.UserProfile
	roleNames    map[int64][]string
	nextUserID   int64
	insertErr    error
	updateErr    error
	findErr      error
	insertCalls  int
	updateCalls  int
}

func (m *profileRepoMock) FindByExternalID(_ context.Context, adObjectID string) (*domain.UserProfile, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	if profile, ok := m.byExternalID[adObjectID]; ok {
		return &profile, nil
	}
	return nil, repository.ErrNotFound
}

func (m *profileRepoMock) FindByID(_ context.Context, userID int64) (*domain.UserProfile, error) {
	if profile, ok := m.byID[userID]; ok {
		return &profile, nil
	}
	return nil, repository.ErrNotFound
}

func (m *profileRepoMock) Insert(_ context.Context, profile *domain.UserProfile) error {
	m.insertCalls++
	if m.insertErr != nil {
		return m.insertErr
	}
	if m.nextUserID == 0 {
		m.nextUserID = 1
	}
	profile.UserID = m.nextUserID
	m.nextUserID++

	if m.byExternalID == nil {
		m.byExternalID = make(map[string]domain.UserProfile)
	}
	if m.byID == nil {
		m.byID = make(map[int64]domain.UserProfile)
	}
	if m.roleNames == nil {
		m.roleNames = make(map[int64][]string)
	}
	m.byExternalID[profile.ADObjectID] = *profile
	m.byID[profile.UserID] = *profile

	names := make([]string, 0, len(profile.Roles))
	for range profile.Roles {
		names = append(names, "Student")
	}
	m.roleNames[profile.UserID] = names
	return nil
}

func (m *profileRepoMock) Update(_ context.Context, profile domain.UserProfile) error {
	m.updateCalls++
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.byID[profile.UserID]; !ok {
		return repository.ErrNotFound
	}
	m.byID[profile.UserID] = profile
	m.byExternalID[profile.ADObjectID] = profile
	return nil
}

func (m *profileRepoMock) ListRoleNames(_ context.Context, userID int64) ([]string, error) {
	return m.roleNames[userID], nil
}

type roleRepoMock struct {
	rolesByName map[string]domain.Role
	getErr      error
}

func (m *roleRepoMock) GetByName(_ context.Context, name string) (*domain.Role, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if role, ok := m.rolesByName[name]; ok {
		return &role, nil
	}
	return nil, repository.ErrNotFound
}

func studentRoleRepo() *roleRepoMock {
	return &roleRepoMock{
		rolesByName: map[string]domain.Role{
			"Student": {RoleID: 7, RoleName: "Student"},
		},
	}
}

func TestProfileService_Reconcile_CreatesNewProfile(t *testing.T) {
	profiles := &profileRepoMock{}
	service := NewProfileService(profiles, studentRoleRepo(), "Student", 1, nil)

	inbound := domain.UserProfile{
		ADObjectID:  "ad-1",
		DisplayName: "Jane Doe",
		FirstName:   "Jane",
		LastName:    "Doe",
		Email:       "jane@x.com",
	}

	profile, roles, err := service.Reconcile(context.Background(), inbound)
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	if profile.UserID == 0 {
		t.Error("expected a store-assigned user id")
	}
	if profile.ADObjectID != "ad-1" {
		t.Errorf("expected adObjId 'ad-1', got %s", profile.ADObjectID)
	}
	if len(roles) != 1 || roles[0] != "Student" {
		t.Errorf("expected roles [Student], got %v", roles)
	}
	if len(profile.Roles) != 1 {
		t.Fatalf("expected exactly one role assignment, got %d", len(profile.Roles))
	}
	if profile.Roles[0].RoleID != 7 {
		t.Errorf("expected role id 7, got %d", profile.Roles[0].RoleID)
	}
	if profile.Roles[0].AppID != 1 {
		t.Errorf("expected app id 1, got %d", profile.Roles[0].AppID)
	}
}

func TestProfileService_Reconcile_UpdatesExistingProfile(t *testing.T) {
	profiles := &profileRepoMock{
		byExternalID: map[string]domain.UserProfile{
			"ad-1": {UserID: 42, ADObjectID: "ad-1", DisplayName: "Old Name", Email: "old@x.com"},
		},
		byID: map[int64]domain.UserProfile{
			42: {UserID: 42, ADObjectID: "ad-1", DisplayName: "Old Name", Email: "old@x.com"},
		},
		roleNames: map[int64][]string{
			42: {"Mentor", "Student"},
		},
	}
	service := NewProfileService(profiles, studentRoleRepo(), "Student", 1, nil)

	inbound := domain.UserProfile{
		ADObjectID:  "ad-1",
		DisplayName: "Jane Doe",
		FirstName:   "Jane",
		LastName:    "Doe",
		Email:       "jane@x.com",
	}

	profile, roles, err := service.Reconcile(context.Background(), inbound)
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	if profile.UserID != 42 {
		t.Errorf("expected existing user id 42, got %d", profile.UserID)
	}
	if profile.DisplayName != "Jane Doe" || profile.Email != "jane@x.com" {
		t.Errorf("descriptive fields not overwritten: %+v", profile)
	}
	if len(roles) != 2 || roles[0] != "Mentor" || roles[1] != "Student" {
		t.Errorf("expected existing roles untouched [Mentor Student], got %v", roles)
	}
	if profiles.insertCalls != 0 {
		t.Errorf("expected no insert for existing identity, got %d", profiles.insertCalls)
	}
}

func TestProfileService_Reconcile_Idempotent(t *testing.T) {
	profiles := &profileRepoMock{}
	service := NewProfileService(profiles, studentRoleRepo(), "Student", 1, nil)

	inbound := domain.UserProfile{
		ADObjectID:  "ad-1",
		DisplayName: "Jane Doe",
		FirstName:   "Jane",
		LastName:    "Doe",
		Email:       "jane@x.com",
	}

	first, firstRoles, err := service.Reconcile(context.Background(), inbound)
	if err != nil {
		t.Fatalf("first Reconcile failed: %v", err)
	}

	second, secondRoles, err := service.Reconcile(context.Background(), inbound)
	if err != nil {
		t.Fatalf("second Reconcile failed: %v", err)
	}

	if first.UserID != second.UserID {
		t.Errorf("expected stable user id, got %d then %d", first.UserID, second.UserID)
	}
	if profiles.insertCalls != 1 {
		t.Errorf("expected a single insert across repeated payloads, got %d", profiles.insertCalls)
	}
	if len(firstRoles) != len(secondRoles) {
		t.Errorf("expected stable roles, got %v then %v", firstRoles, secondRoles)
	}
}

func TestProfileService_Reconcile_MissingExternalID(t *testing.T) {
	profiles := &profileRepoMock{}
	service := NewProfileService(profiles, studentRoleRepo(), "Student", 1, nil)

	_, _, err := service.Reconcile(context.Background(), domain.UserProfile{ADObjectID: "   "})
	if !errors.Is(err, ErrMissingExternalID) {
		t.Fatalf("expected ErrMissingExternalID, got %v", err)
	}
	if profiles.insertCalls != 0 || profiles.updateCalls != 0 {
		t.Error("expected no writes for invalid payload")
	}
}

func TestProfileService_Reconcile_DefaultRoleMissing(t *testing.T) {
	profiles := &profileRepoMock{}
	roles := &roleRepoMock{}
	service := NewProfileService(profiles, roles, "Student", 1, nil)

	_, _, err := service.Reconcile(context.Background(), domain.UserProfile{ADObjectID: "ad-1"})
	if !errors.Is(err, ErrDefaultRoleMissing) {
		t.Fatalf("expected ErrDefaultRoleMissing, got %v", err)
	}
	if profiles.insertCalls != 0 {
		t.Error("expected no insert when the default role is not provisioned")
	}
}

func TestProfileService_Reconcile_LookupError(t *testing.T) {
	lookupErr := errors.New("connection reset")
	profiles := &profileRepoMock{findErr: lookupErr}
	service := NewProfileService(profiles, studentRoleRepo(), "Student", 1, nil)

	_, _, err := service.Reconcile(context.Background(), domain.UserProfile{ADObjectID: "ad-1"})
	if !errors.Is(err, lookupErr) {
		t.Fatalf("expected wrapped lookup error, got %v", err)
	}
}
