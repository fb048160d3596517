package postgres

import (
	"context"
	"errors"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/skillstream/edu-notify/internal/core/domain"
	"github.com/skillstream/edu-notify/internal/core/port"
	"github.com/skillstream/edu-notify/internal/repository"
)

// ProfileRepository implements port.ProfileRepository using PostgreSQL.
type ProfileRepository struct {
	exec    pgExecutor
	tx      txStarter
	builder squirrel.StatementBuilderType
}

// NewProfileRepository constructs a repository backed by any executor that
// satisfies pgExecutor. Transactional inserts require the executor to also
// support Begin.
func NewProfileRepository(exec pgExecutor) *ProfileRepository {
	repo := &ProfileRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	if starter, ok := exec.(txStarter); ok {
		repo.tx = starter
	}
	return repo
}

// WithTx returns a repository instance operating within the supplied transaction.
func (r *ProfileRepository) WithTx(tx pgx.Tx) *ProfileRepository {
	if tx == nil {
		return r
	}
	return &ProfileRepository{
		exec:    tx,
		tx:      r.tx,
		builder: r.builder,
	}
}

const profileColumns = "user_id, ad_obj_id, display_name, first_name, last_name, email"

// FindByExternalID retrieves a profile by its AD object id, including role assignments.
func (r *ProfileRepository) FindByExternalID(ctx context.Context, adObjectID string) (*domain.UserProfile, error) {
	stmt, args, err := r.builder.
		Select("user_id", "ad_obj_id", "display_name", "first_name", "last_name", "email").
		From("edu.user_profile").
		Where(squirrel.Eq{"ad_obj_id": adObjectID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select profile by ad_obj_id sql: %w", err)
	}

	return r.fetchProfile(ctx, stmt, args)
}

// FindByID retrieves a profile by its store-assigned id, including role assignments.
func (r *ProfileRepository) FindByID(ctx context.Context, userID int64) (*domain.UserProfile, error) {
	stmt, args, err := r.builder.
		Select("user_id", "ad_obj_id", "display_name", "first_name", "last_name", "email").
		From("edu.user_profile").
		Where(squirrel.Eq{"user_id": userID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select profile by user_id sql: %w", err)
	}

	return r.fetchProfile(ctx, stmt, args)
}

func (r *ProfileRepository) fetchProfile(ctx context.Context, stmt string, args []any) (*domain.UserProfile, error) {
	row := r.exec.QueryRow(ctx, stmt, args...)

	var profile domain.UserProfile
	if err := row.Scan(
		&profile.UserID,
		&profile.ADObjectID,
		&profile.DisplayName,
		&profile.FirstName,
		&profile.LastName,
		&profile.Email,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan profile: %w", err)
	}

	assignments, err := r.listAssignments(ctx, profile.UserID)
	if err != nil {
		return nil, err
	}
	profile.Roles = assignments

	return &profile, nil
}

func (r *ProfileRepository) listAssignments(ctx context.Context, userID int64) ([]domain.RoleAssignment, error) {
	stmt, args, err := r.builder.
		Select("user_role_id", "user_id", "role_id", "smart_app_id").
		From("edu.user_role").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("user_role_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select role assignments sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query role assignments: %w", err)
	}
	defer rows.Close()

	var assignments []domain.RoleAssignment
	for rows.Next() {
		var assignment domain.RoleAssignment
		if err := rows.Scan(
			&assignment.UserRoleID,
			&assignment.UserID,
			&assignment.RoleID,
			&assignment.AppID,
		); err != nil {
			return nil, fmt.Errorf("scan role assignment: %w", err)
		}
		assignments = append(assignments, assignment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate role assignments: %w", err)
	}

	return assignments, nil
}

// Insert persists the profile and its role assignments atomically. The
// store-assigned user id is written back to the argument.
func (r *ProfileRepository) Insert(ctx context.Context, profile *domain.UserProfile) error {
	if r.tx == nil {
		return fmt.Errorf("profile insert requires a transactional executor")
	}

	tx, err := r.tx.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin profile insert: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	stmt, args, err := r.builder.Insert("edu.user_profile").
		Columns("ad_obj_id", "display_name", "first_name", "last_name", "email").
		Values(
			profile.ADObjectID,
			profile.DisplayName,
			profile.FirstName,
			profile.LastName,
			profile.Email,
		).
		Suffix("RETURNING user_id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert profile sql: %w", err)
	}

	if err := tx.QueryRow(ctx, stmt, args...).Scan(&profile.UserID); err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}

	for i := range profile.Roles {
		profile.Roles[i].UserID = profile.UserID

		stmt, args, err := r.builder.Insert("edu.user_role").
			Columns("user_id", "role_id", "smart_app_id").
			Values(profile.UserID, profile.Roles[i].RoleID, profile.Roles[i].AppID).
			Suffix("RETURNING user_role_id").
			ToSql()
		if err != nil {
			return fmt.Errorf("build insert role assignment sql: %w", err)
		}

		if err := tx.QueryRow(ctx, stmt, args...).Scan(&profile.Roles[i].UserRoleID); err != nil {
			return fmt.Errorf("insert role assignment: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit profile insert: %w", err)
	}

	return nil
}

// Update overwrites the descriptive fields of an existing profile. Role
// assignments are left untouched.
func (r *ProfileRepository) Update(ctx context.Context, profile domain.UserProfile) error {
	stmt, args, err := r.builder.Update("edu.user_profile").
		Set("display_name", profile.DisplayName).
		Set("first_name", profile.FirstName).
		Set("last_name", profile.LastName).
		Set("email", profile.Email).
		Where(squirrel.Eq{"user_id": profile.UserID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update profile sql: %w", err)
	}

	res, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// ListRoleNames returns the role names assigned to the user, resolved through
// the role join and ordered by name.
func (r *ProfileRepository) ListRoleNames(ctx context.Context, userID int64) ([]string, error) {
	stmt, args, err := r.builder.Select("r.role_name").
		From("edu.roles r").
		Join("edu.user_role ur ON ur.role_id = r.role_id").
		Where(squirrel.Eq{"ur.user_id": userID}).
		OrderBy("r.role_name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build role names sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query role names: %w", err)
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan role name: %w", err)
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate role names: %w", err)
	}

	return names, nil
}

var _ port.ProfileRepository = (*ProfileRepository)(nil)
