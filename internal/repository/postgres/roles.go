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

// RoleRepository implements read-only role lookups against PostgreSQL.
type RoleRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewRoleRepository constructs a PostgreSQL-backed role repository.
func NewRoleRepository(exec pgExecutor) *RoleRepository {
	return &RoleRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetByName retrieves a role by its unique name.
func (r *RoleRepository) GetByName(ctx context.Context, name string) (*domain.Role, error) {
	stmt, args, err := r.builder.Select("role_id", "role_name").
		From("edu.roles").
		Where(squirrel.Eq{"role_name": name}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select role by name sql: %w", err)
	}

	row := r.exec.QueryRow(ctx, stmt, args...)

	var role domain.Role
	if err := row.Scan(&role.RoleID, &role.RoleName); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan role by name: %w", err)
	}

	return &role, nil
}

var _ port.RoleRepository = (*RoleRepository)(nil)
