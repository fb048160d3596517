package postgres

import "github.com/jackc/pgx/v5/pgxpool"

// Repositories groups concrete PostgreSQL repository implementations.
type Repositories struct {
	Profiles *ProfileRepository
	Roles    *RoleRepository
	Requests *RequestRepository
}

// NewRepositories wires all repositories backed by the provided pool.
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Profiles: NewProfileRepository(pool),
		Roles:    NewRoleRepository(pool),
		Requests: NewRequestRepository(pool),
	}
}
