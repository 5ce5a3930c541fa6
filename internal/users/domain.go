package users

import (
	"context"
	"time"
)

// Member is a user visible within a tenant, derived from role assignments.
type Member struct {
	ID    int64
	Email string
	Name  string
}

// Assignment is a user→role edge.
type Assignment struct {
	UserID    int64
	RoleID    int64
	CreatedAt time.Time
}

// RepositoryPort defines data access for user administration.
type RepositoryPort interface {
	// ListMembers returns the distinct users holding at least one role bound
	// to the tenant.
	ListMembers(ctx context.Context, tenantID int64, page, perPage int) ([]Member, int, error)
	Exists(ctx context.Context, userID int64) (bool, error)
	AssignRole(ctx context.Context, userID, roleID int64) error
}
