package roles

import (
	"context"
	"time"
)

// Role is a named permission bundle owned by exactly one tenant.
type Role struct {
	ID          int64
	TenantID    int64
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PermissionRef is a permission attached to a role.
type PermissionRef struct {
	ID          int64
	Key         string
	Description string
}

// RepositoryPort defines data access methods for role administration.
type RepositoryPort interface {
	ListByTenant(ctx context.Context, tenantID int64) ([]Role, error)
	Get(ctx context.Context, id int64) (Role, error)
	NameTaken(ctx context.Context, tenantID int64, name string, excludeID int64) (bool, error)
	Create(ctx context.Context, tenantID int64, name, description string) (Role, error)
	Update(ctx context.Context, id int64, name, description string) (Role, error)
	Delete(ctx context.Context, id int64) error
	Permissions(ctx context.Context, roleID int64) ([]PermissionRef, error)
}
