package permissions

import (
	"context"
	"time"
)

// Permission is a global capability. Keys are unique and tenant-independent;
// only the assignment to a role is tenant-scoped, through the role.
type Permission struct {
	ID          int64
	Key         string
	Description string
	CreatedAt   time.Time
}

// RepositoryPort defines data access for the permission catalog.
type RepositoryPort interface {
	List(ctx context.Context) ([]Permission, error)
	Exists(ctx context.Context, id int64) (bool, error)
	AttachToRole(ctx context.Context, roleID, permissionID int64) error
}
