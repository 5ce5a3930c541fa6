package tenants

import "context"

// Tenant is an isolation boundary the principal can operate in.
type Tenant struct {
	ID   int64
	Name string
}

// RepositoryPort defines data access for tenant discovery.
type RepositoryPort interface {
	// ListForUser returns the distinct tenants reachable through the user's
	// role assignments.
	ListForUser(ctx context.Context, userID int64) ([]Tenant, error)
}
