package tenants

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListForUser returns the distinct tenants behind the user's role edges.
func (r *Repository) ListForUser(ctx context.Context, userID int64) ([]Tenant, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT t.id, t.name
		FROM user_roles ur
		JOIN roles ro ON ro.id = ur.role_id
		JOIN tenants t ON t.id = ro.tenant_id
		WHERE ur.user_id = $1
		ORDER BY t.name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []Tenant
	for rows.Next() {
		var tenant Tenant
		if err := rows.Scan(&tenant.ID, &tenant.Name); err != nil {
			return nil, err
		}
		list = append(list, tenant)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}
