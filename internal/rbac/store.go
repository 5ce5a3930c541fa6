package rbac

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stratos-iam/stratos/internal/shared"
)

// Store is the read-only query surface the checks run against. The checks
// never write; administrative mutations live in their own modules.
type Store interface {
	// UserHasRoleInTenant reports whether at least one user_roles edge points
	// at a role bound to the tenant.
	UserHasRoleInTenant(ctx context.Context, userID, tenantID int64) (bool, error)
	// UserRolesInTenant returns the user's role edges filtered to roles bound
	// to the tenant, each role expanded with its permission edges.
	UserRolesInTenant(ctx context.Context, userID, tenantID int64) ([]UserRoleRow, error)
	// RoleTenant returns the stored tenant id of a role, or shared.ErrNotFound.
	RoleTenant(ctx context.Context, roleID int64) (int64, error)
}

// Repository provides PostgreSQL backed read access to the RBAC relations.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// UserHasRoleInTenant runs an EXISTS probe over user_roles joined to roles.
func (r *Repository) UserHasRoleInTenant(ctx context.Context, userID, tenantID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM user_roles ur
			JOIN roles ro ON ro.id = ur.role_id
			WHERE ur.user_id = $1 AND ro.tenant_id = $2
		)`, userID, tenantID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// UserRolesInTenant fetches the user's roles in the tenant with permission
// edges embedded. Roles without permission edges come back with an empty
// edge list; a dangling role_permissions row yields an edge with a nil
// Permission.
func (r *Repository) UserRolesInTenant(ctx context.Context, userID, tenantID int64) ([]UserRoleRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT ur.role_id, ro.id, ro.tenant_id, rp.permission_id, p.id, p.key, p.description
		FROM user_roles ur
		JOIN roles ro ON ro.id = ur.role_id
		LEFT JOIN role_permissions rp ON rp.role_id = ro.id
		LEFT JOIN permissions p ON p.id = rp.permission_id
		WHERE ur.user_id = $1 AND ro.tenant_id = $2
		ORDER BY ur.role_id`, userID, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byRole := make(map[int64]*RoleRow)
	var order []int64
	for rows.Next() {
		var (
			roleID       int64
			roID         int64
			roTenantID   int64
			permEdgeID   *int64
			permID       *int64
			permKey      *string
			permDesc     *string
		)
		if err := rows.Scan(&roleID, &roID, &roTenantID, &permEdgeID, &permID, &permKey, &permDesc); err != nil {
			return nil, err
		}
		role, ok := byRole[roleID]
		if !ok {
			role = &RoleRow{ID: roID, TenantID: roTenantID}
			byRole[roleID] = role
			order = append(order, roleID)
		}
		if permEdgeID == nil {
			continue
		}
		edge := RolePermissionRow{PermissionID: *permEdgeID}
		if permID != nil && permKey != nil {
			desc := ""
			if permDesc != nil {
				desc = *permDesc
			}
			edge.Permission = &PermissionRow{ID: *permID, Key: *permKey, Description: desc}
		}
		role.Permissions = append(role.Permissions, edge)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := make([]UserRoleRow, 0, len(order))
	for _, id := range order {
		result = append(result, UserRoleRow{RoleID: id, Role: byRole[id]})
	}
	return result, nil
}

// RoleTenant fetches the owning tenant of a role.
func (r *Repository) RoleTenant(ctx context.Context, roleID int64) (int64, error) {
	var tenantID int64
	err := r.pool.QueryRow(ctx, `SELECT tenant_id FROM roles WHERE id = $1`, roleID).Scan(&tenantID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, shared.ErrNotFound
		}
		return 0, err
	}
	return tenantID, nil
}
