// Package rbac implements the tenant-scoped authorization core: membership,
// role-tenant binding, and permission resolution over the relational schema,
// composed into a fixed-order decision gate. Every check is fail-closed: a
// store error is indistinguishable from an explicit denial at this boundary.
package rbac

// PermissionRow is a permission record embedded in a joined query result.
type PermissionRow struct {
	ID          int64
	Key         string
	Description string
}

// RolePermissionRow is a role→permission edge. Permission is nil when the
// joined permission record is absent; traversal skips such edges.
type RolePermissionRow struct {
	PermissionID int64
	Permission   *PermissionRow
}

// RoleRow is a role with its permission edges embedded.
type RoleRow struct {
	ID          int64
	TenantID    int64
	Permissions []RolePermissionRow
}

// UserRoleRow is a user→role edge. Role is nil when the joined role record
// is absent; traversal skips such edges.
type UserRoleRow struct {
	RoleID int64
	Role   *RoleRow
}
