package shared

// Permission keys consumed by the authorization gate. Keys are global;
// their assignment to roles is scoped through the role's tenant.
const (
	PermRoleRead   = "role.read"
	PermRoleCreate = "role.create"
	PermRoleUpdate = "role.update"
	PermRoleDelete = "role.delete"

	PermUserRead       = "user.read"
	PermUserAssignRole = "user.assign_role"

	PermPermissionRead   = "permission.read"
	PermPermissionAssign = "permission.assign"
)

// CoreScopes lists every permission key the platform declares.
func CoreScopes() []string {
	return []string{
		PermRoleRead,
		PermRoleCreate,
		PermRoleUpdate,
		PermRoleDelete,
		PermUserRead,
		PermUserAssignRole,
		PermPermissionRead,
		PermPermissionAssign,
	}
}
