package rbac

import (
	"context"
	"errors"
	"log/slog"

	"github.com/stratos-iam/stratos/internal/shared"
)

// Checker answers the three authorization questions. All methods return a
// plain bool: a store failure is logged and reported as denial, never as an
// error. Callers needing to distinguish "denied" from "could not check" for
// monitoring should watch the logs, not the return value.
type Checker struct {
	store  Store
	logger *slog.Logger
}

// NewChecker constructs a Checker over the given store.
func NewChecker(store Store, logger *slog.Logger) *Checker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Checker{store: store, logger: logger}
}

// BelongsToTenant reports whether the user holds at least one role bound to
// the tenant. Membership is derived, not stored: no edge means no membership,
// and a non-existent tenant simply matches no rows.
func (c *Checker) BelongsToTenant(ctx context.Context, userID, tenantID int64) bool {
	ok, err := c.store.UserHasRoleInTenant(ctx, userID, tenantID)
	if err != nil {
		c.logger.Warn("tenant membership check failed",
			slog.Int64("user_id", userID),
			slog.Int64("tenant_id", tenantID),
			slog.Any("error", err))
		return false
	}
	return ok
}

// RoleBelongsToTenant reports whether the role's stored tenant id equals
// tenantID. A missing role, a store failure, and a mismatch all yield false.
func (c *Checker) RoleBelongsToTenant(ctx context.Context, roleID, tenantID int64) bool {
	stored, err := c.store.RoleTenant(ctx, roleID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			c.logger.Warn("role tenant check failed",
				slog.Int64("role_id", roleID),
				slog.Any("error", err))
		}
		return false
	}
	return stored == tenantID
}

// HasPermission reports whether any role the user holds in the tenant carries
// a permission whose key equals key. This is a set-membership test: traversal
// order is irrelevant and there is no precedence or deny-override. Nested
// records that came back nil are skipped as if empty. No membership check is
// performed here; a user with no role in the tenant sees an empty set.
func (c *Checker) HasPermission(ctx context.Context, userID, tenantID int64, key string) bool {
	if key == "" {
		return false
	}
	edges, err := c.store.UserRolesInTenant(ctx, userID, tenantID)
	if err != nil {
		c.logger.Warn("permission resolution failed",
			slog.Int64("user_id", userID),
			slog.Int64("tenant_id", tenantID),
			slog.String("permission", key),
			slog.Any("error", err))
		return false
	}
	for _, edge := range edges {
		if edge.Role == nil {
			continue
		}
		for _, rp := range edge.Role.Permissions {
			if rp.Permission != nil && rp.Permission.Key == key {
				return true
			}
		}
	}
	return false
}
