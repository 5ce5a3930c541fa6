package rbac

import (
	"context"
	"fmt"
	"net/http"

	"github.com/stratos-iam/stratos/internal/platform/httpx"
)

// Decision is the terminal state of the authorization pipeline.
type Decision int

const (
	// DecisionAllowed means every check passed.
	DecisionAllowed Decision = iota
	// DecisionNotMember means the user holds no role in the tenant.
	DecisionNotMember
	// DecisionMissingPermission means the user is a member but lacks the
	// required permission.
	DecisionMissingPermission
	// DecisionCrossTenantRole means the target role is not bound to the
	// tenant the caller is operating in.
	DecisionCrossTenantRole
)

// String returns a stable label, used for logs and metrics.
func (d Decision) String() string {
	switch d {
	case DecisionAllowed:
		return "allowed"
	case DecisionNotMember:
		return "not_member"
	case DecisionMissingPermission:
		return "missing_permission"
	case DecisionCrossTenantRole:
		return "cross_tenant_role"
	default:
		return "unknown"
	}
}

// Allowed reports whether the decision grants access.
func (d Decision) Allowed() bool {
	return d == DecisionAllowed
}

// Request carries the inputs of one authorization decision. TargetRoleID is
// zero when the operation does not reference a role; the binding check only
// runs when it is set.
type Request struct {
	UserID       int64
	TenantID     int64
	Permission   string
	TargetRoleID int64
}

// DecisionObserver receives the outcome of every evaluated request.
type DecisionObserver interface {
	ObserveDecision(decision string)
}

// Gate evaluates the fixed-order authorization pipeline:
// tenant membership, then permission, then (when a target role is named)
// role-tenant binding. It short-circuits on the first failing step and keeps
// no state between requests, so a revoked permission is observed by the very
// next call.
type Gate struct {
	checker  *Checker
	observer DecisionObserver
}

// NewGate constructs a Gate. observer may be nil.
func NewGate(checker *Checker, observer DecisionObserver) *Gate {
	return &Gate{checker: checker, observer: observer}
}

// Authorize runs the pipeline and returns the terminal decision.
//
// The membership check stays in place even though the permission query's
// tenant filter implies it: callers translate the two denials into distinct
// responses, and dropping either check would change that granularity.
func (g *Gate) Authorize(ctx context.Context, req Request) Decision {
	decision := g.evaluate(ctx, req)
	if g.observer != nil {
		g.observer.ObserveDecision(decision.String())
	}
	return decision
}

func (g *Gate) evaluate(ctx context.Context, req Request) Decision {
	if !g.checker.BelongsToTenant(ctx, req.UserID, req.TenantID) {
		return DecisionNotMember
	}
	if !g.checker.HasPermission(ctx, req.UserID, req.TenantID, req.Permission) {
		return DecisionMissingPermission
	}
	if req.TargetRoleID != 0 && !g.checker.RoleBelongsToTenant(ctx, req.TargetRoleID, req.TenantID) {
		return DecisionCrossTenantRole
	}
	return DecisionAllowed
}

// Checker exposes the underlying checks for callers that need a single
// question answered outside the full pipeline.
func (g *Gate) Checker() *Checker {
	return g.checker
}

// WriteDenial translates a non-allowed decision into the HTTP response the
// API contract promises: 403 for membership and permission denials, 400 for
// a cross-tenant role reference.
func WriteDenial(w http.ResponseWriter, d Decision, permission string) {
	switch d {
	case DecisionNotMember:
		httpx.Problem(w, http.StatusForbidden, "Access Denied", "user does not belong to this tenant")
	case DecisionMissingPermission:
		httpx.Problem(w, http.StatusForbidden, "Forbidden", fmt.Sprintf("missing %s permission", permission))
	case DecisionCrossTenantRole:
		httpx.Problem(w, http.StatusBadRequest, "Invalid Role", "role does not belong to the specified tenant")
	}
}
