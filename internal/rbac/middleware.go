package rbac

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stratos-iam/stratos/internal/platform/httpx"
	"github.com/stratos-iam/stratos/internal/shared"
)

// Middleware wires the authorization gate in front of HTTP handlers.
type Middleware struct {
	Gate   *Gate
	Logger *slog.Logger
}

// RequirePermission guards a tenant-scoped route: it resolves the principal,
// validates the tenant id, and runs the gate pipeline for the given
// permission key. Handlers that also reference a target role run the gate
// themselves so the binding step is included.
func (m Middleware) RequirePermission(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := shared.PrincipalFromContext(r.Context())
			if principal == nil {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
				return
			}
			tenantID, err := TenantIDFromRequest(r)
			if err != nil {
				httpx.Problem(w, http.StatusBadRequest, "Bad Request", "missing or invalid tenantId parameter")
				return
			}
			decision := m.Gate.Authorize(r.Context(), Request{
				UserID:     principal.UserID,
				TenantID:   tenantID,
				Permission: permission,
			})
			if !decision.Allowed() {
				if m.Logger != nil {
					m.Logger.Info("request denied",
						slog.Int64("user_id", principal.UserID),
						slog.Int64("tenant_id", tenantID),
						slog.String("permission", permission),
						slog.String("decision", decision.String()))
				}
				WriteDenial(w, decision, permission)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// TenantIDFromRequest extracts the tenant id from the tenantID URL parameter
// or, failing that, the tenantId query parameter.
func TenantIDFromRequest(r *http.Request) (int64, error) {
	if raw := chi.URLParam(r, "tenantID"); raw != "" {
		return httpx.ParseID(raw)
	}
	return httpx.ParseID(r.URL.Query().Get("tenantId"))
}
