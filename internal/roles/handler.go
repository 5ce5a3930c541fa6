package roles

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/stratos-iam/stratos/internal/audit"
	"github.com/stratos-iam/stratos/internal/platform/httpx"
	"github.com/stratos-iam/stratos/internal/rbac"
	"github.com/stratos-iam/stratos/internal/shared"
)

// Handler manages role administration endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	gate      *rbac.Gate
	recorder  *audit.Recorder
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, gate *rbac.Gate, recorder *audit.Recorder) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:    logger,
		service:   service,
		gate:      gate,
		recorder:  recorder,
		validator: validator.New(),
	}
}

// MountRoutes registers role routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Put("/{roleID}", h.update)
	r.Delete("/{roleID}", h.delete)
	r.Get("/{roleID}/permissions", h.listPermissions)
}

type roleResponse struct {
	ID          int64  `json:"id"`
	TenantID    int64  `json:"tenantId"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type permissionResponse struct {
	ID          int64  `json:"id"`
	Key         string `json:"key"`
	Description string `json:"description,omitempty"`
}

type roleForm struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	principal := shared.PrincipalFromContext(r.Context())
	if principal == nil {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	tenantID, err := rbac.TenantIDFromRequest(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "missing or invalid tenantId parameter")
		return
	}
	decision := h.gate.Authorize(r.Context(), rbac.Request{
		UserID: principal.UserID, TenantID: tenantID, Permission: shared.PermRoleRead,
	})
	if !decision.Allowed() {
		rbac.WriteDenial(w, decision, shared.PermRoleRead)
		return
	}
	list, err := h.service.ListRoles(r.Context(), tenantID)
	if err != nil {
		h.logger.Error("list roles", slog.Int64("tenant_id", tenantID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toRoleResponses(list))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	principal := shared.PrincipalFromContext(r.Context())
	if principal == nil {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	tenantID, err := rbac.TenantIDFromRequest(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "missing or invalid tenantId parameter")
		return
	}
	var form roleForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "missing or invalid role name")
		return
	}
	decision := h.gate.Authorize(r.Context(), rbac.Request{
		UserID: principal.UserID, TenantID: tenantID, Permission: shared.PermRoleCreate,
	})
	if !decision.Allowed() {
		rbac.WriteDenial(w, decision, shared.PermRoleCreate)
		return
	}
	role, err := h.service.CreateRole(r.Context(), tenantID, form.Name, form.Description)
	if err != nil {
		if !errors.Is(err, shared.ErrDuplicate) {
			h.logger.Error("create role", slog.Int64("tenant_id", tenantID), slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	h.recorder.Record(r.Context(), audit.Event{
		ActorID: principal.UserID, TenantID: tenantID,
		Action: "role.create", Entity: "role", EntityID: strconv.FormatInt(role.ID, 10),
	})
	httpx.JSON(w, http.StatusCreated, toRoleResponse(role))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	principal, role, ok := h.loadForMutation(w, r, shared.PermRoleUpdate)
	if !ok {
		return
	}
	var form roleForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "missing or invalid role name")
		return
	}
	updated, err := h.service.UpdateRole(r.Context(), role, form.Name, form.Description)
	if err != nil {
		if !errors.Is(err, shared.ErrDuplicate) && !errors.Is(err, shared.ErrNotFound) {
			h.logger.Error("update role", slog.Int64("role_id", role.ID), slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	h.recorder.Record(r.Context(), audit.Event{
		ActorID: principal.UserID, TenantID: role.TenantID,
		Action: "role.update", Entity: "role", EntityID: strconv.FormatInt(role.ID, 10),
	})
	httpx.JSON(w, http.StatusOK, toRoleResponse(updated))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	principal, role, ok := h.loadForMutation(w, r, shared.PermRoleDelete)
	if !ok {
		return
	}
	if err := h.service.DeleteRole(r.Context(), role.ID); err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			h.logger.Error("delete role", slog.Int64("role_id", role.ID), slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	h.recorder.Record(r.Context(), audit.Event{
		ActorID: principal.UserID, TenantID: role.TenantID,
		Action: "role.delete", Entity: "role", EntityID: strconv.FormatInt(role.ID, 10),
	})
	httpx.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) listPermissions(w http.ResponseWriter, r *http.Request) {
	_, role, ok := h.loadForMutation(w, r, shared.PermRoleRead)
	if !ok {
		return
	}
	perms, err := h.service.RolePermissions(r.Context(), role.ID)
	if err != nil {
		h.logger.Error("list role permissions", slog.Int64("role_id", role.ID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]permissionResponse, 0, len(perms))
	for _, p := range perms {
		out = append(out, permissionResponse{ID: p.ID, Key: p.Key, Description: p.Description})
	}
	httpx.JSON(w, http.StatusOK, out)
}

// loadForMutation resolves the target role from the URL, derives the tenant
// from the role row itself, and runs the gate against that tenant. Deriving
// the tenant from the role keeps a caller from steering the check toward a
// tenant the role does not belong to.
func (h *Handler) loadForMutation(w http.ResponseWriter, r *http.Request, permission string) (*shared.Principal, Role, bool) {
	principal := shared.PrincipalFromContext(r.Context())
	if principal == nil {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return nil, Role{}, false
	}
	roleID, err := httpx.ParseID(chi.URLParam(r, "roleID"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "missing or invalid role id")
		return nil, Role{}, false
	}
	role, err := h.service.GetRole(r.Context(), roleID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			h.logger.Error("load role", slog.Int64("role_id", roleID), slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return nil, Role{}, false
	}
	decision := h.gate.Authorize(r.Context(), rbac.Request{
		UserID: principal.UserID, TenantID: role.TenantID, Permission: permission,
	})
	if !decision.Allowed() {
		rbac.WriteDenial(w, decision, permission)
		return nil, Role{}, false
	}
	return principal, role, true
}

func toRoleResponse(role Role) roleResponse {
	return roleResponse{ID: role.ID, TenantID: role.TenantID, Name: role.Name, Description: role.Description}
}

func toRoleResponses(list []Role) []roleResponse {
	out := make([]roleResponse, 0, len(list))
	for _, role := range list {
		out = append(out, toRoleResponse(role))
	}
	return out
}
