package permissions

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/stratos-iam/stratos/internal/audit"
	"github.com/stratos-iam/stratos/internal/platform/httpx"
	"github.com/stratos-iam/stratos/internal/rbac"
	"github.com/stratos-iam/stratos/internal/shared"
)

// Handler manages permission catalog endpoints.
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

// MountRoutes registers permission routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/assign", h.assign)
}

type permissionResponse struct {
	ID          int64  `json:"id"`
	Key         string `json:"key"`
	Description string `json:"description,omitempty"`
}

// list returns the global catalog. Permissions are tenant-independent, so an
// authenticated principal is the only requirement here.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	if shared.PrincipalFromContext(r.Context()) == nil {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	perms, err := h.service.ListPermissions(r.Context())
	if err != nil {
		h.logger.Error("list permissions", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]permissionResponse, 0, len(perms))
	for _, p := range perms {
		out = append(out, permissionResponse{ID: p.ID, Key: p.Key, Description: p.Description})
	}
	httpx.JSON(w, http.StatusOK, out)
}

type assignForm struct {
	TenantID     int64 `json:"tenantId" validate:"required,gt=0"`
	RoleID       int64 `json:"roleId" validate:"required,gt=0"`
	PermissionID int64 `json:"permissionId" validate:"required,gt=0"`
}

func (h *Handler) assign(w http.ResponseWriter, r *http.Request) {
	principal := shared.PrincipalFromContext(r.Context())
	if principal == nil {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	var form assignForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "tenantId, roleId and permissionId are required numeric ids")
		return
	}
	decision := h.gate.Authorize(r.Context(), rbac.Request{
		UserID:       principal.UserID,
		TenantID:     form.TenantID,
		Permission:   shared.PermPermissionAssign,
		TargetRoleID: form.RoleID,
	})
	if !decision.Allowed() {
		rbac.WriteDenial(w, decision, shared.PermPermissionAssign)
		return
	}
	if err := h.service.AssignToRole(r.Context(), form.RoleID, form.PermissionID); err != nil {
		if !errors.Is(err, shared.ErrNotFound) && !errors.Is(err, shared.ErrDuplicate) {
			h.logger.Error("assign permission", slog.Int64("role_id", form.RoleID), slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	h.recorder.Record(r.Context(), audit.Event{
		ActorID: principal.UserID, TenantID: form.TenantID,
		Action: "permission.assign", Entity: "role_permission",
		EntityID: fmt.Sprintf("%d:%d", form.RoleID, form.PermissionID),
	})
	httpx.JSON(w, http.StatusCreated, map[string]bool{"success": true})
}
