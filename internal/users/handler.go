package users

import (
	"errors"
	"fmt"
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

// Handler manages user administration endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	gate      *rbac.Gate
	rbac      rbac.Middleware
	recorder  *audit.Recorder
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, gate *rbac.Gate, mw rbac.Middleware, recorder *audit.Recorder) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:    logger,
		service:   service,
		gate:      gate,
		rbac:      mw,
		recorder:  recorder,
		validator: validator.New(),
	}
}

// MountRoutes registers user routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.rbac.RequirePermission(shared.PermUserRead)).Get("/", h.list)
	r.Post("/assign-role", h.assignRole)
}

type memberResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type memberListResponse struct {
	Users      []memberResponse `json:"users"`
	Page       int              `json:"page"`
	PerPage    int              `json:"perPage"`
	Total      int              `json:"total"`
	TotalPages int              `json:"totalPages"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	// The middleware already ran the gate for this tenant.
	tenantID, err := rbac.TenantIDFromRequest(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "missing or invalid tenantId parameter")
		return
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("perPage"))

	members, paging, err := h.service.ListMembers(r.Context(), tenantID, page, perPage)
	if err != nil {
		h.logger.Error("list members", slog.Int64("tenant_id", tenantID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := memberListResponse{
		Users:      make([]memberResponse, 0, len(members)),
		Page:       paging.Page,
		PerPage:    paging.PerPage,
		Total:      paging.Total,
		TotalPages: paging.TotalPages,
	}
	for _, m := range members {
		out.Users = append(out.Users, memberResponse{ID: m.ID, Email: m.Email, Name: m.Name})
	}
	httpx.JSON(w, http.StatusOK, out)
}

type assignRoleForm struct {
	TenantID     int64 `json:"tenantId" validate:"required,gt=0"`
	TargetUserID int64 `json:"targetUserId" validate:"required,gt=0"`
	RoleID       int64 `json:"roleId" validate:"required,gt=0"`
}

func (h *Handler) assignRole(w http.ResponseWriter, r *http.Request) {
	principal := shared.PrincipalFromContext(r.Context())
	if principal == nil {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	var form assignRoleForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "tenantId, targetUserId and roleId are required numeric ids")
		return
	}
	decision := h.gate.Authorize(r.Context(), rbac.Request{
		UserID:       principal.UserID,
		TenantID:     form.TenantID,
		Permission:   shared.PermUserAssignRole,
		TargetRoleID: form.RoleID,
	})
	if !decision.Allowed() {
		rbac.WriteDenial(w, decision, shared.PermUserAssignRole)
		return
	}
	if err := h.service.AssignRole(r.Context(), form.TargetUserID, form.RoleID); err != nil {
		if !errors.Is(err, shared.ErrNotFound) && !errors.Is(err, shared.ErrDuplicate) {
			h.logger.Error("assign role", slog.Int64("role_id", form.RoleID), slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	h.recorder.Record(r.Context(), audit.Event{
		ActorID: principal.UserID, TenantID: form.TenantID,
		Action: "user.assign_role", Entity: "user_role",
		EntityID: fmt.Sprintf("%d:%d", form.TargetUserID, form.RoleID),
	})
	httpx.JSON(w, http.StatusCreated, map[string]bool{"success": true})
}
