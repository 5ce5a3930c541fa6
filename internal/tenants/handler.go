package tenants

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stratos-iam/stratos/internal/platform/httpx"
	"github.com/stratos-iam/stratos/internal/shared"
)

// Handler serves tenant discovery for the authenticated principal. No
// permission key applies here: membership itself is the filter, so the
// repository query can only ever surface tenants the caller belongs to.
type Handler struct {
	logger *slog.Logger
	repo   RepositoryPort
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, repo RepositoryPort) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, repo: repo}
}

// MountRoutes registers tenant routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
}

type tenantResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	principal := shared.PrincipalFromContext(r.Context())
	if principal == nil {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	list, err := h.repo.ListForUser(r.Context(), principal.UserID)
	if err != nil {
		h.logger.Error("list tenants", slog.Int64("user_id", principal.UserID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]tenantResponse, 0, len(list))
	for _, tenant := range list {
		out = append(out, tenantResponse{ID: tenant.ID, Name: tenant.Name})
	}
	httpx.JSON(w, http.StatusOK, out)
}
