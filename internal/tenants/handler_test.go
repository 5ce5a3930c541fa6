package tenants

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratos-iam/stratos/internal/shared"
)

type stubRepo struct {
	byUser map[int64][]Tenant
	err    error
}

func (s *stubRepo) ListForUser(ctx context.Context, userID int64) ([]Tenant, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.byUser[userID], nil
}

func newTestRouter(repo RepositoryPort) http.Handler {
	handler := NewHandler(nil, repo)
	r := chi.NewRouter()
	r.Route("/tenants", handler.MountRoutes)
	return r
}

func TestListTenantsRequiresAuth(t *testing.T) {
	router := newTestRouter(&stubRepo{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tenants", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListTenantsScopedToPrincipal(t *testing.T) {
	repo := &stubRepo{byUser: map[int64][]Tenant{
		1: {{ID: 1, Name: "Acme"}, {ID: 2, Name: "Globex"}},
	}}
	router := newTestRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/tenants", nil)
	req = req.WithContext(shared.ContextWithPrincipal(req.Context(), &shared.Principal{UserID: 1}))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Acme")
	assert.Contains(t, rec.Body.String(), "Globex")

	// A user with no role edges sees an empty list, not an error.
	req = httptest.NewRequest(http.MethodGet, "/tenants", nil)
	req = req.WithContext(shared.ContextWithPrincipal(req.Context(), &shared.Principal{UserID: 3}))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestListTenantsRepoError(t *testing.T) {
	router := newTestRouter(&stubRepo{err: errors.New("db down")})

	req := httptest.NewRequest(http.MethodGet, "/tenants", nil)
	req = req.WithContext(shared.ContextWithPrincipal(req.Context(), &shared.Principal{UserID: 1}))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
