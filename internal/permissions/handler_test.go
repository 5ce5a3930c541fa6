package permissions

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratos-iam/stratos/internal/rbac"
	"github.com/stratos-iam/stratos/internal/shared"
)

type mockRepository struct {
	catalog  map[int64]Permission
	attached map[[2]int64]bool
	listErr  error
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		catalog:  make(map[int64]Permission),
		attached: make(map[[2]int64]bool),
	}
}

func (m *mockRepository) List(ctx context.Context) ([]Permission, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []Permission
	for _, p := range m.catalog {
		out = append(out, p)
	}
	return out, nil
}

func (m *mockRepository) Exists(ctx context.Context, id int64) (bool, error) {
	_, ok := m.catalog[id]
	return ok, nil
}

func (m *mockRepository) AttachToRole(ctx context.Context, roleID, permissionID int64) error {
	key := [2]int64{roleID, permissionID}
	if m.attached[key] {
		return shared.ErrDuplicate
	}
	m.attached[key] = true
	return nil
}

type fakeAuthzStore struct {
	membership map[[2]int64]bool
	edges      map[[2]int64][]rbac.UserRoleRow
	roleTenant map[int64]int64
}

func (f *fakeAuthzStore) UserHasRoleInTenant(ctx context.Context, userID, tenantID int64) (bool, error) {
	return f.membership[[2]int64{userID, tenantID}], nil
}

func (f *fakeAuthzStore) UserRolesInTenant(ctx context.Context, userID, tenantID int64) ([]rbac.UserRoleRow, error) {
	return f.edges[[2]int64{userID, tenantID}], nil
}

func (f *fakeAuthzStore) RoleTenant(ctx context.Context, roleID int64) (int64, error) {
	tenantID, ok := f.roleTenant[roleID]
	if !ok {
		return 0, shared.ErrNotFound
	}
	return tenantID, nil
}

func newAuthzStoreWithAssigner(userID, tenantID int64) *fakeAuthzStore {
	store := &fakeAuthzStore{
		membership: make(map[[2]int64]bool),
		edges:      make(map[[2]int64][]rbac.UserRoleRow),
		roleTenant: make(map[int64]int64),
	}
	key := [2]int64{userID, tenantID}
	store.membership[key] = true
	store.edges[key] = []rbac.UserRoleRow{{RoleID: 1, Role: &rbac.RoleRow{
		ID: 1, TenantID: tenantID,
		Permissions: []rbac.RolePermissionRow{
			{PermissionID: 1, Permission: &rbac.PermissionRow{ID: 1, Key: shared.PermPermissionAssign}},
		},
	}}}
	return store
}

func newTestRouter(repo RepositoryPort, store rbac.Store) http.Handler {
	gate := rbac.NewGate(rbac.NewChecker(store, nil), nil)
	handler := NewHandler(nil, NewService(repo), gate, nil)
	r := chi.NewRouter()
	r.Route("/permissions", handler.MountRoutes)
	return r
}

func post(router http.Handler, body string, principal *shared.Principal) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/permissions/assign", strings.NewReader(body))
	if principal != nil {
		req = req.WithContext(shared.ContextWithPrincipal(req.Context(), principal))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestListCatalogRequiresAuth(t *testing.T) {
	router := newTestRouter(newMockRepository(), newAuthzStoreWithAssigner(1, 1))

	req := httptest.NewRequest(http.MethodGet, "/permissions", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListCatalog(t *testing.T) {
	repo := newMockRepository()
	repo.catalog[1] = Permission{ID: 1, Key: "role.read"}
	router := newTestRouter(repo, newAuthzStoreWithAssigner(1, 1))

	req := httptest.NewRequest(http.MethodGet, "/permissions", nil)
	req = req.WithContext(shared.ContextWithPrincipal(req.Context(), &shared.Principal{UserID: 1}))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "role.read")
}

func TestAssignValidation(t *testing.T) {
	router := newTestRouter(newMockRepository(), newAuthzStoreWithAssigner(1, 1))

	for _, body := range []string{
		`{}`,
		`{"tenantId":1,"roleId":5}`,
		`{"tenantId":"one","roleId":5,"permissionId":2}`,
	} {
		rec := post(router, body, &shared.Principal{UserID: 1})
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %s", body)
	}
}

func TestAssignCrossTenantRoleRejected(t *testing.T) {
	store := newAuthzStoreWithAssigner(1, 1)
	store.roleTenant[5] = 2 // role bound elsewhere
	router := newTestRouter(newMockRepository(), store)

	rec := post(router, `{"tenantId":1,"roleId":5,"permissionId":2}`, &shared.Principal{UserID: 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "does not belong")
}

func TestAssignUnknownPermission(t *testing.T) {
	store := newAuthzStoreWithAssigner(1, 1)
	store.roleTenant[5] = 1
	router := newTestRouter(newMockRepository(), store)

	rec := post(router, `{"tenantId":1,"roleId":5,"permissionId":2}`, &shared.Principal{UserID: 1})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAssignDuplicate(t *testing.T) {
	store := newAuthzStoreWithAssigner(1, 1)
	store.roleTenant[5] = 1
	repo := newMockRepository()
	repo.catalog[2] = Permission{ID: 2, Key: "role.update"}
	router := newTestRouter(repo, store)

	rec := post(router, `{"tenantId":1,"roleId":5,"permissionId":2}`, &shared.Principal{UserID: 1})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = post(router, `{"tenantId":1,"roleId":5,"permissionId":2}`, &shared.Principal{UserID: 1})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAssignDeniedWithoutPermission(t *testing.T) {
	store := newAuthzStoreWithAssigner(1, 1)
	store.roleTenant[5] = 1
	// Member of tenant 2 with no permissions there.
	store.membership[[2]int64{2, 1}] = true
	repo := newMockRepository()
	repo.catalog[2] = Permission{ID: 2, Key: "role.update"}
	router := newTestRouter(repo, store)

	rec := post(router, `{"tenantId":1,"roleId":5,"permissionId":2}`, &shared.Principal{UserID: 2})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
