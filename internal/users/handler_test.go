package users

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
	members  map[int64][]Member // keyed by tenant
	users    map[int64]bool
	assigned map[[2]int64]bool
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		members:  make(map[int64][]Member),
		users:    make(map[int64]bool),
		assigned: make(map[[2]int64]bool),
	}
}

func (m *mockRepository) ListMembers(ctx context.Context, tenantID int64, page, perPage int) ([]Member, int, error) {
	list := m.members[tenantID]
	return list, len(list), nil
}

func (m *mockRepository) Exists(ctx context.Context, userID int64) (bool, error) {
	return m.users[userID], nil
}

func (m *mockRepository) AssignRole(ctx context.Context, userID, roleID int64) error {
	key := [2]int64{userID, roleID}
	if m.assigned[key] {
		return shared.ErrDuplicate
	}
	m.assigned[key] = true
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

func newAuthzStoreWithAdmin(userID, tenantID int64) *fakeAuthzStore {
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
			{PermissionID: 1, Permission: &rbac.PermissionRow{ID: 1, Key: shared.PermUserRead}},
			{PermissionID: 2, Permission: &rbac.PermissionRow{ID: 2, Key: shared.PermUserAssignRole}},
		},
	}}}
	return store
}

func newTestRouter(repo RepositoryPort, store rbac.Store) http.Handler {
	gate := rbac.NewGate(rbac.NewChecker(store, nil), nil)
	handler := NewHandler(nil, NewService(repo), gate, rbac.Middleware{Gate: gate}, nil)
	r := chi.NewRouter()
	r.Route("/users", handler.MountRoutes)
	return r
}

func TestListMembersGate(t *testing.T) {
	store := newAuthzStoreWithAdmin(1, 1)
	repo := newMockRepository()
	repo.members[1] = []Member{{ID: 3, Email: "member@test.local"}}
	router := newTestRouter(repo, store)

	t.Run("member with permission", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/users?tenantId=1", nil)
		req = req.WithContext(shared.ContextWithPrincipal(req.Context(), &shared.Principal{UserID: 1}))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "member@test.local")
	})

	t.Run("outsider denied", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/users?tenantId=2", nil)
		req = req.WithContext(shared.ContextWithPrincipal(req.Context(), &shared.Principal{UserID: 1}))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/users?tenantId=1", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func assignRequest(router http.Handler, body string, principal *shared.Principal) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/users/assign-role", strings.NewReader(body))
	if principal != nil {
		req = req.WithContext(shared.ContextWithPrincipal(req.Context(), principal))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAssignRoleValidation(t *testing.T) {
	router := newTestRouter(newMockRepository(), newAuthzStoreWithAdmin(1, 1))

	rec := assignRequest(router, `{"tenantId":1,"roleId":5}`, &shared.Principal{UserID: 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAssignRoleCrossTenant(t *testing.T) {
	store := newAuthzStoreWithAdmin(1, 1)
	store.roleTenant[5] = 2
	repo := newMockRepository()
	repo.users[3] = true
	router := newTestRouter(repo, store)

	rec := assignRequest(router, `{"tenantId":1,"targetUserId":3,"roleId":5}`, &shared.Principal{UserID: 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "does not belong")
}

func TestAssignRoleTargetUserMissing(t *testing.T) {
	store := newAuthzStoreWithAdmin(1, 1)
	store.roleTenant[5] = 1
	router := newTestRouter(newMockRepository(), store)

	rec := assignRequest(router, `{"tenantId":1,"targetUserId":3,"roleId":5}`, &shared.Principal{UserID: 1})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAssignRoleFlow(t *testing.T) {
	store := newAuthzStoreWithAdmin(1, 1)
	store.roleTenant[5] = 1
	repo := newMockRepository()
	repo.users[3] = true
	router := newTestRouter(repo, store)

	rec := assignRequest(router, `{"tenantId":1,"targetUserId":3,"roleId":5}`, &shared.Principal{UserID: 1})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = assignRequest(router, `{"tenantId":1,"targetUserId":3,"roleId":5}`, &shared.Principal{UserID: 1})
	assert.Equal(t, http.StatusConflict, rec.Code)
}
