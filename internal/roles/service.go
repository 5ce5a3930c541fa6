package roles

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/stratos-iam/stratos/internal/shared"
)

// Service handles role administration business logic. Authorization happens
// before the service is reached; methods here assume the gate already passed.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// ListRoles returns the tenant's roles.
func (s *Service) ListRoles(ctx context.Context, tenantID int64) ([]Role, error) {
	return s.repo.ListByTenant(ctx, tenantID)
}

// GetRole fetches a role by id.
func (s *Service) GetRole(ctx context.Context, id int64) (Role, error) {
	return s.repo.Get(ctx, id)
}

// CreateRole inserts a role with a tenant-unique name.
func (s *Service) CreateRole(ctx context.Context, tenantID int64, name, description string) (Role, error) {
	name, err := normalizeName(name)
	if err != nil {
		return Role{}, err
	}
	taken, err := s.repo.NameTaken(ctx, tenantID, name, 0)
	if err != nil {
		return Role{}, err
	}
	if taken {
		return Role{}, fmt.Errorf("roles: name %q in tenant %d: %w", name, tenantID, shared.ErrDuplicate)
	}
	return s.repo.Create(ctx, tenantID, name, strings.TrimSpace(description))
}

// UpdateRole renames a role, keeping the name unique within its tenant.
func (s *Service) UpdateRole(ctx context.Context, role Role, name, description string) (Role, error) {
	name, err := normalizeName(name)
	if err != nil {
		return Role{}, err
	}
	taken, err := s.repo.NameTaken(ctx, role.TenantID, name, role.ID)
	if err != nil {
		return Role{}, err
	}
	if taken {
		return Role{}, fmt.Errorf("roles: name %q in tenant %d: %w", name, role.TenantID, shared.ErrDuplicate)
	}
	return s.repo.Update(ctx, role.ID, name, strings.TrimSpace(description))
}

// DeleteRole removes a role and its edges.
func (s *Service) DeleteRole(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// RolePermissions returns the permissions attached to a role.
func (s *Service) RolePermissions(ctx context.Context, roleID int64) ([]PermissionRef, error) {
	return s.repo.Permissions(ctx, roleID)
}

// normalizeName trims and NFC-normalizes a user-supplied role name so the
// tenant-uniqueness comparison is not defeated by equivalent compositions.
func normalizeName(name string) (string, error) {
	name = norm.NFC.String(strings.TrimSpace(name))
	if name == "" {
		return "", errors.New("roles: role name required")
	}
	return name, nil
}
