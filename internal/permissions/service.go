package permissions

import (
	"context"
	"fmt"

	"github.com/stratos-iam/stratos/internal/shared"
)

// Service handles permission catalog logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// ListPermissions returns the global catalog.
func (s *Service) ListPermissions(ctx context.Context) ([]Permission, error) {
	return s.repo.List(ctx)
}

// AssignToRole attaches a catalog permission to a role. The caller has
// already established that the role belongs to the acting tenant.
func (s *Service) AssignToRole(ctx context.Context, roleID, permissionID int64) error {
	exists, err := s.repo.Exists(ctx, permissionID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("permissions: id %d: %w", permissionID, shared.ErrNotFound)
	}
	if err := s.repo.AttachToRole(ctx, roleID, permissionID); err != nil {
		return fmt.Errorf("permissions: attach %d to role %d: %w", permissionID, roleID, err)
	}
	return nil
}
