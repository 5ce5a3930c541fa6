package users

import (
	"context"
	"fmt"

	"github.com/stratos-iam/stratos/internal/shared"
)

// Service handles user administration logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// ListMembers returns one page of the tenant's members.
func (s *Service) ListMembers(ctx context.Context, tenantID int64, page, perPage int) ([]Member, shared.Pagination, error) {
	members, total, err := s.repo.ListMembers(ctx, tenantID, page, perPage)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return members, shared.NewPagination(page, perPage, total), nil
}

// AssignRole attaches a role to a user. The caller has already established
// that the role belongs to the acting tenant.
func (s *Service) AssignRole(ctx context.Context, targetUserID, roleID int64) error {
	exists, err := s.repo.Exists(ctx, targetUserID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("users: id %d: %w", targetUserID, shared.ErrNotFound)
	}
	if err := s.repo.AssignRole(ctx, targetUserID, roleID); err != nil {
		return fmt.Errorf("users: assign role %d to %d: %w", roleID, targetUserID, err)
	}
	return nil
}
