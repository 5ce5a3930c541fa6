package identity

import (
	"context"
	"fmt"

	"github.com/stratos-iam/stratos/internal/shared"
)

// Service resolves bearer tokens to principals.
type Service struct {
	verifier TokenVerifier
	repo     RepositoryPort
}

// NewService builds a Service instance.
func NewService(verifier TokenVerifier, repo RepositoryPort) *Service {
	return &Service{verifier: verifier, repo: repo}
}

// Resolve verifies the token with the provider and maps the identity to the
// internal user row. An inactive user resolves to ErrUnknownIdentity, same
// as a missing row.
func (s *Service) Resolve(ctx context.Context, token string) (*shared.Principal, error) {
	ident, err := s.verifier.Verify(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("identity: verify token: %w", err)
	}
	user, err := s.repo.FindByAuthID(ctx, ident.AuthID)
	if err != nil {
		return nil, fmt.Errorf("identity: resolve %s: %w", ident.AuthID, err)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("identity: resolve %s: %w", ident.AuthID, shared.ErrUnknownIdentity)
	}
	return &shared.Principal{UserID: user.ID, AuthID: user.AuthID, Email: user.Email}, nil
}
