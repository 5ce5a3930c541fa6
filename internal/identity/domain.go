// Package identity resolves bearer tokens to internal user identities.
// Token issuance and verification belong to an external identity provider;
// this package only maps a verified provider identity onto the users table
// via the immutable auth_id column.
package identity

import (
	"context"
	"time"
)

// User is the internal identity row behind a provider identity.
type User struct {
	ID        int64
	AuthID    string
	Email     string
	Name      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Identity is the result of provider-side token verification.
type Identity struct {
	AuthID string
	Email  string
}

// TokenVerifier verifies a bearer token with the identity provider.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

// RepositoryPort defines data access for identity resolution.
type RepositoryPort interface {
	FindByAuthID(ctx context.Context, authID string) (*User, error)
}
