package identity

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stratos-iam/stratos/internal/shared"
)

// Repository provides PostgreSQL backed identity lookup.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// FindByAuthID fetches the user row for a provider identity.
func (r *Repository) FindByAuthID(ctx context.Context, authID string) (*User, error) {
	var user User
	err := r.pool.QueryRow(ctx, `
		SELECT id, auth_id, email, name, is_active, created_at, updated_at
		FROM users WHERE auth_id = $1`, authID).
		Scan(&user.ID, &user.AuthID, &user.Email, &user.Name, &user.IsActive, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrUnknownIdentity
		}
		return nil, err
	}
	return &user, nil
}

// UpsertUser mirrors a directory account into users. The auth_id conflict
// target keeps the internal id stable across syncs.
func (r *Repository) UpsertUser(ctx context.Context, user DirectoryUser) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (auth_id, email, name, is_active)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (auth_id) DO UPDATE
		SET email = EXCLUDED.email, name = EXCLUDED.name, is_active = EXCLUDED.is_active, updated_at = now()`,
		user.AuthID, user.Email, user.Name, user.Active)
	return err
}
