package audit

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store persists audit events from the worker side.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore constructs a Store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Insert writes one event to audit_log.
func (s *Store) Insert(ctx context.Context, event Event) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO audit_log (id, actor_id, tenant_id, action, entity, entity_id, at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING`,
		event.ID, event.ActorID, event.TenantID, event.Action, event.Entity, event.EntityID, event.At)
	return err
}
