package identity

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// DirectoryUser is a provisioned account as the identity provider reports it.
type DirectoryUser struct {
	AuthID string
	Email  string
	Name   string
	Active bool
}

// Directory lists provisioned accounts at the identity provider.
type Directory interface {
	ListUsers(ctx context.Context) ([]DirectoryUser, error)
}

// SyncRepositoryPort defines the write access the syncer needs.
type SyncRepositoryPort interface {
	UpsertUser(ctx context.Context, user DirectoryUser) error
}

// Syncer mirrors provider accounts into the users table so authorization can
// key on the internal numeric id. auth_id is the conflict target: once a row
// exists its internal id never changes.
type Syncer struct {
	directory Directory
	repo      SyncRepositoryPort
	logger    *slog.Logger
	workers   int
}

// NewSyncer builds a Syncer. workers bounds the upsert fan-out.
func NewSyncer(directory Directory, repo SyncRepositoryPort, logger *slog.Logger, workers int) *Syncer {
	if logger == nil {
		logger = slog.Default()
	}
	if workers <= 0 {
		workers = 4
	}
	return &Syncer{directory: directory, repo: repo, logger: logger, workers: workers}
}

// Sync lists the directory and upserts every account. The first failing
// upsert cancels the rest.
func (s *Syncer) Sync(ctx context.Context) (int, error) {
	accounts, err := s.directory.ListUsers(ctx)
	if err != nil {
		return 0, err
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for _, account := range accounts {
		g.Go(func() error {
			return s.repo.UpsertUser(ctx, account)
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	s.logger.Info("identity sync complete", slog.Int("accounts", len(accounts)))
	return len(accounts), nil
}

// StaticDirectory exposes the static verifier entries as a directory, for
// deployments running without a real identity provider.
type StaticDirectory struct {
	entries []StaticToken
}

// NewStaticDirectory builds a directory over static token entries.
func NewStaticDirectory(entries []StaticToken) *StaticDirectory {
	return &StaticDirectory{entries: entries}
}

// ListUsers returns one active account per static token entry.
func (d *StaticDirectory) ListUsers(ctx context.Context) ([]DirectoryUser, error) {
	users := make([]DirectoryUser, 0, len(d.entries))
	for _, entry := range d.entries {
		users = append(users, DirectoryUser{AuthID: entry.AuthID, Email: entry.Email, Active: true})
	}
	return users, nil
}
