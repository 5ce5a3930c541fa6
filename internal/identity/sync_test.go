package identity

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDirectory struct {
	users []DirectoryUser
	err   error
}

func (s *stubDirectory) ListUsers(ctx context.Context) ([]DirectoryUser, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.users, nil
}

type stubSyncRepo struct {
	mu       sync.Mutex
	upserted []DirectoryUser
	failOn   string
}

func (s *stubSyncRepo) UpsertUser(ctx context.Context, user DirectoryUser) error {
	if s.failOn != "" && user.AuthID == s.failOn {
		return errors.New("upsert failed")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upserted = append(s.upserted, user)
	return nil
}

func TestSyncUpsertsAllAccounts(t *testing.T) {
	directory := &stubDirectory{users: []DirectoryUser{
		{AuthID: "a1", Email: "a1@test.local", Active: true},
		{AuthID: "a2", Email: "a2@test.local", Active: true},
		{AuthID: "a3", Email: "a3@test.local", Active: false},
	}}
	repo := &stubSyncRepo{}
	syncer := NewSyncer(directory, repo, nil, 2)

	n, err := syncer.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Len(t, repo.upserted, 3)
}

func TestSyncPropagatesDirectoryError(t *testing.T) {
	syncer := NewSyncer(&stubDirectory{err: errors.New("provider down")}, &stubSyncRepo{}, nil, 2)

	_, err := syncer.Sync(context.Background())
	assert.Error(t, err)
}

func TestSyncPropagatesUpsertError(t *testing.T) {
	directory := &stubDirectory{users: []DirectoryUser{
		{AuthID: "a1"}, {AuthID: "a2"}, {AuthID: "a3"},
	}}
	syncer := NewSyncer(directory, &stubSyncRepo{failOn: "a2"}, nil, 1)

	_, err := syncer.Sync(context.Background())
	assert.Error(t, err)
}

func TestStaticDirectory(t *testing.T) {
	directory := NewStaticDirectory([]StaticToken{
		{AuthID: "a1", Email: "a1@test.local"},
	})
	users, err := directory.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.True(t, users[0].Active)
}
