package altosdk

import (
	"context"
	"sync"
)

// MemCredentialStore is an in-memory CredentialStore. Sessions backed by it
// do not survive a process restart; it exists for tests and for callers that
// explicitly want ephemeral sessions.
type MemCredentialStore struct {
	mu    sync.Mutex
	token string
}

// NewMemCredentialStore returns an empty in-memory store.
func NewMemCredentialStore() *MemCredentialStore {
	return &MemCredentialStore{}
}

// Load implements CredentialStore.
func (s *MemCredentialStore) Load(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

// Save implements CredentialStore.
func (s *MemCredentialStore) Save(ctx context.Context, refreshToken string) error {
	s.mu.Lock()
	s.token = refreshToken
	s.mu.Unlock()
	return nil
}

// Delete implements CredentialStore.
func (s *MemCredentialStore) Delete(ctx context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	return nil
}
