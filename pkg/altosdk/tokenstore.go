package altosdk

import (
	"context"
	"sync"
)

// CredentialStore is the durable home of the rotating refresh credential.
// Nothing else is ever persisted: the access token stays in memory.
//
// Load returns the empty string (not an error) when no credential is stored.
type CredentialStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, refreshToken string) error
	Delete(ctx context.Context) error
}

// TokenStore holds the current access credential in volatile memory. At most
// one credential is current at any time; only the Client mutates it. The
// mutex exists because callers live on arbitrary goroutines, not because
// there are concurrent writers.
type TokenStore struct {
	creds CredentialStore

	mu    sync.RWMutex
	token string
}

// NewTokenStore returns a TokenStore whose Clear also purges the refresh
// credential persisted in creds.
func NewTokenStore(creds CredentialStore) *TokenStore {
	return &TokenStore{creds: creds}
}

// Set replaces the current access credential.
func (s *TokenStore) Set(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

// Get returns the current access credential, ok false when none is held.
func (s *TokenStore) Get() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

// Clear drops the in-memory access credential and deletes the persisted
// refresh credential. The store deletion error is returned so callers can log
// it, but the in-memory clear always happens.
func (s *TokenStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()

	return s.creds.Delete(ctx)
}
